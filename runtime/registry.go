// Package runtime wires meetings, sessions, containers, and transcripts
// together. It owns no routing policy of its own; that lives with the
// meetings in the domain package.
package runtime

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"

	"chatserver/contract"
	"chatserver/domain"
)

// Registry is the process-wide directory of active meetings. It resolves
// sessions through the external presence directory, lets containers
// govern container-scoped rooms, and fans durable transcript copies out
// to the repository.
type Registry struct {
	mu  sync.RWMutex
	log *slog.Logger

	sessions    contract.SessionDirectory
	containers  contract.ContainerDirectory
	transcripts contract.TranscriptRepository

	rooms map[string]*domain.Meeting
}

func NewRegistry(log *slog.Logger, sessions contract.SessionDirectory,
	containers contract.ContainerDirectory, transcripts contract.TranscriptRepository) *Registry {
	return &Registry{
		log:         log,
		sessions:    sessions,
		containers:  containers,
		transcripts: transcripts,
		rooms:       make(map[string]*domain.Meeting),
	}
}

// ---- domain.Chatserver ----

func (r *Registry) Session(sessionID string) (domain.Session, bool) {
	sess, ok := r.sessions.GetSession(sessionID)
	if !ok {
		return domain.Session{}, false
	}
	return toDomainSession(sess), true
}

// SessionForOwner picks, among the owner's sessions allowed by the
// filter, the most recently created one. Ties break on creation time,
// newest first.
func (r *Registry) SessionForOwner(owner string, allowed domain.Set) (domain.Session, bool) {
	candidates := r.sessions.GetSessionsForOwner(owner)
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].CreatedAt.After(candidates[j].CreatedAt)
	})
	for _, sess := range candidates {
		if allowed == nil || allowed.Has(sess.ID) {
			return toDomainSession(sess), true
		}
	}
	return domain.Session{}, false
}

func (r *Registry) SaveMessageToTranscripts(msg *domain.MessageInfo, recipientSIDs domain.Set, owners domain.Set, meetingContainerID string) {
	identities := owners.Clone()
	for sid := range recipientSIDs {
		if sess, ok := r.sessions.GetSession(sid); ok {
			identities.Add(sess.Owner)
		}
	}

	if err := r.transcripts.AddMessageForAll(identities.Sorted(), msg.ContainerID, meetingContainerID, msg); err != nil {
		r.log.Error("Transcript write failed",
			"room", msg.ContainerID, "message", msg.ID, "error", err)
	}
}

// Emit delivers one event to each audience session that still has a live
// sink. Sessions that disconnected mid-delivery simply drop out.
func (r *Registry) Emit(kind domain.EventKind, audience []string, payload any) {
	for _, sid := range audience {
		sess, ok := r.sessions.GetSession(sid)
		if !ok || sess.Sink == nil {
			continue
		}
		if err := sess.Sink.Consume(contract.Event{Kind: kind, Payload: payload}); err != nil {
			r.log.Info("Event delivery failed",
				"event", string(kind), "session", sid, "error", err)
		}
	}
}

// ---- rooms ----

func (r *Registry) GetMeeting(roomID string) (*domain.Meeting, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[roomID]
	return room, ok
}

// PostMessageToRoom routes msg into the named room. Missing or inactive
// rooms, self-addressed messages, and senders who are not occupants all
// drop the message. The sender's transient session id is cleared once
// the routing pass is over, whatever the outcome.
func (r *Registry) PostMessageToRoom(roomID string, msg *domain.MessageInfo) bool {
	defer func() { msg.SenderSID = "" }()

	room, ok := r.GetMeeting(roomID)
	if !ok || !room.IsActive() {
		r.log.Info("Dropping message to missing or inactive room", "room", roomID)
		return false
	}
	// There is no valid use case for a sender messaging only himself,
	// and no good way to signal it, so it drops silently.
	if len(msg.Recipients) == 1 && len(msg.RecipientsWithoutSender()) == 0 {
		r.log.Info("Dropping message addressed only to its sender", "room", roomID)
		return false
	}
	if !room.OccupantIdentities().Has(msg.Creator) {
		r.log.Info("Dropping message from a sender not in the room",
			"room", roomID, "sender", msg.Creator)
		return false
	}
	return room.PostMessage(msg)
}

// EnterMeetingInContainer resolves the request's container and asks it
// whether the active meeting may be joined; when the container declines,
// creation is attempted exactly once via CreateRoomFromDict.
//
// Known limitation: two concurrent joiners of the same container can each
// miss the other's new room and create duplicates. The registry lock only
// covers the room map, not this whole create-or-join flow; serializing it
// here would change the observable duplicate-creation semantics.
func (r *Registry) EnterMeetingInContainer(req *domain.RoomRequest) *domain.Meeting {
	container, ok := r.containers.Get(req.ContainerID)
	if !ok {
		r.log.Info("Container cannot host meetings", "container", req.ContainerID)
		return nil
	}

	// We know we have exactly one occupant, the requester. The container
	// call below may rewrite the list, so hold on to it.
	requester := req.Occupants[0]
	room := container.EnterActiveMeeting(req)

	// A room that was never fully exited can sit active holding only
	// dead sessions. When every occupant session is gone, act as if each
	// of them exited, which deactivates the room and lets a fresh one be
	// created.
	if room != nil && room.OccupantCount() > 0 && len(room.OccupantIdentities()) == 0 {
		r.log.Debug("Clearing stale sessions from container meeting", "room", room.ID())
		for sid := range room.OccupantSessionIDs() {
			r.ExitMeeting(room.ID(), sid)
		}
		room = nil
	}

	if room != nil {
		r.log.Debug("Entering existing container meeting",
			"room", room.ID(), "session", requester.SessionID)
		room.AddOccupant(requester.SessionID, true)
		return room
	}
	return r.CreateRoomFromDict(req)
}

// CreateRoomFromDict builds a room from a request. A container named by
// the request gets first refusal and may veto outright. Occupant names
// resolve to live sessions; a room with zero resolvable occupants is
// never created.
func (r *Registry) CreateRoomFromDict(req *domain.RoomRequest) *domain.Meeting {
	req = req.Clone()

	var room *domain.Meeting
	if req.ContainerID != "" {
		if container, ok := r.containers.Get(req.ContainerID); ok {
			var created bool
			room = container.CreateMeetingFromDict(req, func() *domain.Meeting {
				created = true
				return domain.NewMeeting(r, r.log)
			})
			if room == nil || !room.IsActive() {
				r.log.Debug("Container vetoed room creation", "container", req.ContainerID)
				return nil
			}
			if !created {
				// The container handed back a room it already had, so
				// it is set up and registered; the requester just joins.
				return r.joinExistingRoom(room, req)
			}
			// The container deals in persistent rooms: whoever it names
			// as an occupant gets transcripts whether or not they are
			// online right now.
			for _, occupant := range req.Occupants {
				room.AddAdditionalTranscriptRecipient(occupant.Name)
			}
		}
	}
	if room == nil {
		room = domain.NewMeeting(r, r.log)
	}

	var sids []string
	for _, occupant := range req.Occupants {
		var allowed domain.Set
		if occupant.SessionID != "" {
			allowed = domain.NewSet(occupant.SessionID)
		}
		if sess, ok := r.SessionForOwner(occupant.Name, allowed); ok {
			sids = append(sids, sess.ID)
		}
	}
	if len(sids) == 0 {
		r.log.Debug("No live occupants found for room request", "container", req.ContainerID)
		return nil
	}

	room.SetID(uuid.NewString())
	room.SetContainerID(req.ContainerID)
	room.SetActive(true)

	r.mu.Lock()
	r.rooms[room.ID()] = room
	r.mu.Unlock()

	// The room is fully set up before sessions join, so the entry events
	// carry correct room info.
	room.AddOccupants(sids)
	return room
}

// joinExistingRoom puts the requesting occupant into a room the
// container already had running instead of building a new one.
func (r *Registry) joinExistingRoom(room *domain.Meeting, req *domain.RoomRequest) *domain.Meeting {
	if len(req.Occupants) == 0 {
		return nil
	}
	requester := req.Occupants[0]
	var allowed domain.Set
	if requester.SessionID != "" {
		allowed = domain.NewSet(requester.SessionID)
	}
	sess, ok := r.SessionForOwner(requester.Name, allowed)
	if !ok {
		r.log.Debug("No live session for requester of existing room",
			"room", room.ID(), "owner", requester.Name)
		return nil
	}
	r.log.Debug("Joining existing container meeting",
		"room", room.ID(), "session", sess.ID)
	room.AddOccupant(sess.ID, true)
	return room
}

// ExitMeeting removes the occupant from the room. When the room drains
// empty it is deactivated and its container notified; if the container
// does not revive it, the registry drops its reference. Transcripts keep
// their own copies and are unaffected.
func (r *Registry) ExitMeeting(roomID, sessionID string) bool {
	room, ok := r.GetMeeting(roomID)
	if !ok {
		return false
	}
	result := room.RemoveOccupant(sessionID)
	if room.OccupantCount() == 0 {
		room.SetActive(false)
		if container, ok := r.containers.Get(room.ContainerID()); ok {
			container.MeetingBecameEmpty(room)
		}
		if !room.IsActive() {
			r.mu.Lock()
			delete(r.rooms, roomID)
			r.mu.Unlock()
		}
	}
	return result
}

// ---- transcripts ----

func (r *Registry) TranscriptForUserInRoom(identity, roomID string) ([]domain.MessageInfo, error) {
	return r.transcripts.TranscriptForUserInRoom(identity, roomID)
}

func (r *Registry) ListTranscriptsForUser(identity string) ([]domain.TranscriptSummary, error) {
	return r.transcripts.SummariesForUser(identity)
}

func (r *Registry) ChangesForUser(identity string) ([]string, error) {
	return r.transcripts.ChangesForUser(identity)
}

// TranscriptSummariesForUserInContainer filters the user's transcripts
// down to meetings hosted by one container.
func (r *Registry) TranscriptSummariesForUserInContainer(identity, containerID string) ([]domain.TranscriptSummary, error) {
	summaries, err := r.transcripts.SummariesForUser(identity)
	if err != nil {
		return nil, err
	}
	var out []domain.TranscriptSummary
	for _, summary := range summaries {
		if summary.ContainerID == containerID {
			out = append(out, summary)
		}
	}
	return out, nil
}

func toDomainSession(sess contract.Session) domain.Session {
	return domain.Session{ID: sess.ID, Owner: sess.Owner, CreatedAt: sess.CreatedAt}
}
