// Package services exposes the per-session command surface of the
// meeting engine. One SessionHandler exists per connected session and
// translates inbound client actions into registry and meeting calls.
package services

import (
	"log/slog"

	"github.com/go-playground/validator/v10"

	"chatserver/contract"
	"chatserver/domain"
	"chatserver/runtime"
)

type SessionHandler struct {
	registry *runtime.Registry
	log      *slog.Logger
	validate *validator.Validate

	sessionID string
	owner     string

	roomsImIn      domain.Set
	roomsIModerate map[string]*domain.Meeting
}

func NewSessionHandler(registry *runtime.Registry, sess contract.Session, log *slog.Logger) *SessionHandler {
	return &SessionHandler{
		registry:       registry,
		log:            log,
		validate:       validator.New(),
		sessionID:      sess.ID,
		owner:          sess.Owner,
		roomsImIn:      domain.NewSet(),
		roomsIModerate: make(map[string]*domain.Meeting),
	}
}

func (h *SessionHandler) SessionID() string { return h.sessionID }
func (h *SessionHandler) Owner() string     { return h.owner }

// PostMessage stamps the message with this session's identity and posts
// it to every distinct destination room it names.
func (h *SessionHandler) PostMessage(msg *domain.MessageInfo) bool {
	msg.Creator = h.owner
	msg.SenderSID = h.sessionID
	result := true
	for roomID := range domain.NewSet(msg.ContainerID) {
		result = h.registry.PostMessageToRoom(roomID, msg) && result
	}
	return result
}

// EnterRoom handles the three enter cases: an explicit room id is
// unsupported, a container-scoped request without occupants delegates to
// the container flow, and anything else builds an ad-hoc room with the
// caller forced into the occupant list. Failure is reported to the
// caller as a FailedToEnterRoom event, never an error.
func (h *SessionHandler) EnterRoom(req *domain.RoomRequest) *domain.Meeting {
	req.Creator = h.owner
	var room *domain.Meeting

	switch {
	case h.validate.Struct(req) != nil:
		// Requests are built by our own transport layer; a malformed one
		// is a bug there, not a user condition.
		h.log.Error("Malformed room request", "session", h.sessionID)
	case req.RoomID != "":
		// Joining an established room by id. Currently unsupported.
		h.log.Debug("Cannot enter existing room", "room", req.RoomID)
	case len(req.Occupants) == 0 && req.ContainerID != "":
		// No occupants but a container id: something that persistently
		// hosts meetings. Create or join it.
		req.Occupants = []domain.Occupant{{Name: h.owner, SessionID: h.sessionID}}
		room = h.registry.EnterMeetingInContainer(req)
	default:
		// An ad-hoc room. Make sure I'm in it, exactly once, with this
		// session.
		occupants := make([]domain.Occupant, 0, len(req.Occupants)+1)
		for _, occupant := range req.Occupants {
			if occupant.Name != h.owner {
				occupants = append(occupants, occupant)
			}
		}
		req.Occupants = append(occupants, domain.Occupant{Name: h.owner, SessionID: h.sessionID})
		room = h.registry.CreateRoomFromDict(req)
	}

	if room == nil {
		h.registry.Emit(domain.EventFailedToEnterRoom, []string{h.sessionID}, req)
		return nil
	}
	h.roomsImIn.Add(room.ID())
	return room
}

func (h *SessionHandler) ExitRoom(roomID string) bool {
	result := h.registry.ExitMeeting(roomID, h.sessionID)
	h.roomsImIn.Discard(roomID)
	return result
}

// MakeModerated toggles a room's moderation flag. Becoming moderated
// also registers this session as a moderator of the room.
func (h *SessionHandler) MakeModerated(roomID string, flag bool) *domain.Meeting {
	room, ok := h.registry.GetMeeting(roomID)
	if !ok || flag == room.IsModerated() {
		h.log.Debug("Not changing moderation status",
			"room", roomID, "flag", flag)
		return room
	}
	room.SetModerated(flag)
	if flag {
		h.log.Debug("Becoming moderator of room",
			"room", roomID, "session", h.sessionID)
		room.AddModerator(h.sessionID)
		h.roomsIModerate[roomID] = room
	} else {
		delete(h.roomsIModerate, roomID)
	}
	return room
}

// ApproveMessages releases pending messages. The client does not say
// which room holds each message, so every room this session moderates is
// tried; unknown ids are no-ops.
func (h *SessionHandler) ApproveMessages(msgIDs []string) {
	for _, msgID := range msgIDs {
		for _, room := range h.roomsIModerate {
			room.ApproveMessage(msgID)
		}
	}
}

// FlagMessagesToUsers points the named users at messages needing their
// attention. Only the message id travels, never the content.
func (h *SessionHandler) FlagMessagesToUsers(msgIDs []string, usernames []string) {
	var audience []string
	for _, username := range usernames {
		if sess, ok := h.registry.SessionForOwner(username, nil); ok {
			audience = append(audience, sess.ID)
		}
	}
	for _, msgID := range msgIDs {
		h.registry.Emit(domain.EventRecvMessageForAttention, audience, msgID)
	}
}

// ShadowUsers adds the named users to the room's shadow list. Only
// effective on an existing, moderated room.
func (h *SessionHandler) ShadowUsers(roomID string, usernames []string) bool {
	room, ok := h.registry.GetMeeting(roomID)
	if !ok || !room.IsModerated() {
		return false
	}
	result := true
	for _, username := range usernames {
		result = room.ShadowUser(username) && result
	}
	return result
}

// Destroy exits every room this session was in. The room set is copied
// first since exiting mutates it.
func (h *SessionHandler) Destroy() {
	for roomID := range h.roomsImIn.Clone() {
		h.ExitRoom(roomID)
	}
}
