package domain

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/samber/lo"
)

// Meeting is one chat room: the unit of message routing and occupancy.
//
// A meeting is either unmoderated or moderated. Moderation is a mode, not
// a separate lifecycle: toggling it on attaches the moderation payload
// (moderators, shadow list, approval queue) and toggling it off discards
// that payload entirely.
//
// All mutation goes through the meeting's own methods, serialized by one
// mutex, so message N is fully routed and transcripted before message N+1
// begins.
type Meeting struct {
	mu  sync.Mutex
	srv Chatserver
	log *slog.Logger

	id           string
	containerID  string
	active       bool
	messageCount int
	createdTime  time.Time

	occupants Set

	// Identities that always receive a transcript copy, typically because
	// the meeting was started in reply to content shared with them, even
	// if they never came online.
	addlTranscripts Set

	mod *moderationState // nil while unmoderated
}

// RoomInfo is the client-visible projection of a meeting.
type RoomInfo struct {
	Class        string    `json:"Class"`
	ID           string    `json:"ID"`
	ContainerID  string    `json:"ContainerId"`
	Active       bool      `json:"Active"`
	Moderated    bool      `json:"Moderated"`
	Moderators   []string  `json:"Moderators"`
	Occupants    []string  `json:"Occupants"`
	MessageCount int       `json:"MessageCount"`
	CreatedTime  time.Time `json:"CreatedTime"`
}

func NewMeeting(srv Chatserver, log *slog.Logger) *Meeting {
	return &Meeting{
		srv:             srv,
		log:             log,
		active:          true,
		createdTime:     time.Now(),
		occupants:       NewSet(),
		addlTranscripts: NewSet(),
	}
}

func (m *Meeting) ID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.id
}

func (m *Meeting) SetID(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.id = id
}

func (m *Meeting) ContainerID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.containerID
}

func (m *Meeting) SetContainerID(containerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.containerID = containerID
}

func (m *Meeting) IsActive() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

func (m *Meeting) SetActive(active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = active
}

func (m *Meeting) MessageCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.messageCount
}

func (m *Meeting) CreatedTime() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createdTime
}

// OccupantSessionIDs returns a snapshot of the session ids in the room.
func (m *Meeting) OccupantSessionIDs() Set {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.occupants.Clone()
}

func (m *Meeting) OccupantCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.occupants)
}

// OccupantIdentities resolves the current occupants to the identities of
// their live sessions. Dead sessions drop out, so this can be smaller
// than the occupant set.
func (m *Meeting) OccupantIdentities() Set {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.occupantIdentitiesLocked()
}

// AddAdditionalTranscriptRecipient ensures identity gets every transcript
// of this meeting regardless of presence.
func (m *Meeting) AddAdditionalTranscriptRecipient(identity string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addlTranscripts.Add(identity)
}

// AddOccupant adds one session to the room. Adding a session already
// present is a no-op. When broadcast is true the new occupant gets
// EnteredRoom and everyone else RoomMembershipChanged; bulk updates pass
// false and announce once themselves.
func (m *Meeting) AddOccupant(sessionID string, broadcast bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.occupants.Has(sessionID) {
		m.log.Debug("Session already occupies room, not re-adding",
			"session", sessionID, "room", m.id)
		return
	}
	m.occupants.Add(sessionID)
	if !broadcast {
		return
	}
	info := m.roomInfoLocked()
	m.emitLocked(EventEnteredRoom, []string{sessionID}, info)
	others := m.occupants.Clone()
	others.Discard(sessionID)
	m.emitLocked(EventRoomMembershipChanged, others.Sorted(), info)
}

// AddOccupants adds every session in one step and announces the change
// exactly once: one EnteredRoom to the new members, one
// RoomMembershipChanged to the old ones.
func (m *Meeting) AddOccupants(sessionIDs []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	newMembers := NewSet(sessionIDs...).Difference(m.occupants)
	oldMembers := m.occupants.Clone()
	m.occupants = m.occupants.Union(newMembers)
	info := m.roomInfoLocked()
	m.emitLocked(EventEnteredRoom, newMembers.Sorted(), info)
	m.emitLocked(EventRoomMembershipChanged, oldMembers.Sorted(), info)
}

// RemoveOccupant removes one session, reporting whether it was present.
func (m *Meeting) RemoveOccupant(sessionID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.occupants.Has(sessionID) {
		return false
	}
	m.occupants.Discard(sessionID)
	info := m.roomInfoLocked()
	m.emitLocked(EventExitedRoom, []string{sessionID}, info)
	m.emitLocked(EventRoomMembershipChanged, m.occupants.Sorted(), info)
	return true
}

func (m *Meeting) IsModerated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mod != nil
}

// SetModerated toggles moderation. Asking for the current state is a
// no-op; an actual transition allocates or discards the moderation
// payload and announces RoomModerationChanged to every occupant.
func (m *Meeting) SetModerated(flag bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if flag == (m.mod != nil) {
		return
	}
	if flag {
		m.mod = newModerationState()
	} else {
		m.mod = nil
	}
	m.emitLocked(EventRoomModerationChanged, m.occupants.Sorted(), m.roomInfoLocked())
}

// RoomInfo projects the meeting for clients.
func (m *Meeting) RoomInfo() RoomInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.roomInfoLocked()
}

// PostMessage routes one message through the meeting. It reports whether
// the message was handled; a false return means the message was dropped
// by policy and nothing observable happened.
func (m *Meeting) PostMessage(msg *MessageInfo) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mod != nil {
		return m.postModeratedLocked(msg)
	}
	if !msg.IsDefaultChannel() && msg.Channel != ChannelWhisper {
		m.log.Debug("Dropping message on unsupported channel",
			"channel", string(msg.Channel), "room", m.id)
		return false
	}
	return m.routeLocked(msg)
}

func (m *Meeting) String() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fmt.Sprintf("Meeting(%s occupants=%v moderated=%v)",
		m.id, m.occupants.Sorted(), m.mod != nil)
}

// ---- internals, meeting lock held ----

func (m *Meeting) roomInfoLocked() RoomInfo {
	return RoomInfo{
		Class:        "RoomInfo",
		ID:           m.id,
		ContainerID:  m.containerID,
		Active:       m.active,
		Moderated:    m.mod != nil,
		Moderators:   m.moderatorIdentitiesLocked().Sorted(),
		Occupants:    m.occupantIdentitiesLocked().Sorted(),
		MessageCount: m.messageCount,
		CreatedTime:  m.createdTime,
	}
}

func (m *Meeting) occupantIdentitiesLocked() Set {
	names := NewSet()
	for _, sess := range m.sessionsForLocked(m.occupants) {
		names.Add(sess.Owner)
	}
	return names
}

// sessionsForLocked resolves session ids to live sessions, skipping gone
// ones.
func (m *Meeting) sessionsForLocked(sids Set) []Session {
	var out []Session
	for sid := range sids {
		if sess, ok := m.srv.Session(sid); ok {
			out = append(out, sess)
		}
	}
	return out
}

// treatAsDefaultLocked: a message counts as default-channel routing when
// it actually rides DEFAULT, or when it names nobody besides its sender.
func (m *Meeting) treatAsDefaultLocked(msg *MessageInfo) bool {
	return msg.IsDefaultChannel() || len(msg.RecipientsWithoutSender()) == 0
}

// recipientSessionsLocked computes the live sessions the message targets:
// every occupant for default-style messages, otherwise the sessions of
// the named recipients (sender included) still present in the room.
func (m *Meeting) recipientSessionsLocked(msg *MessageInfo) map[string]Session {
	out := make(map[string]Session)
	if m.treatAsDefaultLocked(msg) {
		for _, sess := range m.sessionsForLocked(m.occupants) {
			out[sess.ID] = sess
		}
		return out
	}
	for recipient := range msg.RecipientsWithSender() {
		if sess, ok := m.srv.SessionForOwner(recipient, m.occupants); ok {
			out[sess.ID] = sess
		}
	}
	return out
}

// excludedWhenConsideringAllLocked: sessions left out of the "is this
// message to everyone" comparison. Moderators are excluded in moderated
// mode so a whisper to the whole room minus the moderators does not pass
// as a broadcast.
func (m *Meeting) excludedWhenConsideringAllLocked() Set {
	if m.mod == nil {
		return NewSet()
	}
	return m.mod.moderators.Clone()
}

func (m *Meeting) isToAllOccupantsLocked(msg *MessageInfo, recipientSIDs Set) bool {
	if m.treatAsDefaultLocked(msg) {
		return true
	}
	return recipientSIDs.Equal(m.occupants.Difference(m.excludedWhenConsideringAllLocked()))
}

// routeLocked is the common routing algorithm shared by both modes.
// Moderated channel handlers call it once their policy admits a message.
func (m *Meeting) routeLocked(msg *MessageInfo) bool {
	msg.Status = StatusPosted
	// Ensure it's this room, thank you.
	msg.ContainerID = m.id
	msg.LastModified = time.Now()

	transcriptOwners := m.addlTranscripts.Clone()
	transcriptOwners.Add(msg.Creator)

	recipients := m.recipientSessionsLocked(msg)
	recipientSIDs := NewSet(lo.Keys(recipients)...)

	// Everyone who gets the transcript is also on the sharing list. Set
	// before routing so the durable copies carry it too.
	shared := transcriptOwners.Clone()
	for _, sess := range recipients {
		shared.Add(sess.Owner)
	}
	msg.SharedWith = shared

	if m.isToAllOccupantsLocked(msg, recipientSIDs) {
		// Recipients are ignored for the default channel, and a message
		// to everyone also counts toward the message count.
		m.messageCount++
		m.emitLocked(EventRecvMessage, recipientSIDs.Sorted(), msg)
	} else {
		for sid := range recipients {
			m.emitLocked(EventRecvMessage, []string{sid}, msg)
		}
	}

	m.srv.SaveMessageToTranscripts(msg, recipientSIDs, transcriptOwners, m.containerID)
	return true
}

// emitLocked drops events with nobody to deliver to.
func (m *Meeting) emitLocked(kind EventKind, audience []string, payload any) {
	if len(audience) == 0 {
		return
	}
	m.srv.Emit(kind, audience, payload)
}
