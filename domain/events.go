package domain

import "time"

// EventKind enumerates every event the engine emits toward session
// transports. The values double as wire names.
type EventKind string

const (
	EventEnteredRoom              EventKind = "chat_enteredRoom"
	EventExitedRoom               EventKind = "chat_exitedRoom"
	EventRoomMembershipChanged    EventKind = "chat_roomMembershipChanged"
	EventRoomModerationChanged    EventKind = "chat_roomModerationChanged"
	EventRecvMessage              EventKind = "chat_recvMessage"
	EventRecvMessageForModeration EventKind = "chat_recvMessageForModeration"
	EventRecvMessageForShadow     EventKind = "chat_recvMessageForShadow"
	EventRecvMessageForAttention  EventKind = "chat_recvMessageForAttention"
	EventFailedToEnterRoom        EventKind = "chat_failedToEnterRoom"
)

// Session is the narrow projection of a connected session the domain
// needs: who owns it and when it was created. Delivery sinks stay on the
// other side of the Chatserver boundary.
type Session struct {
	ID        string
	Owner     string
	CreatedAt time.Time
}

// Chatserver is what a Meeting requires from its owning registry:
// session resolution, transcript persistence, and event emission.
// Implemented by runtime.Registry.
type Chatserver interface {
	// Session resolves a session id. Total: reports false when gone.
	Session(sessionID string) (Session, bool)

	// SessionForOwner returns the most recently created session owned by
	// owner whose id is in allowed. A nil allowed set matches any session.
	SessionForOwner(owner string, allowed Set) (Session, bool)

	// SaveMessageToTranscripts durably appends msg to the transcript of
	// every identity behind recipientSIDs, plus every owner.
	// meetingContainerID names the space hosting the meeting, empty for
	// ad hoc rooms; the meeting passes it to avoid a lookup back into
	// itself mid-routing.
	SaveMessageToTranscripts(msg *MessageInfo, recipientSIDs Set, owners Set, meetingContainerID string)

	// Emit delivers one event to every audience session that still has a
	// live sink. Vanished sessions are skipped, never an error.
	Emit(kind EventKind, audience []string, payload any)
}
