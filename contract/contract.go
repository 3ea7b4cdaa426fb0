//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"time"

	"chatserver/domain"
)

// Event is one outbound notification crossing the transport boundary.
type Event struct {
	Kind    domain.EventKind
	Payload any
}

// EventSink is the delivery side of a connected session. Consume must be
// safe to call after the session is gone; delivery then degrades to a
// no-op or an error the registry logs and swallows.
type EventSink interface {
	Consume(e Event) error
}

// Session is one connected client session as the presence directory
// knows it.
type Session struct {
	ID        string
	Owner     string
	CreatedAt time.Time
	Sink      EventSink
}

// SessionDirectory is the external session/presence directory. Both
// lookups are total: absent sessions come back as ok=false or an empty
// slice, never an error.
type SessionDirectory interface {
	GetSession(sessionID string) (Session, bool)
	GetSessionsForOwner(owner string) []Session
}

// MeetingContainer governs meetings hosted by an external space, such as
// a class section that allows at most one active meeting.
type MeetingContainer interface {
	// EnterActiveMeeting returns the container's active meeting if the
	// requester may join it, or nil to make the registry attempt
	// creation instead.
	EnterActiveMeeting(req *domain.RoomRequest) *domain.Meeting

	// CreateMeetingFromDict gives the container first refusal on
	// creation. It may veto (nil), or build a meeting with constructor
	// and rewrite the request's occupant list as it sees fit.
	CreateMeetingFromDict(req *domain.RoomRequest, constructor func() *domain.Meeting) *domain.Meeting

	// MeetingBecameEmpty tells the container its meeting drained to zero
	// occupants. The container may reactivate it to keep it alive.
	MeetingBecameEmpty(m *domain.Meeting)
}

// ContainerDirectory resolves container ids. Ids that do not name a
// meeting-hosting space report ok=false.
type ContainerDirectory interface {
	Get(containerID string) (MeetingContainer, bool)
}

// TranscriptRepository is the durable store for per-identity,
// per-meeting transcripts and their change feed.
type TranscriptRepository interface {
	// AddMessageForAll appends msg to every identity's transcript of the
	// meeting, plus one change-feed record each, in a single atomic
	// transaction.
	AddMessageForAll(identities []string, meetingID, meetingContainerID string, msg *domain.MessageInfo) error

	// TranscriptForUserInRoom returns the messages identity received in
	// the meeting, in insertion order. Empty when the user never
	// appeared in a SharedWith set there.
	TranscriptForUserInRoom(identity, meetingID string) ([]domain.MessageInfo, error)

	// SummariesForUser describes every transcript the identity owns.
	SummariesForUser(identity string) ([]domain.TranscriptSummary, error)

	// ChangesForUser lists the identity's change feed, oldest first: one
	// message id per transcript write.
	ChangesForUser(identity string) ([]string, error)
}
