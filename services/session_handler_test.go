package services

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"chatserver/contract"
	"chatserver/domain"
	"chatserver/mocks"
	"chatserver/runtime"
)

type recordSink struct {
	events []contract.Event
}

func (s *recordSink) Consume(e contract.Event) error {
	s.events = append(s.events, e)
	return nil
}

func (s *recordSink) kinds() []domain.EventKind {
	out := make([]domain.EventKind, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.Kind)
	}
	return out
}

type fakeSessions struct {
	sessions map[string]contract.Session
}

func (f *fakeSessions) GetSession(sessionID string) (contract.Session, bool) {
	sess, ok := f.sessions[sessionID]
	return sess, ok
}

func (f *fakeSessions) GetSessionsForOwner(owner string) []contract.Session {
	var out []contract.Session
	for _, sess := range f.sessions {
		if sess.Owner == owner {
			out = append(out, sess)
		}
	}
	return out
}

type harness struct {
	registry *runtime.Registry
	sessions *fakeSessions
	sinks    map[string]*recordSink
}

func newHarness(t *testing.T, owners ...string) *harness {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	transcripts := mocks.NewMockTranscriptRepository(ctrl)
	transcripts.EXPECT().AddMessageForAll(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).AnyTimes()

	h := &harness{
		sessions: &fakeSessions{sessions: make(map[string]contract.Session)},
		sinks:    make(map[string]*recordSink),
	}
	for _, owner := range owners {
		sink := &recordSink{}
		sid := "s-" + owner
		h.sessions.sessions[sid] = contract.Session{ID: sid, Owner: owner, CreatedAt: time.Now(), Sink: sink}
		h.sinks[owner] = sink
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	h.registry = runtime.NewRegistry(log, h.sessions, runtime.NewContainerIndex(), transcripts)
	return h
}

func (h *harness) handlerFor(owner string) *SessionHandler {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewSessionHandler(h.registry, h.sessions.sessions["s-"+owner], log)
}

func Test_EnterRoom_Builds_Ad_Hoc_Room(t *testing.T) {
	req := require.New(t)
	h := newHarness(t, "alice", "bob")
	alice := h.handlerFor("alice")

	room := alice.EnterRoom(&domain.RoomRequest{
		Occupants: []domain.Occupant{{Name: "bob"}},
	})
	req.NotNil(room)
	req.Equal(domain.NewSet("alice", "bob"), room.OccupantIdentities())
	req.Equal([]domain.EventKind{domain.EventEnteredRoom}, h.sinks["alice"].kinds())
	req.Equal([]domain.EventKind{domain.EventEnteredRoom}, h.sinks["bob"].kinds())
}

func Test_EnterRoom_Failure_Is_An_Event(t *testing.T) {
	req := require.New(t)
	h := newHarness(t, "alice")
	alice := h.handlerFor("alice")

	// Nobody named in the request is online.
	req.Nil(alice.EnterRoom(&domain.RoomRequest{
		Occupants: []domain.Occupant{{Name: "ghost"}},
	}))
	req.Equal([]domain.EventKind{domain.EventFailedToEnterRoom}, h.sinks["alice"].kinds())

	// Entering an established room by id is not supported.
	req.Nil(alice.EnterRoom(&domain.RoomRequest{RoomID: "some-room"}))
	req.Len(h.sinks["alice"].events, 2)
}

func Test_PostMessage_Stamps_Sender(t *testing.T) {
	req := require.New(t)
	h := newHarness(t, "alice", "bob")
	alice := h.handlerFor("alice")
	room := alice.EnterRoom(&domain.RoomRequest{
		Occupants: []domain.Occupant{{Name: "bob"}},
	})
	req.NotNil(room)

	msg := domain.NewMessageInfo()
	msg.ContainerID = room.ID()
	msg.Body = "hi"
	// Whatever the client claims, the message is attributed to this
	// session's owner.
	msg.Creator = "bob"
	req.True(alice.PostMessage(msg))
	req.Equal("alice", msg.Creator)
	req.Empty(msg.SenderSID)
	req.Equal(1, room.MessageCount())
}

func Test_Moderation_Round_Trip(t *testing.T) {
	req := require.New(t)
	h := newHarness(t, "alice", "bob")
	alice := h.handlerFor("alice")
	bob := h.handlerFor("bob")

	room := alice.EnterRoom(&domain.RoomRequest{
		Occupants: []domain.Occupant{{Name: "bob"}},
	})
	req.NotNil(room)

	req.NotNil(alice.MakeModerated(room.ID(), true))
	req.True(room.IsModeratedBy("s-alice"))
	req.True(alice.ShadowUsers(room.ID(), []string{"bob"}))

	msg := domain.NewMessageInfo()
	msg.ContainerID = room.ID()
	msg.Body = "let me in"
	req.True(bob.PostMessage(msg))
	req.Equal(domain.StatusPending, msg.Status)
	req.Contains(h.sinks["alice"].kinds(), domain.EventRecvMessageForModeration)
	req.NotContains(h.sinks["bob"].kinds(), domain.EventRecvMessage)

	alice.ApproveMessages([]string{"unknown-id", msg.ID})
	req.Equal(domain.StatusPosted, msg.Status)
	req.Contains(h.sinks["bob"].kinds(), domain.EventRecvMessage)

	// Turning moderation back off is possible for anyone, not only the
	// moderator.
	req.NotNil(bob.MakeModerated(room.ID(), false))
	req.False(room.IsModerated())
}

func Test_FlagMessagesToUsers(t *testing.T) {
	req := require.New(t)
	h := newHarness(t, "alice", "bob", "carol")
	alice := h.handlerFor("alice")

	alice.FlagMessagesToUsers([]string{"m-1", "m-2"}, []string{"bob", "ghost"})
	kinds := h.sinks["bob"].kinds()
	req.Len(kinds, 2)
	req.Equal(domain.EventRecvMessageForAttention, kinds[0])
	req.Equal("m-1", h.sinks["bob"].events[0].Payload)
	req.Empty(h.sinks["carol"].events)
}

func Test_Destroy_Exits_Every_Room(t *testing.T) {
	req := require.New(t)
	h := newHarness(t, "alice", "bob")
	alice := h.handlerFor("alice")

	first := alice.EnterRoom(&domain.RoomRequest{
		Occupants: []domain.Occupant{{Name: "bob"}},
	})
	second := alice.EnterRoom(&domain.RoomRequest{
		Occupants: []domain.Occupant{{Name: "bob"}},
	})
	req.NotNil(first)
	req.NotNil(second)

	alice.Destroy()
	req.False(first.OccupantSessionIDs().Has("s-alice"))
	req.False(second.OccupantSessionIDs().Has("s-alice"))
}
