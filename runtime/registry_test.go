package runtime

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
)

type recordSink struct {
	events []contract.Event
}

func (s *recordSink) Consume(e contract.Event) error {
	s.events = append(s.events, e)
	return nil
}

// fakeSessions is a hand-rolled presence directory so tests control
// session ids and creation times exactly.
type fakeSessions struct {
	sessions map[string]contract.Session
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{sessions: make(map[string]contract.Session)}
}

func (f *fakeSessions) register(sid, owner string, at time.Time) *recordSink {
	sink := &recordSink{}
	f.sessions[sid] = contract.Session{ID: sid, Owner: owner, CreatedAt: at, Sink: sink}
	return sink
}

func (f *fakeSessions) drop(sid string) {
	delete(f.sessions, sid)
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

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func request(containerID string, names ...string) *domain.RoomRequest {
	req := &domain.RoomRequest{ContainerID: containerID, Creator: names[0]}
	for _, name := range names {
		req.Occupants = append(req.Occupants, domain.Occupant{Name: name})
	}
	return req
}

func Test_CreateRoomFromDict_Resolves_Occupants(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sessions := newFakeSessions()
	aliceSink := sessions.register("s-alice", "alice", time.Now())
	bobSink := sessions.register("s-bob", "bob", time.Now())
	transcripts := mocks.NewMockTranscriptRepository(ctrl)
	registry := NewRegistry(quietLogger(), sessions, NewContainerIndex(), transcripts)

	room := registry.CreateRoomFromDict(request("", "alice", "bob", "ghost"))
	req.NotNil(room)
	req.True(room.IsActive())
	req.NotEmpty(room.ID())
	req.Equal(domain.NewSet("alice", "bob"), room.OccupantIdentities())

	found, ok := registry.GetMeeting(room.ID())
	req.True(ok)
	req.Same(room, found)

	// Both live occupants were told they entered.
	req.Len(aliceSink.events, 1)
	req.Equal(domain.EventEnteredRoom, aliceSink.events[0].Kind)
	req.Len(bobSink.events, 1)
}

func Test_CreateRoomFromDict_Requires_A_Live_Occupant(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registry := NewRegistry(quietLogger(), newFakeSessions(), NewContainerIndex(),
		mocks.NewMockTranscriptRepository(ctrl))
	req.Nil(registry.CreateRoomFromDict(request("", "alice", "bob")))
}

func Test_CreateRoomFromDict_Container_Veto(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sessions := newFakeSessions()
	sessions.register("s-alice", "alice", time.Now())

	container := mocks.NewMockMeetingContainer(ctrl)
	container.EXPECT().CreateMeetingFromDict(gomock.Any(), gomock.Any()).Return(nil)
	directory := mocks.NewMockContainerDirectory(ctrl)
	directory.EXPECT().Get("section-1").Return(container, true)

	registry := NewRegistry(quietLogger(), sessions, directory,
		mocks.NewMockTranscriptRepository(ctrl))
	req.Nil(registry.CreateRoomFromDict(request("section-1", "alice")))
}

func Test_CreateRoomFromDict_Keeps_Existing_Container_Room(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sessions := newFakeSessions()
	sessions.register("s-alice", "alice", time.Now())
	sessions.register("s-bob", "bob", time.Now())
	containers := NewContainerIndex()
	containers.Register("section-1", NewGroupMeetingContainer("alice", "bob"))
	registry := NewRegistry(quietLogger(), sessions, containers,
		mocks.NewMockTranscriptRepository(ctrl))

	aliceReq := request("section-1", "alice")
	aliceReq.Occupants[0].SessionID = "s-alice"
	room := registry.EnterMeetingInContainer(aliceReq)
	req.NotNil(room)
	originalID := room.ID()

	// Bob asks for a brand-new room, but the container hands back the
	// one it already has. He joins it and its identity never changes.
	bobReq := request("section-1", "bob")
	bobReq.Occupants[0].SessionID = "s-bob"
	joined := registry.CreateRoomFromDict(bobReq)
	req.Same(room, joined)
	req.Equal(originalID, joined.ID())
	req.Equal(domain.NewSet("alice", "bob"), joined.OccupantIdentities())

	found, ok := registry.GetMeeting(originalID)
	req.True(ok)
	req.Same(room, found)
}

func Test_SessionForOwner_Prefers_Newest(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	now := time.Now()
	sessions := newFakeSessions()
	sessions.register("s-old", "alice", now.Add(-time.Hour))
	sessions.register("s-new", "alice", now)
	registry := NewRegistry(quietLogger(), sessions, NewContainerIndex(),
		mocks.NewMockTranscriptRepository(ctrl))

	sess, ok := registry.SessionForOwner("alice", nil)
	req.True(ok)
	req.Equal("s-new", sess.ID)

	// The filter can force an older session.
	sess, ok = registry.SessionForOwner("alice", domain.NewSet("s-old"))
	req.True(ok)
	req.Equal("s-old", sess.ID)

	_, ok = registry.SessionForOwner("bob", nil)
	req.False(ok)
}

func Test_PostMessageToRoom_Drop_Policies(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sessions := newFakeSessions()
	sessions.register("s-alice", "alice", time.Now())
	sessions.register("s-bob", "bob", time.Now())
	sessions.register("s-mallory", "mallory", time.Now())
	transcripts := mocks.NewMockTranscriptRepository(ctrl)
	transcripts.EXPECT().AddMessageForAll(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).AnyTimes()
	registry := NewRegistry(quietLogger(), sessions, NewContainerIndex(), transcripts)

	room := registry.CreateRoomFromDict(request("", "alice", "bob"))
	req.NotNil(room)

	msg := domain.NewMessageInfo()
	msg.Creator = "alice"
	msg.SenderSID = "s-alice"
	req.False(registry.PostMessageToRoom("no-such-room", msg))

	// A message addressed only to its own sender goes nowhere.
	msg = domain.NewMessageInfo()
	msg.Creator = "alice"
	msg.SenderSID = "s-alice"
	msg.Channel = domain.ChannelWhisper
	msg.Recipients = []string{"alice"}
	req.False(registry.PostMessageToRoom(room.ID(), msg))

	// Mallory is online but not in the room.
	msg = domain.NewMessageInfo()
	msg.Creator = "mallory"
	msg.SenderSID = "s-mallory"
	req.False(registry.PostMessageToRoom(room.ID(), msg))

	msg = domain.NewMessageInfo()
	msg.Creator = "alice"
	msg.SenderSID = "s-alice"
	msg.Body = "made it"
	req.True(registry.PostMessageToRoom(room.ID(), msg))
	req.Empty(msg.SenderSID)
}

func Test_SaveMessageToTranscripts_Resolves_Identities(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sessions := newFakeSessions()
	sessions.register("s-alice", "alice", time.Now())
	sessions.register("s-bob", "bob", time.Now())
	transcripts := mocks.NewMockTranscriptRepository(ctrl)
	registry := NewRegistry(quietLogger(), sessions, NewContainerIndex(), transcripts)

	room := registry.CreateRoomFromDict(request("", "alice", "bob"))
	req.NotNil(room)

	msg := domain.NewMessageInfo()
	msg.Creator = "alice"
	msg.SenderSID = "s-alice"
	msg.Body = "for the record"
	transcripts.EXPECT().
		AddMessageForAll([]string{"alice", "bob"}, room.ID(), "", msg).
		Return(nil)
	req.True(registry.PostMessageToRoom(room.ID(), msg))
}

func Test_EnterMeetingInContainer_Lifecycle(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sessions := newFakeSessions()
	sessions.register("s-alice", "alice", time.Now())
	containers := NewContainerIndex()
	containers.Register("section-1", NewGroupMeetingContainer("alice", "bob"))
	transcripts := mocks.NewMockTranscriptRepository(ctrl)
	registry := NewRegistry(quietLogger(), sessions, containers, transcripts)

	// Unknown containers cannot host meetings.
	badReq := request("nowhere", "alice")
	badReq.Occupants[0].SessionID = "s-alice"
	req.Nil(registry.EnterMeetingInContainer(badReq))

	// Outsiders are vetoed by the group.
	sessions.register("s-carol", "carol", time.Now())
	carolReq := request("section-1", "carol")
	carolReq.Occupants[0].SessionID = "s-carol"
	req.Nil(registry.EnterMeetingInContainer(carolReq))

	// Alice creates the room, and every group member is a transcript
	// recipient whether online or not.
	aliceReq := request("section-1", "alice")
	aliceReq.Occupants[0].SessionID = "s-alice"
	room := registry.EnterMeetingInContainer(aliceReq)
	req.NotNil(room)
	req.Equal("section-1", room.ContainerID())
	req.Equal(domain.NewSet("alice"), room.OccupantIdentities())

	// Bob comes online later and joins the same room.
	sessions.register("s-bob", "bob", time.Now())
	bobReq := request("section-1", "bob")
	bobReq.Occupants[0].SessionID = "s-bob"
	joined := registry.EnterMeetingInContainer(bobReq)
	req.NotNil(joined)
	req.Equal(room.ID(), joined.ID())
	req.Equal(2, joined.OccupantCount())

	// Everybody leaves: the room deactivates and the registry forgets it.
	req.True(registry.ExitMeeting(room.ID(), "s-alice"))
	req.True(registry.ExitMeeting(room.ID(), "s-bob"))
	req.False(room.IsActive())
	_, ok := registry.GetMeeting(room.ID())
	req.False(ok)

	// The next entry gets a fresh room.
	fresh := registry.EnterMeetingInContainer(bobReq)
	req.NotNil(fresh)
	req.NotEqual(room.ID(), fresh.ID())
}

func Test_EnterMeetingInContainer_Sweeps_Stale_Sessions(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sessions := newFakeSessions()
	sessions.register("s-alice", "alice", time.Now())
	containers := NewContainerIndex()
	containers.Register("section-1", NewGroupMeetingContainer("alice", "bob"))
	registry := NewRegistry(quietLogger(), sessions, containers,
		mocks.NewMockTranscriptRepository(ctrl))

	aliceReq := request("section-1", "alice")
	aliceReq.Occupants[0].SessionID = "s-alice"
	room := registry.EnterMeetingInContainer(aliceReq)
	req.NotNil(room)

	// Alice's connection dies without an exit. The room still holds her
	// session, but it resolves to nobody.
	sessions.drop("s-alice")
	req.Equal(1, room.OccupantCount())
	req.Empty(room.OccupantIdentities())

	sessions.register("s-bob", "bob", time.Now())
	bobReq := request("section-1", "bob")
	bobReq.Occupants[0].SessionID = "s-bob"
	fresh := registry.EnterMeetingInContainer(bobReq)
	req.NotNil(fresh)
	req.NotEqual(room.ID(), fresh.ID())
	req.Equal(domain.NewSet("bob"), fresh.OccupantIdentities())
}
