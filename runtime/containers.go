package runtime

import (
	"sync"

	"chatserver/contract"
	"chatserver/domain"
)

// ContainerIndex is an in-memory ContainerDirectory. Only registered
// containers can host meetings; lookups for anything else fail fast.
type ContainerIndex struct {
	mu         sync.RWMutex
	containers map[string]contract.MeetingContainer
}

func NewContainerIndex() *ContainerIndex {
	return &ContainerIndex{containers: make(map[string]contract.MeetingContainer)}
}

func (x *ContainerIndex) Register(containerID string, container contract.MeetingContainer) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.containers[containerID] = container
}

func (x *ContainerIndex) Get(containerID string) (contract.MeetingContainer, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	container, ok := x.containers[containerID]
	return container, ok
}

// GroupMeetingContainer hosts at most one live meeting for a fixed
// group of identities. Requests from outside the group are vetoed, and
// a creation request is rewritten so the whole group is named as
// occupants, which gives every member a transcript whether or not they
// are online when the room starts.
type GroupMeetingContainer struct {
	mu      sync.Mutex
	members domain.Set
	room    *domain.Meeting
}

func NewGroupMeetingContainer(members ...string) *GroupMeetingContainer {
	return &GroupMeetingContainer{members: domain.NewSet(members...)}
}

func (c *GroupMeetingContainer) EnterActiveMeeting(req *domain.RoomRequest) *domain.Meeting {
	if len(req.Occupants) == 0 || !c.members.Has(req.Occupants[0].Name) {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.room != nil && c.room.IsActive() {
		return c.room
	}
	return nil
}

func (c *GroupMeetingContainer) CreateMeetingFromDict(req *domain.RoomRequest, constructor func() *domain.Meeting) *domain.Meeting {
	if len(req.Occupants) == 0 || !c.members.Has(req.Occupants[0].Name) {
		return nil
	}
	requester := req.Occupants[0]

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.room != nil && c.room.IsActive() {
		// Somebody else won the create race; hand their room back.
		return c.room
	}

	// The requester keeps its session binding, everybody else is named
	// by identity only.
	occupants := []domain.Occupant{requester}
	for _, name := range c.members.Sorted() {
		if name != requester.Name {
			occupants = append(occupants, domain.Occupant{Name: name})
		}
	}
	req.Occupants = occupants

	room := constructor()
	room.SetActive(true)
	c.room = room
	return room
}

func (c *GroupMeetingContainer) MeetingBecameEmpty(m *domain.Meeting) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.room == m {
		c.room = nil
	}
}
