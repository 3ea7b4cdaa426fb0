package domain

// Occupant names one requested room member, optionally pinned to a
// specific session.
type Occupant struct {
	Name      string `json:"Name" validate:"required"`
	SessionID string `json:"SessionID"`
}

// RoomRequest is a client's ask to enter or create a meeting. Creator is
// always stamped by the session handler, never trusted from the client.
type RoomRequest struct {
	RoomID      string     `json:"RoomId"`
	ContainerID string     `json:"ContainerId"`
	Creator     string     `json:"Creator" validate:"required"`
	Occupants   []Occupant `json:"Occupants" validate:"dive"`
	InReplyTo   string     `json:"inReplyTo"`
}

// Clone copies the request so callers can rewrite the occupant list
// without surprising the requester.
func (r *RoomRequest) Clone() *RoomRequest {
	out := *r
	out.Occupants = make([]Occupant, len(r.Occupants))
	copy(out.Occupants, r.Occupants)
	return &out
}
