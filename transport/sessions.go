// Package transport holds the outer surface of the engine: the in-memory
// session/presence directory and the websocket adapter that turns a
// connection into an event sink.
package transport

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"chatserver/contract"
)

// SessionDirectory is an in-memory presence directory: session id to
// session, plus an owner index. It satisfies contract.SessionDirectory.
type SessionDirectory struct {
	mu       sync.RWMutex
	log      *slog.Logger
	sessions map[string]contract.Session
	byOwner  map[string][]string
}

func NewSessionDirectory(log *slog.Logger) *SessionDirectory {
	return &SessionDirectory{
		log:      log,
		sessions: make(map[string]contract.Session),
		byOwner:  make(map[string][]string),
	}
}

// Register creates a session for owner with the given delivery sink.
func (d *SessionDirectory) Register(owner string, sink contract.EventSink) contract.Session {
	sess := contract.Session{
		ID:        uuid.NewString(),
		Owner:     owner,
		CreatedAt: time.Now(),
		Sink:      sink,
	}
	d.mu.Lock()
	d.sessions[sess.ID] = sess
	d.byOwner[owner] = append(d.byOwner[owner], sess.ID)
	d.mu.Unlock()
	d.log.Debug("Session registered", "session", sess.ID, "owner", owner)
	return sess
}

// Unregister drops the session. Unknown ids are no-ops.
func (d *SessionDirectory) Unregister(sessionID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	sess, ok := d.sessions[sessionID]
	if !ok {
		return
	}
	delete(d.sessions, sessionID)
	ids := d.byOwner[sess.Owner]
	for i, id := range ids {
		if id == sessionID {
			d.byOwner[sess.Owner] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(d.byOwner[sess.Owner]) == 0 {
		delete(d.byOwner, sess.Owner)
	}
}

func (d *SessionDirectory) GetSession(sessionID string) (contract.Session, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	sess, ok := d.sessions[sessionID]
	return sess, ok
}

func (d *SessionDirectory) GetSessionsForOwner(owner string) []contract.Session {
	d.mu.RLock()
	defer d.mu.RUnlock()
	ids := d.byOwner[owner]
	out := make([]contract.Session, 0, len(ids))
	for _, id := range ids {
		out = append(out, d.sessions[id])
	}
	return out
}
