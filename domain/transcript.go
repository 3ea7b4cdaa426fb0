package domain

import "time"

// TranscriptSummary describes one per-user transcript without loading
// its messages.
type TranscriptSummary struct {
	RoomID       string
	ContainerID  string
	Contributors []string
	MessageCount int
	// LastModified is the newest message's LastModified; zero for an
	// empty transcript.
	LastModified time.Time
}
