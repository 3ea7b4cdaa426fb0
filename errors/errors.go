package errors

import "fmt"

var (
	ErrNoTranscript    = fmt.Errorf("no transcript for user in room")
	ErrRoomNotFound    = fmt.Errorf("room not found")
	ErrSessionNotFound = fmt.Errorf("session not found")
)
