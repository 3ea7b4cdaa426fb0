package transport

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"chatserver/contract"
)

type nullSink struct{}

func (nullSink) Consume(contract.Event) error { return nil }

func Test_SessionDirectory_Register_And_Lookup(t *testing.T) {
	req := require.New(t)
	directory := NewSessionDirectory(slog.New(slog.NewTextHandler(io.Discard, nil)))

	first := directory.Register("alice", nullSink{})
	second := directory.Register("alice", nullSink{})
	directory.Register("bob", nullSink{})

	found, ok := directory.GetSession(first.ID)
	req.True(ok)
	req.Equal("alice", found.Owner)

	req.Len(directory.GetSessionsForOwner("alice"), 2)
	req.Len(directory.GetSessionsForOwner("bob"), 1)
	req.Empty(directory.GetSessionsForOwner("ghost"))

	directory.Unregister(second.ID)
	directory.Unregister("never-existed")
	req.Len(directory.GetSessionsForOwner("alice"), 1)
	_, ok = directory.GetSession(second.ID)
	req.False(ok)
}
