// Package domain contains core concepts of the meeting engine.
// This file defines chat messages and their routing metadata.
// No runtime, network, or storage logic should be added here.
package domain

import (
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// Channel is a routing lane with its own permission and fan-out rules.
type Channel string

const (
	ChannelDefault Channel = "DEFAULT"
	ChannelWhisper Channel = "WHISPER"
	ChannelContent Channel = "CONTENT"
	ChannelPoll    Channel = "POLL"
	ChannelMeta    Channel = "META"
)

// Channels lists every channel known to the engine. Anything else is
// rejected by the moderated dispatcher.
var Channels = []Channel{ChannelDefault, ChannelWhisper, ChannelContent, ChannelPoll, ChannelMeta}

func (c Channel) Known() bool {
	for _, k := range Channels {
		if c == k {
			return true
		}
	}
	return false
}

// Status of a message. It only ever advances forward.
type Status string

const (
	StatusInitial  Status = "INITIAL"
	StatusPending  Status = "PENDING"
	StatusPosted   Status = "POSTED"
	StatusShadowed Status = "SHADOWED"
)

// MessageInfo is one chat message. It is created by a session handler,
// mutated by the owning meeting during routing, and immutable once it
// reaches a transcript.
type MessageInfo struct {
	ID      string
	Creator string

	// SenderSID is the session id of the sender. It is only present
	// until the first routing pass; the registry clears it afterwards.
	SenderSID string

	CreatedTime  time.Time
	LastModified time.Time

	// ContainerID names the destination meeting. Once the message is
	// accepted into a meeting it is stamped with that meeting's ID and
	// never changes again.
	ContainerID string

	Channel    Channel
	Body       any
	Recipients []string

	// Threading: the message this one answers, and the full ancestor
	// chain. POLL answers must carry InReplyTo.
	InReplyTo  string
	References []string

	Status Status

	// SharedWith is computed by routing: every identity that received a
	// durable copy of this message.
	SharedWith Set
}

func NewMessageInfo() *MessageInfo {
	id := uuid.New()
	now := time.Now()
	return &MessageInfo{
		ID:           hex.EncodeToString(id[:]),
		CreatedTime:  now,
		LastModified: now,
		Channel:      ChannelDefault,
		Status:       StatusInitial,
	}
}

// IsDefaultChannel reports whether the message rides the default channel.
// An empty channel value counts as DEFAULT.
func (m *MessageInfo) IsDefaultChannel() bool {
	return m.Channel == "" || m.Channel == ChannelDefault
}

// RecipientsWithoutSender is the explicit recipient set minus the sender.
func (m *MessageInfo) RecipientsWithoutSender() Set {
	recip := NewSet(m.Recipients...)
	recip.Discard(m.Creator)
	return recip
}

// RecipientsWithSender is the explicit recipient set plus the sender.
func (m *MessageInfo) RecipientsWithSender() Set {
	recip := NewSet(m.Recipients...)
	recip.Add(m.Creator)
	return recip
}

// ToExternal projects the message for transport sinks.
func (m *MessageInfo) ToExternal() map[string]any {
	return map[string]any{
		"Class":        "MessageInfo",
		"ID":           m.ID,
		"Creator":      m.Creator,
		"ContainerId":  m.ContainerID,
		"Channel":      string(m.Channel),
		"Body":         m.Body,
		"Recipients":   m.Recipients,
		"InReplyTo":    m.InReplyTo,
		"References":   m.References,
		"Status":       string(m.Status),
		"CreatedTime":  m.CreatedTime.UnixMilli(),
		"LastModified": m.LastModified.UnixMilli(),
		"SharedWith":   m.SharedWith.Sorted(),
	}
}
