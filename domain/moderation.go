package domain

import (
	"fmt"

	"github.com/samber/lo"
)

// moderationState is the payload attached to a meeting only while it is
// moderated. Dropping the pointer drops every trace of moderation.
type moderationState struct {
	moderators Set // session ids
	shadowed   Set // identities whose targeted messages are copied to moderators
	queue      map[string]*MessageInfo
}

func newModerationState() *moderationState {
	return &moderationState{
		moderators: NewSet(),
		shadowed:   NewSet(),
		queue:      make(map[string]*MessageInfo),
	}
}

// AddModerator grants moderation rights to a session and announces the
// changed room state to every occupant.
func (m *Meeting) AddModerator(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mod == nil || m.mod.moderators.Has(sessionID) {
		return
	}
	m.mod.moderators.Add(sessionID)
	m.emitLocked(EventRoomModerationChanged, m.occupants.Sorted(), m.roomInfoLocked())
}

// IsModeratedBy reports whether sessionID moderates this meeting.
func (m *Meeting) IsModeratedBy(sessionID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mod != nil && m.mod.moderators.Has(sessionID)
}

// Moderators returns a snapshot of the moderator session ids.
func (m *Meeting) Moderators() Set {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mod == nil {
		return NewSet()
	}
	return m.mod.moderators.Clone()
}

// ShadowUser causes every targeted message from or to identity to be
// copied to the moderators. Only meaningful while moderated.
func (m *Meeting) ShadowUser(identity string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mod == nil {
		return false
	}
	m.mod.shadowed.Add(identity)
	return true
}

// PendingMessageIDs lists the messages awaiting approval.
func (m *Meeting) PendingMessageIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mod == nil {
		return nil
	}
	ids := make([]string, 0, len(m.mod.queue))
	for id := range m.mod.queue {
		ids = append(ids, id)
	}
	return ids
}

// ApproveMessage releases one pending message into normal routing.
// Unknown ids, and meetings that are not moderated, are no-ops.
func (m *Meeting) ApproveMessage(msgID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mod == nil {
		return
	}
	msg, ok := m.mod.queue[msgID]
	if !ok {
		return
	}
	delete(m.mod.queue, msgID)
	msg.Status = StatusPosted
	m.routeLocked(msg)
}

// postModeratedLocked dispatches one message to its channel handler. An
// unknown channel finds no handler and the message is dropped.
func (m *Meeting) postModeratedLocked(msg *MessageInfo) bool {
	msg.ContainerID = m.id
	channel := msg.Channel
	if channel == "" {
		channel = ChannelDefault
	}

	var handled bool
	switch channel {
	case ChannelDefault:
		handled = m.handleDefaultLocked(msg)
	case ChannelWhisper:
		handled = m.handleWhisperLocked(msg)
	case ChannelContent:
		handled = m.handleContentLocked(msg)
	case ChannelMeta:
		handled = m.handleMetaLocked(msg)
	case ChannelPoll:
		handled = m.handlePollLocked(msg)
	default:
		m.log.Debug("Dropping message on unknown channel",
			"channel", string(channel), "room", m.id)
		return false
	}

	if !handled {
		m.log.Debug("Channel handler rejected message",
			"channel", string(channel), "room", m.id,
			"sender", msg.Creator, "sender_sid", msg.SenderSID,
			"moderators", m.mod.moderators.Sorted())
	}
	return handled
}

func (m *Meeting) moderatorIdentitiesLocked() Set {
	if m.mod == nil {
		return NewSet()
	}
	names := NewSet()
	for _, sess := range m.sessionsForLocked(m.mod.moderators) {
		names.Add(sess.Owner)
	}
	return names
}

// canSenderWhisperToLocked: the moderator can whisper to anyone, others
// only to moderators, and any pair of occupants may whisper one-on-one.
func (m *Meeting) canSenderWhisperToLocked(msg *MessageInfo) bool {
	mods := m.moderatorIdentitiesLocked()
	if mods.Has(msg.Creator) {
		return true
	}
	others := msg.RecipientsWithoutSender()
	if len(others) == 1 {
		return true
	}
	for recipient := range others {
		if !mods.Has(recipient) {
			return false
		}
	}
	return true
}

// shadowMessageLocked copies a targeted message to the moderators when
// anybody involved is on the shadow list, before normal routing runs.
// The original recipients never learn about the copy.
func (m *Meeting) shadowMessageLocked(msg *MessageInfo) {
	shadowed := false
	for involved := range msg.RecipientsWithSender() {
		if m.mod.shadowed.Has(involved) {
			shadowed = true
			break
		}
	}
	if !shadowed {
		return
	}
	msg.Status = StatusShadowed
	m.emitLocked(EventRecvMessageForShadow, m.mod.moderators.Sorted(), msg)
	m.srv.SaveMessageToTranscripts(msg, m.mod.moderators.Clone(), NewSet(), m.containerID)
}

func (m *Meeting) handleWhisperLocked(msg *MessageInfo) bool {
	if m.mod.moderators.Has(msg.SenderSID) {
		return m.routeLocked(msg)
	}
	recipientSIDs := NewSet(lo.Keys(m.recipientSessionsLocked(msg))...)
	if m.isToAllOccupantsLocked(msg, recipientSIDs) &&
		len(msg.RecipientsWithoutSender()) > 1 {
		// Whispering to everyone is just posting to the default channel.
		// The exception is a single peer besides the sender, which keeps
		// one-on-one whispering possible in a moderated room.
		return m.handleDefaultLocked(msg)
	}
	if !m.canSenderWhisperToLocked(msg) {
		return false
	}
	m.shadowMessageLocked(msg)
	return m.routeLocked(msg)
}

func (m *Meeting) handleDefaultLocked(msg *MessageInfo) bool {
	if m.mod.moderators.Has(msg.SenderSID) {
		return m.routeLocked(msg)
	}
	m.mod.queue[msg.ID] = msg
	msg.Status = StatusPending
	m.emitLocked(EventRecvMessageForModeration, m.mod.moderators.Sorted(), msg)
	return true
}

func (m *Meeting) handleContentLocked(msg *MessageInfo) bool {
	if !m.mod.moderators.Has(msg.SenderSID) {
		return false
	}
	body, ok := msg.Body.(map[string]any)
	if !ok {
		return false
	}
	ref, ok := body["ntiid"].(string)
	if !ok || !IsValidContentRef(ref) {
		return false
	}
	// Sanitize any keys we don't know about.
	msg.Body = map[string]any{"ntiid": ref}
	// Recipients are ignored, the message goes to everyone.
	msg.Recipients = nil
	return m.routeLocked(msg)
}

var metaActions = NewSet("pin", "clearPinned")

func (m *Meeting) handleMetaLocked(msg *MessageInfo) bool {
	if !m.mod.moderators.Has(msg.SenderSID) {
		return false
	}
	body, ok := msg.Body.(map[string]any)
	if !ok {
		return false
	}
	channel, ok := body["channel"].(string)
	if !ok || !Channel(channel).Known() {
		return false
	}
	action, ok := body["action"].(string)
	if !ok || !metaActions.Has(action) {
		return false
	}

	// Meta messages are always broadcasts.
	msg.Recipients = nil
	switch action {
	case "pin":
		ref, ok := body["ntiid"].(string)
		if !ok || !IsValidContentRef(ref) {
			return false
		}
		msg.Body = map[string]any{"channel": channel, "action": action, "ntiid": ref}
	case "clearPinned":
		msg.Body = map[string]any{"channel": channel, "action": action}
	default:
		// Validation admitted an action dispatch doesn't know. The two
		// have drifted out of sync and that is a bug, not a condition.
		panic(fmt.Sprintf("meta action %q", action))
	}
	return m.routeLocked(msg)
}

func (m *Meeting) handlePollLocked(msg *MessageInfo) bool {
	if m.mod.moderators.Has(msg.SenderSID) {
		// Polls from the moderator are broadcasts.
		msg.Recipients = nil
		return m.routeLocked(msg)
	}
	if msg.InReplyTo == "" {
		return false
	}
	// Answers go only to the moderators.
	msg.Recipients = m.moderatorIdentitiesLocked().Sorted()
	return m.routeLocked(msg)
}
