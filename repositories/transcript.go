package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"

	"chatserver/domain"
)

// TranscriptRepository persists per-identity, per-meeting transcripts in
// BadgerDB.
//
// Transcript keys are "tr:{identity}:{meeting}:{timestamp_padded}:{msgID}":
//  1. The 19-digit zero padding keeps messages chronologically sorted
//     under a plain lexicographic prefix scan.
//  2. The message id disambiguates two messages landing on the same
//     nanosecond.
//
// Each transcript write also appends a change-feed record under
// "chg:{identity}:{timestamp_padded}:{msgID}", the durable "content
// changed" notification for that identity. Both are written in one
// transaction: a message either reaches every transcript and its change
// feed, or none of them.
type TranscriptRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewTranscriptRepository(db *badger.DB, log *slog.Logger) *TranscriptRepository {
	return &TranscriptRepository{db: db, log: log}
}

type diskMessage struct {
	ID           string   `json:"id"`
	MeetingID    string   `json:"meeting_id"`
	ContainerID  string   `json:"container_id"`
	Creator      string   `json:"creator"`
	Channel      string   `json:"channel"`
	Body         any      `json:"body"`
	Recipients   []string `json:"recipients,omitempty"`
	InReplyTo    string   `json:"in_reply_to,omitempty"`
	References   []string `json:"references,omitempty"`
	Status       string   `json:"status"`
	SharedWith   []string `json:"shared_with"`
	CreatedTime  int64    `json:"created_time"`
	LastModified int64    `json:"last_modified"`
}

type diskChange struct {
	MessageID string `json:"message_id"`
	MeetingID string `json:"meeting_id"`
	Creator   string `json:"creator"`
	At        int64  `json:"at"`
}

// AddMessageForAll appends msg to each identity's transcript of the
// meeting atomically.
func (r *TranscriptRepository) AddMessageForAll(identities []string, meetingID, meetingContainerID string, msg *domain.MessageInfo) error {
	record, err := json.Marshal(fromMessageInfo(msg, meetingID, meetingContainerID))
	if err != nil {
		return fmt.Errorf("encoding message %s: %w", msg.ID, err)
	}
	change, err := json.Marshal(diskChange{
		MessageID: msg.ID,
		MeetingID: meetingID,
		Creator:   msg.Creator,
		At:        msg.LastModified.UnixNano(),
	})
	if err != nil {
		return fmt.Errorf("encoding change for message %s: %w", msg.ID, err)
	}

	stamp := msg.LastModified.UnixNano()
	return r.db.Update(func(txn *badger.Txn) error {
		for _, identity := range identities {
			trKey := fmt.Sprintf("tr:%s:%s:%019d:%s", identity, meetingID, stamp, msg.ID)
			if err := txn.Set([]byte(trKey), record); err != nil {
				return err
			}
			chgKey := fmt.Sprintf("chg:%s:%019d:%s", identity, stamp, msg.ID)
			if err := txn.Set([]byte(chgKey), change); err != nil {
				return err
			}
		}
		return nil
	})
}

// TranscriptForUserInRoom loads the identity's transcript of one
// meeting, oldest first. An identity that never shared a message there
// gets an empty result, not an error.
func (r *TranscriptRepository) TranscriptForUserInRoom(identity, meetingID string) ([]domain.MessageInfo, error) {
	prefix := []byte(fmt.Sprintf("tr:%s:%s:", identity, meetingID))
	var out []domain.MessageInfo
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				var dm diskMessage
				if err := json.Unmarshal(value, &dm); err != nil {
					return err
				}
				out = append(out, toMessageInfo(dm))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return out, err
}

// SummariesForUser walks every transcript the identity owns and reduces
// each meeting to a summary: contributor union, message count, and the
// newest LastModified.
func (r *TranscriptRepository) SummariesForUser(identity string) ([]domain.TranscriptSummary, error) {
	prefix := []byte(fmt.Sprintf("tr:%s:", identity))
	var out []domain.TranscriptSummary
	index := make(map[string]int)

	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				var dm diskMessage
				if err := json.Unmarshal(value, &dm); err != nil {
					return err
				}
				i, ok := index[dm.MeetingID]
				if !ok {
					index[dm.MeetingID] = len(out)
					i = len(out)
					out = append(out, domain.TranscriptSummary{
						RoomID:      dm.MeetingID,
						ContainerID: dm.ContainerID,
					})
				}
				summary := &out[i]
				summary.MessageCount++
				summary.Contributors = mergeContributors(summary.Contributors, dm.SharedWith)
				if at := time.Unix(0, dm.LastModified).UTC(); at.After(summary.LastModified) {
					summary.LastModified = at
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return out, err
}

// mergeContributors folds a message's sharing list into the running
// contributor set, kept sorted for stable output.
func mergeContributors(existing, more []string) []string {
	merged := lo.Uniq(append(existing, more...))
	sort.Strings(merged)
	return merged
}

// ChangesForUser returns the identity's durable change feed, oldest
// first.
func (r *TranscriptRepository) ChangesForUser(identity string) ([]string, error) {
	prefix := []byte(fmt.Sprintf("chg:%s:", identity))
	var out []string
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				var dc diskChange
				if err := json.Unmarshal(value, &dc); err != nil {
					return err
				}
				out = append(out, dc.MessageID)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return out, err
}

func fromMessageInfo(msg *domain.MessageInfo, meetingID, containerID string) diskMessage {
	return diskMessage{
		ID:           msg.ID,
		MeetingID:    meetingID,
		ContainerID:  containerID,
		Creator:      msg.Creator,
		Channel:      string(msg.Channel),
		Body:         msg.Body,
		Recipients:   msg.Recipients,
		InReplyTo:    msg.InReplyTo,
		References:   msg.References,
		Status:       string(msg.Status),
		SharedWith:   msg.SharedWith.Sorted(),
		CreatedTime:  msg.CreatedTime.UnixNano(),
		LastModified: msg.LastModified.UnixNano(),
	}
}

func toMessageInfo(dm diskMessage) domain.MessageInfo {
	return domain.MessageInfo{
		ID:           dm.ID,
		Creator:      dm.Creator,
		ContainerID:  dm.MeetingID,
		Channel:      domain.Channel(dm.Channel),
		Body:         dm.Body,
		Recipients:   dm.Recipients,
		InReplyTo:    dm.InReplyTo,
		References:   dm.References,
		Status:       domain.Status(dm.Status),
		SharedWith:   domain.NewSet(dm.SharedWith...),
		CreatedTime:  time.Unix(0, dm.CreatedTime).UTC(),
		LastModified: time.Unix(0, dm.LastModified).UTC(),
	}
}
