package store

import (
	"bytes"
	"encoding/json"

	"roleplay-online/backend/internal/models"

	"github.com/cockroachdb/pebble"
)

// GetMessages returns the full chat log for a (user, character) pair in
// append order. Missing logs yield an empty slice; a record that fails to
// decode is skipped.
func (s *Store) GetMessages(email, charID string) ([]models.Message, error) {
	prefix := []byte(messagePrefix(email, charID))
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: prefixUpperBound(prefix),
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	msgs := []models.Message{}
	for iter.First(); iter.Valid(); iter.Next() {
		if !bytes.HasPrefix(iter.Key(), prefix) {
			break
		}
		var m models.Message
		if err := json.Unmarshal(iter.Value(), &m); err != nil {
			s.log.Warn("Skipping malformed message record", "key", string(iter.Key()))
			continue
		}
		msgs = append(msgs, m)
	}
	return msgs, iter.Error()
}

// AppendMessages appends messages to the pair's log without touching the
// records already there. This is the hot path for chat turns.
func (s *Store) AppendMessages(email, charID string, msgs ...models.Message) error {
	batch := s.db.NewBatch()
	defer batch.Close()
	for _, m := range msgs {
		data, err := json.Marshal(m)
		if err != nil {
			return err
		}
		if err := batch.Set(s.nextMessageKey(email, charID), data, nil); err != nil {
			return err
		}
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		s.log.Error("Failed to append messages", "char", charID, "error", err.Error())
		return err
	}
	return nil
}

// SaveMessages replaces the whole log for a (user, character) pair with the
// given sequence. Callers that only add a turn should use AppendMessages;
// this exists for seeding and for the facade's overwrite contract.
func (s *Store) SaveMessages(email, charID string, msgs []models.Message) error {
	prefix := []byte(messagePrefix(email, charID))
	batch := s.db.NewBatch()
	defer batch.Close()
	if err := batch.DeleteRange(prefix, prefixUpperBound(prefix), nil); err != nil {
		return err
	}
	for _, m := range msgs {
		data, err := json.Marshal(m)
		if err != nil {
			return err
		}
		if err := batch.Set(s.nextMessageKey(email, charID), data, nil); err != nil {
			return err
		}
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		s.log.Error("Failed to save messages", "char", charID, "error", err.Error())
		return err
	}
	return nil
}
