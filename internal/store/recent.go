package store

import (
	"encoding/json"
	"errors"

	"roleplay-online/backend/internal/models"

	"github.com/cockroachdb/pebble"
)

// GetRecent returns the per-user recency index, most recent first.
// Missing or malformed records read as empty.
func (s *Store) GetRecent(email string) ([]models.ChatHistoryEntry, error) {
	data, err := s.get(recentKey(email))
	if errors.Is(err, ErrNotFound) {
		return []models.ChatHistoryEntry{}, nil
	}
	if err != nil {
		return nil, err
	}
	var list []models.ChatHistoryEntry
	if err := json.Unmarshal(data, &list); err != nil {
		s.log.Warn("Malformed recency index, resetting", "user", email)
		return []models.ChatHistoryEntry{}, nil
	}
	return list, nil
}

// UpsertRecent moves the entry's character to the front of the index,
// removing any previous entry for the same character and truncating to
// models.RecentLimit. The index is one small per-user record, so the
// read-modify-write stays bounded.
func (s *Store) UpsertRecent(email string, entry models.ChatHistoryEntry) error {
	list, err := s.GetRecent(email)
	if err != nil {
		return err
	}
	next := make([]models.ChatHistoryEntry, 0, len(list)+1)
	next = append(next, entry)
	for _, e := range list {
		if e.CharID == entry.CharID {
			continue
		}
		next = append(next, e)
	}
	if len(next) > models.RecentLimit {
		next = next[:models.RecentLimit]
	}
	data, err := json.Marshal(next)
	if err != nil {
		return err
	}
	return s.db.Set(recentKey(email), data, pebble.Sync)
}
