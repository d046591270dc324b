package store

import (
	"bytes"
	"encoding/json"
	"sort"

	"roleplay-online/backend/internal/models"

	"github.com/cockroachdb/pebble"
)

// PublishCharacter stores a published character under its own key.
// Repeated publishes with distinct ids simply create new entries; the
// catalog is append-only and has no dedup key.
func (s *Store) PublishCharacter(c models.Character) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	if err := s.db.Set(characterKey(c.ID), data, pebble.Sync); err != nil {
		s.log.Error("Failed to publish character", "id", c.ID, "error", err.Error())
		return err
	}
	s.log.Info("Character published", "id", c.ID, "author", c.AuthorID)
	return nil
}

// ListPublishedCharacters returns the published set in publish order.
// Keys are uuids, so the prefix scan comes back in lexicographic order and
// is re-sorted by creation time. A record that fails to decode is skipped
// rather than failing the whole listing; the catalog fails open.
func (s *Store) ListPublishedCharacters() ([]models.Character, error) {
	prefix := []byte("character:")
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: prefixUpperBound(prefix),
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var out []models.Character
	for iter.First(); iter.Valid(); iter.Next() {
		if !bytes.HasPrefix(iter.Key(), prefix) {
			break
		}
		var c models.Character
		if err := json.Unmarshal(iter.Value(), &c); err != nil {
			s.log.Warn("Skipping malformed character record", "key", string(iter.Key()))
			continue
		}
		out = append(out, c)
	}
	if err := iter.Error(); err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// GetCharacter looks up a single published character by id.
func (s *Store) GetCharacter(id string) (*models.Character, error) {
	data, err := s.get(characterKey(id))
	if err != nil {
		return nil, err
	}
	var c models.Character
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, ErrNotFound
	}
	return &c, nil
}
