package store

import (
	"encoding/json"

	"roleplay-online/backend/internal/models"

	"github.com/cockroachdb/pebble"
)

// GetUser looks up a user record by email. Returns ErrNotFound when the
// login flow has never completed for this email.
func (s *Store) GetUser(email string) (*models.User, error) {
	data, err := s.get(userKey(email))
	if err != nil {
		return nil, err
	}
	var u models.User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, ErrNotFound
	}
	return &u, nil
}

// SaveUser persists a user record.
func (s *Store) SaveUser(u models.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return err
	}
	if err := s.db.Set(userKey(u.Email), data, pebble.Sync); err != nil {
		s.log.Error("Failed to save user", "email", u.Email, "error", err.Error())
		return err
	}
	return nil
}
