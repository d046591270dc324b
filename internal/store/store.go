package store

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"roleplay-online/backend/pkg/logger"

	"github.com/cockroachdb/pebble"
)

// ErrNotFound is returned when a keyed record does not exist.
var ErrNotFound = errors.New("record not found")

// Store is the persistence facade over an embedded Pebble database.
// Every record family gets its own key prefix and per-record get/put, so
// writers never rewrite a whole collection:
//
//	character:<id>                      one record per published character
//	chat:<email>:<charID>:msg:<seq>     one record per message, sortable
//	recent:<email>                      the capped recency index
//	user:<email>                        the user record
type Store struct {
	db  *pebble.DB
	log *logger.Logger

	// seq breaks ties between messages sharing a nanosecond timestamp.
	seq uint64
}

// Open opens (or creates) the database at path.
func Open(path string, log *logger.Logger) (*Store, error) {
	if log == nil {
		log = logger.GetGlobal()
	}
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		log.Error("Failed to open store", "path", path, "error", err.Error())
		return nil, fmt.Errorf("open store at %s: %w", path, err)
	}
	log.Info("Store opened", "path", path)
	return &Store{db: db, log: log}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Ready reports whether the store is open.
func (s *Store) Ready() bool {
	return s.db != nil
}

// nextMessageKey returns a key that sorts strictly after every key issued
// before it, preserving append order under prefix iteration.
func (s *Store) nextMessageKey(email, charID string) []byte {
	ts := time.Now().UTC().UnixNano()
	n := atomic.AddUint64(&s.seq, 1)
	return []byte(fmt.Sprintf("%s%020d-%06d", messagePrefix(email, charID), ts, n))
}

func messagePrefix(email, charID string) string {
	return fmt.Sprintf("chat:%s:%s:msg:", email, charID)
}

func characterKey(id string) []byte {
	return []byte("character:" + id)
}

func recentKey(email string) []byte {
	return []byte("recent:" + email)
}

func userKey(email string) []byte {
	return []byte("user:" + email)
}

// get reads a single record. Returns ErrNotFound for missing keys.
func (s *Store) get(key []byte) ([]byte, error) {
	val, closer, err := s.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	out := append([]byte(nil), val...)
	return out, nil
}

// prefixUpperBound returns the smallest key greater than every key with
// the given prefix.
func prefixUpperBound(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}
