// Package favorites persists the user's favorite park codes
package favorites

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ngmaloney/park-terminal/internal/database"
)

// Key is the preferences row holding the favorite list
const Key = "nps-favorites"

// Store keeps an ordered, duplicate-free list of park codes in the preferences table
type Store struct {
	db     *sql.DB
	logger *slog.Logger
	mu     sync.Mutex
}

// NewStore creates a store, making sure the preferences table exists
func NewStore(db *sql.DB) (*Store, error) {
	if err := database.EnsureUserSchema(db); err != nil {
		return nil, err
	}
	return &Store{db: db, logger: slog.Default()}, nil
}

// SetLogger replaces the logger used for unreadable stored values
func (s *Store) SetLogger(l *slog.Logger) {
	s.logger = l
}

// List returns the favorite codes in the order they were added
func (s *Store) List() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Contains reports whether code is a favorite
func (s *Store) Contains(code string) (bool, error) {
	codes, err := s.List()
	if err != nil {
		return false, err
	}
	return indexOf(codes, code) >= 0, nil
}

// Toggle adds code if absent and removes it otherwise.
// It reports whether code is a favorite afterwards.
func (s *Store) Toggle(code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	codes, err := s.load()
	if err != nil {
		return false, err
	}

	added := false
	if i := indexOf(codes, code); i >= 0 {
		codes = append(codes[:i], codes[i+1:]...)
	} else {
		codes = append(codes, code)
		added = true
	}

	if err := s.save(codes); err != nil {
		return false, err
	}
	return added, nil
}

// Clear empties the favorite list
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save([]string{})
}

func (s *Store) load() ([]string, error) {
	var raw string
	err := s.db.QueryRow("SELECT value FROM preferences WHERE key = ?", Key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading favorites: %w", err)
	}

	var codes []string
	if err := json.Unmarshal([]byte(raw), &codes); err != nil {
		s.logger.Error("error loading favorites", "error", err)
		return []string{}, nil
	}
	if codes == nil {
		codes = []string{}
	}
	return codes, nil
}

func (s *Store) save(codes []string) error {
	value, err := json.Marshal(codes)
	if err != nil {
		return fmt.Errorf("encoding favorites: %w", err)
	}

	query := `
		INSERT INTO preferences (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`
	if _, err := s.db.Exec(query, Key, string(value), time.Now()); err != nil {
		return fmt.Errorf("saving favorites: %w", err)
	}
	return nil
}

func indexOf(codes []string, code string) int {
	for i, c := range codes {
		if c == code {
			return i
		}
	}
	return -1
}
