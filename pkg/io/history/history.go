// Package history remembers recently sent requests.
//
// Entries are stored newest first as JSON in a single file, by default
// ~/.apidelta/history.json. Re-sending a request moves it to the front
// instead of adding a second copy.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/devantler-tech/apidelta/pkg/fsutil"
	"github.com/devantler-tech/apidelta/pkg/utils/listutil"
)

const (
	stateDir        = ".apidelta"
	historyFileName = "history.json"
)

// Entry is one remembered request.
type Entry struct {
	Method string    `json:"method"`
	URL    string    `json:"url"`
	SentAt time.Time `json:"sentAt"`
}

// Same reports whether two entries describe the same request.
func (e Entry) Same(other Entry) bool {
	return strings.EqualFold(e.Method, other.Method) && e.URL == other.URL
}

// Store persists a bounded request history.
type Store struct {
	path  string
	limit int
}

// DefaultPath returns the history file under the user's home directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, stateDir, historyFileName), nil
}

// NewStore creates a store backed by path keeping at most limit entries.
// A limit below one falls back to listutil.DefaultLimit.
func NewStore(path string, limit int) *Store {
	if limit < 1 {
		limit = listutil.DefaultLimit
	}

	return &Store{path: path, limit: limit}
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Load returns the stored entries, newest first. A missing file is an empty
// history.
func (s *Store) Load() ([]Entry, error) {
	//nolint:gosec // path comes from configuration or the user's home directory
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Entry{}, nil
		}

		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	var entries []Entry

	err = json.Unmarshal(data, &entries)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal history: %w", err)
	}

	return entries, nil
}

// Add records entry at the front of the history and returns the new list.
func (s *Store) Add(entry Entry) ([]Entry, error) {
	entries, err := s.Load()
	if err != nil {
		return nil, err
	}

	entries = listutil.WithLimit(entries, entry, s.limit, entry.Same)

	err = s.save(entries)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// Clear removes every entry. Clearing a missing history succeeds.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	return nil
}

func (s *Store) save(entries []Entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	err = fsutil.WriteFile(data, s.path)
	if err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}

	return nil
}
