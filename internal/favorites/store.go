// Package favorites persists the set of favorited session ids.
package favorites

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"dburn/internal/model"
)

// FileName is the favorites artifact inside the sessions directory.
const FileName = ".favorites"

// Store reads and writes the favorites file. Mutations serialize through
// a single-writer lock and land on disk via write-new-then-rename, so a
// crash mid-write never leaves a half-written file. Ids without a known
// session are kept; the session may reappear.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore returns a store backed by <sessionsDir>/.favorites.
func NewStore(sessionsDir string) *Store {
	return &Store{path: filepath.Join(sessionsDir, FileName)}
}

// Load reads the persisted id set. An absent file is an empty set, not
// an error.
func (s *Store) Load() (map[string]struct{}, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]struct{}{}, nil
		}
		return nil, fmt.Errorf("reading favorites: %w", err)
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("parsing favorites: %w", err)
	}

	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// Toggle flips the favorite state of a session id and persists the
// result. Returns the new state.
func (s *Store) Toggle(sessionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := s.Load()
	if err != nil {
		return false, err
	}

	_, present := set[sessionID]
	if present {
		delete(set, sessionID)
	} else {
		set[sessionID] = struct{}{}
	}

	if err := s.write(set); err != nil {
		return present, err
	}
	return !present, nil
}

// Add marks a session id as favorite.
func (s *Store) Add(sessionID string) error {
	return s.update(func(set map[string]struct{}) {
		set[sessionID] = struct{}{}
	})
}

// Remove unmarks a session id.
func (s *Store) Remove(sessionID string) error {
	return s.update(func(set map[string]struct{}) {
		delete(set, sessionID)
	})
}

func (s *Store) update(mutate func(map[string]struct{})) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := s.Load()
	if err != nil {
		return err
	}
	mutate(set)
	return s.write(set)
}

// write replaces the favorites file atomically: encode to a temp file in
// the same directory, then rename over the target.
func (s *Store) write(set map[string]struct{}) error {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	data, err := json.MarshalIndent(ids, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding favorites: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, FileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp favorites file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing favorites: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("closing favorites: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replacing favorites: %w", err)
	}
	return nil
}

// Apply overlays IsFavorite onto matching sessions. Runs strictly after
// parsing; never touches anything the aggregator totals over.
func (s *Store) Apply(sessions []model.Session) error {
	set, err := s.Load()
	if err != nil {
		return err
	}
	for i := range sessions {
		_, sessions[i].IsFavorite = set[sessions[i].ID]
	}
	return nil
}
