// Package dedup persists the set of already-reposted post ids between runs.
package dedup

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sort"
)

// Set holds post ids that have already been reposted.
type Set map[int64]bool

// NewSet creates a set containing the given ids.
func NewSet(ids ...int64) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = true
	}
	return s
}

// Contains reports whether id is in the set.
func (s Set) Contains(id int64) bool {
	return s[id]
}

// Add inserts id into the set.
func (s Set) Add(id int64) {
	s[id] = true
}

// IDs returns the ids in ascending order.
func (s Set) IDs() []int64 {
	ids := make([]int64, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Store reads and writes the persisted id set.
type Store struct {
	path string
}

// NewStore creates a store backed by the JSON file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the persisted set. A missing, unreadable, or corrupt file
// yields an empty set: re-reposting an old announcement surfaces upstream
// as a duplicate error and is absorbed per post, so degrading beats
// aborting the run.
func (s *Store) Load() Set {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: could not read %s (starting with empty repost log): %v", s.path, err)
		}
		return Set{}
	}

	var ids []int64
	if err := json.Unmarshal(data, &ids); err != nil {
		log.Printf("Warning: could not parse %s (starting with empty repost log): %v", s.path, err)
		return Set{}
	}

	return NewSet(ids...)
}

// Save overwrites the persisted set with a JSON array of ids, sorted for
// stable output.
func (s *Store) Save(set Set) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return err
		}
	}

	data, err := json.MarshalIndent(set.IDs(), "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0600)
}
