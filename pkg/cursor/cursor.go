// Package cursor keeps the last seen item id per account. Cursors only move forward.
package cursor

import (
	"sort"
	"sync"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/postsync/pkg/domain"
	"github.com/umputun/postsync/pkg/jsonfile"
)

// MemStore is an in-memory cursor map, also the base of FileStore
type MemStore struct {
	mu      sync.RWMutex
	cursors map[string]string
}

// NewMemStore makes an empty store
func NewMemStore() *MemStore {
	return &MemStore{cursors: map[string]string{}}
}

// Get returns the cursor of the account, ok is false if there is none yet
func (s *MemStore) Get(accountID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.cursors[accountID]
	return id, ok
}

// Set advances the cursor of the account to itemID. Lower ids are ignored and reported as false.
func (s *MemStore) Set(accountID, itemID string) bool {
	if itemID == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.cursors[accountID]; ok && domain.CompareIDs(itemID, cur) < 0 {
		lgr.Printf("[WARN] refusing to move cursor of %s back from %s to %s", accountID, cur, itemID)
		return false
	}
	s.cursors[accountID] = itemID
	return true
}

// Delete forgets the account, used when it is untracked
func (s *MemStore) Delete(accountID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cursors, accountID)
}

// All returns a copy of all cursors
func (s *MemStore) All() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make(map[string]string, len(s.cursors))
	for k, v := range s.cursors {
		res[k] = v
	}
	return res
}

// Accounts returns account ids with a cursor, sorted
func (s *MemStore) Accounts() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]string, 0, len(s.cursors))
	for k := range s.cursors {
		res = append(res, k)
	}
	sort.Strings(res)
	return res
}

// Save is a no-op for the in-memory store
func (s *MemStore) Save() error { return nil }

// FileStore is a MemStore persisted as a JSON map, one file per feed namespace
type FileStore struct {
	*MemStore
	path string
}

// LoadFile reads cursors from path, a missing file gives an empty store
func LoadFile(path string) (*FileStore, error) {
	s := &FileStore{MemStore: NewMemStore(), path: path}
	if _, err := jsonfile.Read(path, &s.cursors); err != nil {
		return nil, &domain.PersistenceError{Op: "load cursors", Path: path, Err: err}
	}
	if s.cursors == nil {
		s.cursors = map[string]string{}
	}
	return s, nil
}

// Save writes all cursors atomically
func (s *FileStore) Save() error {
	if err := jsonfile.WriteAtomic(s.path, s.All(), 0o600); err != nil {
		return &domain.PersistenceError{Op: "save cursors", Path: s.path, Err: err}
	}
	return nil
}
