package auth

import (
	"fmt"

	"github.com/umputun/postsync/pkg/domain"
	"github.com/umputun/postsync/pkg/jsonfile"
)

// FileStore keeps credentials in a JSON file readable only by the owner
type FileStore struct {
	Path string
}

// Load reads credentials, a missing file means the account was never authorized
func (s *FileStore) Load() (domain.Credentials, error) {
	var creds domain.Credentials
	found, err := jsonfile.Read(s.Path, &creds)
	if err != nil {
		return domain.Credentials{}, &domain.PersistenceError{Op: "load credentials", Path: s.Path, Err: err}
	}
	if !found {
		return domain.Credentials{}, fmt.Errorf("%w: no credentials in %s, run authorization first", domain.ErrAuthExpired, s.Path)
	}
	return creds, nil
}

// Save replaces the credentials file atomically
func (s *FileStore) Save(creds domain.Credentials) error {
	if err := jsonfile.WriteAtomic(s.Path, creds, 0o600); err != nil {
		return &domain.PersistenceError{Op: "save credentials", Path: s.Path, Err: err}
	}
	return nil
}
