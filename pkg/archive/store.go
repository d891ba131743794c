package archive

import (
	"path/filepath"

	"github.com/umputun/postsync/pkg/domain"
	"github.com/umputun/postsync/pkg/jsonfile"
)

// FileStore keeps one JSON archive file per feed in a directory
type FileStore struct {
	Dir string
}

// Path returns the archive file of the feed
func (s *FileStore) Path(feed domain.Feed) string {
	return filepath.Join(s.Dir, string(feed)+".json")
}

// Load reads the archive of the feed, a missing file is an empty archive
func (s *FileStore) Load(feed domain.Feed) ([]domain.ClassifiedItem, error) {
	var items []domain.ClassifiedItem
	if _, err := jsonfile.Read(s.Path(feed), &items); err != nil {
		return nil, &domain.PersistenceError{Op: "load archive", Path: s.Path(feed), Err: err}
	}
	return items, nil
}

// Save overwrites the archive of the feed atomically
func (s *FileStore) Save(feed domain.Feed, items []domain.ClassifiedItem) error {
	if items == nil {
		items = []domain.ClassifiedItem{}
	}
	if err := jsonfile.WriteAtomic(s.Path(feed), items, 0o644); err != nil {
		return &domain.PersistenceError{Op: "save archive", Path: s.Path(feed), Err: err}
	}
	return nil
}
