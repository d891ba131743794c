package archive

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/postsync/pkg/domain"
)

func TestFileStore(t *testing.T) {
	s := &FileStore{Dir: t.TempDir()}

	items, err := s.Load(domain.FeedOwn)
	require.NoError(t, err)
	assert.Empty(t, items)

	reply := item("2", 2)
	reply.Kind = domain.KindReply
	reply.Referenced = &domain.ReferencedItem{ID: "1", AuthorID: "7", AuthorHandle: "ksenks", TextExcerpt: "hi"}
	reply.References = []domain.Reference{{Type: domain.RefReply, TargetID: "1"}}
	saved := []domain.ClassifiedItem{reply, item("1", 1)}
	require.NoError(t, s.Save(domain.FeedOwn, saved))

	loaded, err := s.Load(domain.FeedOwn)
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)

	other, err := s.Load(domain.FeedBookmarks)
	require.NoError(t, err)
	assert.Empty(t, other, "feeds are independent")
}

func TestFileStore_Corrupt(t *testing.T) {
	s := &FileStore{Dir: t.TempDir()}
	require.NoError(t, os.WriteFile(s.Path(domain.FeedFollowing), []byte(`[{"id":`), 0o600))

	_, err := s.Load(domain.FeedFollowing)
	var pe *domain.PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "load archive", pe.Op)
}
