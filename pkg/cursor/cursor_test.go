package cursor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/postsync/pkg/domain"
)

func TestMemStore(t *testing.T) {
	s := NewMemStore()

	_, ok := s.Get("42")
	assert.False(t, ok)

	assert.True(t, s.Set("42", "103"))
	id, ok := s.Get("42")
	assert.True(t, ok)
	assert.Equal(t, "103", id)

	assert.False(t, s.Set("42", "99"), "never moves back")
	id, _ = s.Get("42")
	assert.Equal(t, "103", id)

	assert.True(t, s.Set("42", "1000"), "numeric, not lexicographic")
	assert.True(t, s.Set("42", "1000"), "same id is fine")
	assert.False(t, s.Set("42", ""))

	s.Set("7", "5")
	assert.Equal(t, []string{"42", "7"}, s.Accounts())
	assert.Equal(t, map[string]string{"42": "1000", "7": "5"}, s.All())

	s.Delete("7")
	_, ok = s.Get("7")
	assert.False(t, ok)
	assert.True(t, s.Set("7", "1"), "fresh start after delete")
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cursors", "following.json")

	s, err := LoadFile(path)
	require.NoError(t, err)
	assert.Empty(t, s.All())

	s.Set("42", "103")
	s.Set("7", "55")
	require.NoError(t, s.Save())

	reloaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"42": "103", "7": "55"}, reloaded.All())
}

func TestFileStore_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "own.json")
	require.NoError(t, os.WriteFile(path, []byte("[1,2"), 0o600))

	_, err := LoadFile(path)
	var pe *domain.PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, path, pe.Path)
}
