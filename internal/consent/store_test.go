package consent

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_RoundTrip(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "sub", "choice.txt"))

	_, ok, err := s.Get()
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set("n"))
	token, ok, err := s.Get()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "n", token)

	require.NoError(t, s.Clear())
	_, ok, err = s.Get()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStore_ClearMissingIsNoop(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "choice.txt"))
	assert.NoError(t, s.Clear())
	assert.NoError(t, s.Clear())
}

func TestFileStore_ReadsExistingContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "choice.txt")
	require.NoError(t, os.WriteFile(path, []byte("m"), 0644))

	token, ok, err := NewFileStore(path).Get()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "m", token)
}

func TestMemoryStore(t *testing.T) {
	var s MemoryStore
	_, ok, _ := s.Get()
	assert.False(t, ok)

	require.NoError(t, s.Set(""))
	token, ok, _ := s.Get()
	assert.True(t, ok, "an empty answer is still an answer")
	assert.Equal(t, "", token)

	require.NoError(t, s.Clear())
	_, ok, _ = s.Get()
	assert.False(t, ok)
}
