package session

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "askpdf", "token")
	s := NewFileStore(path)

	token, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, token, "missing file reads as empty slot")

	require.NoError(t, s.Save("tok-123"))

	token, err = s.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}
}

func TestFileStore_SaveOverwrites(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "token"))

	require.NoError(t, s.Save("first"))
	require.NoError(t, s.Save("second"))

	token, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "second", token)
}

func TestFileStore_LoadTrimsWhitespace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("tok-123\n"), 0o600))

	token, err := NewFileStore(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)
}

func TestFileStore_ClearIsIdempotent(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "token"))

	require.NoError(t, s.Save("tok-123"))
	require.NoError(t, s.Clear())
	require.NoError(t, s.Clear())

	token, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, token)
}
