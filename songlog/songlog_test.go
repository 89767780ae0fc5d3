package songlog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_missingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loved_songs.log")

	l, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, l.Len())
	assert.False(t, l.Contains("A - X - 1"))

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "loading shouldn't create the file")
}

func TestLoad_existingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loved_songs.log")
	content := "A - X - 1\n  B - Y - 2  \n\nA - X - 1\r\nC - Z - 3"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	l, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, l.Len())
	assert.True(t, l.Contains("A - X - 1"))
	assert.True(t, l.Contains("B - Y - 2"))
	assert.True(t, l.Contains("C - Z - 3"))
	assert.False(t, l.Contains(""))
}

func TestLoad_directory(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.Error(t, err)
}

func TestAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loved_songs.log")

	l, err := Load(path)
	require.NoError(t, err)

	require.NoError(t, l.Append("A - X - 1"))
	require.NoError(t, l.Append("B - Y - 2"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "A - X - 1\nB - Y - 2\n", string(data))
	assert.True(t, l.Contains("B - Y - 2"))
	assert.Equal(t, 2, l.Len())
}

func TestAppend_keepsExistingContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loved_songs.log")
	require.NoError(t, os.WriteFile(path, []byte("Old - Song - 0\n"), 0644))

	l, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, l.Append("New - Song - 1"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Old - Song - 0\nNew - Song - 1\n", string(data))

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.Len())
}

func TestAppend_failure(t *testing.T) {
	l, err := Load(filepath.Join(t.TempDir(), "missing", "loved_songs.log"))
	require.NoError(t, err)

	assert.Error(t, l.Append("A - X - 1"))
	assert.False(t, l.Contains("A - X - 1"))
}
