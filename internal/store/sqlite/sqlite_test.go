package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/3rg0n/termfolio/internal/store"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "vfs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRootExists(t *testing.T) {
	s := openTestStore(t)

	info, err := s.Stat(context.Background(), "/")
	require.NoError(t, err)
	assert.True(t, info.IsDir)
	assert.Equal(t, "sqlite", s.Kind())
}

func TestMkdirWriteRead(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.Mkdir(ctx, "/games"))
	assert.ErrorIs(t, s.Mkdir(ctx, "/games"), store.ErrExist)
	assert.ErrorIs(t, s.Mkdir(ctx, "/nope/deeper"), store.ErrNotExist)

	require.NoError(t, s.WriteFile(ctx, "/games/snake.sh", "#!/bin/bash\n"))
	require.NoError(t, s.WriteFile(ctx, "/games/snake.sh", "v2"))

	content, err := s.ReadFile(ctx, "/games/snake.sh")
	require.NoError(t, err)
	assert.Equal(t, "v2", content)

	_, err = s.ReadFile(ctx, "/games")
	assert.ErrorIs(t, err, store.ErrIsDir)
	assert.ErrorIs(t, s.WriteFile(ctx, "/games", "x"), store.ErrIsDir)
	assert.ErrorIs(t, s.WriteFile(ctx, "/games/snake.sh/x", "x"), store.ErrNotDir)

	_, err = s.Stat(ctx, "/missing")
	assert.ErrorIs(t, err, store.ErrNotExist)
}

func TestReadDir(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.Mkdir(ctx, "/d"))
	require.NoError(t, s.WriteFile(ctx, "/d/b.txt", ""))
	require.NoError(t, s.Mkdir(ctx, "/d/a"))

	names, err := s.ReadDir(ctx, "/d")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b.txt"}, names)

	root, err := s.ReadDir(ctx, "/")
	require.NoError(t, err)
	assert.Equal(t, []string{"d"}, root)

	_, err = s.ReadDir(ctx, "/d/b.txt")
	assert.ErrorIs(t, err, store.ErrNotDir)
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "vfs.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.WriteFile(ctx, "/keep.txt", "still here"))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	content, err := s.ReadFile(ctx, "/keep.txt")
	require.NoError(t, err)
	assert.Equal(t, "still here", content)
}
