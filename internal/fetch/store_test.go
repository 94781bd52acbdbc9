package fetch

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	at := time.UnixMilli(time.Now().UnixMilli())

	_, ok, err := s.Get(ctx, "o/r/b/docs/a.md")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "o/r/b/docs/a.md", Entry{Content: "v1", FetchedAt: at}))
	require.NoError(t, s.Set(ctx, "o/r/b/docs/a.md", Entry{Content: "v2", FetchedAt: at}))

	e, ok, err := s.Get(ctx, "o/r/b/docs/a.md")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v2", e.Content)
	assert.True(t, at.Equal(e.FetchedAt))

	require.NoError(t, s.Delete(ctx, "o/r/b/docs/a.md"))
	require.NoError(t, s.Delete(ctx, "o/r/b/docs/a.md"))
	_, ok, err = s.Get(ctx, "o/r/b/docs/a.md")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	exerciseStore(t, s)
}

func TestSQLiteStore_InMemory(t *testing.T) {
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	exerciseStore(t, s)
}

func TestNATSKeyIsKVSafe(t *testing.T) {
	k := natsKey("RemiZlatinis/ssi-agent/main/docs/guides/cli.md")
	assert.NotContains(t, k, "/")
	assert.NotContains(t, k, "=")
	assert.NotEqual(t, natsKey("a/b"), natsKey("a_b"))
}
