package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	sid := NewID()

	_, err := s.Load(ctx, sid)
	assert.ErrorIs(t, err, ErrNotFound)

	want := User{ID: "u1", Name: "Ada", Email: "ada@example.com", IsAdmin: true, Token: "tok"}
	require.NoError(t, s.Save(ctx, sid, want))

	got, err := s.Load(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.NoError(t, s.Clear(ctx, sid))
	_, err = s.Load(ctx, sid)
	assert.ErrorIs(t, err, ErrNotFound)

	// clearing twice is harmless
	assert.NoError(t, s.Clear(ctx, sid))
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.json")
	s, err := NewFileStore(path)
	require.NoError(t, err)
	exerciseStore(t, s)
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.json")
	s, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Save(context.Background(), "sid-1", User{Email: "a@b.c", Token: "t"}))

	reopened, err := NewFileStore(path)
	require.NoError(t, err)
	u, err := reopened.Load(context.Background(), "sid-1")
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", u.Email)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFileStore_FailedWriteLeavesSessionsUnchanged(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewFileStore(filepath.Join(dir, "sessions.json"))
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, "kept", User{Email: "a@b.c"}))

	s.path = filepath.Join(dir, "missing", "sessions.json")

	assert.Error(t, s.Save(ctx, "new", User{Email: "x@y.z"}))
	_, err = s.Load(ctx, "new")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Error(t, s.Save(ctx, "kept", User{Email: "changed@b.c"}))
	u, err := s.Load(ctx, "kept")
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", u.Email)

	assert.Error(t, s.Clear(ctx, "kept"))
	u, err = s.Load(ctx, "kept")
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", u.Email)
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := NewFileStore(path)
	assert.Error(t, err)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { rdb.Close() })

	exerciseStore(t, NewRedisStore(rdb, "storefront:test:"))
}

func TestViewer(t *testing.T) {
	ctx := context.Background()
	assert.False(t, ViewerFrom(ctx).SignedIn())

	ctx = WithViewer(ctx, Viewer{SID: "s", User: &User{Email: "a@b.c"}})
	v := ViewerFrom(ctx)
	assert.True(t, v.SignedIn())
	assert.False(t, v.IsAdmin())

	v.User.IsAdmin = true
	assert.True(t, v.IsAdmin())
}
