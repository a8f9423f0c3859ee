package service

import (
	"context"
	"testing"
	"time"

	"classroom_backend/internal/repository"

	"github.com/stretchr/testify/require"
)

type testEnv struct {
	backend *repository.MemoryBackend
	store   *repository.Store
	repo    *repository.Collections
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	backend := repository.NewMemoryBackend()
	store := repository.NewStore(backend)
	repo, err := repository.NewCollections(store)
	require.NoError(t, err)
	return &testEnv{backend: backend, store: store, repo: repo}
}

// seeded 写入示例数据后返回环境
func newSeededEnv(t *testing.T) *testEnv {
	t.Helper()
	env := newTestEnv(t)
	did, err := NewSeedService(env.store, env.repo).Seed(context.Background())
	require.NoError(t, err)
	require.True(t, did)
	return env
}

func (e *testEnv) raw(t *testing.T, resource string) []byte {
	t.Helper()
	b, err := e.backend.Read(context.Background(), resource)
	require.NoError(t, err)
	return b
}

func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}
