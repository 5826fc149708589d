package session

import (
	"context"
	"sync"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu     sync.Mutex
	values map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: map[string]string{}}
}

func (f *fakeStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = value.(string)
	return nil
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[key]
	if !ok {
		return "", redislib.Nil
	}
	return v, nil
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.values, k)
	}
	return nil
}

type fakeKeyer struct{}

func (fakeKeyer) AccessSessionKey(accessID string) string {
	return "session:" + accessID
}

func newTestManager(store *fakeStore) *Manager {
	return &Manager{
		store: store,
		keyer: fakeKeyer{},
		ttl:   time.Hour,
	}
}

func TestManager_GenerateAndHasSession(t *testing.T) {
	store := newFakeStore()
	m := newTestManager(store)
	ctx := context.Background()

	accessID := NewAccessID()
	token, err := m.Generate(ctx, accessID)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	ok, err := m.HasSession(ctx, accessID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = m.HasSession(ctx, NewAccessID())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestManager_RotateInvalidatesOldSession(t *testing.T) {
	store := newFakeStore()
	m := newTestManager(store)
	ctx := context.Background()

	accessID := NewAccessID()
	token, err := m.Generate(ctx, accessID)
	require.NoError(t, err)

	newAccessID, newToken, err := m.Rotate(ctx, accessID, token)
	require.NoError(t, err)
	assert.NotEqual(t, accessID, newAccessID)
	assert.NotEqual(t, token, newToken)

	ok, err := m.HasSession(ctx, accessID)
	require.NoError(t, err)
	assert.False(t, ok, "old session should be gone after rotation")

	ok, err = m.HasSession(ctx, newAccessID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestManager_RotateRejectsWrongToken(t *testing.T) {
	store := newFakeStore()
	m := newTestManager(store)
	ctx := context.Background()

	accessID := NewAccessID()
	_, err := m.Generate(ctx, accessID)
	require.NoError(t, err)

	_, _, err = m.Rotate(ctx, accessID, "not-the-token")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestManager_RotateUnknownAccessID(t *testing.T) {
	m := newTestManager(newFakeStore())

	_, _, err := m.Rotate(context.Background(), NewAccessID(), "anything")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestManager_Revoke(t *testing.T) {
	store := newFakeStore()
	m := newTestManager(store)
	ctx := context.Background()

	accessID := NewAccessID()
	_, err := m.Generate(ctx, accessID)
	require.NoError(t, err)

	require.NoError(t, m.Revoke(ctx, accessID))

	ok, err := m.HasSession(ctx, accessID)
	require.NoError(t, err)
	assert.False(t, ok)
}
