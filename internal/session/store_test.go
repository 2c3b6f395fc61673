package session_test

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"iteminsight/internal/core"
	"iteminsight/internal/session"
)

type fakeStorage struct {
	mu     sync.Mutex
	values map[string]string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{values: map[string]string{}}
}

func (f *fakeStorage) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	value, ok := f.values[key]
	if !ok {
		return "", core.ErrKeyNotFound
	}
	return value, nil
}

func (f *fakeStorage) Put(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = value
	return nil
}

func (f *fakeStorage) PutAll(_ context.Context, values map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key, value := range values {
		f.values[key] = value
	}
	return nil
}

func (f *fakeStorage) Delete(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func newStore(t *testing.T, storage core.StateStorage) *session.Store {
	t.Helper()

	s := &session.Store{Logger: slog.Default(), Storage: storage}
	require.NoError(t, s.Init(t.Context()))
	return s
}

func TestStore_InitFromEmptyStorage(t *testing.T) {
	t.Parallel()

	s := newStore(t, newFakeStorage())

	sess := s.Current()
	require.False(t, sess.IsAuthenticated)
	require.Empty(t, sess.UserID)
}

func TestStore_InitRestoresPersistedSession(t *testing.T) {
	t.Parallel()

	storage := newFakeStorage()
	storage.values = map[string]string{
		"token":     "tok",
		"userId":    "u1",
		"userEmail": "ann@example.com",
		"username":  "ann",
		"avatarUrl": "https://cdn.example/ann.png",
	}

	s := newStore(t, storage)

	sess := s.Current()
	require.True(t, sess.IsAuthenticated)
	require.Equal(t, "u1", sess.UserID)
	require.Equal(t, "ann", sess.Username)
	require.Equal(t, "https://cdn.example/ann.png", sess.AvatarURL)
}

func TestStore_LoginPersistsEverything(t *testing.T) {
	t.Parallel()

	storage := newFakeStorage()
	s := newStore(t, storage)

	require.NoError(t, s.Login(t.Context(), "tok", core.User{
		ID:        "u1",
		Email:     "ann@example.com",
		Username:  "ann",
		AvatarURL: "https://cdn.example/ann.png",
	}))

	require.True(t, s.Current().IsAuthenticated)

	// A fresh store over the same storage sees the same session.
	restored := newStore(t, storage)
	require.Equal(t, s.Current(), restored.Current())
}

func TestStore_LogoutIsIdempotent(t *testing.T) {
	t.Parallel()

	s := newStore(t, newFakeStorage())
	require.NoError(t, s.Login(t.Context(), "tok", core.User{ID: "u1", Username: "ann"}))

	require.NoError(t, s.Logout(t.Context()))
	require.False(t, s.Current().IsAuthenticated)
	require.Empty(t, s.Current().Token)

	// Logging out while already logged out is fine.
	require.NoError(t, s.Logout(t.Context()))
	require.False(t, s.Current().IsAuthenticated)
}

func TestStore_AvatarBroadcast(t *testing.T) {
	t.Parallel()

	s := newStore(t, newFakeStorage())

	header := s.Subscribe()
	sidebar := s.Subscribe()

	require.NoError(t, s.SetAvatarURL(t.Context(), "https://cdn.example/new.png"))

	// Every subscriber hears about it and re-reads the store.
	require.Equal(t, core.EventAvatarUpdated, <-header)
	require.Equal(t, core.EventAvatarUpdated, <-sidebar)
	require.Equal(t, "https://cdn.example/new.png", s.Current().AvatarURL)
}

func TestStore_SlowSubscriberDoesNotBlock(t *testing.T) {
	t.Parallel()

	s := newStore(t, newFakeStorage())
	s.Subscribe() // never drained

	// Overflow the subscriber's buffer, the store must not block.
	for i := 0; i < 20; i++ {
		require.NoError(t, s.SetAvatarURL(t.Context(), "https://cdn.example/new.png"))
	}
}
