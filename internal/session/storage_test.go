package session_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"iteminsight/internal/core"
	"iteminsight/internal/session"
)

func newStorage(t *testing.T, path string) *session.Storage {
	t.Helper()

	s := &session.Storage{Config: &core.Config{StatePath: path}}
	require.NoError(t, s.Init(t.Context()))
	t.Cleanup(func() { _ = s.Shutdown(t.Context()) })

	return s
}

func TestStorage_RoundTrip(t *testing.T) {
	t.Parallel()

	s := newStorage(t, filepath.Join(t.TempDir(), "state.db"))

	_, err := s.Get(t.Context(), "token")
	require.ErrorIs(t, err, core.ErrKeyNotFound)

	require.NoError(t, s.Put(t.Context(), "token", "tok"))

	value, err := s.Get(t.Context(), "token")
	require.NoError(t, err)
	require.Equal(t, "tok", value)

	// Overwrite in place.
	require.NoError(t, s.Put(t.Context(), "token", "tok2"))
	value, err = s.Get(t.Context(), "token")
	require.NoError(t, err)
	require.Equal(t, "tok2", value)

	require.NoError(t, s.Delete(t.Context(), "token"))
	_, err = s.Get(t.Context(), "token")
	require.ErrorIs(t, err, core.ErrKeyNotFound)
}

func TestStorage_PutAllAndReopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.db")

	s := newStorage(t, path)
	require.NoError(t, s.PutAll(t.Context(), map[string]string{
		"token":  "tok",
		"userId": "u1",
	}))
	require.NoError(t, s.Shutdown(t.Context()))

	// State survives a restart.
	reopened := newStorage(t, path)
	value, err := reopened.Get(t.Context(), "userId")
	require.NoError(t, err)
	require.Equal(t, "u1", value)
}

func TestStorage_DeleteMissingIsFine(t *testing.T) {
	t.Parallel()

	s := newStorage(t, filepath.Join(t.TempDir(), "state.db"))

	require.NoError(t, s.Delete(t.Context()))
	require.NoError(t, s.Delete(t.Context(), "nope", "also-nope"))
}
