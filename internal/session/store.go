// Package session centralizes authentication state behind one store
// instead of scattering persisted reads across views. Views observe
// cross-cutting changes, currently only the avatar, through the
// store's broadcast channel.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"iteminsight/internal/core"
)

const (
	keyToken     = "token"
	keyUserID    = "userId"
	keyUserEmail = "userEmail"
	keyUsername  = "username"
	keyAvatarURL = "avatarUrl"
)

var stateKeys = []string{keyToken, keyUserID, keyUserEmail, keyUsername, keyAvatarURL}

type Store struct {
	Logger  *slog.Logger
	Storage core.StateStorage

	mu   sync.RWMutex
	sess core.Session
	subs []chan core.SessionEvent
}

// Init revalidates persisted state: the session is authenticated
// exactly when a token is present.
func (s *Store) Init(ctx context.Context) error {
	s.Logger = s.Logger.With("component", "session.Store")

	load := func(key string) (string, error) {
		value, err := s.Storage.Get(ctx, key)
		if errors.Is(err, core.ErrKeyNotFound) {
			return "", nil
		}
		return value, err
	}

	var err error
	if s.sess.Token, err = load(keyToken); err != nil {
		return err
	}
	if s.sess.UserID, err = load(keyUserID); err != nil {
		return err
	}
	if s.sess.Email, err = load(keyUserEmail); err != nil {
		return err
	}
	if s.sess.Username, err = load(keyUsername); err != nil {
		return err
	}
	if s.sess.AvatarURL, err = load(keyAvatarURL); err != nil {
		return err
	}

	s.sess.IsAuthenticated = s.sess.Token != ""

	if s.sess.IsAuthenticated {
		s.Logger.Debug("restored session", "user", s.sess.Username)
	}
	return nil
}

// Current returns a snapshot copy, never a live reference.
func (s *Store) Current() core.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sess
}

// Login persists and applies all session fields atomically.
func (s *Store) Login(ctx context.Context, token string, user core.User) error {
	err := s.Storage.PutAll(ctx, map[string]string{
		keyToken:     token,
		keyUserID:    user.ID,
		keyUserEmail: user.Email,
		keyUsername:  user.Username,
		keyAvatarURL: user.AvatarURL,
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.sess = core.Session{
		IsAuthenticated: true,
		Token:           token,
		UserID:          user.ID,
		Email:           user.Email,
		Username:        user.Username,
		AvatarURL:       user.AvatarURL,
	}
	s.mu.Unlock()

	return nil
}

// Logout clears persisted and in-memory state. Safe to call when
// already logged out.
func (s *Store) Logout(ctx context.Context) error {
	if err := s.Storage.Delete(ctx, stateKeys...); err != nil {
		return err
	}

	s.mu.Lock()
	s.sess = core.Session{}
	s.mu.Unlock()

	return nil
}

// SetAvatarURL persists the new URL and notifies subscribers so every
// view showing the avatar refreshes without a reload.
func (s *Store) SetAvatarURL(ctx context.Context, url string) error {
	if err := s.Storage.Put(ctx, keyAvatarURL, url); err != nil {
		return err
	}

	s.mu.Lock()
	s.sess.AvatarURL = url
	subs := make([]chan core.SessionEvent, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		// Best effort, a subscriber that stopped draining misses
		// the event instead of blocking the store.
		select {
		case sub <- core.EventAvatarUpdated:
		default:
		}
	}

	return nil
}

// Subscribe registers a listener for session events. The channel is
// buffered and never closed.
func (s *Store) Subscribe() <-chan core.SessionEvent {
	ch := make(chan core.SessionEvent, 8)

	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()

	return ch
}
