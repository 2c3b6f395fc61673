// Package auth orchestrates credential flows above the gateway and
// the session store, including the local validation that runs before
// anything is submitted.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"iteminsight/internal/core"
)

const (
	minPasswordLen = 6
	maxAvatarBytes = 5 << 20
)

var (
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrAvatarType       = errors.New("avatar must be a jpg, png or webp image")
	ErrAvatarTooLarge   = errors.New("avatar must be 5 MB or smaller")
)

var avatarExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
}

type Service struct {
	Logger  *slog.Logger
	Gateway core.Gateway
	Session core.SessionStore
}

func (s *Service) Init(_ context.Context) error {
	s.Logger = s.Logger.With("component", "auth.Service")
	return nil
}

// SignIn verifies credentials against the API and stores the issued
// token and profile in the session.
func (s *Service) SignIn(ctx context.Context, email, password string) error {
	token, user, err := s.Gateway.Login(ctx, email, password)
	if err != nil {
		return err
	}

	if err := s.Session.Login(ctx, token, user); err != nil {
		return err
	}

	s.Logger.Info("signed in", "user", user.Username)
	return nil
}

// SignUp registers the account and signs in right away, the register
// endpoint issues no token itself.
func (s *Service) SignUp(ctx context.Context, username, email, password, confirm string) error {
	if password != confirm {
		return ErrPasswordMismatch
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return ErrPasswordTooShort
	}

	if err := s.Gateway.Register(ctx, username, email, password); err != nil {
		return err
	}

	return s.SignIn(ctx, email, password)
}

func (s *Service) SignOut(ctx context.Context) error {
	return s.Session.Logout(ctx)
}

// ChangePassword validates locally first: session, confirmation match
// and minimum length are checked before the request goes out.
func (s *Service) ChangePassword(ctx context.Context, current, next, confirm string) error {
	sess := s.Session.Current()
	if !sess.IsAuthenticated {
		return core.ErrNotLoggedIn
	}
	if next != confirm {
		return ErrPasswordMismatch
	}
	if utf8.RuneCountInString(next) < minPasswordLen {
		return ErrPasswordTooShort
	}

	return s.Gateway.ChangePassword(ctx, sess.UserID, current, next)
}

// UpdateAvatar validates the file locally, uploads it, and persists
// the returned URL, which also broadcasts the avatar-updated event.
func (s *Service) UpdateAvatar(ctx context.Context, path string) error {
	sess := s.Session.Current()
	if !sess.IsAuthenticated {
		return core.ErrNotLoggedIn
	}

	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := avatarExtensions[ext]; !ok {
		return ErrAvatarType
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.Size() > maxAvatarBytes {
		return ErrAvatarTooLarge
	}

	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	url, err := s.Gateway.UpdateAvatar(ctx, sess.UserID, core.Upload{
		Name:   filepath.Base(path),
		Reader: file,
	})
	if err != nil {
		return err
	}

	return s.Session.SetAvatarURL(ctx, url)
}
