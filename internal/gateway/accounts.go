package gateway

import (
	"context"

	"iteminsight/internal/core"
)

// The account endpoints predate the success envelope, they signal
// failure through the HTTP status plus a message field only.
type loginResponse struct {
	Token   string    `json:"token"`
	User    core.User `json:"user"`
	Message string    `json:"message"`
}

// Login exchanges credentials for a bearer token and the profile of
// the user it belongs to. The token is opaque to the client.
func (c *Client) Login(ctx context.Context, email, password string) (string, core.User, error) {
	out := &loginResponse{}

	res, err := c.r(ctx).
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(out).
		SetError(out).
		Post("/api/login")
	if err := check("login", res, err, true, out.Message); err != nil {
		return "", core.User{}, err
	}

	return out.Token, out.User, nil
}

func (c *Client) Register(ctx context.Context, username, email, password string) error {
	out := &envelope{}

	res, err := c.r(ctx).
		SetBody(map[string]string{
			"username": username,
			"email":    email,
			"password": password,
		}).
		SetResult(out).
		SetError(out).
		Post("/api/register")

	return check("register", res, err, out.Success, out.Message)
}

type profileEnvelope struct {
	envelope
	User core.User `json:"user"`
}

func (c *Client) Profile(ctx context.Context, userID string) (core.User, error) {
	out := &profileEnvelope{}

	res, err := c.r(ctx).
		SetResult(out).
		SetError(out).
		Get("/api/user/" + userID)
	if err := check("profile", res, err, out.Success, out.Message); err != nil {
		return core.User{}, err
	}

	return out.User, nil
}

type avatarResponse struct {
	AvatarURL string `json:"avatarUrl"`
	Message   string `json:"message"`
}

// UpdateAvatar uploads a new avatar image and returns the URL the
// server stored it under.
func (c *Client) UpdateAvatar(ctx context.Context, userID string, avatar core.Upload) (string, error) {
	out := &avatarResponse{}

	res, err := c.r(ctx).
		SetMultipartField("avatar", avatar.Name, "application/octet-stream", avatar.Reader).
		SetResult(out).
		SetError(out).
		Put("/api/avatar/" + userID)
	if err := check("update_avatar", res, err, true, out.Message); err != nil {
		return "", err
	}

	return out.AvatarURL, nil
}

func (c *Client) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	out := &envelope{}

	res, err := c.r(ctx).
		SetBody(map[string]string{
			"currentPassword": currentPassword,
			"newPassword":     newPassword,
		}).
		SetResult(out).
		SetError(out).
		Put("/api/user/password/" + userID)

	// 2xx means changed, the body carries no success flag here.
	return check("change_password", res, err, true, out.Message)
}
