package gateway

import (
	"context"

	"iteminsight/internal/core"
)

type commentListEnvelope struct {
	envelope
	Comments []core.Comment `json:"comments"`
}

type commentEnvelope struct {
	envelope
	Comment core.Comment `json:"comment"`
}

func (c *Client) ListComments(ctx context.Context, postID string) ([]core.Comment, error) {
	out := &commentListEnvelope{}

	res, err := c.r(ctx).
		SetResult(out).
		SetError(out).
		Get("/api/posts/" + postID + "/comments")
	if err := check("list_comments", res, err, out.Success, out.Message); err != nil {
		return nil, err
	}

	return out.Comments, nil
}

// AddComment returns the server record, authoritative id and
// timestamp included.
func (c *Client) AddComment(ctx context.Context, postID, text, token string) (core.Comment, error) {
	out := &commentEnvelope{}

	res, err := c.r(ctx).
		SetAuthToken(token).
		SetBody(map[string]string{"text": text}).
		SetResult(out).
		SetError(out).
		Post("/api/posts/" + postID + "/comments")
	if err := check("add_comment", res, err, out.Success, out.Message); err != nil {
		return core.Comment{}, err
	}

	return out.Comment, nil
}

func (c *Client) EditComment(ctx context.Context, postID, commentID, text, token string) error {
	out := &envelope{}

	res, err := c.r(ctx).
		SetAuthToken(token).
		SetBody(map[string]string{"text": text}).
		SetResult(out).
		SetError(out).
		Put("/api/posts/" + postID + "/comments/" + commentID)

	return check("edit_comment", res, err, out.Success, out.Message)
}

func (c *Client) DeleteComment(ctx context.Context, postID, commentID, token string) error {
	out := &envelope{}

	res, err := c.r(ctx).
		SetAuthToken(token).
		SetResult(out).
		SetError(out).
		Delete("/api/posts/" + postID + "/comments/" + commentID)

	return check("delete_comment", res, err, out.Success, out.Message)
}
