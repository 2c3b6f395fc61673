package gateway

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"iteminsight/internal/core"
)

type postListEnvelope struct {
	envelope
	Data []core.Post `json:"data"`
}

type postEnvelope struct {
	envelope
	Data core.Post `json:"data"`
}

// ListPosts fetches one feed page. The server's order is
// authoritative, callers must not re-sort.
func (c *Client) ListPosts(ctx context.Context, params core.ListPostsParams) ([]core.Post, error) {
	out := &postListEnvelope{}

	query := map[string]string{
		"page":  strconv.Itoa(params.Page),
		"limit": strconv.Itoa(params.PageSize),
		"sort":  string(params.Sort),
	}
	if params.Category != core.CategoryAll {
		query["category"] = params.Category
	}

	res, err := c.r(ctx).
		SetQueryParams(query).
		SetResult(out).
		SetError(out).
		Get("/api/posts")
	if err := check("list_posts", res, err, out.Success, out.Message); err != nil {
		return nil, err
	}

	return out.Data, nil
}

func (c *Client) GetPost(ctx context.Context, slug string) (core.Post, error) {
	out := &postEnvelope{}

	res, err := c.r(ctx).
		SetResult(out).
		SetError(out).
		Get("/api/posts/slug/" + slug)
	if err := check("get_post", res, err, out.Success, out.Message); err != nil {
		return core.Post{}, err
	}

	return out.Data, nil
}

func (c *Client) GetPostByID(ctx context.Context, id string) (core.Post, error) {
	out := &postEnvelope{}

	res, err := c.r(ctx).
		SetResult(out).
		SetError(out).
		Get("/api/posts/" + id)
	if err := check("get_post_by_id", res, err, out.Success, out.Message); err != nil {
		return core.Post{}, err
	}

	return out.Data, nil
}

func (c *Client) ListUserPosts(ctx context.Context, userID, token string) ([]core.Post, error) {
	out := &postListEnvelope{}

	res, err := c.r(ctx).
		SetAuthToken(token).
		SetResult(out).
		SetError(out).
		Get("/api/posts/user/" + userID)
	if err := check("list_user_posts", res, err, out.Success, out.Message); err != nil {
		return nil, err
	}

	return out.Data, nil
}

// ListBookmarks normalizes the backend's two historical response
// shapes, a success envelope or a bare array, into one.
func (c *Client) ListBookmarks(ctx context.Context, userID string) ([]core.Post, error) {
	res, err := c.r(ctx).Get("/api/posts/bookmarks/" + userID)
	if err != nil {
		requests.WithLabelValues("list_bookmarks", "connect_error").Inc()
		return nil, &core.ConnectError{Err: err}
	}

	body := res.Bytes()

	if res.IsError() {
		requests.WithLabelValues("list_bookmarks", "rejected").Inc()
		var out envelope
		_ = json.Unmarshal(body, &out)
		return nil, &core.APIError{Status: res.StatusCode(), Message: out.Message}
	}

	requests.WithLabelValues("list_bookmarks", "ok").Inc()

	if strings.HasPrefix(strings.TrimSpace(string(body)), "[") {
		var posts []core.Post
		if err := json.Unmarshal(body, &posts); err != nil {
			return nil, &core.APIError{Status: res.StatusCode(), Message: "malformed bookmarks response"}
		}
		return posts, nil
	}

	var out postListEnvelope
	if err := json.Unmarshal(body, &out); err != nil || !out.Success {
		return nil, &core.APIError{Status: res.StatusCode(), Message: out.Message}
	}
	return out.Data, nil
}

type likeEnvelope struct {
	envelope
	Liked     bool `json:"liked"`
	LikeCount int  `json:"likesCount"`
}

// ToggleLike flips the caller's like on a post. The returned values
// are server-confirmed and override any optimistic guess.
func (c *Client) ToggleLike(ctx context.Context, postID, userID string) (core.LikeResult, error) {
	out := &likeEnvelope{}

	res, err := c.r(ctx).
		SetBody(map[string]string{"userId": userID}).
		SetResult(out).
		SetError(out).
		Post("/api/posts/" + postID + "/toggle-like")
	if err := check("toggle_like", res, err, out.Success, out.Message); err != nil {
		return core.LikeResult{}, err
	}

	return core.LikeResult{Liked: out.Liked, LikeCount: out.LikeCount}, nil
}

type bookmarkEnvelope struct {
	envelope
	Bookmarked bool `json:"bookmarked"`
}

func (c *Client) ToggleBookmark(ctx context.Context, postID, userID string) (bool, error) {
	out := &bookmarkEnvelope{}

	res, err := c.r(ctx).
		SetBody(map[string]string{"userId": userID}).
		SetResult(out).
		SetError(out).
		Post("/api/posts/" + postID + "/toggle-bookmark")
	if err := check("toggle_bookmark", res, err, out.Success, out.Message); err != nil {
		return false, err
	}

	return out.Bookmarked, nil
}

// CreatePost submits a new post as multipart form data, content
// blocks and product links ride along as JSON fields.
func (c *Client) CreatePost(ctx context.Context, params core.CreatePostParams) (core.Post, error) {
	blocks, err := json.Marshal(params.Blocks)
	if err != nil {
		return core.Post{}, err
	}
	links, err := json.Marshal(params.ProductLinks)
	if err != nil {
		return core.Post{}, err
	}

	out := &postEnvelope{}

	req := c.r(ctx).
		SetAuthToken(params.Token).
		SetMultipartFormData(map[string]string{
			"title":        params.Title,
			"subtitle":     params.Subtitle,
			"category":     params.Category,
			"blocks":       string(blocks),
			"productLinks": string(links),
		}).
		SetResult(out).
		SetError(out)

	for _, img := range params.Images {
		req.SetMultipartField("images", img.Name, "application/octet-stream", img.Reader)
	}

	res, err := req.Post("/api/posts")
	if err := check("create_post", res, err, out.Success, out.Message); err != nil {
		return core.Post{}, err
	}

	return out.Data, nil
}

// DeletePost removes an own post. Ownership is enforced server-side,
// a foreign post yields an application rejection.
func (c *Client) DeletePost(ctx context.Context, postID, token string) error {
	out := &envelope{}

	res, err := c.r(ctx).
		SetAuthToken(token).
		SetResult(out).
		SetError(out).
		Delete("/api/posts/" + postID)

	return check("delete_post", res, err, out.Success, out.Message)
}
