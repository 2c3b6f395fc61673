package core

import (
	"context"
	"io"
)

// StateStorage is the persisted key-value state surviving restarts,
// the client-side analog of browser local storage. Get returns
// ErrKeyNotFound for missing keys.
type StateStorage interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key string, value string) error
	PutAll(ctx context.Context, values map[string]string) error
	Delete(ctx context.Context, keys ...string) error
}

// SessionState is the read/notify surface of the session store used
// by controllers and the route guard.
type SessionState interface {
	Current() Session
	Subscribe() <-chan SessionEvent
}

// SessionStore adds the login/logout transitions on top of
// SessionState.
type SessionStore interface {
	SessionState
	Login(ctx context.Context, token string, user User) error
	Logout(ctx context.Context) error
	SetAvatarURL(ctx context.Context, url string) error
}

type ListPostsParams struct {
	Page     int
	PageSize int
	Category string
	Sort     SortOrder
}

type CreatePostParams struct {
	Title        string
	Subtitle     string
	Category     string
	Blocks       []Block
	ProductLinks []ProductLink
	Images       []Upload
	Token        string
}

// Upload is a file attached to a multipart request.
type Upload struct {
	Name   string
	Reader io.Reader
}

// LikeResult carries the server-confirmed like state, authoritative
// over any optimistic guess.
type LikeResult struct {
	Liked     bool
	LikeCount int
}

// FeedGateway covers the read endpoints feeding list views.
type FeedGateway interface {
	ListPosts(ctx context.Context, params ListPostsParams) ([]Post, error)
	GetPost(ctx context.Context, slug string) (Post, error)
	GetPostByID(ctx context.Context, id string) (Post, error)
	ListUserPosts(ctx context.Context, userID, token string) ([]Post, error)
	ListBookmarks(ctx context.Context, userID string) ([]Post, error)
}

// InteractionGateway covers per-post mutations.
type InteractionGateway interface {
	ToggleLike(ctx context.Context, postID, userID string) (LikeResult, error)
	ToggleBookmark(ctx context.Context, postID, userID string) (bool, error)
	ListComments(ctx context.Context, postID string) ([]Comment, error)
	AddComment(ctx context.Context, postID, text, token string) (Comment, error)
	EditComment(ctx context.Context, postID, commentID, text, token string) error
	DeleteComment(ctx context.Context, postID, commentID, token string) error
}

// AuthorGateway covers post authoring.
type AuthorGateway interface {
	CreatePost(ctx context.Context, params CreatePostParams) (Post, error)
	DeletePost(ctx context.Context, postID, token string) error
}

// AccountGateway covers credentials and profile endpoints.
type AccountGateway interface {
	Login(ctx context.Context, email, password string) (string, User, error)
	Register(ctx context.Context, username, email, password string) error
	Profile(ctx context.Context, userID string) (User, error)
	UpdateAvatar(ctx context.Context, userID string, avatar Upload) (string, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
}

type Gateway interface {
	FeedGateway
	InteractionGateway
	AuthorGateway
	AccountGateway
}
