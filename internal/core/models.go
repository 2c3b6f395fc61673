package core

import "time"

// Post is the client-side record of a post as the feed and the
// interaction controller see it. The viewer* flags are per-session.
type Post struct {
	ID           string `json:"_id"`
	Slug         string `json:"slug"`
	Title        string `json:"title"`
	Subtitle     string `json:"subtitle"`
	Category     string `json:"category"`
	AuthorID     string `json:"authorId"`
	AuthorName   string `json:"authorName"`
	AuthorAvatar string `json:"authorAvatar"`

	Images       []Image       `json:"images"`
	Blocks       []Block       `json:"blocks"`
	ProductLinks []ProductLink `json:"productLinks"`

	LikeCount           int  `json:"likesCount"`
	ViewerHasLiked      bool `json:"isLiked"`
	ViewerHasBookmarked bool `json:"isBookmarked"`

	CreatedAt time.Time `json:"createdAt"`
}

type Image struct {
	URL string `json:"url"`
}

// Block is one content block of a post body, interleaved with images
// on the detail page.
type Block struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type ProductLink struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type Comment struct {
	ID           string    `json:"_id"`
	PostID       string    `json:"postId"`
	AuthorID     string    `json:"authorId"`
	AuthorName   string    `json:"authorName"`
	AuthorAvatar string    `json:"authorAvatar"`
	Text         string    `json:"text"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Session is a snapshot of the authentication state. Zero value means
// logged out.
type Session struct {
	IsAuthenticated bool
	UserID          string
	Token           string
	Email           string
	Username        string
	AvatarURL       string
}

// User is the profile record returned by login and profile endpoints.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatarUrl"`
}

type SessionEvent int

const (
	// EventAvatarUpdated carries no payload, listeners re-read the
	// session state.
	EventAvatarUpdated SessionEvent = iota
)

type SortOrder string

const (
	SortNewest SortOrder = "desc"
	SortOldest SortOrder = "asc"
)

// CategoryAll selects the unfiltered feed.
const CategoryAll = ""
