// Package interactions owns per-post mutable state: like and
// bookmark toggles with optimistic apply and rollback, and the
// comment list of the post detail view.
package interactions

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"iteminsight/internal/core"
	"iteminsight/internal/postcache"
)

var rollbacks = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "iteminsight_optimistic_rollbacks_total",
	Help: "Optimistic updates rolled back after the server rejected them.",
}, []string{"kind"})

var ErrUnknownPost = errors.New("post is not loaded")

type Controller struct {
	Logger  *slog.Logger
	Gateway core.Gateway
	Session core.SessionStore
	Cache   *postcache.Cache

	mu       sync.Mutex
	comments map[string][]core.Comment
	inflight map[string]struct{}
}

func (c *Controller) Init(_ context.Context) error {
	c.Logger = c.Logger.With("component", "interactions.Controller")

	c.mu.Lock()
	defer c.mu.Unlock()
	c.comments = map[string][]core.Comment{}
	c.inflight = map[string]struct{}{}

	return nil
}

// requireUser is the authorization precondition of every mutation: it
// fails fast, before any network call, when the session has no user.
func (c *Controller) requireUser() (core.Session, error) {
	sess := c.Session.Current()
	if !sess.IsAuthenticated || sess.UserID == "" || sess.Token == "" {
		return core.Session{}, core.ErrNotLoggedIn
	}
	return sess, nil
}

// toggle runs the three-phase protocol shared by like and bookmark:
// apply the optimistic flip, await confirmation, then reconcile with
// the server values or roll back. Rollback restores only the toggled
// kind's fields from the snapshot, a like and a bookmark in flight on
// the same post must not clobber each other's optimistic state.
func (c *Controller) toggle(
	ctx context.Context,
	postID, kind string,
	apply func(*core.Post),
	rollback func(p *core.Post, prev core.Post),
	confirm func(context.Context) (func(*core.Post), error),
) (core.Post, error) {
	key := kind + ":" + postID

	c.mu.Lock()
	if _, busy := c.inflight[key]; busy {
		// The user's intent is already being applied, a second
		// click must not double-toggle.
		c.mu.Unlock()
		post, _ := c.Cache.Get(postID)
		return post, nil
	}
	c.inflight[key] = struct{}{}
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.inflight, key)
		c.mu.Unlock()
	}()

	optimistic, prev, ok := c.Cache.Update(postID, apply)
	if !ok {
		return core.Post{}, ErrUnknownPost
	}

	reconcile, err := confirm(ctx)
	if err != nil {
		rollbacks.WithLabelValues(kind).Inc()
		c.Logger.Debug("rolling back optimistic toggle", "kind", kind, "post", postID, "error", err)
		post, _, ok := c.Cache.Update(postID, func(p *core.Post) { rollback(p, prev) })
		if !ok {
			return prev, err
		}
		return post, err
	}

	post, _, ok := c.Cache.Update(postID, reconcile)
	if !ok {
		return optimistic, nil
	}
	return post, nil
}

// ToggleLike flips the viewer's like optimistically and reconciles
// with the server-confirmed liked/likesCount values.
func (c *Controller) ToggleLike(ctx context.Context, postID string) (core.Post, error) {
	sess, err := c.requireUser()
	if err != nil {
		return core.Post{}, err
	}

	return c.toggle(ctx, postID, "like",
		func(p *core.Post) {
			if p.ViewerHasLiked {
				p.LikeCount--
			} else {
				p.LikeCount++
			}
			p.ViewerHasLiked = !p.ViewerHasLiked
		},
		func(p *core.Post, prev core.Post) {
			p.ViewerHasLiked = prev.ViewerHasLiked
			p.LikeCount = prev.LikeCount
		},
		func(ctx context.Context) (func(*core.Post), error) {
			res, err := c.Gateway.ToggleLike(ctx, postID, sess.UserID)
			if err != nil {
				return nil, err
			}
			return func(p *core.Post) {
				p.ViewerHasLiked = res.Liked
				p.LikeCount = res.LikeCount
			}, nil
		})
}

func (c *Controller) ToggleBookmark(ctx context.Context, postID string) (core.Post, error) {
	sess, err := c.requireUser()
	if err != nil {
		return core.Post{}, err
	}

	return c.toggle(ctx, postID, "bookmark",
		func(p *core.Post) {
			p.ViewerHasBookmarked = !p.ViewerHasBookmarked
		},
		func(p *core.Post, prev core.Post) {
			p.ViewerHasBookmarked = prev.ViewerHasBookmarked
		},
		func(ctx context.Context) (func(*core.Post), error) {
			bookmarked, err := c.Gateway.ToggleBookmark(ctx, postID, sess.UserID)
			if err != nil {
				return nil, err
			}
			return func(p *core.Post) {
				p.ViewerHasBookmarked = bookmarked
			}, nil
		})
}

// LoadComments replaces the local comment list of a post with the
// server's.
func (c *Controller) LoadComments(ctx context.Context, postID string) error {
	comments, err := c.Gateway.ListComments(ctx, postID)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.comments[postID] = comments

	return nil
}

// Comments returns a copy of the loaded comment list in display
// order.
func (c *Controller) Comments(postID string) []core.Comment {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]core.Comment, len(c.comments[postID]))
	copy(out, c.comments[postID])
	return out
}

// AddComment inserts the comment optimistically under a local id,
// then swaps in the server record, authoritative id and timestamp,
// once confirmed. On failure the optimistic entry is removed.
func (c *Controller) AddComment(ctx context.Context, postID, text string) (core.Comment, error) {
	sess, err := c.requireUser()
	if err != nil {
		return core.Comment{}, err
	}

	local := core.Comment{
		ID:           "local-" + uuid.NewString(),
		PostID:       postID,
		AuthorID:     sess.UserID,
		AuthorName:   sess.Username,
		AuthorAvatar: sess.AvatarURL,
		Text:         text,
		CreatedAt:    time.Now(),
	}

	c.mu.Lock()
	c.comments[postID] = append(c.comments[postID], local)
	c.mu.Unlock()

	confirmed, err := c.Gateway.AddComment(ctx, postID, text, sess.Token)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		rollbacks.WithLabelValues("comment").Inc()
		c.removeLocked(postID, local.ID)
		return core.Comment{}, err
	}

	for i, comment := range c.comments[postID] {
		if comment.ID == local.ID {
			c.comments[postID][i] = confirmed
			break
		}
	}

	return confirmed, nil
}

// EditComment is pessimistic: the local text changes only after the
// server confirmed the edit.
func (c *Controller) EditComment(ctx context.Context, postID, commentID, text string) error {
	sess, err := c.requireUser()
	if err != nil {
		return err
	}

	if err := c.Gateway.EditComment(ctx, postID, commentID, text, sess.Token); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i, comment := range c.comments[postID] {
		if comment.ID == commentID {
			c.comments[postID][i].Text = text
			break
		}
	}

	return nil
}

// DeleteComment is pessimistic: the comment stays in the list until
// the server confirmed the delete.
func (c *Controller) DeleteComment(ctx context.Context, postID, commentID string) error {
	sess, err := c.requireUser()
	if err != nil {
		return err
	}

	if err := c.Gateway.DeleteComment(ctx, postID, commentID, sess.Token); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(postID, commentID)

	return nil
}

func (c *Controller) removeLocked(postID, commentID string) {
	list := c.comments[postID]
	for i, comment := range list {
		if comment.ID == commentID {
			c.comments[postID] = append(list[:i], list[i+1:]...)
			return
		}
	}
}
