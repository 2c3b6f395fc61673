// Package postcache holds the per-id post records shared by the feed
// and the interaction controller. All updates are merges on the
// matching id, never wholesale replacement, so a page load cannot
// clobber concurrent optimistic state and vice versa.
package postcache

import (
	"context"
	"sync"

	"iteminsight/internal/core"
)

type Cache struct {
	mu    sync.RWMutex
	posts map[string]core.Post
}

func New() *Cache {
	return &Cache{posts: map[string]core.Post{}}
}

// Init makes the zero value usable when the cache is wired as a
// service.
func (c *Cache) Init(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.posts == nil {
		c.posts = map[string]core.Post{}
	}
	return nil
}

// Merge stores post under its id, replacing the previous record.
func (c *Cache) Merge(post core.Post) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.posts == nil {
		c.posts = map[string]core.Post{}
	}
	c.posts[post.ID] = post
}

func (c *Cache) Get(id string) (core.Post, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	post, ok := c.posts[id]
	return post, ok
}

// Update applies fn to the record with the given id, if present, and
// returns the updated copy. The snapshot returned second is the state
// before the update, callers keep it for rollback.
func (c *Cache) Update(id string, fn func(*core.Post)) (core.Post, core.Post, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prev, ok := c.posts[id]
	if !ok {
		return core.Post{}, core.Post{}, false
	}

	next := prev
	fn(&next)
	c.posts[id] = next

	return next, prev, true
}
