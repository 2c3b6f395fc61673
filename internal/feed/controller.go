// Package feed owns the paginated post window: load-more
// bookkeeping, category/sort selection and client-side search
// narrowing over the loaded pages.
package feed

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/samber/lo"

	"iteminsight/internal/core"
	"iteminsight/internal/postcache"
)

var stalePages = promauto.NewCounter(prometheus.CounterOpts{
	Name: "iteminsight_stale_pages_discarded_total",
	Help: "Feed pages discarded because the filter changed while the fetch was in flight.",
})

type Controller struct {
	Logger  *slog.Logger
	Config  *core.Config
	Gateway core.Gateway
	Cache   *postcache.Cache

	mu       sync.Mutex
	category string
	sort     core.SortOrder
	search   string
	page     int
	pageSize int
	hasMore  bool
	loading  bool
	err      error

	// epoch identifies the active filter selection. A fetch carries
	// the epoch it was issued under, a completion under a different
	// epoch is discarded.
	epoch  uint64
	window []string
	seen   map[string]struct{}
}

func (c *Controller) Init(_ context.Context) error {
	c.Logger = c.Logger.With("component", "feed.Controller")

	c.mu.Lock()
	defer c.mu.Unlock()

	c.pageSize = c.Config.PageSize
	if c.pageSize <= 0 {
		c.pageSize = 10
	}
	c.sort = core.SortNewest
	c.hasMore = true
	c.seen = map[string]struct{}{}

	return nil
}

// reset starts a new filter epoch. Caller holds the lock.
func (c *Controller) reset() {
	c.epoch++
	c.window = nil
	c.seen = map[string]struct{}{}
	c.page = 0
	c.hasMore = true
	c.loading = false
	c.err = nil
}

// Refresh replaces the window with a fresh first page under the
// current filters.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.reset()
	c.mu.Unlock()

	return c.fetchNext(ctx)
}

// Select applies a category and sort order together and rebuilds the
// window with a single first-page fetch.
func (c *Controller) Select(ctx context.Context, category string, sort core.SortOrder) error {
	c.mu.Lock()
	c.category = category
	c.sort = sort
	c.reset()
	c.mu.Unlock()

	return c.fetchNext(ctx)
}

// SetCategory switches the feed to another category. Old and new
// results are never merged, the window is rebuilt from page one.
func (c *Controller) SetCategory(ctx context.Context, category string) error {
	c.mu.Lock()
	if category == c.category {
		c.mu.Unlock()
		return nil
	}
	sort := c.sort
	c.mu.Unlock()

	return c.Select(ctx, category, sort)
}

func (c *Controller) SetSort(ctx context.Context, sort core.SortOrder) error {
	c.mu.Lock()
	if sort == c.sort {
		c.mu.Unlock()
		return nil
	}
	category := c.category
	c.mu.Unlock()

	return c.Select(ctx, category, sort)
}

// SetSearch narrows the already loaded window, it never refetches.
// Search is therefore bounded to the pages loaded so far.
func (c *Controller) SetSearch(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.search = term
}

// LoadMore appends the next page. No-op while a fetch is in flight or
// when the end of data was reached.
func (c *Controller) LoadMore(ctx context.Context) error {
	return c.fetchNext(ctx)
}

func (c *Controller) fetchNext(ctx context.Context) error {
	c.mu.Lock()
	if c.loading || !c.hasMore {
		c.mu.Unlock()
		return nil
	}
	c.loading = true
	epoch := c.epoch
	params := core.ListPostsParams{
		Page:     c.page + 1,
		PageSize: c.pageSize,
		Category: c.category,
		Sort:     c.sort,
	}
	c.mu.Unlock()

	posts, err := c.Gateway.ListPosts(ctx, params)

	c.mu.Lock()
	defer c.mu.Unlock()

	if epoch != c.epoch {
		stalePages.Inc()
		c.Logger.Debug("discarded stale page", "page", params.Page, "category", params.Category)
		return nil
	}

	c.loading = false

	if err != nil {
		// Existing window stays untouched, no automatic retry.
		c.err = err
		return err
	}

	c.err = nil
	c.page = params.Page
	// A short page signals the end of data. A page that exactly
	// fills pageSize on the true last page costs one extra empty
	// fetch, the API exposes no total count to do better.
	c.hasMore = len(posts) >= c.pageSize

	for _, post := range posts {
		if _, dup := c.seen[post.ID]; dup {
			continue
		}
		c.seen[post.ID] = struct{}{}
		c.window = append(c.window, post.ID)
		c.Cache.Merge(post)
	}

	return nil
}

// Posts returns the visible window in server order, narrowed by the
// search term when one is set.
func (c *Controller) Posts() []core.Post {
	c.mu.Lock()
	window := make([]string, len(c.window))
	copy(window, c.window)
	term := strings.ToLower(c.search)
	c.mu.Unlock()

	return lo.FilterMap(window, func(id string, _ int) (core.Post, bool) {
		post, ok := c.Cache.Get(id)
		if !ok {
			return core.Post{}, false
		}
		return post, term == "" || matches(post, term)
	})
}

func matches(post core.Post, term string) bool {
	return strings.Contains(strings.ToLower(post.Title), term) ||
		strings.Contains(strings.ToLower(post.Category), term) ||
		strings.Contains(strings.ToLower(post.AuthorName), term)
}

func (c *Controller) HasMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasMore
}

func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Err returns the error of the last failed fetch, cleared by the next
// filter change.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}
