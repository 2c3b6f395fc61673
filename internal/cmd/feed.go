package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/k0kubun/pp"
	"github.com/urfave/cli/v3"
	"github.com/zhulik/pal"

	"iteminsight/internal/cmd/flags"
	"iteminsight/internal/config"
	"iteminsight/internal/core"
	"iteminsight/internal/feed"
	"iteminsight/internal/metrics"
)

var feedCmd = &cli.Command{
	Name:  "feed",
	Usage: "Browse the post feed",
	Flags: []cli.Flag{
		flags.Category,
		flags.Sort,
		flags.Search,
		flags.Pages,
		flags.Watch,
		flags.Interval,
		flags.MetricsAddr,
	},
	Action: func(ctx context.Context, c *cli.Command) error {
		services := append(baseServices(), pal.Provide(&feedRunner{}))
		if c.Bool("watch") && c.String("metrics-addr") != "" {
			services = append(services, pal.Provide(&metrics.Server{}))
		}
		return run(ctx, c, services...)
	},
}

type feedRunner struct {
	Logger *slog.Logger
	Config *config.Config
	Feed   *feed.Controller
}

func (r *feedRunner) Run(ctx context.Context) error {
	if err := r.load(ctx); err != nil {
		return err
	}
	r.print()

	if !r.Config.Watch {
		return nil
	}

	ticker := time.NewTicker(time.Duration(r.Config.Interval) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := r.Feed.Refresh(ctx); err != nil {
				r.Logger.Error("refresh failed", "error", err)
				continue
			}
			r.print()
		}
	}
}

func (r *feedRunner) load(ctx context.Context) error {
	sort := core.SortNewest
	if r.Config.Sort == "oldest" {
		sort = core.SortOldest
	}

	if err := r.Feed.Select(ctx, r.Config.Category, sort); err != nil {
		return err
	}

	for page := 1; page < r.Config.Pages && r.Feed.HasMore(); page++ {
		if err := r.Feed.LoadMore(ctx); err != nil {
			return err
		}
	}

	r.Feed.SetSearch(r.Config.Search)
	return nil
}

func (r *feedRunner) print() {
	posts := r.Feed.Posts()

	if r.Config.Verbose {
		pp.Println(posts)
	}

	for _, post := range posts {
		liked := " "
		if post.ViewerHasLiked {
			liked = "♥"
		}
		fmt.Printf("%-24s  %s %-40s  %-10s  %s  %d likes\n",
			post.ID, liked, post.Title, post.Category, post.AuthorName, post.LikeCount)
	}

	if !r.Feed.HasMore() {
		fmt.Println("-- end of feed --")
	}
}
