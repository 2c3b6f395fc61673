package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/k0kubun/pp"
	"github.com/urfave/cli/v3"
	"github.com/zhulik/pal"

	"iteminsight/internal/config"
	"iteminsight/internal/core"
	"iteminsight/internal/interactions"
	"iteminsight/internal/postcache"
	"iteminsight/pkg/async"
)

var errPostArgMissing = errors.New("expected a post slug or id argument")

var postCmd = &cli.Command{
	Name:  "post",
	Usage: "View and interact with a single post",
	Commands: []*cli.Command{
		{
			Name:      "show",
			Usage:     "Show a post with its comments",
			ArgsUsage: "<slug>",
			Action: func(ctx context.Context, c *cli.Command) error {
				if c.Args().Len() != 1 {
					return errPostArgMissing
				}
				return run(ctx, c, append(baseServices(), pal.Provide(&showRunner{
					slug: c.Args().First(),
				}))...)
			},
		},
		{
			Name:      "like",
			Usage:     "Toggle your like on a post",
			ArgsUsage: "<id>",
			Action: func(ctx context.Context, c *cli.Command) error {
				if c.Args().Len() != 1 {
					return errPostArgMissing
				}
				return run(ctx, c, append(baseServices(), pal.Provide(&toggleRunner{
					postID: c.Args().First(),
					kind:   "like",
				}))...)
			},
		},
		{
			Name:      "bookmark",
			Usage:     "Toggle your bookmark on a post",
			ArgsUsage: "<id>",
			Action: func(ctx context.Context, c *cli.Command) error {
				if c.Args().Len() != 1 {
					return errPostArgMissing
				}
				return run(ctx, c, append(baseServices(), pal.Provide(&toggleRunner{
					postID: c.Args().First(),
					kind:   "bookmark",
				}))...)
			},
		},
		{
			Name:      "rm",
			Usage:     "Delete your own post",
			ArgsUsage: "<id>",
			Action: func(ctx context.Context, c *cli.Command) error {
				if c.Args().Len() != 1 {
					return errPostArgMissing
				}
				return run(ctx, c, append(baseServices(), pal.Provide(&deletePostRunner{
					postID: c.Args().First(),
				}))...)
			},
		},
		commentCmd,
	},
}

type showRunner struct {
	Logger       *slog.Logger
	Config       *config.Config
	Gateway      core.Gateway
	Cache        *postcache.Cache
	Interactions *interactions.Controller

	// slug of the post to show, a feed id works as a fallback.
	slug string
}

func (r *showRunner) Run(ctx context.Context) error {
	post, err := r.Gateway.GetPost(ctx, r.slug)
	if err != nil {
		var apiErr *core.APIError
		if !errors.As(err, &apiErr) {
			return err
		}
		if post, err = r.Gateway.GetPostByID(ctx, r.slug); err != nil {
			return err
		}
	}
	r.Cache.Merge(post)

	// Comments and the author profile load concurrently while the
	// post renders.
	commentsJob := async.Job(ctx, func(ctx context.Context) ([]core.Comment, error) {
		if err := r.Interactions.LoadComments(ctx, post.ID); err != nil {
			return nil, err
		}
		return r.Interactions.Comments(post.ID), nil
	})
	authorJob := async.Job(ctx, func(ctx context.Context) (core.User, error) {
		return r.Gateway.Profile(ctx, post.AuthorID)
	})

	if r.Config.Verbose {
		pp.Println(post)
	}

	fmt.Printf("%s\n", post.Title)
	if post.Subtitle != "" {
		fmt.Printf("%s\n", post.Subtitle)
	}

	author, err := authorJob.Wait()
	if err != nil {
		// The cached name on the post is good enough.
		author = core.User{Username: post.AuthorName}
	}
	fmt.Printf("by %s on %s\n\n", author.Username, post.CreatedAt.Format("Jan 02, 2006"))

	for _, block := range post.Blocks {
		fmt.Println(block.Text)
	}
	for _, link := range post.ProductLinks {
		fmt.Printf("shop: %s (%s)\n", link.Name, link.URL)
	}

	comments, err := commentsJob.Wait()
	if err != nil {
		return err
	}

	fmt.Printf("\n%d likes, %d comments\n", post.LikeCount, len(comments))
	for _, comment := range comments {
		fmt.Printf("  %s: %s\n", comment.AuthorName, comment.Text)
	}

	return nil
}

type toggleRunner struct {
	Gateway      core.Gateway
	Cache        *postcache.Cache
	Interactions *interactions.Controller

	postID string
	kind   string
}

func (r *toggleRunner) Run(ctx context.Context) error {
	post, err := r.Gateway.GetPostByID(ctx, r.postID)
	if err != nil {
		return err
	}
	r.Cache.Merge(post)

	if r.kind == "like" {
		post, err = r.Interactions.ToggleLike(ctx, r.postID)
	} else {
		post, err = r.Interactions.ToggleBookmark(ctx, r.postID)
	}
	if err != nil {
		return err
	}

	switch r.kind {
	case "like":
		fmt.Printf("liked=%t, %d likes\n", post.ViewerHasLiked, post.LikeCount)
	case "bookmark":
		fmt.Printf("bookmarked=%t\n", post.ViewerHasBookmarked)
	}
	return nil
}

type deletePostRunner struct {
	Gateway core.Gateway
	Session core.SessionStore

	postID string
}

func (r *deletePostRunner) Run(ctx context.Context) error {
	sess := r.Session.Current()
	if !sess.IsAuthenticated {
		return core.ErrNotLoggedIn
	}

	if err := r.Gateway.DeletePost(ctx, r.postID, sess.Token); err != nil {
		return err
	}
	fmt.Println("deleted")
	return nil
}
