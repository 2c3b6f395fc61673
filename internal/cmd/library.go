package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"github.com/zhulik/pal"

	"iteminsight/internal/core"
)

var bookmarksCmd = &cli.Command{
	Name:  "bookmarks",
	Usage: "List your bookmarked posts",
	Action: func(ctx context.Context, c *cli.Command) error {
		return run(ctx, c, append(baseServices(), pal.Provide(&libraryRunner{mine: false}))...)
	},
}

var mypostsCmd = &cli.Command{
	Name:  "myposts",
	Usage: "List the posts you authored",
	Action: func(ctx context.Context, c *cli.Command) error {
		return run(ctx, c, append(baseServices(), pal.Provide(&libraryRunner{mine: true}))...)
	},
}

// libraryRunner serves both personal list views, they differ only in
// the endpoint.
type libraryRunner struct {
	Gateway core.Gateway
	Session core.SessionStore

	mine bool
}

func (r *libraryRunner) Run(ctx context.Context) error {
	sess := r.Session.Current()
	if !sess.IsAuthenticated {
		return core.ErrNotLoggedIn
	}

	var posts []core.Post
	var err error
	if r.mine {
		posts, err = r.Gateway.ListUserPosts(ctx, sess.UserID, sess.Token)
	} else {
		posts, err = r.Gateway.ListBookmarks(ctx, sess.UserID)
	}
	if err != nil {
		return err
	}

	if len(posts) == 0 {
		fmt.Println("nothing here yet")
		return nil
	}

	for _, post := range posts {
		fmt.Printf("%-24s  %-40s  %s  %s\n",
			post.ID, post.Title, post.AuthorName, post.CreatedAt.Format("Jan 02, 2006"))
	}
	return nil
}
