package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"
	"github.com/zhulik/pal"

	"iteminsight/internal/interactions"
)

var errCommentArgs = errors.New("expected <post-id> and text arguments")

var commentCmd = &cli.Command{
	Name:  "comment",
	Usage: "Manage comments on a post",
	Commands: []*cli.Command{
		{
			Name:      "add",
			Usage:     "Comment on a post",
			ArgsUsage: "<post-id> <text>",
			Action: func(ctx context.Context, c *cli.Command) error {
				if c.Args().Len() != 2 {
					return errCommentArgs
				}
				return run(ctx, c, append(baseServices(), pal.Provide(&commentRunner{
					op:     "add",
					postID: c.Args().Get(0),
					text:   c.Args().Get(1),
				}))...)
			},
		},
		{
			Name:      "edit",
			Usage:     "Edit your comment",
			ArgsUsage: "<post-id> <comment-id> <text>",
			Action: func(ctx context.Context, c *cli.Command) error {
				if c.Args().Len() != 3 {
					return errCommentArgs
				}
				return run(ctx, c, append(baseServices(), pal.Provide(&commentRunner{
					op:        "edit",
					postID:    c.Args().Get(0),
					commentID: c.Args().Get(1),
					text:      c.Args().Get(2),
				}))...)
			},
		},
		{
			Name:      "rm",
			Usage:     "Delete your comment",
			ArgsUsage: "<post-id> <comment-id>",
			Action: func(ctx context.Context, c *cli.Command) error {
				if c.Args().Len() != 2 {
					return errCommentArgs
				}
				return run(ctx, c, append(baseServices(), pal.Provide(&commentRunner{
					op:        "rm",
					postID:    c.Args().Get(0),
					commentID: c.Args().Get(1),
				}))...)
			},
		},
	},
}

type commentRunner struct {
	Interactions *interactions.Controller

	op        string
	postID    string
	commentID string
	text      string
}

func (r *commentRunner) Run(ctx context.Context) error {
	switch r.op {
	case "add":
		comment, err := r.Interactions.AddComment(ctx, r.postID, r.text)
		if err != nil {
			return err
		}
		fmt.Println("comment", comment.ID)
		return nil
	case "edit":
		if err := r.Interactions.EditComment(ctx, r.postID, r.commentID, r.text); err != nil {
			return err
		}
		fmt.Println("edited")
		return nil
	default:
		if err := r.Interactions.DeleteComment(ctx, r.postID, r.commentID); err != nil {
			return err
		}
		fmt.Println("removed")
		return nil
	}
}
