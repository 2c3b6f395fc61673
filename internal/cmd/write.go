package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/urfave/cli/v3"
	"github.com/zhulik/pal"

	"iteminsight/internal/core"
)

var errBadProductLink = errors.New("product links must be name=url pairs")

var writeCmd = &cli.Command{
	Name:  "write",
	Usage: "Publish a new post",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "title", Required: true},
		&cli.StringFlag{Name: "subtitle"},
		&cli.StringFlag{Name: "post-category", Usage: "Category to publish under", Required: true},
		&cli.StringSliceFlag{Name: "text", Usage: "Content block, repeatable"},
		&cli.StringSliceFlag{Name: "image", Usage: "Image file to attach, repeatable"},
		&cli.StringSliceFlag{Name: "link", Usage: "Product link as name=url, repeatable"},
	},
	Action: func(ctx context.Context, c *cli.Command) error {
		links := make([]core.ProductLink, 0, len(c.StringSlice("link")))
		for _, raw := range c.StringSlice("link") {
			name, url, ok := strings.Cut(raw, "=")
			if !ok {
				return fmt.Errorf("%w: %s", errBadProductLink, raw)
			}
			links = append(links, core.ProductLink{Name: name, URL: url})
		}

		return run(ctx, c, append(baseServices(), pal.Provide(&writeRunner{
			title:    c.String("title"),
			subtitle: c.String("subtitle"),
			category: c.String("post-category"),
			texts:    c.StringSlice("text"),
			images:   c.StringSlice("image"),
			links:    links,
		}))...)
	},
}

type writeRunner struct {
	Gateway core.Gateway
	Session core.SessionStore

	title    string
	subtitle string
	category string
	texts    []string
	images   []string
	links    []core.ProductLink
}

func (r *writeRunner) Run(ctx context.Context) error {
	sess := r.Session.Current()
	if !sess.IsAuthenticated {
		return core.ErrNotLoggedIn
	}

	var uploads []core.Upload
	var files []*os.File
	defer func() {
		for _, f := range files {
			f.Close()
		}
	}()

	for _, path := range r.images {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		files = append(files, f)
		uploads = append(uploads, core.Upload{Name: filepath.Base(path), Reader: f})
	}

	post, err := r.Gateway.CreatePost(ctx, core.CreatePostParams{
		Title:    r.title,
		Subtitle: r.subtitle,
		Category: r.category,
		Blocks: lo.Map(r.texts, func(text string, _ int) core.Block {
			return core.Block{Type: "paragraph", Text: text}
		}),
		ProductLinks: r.links,
		Images:       uploads,
		Token:        sess.Token,
	})
	if err != nil {
		return err
	}

	fmt.Println("published", post.Slug)
	return nil
}
