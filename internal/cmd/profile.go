package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"
	"github.com/zhulik/pal"

	"iteminsight/internal/auth"
	"iteminsight/internal/core"
)

var errAvatarArgMissing = errors.New("expected an image file argument")

var profileCmd = &cli.Command{
	Name:  "profile",
	Usage: "Manage your profile",
	Commands: []*cli.Command{
		{
			Name:      "avatar",
			Usage:     "Upload a new avatar",
			ArgsUsage: "<file>",
			Action: func(ctx context.Context, c *cli.Command) error {
				if c.Args().Len() != 1 {
					return errAvatarArgMissing
				}
				return run(ctx, c, append(baseServices(), pal.Provide(&avatarRunner{
					path: c.Args().First(),
				}))...)
			},
		},
		{
			Name:  "passwd",
			Usage: "Change your password",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "current", Required: true},
				&cli.StringFlag{Name: "new", Required: true},
				&cli.StringFlag{Name: "confirm", Required: true},
			},
			Action: func(ctx context.Context, c *cli.Command) error {
				return run(ctx, c, append(baseServices(), pal.Provide(&passwdRunner{
					current: c.String("current"),
					next:    c.String("new"),
					confirm: c.String("confirm"),
				}))...)
			},
		},
	},
}

type avatarRunner struct {
	Auth    *auth.Service
	Session core.SessionStore

	path string
}

func (r *avatarRunner) Run(ctx context.Context) error {
	// Subscribe before the upload, the confirmation below rides on
	// the same broadcast every avatar view listens to.
	events := r.Session.Subscribe()

	if err := r.Auth.UpdateAvatar(ctx, r.path); err != nil {
		return err
	}

	select {
	case <-events:
	default:
	}
	fmt.Println("avatar updated:", r.Session.Current().AvatarURL)
	return nil
}

type passwdRunner struct {
	Auth *auth.Service

	current string
	next    string
	confirm string
}

func (r *passwdRunner) Run(ctx context.Context) error {
	if err := r.Auth.ChangePassword(ctx, r.current, r.next, r.confirm); err != nil {
		return err
	}
	fmt.Println("password changed")
	return nil
}
