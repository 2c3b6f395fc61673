package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"
	"github.com/zhulik/pal"

	"iteminsight/internal/auth"
	"iteminsight/internal/core"
)

var authCmd = &cli.Command{
	Name:  "auth",
	Usage: "Manage the stored session",
	Commands: []*cli.Command{
		{
			Name:  "login",
			Usage: "Sign in and store the session",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "email", Required: true},
				&cli.StringFlag{Name: "password", Required: true},
			},
			Action: func(ctx context.Context, c *cli.Command) error {
				return run(ctx, c, append(baseServices(), pal.Provide(&loginRunner{
					email:    c.String("email"),
					password: c.String("password"),
				}))...)
			},
		},
		{
			Name:  "register",
			Usage: "Create an account and sign in",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "username", Required: true},
				&cli.StringFlag{Name: "email", Required: true},
				&cli.StringFlag{Name: "password", Required: true},
				&cli.StringFlag{Name: "confirm", Required: true},
			},
			Action: func(ctx context.Context, c *cli.Command) error {
				return run(ctx, c, append(baseServices(), pal.Provide(&registerRunner{
					username: c.String("username"),
					email:    c.String("email"),
					password: c.String("password"),
					confirm:  c.String("confirm"),
				}))...)
			},
		},
		{
			Name:  "logout",
			Usage: "Clear the stored session",
			Action: func(ctx context.Context, c *cli.Command) error {
				return run(ctx, c, append(baseServices(), pal.Provide(&logoutRunner{}))...)
			},
		},
		{
			Name:  "whoami",
			Usage: "Show the stored session",
			Action: func(ctx context.Context, c *cli.Command) error {
				return run(ctx, c, append(baseServices(), pal.Provide(&whoamiRunner{}))...)
			},
		},
	},
}

type loginRunner struct {
	Auth *auth.Service

	email    string
	password string
}

func (r *loginRunner) Run(ctx context.Context) error {
	if err := r.Auth.SignIn(ctx, r.email, r.password); err != nil {
		return err
	}
	fmt.Println("logged in")
	return nil
}

type registerRunner struct {
	Auth *auth.Service

	username string
	email    string
	password string
	confirm  string
}

func (r *registerRunner) Run(ctx context.Context) error {
	if err := r.Auth.SignUp(ctx, r.username, r.email, r.password, r.confirm); err != nil {
		return err
	}
	fmt.Println("registered and logged in")
	return nil
}

type logoutRunner struct {
	Auth *auth.Service
}

func (r *logoutRunner) Run(ctx context.Context) error {
	if err := r.Auth.SignOut(ctx); err != nil {
		return err
	}
	fmt.Println("logged out")
	return nil
}

type whoamiRunner struct {
	Logger  *slog.Logger
	Session core.SessionStore
}

func (r *whoamiRunner) Run(_ context.Context) error {
	sess := r.Session.Current()
	if !sess.IsAuthenticated {
		fmt.Println("not logged in")
		return nil
	}

	fmt.Printf("%s <%s>\n", sess.Username, sess.Email)
	if sess.AvatarURL != "" {
		fmt.Println("avatar:", sess.AvatarURL)
	}
	return nil
}
