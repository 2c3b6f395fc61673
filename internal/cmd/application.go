package cmd

import (
	"context"
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"github.com/zhulik/pal"

	"iteminsight/internal/auth"
	"iteminsight/internal/cmd/flags"
	"iteminsight/internal/config"
	"iteminsight/internal/core"
	"iteminsight/internal/feed"
	"iteminsight/internal/gateway"
	"iteminsight/internal/interactions"
	"iteminsight/internal/postcache"
	"iteminsight/internal/session"
	"iteminsight/pkg/clicfg"
)

const VERSION = "0.1.0"

var cmd = &cli.Command{
	Name:    "iteminsight",
	Usage:   "ItemInsight is a terminal client for the ItemInsight social feed",
	Version: VERSION,
	Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
		if err := initLogger(c.String("log-level")); err != nil {
			return ctx, err
		}
		return ctx, nil
	},
	Flags: []cli.Flag{
		flags.LogLevel,
		flags.Verbose,
	},
	Commands: []*cli.Command{
		authCmd,
		feedCmd,
		postCmd,
		writeCmd,
		bookmarksCmd,
		mypostsCmd,
		profileCmd,
	},
}

func Run() {
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// baseServices is the wiring every command shares: config, state
// storage, session, gateway, cache and the controllers on top.
func baseServices() []pal.ServiceDef {
	return []pal.ServiceDef{
		pal.Provide(&core.Config{}),
		pal.Provide[core.StateStorage](&session.Storage{}),
		pal.Provide[core.SessionStore](&session.Store{}),
		pal.Provide[core.Gateway](&gateway.Client{}),
		pal.Provide(&postcache.Cache{}),
		pal.Provide(&feed.Controller{}),
		pal.Provide(&interactions.Controller{}),
		pal.Provide(&auth.Service{}),
	}
}

func run(ctx context.Context, c *cli.Command, services ...pal.ServiceDef) error {
	cfg := config.Config{}
	if err := clicfg.ParseFlags(c, &cfg); err != nil {
		return err
	}
	services = append(services, pal.Provide(&cfg))

	return pal.New(services...).
		InjectSlog().
		InitTimeout(5*time.Second).
		HealthCheckTimeout(1*time.Second).
		ShutdownTimeout(10*time.Second).
		Run(ctx, syscall.SIGINT, syscall.SIGTERM)
}
