package flags

import (
	"fmt"
	"slices"

	"github.com/urfave/cli/v3"
)

var validLogLevels = []string{"debug", "info", "warn", "error"}

var LogLevel = &cli.StringFlag{
	Name:    "log-level",
	Aliases: []string{"l"},
	Usage:   "The level of the logs",
	Value:   "info",
	Validator: func(value string) error {
		if !slices.Contains(validLogLevels, value) {
			return fmt.Errorf("invalid log level: %s, allowed values are: %s", value, validLogLevels)
		}
		return nil
	},
	Sources: cli.EnvVars("LOG_LEVEL"),
}

var Verbose = &cli.BoolFlag{
	Name:    "verbose",
	Aliases: []string{"v"},
	Usage:   "Dump raw records for debugging",
	Value:   false,
}

var Category = &cli.StringFlag{
	Name:    "category",
	Aliases: []string{"c"},
	Usage:   "Feed category, empty means the unfiltered feed",
}

var Sort = &cli.StringFlag{
	Name:  "sort",
	Usage: "Feed order: newest or oldest",
	Value: "newest",
	Validator: func(value string) error {
		if value != "newest" && value != "oldest" {
			return fmt.Errorf("invalid sort order: %s", value)
		}
		return nil
	},
}

var Search = &cli.StringFlag{
	Name:    "search",
	Aliases: []string{"s"},
	Usage:   "Narrow the loaded pages by a search term, no refetch",
}

var Pages = &cli.IntFlag{
	Name:    "pages",
	Aliases: []string{"p"},
	Usage:   "How many feed pages to load",
	Value:   1,
}

var Watch = &cli.BoolFlag{
	Name:  "watch",
	Usage: "Keep refreshing the feed until interrupted",
	Value: false,
}

var Interval = &cli.IntFlag{
	Name:  "interval",
	Usage: "Refresh interval in seconds for watch mode",
	Value: 30,
}

var MetricsAddr = &cli.StringFlag{
	Name:    "metrics-addr",
	Usage:   "Serve prometheus metrics on this address in watch mode",
	Sources: cli.EnvVars("METRICS_ADDR"),
}
