package config

// Config carries the CLI flag values, bound by clicfg.ParseFlags.
type Config struct {
	LogLevel    string `flag:"log-level"`
	Verbose     bool   `flag:"verbose"`
	MetricsAddr string `flag:"metrics-addr"`

	Category string `flag:"category"`
	Sort     string `flag:"sort"`
	Search   string `flag:"search"`
	Pages    int    `flag:"pages"`
	Watch    bool   `flag:"watch"`
	Interval int    `flag:"interval"`
}
