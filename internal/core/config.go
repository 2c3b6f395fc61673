package core

import (
	"context"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Base URL of the ItemInsight API.
	APIURL string `envconfig:"API_URL" default:"http://localhost:5000"`

	// Path of the local state database. Empty means
	// ~/.iteminsight/state.db.
	StatePath string `envconfig:"STATE_PATH"`

	PageSize int `envconfig:"PAGE_SIZE" default:"10"`
}

func (c *Config) Init(_ context.Context) error {
	if err := envconfig.Process("iteminsight", c); err != nil {
		return err
	}

	if c.StatePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		c.StatePath = filepath.Join(home, ".iteminsight", "state.db")
	}

	return nil
}
