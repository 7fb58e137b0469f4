package cmd

import (
	"os"

	"github.com/caarlos0/env/v6"
	"github.com/goccy/go-yaml"
	"github.com/iamsayantan/lox"
)

// loadConfig layers configuration the way the CLI flags are documented to:
// code defaults lose to .loxrc.yaml, which loses to environment variables,
// which lose to whatever flags the caller passes in on top of the result.
func loadConfig() (lox.Config, error) {
	cfg := lox.DefaultConfig()

	if data, err := os.ReadFile(".loxrc.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}
