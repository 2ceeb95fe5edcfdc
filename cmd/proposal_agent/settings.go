package main

import (
	"fmt"

	"github.com/jonathan/proposal-pages/internal/config"
)

// loadSettings merges the optional config file over the environment and the
// built-in defaults. File values win over environment values.
func loadSettings(path string) (config.Config, error) {
	var fileCfg config.Config
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
		fileCfg = *loaded
	}

	envCfg, err := config.FromEnv()
	if err != nil {
		return config.Config{}, err
	}

	cfg := fileCfg.MergeWithDefaults(envCfg)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
