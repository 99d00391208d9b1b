package main

import (
	"github.com/deploystackio/deploystack-sub002/internal/config"
	"github.com/deploystackio/deploystack-sub002/internal/logger"
)

// AppContext bundles the long-lived services every command starts from. Each
// command builds its own instance; nothing command-scoped lives in globals.
type AppContext struct {
	Config *config.Config
	Logger *logger.Logger
}

// newAppContext loads configuration and builds the logger the flags ask for.
func newAppContext(flags *rootFlags) (*AppContext, error) {
	var cfg *config.Config
	if flags.configPath != "" {
		parsed, err := config.ParseConfig(flags.configPath)
		if err != nil {
			return nil, err
		}
		cfg = parsed
	} else {
		cfg = config.Default()
	}

	level := cfg.Log.Level
	if flags.verbose {
		level = "debug"
	}

	log, err := logger.New(logger.Options{
		Level:         level,
		HumanReadable: cfg.Log.Human,
	})
	if err != nil {
		return nil, err
	}

	return &AppContext{Config: cfg, Logger: log}, nil
}
