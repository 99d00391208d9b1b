package config

import (
	"github.com/deploystackio/deploystack-sub002/internal/plugin"
)

// Config is the full deploystack configuration document. One file drives
// both the backend server and the dashboard.
type Config struct {
	Version string           `yaml:"version" validate:"required,semver"`
	Log     LogConfig        `yaml:"log,omitempty"`
	Server  ServerConfig     `yaml:"server,omitempty"`
	Plugins plugin.OptionSet `yaml:"plugins,omitempty"`
}

// LogConfig controls log output for both hosts.
type LogConfig struct {
	Level string `yaml:"level,omitempty" validate:"omitempty,oneof=trace debug info warn error"`
	Human bool   `yaml:"human,omitempty"`
}

// ServerConfig controls the backend host.
type ServerConfig struct {
	Listen string `yaml:"listen,omitempty" validate:"omitempty,listen_addr"`
	// Database is the embedded store path. Empty boots the server without a
	// database; one can be attached later through the setup endpoint.
	Database string `yaml:"database,omitempty"`
}

// applyDefaults fills in the values a minimal document omits.
func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
	if c.Plugins == nil {
		c.Plugins = plugin.OptionSet{}
	}
}
