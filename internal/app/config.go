package app

import (
	"errors"
	"fmt"
)

// Display backends selectable on the command line.
const (
	BackendHypr     = "hypr"
	BackendHeadless = "headless"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ConfigPath string // TOML configuration file; empty means the default location

	Backend    string // display backend: hypr or headless
	LogFormat  string // text or json
	LogLevel   string // empty follows the config file's log_level
	StatusPort int    // 0 disables the status server
	NoWatch    bool   // disable configuration hot reload
}

// NewConfig validates the raw process configuration.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.Backend == "" {
		cfg.Backend = BackendHypr
	}
	if cfg.Backend != BackendHypr && cfg.Backend != BackendHeadless {
		return nil, fmt.Errorf("unknown backend %q: must be '%s' or '%s'", cfg.Backend, BackendHypr, BackendHeadless)
	}
	if cfg.StatusPort < 0 || cfg.StatusPort > 65535 {
		return nil, errors.New("status-port must be between 0 and 65535")
	}

	return &cfg, nil
}
