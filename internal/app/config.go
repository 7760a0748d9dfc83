package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	GridPath string // path to a .hcl grid file or a directory of them

	LogFormat       string
	LogLevel        string
	Watch           bool
	HealthcheckPort int
}

// NewConfig validates a raw Config and returns it ready for use.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.GridPath == "" {
		return nil, errors.New("GridPath is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}
