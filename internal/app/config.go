package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ComponentsPath string // directory of component manifests
	CacheDir       string // validated-descriptor cache
	NoCache        bool
	DryRun         bool
	RootDir        string // directory the wrapped commands run from

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config and applies defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ComponentsPath == "" {
		return nil, errors.New("ComponentsPath is a required configuration field and cannot be empty")
	}
	if cfg.CacheDir == "" && !cfg.NoCache {
		return nil, errors.New("CacheDir is required unless the cache is disabled")
	}
	if cfg.RootDir == "" {
		cfg.RootDir = "."
	}
	return &cfg, nil
}
