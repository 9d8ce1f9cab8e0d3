package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadSearchConfig reads the search configuration file. A missing file is not
// an error; the built-in defaults apply.
func LoadSearchConfig() (*SearchConfig, error) {
	path := os.Getenv("SEARCH_CONFIG_PATH")
	if path == "" {
		path = "configs/search.yaml"
	}

	var cfg SearchConfig

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *SearchConfig) {
	if cfg.Defaults.Limit == 0 {
		cfg.Defaults.Limit = 10
	}
	if cfg.Defaults.Threshold == 0 {
		cfg.Defaults.Threshold = 0.7
	}
	if cfg.Backend.TimeoutSeconds == 0 {
		cfg.Backend.TimeoutSeconds = 10
	}
}

func (c *SearchConfig) Validate() error {
	if c.Defaults.Limit < 1 {
		return fmt.Errorf("defaults.limit must be a positive integer, got %d", c.Defaults.Limit)
	}
	if c.Defaults.Threshold < 0 || c.Defaults.Threshold > 1 {
		return fmt.Errorf("defaults.threshold must be between 0.0 and 1.0, got %g", c.Defaults.Threshold)
	}
	if c.Backend.TimeoutSeconds < 1 {
		return fmt.Errorf("backend.timeout_seconds must be a positive integer, got %d", c.Backend.TimeoutSeconds)
	}
	return nil
}
