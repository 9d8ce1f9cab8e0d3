package config

// SearchConfig is the file-based configuration for the search agent.
type SearchConfig struct {
	Defaults DefaultsConfig `yaml:"defaults"`
	Backend  BackendConfig  `yaml:"backend"`
}

// DefaultsConfig holds the query defaults applied when a caller omits them.
type DefaultsConfig struct {
	Limit     int     `yaml:"limit"`
	Threshold float64 `yaml:"threshold"`
}

// BackendConfig holds supply backend client settings.
type BackendConfig struct {
	TimeoutSeconds int `yaml:"timeout_seconds"`
}
