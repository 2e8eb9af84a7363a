package config

import "slices"

// DefaultPort matches the port the Concrete doc server has always used.
const DefaultPort = 8097

// DefaultExcludes are glob patterns skipped when building by default.
var DefaultExcludes = []string{
	"*.swp",
	"*~",
	".DS_Store",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		SchemaDir:   "doc/schema",
		OutputDir:   "doc/site",
		Include:     []string{"**/*.html"},
		Exclude:     slices.Clone(DefaultExcludes),
		Reorder:     true,
		Concurrency: 4,
		Server: ServerConfig{
			Host: "localhost",
			Port: DefaultPort,
		},
		Log: LogConfig{
			Level:  "info",
			Format: LogFormatText,
		},
	}
}
