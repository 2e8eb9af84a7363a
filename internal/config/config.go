package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/ziadkadry99/concrete-docs/internal/walker"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CONCRETEDOCS_"

// listKeys are the keys whose environment values are comma-separated lists.
var listKeys = map[string]bool{
	"types":       true,
	"include":     true,
	"exclude":     true,
	"scripts":     true,
	"stylesheets": true,
}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (CONCRETEDOCS_*). A double underscore
// separates nested keys: CONCRETEDOCS_SERVER__PORT -> server.port.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envKeyValue), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	// ZeroFields replaces default lists such as exclude instead of decoding
	// into their backing arrays.
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.TextUnmarshallerHookFunc(),
			),
			Result:           cfg,
			WeaklyTypedInput: true,
			ZeroFields:       true,
		},
	}); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// envKeyValue maps CONCRETEDOCS_SERVER__PORT=9000 to server.port=9000 and
// splits list-valued keys on commas.
func envKeyValue(key, value string) (string, interface{}) {
	k := strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	k = strings.ReplaceAll(k, "__", ".")
	if listKeys[k] {
		return k, splitAndTrim(value)
	}
	return k, value
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validLogLevels is the set of recognized log level values.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats is the set of recognized log format values.
var validLogFormats = map[LogFormat]bool{
	LogFormatText: true,
	LogFormatJSON: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.SchemaDir == "" {
		return fmt.Errorf("schema_dir is required")
	}

	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}

	if filepath.Clean(c.SchemaDir) == filepath.Clean(c.OutputDir) {
		return fmt.Errorf("output_dir must differ from schema_dir (%s)", c.SchemaDir)
	}

	for _, name := range c.Types {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("types must not contain empty names")
		}
	}

	if err := walker.ValidatePatterns(c.Include); err != nil {
		return fmt.Errorf("include: %w", err)
	}

	if err := walker.ValidatePatterns(c.Exclude); err != nil {
		return fmt.Errorf("exclude: %w", err)
	}

	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must be non-negative")
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}

	if c.Log.Level != "" && !validLogLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log.level %q: must be one of debug, info, warn, error", c.Log.Level)
	}

	if c.Log.Format != "" && !validLogFormats[c.Log.Format] {
		return fmt.Errorf("invalid log.format %q: must be one of text, json", c.Log.Format)
	}

	return nil
}
