package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "doc/schema", cfg.SchemaDir)
	assert.Equal(t, "doc/site", cfg.OutputDir)
	assert.True(t, cfg.Reorder)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.Equal(t, LogFormatText, cfg.Log.Format)
	assert.Empty(t, cfg.Types)
	assert.Empty(t, cfg.Version)
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.concretedocs.yml")

	original := DefaultConfig()
	original.SchemaDir = "gen-html"
	original.OutputDir = "site"
	original.Types = []string{"Communication", "UUID", "Section"}
	original.Version = "4.10"
	original.Markdown = true
	original.Server.Port = 9000

	require.NoError(t, original.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, original.SchemaDir, loaded.SchemaDir)
	assert.Equal(t, original.OutputDir, loaded.OutputDir)
	assert.Equal(t, original.Types, loaded.Types)
	assert.Equal(t, "4.10", loaded.Version)
	assert.True(t, loaded.Markdown)
	assert.Equal(t, 9000, loaded.Server.Port)
}

func TestLoadNumericVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yml")
	require.NoError(t, os.WriteFile(path, []byte("version: 1.2\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "1.2", cfg.Version)
}

func TestLoadMissingFile(t *testing.T) {
	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().SchemaDir, cfg.SchemaDir)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yml")
	require.NoError(t, os.WriteFile(path, []byte("types: [unclosed\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.yml")
	require.NoError(t, DefaultConfig().Save(path))

	t.Setenv("CONCRETEDOCS_VERSION", "2.0")
	t.Setenv("CONCRETEDOCS_TYPES", "Foo, Bar")
	t.Setenv("CONCRETEDOCS_SERVER__PORT", "9100")
	t.Setenv("CONCRETEDOCS_REORDER", "false")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "2.0", loaded.Version)
	assert.Equal(t, []string{"Foo", "Bar"}, loaded.Types)
	assert.Equal(t, 9100, loaded.Server.Port)
	assert.False(t, loaded.Reorder)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"empty schema dir", func(c *Config) { c.SchemaDir = "" }, true},
		{"empty output dir", func(c *Config) { c.OutputDir = "" }, true},
		{"output equals schema", func(c *Config) { c.OutputDir = c.SchemaDir + "/" }, true},
		{"blank type name", func(c *Config) { c.Types = []string{"Foo", " "} }, true},
		{"malformed include glob", func(c *Config) { c.Include = []string{"[a-"} }, true},
		{"malformed exclude glob", func(c *Config) { c.Exclude = []string{"{a,b"} }, true},
		{"negative concurrency", func(c *Config) { c.Concurrency = -1 }, true},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }, true},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }, true},
		{"upper-case log level", func(c *Config) { c.Log.Level = "DEBUG" }, false},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadExcludeLeavesDefaultsIntact(t *testing.T) {
	want := []string{"*.swp", "*~", ".DS_Store"}
	path := filepath.Join(t.TempDir(), "c.yml")
	require.NoError(t, os.WriteFile(path, []byte("exclude:\n  - \"*.bak\"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"*.bak"}, cfg.Exclude)

	assert.Equal(t, want, DefaultExcludes)
	assert.Equal(t, want, DefaultConfig().Exclude)
}

func TestDefaultConfigReturnsFreshExcludes(t *testing.T) {
	a := DefaultConfig()
	a.Exclude[0] = "changed"
	assert.Equal(t, "*.swp", DefaultConfig().Exclude[0])
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b , c ", []string{"a", "b", "c"}},
		{"Communication", []string{"Communication"}},
		{"", nil},
		{"  ,  , ", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, splitAndTrim(tt.input), "input %q", tt.input)
	}
}
