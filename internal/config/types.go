package config

// LogFormat selects the slog handler used for diagnostics.
type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

// Config is the top-level concretedocs configuration, corresponding to .concretedocs.yml.
type Config struct {
	SchemaDir   string       `yaml:"schema_dir" koanf:"schema_dir"`
	OutputDir   string       `yaml:"output_dir" koanf:"output_dir"`
	Types       []string     `yaml:"types" koanf:"types"`
	Include     []string     `yaml:"include" koanf:"include"`
	Exclude     []string     `yaml:"exclude" koanf:"exclude"`
	Version     string       `yaml:"version" koanf:"version"`
	Reorder     bool         `yaml:"reorder" koanf:"reorder"`
	Markdown    bool         `yaml:"markdown" koanf:"markdown"`
	NotesFile   string       `yaml:"notes_file" koanf:"notes_file"`
	Scripts     []string     `yaml:"scripts" koanf:"scripts"`
	Stylesheets []string     `yaml:"stylesheets" koanf:"stylesheets"`
	Concurrency int          `yaml:"concurrency" koanf:"concurrency"`
	Server      ServerConfig `yaml:"server" koanf:"server"`
	Log         LogConfig    `yaml:"log" koanf:"log"`
}

// ServerConfig holds settings for the documentation server.
type ServerConfig struct {
	Host            string `yaml:"host" koanf:"host"`
	Port            int    `yaml:"port" koanf:"port"`
	AllowAllOrigins bool   `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string    `yaml:"level" koanf:"level"`
	Format LogFormat `yaml:"format" koanf:"format"`
}
