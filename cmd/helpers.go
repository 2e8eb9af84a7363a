package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ziadkadry99/concrete-docs/internal/config"
	"github.com/ziadkadry99/concrete-docs/internal/logging"
	"github.com/ziadkadry99/concrete-docs/internal/notes"
	"github.com/ziadkadry99/concrete-docs/internal/pipeline"
	"github.com/ziadkadry99/concrete-docs/internal/progress"
	"github.com/ziadkadry99/concrete-docs/internal/typelist"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `concretedocs init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newLogger builds the diagnostics logger. Logs go to stderr so commands
// can write pages to stdout.
func newLogger(cfg *config.Config) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = slog.LevelDebug
	}
	format := string(cfg.Log.Format)
	if logFormat != "" {
		format = logFormat
	}
	if format != "" && format != string(config.LogFormatText) && format != string(config.LogFormatJSON) {
		return nil, fmt.Errorf("invalid log format %q: must be text or json", format)
	}
	return logging.New(os.Stderr, level, format), nil
}

// resolveTypes returns the configured type list, or the pages discovered in
// the schema dir when none is configured.
func resolveTypes(cfg *config.Config) ([]string, error) {
	if len(cfg.Types) > 0 {
		return cfg.Types, nil
	}
	discovered, err := typelist.Discover(cfg.SchemaDir, cfg.Include, cfg.Exclude)
	if err != nil {
		return nil, err
	}
	return typelist.Resolve(cfg.Types, discovered), nil
}

// renderNotes renders the configured notes file, if any.
func renderNotes(cfg *config.Config) (string, error) {
	if cfg.NotesFile == "" {
		return "", nil
	}
	html, err := notes.NewRenderer().RenderFile(cfg.NotesFile)
	if err != nil {
		return "", fmt.Errorf("rendering notes: %w", err)
	}
	return html, nil
}

// newBuilder creates a pipeline builder from the config.
func newBuilder(cfg *config.Config, logger *slog.Logger) (*pipeline.Builder, error) {
	types, err := resolveTypes(cfg)
	if err != nil {
		return nil, err
	}
	notesHTML, err := renderNotes(cfg)
	if err != nil {
		return nil, err
	}
	return &pipeline.Builder{
		SchemaDir:   cfg.SchemaDir,
		OutputDir:   cfg.OutputDir,
		Types:       types,
		Version:     cfg.Version,
		Include:     cfg.Include,
		Exclude:     cfg.Exclude,
		Reorder:     cfg.Reorder,
		Markdown:    cfg.Markdown,
		NotesHTML:   notesHTML,
		Scripts:     cfg.Scripts,
		Stylesheets: cfg.Stylesheets,
		Concurrency: cfg.Concurrency,
		Logger:      logger,
		Reporter:    progress.NewReporter(),
	}, nil
}

// signalContext is cancelled on Ctrl+C or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// openOutput returns stdout for "" or "-", otherwise creates path.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func printSummary(s *pipeline.Summary, outputDir string) {
	fmt.Printf("Decorated %d pages into %s (%d assets copied)\n", s.Pages, outputDir, s.Assets)
	if s.Reordered > 0 || s.WithoutStructs > 0 || s.ReorderFailures > 0 {
		fmt.Printf("  structs sorted on %d pages, %d without structs, %d left unsorted\n",
			s.Reordered, s.WithoutStructs, s.ReorderFailures)
	}
}
