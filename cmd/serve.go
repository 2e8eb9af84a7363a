package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/concrete-docs/internal/config"
	"github.com/ziadkadry99/concrete-docs/internal/pipeline"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the decorated documentation",
	Long: `Serves the built output dir over HTTP. With --live, pages are decorated from
the schema dir on every request and no build is needed. With --watch, the
site is rebuilt on change and open pages reload themselves.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntP("port", "p", 0, "port to listen on (overrides config)")
	serveCmd.Flags().String("host", "", "host to bind (overrides config)")
	serveCmd.Flags().Bool("live", false, "decorate pages on request instead of serving the output dir")
	serveCmd.Flags().Bool("watch", false, "rebuild on change and reload open pages")
	serveCmd.Flags().Bool("open", false, "open browser automatically")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port, _ = cmd.Flags().GetInt("port")
	}
	if cmd.Flags().Changed("host") {
		cfg.Server.Host, _ = cmd.Flags().GetString("host")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	live, _ := cmd.Flags().GetBool("live")
	watchFlag, _ := cmd.Flags().GetBool("watch")
	openFlag, _ := cmd.Flags().GetBool("open")
	opts := sessionOptions{
		build: watchFlag && !live,
		serve: true,
		watch: watchFlag,
		live:  live,
		open:  openFlag,
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	b, err := serveBuilder(cfg, logger, opts)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	return runSession(ctx, cfg, logger, b, opts)
}

// serveBuilder prepares the builder behind a serve session. Live and watch
// sessions read the schema dir; a plain serve only needs the built output
// dir, and takes its type catalog from the build manifest.
func serveBuilder(cfg *config.Config, logger *slog.Logger, opts sessionOptions) (*pipeline.Builder, error) {
	if opts.live || opts.watch {
		return newBuilder(cfg, logger)
	}

	if _, err := os.Stat(cfg.OutputDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("output directory not found at %s\nRun `concretedocs build` first, or use --live", cfg.OutputDir)
	}

	b := &pipeline.Builder{
		SchemaDir: cfg.SchemaDir,
		OutputDir: cfg.OutputDir,
		Types:     cfg.Types,
		Version:   cfg.Version,
		Logger:    logger,
	}
	m, err := pipeline.ReadManifest(cfg.OutputDir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logger.Warn("no build manifest; type catalog comes from the config only", "output_dir", cfg.OutputDir)
	case err != nil:
		return nil, err
	default:
		b.Types = m.Types
		b.Version = m.Version
	}
	return b, nil
}
