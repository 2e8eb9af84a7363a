package cmd

import (
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Decorate every page of the schema dir into the output dir",
	Long: `Reads the thrift-generated HTML under schema_dir, decorates every page and
writes the result, plus concrete.css and manifest.json, to output_dir.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().Bool("watch", false, "rebuild when the schema dir changes")
	buildCmd.Flags().Bool("serve", false, "serve the output dir after building")
	buildCmd.Flags().Bool("open", false, "open browser automatically when serving")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	b, err := newBuilder(cfg, logger)
	if err != nil {
		return err
	}

	watchFlag, _ := cmd.Flags().GetBool("watch")
	serveFlag, _ := cmd.Flags().GetBool("serve")
	openFlag, _ := cmd.Flags().GetBool("open")

	ctx, stop := signalContext()
	defer stop()

	return runSession(ctx, cfg, logger, b, sessionOptions{
		build: true,
		serve: serveFlag,
		watch: watchFlag,
		open:  openFlag,
	})
}
