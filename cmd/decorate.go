package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/concrete-docs/internal/config"
	"github.com/ziadkadry99/concrete-docs/internal/pipeline"
	"github.com/ziadkadry99/concrete-docs/internal/typelist"
)

var decorateCmd = &cobra.Command{
	Use:   "decorate <page.html>",
	Short: "Decorate a single generated page",
	Long: `Decorates one thrift-generated page and writes it to stdout, or to the file
given with -o. Without --type the type list comes from the config, or from
the pages next to the input file.`,
	Args: cobra.ExactArgs(1),
	RunE: runDecorate,
}

func init() {
	decorateCmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	decorateCmd.Flags().StringSlice("type", nil, "concrete type to link in the sidebar (repeatable)")
	decorateCmd.Flags().String("version", "", "schema version shown in the sidebar heading")
	decorateCmd.Flags().Bool("reorder", false, "also sort struct definitions")
	decorateCmd.Flags().StringSlice("stylesheet", nil, "stylesheet to link from the page (repeatable)")
	rootCmd.AddCommand(decorateCmd)
}

func runDecorate(cmd *cobra.Command, args []string) error {
	input := args[0]

	// The config is optional here; the file may not exist.
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	types, _ := cmd.Flags().GetStringSlice("type")
	if len(types) == 0 {
		types = cfg.Types
	}
	if len(types) == 0 {
		discovered, err := typelist.Discover(filepath.Dir(input), cfg.Include, cfg.Exclude)
		if err != nil {
			return err
		}
		types = discovered
	}

	version := cfg.Version
	if cmd.Flags().Changed("version") {
		version, _ = cmd.Flags().GetString("version")
	}
	reorderFlag, _ := cmd.Flags().GetBool("reorder")
	sheets, _ := cmd.Flags().GetStringSlice("stylesheet")

	notesHTML, err := renderNotes(cfg)
	if err != nil {
		return err
	}

	// Read the page up front so -o may name the input file.
	src, err := os.ReadFile(input)
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	out, err := openOutput(output)
	if err != nil {
		return err
	}

	res, err := pipeline.ProcessPage(bytes.NewReader(src), out, pipeline.PageOptions{
		Name:        filepath.Base(input),
		Types:       types,
		Version:     version,
		Reorder:     reorderFlag,
		NotesHTML:   notesHTML,
		Stylesheets: append(append([]string{}, cfg.Stylesheets...), sheets...),
		Scripts:     cfg.Scripts,
		Logger:      logger,
	})
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("decorating %s: %w", input, err)
	}

	logger.Info("page decorated",
		"input", input,
		"required", res.Decoration.Required,
		"optional", res.Decoration.Optional,
		"links", res.Decoration.Links,
		"placement", res.Decoration.Placement.String(),
	)
	return nil
}
