package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/concrete-docs/internal/decorator"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the concrete types linked from the sidebar",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		types, err := resolveTypes(cfg)
		if err != nil {
			return err
		}

		source := "discovered in " + cfg.SchemaDir
		if len(cfg.Types) > 0 {
			source = "from " + cfgFile
		}
		fmt.Printf("%s (%d types, %s)\n", decorator.Heading(cfg.Version), len(types), source)
		for _, name := range types {
			fmt.Printf("  %s\n", name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(typesCmd)
}
