package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	verbose   bool
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "concretedocs",
	Short: "Decorate and serve the Concrete schema documentation",
	Long: `concretedocs post-processes the HTML pages generated by thrift --gen html
for the Concrete schema. It adds a navigation sidebar listing every concrete
type, marks required and optional fields, makes tables sortable and sorts
struct definitions, then writes or serves the decorated site.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".concretedocs.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text or json (overrides config)")
}
