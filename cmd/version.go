package cmd

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Version is set via ldflags at build time.
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of concretedocs",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("concretedocs %s (%s)\n", Version, runtime.Version())
		if rev := revision(); rev != "" {
			fmt.Printf("commit %s\n", rev)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func revision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" {
			return s.Value
		}
	}
	return ""
}
