package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/concrete-docs/internal/dom"
	"github.com/ziadkadry99/concrete-docs/internal/reorder"
)

var reorderCmd = &cobra.Command{
	Use:   "reorder <page.html>",
	Short: "Wrap sections and sort struct definitions of a generated page",
	Long: `Wraps each h2 section of a thrift-generated page in a div and sorts the
struct definitions by name, without adding the sidebar. Writes to stdout, or
to the file given with -o.`,
	Args: cobra.ExactArgs(1),
	RunE: runReorder,
}

func init() {
	reorderCmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	rootCmd.AddCommand(reorderCmd)
}

func runReorder(cmd *cobra.Command, args []string) error {
	input := args[0]
	src, err := os.ReadFile(input)
	if err != nil {
		return err
	}

	doc, err := dom.Parse(bytes.NewReader(src))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", input, err)
	}
	res, err := reorder.Reorder(doc.Selection())
	if err != nil {
		return fmt.Errorf("reordering %s: %w", input, err)
	}
	if !res.HasStructs {
		fmt.Fprintf(os.Stderr, "warning: %s has no struct definitions; this is probably okay\n", input)
	}

	output, _ := cmd.Flags().GetString("output")
	out, err := openOutput(output)
	if err != nil {
		return err
	}
	err = doc.Render(out)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return err
}
