package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"
)

// schemaDirCandidates are the places thrift html output usually lands.
var schemaDirCandidates = []string{
	"doc/schema",
	"gen-html",
	"docs/schema",
}

// detectSchemaDir returns the first candidate directory that holds an index.html.
func detectSchemaDir() string {
	for _, dir := range schemaDirCandidates {
		if _, err := os.Stat(filepath.Join(dir, "index.html")); err == nil {
			return dir
		}
	}
	return DefaultConfig().SchemaDir
}

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to concretedocs! Let's configure your schema docs.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Schema directory.
	schemaPrompt := promptui.Prompt{
		Label:   "Directory with thrift-generated HTML",
		Default: detectSchemaDir(),
	}
	schemaDir, err := schemaPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("schema dir: %w", err)
	}
	cfg.SchemaDir = schemaDir

	// 2. Output directory.
	outputPrompt := promptui.Prompt{
		Label:   "Output directory for decorated docs",
		Default: cfg.OutputDir,
	}
	outputDir, err := outputPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("output dir: %w", err)
	}
	cfg.OutputDir = outputDir

	// 3. Version label.
	versionPrompt := promptui.Prompt{
		Label:   "Schema version shown in the sidebar (blank for none)",
		Default: "",
	}
	version, err := versionPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("version: %w", err)
	}
	cfg.Version = strings.TrimSpace(version)

	// 4. Type list source.
	typesPrompt := promptui.Select{
		Label: "Sidebar type list",
		Items: []string{
			"discover: one link per page in the schema directory",
			"manual:   enter type names now",
		},
	}
	typesIdx, _, err := typesPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("type list selection: %w", err)
	}
	if typesIdx == 1 {
		namesPrompt := promptui.Prompt{
			Label: "Type names (comma-separated, in sidebar order)",
		}
		names, err := namesPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("type names: %w", err)
		}
		cfg.Types = splitAndTrim(names)
	}

	// 5. Struct reordering.
	reorderPrompt := promptui.Select{
		Label: "Sort struct definitions alphabetically",
		Items: []string{"yes", "no"},
	}
	reorderIdx, _, err := reorderPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("reorder selection: %w", err)
	}
	cfg.Reorder = reorderIdx == 0

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

// splitAndTrim splits a comma-separated string and trims whitespace,
// dropping empty entries.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
