package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// ManifestName is the build manifest written to the output root.
const ManifestName = "manifest.json"

// Manifest records what a build produced.
type Manifest struct {
	BuildID string         `json:"build_id"`
	BuiltAt time.Time      `json:"built_at"`
	Version string         `json:"version,omitempty"`
	Heading string         `json:"heading"`
	Types   []string       `json:"types"`
	Pages   []ManifestPage `json:"pages"`
}

// ManifestPage is one decorated page.
type ManifestPage struct {
	Path       string `json:"path"`
	Title      string `json:"title,omitempty"`
	SourceHash string `json:"source_hash"`
	Required   int    `json:"required"`
	Optional   int    `json:"optional"`
	Structs    int    `json:"structs"`
}

func (b *Builder) newManifest(pages []ManifestPage) *Manifest {
	types := b.Types
	if types == nil {
		types = []string{}
	}
	if pages == nil {
		pages = []ManifestPage{}
	}
	return &Manifest{
		BuildID: uuid.NewString(),
		BuiltAt: b.clock().UTC(),
		Version: b.Version,
		Heading: b.Heading(),
		Types:   types,
		Pages:   pages,
	}
}

// WriteManifest writes m as indented JSON into dir.
func WriteManifest(dir string, m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestName), data, 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// ReadManifest loads the manifest from a built output dir.
func ReadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return &m, nil
}
