// Package notes renders the optional markdown notes shown under the sidebar.
package notes

import (
	"bytes"
	"fmt"
	"os"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Class is set on the div that wraps rendered notes.
const Class = "concreteNotes"

// Renderer converts markdown notes to an HTML fragment.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer returns a Renderer with GFM, code highlighting and heading ids.
func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				highlighting.NewHighlighting(
					highlighting.WithStyle("github"),
				),
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				html.WithUnsafe(),
			),
		),
	}
}

// Render converts markdown source to HTML.
func (r *Renderer) Render(src []byte) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}
	return buf.String(), nil
}

// RenderFile reads and renders a markdown file. An empty path yields an
// empty fragment.
func (r *Renderer) RenderFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading notes %s: %w", path, err)
	}
	return r.Render(src)
}
