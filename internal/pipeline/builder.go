// Package pipeline turns a directory of thrift-generated HTML into the
// decorated Concrete documentation site.
package pipeline

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ziadkadry99/concrete-docs/internal/decorator"
	"github.com/ziadkadry99/concrete-docs/internal/logging"
	"github.com/ziadkadry99/concrete-docs/internal/progress"
	"github.com/ziadkadry99/concrete-docs/internal/walker"
)

//go:embed assets/concrete.css
var stylesheet []byte

const (
	// StylesheetName is the stylesheet written to the output root.
	StylesheetName = "concrete.css"
	// MarkdownDir holds the optional markdown export.
	MarkdownDir = "markdown"
)

// Builder decorates every page of a schema directory into an output directory.
type Builder struct {
	SchemaDir string
	OutputDir string
	// Types is the resolved sidebar type list.
	Types         []string
	Version       string
	Include       []string
	Exclude       []string
	Reorder       bool
	Markdown      bool
	NotesHTML     string
	Scripts       []string
	Stylesheets   []string
	InlineScripts []InlineScript
	// Concurrency bounds the number of pages processed at once (0 = 4).
	Concurrency int
	Logger      *slog.Logger
	Reporter    progress.Reporter

	now func() time.Time
}

// Summary reports the outcome of a Build.
type Summary struct {
	Pages           int
	Assets          int
	Reordered       int
	WithoutStructs  int
	ReorderFailures int
	Manifest        *Manifest
}

// Build processes the schema directory. Pages are handled concurrently; the
// first failure cancels the rest and is returned.
func (b *Builder) Build(ctx context.Context) (*Summary, error) {
	logger := logging.OrDiscard(b.Logger)
	reporter := b.Reporter
	if reporter == nil {
		reporter = progress.Nop{}
	}

	files, err := walker.Walk(walker.WalkerConfig{
		RootDir:  b.SchemaDir,
		Include:  b.Include,
		Exclude:  b.Exclude,
		SkipDirs: []string{b.OutputDir},
	})
	if err != nil {
		return nil, fmt.Errorf("scanning schema dir: %w", err)
	}

	if err := os.MkdirAll(b.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}

	var pages, assets []walker.FileInfo
	for _, f := range files {
		if f.IsPage {
			pages = append(pages, f)
		} else {
			assets = append(assets, f)
		}
	}
	logger.Info("building docs", "schema_dir", b.SchemaDir, "output_dir", b.OutputDir, "pages", len(pages), "assets", len(assets), "types", len(b.Types))

	limit := b.Concurrency
	if limit <= 0 {
		limit = 4
	}

	summary := &Summary{Pages: len(pages), Assets: len(assets)}
	entries := make([]ManifestPage, len(pages))
	var mu sync.Mutex

	reporter.Start(len(pages))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, f := range pages {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := b.buildPage(f, logger)
			if err != nil {
				return fmt.Errorf("building %s: %w", f.RelPath, err)
			}
			entries[i] = ManifestPage{
				Path:       f.RelPath,
				Title:      res.Title,
				SourceHash: f.ContentHash,
				Required:   res.Decoration.Required,
				Optional:   res.Decoration.Optional,
				Structs:    res.Reorder.Structs,
			}

			mu.Lock()
			switch {
			case res.ReorderErr != nil:
				summary.ReorderFailures++
			case b.Reorder && res.Reorder.HasStructs:
				summary.Reordered++
			case b.Reorder:
				summary.WithoutStructs++
			}
			mu.Unlock()

			reporter.Done(f.RelPath)
			return nil
		})
	}

	for _, f := range assets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := copyFile(f.Path, filepath.Join(b.OutputDir, filepath.FromSlash(f.RelPath))); err != nil {
				return fmt.Errorf("copying %s: %w", f.RelPath, err)
			}
			return nil
		})
	}

	err = g.Wait()
	reporter.Finish()
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(filepath.Join(b.OutputDir, StylesheetName), stylesheet, 0o644); err != nil {
		return nil, fmt.Errorf("writing stylesheet: %w", err)
	}

	manifest := b.newManifest(entries)
	if err := WriteManifest(b.OutputDir, manifest); err != nil {
		return nil, err
	}
	summary.Manifest = manifest

	logger.Info("docs built", "build_id", manifest.BuildID, "pages", summary.Pages, "reordered", summary.Reordered, "reorder_failures", summary.ReorderFailures)
	return summary, nil
}

// PageOptions returns the options used for the page at relPath.
func (b *Builder) PageOptions(relPath string) PageOptions {
	base := basePath(relPath)
	sheets := []string{base + StylesheetName}
	sheets = append(sheets, b.Stylesheets...)
	return PageOptions{
		Name:          relPath,
		Types:         b.Types,
		Version:       b.Version,
		Reorder:       b.Reorder,
		Markdown:      b.Markdown,
		NotesHTML:     b.NotesHTML,
		Stylesheets:   sheets,
		Scripts:       b.Scripts,
		InlineScripts: b.InlineScripts,
		Logger:        b.Logger,
	}
}

// RenderPage decorates the schema page at relPath straight to w, without
// touching the output directory.
func (b *Builder) RenderPage(relPath string, w io.Writer) error {
	src, err := os.Open(filepath.Join(b.SchemaDir, filepath.FromSlash(relPath)))
	if err != nil {
		return err
	}
	defer src.Close()

	opts := b.PageOptions(relPath)
	opts.Markdown = false
	_, err = ProcessPage(src, w, opts)
	return err
}

func (b *Builder) buildPage(f walker.FileInfo, logger *slog.Logger) (PageResult, error) {
	src, err := os.Open(f.Path)
	if err != nil {
		return PageResult{}, err
	}
	defer src.Close()

	outPath := filepath.Join(b.OutputDir, filepath.FromSlash(f.RelPath))
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return PageResult{}, err
	}
	out, err := os.Create(outPath)
	if err != nil {
		return PageResult{}, err
	}
	defer out.Close()

	opts := b.PageOptions(f.RelPath)
	opts.Logger = logger
	res, err := ProcessPage(src, out, opts)
	if err != nil {
		return res, err
	}

	if b.Markdown {
		mdPath := filepath.Join(b.OutputDir, MarkdownDir, filepath.FromSlash(strings.TrimSuffix(f.RelPath, path.Ext(f.RelPath))+".md"))
		if err := os.MkdirAll(filepath.Dir(mdPath), 0o755); err != nil {
			return res, err
		}
		if err := os.WriteFile(mdPath, []byte(res.Markdown), 0o644); err != nil {
			return res, fmt.Errorf("writing markdown: %w", err)
		}
	}
	return res, out.Close()
}

func (b *Builder) clock() time.Time {
	if b.now != nil {
		return b.now()
	}
	return time.Now()
}

// Heading is the sidebar heading every page of this build gets.
func (b *Builder) Heading() string {
	return decorator.Heading(b.Version)
}

// basePath is the relative prefix from a page back to the output root.
func basePath(relPath string) string {
	return strings.Repeat("../", strings.Count(relPath, "/"))
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// Stylesheet returns the embedded concrete.css, for servers that decorate
// pages without an output directory.
func Stylesheet() []byte {
	return stylesheet
}
