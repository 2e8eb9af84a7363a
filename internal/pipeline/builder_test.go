package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/concrete-docs/internal/decorator"
	"github.com/ziadkadry99/concrete-docs/internal/testutil"
)

// copySchema copies testdata/schema into a fresh temp dir.
func copySchema(t *testing.T) string {
	t.Helper()
	src := filepath.Join("..", "..", "testdata", "schema")
	dst := t.TempDir()
	entries, err := os.ReadDir(src)
	require.NoError(t, err)
	for _, e := range entries {
		data, err := os.ReadFile(filepath.Join(src, e.Name()))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dst, e.Name()), data, 0o644))
	}
	return dst
}

func loadOutput(t *testing.T, path string) *goquery.Document {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	doc, err := goquery.NewDocumentFromReader(f)
	require.NoError(t, err)
	return doc
}

func newBuilder(t *testing.T, schemaDir string) *Builder {
	t.Helper()
	return &Builder{
		SchemaDir: schemaDir,
		OutputDir: filepath.Join(t.TempDir(), "site"),
		Types:     []string{"communication", "uuid"},
		Version:   "4.10",
		Include:   []string{"**/*.html"},
		Reorder:   true,
		Logger:    testutil.NewTestLogger(t),
		now:       func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) },
	}
}

func TestBuildWritesDecoratedSite(t *testing.T) {
	b := newBuilder(t, copySchema(t))

	summary, err := b.Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Pages)
	assert.Equal(t, 1, summary.Assets)
	assert.Equal(t, 2, summary.Reordered)
	assert.Equal(t, 1, summary.WithoutStructs)
	assert.Equal(t, 0, summary.ReorderFailures)

	for _, name := range []string{"index.html", "communication.html", "uuid.html", "style.css", StylesheetName, ManifestName} {
		assert.FileExists(t, filepath.Join(b.OutputDir, name))
	}

	css, err := os.ReadFile(filepath.Join(b.OutputDir, StylesheetName))
	require.NoError(t, err)
	assert.Contains(t, string(css), ".concreteRequired")

	doc := loadOutput(t, filepath.Join(b.OutputDir, "communication.html"))

	pane := doc.Find("div." + decorator.ClassLeftPane)
	require.Equal(t, 1, pane.Length())
	assert.Equal(t, "Concrete v4.10 Types", pane.Find("h1").Text())
	assert.Equal(t, 2, pane.Find("li a").Length())
	assert.Equal(t, "uuid.html", pane.Find("li a").Eq(1).AttrOr("href", ""))
	assert.True(t, pane.Next().HasClass(decorator.ClassRightPane))

	assert.Equal(t, 3, doc.Find("td."+decorator.ClassRequired).Length())
	assert.Equal(t, 3, doc.Find("td."+decorator.ClassOptional).Length())
	assert.Equal(t, 1, doc.Find(`link[href="concrete.css"]`).Length())

	var titles []string
	doc.Find("#Structs_div > .definition > h3").Each(func(_ int, s *goquery.Selection) {
		titles = append(titles, s.Text())
	})
	assert.Equal(t, []string{"Struct: Communication", "Struct: Section"}, titles)
}

func TestBuildManifest(t *testing.T) {
	b := newBuilder(t, copySchema(t))
	summary, err := b.Build(context.Background())
	require.NoError(t, err)

	m, err := ReadManifest(b.OutputDir)
	require.NoError(t, err)
	assert.Equal(t, summary.Manifest.BuildID, m.BuildID)
	assert.NotEmpty(t, m.BuildID)
	assert.True(t, m.BuiltAt.Equal(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)))
	assert.Equal(t, "4.10", m.Version)
	assert.Equal(t, "Concrete v4.10 Types", m.Heading)
	assert.Equal(t, []string{"communication", "uuid"}, m.Types)

	require.Len(t, m.Pages, 3)
	assert.Equal(t, "communication.html", m.Pages[0].Path)
	assert.Equal(t, "Thrift module: communication", m.Pages[0].Title)
	assert.Equal(t, 3, m.Pages[0].Required)
	assert.Equal(t, 2, m.Pages[0].Structs)
	assert.Len(t, m.Pages[0].SourceHash, 64)
	assert.Equal(t, "index.html", m.Pages[1].Path)
	assert.Equal(t, "uuid.html", m.Pages[2].Path)
}

func TestBuildMarkdownExport(t *testing.T) {
	b := newBuilder(t, copySchema(t))
	b.Markdown = true

	_, err := b.Build(context.Background())
	require.NoError(t, err)

	md, err := os.ReadFile(filepath.Join(b.OutputDir, MarkdownDir, "communication.md"))
	require.NoError(t, err)
	assert.Contains(t, string(md), "Struct: Communication")
}

func TestBuildWithNotesAndScripts(t *testing.T) {
	b := newBuilder(t, copySchema(t))
	b.NotesHTML = "<p>Schema notes</p>"
	b.Scripts = []string{"js/jquery.min.js", "js/jquery.tablesorter.min.js"}
	b.InlineScripts = []InlineScript{{ID: "reload", Code: "console.log(1)"}}

	_, err := b.Build(context.Background())
	require.NoError(t, err)

	doc := loadOutput(t, filepath.Join(b.OutputDir, "uuid.html"))
	assert.Equal(t, "Schema notes", doc.Find("div."+decorator.ClassLeftPane+" .concreteNotes p").Text())
	assert.Equal(t, 2, doc.Find("head script[src]").Length())
	assert.Equal(t, 1, doc.Find("script#reload").Length())
}

func TestBuildWithoutReorder(t *testing.T) {
	b := newBuilder(t, copySchema(t))
	b.Reorder = false

	summary, err := b.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Reordered)
	assert.Equal(t, 0, summary.WithoutStructs)

	doc := loadOutput(t, filepath.Join(b.OutputDir, "communication.html"))
	assert.Equal(t, 0, doc.Find("#Structs_div").Length())
	assert.Equal(t, "Struct: Section", doc.Find(".definition h3").First().Text())
}

func TestBuildSkipsOutputInsideSchema(t *testing.T) {
	schema := copySchema(t)
	b := newBuilder(t, schema)
	b.OutputDir = filepath.Join(schema, "site")

	_, err := b.Build(context.Background())
	require.NoError(t, err)
	summary, err := b.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Pages)
	assert.NoDirExists(t, filepath.Join(b.OutputDir, "site"))
}

func TestBuildCancelled(t *testing.T) {
	b := newBuilder(t, copySchema(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := b.Build(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildMissingSchemaDir(t *testing.T) {
	b := newBuilder(t, filepath.Join(t.TempDir(), "missing"))
	_, err := b.Build(context.Background())
	assert.Error(t, err)
}

func TestRenderPage(t *testing.T) {
	b := newBuilder(t, copySchema(t))

	var out strings.Builder
	require.NoError(t, b.RenderPage("uuid.html", &out))

	assert.Contains(t, out.String(), `class="leftPane"`)
	assert.NoDirExists(t, b.OutputDir)

	assert.Error(t, b.RenderPage("nope.html", &out))
}

func TestPageOptionsNestedStylesheet(t *testing.T) {
	b := &Builder{Stylesheets: []string{"extra.css"}}
	opts := b.PageOptions("legacy/v1/old.html")
	assert.Equal(t, []string{"../../concrete.css", "extra.css"}, opts.Stylesheets)
	assert.Equal(t, "legacy/v1/old.html", opts.Name)
}
