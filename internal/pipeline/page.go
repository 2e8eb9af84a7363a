package pipeline

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/PuerkitoBio/goquery"
	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/ziadkadry99/concrete-docs/internal/decorator"
	"github.com/ziadkadry99/concrete-docs/internal/dom"
	"github.com/ziadkadry99/concrete-docs/internal/logging"
	"github.com/ziadkadry99/concrete-docs/internal/notes"
	"github.com/ziadkadry99/concrete-docs/internal/reorder"
)

// InlineScript is a script block appended to every decorated page.
type InlineScript struct {
	ID   string
	Code string
}

// PageOptions controls how a single page is transformed.
type PageOptions struct {
	// Name identifies the page in logs.
	Name    string
	Types   []string
	Version string
	Reorder bool
	// Markdown requests a markdown rendering of the main content.
	Markdown bool
	// NotesHTML is appended to the left pane when non-empty.
	NotesHTML     string
	Stylesheets   []string
	Scripts       []string
	InlineScripts []InlineScript
	Logger        *slog.Logger
}

// PageResult describes what happened to one page.
type PageResult struct {
	Title      string
	Decoration decorator.Report
	Reorder    reorder.Result
	// ReorderErr is set when struct reordering was skipped for this page.
	ReorderErr error
	Markdown   string
}

// ProcessPage reads an HTML page from r, decorates it and writes the result
// to w. A page whose structs cannot be reordered is still decorated; the
// problem is logged and reported in PageResult.ReorderErr.
func ProcessPage(r io.Reader, w io.Writer, opts PageOptions) (PageResult, error) {
	logger := logging.OrDiscard(opts.Logger).With("page", opts.Name)

	doc, err := dom.Parse(r)
	if err != nil {
		return PageResult{}, err
	}

	res := PageResult{Title: doc.Title()}

	if opts.Reorder {
		res.Reorder, res.ReorderErr = reorder.Reorder(doc.Selection())
		switch {
		case errors.Is(res.ReorderErr, reorder.ErrDefinitionMismatch):
			logger.Warn("struct definitions left in generated order", "error", res.ReorderErr)
		case res.ReorderErr != nil:
			logger.Error("reordering structs", "error", res.ReorderErr)
		case !res.Reorder.HasStructs:
			logger.Warn("generated page has no struct definitions; this is probably okay", "title", res.Title)
		default:
			logger.Debug("structs reordered", "structs", res.Reorder.Structs, "moved", res.Reorder.Moved)
		}
	}

	for _, href := range opts.Stylesheets {
		doc.AddStylesheet(href)
	}
	for _, src := range opts.Scripts {
		doc.AddScript(src)
	}

	res.Decoration = decorator.Decorate(doc, opts.Types, opts.Version)
	logger.Debug("page decorated",
		"required", res.Decoration.Required,
		"optional", res.Decoration.Optional,
		"tables", res.Decoration.Tables,
		"links", res.Decoration.Links,
		"placement", res.Decoration.Placement.String(),
	)

	if opts.NotesHTML != "" && res.Decoration.Sidebar != nil {
		box := doc.Create("div")
		box.AddClass(notes.Class)
		if err := doc.AppendHTML(box, opts.NotesHTML); err != nil {
			return res, fmt.Errorf("adding notes: %w", err)
		}
		res.Decoration.Sidebar.Append(box)
	}

	for _, s := range opts.InlineScripts {
		doc.AddInlineScript(s.ID, s.Code)
	}

	if opts.Markdown {
		md, err := mainMarkdown(doc.Selection())
		if err != nil {
			return res, err
		}
		res.Markdown = md
	}

	if err := doc.Render(w); err != nil {
		return res, fmt.Errorf("rendering page: %w", err)
	}
	return res, nil
}

// mainMarkdown converts the page's main content, falling back to the whole
// body for pages without the usual container.
func mainMarkdown(doc *goquery.Document) (string, error) {
	content := doc.Find(decorator.MainContainerSelector).First()
	if content.Length() == 0 {
		content = doc.Find("body").First()
	}
	fragment, err := goquery.OuterHtml(content)
	if err != nil {
		return "", fmt.Errorf("extracting main content: %w", err)
	}
	md, err := htmltomarkdown.ConvertString(fragment)
	if err != nil {
		return "", fmt.Errorf("converting to markdown: %w", err)
	}
	return md, nil
}
