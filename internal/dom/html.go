package dom

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// SortClass marks tables that the tablesorter bootstrap script initializes.
const SortClass = "tablesorter"

// SortOrderAttr carries a table's initial sort order to the bootstrap script.
const SortOrderAttr = "data-sort-initial-order"

// SortBootstrapID is the id of the inline script that initializes tablesorter.
const SortBootstrapID = "concrete-tablesorter"

const sortBootstrapScript = `$(function() {
  $("table.tablesorter").each(function() {
    $(this).tablesorter({"sortInitialOrder": $(this).attr("data-sort-initial-order") || "desc"});
  });
});`

// HTMLDocument is a Document backed by a parsed HTML tree.
type HTMLDocument struct {
	doc *goquery.Document
}

// Parse reads an HTML document from r.
func Parse(r io.Reader) (*HTMLDocument, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}
	return &HTMLDocument{doc: doc}, nil
}

// ParseString is Parse over an in-memory string.
func ParseString(s string) (*HTMLDocument, error) {
	return Parse(strings.NewReader(s))
}

// Selection exposes the underlying goquery document for tree-level rewrites
// that go beyond the Document capability.
func (d *HTMLDocument) Selection() *goquery.Document {
	return d.doc
}

// Render writes the document as HTML.
func (d *HTMLDocument) Render(w io.Writer) error {
	if len(d.doc.Nodes) == 0 {
		return nil
	}
	return html.Render(w, d.doc.Nodes[0])
}

// String renders the document, returning an empty string on failure.
func (d *HTMLDocument) String() string {
	var b strings.Builder
	if err := d.Render(&b); err != nil {
		return ""
	}
	return b.String()
}

// Title returns the trimmed text of the document's <title>.
func (d *HTMLDocument) Title() string {
	return strings.TrimSpace(d.doc.Find("title").First().Text())
}

func (d *HTMLDocument) Query(selector string) []Element {
	var out []Element
	d.doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		out = append(out, &htmlElement{sel: s})
	})
	return out
}

func (d *HTMLDocument) Create(tag string) Element {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	return wrapNode(n)
}

func (d *HTMLDocument) Body() Element {
	body := d.doc.Find("body").First()
	if body.Length() == 0 {
		return nil
	}
	return &htmlElement{sel: body}
}

// EnableSort tags the table for the tablesorter bootstrap script and makes
// sure that script is present in the document.
func (d *HTMLDocument) EnableSort(table Element, opts SortOptions) {
	el, ok := table.(*htmlElement)
	if !ok {
		return
	}
	order := opts.InitialOrder
	if order == "" {
		order = SortDescending
	}
	el.AddClass(SortClass)
	el.SetAttr(SortOrderAttr, string(order))
	d.AddInlineScript(SortBootstrapID, sortBootstrapScript)
}

// AddStylesheet links href from <head> unless a link to it already exists.
func (d *HTMLDocument) AddStylesheet(href string) {
	if d.hasAttr("link", "href", href) {
		return
	}
	head := d.doc.Find("head").First()
	if head.Length() == 0 {
		return
	}
	link := d.Create("link")
	link.SetAttr("rel", "stylesheet")
	link.SetAttr("href", href)
	appendNode(head.Nodes[0], link.(*htmlElement).node())
}

// AddScript loads src from <head> unless a script with that src already exists.
func (d *HTMLDocument) AddScript(src string) {
	if d.hasAttr("script", "src", src) {
		return
	}
	head := d.doc.Find("head").First()
	if head.Length() == 0 {
		return
	}
	script := d.Create("script")
	script.SetAttr("src", src)
	appendNode(head.Nodes[0], script.(*htmlElement).node())
}

// AddInlineScript appends an inline script to <body> unless one with the
// same id is already there.
func (d *HTMLDocument) AddInlineScript(id, code string) {
	if d.hasAttr("script", "id", id) {
		return
	}
	body := d.Body()
	if body == nil {
		return
	}
	script := d.Create("script")
	script.SetAttr("id", id)
	script.(*htmlElement).node().AppendChild(&html.Node{Type: html.TextNode, Data: code})
	body.Append(script)
}

// AppendHTML parses fragment in the context of el and appends the result.
func (d *HTMLDocument) AppendHTML(el Element, fragment string) error {
	target, ok := el.(*htmlElement)
	if !ok {
		return fmt.Errorf("element does not belong to an html document")
	}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), target.node())
	if err != nil {
		return fmt.Errorf("parsing fragment: %w", err)
	}
	for _, n := range nodes {
		appendNode(target.node(), n)
	}
	return nil
}

func (d *HTMLDocument) hasAttr(tag, key, value string) bool {
	found := false
	d.doc.Find(tag).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if v, ok := s.Attr(key); ok && v == value {
			found = true
			return false
		}
		return true
	})
	return found
}

// htmlElement wraps a single-node selection.
type htmlElement struct {
	sel *goquery.Selection
}

func wrapNode(n *html.Node) *htmlElement {
	return &htmlElement{sel: goquery.NewDocumentFromNode(n).Selection}
}

func (e *htmlElement) node() *html.Node {
	return e.sel.Nodes[0]
}

func (e *htmlElement) Text() string {
	return e.sel.Text()
}

// AddClass adds class and normalizes the attribute to single spaces.
func (e *htmlElement) AddClass(class string) {
	e.sel.AddClass(class)
	if v, ok := e.sel.Attr("class"); ok {
		e.sel.SetAttr("class", strings.Join(strings.Fields(v), " "))
	}
}

func (e *htmlElement) HasClass(class string) bool {
	return e.sel.HasClass(class)
}

// SetStyle replaces property in the inline style. Declarations are split on
// every ';', so values that contain one (quoted strings, data: URLs) are not
// preserved; generated thrift pages carry no such styles.
func (e *htmlElement) SetStyle(property, value string) {
	style, _ := e.sel.Attr("style")
	var decls []string
	for _, decl := range strings.Split(style, ";") {
		name, _, ok := strings.Cut(decl, ":")
		if !ok || strings.EqualFold(strings.TrimSpace(name), property) {
			continue
		}
		decls = append(decls, strings.TrimSpace(decl))
	}
	decls = append(decls, property+": "+value)
	e.sel.SetAttr("style", strings.Join(decls, "; ")+";")
}

func (e *htmlElement) SetAttr(key, value string) {
	e.sel.SetAttr(key, value)
}

func (e *htmlElement) SetText(text string) {
	n := e.node()
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

func (e *htmlElement) Append(child Element) {
	c, ok := child.(*htmlElement)
	if !ok {
		return
	}
	appendNode(e.node(), c.node())
}

func (e *htmlElement) Before(el Element) {
	c, ok := el.(*htmlElement)
	if !ok {
		return
	}
	ref := e.node()
	if ref.Parent == nil {
		return
	}
	n := c.node()
	detach(n)
	ref.Parent.InsertBefore(n, ref)
}

func appendNode(parent, n *html.Node) {
	detach(n)
	parent.AppendChild(n)
}

// detach removes n from its current parent so it can be re-inserted.
func detach(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}
