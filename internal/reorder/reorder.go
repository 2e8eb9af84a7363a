// Package reorder restructures thrift-generated HTML so each top-level
// section sits in its own div and struct definitions appear alphabetically.
package reorder

import (
	"errors"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrDefinitionMismatch is returned when the struct section holds definitions
// that are not its direct children, which means the page does not have the
// layout thrift generates and cannot be reordered safely.
var ErrDefinitionMismatch = errors.New("struct definitions are not direct children of the struct section")

const (
	mainSelector       = "body div.container-fluid"
	structsID          = "Structs"
	definitionSelector = ".definition"
)

// Result summarizes what Reorder changed.
type Result struct {
	// Sections is the number of h2 sections wrapped in a div.
	Sections   int
	HasStructs bool
	Structs    int
	// Moved counts definitions that ended up in a different slot.
	Moved int
}

// SectionID returns the id of the div wrapping the section headed by an
// <h2 id="name">.
func SectionID(name string) string {
	return name + "_div"
}

// Reorder wraps every <h2 id> section of the main container, up to the next
// <hr>, in a div, then sorts the struct definitions by their <h3> title.
// Pages without a struct section only get their sections wrapped; that case
// is reported through Result.HasStructs rather than as an error.
func Reorder(doc *goquery.Document) (Result, error) {
	var res Result

	if main := doc.Find(mainSelector).First(); main.Length() > 0 {
		res.Sections = wrapSections(main.Nodes[0])
	}

	structs := doc.Find("#" + SectionID(structsID)).First()
	if structs.Length() == 0 {
		return res, nil
	}
	res.HasStructs = true

	direct := structs.ChildrenFiltered(definitionSelector)
	if structs.Find(definitionSelector).Length() != direct.Length() {
		return res, ErrDefinitionMismatch
	}
	res.Structs = direct.Length()
	res.Moved = sortDefinitions(direct)
	return res, nil
}

// wrapSections moves each <h2 id> child of main and its following siblings
// up to, but not including, the next <hr> into a new div.
func wrapSections(main *html.Node) int {
	wrapped := 0
	for c := main.FirstChild; c != nil; {
		id := attr(c, "id")
		if !isElement(c, atom.H2) || id == "" {
			c = c.NextSibling
			continue
		}

		wrapper := &html.Node{
			Type:     html.ElementNode,
			Data:     "div",
			DataAtom: atom.Div,
			Attr:     []html.Attribute{{Key: "id", Val: SectionID(id)}},
		}
		main.InsertBefore(wrapper, c)
		for n := c; n != nil && !isElement(n, atom.Hr); {
			next := n.NextSibling
			main.RemoveChild(n)
			wrapper.AppendChild(n)
			n = next
		}
		wrapped++
		c = wrapper.NextSibling
	}
	return wrapped
}

type definition struct {
	node *html.Node
	key  string
}

// sortDefinitions reorders defs in place, reusing the slots they occupy.
func sortDefinitions(defs *goquery.Selection) int {
	items := make([]definition, 0, defs.Length())
	defs.Each(func(_ int, s *goquery.Selection) {
		items = append(items, definition{
			node: s.Nodes[0],
			key:  strings.TrimSpace(s.Find("h3").First().Text()),
		})
	})

	sorted := make([]definition, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].key < sorted[j].key })

	// Mark each slot, lift the definitions out, then fill the slots in order.
	slots := make([]*html.Node, len(items))
	for i, it := range items {
		slots[i] = &html.Node{Type: html.CommentNode}
		it.node.Parent.InsertBefore(slots[i], it.node)
	}
	for _, it := range items {
		it.node.Parent.RemoveChild(it.node)
	}

	moved := 0
	for i, slot := range slots {
		slot.Parent.InsertBefore(sorted[i].node, slot)
		slot.Parent.RemoveChild(slot)
		if sorted[i].node != items[i].node {
			moved++
		}
	}
	return moved
}

func isElement(n *html.Node, a atom.Atom) bool {
	return n.Type == html.ElementNode && n.DataAtom == a
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
