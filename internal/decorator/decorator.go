// Package decorator adds the Concrete navigation sidebar, cell markers and
// table sorting to a thrift-generated documentation page.
package decorator

import (
	"strings"

	"github.com/ziadkadry99/concrete-docs/internal/dom"
)

// Class names the page stylesheet keys on.
const (
	ClassRequired  = "concreteRequired"
	ClassOptional  = "concreteOptional"
	ClassLeftPane  = "leftPane"
	ClassRightPane = "rightPane"
)

// Selectors for the parts of a generated page the decorator touches.
const (
	CellSelector            = "td"
	TableSelector           = "table"
	CondensedHeaderSelector = ".table-condensed th"
	MainContainerSelector   = "body div.container-fluid"
)

const condensedHeaderPadding = "25px"

// Placement records where the left pane ended up.
type Placement int

const (
	NotPlaced Placement = iota
	PlacedBeforeMain
	AppendedToBody
)

func (p Placement) String() string {
	switch p {
	case PlacedBeforeMain:
		return "before-main"
	case AppendedToBody:
		return "appended-to-body"
	default:
		return "not-placed"
	}
}

// Report summarizes what a Decorate call changed.
type Report struct {
	Required  int
	Optional  int
	Tables    int
	Headers   int
	Links     int
	Heading   string
	Placement Placement
	// Sidebar is the inserted left pane, nil when NotPlaced.
	Sidebar dom.Element
}

// Heading returns the sidebar heading for a version label.
func Heading(version string) string {
	v := strings.TrimSpace(version)
	if v == "" {
		return "Concrete Types"
	}
	return "Concrete v" + v + " Types"
}

// Decorate mutates doc in place. Every step is best effort: elements that are
// missing simply leave that step with nothing to do.
//
// Every main container gets the rightPane class, but the left pane is
// inserted once, before the first of them, where a jQuery before() would
// clone it ahead of each. Generated pages have a single container. When the
// page has none the left pane is appended to <body>; without a body it is
// dropped. Decorating the same document twice inserts a second sidebar.
func Decorate(doc dom.Document, types []string, version string) Report {
	var r Report

	for _, cell := range doc.Query(CellSelector) {
		switch strings.TrimSpace(cell.Text()) {
		case "required":
			cell.AddClass(ClassRequired)
			r.Required++
		case "optional":
			cell.AddClass(ClassOptional)
			r.Optional++
		}
	}

	for _, table := range doc.Query(TableSelector) {
		doc.EnableSort(table, dom.SortOptions{InitialOrder: dom.SortDescending})
		r.Tables++
	}

	for _, th := range doc.Query(CondensedHeaderSelector) {
		th.SetStyle("padding-left", condensedHeaderPadding)
		r.Headers++
	}

	list := doc.Create("ul")
	for _, name := range types {
		a := doc.Create("a")
		a.SetAttr("href", name+".html")
		a.SetText(name)
		li := doc.Create("li")
		li.Append(a)
		list.Append(li)
		r.Links++
	}

	r.Heading = Heading(version)
	heading := doc.Create("h1")
	heading.SetText(r.Heading)

	pane := doc.Create("div")
	pane.AddClass(ClassLeftPane)
	pane.Append(heading)
	pane.Append(list)

	if mains := doc.Query(MainContainerSelector); len(mains) > 0 {
		for _, main := range mains {
			main.AddClass(ClassRightPane)
		}
		mains[0].Before(pane)
		r.Placement = PlacedBeforeMain
	} else if body := doc.Body(); body != nil {
		body.Append(pane)
		r.Placement = AppendedToBody
	}
	if r.Placement != NotPlaced {
		r.Sidebar = pane
	}

	return r
}
