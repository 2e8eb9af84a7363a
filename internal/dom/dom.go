// Package dom defines the small document-manipulation capability that page
// decoration is written against, plus an HTML implementation of it.
package dom

// SortOrder is the direction a table column sorts in when it is first activated.
type SortOrder string

const (
	SortDescending SortOrder = "desc"
	SortAscending  SortOrder = "asc"
)

// SortOptions configures interactive column sorting on a table.
type SortOptions struct {
	InitialOrder SortOrder
}

// Element is a single node in a document.
type Element interface {
	// Text returns the combined text content of the element and its descendants.
	Text() string
	AddClass(class string)
	HasClass(class string) bool
	// SetStyle sets one inline CSS property, replacing any previous value.
	SetStyle(property, value string)
	SetAttr(key, value string)
	// SetText replaces the element's children with a single text node.
	SetText(text string)
	// Append adds child as the last child of the element.
	Append(child Element)
	// Before inserts el as the immediately preceding sibling of the element.
	Before(el Element)
}

// Document is a mutable document that can be queried with CSS selectors.
type Document interface {
	// Query returns the elements matching selector in document order. It
	// returns an empty slice when nothing matches or the selector is invalid.
	Query(selector string) []Element
	// Create returns a new detached element with the given tag.
	Create(tag string) Element
	// Body returns the document body, or nil if the document has none.
	Body() Element
	// EnableSort makes the table's columns interactively sortable.
	EnableSort(table Element, opts SortOptions)
}
