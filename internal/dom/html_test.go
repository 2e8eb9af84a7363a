package dom

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!DOCTYPE html>
<html><head><title> Concrete: communication </title></head>
<body>
<div class="container-fluid">
<table class="table-bordered table-striped table-condensed">
<thead><tr><th>Key</th><th>Field</th></tr></thead>
<tbody><tr><td>1</td><td> required </td></tr></tbody>
</table>
</div>
</body></html>`

func parseSample(t *testing.T) *HTMLDocument {
	t.Helper()
	doc, err := ParseString(samplePage)
	require.NoError(t, err)
	return doc
}

func TestQueryReturnsDocumentOrder(t *testing.T) {
	doc := parseSample(t)

	cells := doc.Query("td")
	require.Len(t, cells, 2)
	assert.Equal(t, "1", cells[0].Text())
	assert.Equal(t, " required ", cells[1].Text())
}

func TestQueryNoMatchOrInvalidSelector(t *testing.T) {
	doc := parseSample(t)

	assert.Empty(t, doc.Query("ul.missing"))
	assert.Empty(t, doc.Query("td[["))
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Concrete: communication", parseSample(t).Title())
}

func TestSetStyleReplacesProperty(t *testing.T) {
	doc, err := ParseString(`<body><p style="color: red; padding-left: 3px">x</p></body>`)
	require.NoError(t, err)

	p := doc.Query("p")[0]
	p.SetStyle("padding-left", "25px")

	style, _ := doc.Selection().Find("p").Attr("style")
	assert.Equal(t, "color: red; padding-left: 25px;", style)
}

func TestSetStyleOnEmptyStyle(t *testing.T) {
	doc := parseSample(t)
	th := doc.Query("th")[0]
	th.SetStyle("padding-left", "25px")

	style, _ := doc.Selection().Find("th").First().Attr("style")
	assert.Equal(t, "padding-left: 25px;", style)
}

func TestCreateAppendBefore(t *testing.T) {
	doc := parseSample(t)

	pane := doc.Create("div")
	pane.AddClass("leftPane")
	h := doc.Create("h1")
	h.SetText("Concrete <Types>")
	pane.Append(h)

	main := doc.Query("body div.container-fluid")[0]
	main.Before(pane)

	out := doc.String()
	assert.Contains(t, out, `<div class="leftPane"><h1>Concrete &lt;Types&gt;</h1></div><div class="container-fluid">`)
	assert.True(t, pane.HasClass("leftPane"))
}

func TestBeforeOnDetachedIsNoop(t *testing.T) {
	doc := parseSample(t)
	a := doc.Create("div")
	b := doc.Create("span")

	a.Before(b)

	assert.NotContains(t, doc.String(), "<span>")
}

func TestEnableSortInjectsBootstrapOnce(t *testing.T) {
	doc, err := ParseString(`<body><table id="a"></table><table id="b"></table></body>`)
	require.NoError(t, err)

	for _, table := range doc.Query("table") {
		doc.EnableSort(table, SortOptions{InitialOrder: SortDescending})
	}

	out := doc.String()
	assert.Equal(t, 1, strings.Count(out, `id="`+SortBootstrapID+`"`))
	assert.Equal(t, 2, strings.Count(out, `class="tablesorter" data-sort-initial-order="desc"`))
	assert.Contains(t, out, `"sortInitialOrder"`)
}

func TestEnableSortDefaultsToDescending(t *testing.T) {
	doc, err := ParseString(`<body><table></table></body>`)
	require.NoError(t, err)

	doc.EnableSort(doc.Query("table")[0], SortOptions{})

	v, ok := doc.Selection().Find("table").Attr(SortOrderAttr)
	require.True(t, ok)
	assert.Equal(t, "desc", v)
}

func TestAddStylesheetAndScriptDeduplicate(t *testing.T) {
	doc := parseSample(t)

	doc.AddStylesheet("concrete.css")
	doc.AddStylesheet("concrete.css")
	doc.AddScript("jquery.min.js")
	doc.AddScript("jquery.min.js")

	out := doc.String()
	assert.Equal(t, 1, strings.Count(out, `href="concrete.css"`))
	assert.Equal(t, 1, strings.Count(out, `src="jquery.min.js"`))
}

func TestAppendHTML(t *testing.T) {
	doc := parseSample(t)
	div := doc.Create("div")
	require.NoError(t, doc.AppendHTML(div, "<p>notes <em>here</em></p>"))
	doc.Body().Append(div)

	assert.Contains(t, doc.String(), "<div><p>notes <em>here</em></p></div>")
}

func TestAddClassRendersSingleSpaces(t *testing.T) {
	doc, err := ParseString(`<body><div class="container-fluid"></div><table class=" table-bordered   table-condensed "></table></body>`)
	require.NoError(t, err)

	doc.Query("div")[0].AddClass("rightPane")
	doc.EnableSort(doc.Query("table")[0], SortOptions{})

	out := doc.String()
	assert.Contains(t, out, `<div class="container-fluid rightPane">`)
	assert.Contains(t, out, `<table class="table-bordered table-condensed tablesorter" data-sort-initial-order="desc">`)
}

func TestAddClassOnCreatedElement(t *testing.T) {
	doc := parseSample(t)
	div := doc.Create("div")
	div.AddClass("leftPane")
	div.AddClass("leftPane")
	doc.Body().Append(div)

	assert.Contains(t, doc.String(), `<div class="leftPane"></div>`)
}
