package segment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/tgschema/internal/doctree"
	"github.com/dgallion1/tgschema/internal/parser"
	"github.com/dgallion1/tgschema/internal/schema"
)

func load(t *testing.T, body string) []doctree.Node {
	t.Helper()
	nodes, err := parser.LoadHTML(strings.NewReader(`<html><body><div id="dev_page_content">` + body + `</div></body></html>`))
	require.NoError(t, err)
	return nodes
}

const fieldTable = `<table class="table"><thead><tr><th>Field</th><th>Type</th><th>Description</th></tr></thead>` +
	`<tbody><tr><td>id</td><td>Integer</td><td>Identifier</td></tr></tbody></table>`

func TestSegment(t *testing.T) {
	nodes := load(t, `
<h3>Recent changes</h3>
<h4><a href="#ignored">Ignored</a>Ignored</h4>
<p>Before the start heading.</p>
<h3>Getting updates</h3>
<h4><a class="anchor" href="#update"></a>Update</h4>
<p>This <em>object</em> represents an update.</p>
<p>At most one of the optional parameters can be present.</p>
`+fieldTable+`
<h4><a class="anchor" href="#getme"></a>getMe</h4>
<p>A simple method. Returns basic information.</p>
`)

	items, err := Segment(nodes)
	require.NoError(t, err)
	require.Len(t, items, 2)

	update := items[0]
	assert.Equal(t, "Update", update.Name)
	assert.True(t, update.IsType)
	assert.Equal(t, "#update", update.Link)
	assert.Equal(t, []string{
		"This <em>object</em> represents an update.",
		"At most one of the optional parameters can be present.",
	}, update.Descriptions)
	require.NotNil(t, update.Table)
	assert.Equal(t, "table", update.Table.Tag())

	getMe := items[1]
	assert.Equal(t, "getMe", getMe.Name)
	assert.False(t, getMe.IsType)
	assert.Equal(t, "#getme", getMe.Link)
	assert.Nil(t, getMe.Table)
}

func TestSegment_StartHeadingIsCaseInsensitive(t *testing.T) {
	nodes := load(t, `<h3>GETTING UPDATES and more</h3><h4><a href="#a"></a>A</h4><p>x</p>`)
	items, err := Segment(nodes)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, []string{"x"}, items[0].Descriptions)
}

func TestSegment_NoStartHeading(t *testing.T) {
	_, err := Segment(load(t, `<h4><a href="#a"></a>A</h4>`))
	var structural *schema.StructuralError
	require.ErrorAs(t, err, &structural)
}

func TestSegment_OnlyCollectsAfterHeadingOrParagraph(t *testing.T) {
	nodes := load(t, `
<h3>Getting updates</h3>
<h4><a href="#a"></a>A</h4>
<ul><li>list</li></ul>
<p>after a list, skipped</p>
<p>after a paragraph, kept</p>
<blockquote><p>quoted</p></blockquote>
<p>after a quote, kept</p>
`)
	items, err := Segment(nodes)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, []string{"after a paragraph, kept", "after a quote, kept"}, items[0].Descriptions)
}

func TestSegment_IgnoresUnclassedTables(t *testing.T) {
	nodes := load(t, `<h3>Getting updates</h3><h4><a href="#a"></a>A</h4>`+
		`<table><tbody><tr><td>x</td></tr></tbody></table>`)
	items, err := Segment(nodes)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Nil(t, items[0].Table)
}

func TestSegment_DuplicateTable(t *testing.T) {
	nodes := load(t, `<h3>Getting updates</h3><h4><a href="#a"></a>A</h4><p>x</p>`+fieldTable+`<p>y</p>`+fieldTable)
	_, err := Segment(nodes)
	var structural *schema.StructuralError
	require.ErrorAs(t, err, &structural)
	assert.Equal(t, "A", structural.Item)
	assert.Equal(t, "duplicate table", structural.Reason)
}

func TestSegment_MissingAnchor(t *testing.T) {
	nodes := load(t, `<h3>Getting updates</h3><h4>NoLink</h4>`)
	_, err := Segment(nodes)
	var structural *schema.StructuralError
	require.ErrorAs(t, err, &structural)
	assert.Equal(t, "NoLink", structural.Item)
}

func TestSegment_RepeatedHeadingFolds(t *testing.T) {
	nodes := load(t, `<h3>Getting updates</h3>`+
		`<h4><a href="#a"></a>A</h4><p>one</p>`+
		`<h4><a href="#b"></a>b</h4><p>between</p>`+
		`<h4><a href="#a2"></a>A</h4><p>two</p>`)
	items, err := Segment(nodes)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "A", items[0].Name)
	assert.Equal(t, []string{"one", "two"}, items[0].Descriptions)
	assert.Equal(t, "#a2", items[0].Link)
	assert.Equal(t, "b", items[1].Name)
}
