package tables

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/tgschema/internal/doctree"
	"github.com/dgallion1/tgschema/internal/parser"
	"github.com/dgallion1/tgschema/internal/schema"
)

func loadTable(t *testing.T, headers []string, rows ...[]string) doctree.Node {
	t.Helper()
	var b strings.Builder
	b.WriteString(`<div id="dev_page_content"><table class="table"><thead><tr>`)
	for _, h := range headers {
		b.WriteString("<th>" + h + "</th>")
	}
	b.WriteString("</tr></thead><tbody>")
	for _, r := range rows {
		b.WriteString("<tr>")
		for _, c := range r {
			b.WriteString("<td>" + c + "</td>")
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table></div>")

	nodes, err := parser.LoadHTML(strings.NewReader(b.String()))
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	return nodes[0]
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		want    Kind
	}{
		{"field", []string{"Field", "Type", "Description"}, FieldTable},
		{"field reordered", []string{"Type", "Description", "Field"}, FieldTable},
		{"parameter", []string{"Parameter", "Type", "Required", "Description"}, ParameterTable},
		{"parameter reordered", []string{"Required", "Parameter", "Description", "Type"}, ParameterTable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(loadTable(t, tt.headers))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify_Rejects(t *testing.T) {
	tests := map[string][]string{
		"empty":            nil,
		"two columns":      {"Field", "Type"},
		"extra column":     {"Field", "Type", "Description", "Notes"},
		"duplicate":        {"Field", "Field", "Description"},
		"param duplicate":  {"Parameter", "Type", "Type", "Description"},
		"wrong name":       {"Name", "Type", "Description"},
		"case sensitive":   {"field", "type", "description"},
		"mixed layouts":    {"Parameter", "Type", "Description"},
		"field + required": {"Field", "Type", "Required", "Description"},
	}
	for name, headers := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Classify(loadTable(t, headers))
			var structural *schema.StructuralError
			require.ErrorAs(t, err, &structural)
			assert.Contains(t, structural.Markup, "<table")
		})
	}
}

func TestRows(t *testing.T) {
	table := loadTable(t,
		[]string{"Parameter", "Type", "Required", "Description"},
		[]string{"chat_id", "Integer or String", "Yes", "Unique  identifier\n for the chat"},
		[]string{"text", "String", "Optional", "Text"},
	)

	rows, err := Rows(table, ParameterTable)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"chat_id", "Integer or String", "Yes", "Unique identifier for the chat"}, rows[0].Cells)
	assert.Equal(t, "Optional", rows[1].Cell(2))
	assert.Equal(t, "", rows[1].Cell(7))
}

func TestRows_ReorderedColumns(t *testing.T) {
	table := loadTable(t,
		[]string{"Description", "Required", "Type", "Parameter"},
		[]string{"Unique identifier", "Yes", "Integer", "chat_id"},
	)
	kind, err := Classify(table)
	require.NoError(t, err)
	require.Equal(t, ParameterTable, kind)

	rows, err := Rows(table, kind)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"chat_id", "Integer", "Yes", "Unique identifier"}, rows[0].Cells)

	fields := loadTable(t,
		[]string{"Type", "Description", "Field"},
		[]string{"String", "<em>Optional</em>. Username", "username"},
	)
	rows, err = Rows(fields, FieldTable)
	require.NoError(t, err)
	assert.Equal(t, []string{"username", "String", "Optional. Username"}, rows[0].Cells)
}

func TestRows_CellCountMismatch(t *testing.T) {
	table := loadTable(t,
		[]string{"Field", "Type", "Description"},
		[]string{"id", "Integer"},
	)

	_, err := Rows(table, FieldTable)
	var structural *schema.StructuralError
	require.ErrorAs(t, err, &structural)
	assert.Contains(t, structural.Reason, "row 1")
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "field table", FieldTable.String())
	assert.Equal(t, "parameter table", ParameterTable.String())
}
