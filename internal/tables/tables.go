// Package tables recognises the two tabular layouts used by the reference:
// field tables on types and parameter tables on methods.
package tables

import (
	"fmt"
	"strings"

	"github.com/dgallion1/tgschema/internal/doctree"
	"github.com/dgallion1/tgschema/internal/schema"
)

// Kind identifies a table layout.
type Kind int

const (
	FieldTable Kind = iota + 1
	ParameterTable
)

func (k Kind) String() string {
	switch k {
	case FieldTable:
		return "field table"
	case ParameterTable:
		return "parameter table"
	}
	return fmt.Sprintf("table kind %d", int(k))
}

// Column counts per layout.
const (
	fieldColumns     = 3
	parameterColumns = 4
)

var layouts = []struct {
	kind    Kind
	headers []string
}{
	{FieldTable, []string{"Field", "Type", "Description"}},
	{ParameterTable, []string{"Parameter", "Type", "Required", "Description"}},
}

// Headers returns the header cell texts of table in document order.
func Headers(table doctree.Node) []string {
	cells := table.Find("thead th")
	headers := make([]string, 0, len(cells))
	for _, c := range cells {
		headers = append(headers, c.Text())
	}
	return headers
}

// Classify reports which layout table uses. The header set must match a
// layout exactly; column order does not matter, duplicates are rejected.
func Classify(table doctree.Node) (Kind, error) {
	headers := Headers(table)
	for _, l := range layouts {
		if sameSet(headers, l.headers) {
			return l.kind, nil
		}
	}
	return 0, &schema.StructuralError{
		Reason: fmt.Sprintf("unexpected table columns %q", headers),
		Markup: outer(table),
	}
}

// Row is one body row of a classified table. Cells are in layout order
// (Field, Type, Description or Parameter, Type, Required, Description)
// whatever order the columns appear in on the page.
type Row struct {
	Cells []string
}

// Cell returns the n-th cell (zero based) or an empty string.
func (r Row) Cell(n int) string {
	if n < 0 || n >= len(r.Cells) {
		return ""
	}
	return r.Cells[n]
}

// Rows returns the body rows of table. Every row must have as many cells as
// the layout has columns.
func Rows(table doctree.Node, kind Kind) ([]Row, error) {
	want := fieldColumns
	if kind == ParameterTable {
		want = parameterColumns
	}
	order := columnOrder(Headers(table), kind)

	trs := table.Find("tbody tr")
	rows := make([]Row, 0, len(trs))
	for i, tr := range trs {
		tds := tr.Find("td")
		if len(tds) != want {
			return nil, &schema.StructuralError{
				Reason: fmt.Sprintf("row %d of %s has %d cells, want %d", i+1, kind, len(tds), want),
				Markup: outer(tr),
			}
		}
		cells := make([]string, want)
		for j, src := range order {
			cells[j] = tds[src].Text()
		}
		rows = append(rows, Row{Cells: cells})
	}
	return rows, nil
}

// columnOrder maps each layout column to its index on the page. Headers that
// do not form the layout's set keep document order.
func columnOrder(headers []string, kind Kind) []int {
	n := fieldColumns
	if kind == ParameterTable {
		n = parameterColumns
	}
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	for _, l := range layouts {
		if l.kind != kind || !sameSet(headers, l.headers) {
			continue
		}
		for i, want := range l.headers {
			for j, h := range headers {
				if h == want {
					order[i] = j
				}
			}
		}
	}
	return order
}

func sameSet(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	seen := make(map[string]bool, len(got))
	for _, h := range got {
		if seen[h] {
			return false
		}
		seen[h] = true
	}
	for _, h := range want {
		if !seen[h] {
			return false
		}
	}
	return true
}

func outer(n doctree.Node) string {
	s, err := n.OuterHTML()
	if err != nil {
		return strings.TrimSpace(n.Text())
	}
	return s
}
