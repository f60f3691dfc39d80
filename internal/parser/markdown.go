package parser

import (
	"bytes"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	gmparser "github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/dgallion1/tgschema/internal/doctree"
)

// TableClass is the class a table must carry to be picked up by the segmenter.
const TableClass = "table"

// RenderMarkdown converts a Markdown reference into the HTML page shape the
// segmenter expects: a content container holding headings, paragraphs and
// classed tables.
//
// Headings link to their anchor the same way the HTML reference does, e.g.
//
//	#### [getMe](#getme)
func RenderMarkdown(src []byte) ([]byte, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.Table),
		goldmark.WithParserOptions(
			gmparser.WithASTTransformers(util.Prioritized(tableClassTransformer{}, 100)),
		),
	)

	var buf bytes.Buffer
	buf.WriteString(`<html><body><div id="` + ContentID + `">` + "\n")
	if err := md.Convert(src, &buf); err != nil {
		return nil, err
	}
	buf.WriteString("</div></body></html>\n")
	return buf.Bytes(), nil
}

// LoadMarkdown renders a Markdown reference and loads it like an HTML page.
func LoadMarkdown(r io.Reader) ([]doctree.Node, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	page, err := RenderMarkdown(src)
	if err != nil {
		return nil, err
	}
	return LoadHTML(bytes.NewReader(page))
}

// tableClassTransformer marks every GFM table with TableClass.
type tableClassTransformer struct{}

func (tableClassTransformer) Transform(doc *ast.Document, _ text.Reader, _ gmparser.Context) {
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*east.Table); ok && entering {
			t.SetAttributeString("class", []byte(TableClass))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
}
