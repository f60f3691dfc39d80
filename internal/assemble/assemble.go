// Package assemble drives the extraction engine: it segments a reference
// page and turns every item into a TypeSchema or a MethodSchema.
package assemble

import (
	"fmt"
	"strings"

	"github.com/dgallion1/tgschema/internal/dictionary"
	"github.com/dgallion1/tgschema/internal/doctree"
	"github.com/dgallion1/tgschema/internal/hierarchy"
	"github.com/dgallion1/tgschema/internal/returns"
	"github.com/dgallion1/tgschema/internal/schema"
	"github.com/dgallion1/tgschema/internal/segment"
	"github.com/dgallion1/tgschema/internal/tables"
	"github.com/dgallion1/tgschema/internal/typeexpr"
)

// DefaultLinkBase prefixes relative heading links.
const DefaultLinkBase = "https://core.telegram.org/bots/api"

const optionalMarker = "optional"

// Options configures a Builder. Zero values select the Bot API defaults.
type Options struct {
	Dictionary  *dictionary.Dictionary
	LinkBase    string
	ReturnRules []returns.Rule
}

// Builder turns document nodes into a Schema. It is safe for concurrent
// use; every Build call works on its own state.
type Builder struct {
	dict     *dictionary.Dictionary
	linkBase string
	rules    []returns.Rule
	resolver *hierarchy.Resolver
}

func New(opts Options) *Builder {
	if opts.Dictionary == nil {
		opts.Dictionary = dictionary.Default()
	}
	if opts.LinkBase == "" {
		opts.LinkBase = DefaultLinkBase
	}
	return &Builder{
		dict:     opts.Dictionary,
		linkBase: opts.LinkBase,
		rules:    opts.ReturnRules,
		resolver: hierarchy.New(opts.Dictionary),
	}
}

// Build runs the whole extraction. Any error aborts the run and no schema
// is returned.
func (b *Builder) Build(nodes []doctree.Node) (*schema.Schema, error) {
	items, err := segment.Segment(nodes)
	if err != nil {
		return nil, err
	}
	return b.FromItems(items)
}

// FromItems assembles a schema from already segmented items.
func (b *Builder) FromItems(items []*doctree.DocItem) (*schema.Schema, error) {
	var typeItems, methodItems []*doctree.DocItem
	known := make(map[string]bool)
	for _, item := range items {
		switch {
		case !item.IsType:
			methodItems = append(methodItems, item)
		case b.dict.Skip(item.Name), b.dict.IsAlias(item.Name):
			// alias umbrellas are expanded from the dictionary
		default:
			typeItems = append(typeItems, item)
			known[item.Name] = true
		}
	}

	parser := typeexpr.New(b.dict, typeexpr.KnownSet(known))
	inferencer, err := returns.New(b.rules, parser)
	if err != nil {
		return nil, err
	}

	r := &run{
		Builder:    b,
		parser:     parser,
		inferencer: inferencer,
		out: &schema.Schema{
			Types:   make(map[string]schema.TypeSchema, len(typeItems)),
			Methods: make([]schema.MethodSchema, 0, len(methodItems)),
		},
	}
	for _, item := range typeItems {
		if err := r.addType(item); err != nil {
			return nil, err
		}
	}
	for _, item := range methodItems {
		if err := r.addMethod(item); err != nil {
			return nil, err
		}
	}
	return r.out, nil
}

// run holds the state of a single Build call.
type run struct {
	*Builder
	parser     *typeexpr.Parser
	inferencer *returns.Inferencer
	out        *schema.Schema
}

func (r *run) addType(item *doctree.DocItem) error {
	fields := []schema.FieldSpec{}
	if item.Table != nil {
		kind, rows, err := r.classifiedRows(item)
		if err != nil {
			return err
		}
		for _, row := range rows {
			f, err := r.field(item.Name, kind, row)
			if err != nil {
				return err
			}
			fields = append(fields, f)
		}
	}

	if len(fields) == 0 && !r.dict.AllowedEmpty(item.Name) {
		return &schema.InvariantViolationError{Item: item.Name, Reason: "empty fields"}
	}

	parent, err := r.resolver.Resolve(item.Name)
	if err != nil {
		return err
	}

	r.out.Types[item.Name] = schema.TypeSchema{
		Name:         item.Name,
		Link:         r.link(item.Link),
		Descriptions: descriptions(item),
		Fields:       fields,
		Parent:       parent,
	}
	return nil
}

// field builds a FieldSpec. On a parameter-style table the Required column
// decides optionality and the last column is the description.
func (r *run) field(owner string, kind tables.Kind, row tables.Row) (schema.FieldSpec, error) {
	name, phrase := row.Cell(0), row.Cell(1)
	description, marker := row.Cell(2), row.Cell(2)
	if kind == tables.ParameterTable {
		description = row.Cell(3)
	}

	types, err := r.parser.Parse(phrase)
	if err != nil {
		return schema.FieldSpec{}, fmt.Errorf("type %s, field %s: %w", owner, name, err)
	}
	return schema.FieldSpec{
		Name:         name,
		Description:  description,
		Required:     !containsFold(marker, optionalMarker),
		Types:        types,
		Restrictions: Restrictions(description),
	}, nil
}

func (r *run) addMethod(item *doctree.DocItem) error {
	params := []schema.ParameterSpec{}
	if item.Table != nil {
		kind, rows, err := r.classifiedRows(item)
		if err != nil {
			return err
		}
		if kind != tables.ParameterTable {
			return &schema.StructuralError{Item: item.Name, Reason: "method has a " + kind.String()}
		}
		for _, row := range rows {
			p, err := r.parameter(item.Name, row)
			if err != nil {
				return err
			}
			params = append(params, p)
		}
	}

	description := strings.Join(item.Descriptions, "\n")
	ret, err := r.inferencer.Infer(item.Name, description)
	if err != nil {
		return err
	}

	r.out.Methods = append(r.out.Methods, schema.MethodSchema{
		Name:        item.Name,
		Description: description,
		Link:        r.link(item.Link),
		Parameters:  params,
		ReturnTypes: ret,
	})
	return nil
}

func (r *run) parameter(method string, row tables.Row) (schema.ParameterSpec, error) {
	name := row.Cell(0)
	types, err := r.parser.Parse(row.Cell(1))
	if err != nil {
		return schema.ParameterSpec{}, fmt.Errorf("method %s, parameter %s: %w", method, name, err)
	}
	required, ok := r.dict.RequiredToken(row.Cell(2))
	if !ok {
		return schema.ParameterSpec{}, &schema.InvariantViolationError{
			Item:   method + "." + name,
			Reason: fmt.Sprintf("unrecognised required token %q", row.Cell(2)),
		}
	}
	return schema.ParameterSpec{
		Name:        name,
		Types:       types,
		Required:    required,
		Description: row.Cell(3),
	}, nil
}

func (r *run) classifiedRows(item *doctree.DocItem) (tables.Kind, []tables.Row, error) {
	kind, err := tables.Classify(item.Table)
	if err != nil {
		return 0, nil, withItem(err, item.Name)
	}
	rows, err := tables.Rows(item.Table, kind)
	if err != nil {
		return 0, nil, withItem(err, item.Name)
	}
	return kind, rows, nil
}

// link makes a heading link absolute.
func (b *Builder) link(href string) string {
	if strings.HasPrefix(href, "https://") || strings.HasPrefix(href, "http://") {
		return href
	}
	return b.linkBase + href
}

func descriptions(item *doctree.DocItem) []string {
	if item.Descriptions == nil {
		return []string{}
	}
	return append([]string(nil), item.Descriptions...)
}

func withItem(err error, item string) error {
	if se, ok := err.(*schema.StructuralError); ok && se.Item == "" {
		se.Item = item
	}
	return err
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}
