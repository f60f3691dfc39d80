// Package typeexpr parses the natural-language type phrases used in the API
// reference ("Array of PhotoSize", "Integer or String", "InputFile or String")
// into ordered TypeRef lists.
package typeexpr

import (
	"strings"

	"github.com/dgallion1/tgschema/internal/dictionary"
	"github.com/dgallion1/tgschema/internal/schema"
)

const (
	arrayPrefix = "Array of "
	orDivider   = " or "
	andDivider  = " and "
)

// Parser resolves type phrases against a dictionary and a set of declared
// type names. It holds no mutable state.
type Parser struct {
	dict  *dictionary.Dictionary
	known func(name string) bool
}

// New returns a parser. known reports whether a name is a declared type;
// nil means no declared types.
func New(dict *dictionary.Dictionary, known func(name string) bool) *Parser {
	if known == nil {
		known = func(string) bool { return false }
	}
	return &Parser{dict: dict, known: known}
}

// KnownSet adapts a name set to the known callback.
func KnownSet(names map[string]bool) func(string) bool {
	return func(name string) bool { return names[name] }
}

// Parse turns phrase into a non-empty ordered list of TypeRefs.
func (p *Parser) Parse(phrase string) ([]schema.TypeRef, error) {
	if rest, ok := strings.CutPrefix(phrase, arrayPrefix); ok {
		refs, err := p.Parse(rest)
		if err != nil {
			return nil, err
		}
		for i := range refs {
			refs[i].IsArray = true
		}
		return refs, nil
	}

	if divider, ok := unionDivider(phrase); ok {
		return p.parseUnion(phrase, divider)
	}

	if kind, ok := p.dict.Scalar(phrase); ok {
		return []schema.TypeRef{{Type: kind}}, nil
	}

	if group, ok := p.dict.Alias(phrase); ok {
		refs := make([]schema.TypeRef, 0, len(group.Variants))
		for _, v := range group.Variants {
			refs = append(refs, schema.TypeRef{Type: v})
		}
		return refs, nil
	}

	if p.known(phrase) {
		return []schema.TypeRef{{Type: phrase}}, nil
	}

	return nil, &schema.UnknownTypeError{Phrase: phrase}
}

func (p *Parser) parseUnion(phrase, divider string) ([]schema.TypeRef, error) {
	var refs []schema.TypeRef
	for _, part := range strings.Split(phrase, divider) {
		for _, piece := range strings.Split(part, ",") {
			piece = strings.TrimSpace(piece)
			if piece == "" {
				continue
			}
			sub, err := p.Parse(piece)
			if err != nil {
				return nil, err
			}
			refs = append(refs, sub...)
		}
	}
	if len(refs) == 0 {
		return nil, &schema.UnknownTypeError{Phrase: phrase}
	}
	return refs, nil
}

// unionDivider picks " or " over " and " when both are present.
func unionDivider(phrase string) (string, bool) {
	switch {
	case strings.Contains(phrase, orDivider):
		return orDivider, true
	case strings.Contains(phrase, andDivider):
		return andDivider, true
	}
	return "", false
}
