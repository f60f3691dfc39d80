// Package hierarchy assigns every type its parent type.
package hierarchy

import (
	"slices"

	"github.com/dgallion1/tgschema/internal/dictionary"
	"github.com/dgallion1/tgschema/internal/schema"
)

// Resolver resolves parents from a dictionary.
type Resolver struct {
	dict *dictionary.Dictionary
}

func New(dict *dictionary.Dictionary) *Resolver {
	return &Resolver{dict: dict}
}

// Resolve returns the parent of name. Rules are tried from most to least
// specific: explicit override, alias membership, name family, then the
// universal base for any capitalised name.
func (r *Resolver) Resolve(name string) (string, error) {
	if p, ok := r.dict.ParentOverride(name); ok {
		return p, nil
	}

	for _, g := range r.dict.Aliases() {
		if !slices.Contains(g.Variants, name) {
			continue
		}
		if p, ok := r.dict.ParentOverride(g.Name); ok {
			return p, nil
		}
	}

	for _, f := range r.dict.Families() {
		if f.Matches(name) {
			return f.Parent, nil
		}
	}

	if schema.IsTypeName(name) {
		return dictionary.AbstractType, nil
	}

	return "", &schema.UnresolvedParentError{Name: name}
}
