// Package returns infers a method's return type from its prose description
// using a closed list of literal sentence templates.
package returns

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dgallion1/tgschema/internal/schema"
)

// TypeParser turns a type phrase into TypeRefs.
type TypeParser interface {
	Parse(phrase string) ([]schema.TypeRef, error)
}

// Inferencer applies every rule to a description and accumulates the types
// each matching rule names.
type Inferencer struct {
	rules  []compiledRule
	parser TypeParser
}

// New compiles rules. A nil rules slice means DefaultRules.
func New(rules []Rule, parser TypeParser) (*Inferencer, error) {
	if rules == nil {
		rules = DefaultRules
	}
	inf := &Inferencer{parser: parser, rules: make([]compiledRule, 0, len(rules))}
	for i, r := range rules {
		c, err := compile(r)
		if err != nil {
			return nil, fmt.Errorf("return rule %d: %w", i, err)
		}
		if c.objectIdx < 0 && c.simpleIdx < 0 {
			return nil, fmt.Errorf("return rule %d captures no type: %s", i, r.Template)
		}
		inf.rules = append(inf.rules, c)
	}
	return inf, nil
}

// Infer returns the types named by description. method is used for errors.
func (inf *Inferencer) Infer(method, description string) ([]schema.TypeRef, error) {
	var refs []schema.TypeRef
	for _, r := range inf.rules {
		m := r.re.FindStringSubmatch(description)
		if m == nil {
			continue
		}
		for _, phrase := range r.phrases(m) {
			parsed, err := inf.parser.Parse(upperFirst(phrase))
			if err != nil {
				return nil, fmt.Errorf("return type of %s: %w", method, err)
			}
			for _, ref := range parsed {
				ref.IsArray = r.array
				refs = append(refs, ref)
			}
		}
	}
	if len(refs) == 0 {
		return nil, &schema.MissingReturnTypeError{Method: method, Description: description}
	}
	return refs, nil
}

// phrases returns the object reference then the literal captured by m.
// The anchor wins over the display name when they differ beyond case,
// e.g. a link reading "Messages" that points at #message.
func (r compiledRule) phrases(m []string) []string {
	var out []string
	if r.objectIdx >= 0 {
		name := m[r.objectIdx]
		if r.anchorIdx >= 0 && !strings.EqualFold(name, m[r.anchorIdx]) {
			name = m[r.anchorIdx]
		}
		out = append(out, name)
	}
	if r.simpleIdx >= 0 {
		out = append(out, m[r.simpleIdx])
	}
	return out
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
