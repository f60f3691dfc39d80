// Package dictionary holds the static tables the extraction engine consults:
// scalar phrases, alias groups, parent overrides, type families and the
// headings that are not types at all.
package dictionary

import (
	"strings"

	"github.com/dgallion1/tgschema/internal/schema"
)

// AbstractType is the universal base every type falls back to.
const AbstractType = "AbstractType"

// AliasGroup is an umbrella type standing for a closed set of variants.
type AliasGroup struct {
	Name     string
	Variants []string
}

// Family maps names with a common prefix (and optional suffix) to an
// abstract parent.
type Family struct {
	Prefix string
	Suffix string
	Parent string
}

// Matches reports whether name belongs to the family. The bare prefix itself
// is not a member.
func (f Family) Matches(name string) bool {
	if len(name) <= len(f.Prefix)+len(f.Suffix) {
		return false
	}
	return strings.HasPrefix(name, f.Prefix) && strings.HasSuffix(name, f.Suffix)
}

// Dictionary is an immutable set of lookup tables.
type Dictionary struct {
	scalars        map[string]string
	aliases        []AliasGroup
	aliasIndex     map[string]int
	overrides      map[string]string
	families       []Family
	skip           map[string]bool
	allowedEmpty   map[string]bool
	requiredTokens map[string]bool
}

// Options configures New. Nil slices and maps are treated as empty.
type Options struct {
	Scalars         map[string]string
	Aliases         []AliasGroup
	ParentOverrides map[string]string
	Families        []Family
	SkipTypes       []string
	AllowedEmpty    []string
	RequiredTokens  map[string]bool
}

// New builds a dictionary from opts, copying every table.
func New(opts Options) *Dictionary {
	d := &Dictionary{
		scalars:        make(map[string]string, len(opts.Scalars)),
		aliasIndex:     make(map[string]int, len(opts.Aliases)),
		overrides:      make(map[string]string, len(opts.ParentOverrides)),
		families:       append([]Family(nil), opts.Families...),
		skip:           make(map[string]bool, len(opts.SkipTypes)),
		allowedEmpty:   make(map[string]bool, len(opts.AllowedEmpty)),
		requiredTokens: make(map[string]bool, len(opts.RequiredTokens)),
	}
	for k, v := range opts.Scalars {
		d.scalars[k] = v
	}
	for _, g := range opts.Aliases {
		d.aliasIndex[g.Name] = len(d.aliases)
		d.aliases = append(d.aliases, AliasGroup{Name: g.Name, Variants: append([]string(nil), g.Variants...)})
	}
	for k, v := range opts.ParentOverrides {
		d.overrides[k] = v
	}
	for _, s := range opts.SkipTypes {
		d.skip[s] = true
	}
	for _, s := range opts.AllowedEmpty {
		d.allowedEmpty[s] = true
	}
	for k, v := range opts.RequiredTokens {
		d.requiredTokens[strings.ToLower(k)] = v
	}
	return d
}

// Scalar returns the scalar kind for an exact phrase.
func (d *Dictionary) Scalar(phrase string) (string, bool) {
	k, ok := d.scalars[phrase]
	return k, ok
}

// Alias returns the alias group registered under name.
func (d *Dictionary) Alias(name string) (AliasGroup, bool) {
	i, ok := d.aliasIndex[name]
	if !ok {
		return AliasGroup{}, false
	}
	return d.aliases[i], true
}

// IsAlias reports whether name is an alias umbrella.
func (d *Dictionary) IsAlias(name string) bool {
	_, ok := d.aliasIndex[name]
	return ok
}

// Aliases returns the alias groups in declaration order.
func (d *Dictionary) Aliases() []AliasGroup {
	return d.aliases
}

// ParentOverride returns the explicit parent for name.
func (d *Dictionary) ParentOverride(name string) (string, bool) {
	p, ok := d.overrides[name]
	return p, ok
}

// Families returns the prefix families in declaration order.
func (d *Dictionary) Families() []Family {
	return d.families
}

// Skip reports whether a heading is not a type.
func (d *Dictionary) Skip(name string) bool {
	return d.skip[name]
}

// AllowedEmpty reports whether a type may have no fields.
func (d *Dictionary) AllowedEmpty(name string) bool {
	return d.allowedEmpty[name]
}

// RequiredToken interprets the "Required" column of a parameter table.
// The second result is false when the token is not recognised.
func (d *Dictionary) RequiredToken(text string) (required, ok bool) {
	required, ok = d.requiredTokens[strings.ToLower(strings.TrimSpace(text))]
	return required, ok
}

// Default returns the tables for the Telegram Bot API reference.
func Default() *Dictionary {
	aliases := defaultAliases()
	overrides := map[string]string{
		"InputFile": "AbstractInputFile",
		// shares the inline result prefix but is a plain object
		"InlineQueryResultsButton": AbstractType,
	}
	for _, g := range aliases {
		overrides[g.Name] = "Abstract" + g.Name
	}
	return New(Options{
		Scalars: map[string]string{
			"Float":        schema.KindFloat,
			"Float number": schema.KindFloat,
			"Integer":      schema.KindInt,
			"Int":          schema.KindInt,
			"True":         schema.KindBool,
			"Boolean":      schema.KindBool,
			"CallbackGame": schema.KindArray,
			"Array":        schema.KindArray,
			"String":       schema.KindString,
		},
		Aliases:         aliases,
		ParentOverrides: overrides,
		Families: []Family{
			{Prefix: "InlineQueryResult", Parent: "AbstractInlineQueryResult"},
			{Prefix: "Input", Suffix: "MessageContent", Parent: "AbstractInputMessageContent"},
			{Prefix: "InputMedia", Parent: "AbstractInputMedia"},
			{Prefix: "PassportElementError", Parent: "AbstractPassportElementError"},
		},
		SkipTypes: []string{
			"Sending files",
			"Inline mode objects",
			"Formatting options",
			"Inline mode methods",
			"CallbackGame",
			"Accent colors",
			"Profile accent colors",
			"Determining list of commands",
		},
		AllowedEmpty: []string{
			"InputFile",
			"ForumTopicClosed",
			"ForumTopicReopened",
			"GeneralForumTopicHidden",
			"GeneralForumTopicUnhidden",
			"VideoChatStarted",
			"GiveawayCreated",
		},
		RequiredTokens: map[string]bool{
			"yes":      true,
			"true":     true,
			"optional": false,
			"no":       false,
			"false":    false,
		},
	})
}
