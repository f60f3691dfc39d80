// Package schema defines the intermediate schema handed to the code generator.
package schema

import (
	"unicode"
	"unicode/utf8"
)

// Scalar kinds a TypeRef can carry. Any other kind is a declared type name.
const (
	KindInt    = "int"
	KindFloat  = "float"
	KindBool   = "bool"
	KindString = "string"
	KindArray  = "array"
)

// TypeRef is one resolved type of a field, parameter or return value.
type TypeRef struct {
	Type    string `json:"type" yaml:"type" validate:"required" jsonschema:"minLength=1"`
	IsArray bool   `json:"is_array" yaml:"is_array"`
}

// Restrictions are value constraints found in a field description.
type Restrictions struct {
	MinLength *int     `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Enum      []string `json:"enum,omitempty" yaml:"enum,omitempty"`
}

// Empty reports whether no restriction was found.
func (r *Restrictions) Empty() bool {
	return r == nil || (r.MinLength == nil && r.MaxLength == nil && len(r.Enum) == 0)
}

type FieldSpec struct {
	Name         string        `json:"name" yaml:"name" validate:"required" jsonschema:"minLength=1"`
	Description  string        `json:"description" yaml:"description"`
	Required     bool          `json:"required" yaml:"required"`
	Types        []TypeRef     `json:"type" yaml:"type" validate:"required,min=1,dive" jsonschema:"minItems=1"`
	Restrictions *Restrictions `json:"restrictions,omitempty" yaml:"restrictions,omitempty"`
}

type TypeSchema struct {
	Name         string      `json:"name" yaml:"name" validate:"required" jsonschema:"minLength=1"`
	Link         string      `json:"link" yaml:"link" validate:"required"`
	Descriptions []string    `json:"descriptions" yaml:"descriptions"`
	Fields       []FieldSpec `json:"fields" yaml:"fields" validate:"dive"`
	Parent       string      `json:"parent" yaml:"parent" validate:"required"`
}

type ParameterSpec struct {
	Name        string    `json:"name" yaml:"name" validate:"required" jsonschema:"minLength=1"`
	Types       []TypeRef `json:"type" yaml:"type" validate:"required,min=1,dive" jsonschema:"minItems=1"`
	Required    bool      `json:"required" yaml:"required"`
	Description string    `json:"description" yaml:"description"`
}

type MethodSchema struct {
	Name        string          `json:"name" yaml:"name" validate:"required" jsonschema:"minLength=1"`
	Description string          `json:"description" yaml:"description"`
	Link        string          `json:"link" yaml:"link" validate:"required"`
	Parameters  []ParameterSpec `json:"parameters" yaml:"parameters" validate:"dive"`
	ReturnTypes []TypeRef       `json:"return" yaml:"return" validate:"required,min=1,dive" jsonschema:"minItems=1"`
}

// Schema is the complete output of one extraction run.
// Methods keep document order; Types is keyed by type name.
type Schema struct {
	Types   map[string]TypeSchema `json:"types" yaml:"types" validate:"dive"`
	Methods []MethodSchema        `json:"methods" yaml:"methods" validate:"dive"`
}

// Counts returns the number of declared types and methods.
func (s *Schema) Counts() (types, methods int) {
	if s == nil {
		return 0, 0
	}
	return len(s.Types), len(s.Methods)
}

// IsTypeName reports whether a heading names a type rather than a method.
// Types start with an upper-case letter.
func IsTypeName(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}
