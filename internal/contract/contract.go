// Package contract publishes the output schema as a JSON Schema document and
// checks generated files against it.
package contract

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	invopop "github.com/invopop/jsonschema"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/dgallion1/tgschema/internal/schema"
)

const resourceURL = "tgschema-contract.json"

// Document reflects schema.Schema into a Draft 2020-12 JSON Schema.
func Document() *invopop.Schema {
	r := &invopop.Reflector{Anonymous: true}
	doc := r.Reflect(&schema.Schema{})
	doc.Title = "Telegram Bot API intermediate schema"
	return doc
}

// DocumentJSON returns the indented contract document.
func DocumentJSON() ([]byte, error) {
	return json.MarshalIndent(Document(), "", "  ")
}

// Result is the outcome of checking one document.
type Result struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// Validator checks JSON documents against the contract.
type Validator struct {
	schema  *jsonschema.Schema
	printer *message.Printer
}

// NewValidator compiles the contract document. Messages are printed in lang;
// an empty tag means English.
func NewValidator(lang language.Tag) (*Validator, error) {
	raw, err := DocumentJSON()
	if err != nil {
		return nil, fmt.Errorf("marshaling contract: %w", err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("unmarshaling contract: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(resourceURL, doc); err != nil {
		return nil, fmt.Errorf("adding contract resource: %w", err)
	}
	compiled, err := compiler.Compile(resourceURL)
	if err != nil {
		return nil, fmt.Errorf("compiling contract: %w", err)
	}

	if lang == language.Und {
		lang = language.English
	}
	return &Validator{schema: compiled, printer: message.NewPrinter(lang)}, nil
}

// Validate checks raw JSON bytes.
func (v *Validator) Validate(data []byte) Result {
	value, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return Result{Errors: []string{fmt.Sprintf("invalid JSON: %s", err)}}
	}
	return v.ValidateValue(value)
}

// ValidateSchema checks an in-memory schema by its JSON encoding.
func (v *Validator) ValidateSchema(s *schema.Schema) (Result, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return Result{}, err
	}
	return v.Validate(data), nil
}

// ValidateValue checks an already decoded JSON value.
func (v *Validator) ValidateValue(value any) Result {
	err := v.schema.Validate(value)
	if err == nil {
		return Result{Valid: true}
	}

	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return Result{Errors: []string{err.Error()}}
	}
	byPath := make(map[string][]string)
	v.collect(verr, byPath)

	var out []string
	for path, msgs := range byPath {
		seen := make(map[string]bool)
		for _, msg := range msgs {
			if seen[msg] {
				continue
			}
			seen[msg] = true
			if path == "" {
				out = append(out, msg)
			} else {
				out = append(out, path+": "+msg)
			}
		}
	}
	sort.Strings(out)
	if len(out) == 0 {
		out = []string{err.Error()}
	}
	return Result{Errors: out}
}

// collect gathers leaf errors keyed by instance path.
func (v *Validator) collect(err *jsonschema.ValidationError, byPath map[string][]string) {
	if err.ErrorKind != nil && len(err.Causes) == 0 {
		path := ""
		if len(err.InstanceLocation) > 0 {
			path = "/" + strings.Join(err.InstanceLocation, "/")
		}
		msg := err.ErrorKind.LocalizedString(v.printer)
		if !strings.HasPrefix(msg, "$ref ") && !strings.HasPrefix(msg, "doesn't validate with") {
			byPath[path] = append(byPath[path], msg)
		}
	}
	for _, cause := range err.Causes {
		v.collect(cause, byPath)
	}
}
