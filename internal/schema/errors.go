package schema

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// StructuralError means the document shape breaks an extraction assumption.
type StructuralError struct {
	Item   string // item name, if known
	Reason string
	Markup string // offending markup for diagnostics
}

func (e *StructuralError) Error() string {
	msg := "structural error"
	if e.Item != "" {
		msg += " in " + e.Item
	}
	msg += ": " + e.Reason
	if e.Markup != "" {
		msg += "\n" + e.Markup
	}
	return msg
}

// UnknownTypeError means a type phrase matched no grammar rule.
type UnknownTypeError struct {
	Phrase string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown type: %q", e.Phrase)
}

// UnresolvedParentError means no hierarchy rule produced a parent.
type UnresolvedParentError struct {
	Name string
}

func (e *UnresolvedParentError) Error() string {
	return fmt.Sprintf("cannot determine parent of type %q", e.Name)
}

// MissingReturnTypeError means no return-type rule matched a method description.
type MissingReturnTypeError struct {
	Method      string
	Description string
}

func (e *MissingReturnTypeError) Error() string {
	return fmt.Sprintf("return type not found for method %q: %s", e.Method, truncate(e.Description, 200))
}

// InvariantViolationError means an assembled record breaks a schema invariant.
type InvariantViolationError struct {
	Item   string
	Reason string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("invariant violated for %q: %s", e.Item, e.Reason)
}

// Kind names the taxonomy entry of err, or "internal" for anything else.
func Kind(err error) string {
	var (
		structural *StructuralError
		unknown    *UnknownTypeError
		parent     *UnresolvedParentError
		ret        *MissingReturnTypeError
		invariant  *InvariantViolationError
	)
	switch {
	case errors.As(err, &structural):
		return "structural"
	case errors.As(err, &unknown):
		return "unknown_type"
	case errors.As(err, &parent):
		return "unresolved_parent"
	case errors.As(err, &ret):
		return "missing_return_type"
	case errors.As(err, &invariant):
		return "invariant_violation"
	}
	return "internal"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
