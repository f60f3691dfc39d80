package schema

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks the struct-level invariants of an assembled schema:
// every name and link is present, every type list and return list is non-empty.
// Cross-record rules (allow-listed empty types, parent resolution) belong to
// the assembler.
func Validate(s *Schema) error {
	if s == nil {
		return &InvariantViolationError{Item: "schema", Reason: "nil schema"}
	}
	for name, t := range s.Types {
		if name != t.Name {
			return &InvariantViolationError{Item: name, Reason: fmt.Sprintf("keyed under %q but named %q", name, t.Name)}
		}
	}

	err := structValidator().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		first := verrs[0]
		return &InvariantViolationError{
			Item:   first.Namespace(),
			Reason: fmt.Sprintf("failed %q check (%d violation(s) total)", first.Tag(), len(verrs)),
		}
	}
	return fmt.Errorf("validate schema: %w", err)
}
