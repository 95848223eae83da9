// internal/domain/errors.go
package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the engine's failure taxonomy. Calculators and the
// amortization engine fail fast with these; the solver and scorer degrade to
// partial results instead of surfacing them to callers.
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidLoanTerm     = errors.New("invalid loan term")
	ErrUnsolvableObjective = errors.New("unsolvable objective")
)

// InputError wraps ErrInvalidInput with enough context for user-facing
// messaging: which strategy rejected which field and why.
type InputError struct {
	Strategy StrategyID
	Field    string
	Reason   string
}

func (e *InputError) Error() string {
	if e.Strategy != "" {
		return fmt.Sprintf("invalid input: %s: field %q: %s", e.Strategy, e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid input: field %q: %s", e.Field, e.Reason)
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }

// NewInputError builds an InputError for one rejected field.
func NewInputError(strategy StrategyID, field, reason string) error {
	return &InputError{Strategy: strategy, Field: field, Reason: reason}
}
