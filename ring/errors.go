package ring

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidOperation reports a ring or arity mismatch, a division by
	// zero, or any other use of an operation outside its domain.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrNoLifting reports that a Hensel step met factors that cannot be
	// lifted (not coprime, or no consistent correction exists).
	ErrNoLifting = errors.New("no lifting possible")

	// ErrExhausted reports that a search over primes, evaluation points or
	// random trials ran out of budget.
	ErrExhausted = errors.New("search exhausted")

	// ErrUnsupportedDomain reports a coefficient domain without a strategy.
	ErrUnsupportedDomain = errors.New("unsupported domain")
)

// ExhaustionError carries the budget that ran out.
type ExhaustionError struct {
	What     string // what was searched for
	Attempts int    // how many attempts were made
	Context  string // the polynomial and ring being processed
}

func (e *ExhaustionError) Error() string {
	if e.Context == "" {
		return fmt.Sprintf("%s: %d attempts for %s", ErrExhausted, e.Attempts, e.What)
	}
	return fmt.Sprintf("%s: %d attempts for %s (%s)", ErrExhausted, e.Attempts, e.What, e.Context)
}

func (e *ExhaustionError) Unwrap() error {
	return ErrExhausted
}

// InvalidOperationError is the panic value raised by arithmetic on
// incompatible operands. The facade recovers it into an ordinary error.
type InvalidOperationError struct {
	Msg string
}

func (e *InvalidOperationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidOperation, e.Msg)
}

func (e *InvalidOperationError) Unwrap() error {
	return ErrInvalidOperation
}

// Invalidf builds the panic value used for incompatible operands.
func Invalidf(format string, args ...any) *InvalidOperationError {
	return &InvalidOperationError{Msg: fmt.Sprintf(format, args...)}
}
