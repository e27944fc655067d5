package gillespie

import (
	"errors"
	"fmt"
	"strings"
)

// Setup violations are reported before any stochastic state is touched.
// They are programmer/input errors, never simulation outcomes.
var (
	// ErrShapeMismatch indicates the reactant and product matrices do not
	// share the same (reactions x species) shape, or the initial state or
	// rate-constant vectors have the wrong length.
	ErrShapeMismatch = errors.New("gillespie: stoichiometry shape mismatch")

	// ErrNegativeEntry indicates a negative stoichiometric coefficient or
	// initial population.
	ErrNegativeEntry = errors.New("gillespie: negative entry")

	// ErrOrderTooHigh indicates a reaction of order greater than three,
	// which the rate conversion does not support.
	ErrOrderTooHigh = errors.New("gillespie: reaction order greater than 3 not supported")

	// ErrInvalidVolume indicates a non-positive system volume.
	ErrInvalidVolume = errors.New("gillespie: volume must be positive")

	// ErrRejectionLimit indicates the negative-population rejection retry
	// exceeded its safety cap within a single step.
	ErrRejectionLimit = errors.New("gillespie: rejection retry limit exceeded")
)

// NegativeRateError identifies the offending indices when any deterministic
// rate constant is negative.
type NegativeRateError struct {
	Indices []int
}

func (e *NegativeRateError) Error() string {
	idx := make([]string, len(e.Indices))
	for i, v := range e.Indices {
		idx[i] = fmt.Sprintf("%d", v)
	}
	return "gillespie: negative rate constant at index " + strings.Join(idx, ", ")
}

// ValidationError collects multiple model-config validation issues so a
// caller sees everything wrong with a config at once.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "invalid model: unknown validation error"
	}
	if len(e.Issues) == 1 {
		return e.Issues[0]
	}
	return "model validation errors: " + strings.Join(e.Issues, "; ")
}

func (e *ValidationError) Add(issue string) {
	e.Issues = append(e.Issues, issue)
}

func (e *ValidationError) HasIssues() bool {
	return len(e.Issues) > 0
}
