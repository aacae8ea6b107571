package condition

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrConditionNotFound is returned when a condition ID is not in the library.
	ErrConditionNotFound = errors.New("condition not found")

	// ErrInvalidID is returned for empty condition IDs and IDs with
	// surrounding white space.
	ErrInvalidID = errors.New("invalid condition ID")

	// ErrDuplicateID is returned when two conditions share an ID.
	ErrDuplicateID = errors.New("duplicate condition ID")
)

// MutationError reports the library mutation that could not be applied.
type MutationError struct {
	ID    string
	Cause error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("condition %q: %v", e.ID, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *MutationError) Unwrap() error {
	return e.Cause
}

// ValidationError lists the problems found in a condition set.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 1 {
		return "validation error: " + e.Problems[0]
	}
	return fmt.Sprintf("%d validation errors: %s", len(e.Problems), strings.Join(e.Problems, "; "))
}

func checkID(id string) error {
	if id == "" || strings.TrimSpace(id) != id {
		return errors.Wrapf(ErrInvalidID, "%q", id)
	}
	return nil
}
