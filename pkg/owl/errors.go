package owl

import (
	"errors"
	"fmt"
)

// ErrEntityNotFound is wrapped by LookupError.
var ErrEntityNotFound = errors.New("entity not found")

// LookupError reports an identifier that does not resolve to an entity in the
// imports closure.
type LookupError struct {
	ID string
	// Cause is set when the identifier itself could not be expanded.
	Cause error
}

func (e *LookupError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %q: %v", ErrEntityNotFound, e.ID, e.Cause)
	}
	return fmt.Sprintf("%s: %q", ErrEntityNotFound, e.ID)
}

func (e *LookupError) Unwrap() error { return ErrEntityNotFound }
