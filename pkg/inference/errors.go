package inference

import (
	"errors"
	"fmt"
)

var (
	// ErrInconsistent is wrapped by ConsistencyError.
	ErrInconsistent = errors.New("ontology is inconsistent")

	// ErrInvalidState is returned when an orchestrator step runs out of order.
	ErrInvalidState = errors.New("invalid orchestrator state")
)

// ConsistencyError reports an ontology without models. Nothing has been
// changed when it is returned.
type ConsistencyError struct {
	Ontology string
	Reasoner string
}

func (e *ConsistencyError) Error() string {
	name := e.Ontology
	if name == "" {
		name = "(anonymous)"
	}
	return fmt.Sprintf(
		"ontology %s is inconsistent according to the %s reasoner (it has no models); "+
			"this is often caused by an individual that is explicitly or implicitly a member of two disjoint classes, "+
			"and must be corrected before inferred axioms can be added",
		name, e.Reasoner)
}

func (e *ConsistencyError) Unwrap() error { return ErrInconsistent }
