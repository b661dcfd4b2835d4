package inference

import "fmt"

// State is the position of an Orchestrator in its run.
type State int

const (
	Idle State = iota
	ConsistencyChecked
	GeneratorsSelected
	Generated
)

var stateNames = [...]string{"idle", "consistency checked", "generators selected", "generated"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

func (o *Orchestrator) require(op string, allowed ...State) error {
	for _, s := range allowed {
		if o.state == s {
			return nil
		}
	}
	return fmt.Errorf("%w: %s called in state %q", ErrInvalidState, op, o.state)
}
