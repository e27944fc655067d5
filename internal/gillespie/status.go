package gillespie

import "fmt"

// Status is the outcome of a simulation run. StatusRunning is the only
// non-terminal value; it is never returned to callers of Simulate.
type Status int

const (
	// StatusRunning means the simulation loop is still advancing.
	StatusRunning Status = iota

	// StatusExtinction means every species population reached zero.
	StatusExtinction

	// StatusNoPropensity means the population is nonzero but no reaction
	// can fire: the system is deadlocked, not depleted.
	StatusNoPropensity

	// StatusMaxTime means the simulation clock crossed the configured max_t.
	StatusMaxTime

	// StatusMaxIter means the configured number of accepted reaction events
	// was reached before any other stopping condition.
	StatusMaxIter
)

// Terminal reports whether the status ends a run.
func (s Status) Terminal() bool {
	return s != StatusRunning
}

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusExtinction:
		return "extinction"
	case StatusNoPropensity:
		return "no_propensity"
	case StatusMaxTime:
		return "max_time_reached"
	case StatusMaxIter:
		return "max_iter_reached"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// MarshalText encodes the status as its string form for JSON snapshots.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a status from its string form.
func (s *Status) UnmarshalText(text []byte) error {
	switch string(text) {
	case "running":
		*s = StatusRunning
	case "extinction":
		*s = StatusExtinction
	case "no_propensity":
		*s = StatusNoPropensity
	case "max_time_reached":
		*s = StatusMaxTime
	case "max_iter_reached":
		*s = StatusMaxIter
	default:
		return fmt.Errorf("unknown status %q", string(text))
	}
	return nil
}
