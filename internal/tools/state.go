package tools

import "fmt"

// State is where a tool's UI interaction currently stands.
type State int

const (
	Idle State = iota
	HasInput
	Processing
	HasResult
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case HasInput:
		return "has-input"
	case Processing:
		return "processing"
	case HasResult:
		return "has-result"
	case Failed:
		return "error"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	for st := Idle; st <= Failed; st++ {
		if st.String() == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown state %q", text)
}

// Event drives a State transition.
type Event int

const (
	SelectInput Event = iota
	Invoke
	Succeed
	Fail
	Abandon
)

func (e Event) String() string {
	switch e {
	case SelectInput:
		return "select-input"
	case Invoke:
		return "invoke"
	case Succeed:
		return "success"
	case Fail:
		return "failure"
	case Abandon:
		return "abandon"
	default:
		return fmt.Sprintf("event(%d)", int(e))
	}
}

// Next returns the state reached from s on e. Re-invoking while processing
// or after a result keeps the session in Processing; the newest invocation
// decides what gets published.
func (s State) Next(e Event) (State, error) {
	switch e {
	case SelectInput:
		return HasInput, nil
	case Invoke:
		switch s {
		case HasInput, Processing, HasResult, Failed:
			return Processing, nil
		}
	case Succeed:
		if s == Processing {
			return HasResult, nil
		}
	case Fail:
		if s == Processing {
			return Failed, nil
		}
	case Abandon:
		if s == Processing {
			return HasInput, nil
		}
	}
	return s, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, e, s)
}
