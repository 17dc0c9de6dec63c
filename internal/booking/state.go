package booking

import (
	"strings"
)

// State selects which bookings a listing returns.
type State string

const (
	StateAll      State = "ALL"
	StateCurrent  State = "CURRENT"
	StateFuture   State = "FUTURE"
	StatePast     State = "PAST"
	StateWaiting  State = "WAITING"
	StateRejected State = "REJECTED"
)

// States lists every State. Tests iterate it to keep the switches below exhaustive.
func States() []State {
	return []State{StateAll, StateCurrent, StateFuture, StatePast, StateWaiting, StateRejected}
}

// ParseState accepts a state token in any letter case. An empty token means ALL.
func ParseState(token string) (State, error) {
	t := strings.ToUpper(strings.TrimSpace(token))
	if t == "" {
		return StateAll, nil
	}

	s := State(t)
	if !s.Valid() {
		return "", ErrUnknownState.Withf("Unknown state: %s", token)
	}
	return s, nil
}

// Valid reports whether s is one of the six states.
func (s State) Valid() bool {
	switch s {
	case StateAll, StateCurrent, StateFuture, StatePast, StateWaiting, StateRejected:
		return true
	}
	return false
}

func (s State) String() string {
	return string(s)
}
