package booking

import (
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
)

// Window is where a booking lies relative to an instant.
type Window int

const (
	// WindowNone holds a booking that ends exactly at the instant.
	WindowNone Window = iota
	WindowFuture
	WindowCurrent
	WindowPast
)

func (w Window) String() string {
	switch w {
	case WindowNone:
		return "NONE"
	case WindowFuture:
		return "FUTURE"
	case WindowCurrent:
		return "CURRENT"
	case WindowPast:
		return "PAST"
	}
	return fmt.Sprintf("Window(%d)", int(w))
}

// Classify places [start, end) relative to now:
//
//	FUTURE  now < start
//	CURRENT start <= now < end
//	PAST    end < now
//
// A booking whose end equals now is in no window.
func Classify(now, start, end time.Time) Window {
	switch {
	case now.Before(start):
		return WindowFuture
	case now.Before(end):
		return WindowCurrent
	case end.Before(now):
		return WindowPast
	default:
		return WindowNone
	}
}

// Matches reports whether b is selected by s at now.
func (s State) Matches(b *Booking, now time.Time) bool {
	switch s {
	case StateAll:
		return true
	case StateCurrent:
		return Classify(now, b.Start, b.End) == WindowCurrent
	case StateFuture:
		return Classify(now, b.Start, b.End) == WindowFuture
	case StatePast:
		return Classify(now, b.Start, b.End) == WindowPast
	case StateWaiting:
		return b.Status == StatusWaiting
	case StateRejected:
		return b.Status == StatusRejected
	}
	panic(fmt.Sprintf("booking: unhandled state %q", string(s)))
}

// Predicate is the SQL form of Matches over the bookings table aliased as b.
// A nil predicate means no constraint.
func (s State) Predicate(now time.Time) (squirrel.Sqlizer, error) {
	switch s {
	case StateAll:
		return nil, nil
	case StateCurrent:
		return squirrel.And{
			squirrel.LtOrEq{"b.start_time": now},
			squirrel.Gt{"b.end_time": now},
		}, nil
	case StateFuture:
		return squirrel.Gt{"b.start_time": now}, nil
	case StatePast:
		return squirrel.Lt{"b.end_time": now}, nil
	case StateWaiting:
		return squirrel.Eq{"b.status": string(StatusWaiting)}, nil
	case StateRejected:
		return squirrel.Eq{"b.status": string(StatusRejected)}, nil
	}
	return nil, ErrUnknownState.Withf("Unknown state: %s", string(s))
}
