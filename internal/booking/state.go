package booking

import (
	"strings"
	"time"
)

// Status is the approval status of a booking.
// It starts at WAITING and moves at most once to APPROVED or REJECTED.
type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// CanTransitionTo reports whether the status machine permits moving to next.
// APPROVED and REJECTED are terminal.
func (s Status) CanTransitionTo(next Status) bool {
	if s != StatusWaiting {
		return false
	}
	return next == StatusApproved || next == StatusRejected
}

// Decision maps an owner's verdict to the resulting terminal status.
func Decision(approved bool) Status {
	if approved {
		return StatusApproved
	}
	return StatusRejected
}

// State is a logical view over a user's bookings relative to the current
// time and status.
type State string

const (
	StateAll      State = "ALL"
	StateCurrent  State = "CURRENT"
	StatePast     State = "PAST"
	StateFuture   State = "FUTURE"
	StateWaiting  State = "WAITING"
	StateRejected State = "REJECTED"
)

// ParseState parses a state query parameter. An empty value means ALL.
func ParseState(raw string) (State, error) {
	if raw == "" {
		return StateAll, nil
	}
	st := State(strings.ToUpper(raw))
	if _, ok := statePredicates[st]; !ok {
		return "", ErrUnknownState
	}
	return st, nil
}

// statePredicates is the per-state dispatch table. Adding a state means
// adding one entry here; no call site changes.
//
// CURRENT is inclusive at both endpoints: a booking whose interval touches
// now on either side counts as current.
var statePredicates = map[State]func(b *Booking, now time.Time) bool{
	StateAll: func(*Booking, time.Time) bool {
		return true
	},
	StateWaiting: func(b *Booking, _ time.Time) bool {
		return b.Status == StatusWaiting
	},
	StateRejected: func(b *Booking, _ time.Time) bool {
		return b.Status == StatusRejected
	},
	StatePast: func(b *Booking, now time.Time) bool {
		return now.After(b.EndTime)
	},
	StateFuture: func(b *Booking, now time.Time) bool {
		return now.Before(b.StartTime)
	},
	StateCurrent: func(b *Booking, now time.Time) bool {
		return !now.Before(b.StartTime) && !now.After(b.EndTime)
	},
}

// Filter keeps the bookings matching the state, evaluated against a single
// now captured by the caller so one call's results are internally consistent.
// The input order is preserved.
func (st State) Filter(bookings []*Booking, now time.Time) []*Booking {
	if st == StateAll {
		return bookings
	}
	pred := statePredicates[st]
	filtered := make([]*Booking, 0, len(bookings))
	for _, b := range bookings {
		if pred(b, now) {
			filtered = append(filtered, b)
		}
	}
	return filtered
}

// LastAndNext picks, from an item's bookings, the most recently finished one
// and the nearest upcoming one relative to now. Either may be nil.
func LastAndNext(bookings []*Booking, now time.Time) (last, next *Booking) {
	for _, b := range bookings {
		if now.After(b.EndTime) {
			if last == nil || b.EndTime.After(last.EndTime) {
				last = b
			}
		}
		if now.Before(b.StartTime) {
			if next == nil || b.StartTime.Before(next.StartTime) {
				next = b
			}
		}
	}
	return last, next
}
