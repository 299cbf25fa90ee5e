// Package lifecycle holds the job-card state machine and the time-accounting
// rules built on top of it. Everything here is pure: callers load state,
// ask lifecycle for a decision or a number, and persist the result.
package lifecycle

import (
	"fmt"
	"strings"
)

// Status is the lifecycle state of a job card. Tickets reuse the same values
// for their derived overall state.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusTraveling Status = "TRAVELING"
	StatusStarted   Status = "STARTED"
	StatusOnHold    Status = "ON_HOLD"
	StatusCompleted Status = "COMPLETED"
	StatusCancel    Status = "CANCEL"
)

// AllStatuses in lifecycle order.
var AllStatuses = []Status{
	StatusPending, StatusTraveling, StatusStarted, StatusOnHold, StatusCompleted, StatusCancel,
}

// workerTransitions is the adjacency table for worker-driven changes.
var workerTransitions = map[Status][]Status{
	StatusPending:   {StatusTraveling, StatusCancel},
	StatusTraveling: {StatusStarted, StatusOnHold, StatusCancel},
	StatusStarted:   {StatusOnHold, StatusCompleted, StatusCancel},
	StatusOnHold:    {StatusStarted, StatusCancel},
	StatusCompleted: nil,
	StatusCancel:    nil,
}

// adminTransitions holds corrections only an administrator may apply.
// Rejecting a completed job sends it back to ON_HOLD.
var adminTransitions = map[Status][]Status{
	StatusCompleted: {StatusOnHold},
}

// ParseStatus accepts a status name in any case.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return st, nil
}

// Valid reports whether s is one of the six known states.
func (s Status) Valid() bool {
	_, ok := workerTransitions[s]
	return ok
}

// IsActive reports whether a job in this state occupies the worker:
// TRAVELING, STARTED or ON_HOLD.
func (s Status) IsActive() bool {
	return s == StatusTraveling || s == StatusStarted || s == StatusOnHold
}

// IsTerminal reports whether no worker transition leaves s.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancel
}

func (s Status) String() string { return string(s) }

// Next lists the states a worker may move to from s.
func Next(s Status) []Status {
	out := make([]Status, len(workerTransitions[s]))
	copy(out, workerTransitions[s])
	return out
}

// CanTransition reports whether (from, to) is in the worker table.
func CanTransition(from, to Status) bool {
	return contains(workerTransitions[from], to)
}

// CanAdminTransition reports whether (from, to) is an administrator correction.
func CanAdminTransition(from, to Status) bool {
	return contains(adminTransitions[from], to)
}

// ValidateTransition returns ErrInvalidTransition unless a worker may move from -> to.
func ValidateTransition(from, to Status) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// ValidateAdminTransition returns ErrInvalidTransition unless an administrator may move from -> to.
func ValidateAdminTransition(from, to Status) error {
	if !CanAdminTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// ValidWalk checks that a recorded history, oldest first, starts at PENDING
// and only follows worker edges or administrator corrections. The first
// element is the status the card was created in.
func ValidWalk(history []Status) bool {
	if len(history) == 0 {
		return true
	}
	if history[0] != StatusPending {
		return false
	}
	for i := 1; i < len(history); i++ {
		from, to := history[i-1], history[i]
		if !CanTransition(from, to) && !CanAdminTransition(from, to) {
			return false
		}
	}
	return true
}

func contains(list []Status, s Status) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
