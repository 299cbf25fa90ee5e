package lifecycle

import (
	"fmt"
	"time"
)

// Weight bounds for tickets and scores.
const (
	MinWeight = 1
	MaxWeight = 5
)

// ErrInvalidWeight rejects a weight outside [MinWeight, MaxWeight].
var ErrInvalidWeight = fmt.Errorf("weight must be between %d and %d", MinWeight, MaxWeight)

// ValidateWeight checks a ticket weight or score value.
func ValidateWeight(w int) error {
	if w < MinWeight || w > MaxWeight {
		return ErrInvalidWeight
	}
	return nil
}

// CheckApprovable allows approval only for completed job cards.
func CheckApprovable(status Status) error {
	if status != StatusCompleted {
		return fmt.Errorf("%w: status is %s", ErrNotCompleted, status)
	}
	return nil
}

// ScoreCandidate is the state consulted before a score row is written.
type ScoreCandidate struct {
	Status   Status
	Approved bool
	HasScore bool
	EndTime  *time.Time
}

// CheckScorable returns the first reason a score cannot be created, checked
// in order: not completed, not approved, already scored, no end time.
func CheckScorable(c ScoreCandidate) error {
	if c.Status != StatusCompleted {
		return fmt.Errorf("%w: status is %s", ErrNotCompleted, c.Status)
	}
	if !c.Approved {
		return ErrNotApproved
	}
	if c.HasScore {
		return ErrAlreadyScored
	}
	if c.EndTime == nil {
		return ErrMissingEndTime
	}
	return nil
}
