package lifecycle

import (
	"errors"
	"strings"
)

// Failure kinds surfaced to callers. All of them are validation failures the
// caller can correct; none is fatal.
var (
	ErrUnauthorized        = errors.New("job card is not assigned to you")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrConcurrentActiveJob = errors.New("another job is already in progress today")
	ErrDateRestricted      = errors.New("only jobs scheduled for today can be updated")
	ErrDayNotStarted       = errors.New("day has not been started")
	ErrDayAlreadyEnded     = errors.New("day has already been ended")
	ErrDayAlreadyStarted   = errors.New("day has already been started")
	ErrOpenTicketsRemain   = errors.New("open job cards remain for today")
	ErrInvalidLocation     = errors.New("invalid location")
	ErrNotCompleted        = errors.New("job card is not completed")
	ErrNotApproved         = errors.New("job card is not approved")
	ErrAlreadyScored       = errors.New("job card already has a score")
	ErrMissingEndTime      = errors.New("job card has no end time")
)

// OpenTicketsError blocks closing a day. TicketNumbers are distinct and in
// the order they were found.
type OpenTicketsError struct {
	TicketNumbers []string
}

func (e *OpenTicketsError) Error() string {
	return ErrOpenTicketsRemain.Error() + ": " + e.Detail()
}

// Detail is the comma separated list of blocking ticket numbers.
func (e *OpenTicketsError) Detail() string {
	return strings.Join(e.TicketNumbers, ", ")
}

func (e *OpenTicketsError) Unwrap() error { return ErrOpenTicketsRemain }
