package lifecycle

import (
	"fmt"
	"time"
)

// TransitionCheck is everything the engine needs to decide on a
// worker-requested status change. The caller loads it inside the same
// transaction that will persist the change.
type TransitionCheck struct {
	ActorID   string
	OwnerID   string
	Current   Status
	Requested Status

	// ScheduledDate and Today are civil-date markers.
	ScheduledDate time.Time
	Today         time.Time

	// DayStarted is false when there is no attendance record for Today.
	DayStarted bool
	DayEnded   bool

	// Siblings are the statuses of the actor's other job cards scheduled
	// for the same date.
	Siblings []Status

	Latitude        *float64
	Longitude       *float64
	RequireLocation bool
}

// CheckTransition runs the guards in order: ownership, schedule date,
// attendance day, transition table, single active job, location. The first
// failure wins. On success it returns the validated location (zero value
// when none was supplied and none is required).
func CheckTransition(in TransitionCheck) (*Location, error) {
	if in.ActorID == "" || in.ActorID != in.OwnerID {
		return nil, ErrUnauthorized
	}
	if !sameDate(in.ScheduledDate, in.Today) {
		return nil, fmt.Errorf("%w: job is scheduled for %s", ErrDateRestricted, in.ScheduledDate.Format("2006-01-02"))
	}
	if !in.DayStarted {
		return nil, ErrDayNotStarted
	}
	if in.DayEnded {
		return nil, ErrDayAlreadyEnded
	}
	if err := ValidateTransition(in.Current, in.Requested); err != nil {
		return nil, err
	}
	if in.Requested.IsActive() {
		for _, s := range in.Siblings {
			if s.IsActive() {
				return nil, ErrConcurrentActiveJob
			}
		}
	}

	if !in.RequireLocation && in.Latitude == nil && in.Longitude == nil {
		return nil, nil
	}
	loc, err := ValidateLocation(in.Latitude, in.Longitude)
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

// ActiveCount counts statuses that occupy a worker.
func ActiveCount(statuses []Status) int {
	n := 0
	for _, s := range statuses {
		if s.IsActive() {
			n++
		}
	}
	return n
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
