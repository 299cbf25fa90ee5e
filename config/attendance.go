package config

import (
	"time"

	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/lifecycle"
	"github.com/isira-aw/Metropolitan-NEW-EMS/pkg/clock"
)

// Window parses the configured cutoffs.
func (c *AttendanceConfig) Window() (lifecycle.Window, error) {
	start, err := clock.ParseTimeOfDay(c.MorningCutoff)
	if err != nil {
		return lifecycle.Window{}, err
	}
	end, err := clock.ParseTimeOfDay(c.EveningCutoff)
	if err != nil {
		return lifecycle.Window{}, err
	}
	w := lifecycle.Window{
		StartHour: start.Hour, StartMinute: start.Minute,
		EndHour: end.Hour, EndMinute: end.Minute,
	}
	if err := w.Validate(); err != nil {
		return lifecycle.Window{}, err
	}
	return w, nil
}

// Location loads the business time zone. Validate has already checked it.
func (c *ClockConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}
