// Package clock supplies the current time in the business time zone.
//
// Nothing in the service layer calls time.Now directly; it asks a Clock, so
// tests can pin "now" to an exact instant and zone.
package clock

import (
	"fmt"
	"time"
	_ "time/tzdata" // containers often ship without zoneinfo
)

// DateLayout is the wire and column format of a civil date.
const DateLayout = "2006-01-02"

// Clock returns the current instant in a fixed location.
type Clock interface {
	Now() time.Time
	Location() *time.Location
}

type systemClock struct {
	loc *time.Location
}

// New returns a Clock backed by the system time, reported in loc.
func New(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return systemClock{loc: loc}
}

// Load resolves an IANA zone name and returns a system Clock for it.
func Load(zone string) (Clock, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("load time zone %q: %w", zone, err)
	}
	return New(loc), nil
}

func (c systemClock) Now() time.Time           { return time.Now().In(c.loc) }
func (c systemClock) Location() *time.Location { return c.loc }

// Fixed is a Clock that always reports T. Tests advance it with Set/Advance.
type Fixed struct {
	T   time.Time
	Loc *time.Location
}

// NewFixed builds a Fixed clock at t, using t's location.
func NewFixed(t time.Time) *Fixed {
	return &Fixed{T: t, Loc: t.Location()}
}

func (f *Fixed) Now() time.Time { return f.T.In(f.Location()) }

func (f *Fixed) Location() *time.Location {
	if f.Loc == nil {
		return time.UTC
	}
	return f.Loc
}

// Set moves the clock to t.
func (f *Fixed) Set(t time.Time) { f.T = t }

// Advance moves the clock forward by d.
func (f *Fixed) Advance(d time.Duration) { f.T = f.T.Add(d) }

// DateOf returns the civil date of t (in t's own location) as midnight UTC,
// which is how date columns round-trip through the database driver.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today is the civil date of c.Now().
func Today(c Clock) time.Time {
	return DateOf(c.Now())
}

// SameDate reports whether two date markers denote the same civil date.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// ParseDate parses a YYYY-MM-DD string into a date marker.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// FormatDate renders a date marker as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// TimeOfDay is a wall-clock time without a date, e.g. 08:30.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses "HH:MM".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// MustTimeOfDay is ParseTimeOfDay for constants.
func MustTimeOfDay(s string) TimeOfDay {
	tod, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return tod
}

// On returns the instant at this time of day on ref's calendar date, in ref's location.
func (t TimeOfDay) On(ref time.Time) time.Time {
	y, m, d := ref.Date()
	return time.Date(y, m, d, t.Hour, t.Minute, 0, 0, ref.Location())
}

// Before reports whether t is strictly earlier in the day than o.
func (t TimeOfDay) Before(o TimeOfDay) bool {
	if t.Hour != o.Hour {
		return t.Hour < o.Hour
	}
	return t.Minute < o.Minute
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}
