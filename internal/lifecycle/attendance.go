package lifecycle

import (
	"fmt"
	"time"
)

// Window is the official working day, e.g. 08:30 to 17:30, as wall-clock
// hours and minutes in the business zone.
type Window struct {
	StartHour, StartMinute int
	EndHour, EndMinute     int
}

// DefaultWindow is 08:30 to 17:30.
var DefaultWindow = Window{StartHour: 8, StartMinute: 30, EndHour: 17, EndMinute: 30}

// Validate rejects out-of-range fields and a window that does not move forward.
func (w Window) Validate() error {
	if w.StartHour < 0 || w.StartHour > 23 || w.EndHour < 0 || w.EndHour > 23 ||
		w.StartMinute < 0 || w.StartMinute > 59 || w.EndMinute < 0 || w.EndMinute > 59 {
		return fmt.Errorf("official window out of range")
	}
	if w.StartHour*60+w.StartMinute >= w.EndHour*60+w.EndMinute {
		return fmt.Errorf("official window must end after it starts")
	}
	return nil
}

// StartOn is the morning cutoff on t's calendar date in t's location.
func (w Window) StartOn(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, w.StartHour, w.StartMinute, 0, 0, t.Location())
}

// EndOn is the evening cutoff on t's calendar date in t's location.
func (w Window) EndOn(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, w.EndHour, w.EndMinute, 0, 0, t.Location())
}

// MorningOvertime is the time between dayStart and the morning cutoff when
// the worker clocked in early, else zero.
func (w Window) MorningOvertime(dayStart time.Time) int {
	cutoff := w.StartOn(dayStart)
	if !dayStart.Before(cutoff) {
		return 0
	}
	return wholeMinutes(cutoff.Sub(dayStart))
}

// EveningOvertime is the time past the evening cutoff when the worker
// clocked out late, else zero.
func (w Window) EveningOvertime(dayEnd time.Time) int {
	cutoff := w.EndOn(dayEnd)
	if !dayEnd.After(cutoff) {
		return 0
	}
	return wholeMinutes(dayEnd.Sub(cutoff))
}

// RegularMinutes is the overlap of [dayStart, dayEnd] with the official
// window on dayStart's date.
func (w Window) RegularMinutes(dayStart, dayEnd time.Time) int {
	workStart := dayStart
	if open := w.StartOn(dayStart); open.After(workStart) {
		workStart = open
	}
	workEnd := dayEnd
	if closing := w.EndOn(dayStart); closing.Before(workEnd) {
		workEnd = closing
	}
	if !workEnd.After(workStart) {
		return 0
	}
	return wholeMinutes(workEnd.Sub(workStart))
}

// DayTotals is what closing a day records.
type DayTotals struct {
	RegularMinutes   int
	MorningOTMinutes int
	EveningOTMinutes int
}

// CloseDay computes the totals stored when a day ends. morningOT is whatever
// was recorded at day start.
func (w Window) CloseDay(dayStart, dayEnd time.Time, morningOT int) DayTotals {
	return DayTotals{
		RegularMinutes:   w.RegularMinutes(dayStart, dayEnd),
		MorningOTMinutes: morningOT,
		EveningOTMinutes: w.EveningOvertime(dayEnd),
	}
}

// OpenCard is a job card scheduled for the day being closed.
type OpenCard struct {
	TicketNumber string
	Status       Status
}

// CheckDayClosable returns *OpenTicketsError listing the distinct ticket
// numbers of cards that are neither COMPLETED nor CANCEL.
func CheckDayClosable(cards []OpenCard) error {
	seen := make(map[string]bool)
	var numbers []string
	for _, c := range cards {
		if c.Status.IsTerminal() {
			continue
		}
		if !seen[c.TicketNumber] {
			seen[c.TicketNumber] = true
			numbers = append(numbers, c.TicketNumber)
		}
	}
	if len(numbers) > 0 {
		return &OpenTicketsError{TicketNumbers: numbers}
	}
	return nil
}
