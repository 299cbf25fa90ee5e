package lifecycle

import (
	"sort"
	"time"
)

// Event is the part of a status-log row that time accounting looks at.
// Seq breaks ties between events logged in the same instant.
type Event struct {
	Seq       int64
	NewStatus Status
	At        time.Time
}

// SortEvents orders events chronologically, by insertion order on ties.
func SortEvents(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].At.Equal(events[j].At) {
			return events[i].At.Before(events[j].At)
		}
		return events[i].Seq < events[j].Seq
	})
}

// Tracker accumulates work minutes one event at a time, the way a live
// job card does while the worker moves it through its states.
type Tracker struct {
	openedAt *time.Time
	minutes  int
}

// Observe folds one event into the running total. A STARTED event opens an
// interval unless one is already open; ON_HOLD or COMPLETED closes it.
func (t *Tracker) Observe(e Event) {
	switch e.NewStatus {
	case StatusStarted:
		if t.openedAt == nil {
			at := e.At
			t.openedAt = &at
		}
	case StatusOnHold, StatusCompleted:
		if t.openedAt != nil {
			t.minutes += wholeMinutes(e.At.Sub(*t.openedAt))
			t.openedAt = nil
		}
	}
}

// Minutes is the total of all closed intervals.
func (t *Tracker) Minutes() int { return t.minutes }

// Open reports whether a STARTED interval is still running.
func (t *Tracker) Open() bool { return t.openedAt != nil }

// WorkMinutes replays a job card's full log from scratch. The input is not
// modified.
func WorkMinutes(events []Event) int {
	sorted := make([]Event, len(events))
	copy(sorted, events)
	SortEvents(sorted)

	var t Tracker
	for _, e := range sorted {
		t.Observe(e)
	}
	return t.Minutes()
}

// TimeBreakdown splits elapsed time by what the worker was doing.
type TimeBreakdown struct {
	WorkMinutes   int
	IdleMinutes   int
	TravelMinutes int
}

// Add sums two breakdowns.
func (b TimeBreakdown) Add(o TimeBreakdown) TimeBreakdown {
	return TimeBreakdown{
		WorkMinutes:   b.WorkMinutes + o.WorkMinutes,
		IdleMinutes:   b.IdleMinutes + o.IdleMinutes,
		TravelMinutes: b.TravelMinutes + o.TravelMinutes,
	}
}

// Total is work + idle + travel.
func (b TimeBreakdown) Total() int {
	return b.WorkMinutes + b.IdleMinutes + b.TravelMinutes
}

// Breakdown attributes the gap between each pair of consecutive events to
// the state the earlier event entered: STARTED counts as work, ON_HOLD as
// idle, TRAVELING as travel. The state after the last event is open-ended
// and contributes nothing.
func Breakdown(events []Event) TimeBreakdown {
	sorted := make([]Event, len(events))
	copy(sorted, events)
	SortEvents(sorted)

	var b TimeBreakdown
	for i := 0; i+1 < len(sorted); i++ {
		m := wholeMinutes(sorted[i+1].At.Sub(sorted[i].At))
		switch sorted[i].NewStatus {
		case StatusStarted:
			b.WorkMinutes += m
		case StatusOnHold:
			b.IdleMinutes += m
		case StatusTraveling:
			b.TravelMinutes += m
		}
	}
	return b
}

func wholeMinutes(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(d / time.Minute)
}
