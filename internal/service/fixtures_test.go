package service

import (
	"context"
	"sync"
	"time"

	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/lifecycle"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/model"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/notify"
	"github.com/isira-aw/Metropolitan-NEW-EMS/pkg/clock"
)

var colombo = mustZone("Asia/Colombo")

func mustZone(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// testDay is the business date most tests run on.
var testDay = clock.DateOf(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC))

// at returns hh:mm on testDay in the business zone.
func at(hh, mm int) time.Time {
	return time.Date(2026, 3, 10, hh, mm, 0, 0, colombo)
}

func newTestClock(hh, mm int) *clock.Fixed {
	return clock.NewFixed(at(hh, mm))
}

// ── seeding ──

func seedEmployee(db *memDB, id string) {
	db.users[id] = model.User{
		UserID:   id,
		Username: id,
		FullName: "Worker " + id,
		Role:     model.RoleEmployee,
		IsActive: true,
	}
}

func seedAdmin(db *memDB, id string) {
	db.users[id] = model.User{
		UserID:   id,
		Username: id,
		FullName: "Admin " + id,
		Role:     model.RoleAdmin,
		IsActive: true,
	}
}

func seedGenerator(db *memDB, id string) {
	db.generators[id] = model.Generator{
		GeneratorID:    id,
		Name:           "Genset " + id,
		Model:          "CAT-500",
		OwnerEmail:     "owner@example.com",
		WhatsAppNumber: "+94770000000",
	}
}

// seedTicket stores a PENDING ticket scheduled on date with one PENDING
// card per worker. Card ids are "<ticketID>/<workerID>".
func seedTicket(db *memDB, ticketID, generatorID string, date time.Time, weight int, workers ...string) {
	db.tickets[ticketID] = model.Ticket{
		TicketID:       ticketID,
		TicketNumber:   "TKT-" + ticketID,
		GeneratorID:    generatorID,
		Title:          "Service " + ticketID,
		Category:       model.CategoryService,
		Weight:         weight,
		Status:         lifecycle.StatusPending,
		ScheduledDate:  date,
		VersionedModel: model.VersionedModel{Version: 1},
	}
	for _, w := range workers {
		id := cardID(ticketID, w)
		db.cards[id] = model.JobCard{JobCardID: id, TicketID: ticketID, WorkerID: w, Status: lifecycle.StatusPending}
		db.cardOrder = append(db.cardOrder, id)
		db.assigns = append(db.assigns, model.TicketAssignment{AssignmentID: "a-" + id, TicketID: ticketID, WorkerID: w})
	}
}

func cardID(ticketID, workerID string) string {
	return ticketID + "/" + workerID
}

// seedDay records a started attendance day for worker on testDay.
func seedDay(db *memDB, workerID string, start time.Time) {
	db.days[dayKey(workerID, testDay)] = model.AttendanceDay{
		AttendanceID: "day-" + workerID,
		WorkerID:     workerID,
		WorkDate:     testDay,
		DayStart:     start,
	}
}

// seedCompleted stores a COMPLETED card with a short event history ending
// at end.
func seedCompleted(db *memDB, ticketID, workerID string, start, end time.Time) {
	id := cardID(ticketID, workerID)
	c := db.cards[id]
	c.Status = lifecycle.StatusCompleted
	c.StartTime, c.EndTime = &start, &end
	c.WorkMinutes = int(end.Sub(start).Minutes())
	db.cards[id] = c
	db.events = append(db.events,
		model.StatusEvent{EventID: int64(len(db.events) + 1), JobCardID: id, ActorID: workerID, PrevStatus: lifecycle.StatusPending, NewStatus: lifecycle.StatusStarted, LoggedAt: start},
		model.StatusEvent{EventID: int64(len(db.events) + 2), JobCardID: id, ActorID: workerID, PrevStatus: lifecycle.StatusStarted, NewStatus: lifecycle.StatusCompleted, LoggedAt: end},
	)
}

// ── notifier ──

type recordingNotifier struct {
	mu        sync.Mutex
	completed []notify.Notice
	custom    []notify.Notice
	channels  [][]notify.Channel
}

func (r *recordingNotifier) TicketCompleted(_ context.Context, n notify.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed = append(r.completed, n)
}

func (r *recordingNotifier) Custom(_ context.Context, n notify.Notice, channels []notify.Channel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.custom = append(r.custom, n)
	r.channels = append(r.channels, channels)
}

func floatPtr(f float64) *float64 { return &f }
