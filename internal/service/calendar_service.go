package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/lifecycle"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/model"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/repository"
	"github.com/isira-aw/Metropolitan-NEW-EMS/pkg/clock"
)

const (
	calendarDaysBack  = 7
	calendarDaysAhead = 30
	// untimed jobs with no recorded times are shown as this long
	calendarDefaultSlot = time.Hour
)

// CalendarService publishes a worker's schedule as iCalendar.
type CalendarService interface {
	// WorkerFeed covers the jobs scheduled from a week ago to a month ahead.
	WorkerFeed(ctx context.Context, workerID string) (string, error)
}

type calendarService struct {
	repo   *repository.Repository
	clock  clock.Clock
	logger *zap.Logger
}

// NewCalendarService creates a CalendarService.
func NewCalendarService(repo *repository.Repository, clk clock.Clock, logger *zap.Logger) CalendarService {
	return &calendarService{repo: repo, clock: clk, logger: logger}
}

func (s *calendarService) WorkerFeed(ctx context.Context, workerID string) (string, error) {
	if _, err := s.repo.User.GetByID(ctx, workerID); err != nil {
		return "", notFoundAs(err, ErrWorkerNotFound)
	}

	today := clock.Today(s.clock)
	from := today.AddDate(0, 0, -calendarDaysBack)
	to := today.AddDate(0, 0, calendarDaysAhead)
	cards, _, err := s.repo.JobCard.List(ctx, repository.JobCardFilter{WorkerID: workerID, From: &from, To: &to}, repository.Page{})
	if err != nil {
		s.logger.Error("list job cards for calendar failed", zap.Error(err))
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//Metropolitan//EMS//EN")
	cal.SetXWRCalName("Metropolitan jobs")
	cal.SetXWRTimezone(s.clock.Location().String())

	now := s.clock.Now()
	for i := range cards {
		if cards[i].Ticket == nil {
			continue
		}
		s.addJob(cal, &cards[i], now)
	}
	return cal.Serialize(), nil
}

func (s *calendarService) addJob(cal *ics.Calendar, c *model.JobCard, stamp time.Time) {
	t := c.Ticket
	ev := cal.AddEvent(c.JobCardID + "@metropolitan-ems")
	ev.SetDtStampTime(stamp)
	ev.SetSummary(strings.TrimSpace(t.TicketNumber + " " + t.Title))

	var desc []string
	if g := t.Generator; g != nil {
		loc := g.LocationName
		if loc == "" {
			loc = g.Name
		}
		ev.SetLocation(loc)
		desc = append(desc, fmt.Sprintf("Generator: %s (%s)", g.Name, g.Model))
	}
	desc = append(desc, "Status: "+c.Status.String(), fmt.Sprintf("Weight: %d", t.Weight))
	if t.Description != "" {
		desc = append(desc, t.Description)
	}
	ev.SetDescription(strings.Join(desc, "\n"))

	if c.Status == lifecycle.StatusCancel {
		ev.SetStatus(ics.ObjectStatusCancelled)
	} else {
		ev.SetStatus(ics.ObjectStatusConfirmed)
	}

	start, end, timed := s.slot(c)
	if !timed {
		ev.SetAllDayStartAt(t.ScheduledDate)
		ev.SetAllDayEndAt(t.ScheduledDate.AddDate(0, 0, 1))
		return
	}
	ev.SetStartAt(start)
	ev.SetEndAt(end)
}

// slot prefers the recorded start and end; otherwise the scheduled time.
func (s *calendarService) slot(c *model.JobCard) (start, end time.Time, timed bool) {
	if c.StartTime != nil {
		start = *c.StartTime
		end = start.Add(calendarDefaultSlot)
		if c.EndTime != nil && c.EndTime.After(start) {
			end = *c.EndTime
		}
		return start, end, true
	}

	tod, err := clock.ParseTimeOfDay(c.Ticket.ScheduledTime)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	y, m, d := c.Ticket.ScheduledDate.Date()
	start = tod.On(time.Date(y, m, d, 0, 0, 0, 0, s.clock.Location()))
	return start, start.Add(calendarDefaultSlot), true
}
