package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/dto"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/lifecycle"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/model"
	"github.com/isira-aw/Metropolitan-NEW-EMS/pkg/clock"
)

func setupTestAttendanceService(hh, mm int) (AttendanceService, *memDB, *clock.Fixed) {
	repo, db := newMockRepository()
	clk := newTestClock(hh, mm)
	seedEmployee(db, "w1")
	seedGenerator(db, "g1")
	return NewAttendanceService(repo, clk, lifecycle.DefaultWindow, nil, zap.NewNop()), db, clk
}

func TestStartDay_MorningOvertime(t *testing.T) {
	svc, db, _ := setupTestAttendanceService(8, 10)

	resp, err := svc.StartDay(context.Background(), "w1", &dto.DayEventRequest{})
	if err != nil {
		t.Fatalf("StartDay should succeed: %v", err)
	}
	if resp.MorningOTMinutes != 20 {
		t.Errorf("expected 20 morning OT minutes, got %d", resp.MorningOTMinutes)
	}
	if resp.WorkDate != "2026-03-10" {
		t.Errorf("expected work date 2026-03-10, got %s", resp.WorkDate)
	}
	if types := db.activityTypes(); len(types) != 1 || types[0] != model.ActivityDayStart {
		t.Errorf("expected one DAY_START activity, got %v", types)
	}
}

func TestStartDay_AfterCutoffNoOvertime(t *testing.T) {
	svc, _, _ := setupTestAttendanceService(9, 15)

	resp, err := svc.StartDay(context.Background(), "w1", &dto.DayEventRequest{})
	if err != nil {
		t.Fatalf("StartDay should succeed: %v", err)
	}
	if resp.MorningOTMinutes != 0 {
		t.Errorf("late start earns no morning OT, got %d", resp.MorningOTMinutes)
	}
}

func TestStartDay_Twice(t *testing.T) {
	svc, _, clk := setupTestAttendanceService(8, 10)
	if _, err := svc.StartDay(context.Background(), "w1", &dto.DayEventRequest{}); err != nil {
		t.Fatalf("first StartDay should succeed: %v", err)
	}
	clk.Advance(30 * time.Minute)

	_, err := svc.StartDay(context.Background(), "w1", &dto.DayEventRequest{})
	if !errors.Is(err, lifecycle.ErrDayAlreadyStarted) {
		t.Errorf("expected ErrDayAlreadyStarted, got: %v", err)
	}
}

func TestStartDay_AdminRefused(t *testing.T) {
	svc, db, _ := setupTestAttendanceService(8, 10)
	seedAdmin(db, "admin")

	_, err := svc.StartDay(context.Background(), "admin", &dto.DayEventRequest{})
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden, got: %v", err)
	}
}

func TestStartDay_InvalidLocation(t *testing.T) {
	svc, _, _ := setupTestAttendanceService(8, 10)

	_, err := svc.StartDay(context.Background(), "w1", &dto.DayEventRequest{Latitude: floatPtr(123), Longitude: floatPtr(80)})
	if !errors.Is(err, lifecycle.ErrInvalidLocation) {
		t.Errorf("expected ErrInvalidLocation, got: %v", err)
	}
}

func TestEndDay_WorkedExample(t *testing.T) {
	svc, db, clk := setupTestAttendanceService(8, 10)
	if _, err := svc.StartDay(context.Background(), "w1", &dto.DayEventRequest{}); err != nil {
		t.Fatalf("StartDay should succeed: %v", err)
	}
	seedTicket(db, "t1", "g1", testDay, 3, "w1")
	seedCompleted(db, "t1", "w1", at(9, 0), at(10, 25))

	clk.Set(at(18, 0))
	resp, err := svc.EndDay(context.Background(), "w1", &dto.DayEventRequest{Latitude: floatPtr(6.9), Longitude: floatPtr(79.8)})
	if err != nil {
		t.Fatalf("EndDay should succeed: %v", err)
	}
	if resp.EveningOTMinutes != 30 {
		t.Errorf("expected 30 evening OT minutes, got %d", resp.EveningOTMinutes)
	}
	if resp.RegularMinutes != 540 {
		t.Errorf("expected 540 regular minutes, got %d", resp.RegularMinutes)
	}
	if resp.TotalOTMinutes != 50 {
		t.Errorf("expected 50 total OT minutes, got %d", resp.TotalOTMinutes)
	}
	if resp.DayEnd == nil {
		t.Error("day end should be set")
	}
	last := db.activity[len(db.activity)-1]
	if last.ActivityType != model.ActivityDayEnd || last.Latitude == nil {
		t.Errorf("DAY_END should be logged with its location, got %+v", last)
	}
}

func TestEndDay_ClosureGuard(t *testing.T) {
	svc, db, clk := setupTestAttendanceService(8, 10)
	if _, err := svc.StartDay(context.Background(), "w1", &dto.DayEventRequest{}); err != nil {
		t.Fatalf("StartDay should succeed: %v", err)
	}
	seedTicket(db, "t1", "g1", testDay, 3, "w1")
	seedTicket(db, "t2", "g1", testDay, 3, "w1")
	seedTicket(db, "t3", "g1", testDay, 3, "w1")
	seedCompleted(db, "t1", "w1", at(9, 0), at(10, 0))
	c := db.cards[cardID("t3", "w1")]
	c.Status = lifecycle.StatusCancel
	db.cards[c.JobCardID] = c

	clk.Set(at(17, 0))
	_, err := svc.EndDay(context.Background(), "w1", &dto.DayEventRequest{})
	if !errors.Is(err, lifecycle.ErrOpenTicketsRemain) {
		t.Fatalf("expected ErrOpenTicketsRemain, got: %v", err)
	}
	var open *lifecycle.OpenTicketsError
	if !errors.As(err, &open) || open.Detail() != "TKT-t2" {
		t.Errorf("only TKT-t2 should block, got %v", err)
	}
	if db.days[dayKey("w1", testDay)].DayEnd != nil {
		t.Error("a refused day end must not close the day")
	}
}

func TestEndDay_OtherDaysCardsIgnored(t *testing.T) {
	svc, db, clk := setupTestAttendanceService(8, 40)
	if _, err := svc.StartDay(context.Background(), "w1", &dto.DayEventRequest{}); err != nil {
		t.Fatalf("StartDay should succeed: %v", err)
	}
	seedTicket(db, "t-next", "g1", testDay.AddDate(0, 0, 1), 3, "w1")

	clk.Set(at(17, 0))
	resp, err := svc.EndDay(context.Background(), "w1", &dto.DayEventRequest{})
	if err != nil {
		t.Fatalf("tomorrow's job must not block today: %v", err)
	}
	if resp.RegularMinutes != 500 || resp.TotalOTMinutes != 0 {
		t.Errorf("expected 500 regular and no OT, got %+v", resp)
	}
}

func TestEndDay_NotStartedAndTwice(t *testing.T) {
	svc, _, clk := setupTestAttendanceService(8, 10)

	if _, err := svc.EndDay(context.Background(), "w1", &dto.DayEventRequest{}); !errors.Is(err, lifecycle.ErrDayNotStarted) {
		t.Errorf("expected ErrDayNotStarted, got: %v", err)
	}

	if _, err := svc.StartDay(context.Background(), "w1", &dto.DayEventRequest{}); err != nil {
		t.Fatalf("StartDay should succeed: %v", err)
	}
	clk.Set(at(17, 30))
	if _, err := svc.EndDay(context.Background(), "w1", &dto.DayEventRequest{}); err != nil {
		t.Fatalf("EndDay should succeed: %v", err)
	}
	if _, err := svc.EndDay(context.Background(), "w1", &dto.DayEventRequest{}); !errors.Is(err, lifecycle.ErrDayAlreadyEnded) {
		t.Errorf("expected ErrDayAlreadyEnded, got: %v", err)
	}
}

func TestToday(t *testing.T) {
	svc, db, _ := setupTestAttendanceService(8, 10)
	seedTicket(db, "t1", "g1", testDay, 3, "w1")
	seedTicket(db, "t2", "g1", testDay, 3, "w1")
	seedCompleted(db, "t2", "w1", at(9, 0), at(9, 30))

	resp, err := svc.Today(context.Background(), "w1")
	if err != nil {
		t.Fatalf("Today should succeed: %v", err)
	}
	if resp.Started || resp.Day != nil {
		t.Error("day has not been started yet")
	}
	if resp.OpenJobs != 1 {
		t.Errorf("expected 1 open job, got %d", resp.OpenJobs)
	}

	if _, err := svc.StartDay(context.Background(), "w1", &dto.DayEventRequest{}); err != nil {
		t.Fatalf("StartDay should succeed: %v", err)
	}
	resp, _ = svc.Today(context.Background(), "w1")
	if !resp.Started || resp.Ended {
		t.Errorf("expected started and not ended, got %+v", resp)
	}
}

func TestHistory_DefaultRangeAndValidation(t *testing.T) {
	svc, db, _ := setupTestAttendanceService(12, 0)
	for _, back := range []int{0, 5, 45} {
		d := testDay.AddDate(0, 0, -back)
		db.days[dayKey("w1", d)] = model.AttendanceDay{AttendanceID: "d", WorkerID: "w1", WorkDate: d, DayStart: at(8, 0).AddDate(0, 0, -back)}
	}

	days, err := svc.History(context.Background(), "w1", &dto.AttendanceHistoryRequest{})
	if err != nil {
		t.Fatalf("History should succeed: %v", err)
	}
	if len(days) != 2 {
		t.Errorf("default window covers the last 30 days, got %d rows", len(days))
	}

	_, err = svc.History(context.Background(), "w1", &dto.AttendanceHistoryRequest{From: "2026-03-10", To: "2026-03-01"})
	if !errors.Is(err, ErrInvalidDateRange) {
		t.Errorf("expected ErrInvalidDateRange, got: %v", err)
	}
}
