package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/dto"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/lifecycle"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/model"
	"github.com/isira-aw/Metropolitan-NEW-EMS/pkg/clock"
	"github.com/isira-aw/Metropolitan-NEW-EMS/pkg/storage"
)

type jobCardEnv struct {
	svc      JobCardService
	db       *memDB
	clock    *clock.Fixed
	notifier *recordingNotifier
}

// setupTestJobCardService seeds worker w1 with one ticket t1 on testDay and
// a started day at 08:10.
func setupTestJobCardService() *jobCardEnv {
	repo, db := newMockRepository()
	clk := newTestClock(8, 10)
	n := &recordingNotifier{}

	seedEmployee(db, "w1")
	seedGenerator(db, "g1")
	seedTicket(db, "t1", "g1", testDay, 3, "w1")
	seedDay(db, "w1", at(8, 10))

	return &jobCardEnv{
		svc:      NewJobCardService(repo, clk, false, n, nil, nil, zap.NewNop()),
		db:       db,
		clock:    clk,
		notifier: n,
	}
}

func (e *jobCardEnv) move(t *testing.T, card, actor string, status lifecycle.Status, hh, mm int) *dto.JobCardResponse {
	t.Helper()
	e.clock.Set(at(hh, mm))
	resp, err := e.svc.UpdateStatus(context.Background(), card, &dto.UpdateStatusRequest{Status: status.String()}, actor)
	if err != nil {
		t.Fatalf("%s at %02d:%02d should succeed: %v", status, hh, mm, err)
	}
	return resp
}

func (e *jobCardEnv) tryMove(card, actor string, status lifecycle.Status) error {
	_, err := e.svc.UpdateStatus(context.Background(), card, &dto.UpdateStatusRequest{Status: status.String()}, actor)
	return err
}

// ── lifecycle ──

func TestUpdateStatus_WorkedExample(t *testing.T) {
	e := setupTestJobCardService()
	card := cardID("t1", "w1")

	e.move(t, card, "w1", lifecycle.StatusTraveling, 8, 40)
	e.move(t, card, "w1", lifecycle.StatusStarted, 9, 0)
	e.move(t, card, "w1", lifecycle.StatusOnHold, 9, 40)
	e.move(t, card, "w1", lifecycle.StatusStarted, 10, 0)
	resp := e.move(t, card, "w1", lifecycle.StatusCompleted, 10, 25)

	if resp.WorkMinutes != 65 {
		t.Errorf("expected 65 work minutes, got %d", resp.WorkMinutes)
	}
	stored := e.db.cards[card]
	if stored.StartTime == nil || !stored.StartTime.Equal(at(9, 0)) {
		t.Errorf("start time should be the first STARTED, got %v", stored.StartTime)
	}
	if stored.EndTime == nil || !stored.EndTime.Equal(at(10, 25)) {
		t.Errorf("end time should be the COMPLETED instant, got %v", stored.EndTime)
	}
	if got := len(e.db.events); got != 5 {
		t.Errorf("expected 5 logged events, got %d", got)
	}
	if e.db.tickets["t1"].Status != lifecycle.StatusCompleted {
		t.Errorf("single-card ticket should be COMPLETED, got %s", e.db.tickets["t1"].Status)
	}
	if len(e.notifier.completed) != 1 || e.notifier.completed[0].TicketNumber != "TKT-t1" {
		t.Errorf("owner should be notified once, got %+v", e.notifier.completed)
	}
	if n := strings.Count(strings.Join(e.db.activityTypes(), ","), model.ActivityStatusUpdate); n != 5 {
		t.Errorf("expected 5 STATUS_UPDATE activities, got %d", n)
	}
}

func TestUpdateStatus_InvalidTransition(t *testing.T) {
	e := setupTestJobCardService()
	card := cardID("t1", "w1")
	e.move(t, card, "w1", lifecycle.StatusTraveling, 8, 40)

	err := e.tryMove(card, "w1", lifecycle.StatusPending)
	if !errors.Is(err, lifecycle.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got: %v", err)
	}
	if len(e.db.events) != 1 {
		t.Errorf("a rejected transition must not be logged, got %d events", len(e.db.events))
	}
}

func TestUpdateStatus_UnknownStatus(t *testing.T) {
	e := setupTestJobCardService()

	err := e.tryMove(cardID("t1", "w1"), "w1", lifecycle.Status("PAUSED"))
	if !errors.Is(err, lifecycle.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got: %v", err)
	}
}

func TestUpdateStatus_NotOwner(t *testing.T) {
	e := setupTestJobCardService()
	seedEmployee(e.db, "w2")
	seedDay(e.db, "w2", at(8, 0))

	err := e.tryMove(cardID("t1", "w1"), "w2", lifecycle.StatusTraveling)
	if !errors.Is(err, lifecycle.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got: %v", err)
	}
}

func TestUpdateStatus_SingleActiveJob(t *testing.T) {
	e := setupTestJobCardService()
	seedTicket(e.db, "t2", "g1", testDay, 2, "w1")

	e.move(t, cardID("t1", "w1"), "w1", lifecycle.StatusTraveling, 8, 50)

	if err := e.tryMove(cardID("t2", "w1"), "w1", lifecycle.StatusTraveling); !errors.Is(err, lifecycle.ErrConcurrentActiveJob) {
		t.Errorf("travelling to a second job: expected ErrConcurrentActiveJob, got: %v", err)
	}
	e.move(t, cardID("t1", "w1"), "w1", lifecycle.StatusStarted, 9, 0)
	if err := e.tryMove(cardID("t2", "w1"), "w1", lifecycle.StatusTraveling); !errors.Is(err, lifecycle.ErrConcurrentActiveJob) {
		t.Errorf("second job while one is started: expected ErrConcurrentActiveJob, got: %v", err)
	}

	// cancelling is not an active status and stays allowed
	if err := e.tryMove(cardID("t2", "w1"), "w1", lifecycle.StatusCancel); err != nil {
		t.Errorf("cancel should be allowed while another job is active: %v", err)
	}

	// once the first job is parked the second may start
	e.move(t, cardID("t1", "w1"), "w1", lifecycle.StatusCompleted, 9, 30)
	seedTicket(e.db, "t3", "g1", testDay, 1, "w1")
	e.move(t, cardID("t3", "w1"), "w1", lifecycle.StatusTraveling, 9, 35)
}

func TestUpdateStatus_OnHoldCountsAsActive(t *testing.T) {
	e := setupTestJobCardService()
	seedTicket(e.db, "t2", "g1", testDay, 2, "w1")

	e.move(t, cardID("t1", "w1"), "w1", lifecycle.StatusTraveling, 8, 50)
	e.move(t, cardID("t1", "w1"), "w1", lifecycle.StatusStarted, 9, 0)
	e.move(t, cardID("t1", "w1"), "w1", lifecycle.StatusOnHold, 9, 20)

	if err := e.tryMove(cardID("t2", "w1"), "w1", lifecycle.StatusTraveling); !errors.Is(err, lifecycle.ErrConcurrentActiveJob) {
		t.Errorf("expected ErrConcurrentActiveJob, got: %v", err)
	}
}

func TestUpdateStatus_DateRestricted(t *testing.T) {
	e := setupTestJobCardService()
	seedTicket(e.db, "t-tomorrow", "g1", testDay.AddDate(0, 0, 1), 2, "w1")

	err := e.tryMove(cardID("t-tomorrow", "w1"), "w1", lifecycle.StatusTraveling)
	if !errors.Is(err, lifecycle.ErrDateRestricted) {
		t.Errorf("expected ErrDateRestricted, got: %v", err)
	}
}

func TestUpdateStatus_DayNotStarted(t *testing.T) {
	e := setupTestJobCardService()
	delete(e.db.days, dayKey("w1", testDay))

	err := e.tryMove(cardID("t1", "w1"), "w1", lifecycle.StatusTraveling)
	if !errors.Is(err, lifecycle.ErrDayNotStarted) {
		t.Errorf("expected ErrDayNotStarted, got: %v", err)
	}
}

func TestUpdateStatus_DayAlreadyEnded(t *testing.T) {
	e := setupTestJobCardService()
	d := e.db.days[dayKey("w1", testDay)]
	end := at(17, 0)
	d.DayEnd = &end
	e.db.days[dayKey("w1", testDay)] = d

	err := e.tryMove(cardID("t1", "w1"), "w1", lifecycle.StatusTraveling)
	if !errors.Is(err, lifecycle.ErrDayAlreadyEnded) {
		t.Errorf("expected ErrDayAlreadyEnded, got: %v", err)
	}
}

func TestUpdateStatus_RequiresLocation(t *testing.T) {
	repo, db := newMockRepository()
	seedEmployee(db, "w1")
	seedGenerator(db, "g1")
	seedTicket(db, "t1", "g1", testDay, 3, "w1")
	seedDay(db, "w1", at(8, 10))
	svc := NewJobCardService(repo, newTestClock(9, 0), true, nil, nil, nil, zap.NewNop())

	_, err := svc.UpdateStatus(context.Background(), cardID("t1", "w1"), &dto.UpdateStatusRequest{Status: "TRAVELING"}, "w1")
	if !errors.Is(err, lifecycle.ErrInvalidLocation) {
		t.Errorf("expected ErrInvalidLocation, got: %v", err)
	}

	_, err = svc.UpdateStatus(context.Background(), cardID("t1", "w1"), &dto.UpdateStatusRequest{
		Status:    "TRAVELING",
		Latitude:  floatPtr(6.9271),
		Longitude: floatPtr(79.8612),
	}, "w1")
	if err != nil {
		t.Fatalf("transition with a fix should succeed: %v", err)
	}
	if e := db.events[0]; e.Latitude == nil || *e.Latitude != 6.9271 {
		t.Errorf("location should be logged with the event, got %+v", e)
	}
}

// ── ticket aggregation ──

func TestUpdateStatus_TicketAggregation(t *testing.T) {
	e := setupTestJobCardService()
	seedEmployee(e.db, "w2")
	seedDay(e.db, "w2", at(8, 0))
	seedTicket(e.db, "t2", "g1", testDay, 4, "w1", "w2")

	e.move(t, cardID("t2", "w1"), "w1", lifecycle.StatusTraveling, 8, 50)
	if got := e.db.tickets["t2"].Status; got != lifecycle.StatusStarted {
		t.Fatalf("travelling counts as work in progress, got %s", got)
	}
	e.move(t, cardID("t2", "w1"), "w1", lifecycle.StatusStarted, 9, 0)
	if got := e.db.tickets["t2"].Status; got != lifecycle.StatusStarted {
		t.Fatalf("ticket should be STARTED while a card is active, got %s", got)
	}

	e.move(t, cardID("t2", "w1"), "w1", lifecycle.StatusCompleted, 10, 0)
	if got := e.db.tickets["t2"].Status; got == lifecycle.StatusCompleted {
		t.Fatal("ticket must not complete while w2's card is open")
	}
	if len(e.notifier.completed) != 0 {
		t.Error("no notification before every card is closed")
	}

	e.move(t, cardID("t2", "w2"), "w2", lifecycle.StatusCancel, 10, 5)
	if got := e.db.tickets["t2"].Status; got != lifecycle.StatusCompleted {
		t.Errorf("ticket should complete once all cards are closed, got %s", got)
	}
	if len(e.notifier.completed) != 1 {
		t.Errorf("expected one completion notice, got %d", len(e.notifier.completed))
	}
}

// ── reads ──

func TestGetMine_OtherWorkerRefused(t *testing.T) {
	e := setupTestJobCardService()

	if _, err := e.svc.GetMine(context.Background(), "w2", cardID("t1", "w1")); !errors.Is(err, lifecycle.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got: %v", err)
	}
	if _, err := e.svc.GetMine(context.Background(), "w1", "missing"); !errors.Is(err, ErrJobCardNotFound) {
		t.Errorf("expected ErrJobCardNotFound, got: %v", err)
	}
	resp, err := e.svc.GetMine(context.Background(), "w1", cardID("t1", "w1"))
	if err != nil {
		t.Fatalf("owner should see the card: %v", err)
	}
	if resp.TicketNumber != "TKT-t1" {
		t.Errorf("expected ticket number TKT-t1, got %s", resp.TicketNumber)
	}
}

func TestListEvents_Ownership(t *testing.T) {
	e := setupTestJobCardService()
	card := cardID("t1", "w1")
	e.clock.Set(at(9, 0))
	if _, err := e.svc.UpdateStatus(context.Background(), card, &dto.UpdateStatusRequest{
		Status: "TRAVELING", Latitude: floatPtr(6.9), Longitude: floatPtr(79.8),
	}, "w1"); err != nil {
		t.Fatalf("transition should succeed: %v", err)
	}

	events, err := e.svc.ListEvents(context.Background(), card, "w1", model.RoleEmployee)
	if err != nil {
		t.Fatalf("owner should read the log: %v", err)
	}
	if len(events) != 1 || events[0].MapsURL == "" {
		t.Errorf("expected one event with a maps link, got %+v", events)
	}

	if _, err := e.svc.ListEvents(context.Background(), card, "w2", model.RoleEmployee); !errors.Is(err, lifecycle.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized for another worker, got: %v", err)
	}
	if _, err := e.svc.ListEvents(context.Background(), card, "admin", model.RoleAdmin); err != nil {
		t.Errorf("admin should read any log: %v", err)
	}
}

// ── images ──

type fakeImageStore struct {
	puts int
	err  error
}

func (f *fakeImageStore) PutImage(_ context.Context, jobCardID string, r io.Reader, _ int64, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	f.puts++
	return "jobcards/" + jobCardID + "/photo.jpg", nil
}

func (f *fakeImageStore) ImageURL(_ context.Context, ref string, _ time.Duration) (string, error) {
	return "https://minio.local/" + ref + "?sig=1", nil
}

func TestAttachImage(t *testing.T) {
	repo, db := newMockRepository()
	seedEmployee(db, "w1")
	seedGenerator(db, "g1")
	seedTicket(db, "t1", "g1", testDay, 3, "w1")
	store := &fakeImageStore{}
	svc := NewJobCardService(repo, newTestClock(9, 0), false, nil, store, nil, zap.NewNop())
	card := cardID("t1", "w1")

	resp, err := svc.AttachImage(context.Background(), card, "w1", model.RoleEmployee, strings.NewReader("jpeg"), 4, "image/jpeg")
	if err != nil {
		t.Fatalf("attach should succeed: %v", err)
	}
	if resp.ImageURL == "" || resp.ImageRef == "" {
		t.Errorf("response should carry the ref and a presigned url, got %+v", resp)
	}
	if db.cards[card].ImageRef == nil {
		t.Error("image ref should be persisted")
	}

	if _, err := svc.AttachImage(context.Background(), card, "w2", model.RoleEmployee, strings.NewReader("x"), 1, "image/jpeg"); !errors.Is(err, lifecycle.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got: %v", err)
	}

	store.err = storage.ErrUnsupportedType
	if _, err := svc.AttachImage(context.Background(), card, "w1", model.RoleEmployee, strings.NewReader("x"), 1, "text/plain"); !errors.Is(err, ErrUnsupportedImage) {
		t.Errorf("expected ErrUnsupportedImage, got: %v", err)
	}
}

func TestAttachImage_StorageDisabled(t *testing.T) {
	e := setupTestJobCardService()

	_, err := e.svc.AttachImage(context.Background(), cardID("t1", "w1"), "w1", model.RoleEmployee, strings.NewReader("x"), 1, "image/jpeg")
	if !errors.Is(err, ErrStorageUnavailable) {
		t.Errorf("expected ErrStorageUnavailable, got: %v", err)
	}
}

// ── maintenance ──

func TestRebuildWorkMinutes(t *testing.T) {
	e := setupTestJobCardService()
	seedCompleted(e.db, "t1", "w1", at(9, 0), at(10, 0))
	c := e.db.cards[cardID("t1", "w1")]
	c.WorkMinutes = 12
	e.db.cards[c.JobCardID] = c

	res, err := e.svc.RebuildWorkMinutes(context.Background(), false)
	if err != nil {
		t.Fatalf("dry run should succeed: %v", err)
	}
	if res.Checked != 1 || len(res.Drifts) != 1 || res.Drifts[0].Replayed != 60 {
		t.Fatalf("expected one drift replayed to 60, got %+v", res)
	}
	if e.db.cards[c.JobCardID].WorkMinutes != 12 {
		t.Error("dry run must not write")
	}

	res, err = e.svc.RebuildWorkMinutes(context.Background(), true)
	if err != nil {
		t.Fatalf("repair should succeed: %v", err)
	}
	if res.Repaired != 1 || e.db.cards[c.JobCardID].WorkMinutes != 60 {
		t.Errorf("cached minutes should be repaired to 60, got %+v / %d", res, e.db.cards[c.JobCardID].WorkMinutes)
	}
}
