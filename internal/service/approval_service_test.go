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

// setupTestApprovalService seeds ticket t1 (weight 3) whose only card,
// worked by w1, completed at 10:25.
func setupTestApprovalService() (ApprovalService, *memDB, *clock.Fixed) {
	repo, db := newMockRepository()
	clk := newTestClock(18, 0)
	seedEmployee(db, "w1")
	seedAdmin(db, "admin")
	seedGenerator(db, "g1")
	seedTicket(db, "t1", "g1", testDay, 3, "w1")
	seedCompleted(db, "t1", "w1", at(9, 0), at(10, 25))
	return NewApprovalService(repo, clk, nil, zap.NewNop()), db, clk
}

func scoreFor(db *memDB, jobCardID string) *model.Score {
	for _, s := range db.scores {
		if s.JobCardID == jobCardID {
			s := s
			return &s
		}
	}
	return nil
}

func TestApprove_CreditsTicketWeight(t *testing.T) {
	svc, db, _ := setupTestApprovalService()
	card := cardID("t1", "w1")

	resp, err := svc.Approve(context.Background(), card, "admin")
	if err != nil {
		t.Fatalf("Approve should succeed: %v", err)
	}
	if !resp.Approved || !db.cards[card].Approved {
		t.Error("card should be approved")
	}

	score := scoreFor(db, card)
	if score == nil {
		t.Fatal("approval should create a score")
	}
	if score.Weight != 3 {
		t.Errorf("score should equal the ticket weight 3, got %d", score.Weight)
	}
	if clock.FormatDate(score.WorkDate) != "2026-03-10" {
		t.Errorf("score date should be the completion date, got %s", clock.FormatDate(score.WorkDate))
	}
	if score.ApprovedBy != "admin" {
		t.Errorf("approver should be recorded, got %s", score.ApprovedBy)
	}
}

func TestApprove_Idempotent(t *testing.T) {
	svc, db, _ := setupTestApprovalService()
	card := cardID("t1", "w1")

	if _, err := svc.Approve(context.Background(), card, "admin"); err != nil {
		t.Fatalf("first Approve should succeed: %v", err)
	}
	if _, err := svc.Approve(context.Background(), card, "admin"); err != nil {
		t.Fatalf("second Approve should be a no-op: %v", err)
	}
	if len(db.scores) != 1 {
		t.Errorf("expected exactly one score, got %d", len(db.scores))
	}
}

func TestApprove_NotCompleted(t *testing.T) {
	svc, db, _ := setupTestApprovalService()
	seedTicket(db, "t2", "g1", testDay, 2, "w1")
	c := db.cards[cardID("t2", "w1")]
	c.Status = lifecycle.StatusStarted
	db.cards[c.JobCardID] = c

	_, err := svc.Approve(context.Background(), c.JobCardID, "admin")
	if !errors.Is(err, lifecycle.ErrNotCompleted) {
		t.Errorf("expected ErrNotCompleted, got: %v", err)
	}
	if db.cards[c.JobCardID].Approved {
		t.Error("card must stay unapproved")
	}
}

func TestAssignScore_Twice(t *testing.T) {
	svc, db, _ := setupTestApprovalService()
	card := cardID("t1", "w1")
	c := db.cards[card]
	c.Approved = true
	db.cards[card] = c

	if _, err := svc.AssignScore(context.Background(), card, "admin"); err != nil {
		t.Fatalf("first AssignScore should succeed: %v", err)
	}
	_, err := svc.AssignScore(context.Background(), card, "admin")
	if !errors.Is(err, lifecycle.ErrAlreadyScored) {
		t.Errorf("expected ErrAlreadyScored, got: %v", err)
	}
}

func TestAssignScore_NotApproved(t *testing.T) {
	svc, _, _ := setupTestApprovalService()

	_, err := svc.AssignScore(context.Background(), cardID("t1", "w1"), "admin")
	if !errors.Is(err, lifecycle.ErrNotApproved) {
		t.Errorf("expected ErrNotApproved, got: %v", err)
	}
}

func TestReject_ReturnsCardToOnHold(t *testing.T) {
	svc, db, _ := setupTestApprovalService()
	card := cardID("t1", "w1")
	if _, err := svc.Approve(context.Background(), card, "admin"); err != nil {
		t.Fatalf("Approve should succeed: %v", err)
	}

	resp, err := svc.Reject(context.Background(), card, "admin")
	if err != nil {
		t.Fatalf("Reject should succeed: %v", err)
	}
	if resp.Status != string(lifecycle.StatusOnHold) || resp.Approved {
		t.Errorf("expected ON_HOLD and unapproved, got %s approved=%v", resp.Status, resp.Approved)
	}
	stored := db.cards[card]
	if stored.EndTime != nil {
		t.Error("end time should be cleared on rejection")
	}
	if scoreFor(db, card) != nil {
		t.Error("score should be removed on rejection")
	}
	last := db.events[len(db.events)-1]
	if last.PrevStatus != lifecycle.StatusCompleted || last.NewStatus != lifecycle.StatusOnHold || last.ActorID != "admin" {
		t.Errorf("rejection should be logged as COMPLETED->ON_HOLD by the admin, got %+v", last)
	}
	if got := db.tickets["t1"].Status; got != lifecycle.StatusStarted {
		t.Errorf("ticket should reopen as STARTED, got %s", got)
	}
}

func TestReject_NotCompleted(t *testing.T) {
	svc, db, _ := setupTestApprovalService()
	seedTicket(db, "t2", "g1", testDay, 2, "w1")

	_, err := svc.Reject(context.Background(), cardID("t2", "w1"), "admin")
	if !errors.Is(err, lifecycle.ErrNotCompleted) {
		t.Errorf("expected ErrNotCompleted, got: %v", err)
	}
}

func TestBulkApprove_SkipsFailures(t *testing.T) {
	svc, db, _ := setupTestApprovalService()
	seedTicket(db, "t2", "g1", testDay, 2, "w1")

	n, err := svc.BulkApprove(context.Background(), []string{cardID("t1", "w1"), cardID("t2", "w1"), "missing"}, "admin")
	if err != nil {
		t.Fatalf("BulkApprove should not fail as a whole: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 approval, got %d", n)
	}
}

func TestBackfillScores(t *testing.T) {
	svc, db, _ := setupTestApprovalService()
	seedEmployee(db, "w2")
	seedTicket(db, "t2", "g1", testDay, 5, "w2")
	seedCompleted(db, "t2", "w2", at(11, 0), at(12, 0))

	for _, id := range []string{cardID("t1", "w1"), cardID("t2", "w2")} {
		c := db.cards[id]
		c.Approved = true
		db.cards[id] = c
	}
	// only t1's card knows who approved it
	c := db.cards[cardID("t1", "w1")]
	c.UpdatedBy = model.StringPtr("admin")
	db.cards[c.JobCardID] = c

	created, err := svc.BackfillScores(context.Background())
	if err != nil {
		t.Fatalf("BackfillScores should succeed: %v", err)
	}
	if created != 1 {
		t.Errorf("expected 1 backfilled score, got %d", created)
	}
	if s := scoreFor(db, cardID("t1", "w1")); s == nil || s.ApprovedBy != "admin" {
		t.Errorf("t1 should be credited by admin, got %+v", s)
	}

	again, _ := svc.BackfillScores(context.Background())
	if again != 0 {
		t.Errorf("second run should find nothing, got %d", again)
	}
}

func TestUpdateScore(t *testing.T) {
	svc, db, clk := setupTestApprovalService()
	card := cardID("t1", "w1")
	if _, err := svc.Approve(context.Background(), card, "admin"); err != nil {
		t.Fatalf("Approve should succeed: %v", err)
	}
	score := scoreFor(db, card)

	if _, err := svc.UpdateScore(context.Background(), score.ScoreID, 9, "admin"); !errors.Is(err, lifecycle.ErrInvalidWeight) {
		t.Errorf("expected ErrInvalidWeight, got: %v", err)
	}

	seedAdmin(db, "admin2")
	clk.Advance(time.Hour)
	resp, err := svc.UpdateScore(context.Background(), score.ScoreID, 5, "admin2")
	if err != nil {
		t.Fatalf("UpdateScore should succeed: %v", err)
	}
	if resp.Weight != 5 || resp.ApprovedBy != "admin2" {
		t.Errorf("expected weight 5 by admin2, got %+v", resp)
	}

	if err := svc.DeleteScore(context.Background(), score.ScoreID, "admin"); err != nil {
		t.Fatalf("DeleteScore should succeed: %v", err)
	}
	if err := svc.DeleteScore(context.Background(), score.ScoreID, "admin"); !errors.Is(err, ErrScoreNotFound) {
		t.Errorf("expected ErrScoreNotFound, got: %v", err)
	}
}

func TestApprovalStats(t *testing.T) {
	svc, db, _ := setupTestApprovalService()
	seedTicket(db, "t2", "g1", testDay, 2, "w1")
	seedCompleted(db, "t2", "w1", at(11, 0), at(11, 30))
	seedTicket(db, "t3", "g1", testDay, 2, "w1")
	c := db.cards[cardID("t3", "w1")]
	c.Status = lifecycle.StatusOnHold
	db.cards[c.JobCardID] = c

	if _, err := svc.Approve(context.Background(), cardID("t1", "w1"), "admin"); err != nil {
		t.Fatalf("Approve should succeed: %v", err)
	}

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats should succeed: %v", err)
	}
	want := dto.ApprovalStats{PendingApproval: 1, Approved: 1, Rejected: 1, TotalCompleted: 2}
	if *stats != want {
		t.Errorf("expected %+v, got %+v", want, *stats)
	}

	pending, total, err := svc.ListPending(context.Background(), &dto.PaginationRequest{})
	if err != nil {
		t.Fatalf("ListPending should succeed: %v", err)
	}
	if total != 1 || len(pending) != 1 || pending[0].ID != cardID("t2", "w1") {
		t.Errorf("only t2's card awaits approval, got %+v", pending)
	}
}
