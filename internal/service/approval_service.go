package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/dto"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/lifecycle"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/metrics"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/model"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/repository"
	"github.com/isira-aw/Metropolitan-NEW-EMS/pkg/clock"
	pkgerrors "github.com/isira-aw/Metropolitan-NEW-EMS/pkg/errors"
)

// Score sources for metrics.
const (
	scoreSourceApproval = "approval"
	scoreSourceManual   = "manual"
	scoreSourceBackfill = "backfill"
)

// ApprovalService is the administrator review of completed work and the
// scores it produces.
type ApprovalService interface {
	ListPending(ctx context.Context, req *dto.PaginationRequest) ([]dto.JobCardResponse, int64, error)
	// Approve marks a completed card approved and credits its score.
	Approve(ctx context.Context, jobCardID, adminID string) (*dto.JobCardResponse, error)
	// BulkApprove approves each id independently and returns how many succeeded.
	BulkApprove(ctx context.Context, ids []string, adminID string) (int, error)
	// Reject sends a completed card back to ON_HOLD and drops its score.
	Reject(ctx context.Context, jobCardID, adminID string) (*dto.JobCardResponse, error)
	AssignScore(ctx context.Context, jobCardID, adminID string) (*dto.ScoreResponse, error)
	UpdateScore(ctx context.Context, scoreID string, weight int, adminID string) (*dto.ScoreResponse, error)
	DeleteScore(ctx context.Context, scoreID, adminID string) error
	ListScores(ctx context.Context, req *dto.ScoreListRequest) ([]dto.ScoreResponse, int64, error)
	// BackfillScores credits every approved card that has no score yet.
	BackfillScores(ctx context.Context) (int, error)
	Stats(ctx context.Context) (*dto.ApprovalStats, error)
}

type approvalService struct {
	repo    *repository.Repository
	clock   clock.Clock
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewApprovalService creates an ApprovalService.
func NewApprovalService(repo *repository.Repository, clk clock.Clock, m *metrics.Metrics, logger *zap.Logger) ApprovalService {
	return &approvalService{repo: repo, clock: clk, metrics: m, logger: logger}
}

func (s *approvalService) ListPending(ctx context.Context, req *dto.PaginationRequest) ([]dto.JobCardResponse, int64, error) {
	cards, total, err := s.repo.JobCard.ListPendingApproval(ctx, repository.Page{Offset: req.GetOffset(), Limit: req.GetPageSize()})
	if err != nil {
		s.logger.Error("list pending approvals failed", zap.Error(err))
		return nil, 0, err
	}
	loc := s.clock.Location()
	out := make([]dto.JobCardResponse, 0, len(cards))
	for i := range cards {
		out = append(out, toJobCardResponse(&cards[i], loc))
	}
	return out, total, nil
}

// ── approve / reject ──

func (s *approvalService) Approve(ctx context.Context, jobCardID, adminID string) (*dto.JobCardResponse, error) {
	now := s.clock.Now()
	var card *model.JobCard
	already := false

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		c, err := tx.JobCard.GetForUpdate(ctx, jobCardID)
		if err != nil {
			return notFoundAs(err, ErrJobCardNotFound)
		}
		card = c
		if err := lifecycle.CheckApprovable(c.Status); err != nil {
			return err
		}
		if c.Approved {
			already = true
			return nil
		}

		c.Approved = true
		c.UpdatedBy = model.StringPtr(adminID)
		if err := tx.JobCard.Update(ctx, c); err != nil {
			return err
		}
		if _, _, err := recomputeTicket(ctx, tx, c.TicketID, adminID); err != nil {
			return err
		}
		return newActivity(model.ActivityJobApproved, adminID, now).
			worker(c.WorkerID).
			ticket(c.TicketID).
			jobCard(c.JobCardID).
			generator(c.Ticket.GeneratorID).
			save(ctx, tx)
	})
	if err != nil {
		return nil, err
	}

	if !already {
		s.metrics.Approval("approved")
		s.logger.Info("job card approved", zap.String("job_card_id", jobCardID), zap.String("admin_id", adminID))

		// the approval stands even when crediting fails; the backfill job
		// picks up whatever is missed here
		if _, err := s.scoreCard(ctx, jobCardID, adminID, scoreSourceApproval); err != nil && !errors.Is(err, lifecycle.ErrAlreadyScored) {
			s.logger.Warn("score after approval failed", zap.String("job_card_id", jobCardID), zap.Error(err))
		}
	}

	resp := toJobCardResponse(card, s.clock.Location())
	return &resp, nil
}

func (s *approvalService) BulkApprove(ctx context.Context, ids []string, adminID string) (int, error) {
	n := 0
	for _, id := range ids {
		if _, err := s.Approve(ctx, id, adminID); err != nil {
			s.logger.Warn("bulk approve skipped card", zap.String("job_card_id", id), zap.Error(err))
			continue
		}
		n++
	}
	return n, nil
}

func (s *approvalService) Reject(ctx context.Context, jobCardID, adminID string) (*dto.JobCardResponse, error) {
	now := s.clock.Now()
	var card *model.JobCard

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		c, err := tx.JobCard.GetForUpdate(ctx, jobCardID)
		if err != nil {
			return notFoundAs(err, ErrJobCardNotFound)
		}
		card = c
		if err := lifecycle.CheckApprovable(c.Status); err != nil {
			return err
		}
		if err := lifecycle.ValidateAdminTransition(c.Status, lifecycle.StatusOnHold); err != nil {
			return err
		}

		if err := tx.StatusEvent.Append(ctx, &model.StatusEvent{
			JobCardID:  c.JobCardID,
			ActorID:    adminID,
			PrevStatus: c.Status,
			NewStatus:  lifecycle.StatusOnHold,
			LoggedAt:   now,
		}); err != nil {
			return err
		}

		prev := c.Status
		c.Status = lifecycle.StatusOnHold
		c.Approved = false
		// a later completion records a fresh end time and a full replay
		c.EndTime = nil
		c.UpdatedBy = model.StringPtr(adminID)
		if err := tx.JobCard.Update(ctx, c); err != nil {
			return err
		}

		score, err := tx.Score.GetByJobCard(ctx, c.JobCardID)
		switch {
		case err == nil:
			if err := tx.Score.Delete(ctx, score.ScoreID); err != nil {
				return err
			}
			if err := newActivity(model.ActivityScoreDeleted, adminID, now).
				worker(c.WorkerID).
				jobCard(c.JobCardID).
				details(fmt.Sprintf("weight %d", score.Weight)).
				save(ctx, tx); err != nil {
				return err
			}
		case !isNotFound(err):
			return err
		}

		if _, _, err := recomputeTicket(ctx, tx, c.TicketID, adminID); err != nil {
			return err
		}
		return newActivity(model.ActivityJobRejected, adminID, now).
			worker(c.WorkerID).
			ticket(c.TicketID).
			jobCard(c.JobCardID).
			generator(c.Ticket.GeneratorID).
			status(prev, lifecycle.StatusOnHold).
			save(ctx, tx)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.Approval("rejected")
	s.logger.Info("job card rejected", zap.String("job_card_id", jobCardID), zap.String("admin_id", adminID))
	resp := toJobCardResponse(card, s.clock.Location())
	return &resp, nil
}

// ── scores ──

// scoreCard writes the score for one card in its own transaction.
func (s *approvalService) scoreCard(ctx context.Context, jobCardID, approverID, source string) (*model.Score, error) {
	var score *model.Score
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		c, err := tx.JobCard.GetForUpdate(ctx, jobCardID)
		if err != nil {
			return notFoundAs(err, ErrJobCardNotFound)
		}
		score, err = createScore(ctx, tx, c, approverID, s.clock.Now(), s.clock.Location())
		return err
	})
	if err != nil {
		return nil, err
	}
	s.metrics.ScoreCreated(source)
	return score, nil
}

// createScore credits a locked card with its ticket's weight. WorkDate is
// the business-zone date the work ended.
func createScore(ctx context.Context, tx *repository.Repository, c *model.JobCard, approverID string, now time.Time, loc *time.Location) (*model.Score, error) {
	exists, err := tx.Score.ExistsForJobCard(ctx, c.JobCardID)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.CheckScorable(lifecycle.ScoreCandidate{
		Status:   c.Status,
		Approved: c.Approved,
		HasScore: exists,
		EndTime:  c.EndTime,
	}); err != nil {
		return nil, err
	}

	score := &model.Score{
		JobCardID:  c.JobCardID,
		WorkerID:   c.WorkerID,
		WorkDate:   clock.DateOf(c.EndTime.In(loc)),
		Weight:     c.Ticket.Weight,
		ApprovedBy: approverID,
		ApprovedAt: now,
		BaseModel:  model.BaseModel{CreatedBy: model.StringPtr(approverID)},
	}
	if err := tx.Score.Create(ctx, score); err != nil {
		if pkgerrors.IsDuplicate(err) {
			return nil, lifecycle.ErrAlreadyScored
		}
		return nil, err
	}
	err = newActivity(model.ActivityScoreAssigned, approverID, now).
		worker(c.WorkerID).
		ticket(c.TicketID).
		jobCard(c.JobCardID).
		details(fmt.Sprintf("weight %d", score.Weight)).
		save(ctx, tx)
	return score, err
}

func (s *approvalService) AssignScore(ctx context.Context, jobCardID, adminID string) (*dto.ScoreResponse, error) {
	score, err := s.scoreCard(ctx, jobCardID, adminID, scoreSourceManual)
	if err != nil {
		return nil, err
	}
	resp := toScoreResponse(score, s.clock.Location())
	return &resp, nil
}

func (s *approvalService) UpdateScore(ctx context.Context, scoreID string, weight int, adminID string) (*dto.ScoreResponse, error) {
	if err := lifecycle.ValidateWeight(weight); err != nil {
		return nil, err
	}
	score, err := s.repo.Score.GetByID(ctx, scoreID)
	if err != nil {
		return nil, notFoundAs(err, ErrScoreNotFound)
	}

	now := s.clock.Now()
	old := score.Weight
	score.Weight = weight
	score.ApprovedBy = adminID
	score.ApprovedAt = now
	score.UpdatedBy = model.StringPtr(adminID)
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Score.Update(ctx, score); err != nil {
			return err
		}
		return newActivity(model.ActivityScoreUpdated, adminID, now).
			worker(score.WorkerID).
			jobCard(score.JobCardID).
			details(fmt.Sprintf("weight %d -> %d", old, weight)).
			save(ctx, tx)
	})
	if err != nil {
		s.logger.Error("update score failed", zap.String("score_id", scoreID), zap.Error(err))
		return nil, err
	}
	resp := toScoreResponse(score, s.clock.Location())
	return &resp, nil
}

func (s *approvalService) DeleteScore(ctx context.Context, scoreID, adminID string) error {
	score, err := s.repo.Score.GetByID(ctx, scoreID)
	if err != nil {
		return notFoundAs(err, ErrScoreNotFound)
	}
	now := s.clock.Now()
	return s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Score.Delete(ctx, scoreID); err != nil {
			return err
		}
		return newActivity(model.ActivityScoreDeleted, adminID, now).
			worker(score.WorkerID).
			jobCard(score.JobCardID).
			details(fmt.Sprintf("weight %d", score.Weight)).
			save(ctx, tx)
	})
}

func (s *approvalService) ListScores(ctx context.Context, req *dto.ScoreListRequest) ([]dto.ScoreResponse, int64, error) {
	from, to, err := parseRange(req.From, req.To)
	if err != nil {
		return nil, 0, err
	}
	f := repository.ScoreFilter{WorkerID: req.WorkerID, TicketID: req.TicketID, From: from, To: to}
	scores, total, err := s.repo.Score.List(ctx, f, repository.Page{Offset: req.GetOffset(), Limit: req.GetPageSize()})
	if err != nil {
		return nil, 0, err
	}
	loc := s.clock.Location()
	out := make([]dto.ScoreResponse, 0, len(scores))
	for i := range scores {
		out = append(out, toScoreResponse(&scores[i], loc))
	}
	return out, total, nil
}

func (s *approvalService) BackfillScores(ctx context.Context) (int, error) {
	cards, err := s.repo.JobCard.ListApprovedUnscored(ctx)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, c := range cards {
		// the approving administrator is the last writer of an approved card
		approver := deref(c.UpdatedBy)
		if approver == "" {
			s.logger.Warn("backfill skipped card without approver", zap.String("job_card_id", c.JobCardID))
			continue
		}
		if _, err := s.scoreCard(ctx, c.JobCardID, approver, scoreSourceBackfill); err != nil {
			if !errors.Is(err, lifecycle.ErrAlreadyScored) {
				s.logger.Warn("backfill score failed", zap.String("job_card_id", c.JobCardID), zap.Error(err))
			}
			continue
		}
		created++
	}

	if created > 0 {
		s.logger.Info("scores backfilled", zap.Int("created", created), zap.Int("candidates", len(cards)))
	}
	return created, nil
}

func (s *approvalService) Stats(ctx context.Context) (*dto.ApprovalStats, error) {
	yes, no := true, false
	stats := &dto.ApprovalStats{}
	counts := []struct {
		dst *int64
		f   repository.JobCardFilter
	}{
		{&stats.PendingApproval, repository.JobCardFilter{Status: lifecycle.StatusCompleted, Approved: &no}},
		{&stats.Approved, repository.JobCardFilter{Status: lifecycle.StatusCompleted, Approved: &yes}},
		{&stats.Rejected, repository.JobCardFilter{Status: lifecycle.StatusOnHold}},
		{&stats.TotalCompleted, repository.JobCardFilter{Status: lifecycle.StatusCompleted}},
	}
	for _, c := range counts {
		n, err := s.repo.JobCard.Count(ctx, c.f)
		if err != nil {
			return nil, err
		}
		*c.dst = n
	}
	return stats, nil
}
