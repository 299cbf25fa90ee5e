package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/dto"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/lifecycle"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/metrics"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/model"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/notify"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/repository"
	"github.com/isira-aw/Metropolitan-NEW-EMS/pkg/clock"
	"github.com/isira-aw/Metropolitan-NEW-EMS/pkg/storage"
)

const imageURLExpiry = 15 * time.Minute

// JobCardService is the status transition engine plus job-card reads.
type JobCardService interface {
	// UpdateStatus applies a worker-requested transition.
	UpdateStatus(ctx context.Context, jobCardID string, req *dto.UpdateStatusRequest, actorID string) (*dto.JobCardResponse, error)
	ListMine(ctx context.Context, workerID string, req *dto.MyJobCardsRequest) ([]dto.JobCardResponse, int64, error)
	GetMine(ctx context.Context, workerID, jobCardID string) (*dto.JobCardResponse, error)
	Get(ctx context.Context, jobCardID string) (*dto.JobCardResponse, error)
	ListByTicket(ctx context.Context, ticketID string) ([]dto.JobCardResponse, error)
	ListEvents(ctx context.Context, jobCardID, callerID, callerRole string) ([]dto.StatusEventResponse, error)
	AttachImage(ctx context.Context, jobCardID, callerID, callerRole string, r io.Reader, size int64, contentType string) (*dto.JobCardResponse, error)
	// RebuildWorkMinutes replays the log of every completed card and, when
	// repair is set, overwrites cached minutes that disagree.
	RebuildWorkMinutes(ctx context.Context, repair bool) (*dto.RebuildResult, error)
}

type jobCardService struct {
	repo            *repository.Repository
	clock           clock.Clock
	requireLocation bool
	notifier        notify.Notifier
	images          storage.ImageStore
	metrics         *metrics.Metrics
	logger          *zap.Logger
}

// NewJobCardService creates a JobCardService. images may be nil when object
// storage is disabled.
func NewJobCardService(
	repo *repository.Repository,
	clk clock.Clock,
	requireLocation bool,
	notifier notify.Notifier,
	images storage.ImageStore,
	m *metrics.Metrics,
	logger *zap.Logger,
) JobCardService {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &jobCardService{
		repo:            repo,
		clock:           clk,
		requireLocation: requireLocation,
		notifier:        notifier,
		images:          images,
		metrics:         m,
		logger:          logger,
	}
}

// ═══════════════════════════════════════════════════════════
// UpdateStatus
// ═══════════════════════════════════════════════════════════
//
// Lock order: actor's user row, job card, ticket. Taking the user row first
// serializes every transition of one worker, which is what makes the
// single-active-job check race free.

func (s *jobCardService) UpdateStatus(ctx context.Context, jobCardID string, req *dto.UpdateStatusRequest, actorID string) (*dto.JobCardResponse, error) {
	requested, err := lifecycle.ParseStatus(req.Status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", lifecycle.ErrInvalidTransition, err)
	}

	now := s.clock.Now()
	today := clock.DateOf(now)

	var (
		card      *model.JobCard
		prev      lifecycle.Status
		ticketNow lifecycle.Status
		ticketWas lifecycle.Status
	)
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := tx.User.LockByID(ctx, actorID); err != nil {
			return notFoundAs(err, ErrUserNotFound)
		}

		c, err := tx.JobCard.GetForUpdate(ctx, jobCardID)
		if err != nil {
			return notFoundAs(err, ErrJobCardNotFound)
		}
		card = c

		check := lifecycle.TransitionCheck{
			ActorID:         actorID,
			OwnerID:         card.WorkerID,
			Current:         card.Status,
			Requested:       requested,
			ScheduledDate:   card.Ticket.ScheduledDate,
			Today:           today,
			Latitude:        req.Latitude,
			Longitude:       req.Longitude,
			RequireLocation: s.requireLocation,
		}

		day, err := tx.Attendance.GetByWorkerAndDate(ctx, actorID, today)
		switch {
		case err == nil:
			check.DayStarted = true
			check.DayEnded = day.Ended()
		case !isNotFound(err):
			return err
		}

		siblings, err := tx.JobCard.ListForWorkerOnDate(ctx, actorID, clock.DateOf(card.Ticket.ScheduledDate))
		if err != nil {
			return err
		}
		for _, sib := range siblings {
			if sib.JobCardID != card.JobCardID {
				check.Siblings = append(check.Siblings, sib.Status)
			}
		}

		loc, err := lifecycle.CheckTransition(check)
		if err != nil {
			return err
		}

		prev = card.Status
		event := &model.StatusEvent{
			JobCardID:  card.JobCardID,
			ActorID:    actorID,
			PrevStatus: prev,
			NewStatus:  requested,
			LoggedAt:   now,
		}
		if loc != nil {
			event.Latitude, event.Longitude = &loc.Latitude, &loc.Longitude
		}
		if err := tx.StatusEvent.Append(ctx, event); err != nil {
			return err
		}

		card.Status = requested
		if requested == lifecycle.StatusStarted && card.StartTime == nil {
			card.StartTime = &now
		}
		if requested == lifecycle.StatusCompleted && card.EndTime == nil {
			card.EndTime = &now
			events, err := tx.StatusEvent.ListByJobCard(ctx, card.JobCardID)
			if err != nil {
				return err
			}
			card.WorkMinutes = lifecycle.WorkMinutes(model.LifecycleEvents(events))
		}
		card.UpdatedBy = model.StringPtr(actorID)
		if err := tx.JobCard.Update(ctx, card); err != nil {
			return err
		}

		ticketWas, ticketNow, err = recomputeTicket(ctx, tx, card.TicketID, actorID)
		if err != nil {
			return err
		}

		return newActivity(model.ActivityStatusUpdate, actorID, now).
			worker(actorID).
			ticket(card.TicketID).
			jobCard(card.JobCardID).
			generator(card.Ticket.GeneratorID).
			status(prev, requested).
			at(loc).
			save(ctx, tx)
	})
	if err != nil {
		if reason := rejectionReason(err); reason != "" {
			s.metrics.TransitionRejected(reason)
		} else {
			s.logger.Error("status update failed", zap.String("job_card_id", jobCardID), zap.Error(err))
		}
		return nil, err
	}

	s.metrics.Transition(prev.String(), requested.String())
	s.logger.Info("job card status changed",
		zap.String("job_card_id", card.JobCardID),
		zap.String("worker_id", actorID),
		zap.String("from", prev.String()),
		zap.String("to", requested.String()))

	if ticketNow == lifecycle.StatusCompleted && ticketWas != lifecycle.StatusCompleted {
		s.notifier.TicketCompleted(ctx, noticeFor(card.Ticket))
	}

	card.Ticket.Status = ticketNow
	resp := toJobCardResponse(card, s.clock.Location())
	return &resp, nil
}

// recomputeTicket runs the aggregator over the ticket's cards under a ticket
// row lock and persists a changed status.
func recomputeTicket(ctx context.Context, tx *repository.Repository, ticketID, actorID string) (before, after lifecycle.Status, err error) {
	ticket, err := tx.Ticket.GetForUpdate(ctx, ticketID)
	if err != nil {
		return "", "", notFoundAs(err, ErrTicketNotFound)
	}
	cards, err := tx.JobCard.ListByTicket(ctx, ticketID)
	if err != nil {
		return "", "", err
	}
	statuses := make([]lifecycle.Status, 0, len(cards))
	for _, c := range cards {
		statuses = append(statuses, c.Status)
	}

	next := lifecycle.TicketStatus(ticket.Status, statuses)
	if next != ticket.Status {
		if err := tx.Ticket.SetStatus(ctx, ticketID, next, actorID); err != nil {
			return "", "", err
		}
	}
	return ticket.Status, next, nil
}

func noticeFor(t *model.Ticket) notify.Notice {
	n := notify.Notice{TicketNumber: t.TicketNumber, Title: t.Title}
	if g := t.Generator; g != nil {
		n.GeneratorName = g.Name
		n.OwnerEmail = g.OwnerEmail
		n.WhatsAppNumber = g.WhatsAppNumber
	}
	return n
}

// rejectionReason labels expected refusals for metrics; "" means the error
// is not a validation failure.
func rejectionReason(err error) string {
	reasons := []struct {
		err    error
		reason string
	}{
		{lifecycle.ErrUnauthorized, "unauthorized"},
		{lifecycle.ErrDateRestricted, "date_restricted"},
		{lifecycle.ErrDayNotStarted, "day_not_started"},
		{lifecycle.ErrDayAlreadyEnded, "day_already_ended"},
		{lifecycle.ErrInvalidTransition, "invalid_transition"},
		{lifecycle.ErrConcurrentActiveJob, "concurrent_active_job"},
		{lifecycle.ErrInvalidLocation, "invalid_location"},
		{ErrJobCardNotFound, "not_found"},
		{ErrUserNotFound, "not_found"},
	}
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.reason
		}
	}
	return ""
}

// ═══════════════════════════════════════════════════════════
// Reads
// ═══════════════════════════════════════════════════════════

func (s *jobCardService) ListMine(ctx context.Context, workerID string, req *dto.MyJobCardsRequest) ([]dto.JobCardResponse, int64, error) {
	date := clock.Today(s.clock)
	if req.Date != "" {
		d, err := clock.ParseDate(req.Date)
		if err != nil {
			return nil, 0, ErrInvalidDate
		}
		date = d
	}
	f := repository.JobCardFilter{WorkerID: workerID, Date: &date}
	if req.Status != "" {
		st, err := lifecycle.ParseStatus(req.Status)
		if err != nil {
			return nil, 0, err
		}
		f.Status = st
	}

	cards, total, err := s.repo.JobCard.List(ctx, f, repository.Page{Offset: req.GetOffset(), Limit: req.GetPageSize()})
	if err != nil {
		s.logger.Error("list job cards failed", zap.Error(err))
		return nil, 0, err
	}
	loc := s.clock.Location()
	out := make([]dto.JobCardResponse, 0, len(cards))
	for i := range cards {
		out = append(out, toJobCardResponse(&cards[i], loc))
	}
	return out, total, nil
}

func (s *jobCardService) GetMine(ctx context.Context, workerID, jobCardID string) (*dto.JobCardResponse, error) {
	card, err := s.repo.JobCard.GetByID(ctx, jobCardID)
	if err != nil {
		return nil, notFoundAs(err, ErrJobCardNotFound)
	}
	if card.WorkerID != workerID {
		return nil, lifecycle.ErrUnauthorized
	}
	return s.withImageURL(ctx, card), nil
}

func (s *jobCardService) Get(ctx context.Context, jobCardID string) (*dto.JobCardResponse, error) {
	card, err := s.repo.JobCard.GetByID(ctx, jobCardID)
	if err != nil {
		return nil, notFoundAs(err, ErrJobCardNotFound)
	}
	return s.withImageURL(ctx, card), nil
}

func (s *jobCardService) withImageURL(ctx context.Context, card *model.JobCard) *dto.JobCardResponse {
	resp := toJobCardResponse(card, s.clock.Location())
	if s.images != nil && card.ImageRef != nil {
		url, err := s.images.ImageURL(ctx, *card.ImageRef, imageURLExpiry)
		if err != nil {
			s.logger.Warn("presign image failed", zap.String("job_card_id", card.JobCardID), zap.Error(err))
		} else {
			resp.ImageURL = url
		}
	}
	return &resp
}

func (s *jobCardService) ListByTicket(ctx context.Context, ticketID string) ([]dto.JobCardResponse, error) {
	if _, err := s.repo.Ticket.GetByID(ctx, ticketID); err != nil {
		return nil, notFoundAs(err, ErrTicketNotFound)
	}
	cards, err := s.repo.JobCard.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	loc := s.clock.Location()
	out := make([]dto.JobCardResponse, 0, len(cards))
	for i := range cards {
		out = append(out, toJobCardResponse(&cards[i], loc))
	}
	return out, nil
}

func (s *jobCardService) ListEvents(ctx context.Context, jobCardID, callerID, callerRole string) ([]dto.StatusEventResponse, error) {
	card, err := s.repo.JobCard.GetByID(ctx, jobCardID)
	if err != nil {
		return nil, notFoundAs(err, ErrJobCardNotFound)
	}
	if callerRole != model.RoleAdmin && card.WorkerID != callerID {
		return nil, lifecycle.ErrUnauthorized
	}

	events, err := s.repo.StatusEvent.ListByJobCard(ctx, jobCardID)
	if err != nil {
		return nil, err
	}
	loc := s.clock.Location()
	out := make([]dto.StatusEventResponse, 0, len(events))
	for i := range events {
		out = append(out, toEventResponse(&events[i], loc))
	}
	return out, nil
}

// ═══════════════════════════════════════════════════════════
// AttachImage
// ═══════════════════════════════════════════════════════════
//
// The upload happens before any row is touched; only the returned object key
// is written to the card.

func (s *jobCardService) AttachImage(ctx context.Context, jobCardID, callerID, callerRole string, r io.Reader, size int64, contentType string) (*dto.JobCardResponse, error) {
	if s.images == nil {
		return nil, ErrStorageUnavailable
	}
	card, err := s.repo.JobCard.GetByID(ctx, jobCardID)
	if err != nil {
		return nil, notFoundAs(err, ErrJobCardNotFound)
	}
	if callerRole != model.RoleAdmin && card.WorkerID != callerID {
		return nil, lifecycle.ErrUnauthorized
	}

	ref, err := s.images.PutImage(ctx, jobCardID, r, size, contentType)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedType) || errors.Is(err, storage.ErrTooLarge) {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
		}
		s.logger.Error("store image failed", zap.String("job_card_id", jobCardID), zap.Error(err))
		return nil, err
	}

	now := s.clock.Now()
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.JobCard.SetImage(ctx, jobCardID, ref, callerID); err != nil {
			return err
		}
		return newActivity(model.ActivityImageAttached, callerID, now).
			worker(card.WorkerID).
			ticket(card.TicketID).
			jobCard(jobCardID).
			details(ref).
			save(ctx, tx)
	})
	if err != nil {
		s.logger.Error("record image failed", zap.String("job_card_id", jobCardID), zap.Error(err))
		return nil, err
	}

	card.ImageRef = &ref
	return s.withImageURL(ctx, card), nil
}

// ═══════════════════════════════════════════════════════════
// RebuildWorkMinutes
// ═══════════════════════════════════════════════════════════

func (s *jobCardService) RebuildWorkMinutes(ctx context.Context, repair bool) (*dto.RebuildResult, error) {
	cards, err := s.repo.JobCard.ListByStatus(ctx, lifecycle.StatusCompleted)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(cards))
	for _, c := range cards {
		ids = append(ids, c.JobCardID)
	}
	logs, err := s.repo.StatusEvent.ListByJobCards(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := &dto.RebuildResult{Checked: len(cards)}
	for _, c := range cards {
		replayed := lifecycle.WorkMinutes(model.LifecycleEvents(logs[c.JobCardID]))
		if replayed == c.WorkMinutes {
			continue
		}
		result.Drifts = append(result.Drifts, dto.WorkMinuteDrift{JobCardID: c.JobCardID, Cached: c.WorkMinutes, Replayed: replayed})
		if !repair {
			continue
		}
		if err := s.repo.JobCard.SetWorkMinutes(ctx, c.JobCardID, replayed); err != nil {
			s.logger.Warn("repair work minutes failed", zap.String("job_card_id", c.JobCardID), zap.Error(err))
			continue
		}
		result.Repaired++
	}

	if len(result.Drifts) > 0 {
		s.logger.Warn("work minute drift detected",
			zap.Int("checked", result.Checked),
			zap.Int("drifted", len(result.Drifts)),
			zap.Int("repaired", result.Repaired))
	}
	return result, nil
}
