package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/dto"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/lifecycle"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/model"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/notify"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/repository"
	"github.com/isira-aw/Metropolitan-NEW-EMS/pkg/clock"
	pkgerrors "github.com/isira-aw/Metropolitan-NEW-EMS/pkg/errors"
)

const maxWorkersPerTicket = 5

// TicketService manages tickets and their worker assignments.
type TicketService interface {
	Create(ctx context.Context, req *dto.CreateTicketRequest, callerID string) (*dto.TicketResponse, error)
	Get(ctx context.Context, id string) (*dto.TicketResponse, error)
	List(ctx context.Context, req *dto.TicketListRequest) ([]dto.TicketResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateTicketRequest, callerID string) (*dto.TicketResponse, error)
	AssignWorker(ctx context.Context, id, workerID, callerID string) (*dto.TicketResponse, error)
	UnassignWorker(ctx context.Context, id, workerID, callerID string) (*dto.TicketResponse, error)
	// Cancel closes every open job card and marks the ticket CANCEL.
	Cancel(ctx context.Context, id, callerID string) (*dto.TicketResponse, error)
	// Delete removes a ticket none of whose cards has any history.
	Delete(ctx context.Context, id, callerID string) error
	// Notify sends a custom message to the generator's owner.
	Notify(ctx context.Context, id string, req *dto.NotifyRequest) error
}

type ticketService struct {
	repo     *repository.Repository
	clock    clock.Clock
	notifier notify.Notifier
	logger   *zap.Logger
}

// NewTicketService creates a TicketService.
func NewTicketService(repo *repository.Repository, clk clock.Clock, notifier notify.Notifier, logger *zap.Logger) TicketService {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &ticketService{repo: repo, clock: clk, notifier: notifier, logger: logger}
}

func newTicketNumber() string {
	return "TKT-" + strings.ToUpper(uuid.NewString()[:8])
}

// checkWorkers makes sure every id is a distinct active employee.
func (s *ticketService) checkWorkers(ctx context.Context, repo *repository.Repository, ids []string) error {
	if len(ids) == 0 {
		return ErrTicketNeedsWorker
	}
	if len(ids) > maxWorkersPerTicket {
		return ErrTooManyWorkers
	}
	users, err := repo.User.ListByIDs(ctx, ids)
	if err != nil {
		return err
	}
	byID := make(map[string]*model.User, len(users))
	for i := range users {
		byID[users[i].UserID] = &users[i]
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return fmt.Errorf("%w: %s listed twice", ErrWorkerAssigned, id)
		}
		seen[id] = true
		u, ok := byID[id]
		if !ok || !u.IsEmployee() || !u.IsActive {
			return fmt.Errorf("%w: %s", ErrInvalidWorker, id)
		}
	}
	return nil
}

// addWorker creates the assignment and the PENDING job card.
func addWorker(ctx context.Context, tx *repository.Repository, t *model.Ticket, workerID, callerID string, now time.Time) error {
	if err := tx.Assignment.Create(ctx, &model.TicketAssignment{
		TicketID:   t.TicketID,
		WorkerID:   workerID,
		AssignedBy: model.StringPtr(callerID),
		AssignedAt: now,
	}); err != nil {
		return err
	}
	card := &model.JobCard{
		TicketID:  t.TicketID,
		WorkerID:  workerID,
		Status:    lifecycle.StatusPending,
		BaseModel: model.BaseModel{CreatedBy: model.StringPtr(callerID)},
	}
	if err := tx.JobCard.Create(ctx, card); err != nil {
		return err
	}
	return newActivity(model.ActivityJobAssigned, callerID, now).
		worker(workerID).
		ticket(t.TicketID).
		jobCard(card.JobCardID).
		generator(t.GeneratorID).
		details(t.TicketNumber).
		save(ctx, tx)
}

// removeWorker deletes a worker's untouched card and assignment.
func removeWorker(ctx context.Context, tx *repository.Repository, t *model.Ticket, card *model.JobCard, callerID string, now time.Time) error {
	if err := checkUntouched(ctx, tx, card); err != nil {
		return err
	}
	if err := tx.JobCard.Delete(ctx, card.JobCardID); err != nil {
		return err
	}
	if err := tx.Assignment.Delete(ctx, t.TicketID, card.WorkerID); err != nil {
		return err
	}
	return newActivity(model.ActivityJobUnassigned, callerID, now).
		worker(card.WorkerID).
		ticket(t.TicketID).
		generator(t.GeneratorID).
		details(t.TicketNumber).
		save(ctx, tx)
}

// checkUntouched allows removal only of a card the worker never moved.
func checkUntouched(ctx context.Context, tx *repository.Repository, card *model.JobCard) error {
	if card.Status != lifecycle.StatusPending && card.Status != lifecycle.StatusCancel {
		return ErrWorkerHasProgress
	}
	n, err := tx.StatusEvent.CountByJobCard(ctx, card.JobCardID)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrWorkerHasProgress
	}
	return nil
}

// lockCards takes row locks on every card of the ticket. Administrator
// writes lock cards before the ticket, the same order the engine uses.
func lockCards(ctx context.Context, tx *repository.Repository, ticketID string) ([]*model.JobCard, error) {
	cards, err := tx.JobCard.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	out := make([]*model.JobCard, 0, len(cards))
	for _, c := range cards {
		locked, err := tx.JobCard.GetForUpdate(ctx, c.JobCardID)
		if err != nil {
			return nil, err
		}
		out = append(out, locked)
	}
	return out, nil
}

// ═══════════════════════════════════════════════════════════
// Create / Read
// ═══════════════════════════════════════════════════════════

func (s *ticketService) Create(ctx context.Context, req *dto.CreateTicketRequest, callerID string) (*dto.TicketResponse, error) {
	date, err := clock.ParseDate(req.ScheduledDate)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if err := lifecycle.ValidateWeight(req.Weight); err != nil {
		return nil, err
	}
	if _, err := s.repo.Generator.GetByID(ctx, req.GeneratorID); err != nil {
		return nil, notFoundAs(err, ErrGeneratorNotFound)
	}
	if err := s.checkWorkers(ctx, s.repo, req.WorkerIDs); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	t := &model.Ticket{
		TicketNumber:  newTicketNumber(),
		GeneratorID:   req.GeneratorID,
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		Weight:        req.Weight,
		Status:        lifecycle.StatusPending,
		ScheduledDate: date,
		ScheduledTime: req.ScheduledTime,
		VersionedModel: model.VersionedModel{
			BaseModel: model.BaseModel{CreatedBy: model.StringPtr(callerID)},
			Version:   1,
		},
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Ticket.Create(ctx, t); err != nil {
			return err
		}
		if err := newActivity(model.ActivityTicketCreated, callerID, now).
			ticket(t.TicketID).
			generator(t.GeneratorID).
			details(t.TicketNumber).
			save(ctx, tx); err != nil {
			return err
		}
		for _, w := range req.WorkerIDs {
			if err := addWorker(ctx, tx, t, w, callerID, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("create ticket failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("ticket created",
		zap.String("ticket_id", t.TicketID),
		zap.String("ticket_number", t.TicketNumber),
		zap.Int("workers", len(req.WorkerIDs)))
	return s.Get(ctx, t.TicketID)
}

func (s *ticketService) Get(ctx context.Context, id string) (*dto.TicketResponse, error) {
	t, err := s.repo.Ticket.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrTicketNotFound)
	}
	resp := toTicketResponse(t, s.clock.Location())
	return &resp, nil
}

func (s *ticketService) List(ctx context.Context, req *dto.TicketListRequest) ([]dto.TicketResponse, int64, error) {
	from, to, err := parseRange(req.From, req.To)
	if err != nil {
		return nil, 0, err
	}
	f := repository.TicketFilter{
		GeneratorID: req.GeneratorID,
		CreatedBy:   req.CreatedBy,
		WorkerID:    req.WorkerID,
		Search:      req.Search,
		From:        from,
		To:          to,
	}
	if req.Status != "" {
		st, err := lifecycle.ParseStatus(req.Status)
		if err != nil {
			return nil, 0, err
		}
		f.Status = st
	}

	tickets, total, err := s.repo.Ticket.List(ctx, f, repository.Page{Offset: req.GetOffset(), Limit: req.GetPageSize()})
	if err != nil {
		s.logger.Error("list tickets failed", zap.Error(err))
		return nil, 0, err
	}
	loc := s.clock.Location()
	out := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		out = append(out, toTicketResponse(&tickets[i], loc))
	}
	return out, total, nil
}

// ═══════════════════════════════════════════════════════════
// Update
// ═══════════════════════════════════════════════════════════

func (s *ticketService) Update(ctx context.Context, id string, req *dto.UpdateTicketRequest, callerID string) (*dto.TicketResponse, error) {
	now := s.clock.Now()

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		cards, err := lockCards(ctx, tx, id)
		if err != nil {
			return err
		}
		t, err := tx.Ticket.GetForUpdate(ctx, id)
		if err != nil {
			return notFoundAs(err, ErrTicketNotFound)
		}
		if t.Version != req.Version {
			return pkgerrors.ErrOptimisticLock
		}
		if t.Status == lifecycle.StatusCancel {
			return ErrTicketClosed
		}

		if req.GeneratorID != nil && *req.GeneratorID != t.GeneratorID {
			if _, err := tx.Generator.GetByID(ctx, *req.GeneratorID); err != nil {
				return notFoundAs(err, ErrGeneratorNotFound)
			}
			t.GeneratorID = *req.GeneratorID
		}
		if req.Title != nil {
			t.Title = *req.Title
		}
		if req.Description != nil {
			t.Description = *req.Description
		}
		if req.Category != nil {
			t.Category = *req.Category
		}
		if req.Weight != nil {
			if err := lifecycle.ValidateWeight(*req.Weight); err != nil {
				return err
			}
			t.Weight = *req.Weight
		}
		if req.ScheduledTime != nil {
			t.ScheduledTime = *req.ScheduledTime
		}
		if req.ScheduledDate != nil {
			date, err := clock.ParseDate(*req.ScheduledDate)
			if err != nil {
				return ErrInvalidDate
			}
			if !clock.SameDate(date, t.ScheduledDate) {
				// moving the date would strand logged events on the old day
				for _, c := range cards {
					if c.Status != lifecycle.StatusPending && c.Status != lifecycle.StatusCancel {
						return ErrTicketInProgress
					}
				}
				t.ScheduledDate = date
			}
		}

		t.UpdatedBy = model.StringPtr(callerID)
		if err := tx.Ticket.Update(ctx, t); err != nil {
			return err
		}

		if req.WorkerIDs != nil {
			if err := s.reassign(ctx, tx, t, cards, *req.WorkerIDs, callerID, now); err != nil {
				return err
			}
		}

		return newActivity(model.ActivityTicketUpdated, callerID, now).
			ticket(t.TicketID).
			generator(t.GeneratorID).
			details(t.TicketNumber).
			save(ctx, tx)
	})
	if err != nil {
		s.logger.Warn("update ticket failed", zap.String("ticket_id", id), zap.Error(err))
		return nil, err
	}
	return s.Get(ctx, id)
}

// reassign turns the current card set into want, adding and removing
// workers as needed.
func (s *ticketService) reassign(ctx context.Context, tx *repository.Repository, t *model.Ticket, cards []*model.JobCard, want []string, callerID string, now time.Time) error {
	if err := s.checkWorkers(ctx, tx, want); err != nil {
		return err
	}
	wanted := make(map[string]bool, len(want))
	for _, w := range want {
		wanted[w] = true
	}
	have := make(map[string]bool, len(cards))
	for _, c := range cards {
		have[c.WorkerID] = true
		if !wanted[c.WorkerID] {
			if err := removeWorker(ctx, tx, t, c, callerID, now); err != nil {
				return err
			}
		}
	}
	for _, w := range want {
		if !have[w] {
			if err := addWorker(ctx, tx, t, w, callerID, now); err != nil {
				return err
			}
		}
	}
	_, _, err := recomputeTicket(ctx, tx, t.TicketID, callerID)
	return err
}

func (s *ticketService) AssignWorker(ctx context.Context, id, workerID, callerID string) (*dto.TicketResponse, error) {
	now := s.clock.Now()
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		cards, err := lockCards(ctx, tx, id)
		if err != nil {
			return err
		}
		t, err := tx.Ticket.GetForUpdate(ctx, id)
		if err != nil {
			return notFoundAs(err, ErrTicketNotFound)
		}
		if t.Status.IsTerminal() {
			return ErrTicketClosed
		}
		ids := []string{workerID}
		for _, c := range cards {
			if c.WorkerID == workerID {
				return ErrWorkerAssigned
			}
			ids = append(ids, c.WorkerID)
		}
		if err := s.checkWorkers(ctx, tx, ids); err != nil {
			return err
		}
		return addWorker(ctx, tx, t, workerID, callerID, now)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *ticketService) UnassignWorker(ctx context.Context, id, workerID, callerID string) (*dto.TicketResponse, error) {
	now := s.clock.Now()
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		cards, err := lockCards(ctx, tx, id)
		if err != nil {
			return err
		}
		t, err := tx.Ticket.GetForUpdate(ctx, id)
		if err != nil {
			return notFoundAs(err, ErrTicketNotFound)
		}
		var target *model.JobCard
		for _, c := range cards {
			if c.WorkerID == workerID {
				target = c
			}
		}
		if target == nil {
			return ErrWorkerNotAssigned
		}
		if len(cards) == 1 {
			return ErrTicketNeedsWorker
		}
		if err := removeWorker(ctx, tx, t, target, callerID, now); err != nil {
			return err
		}
		_, _, err = recomputeTicket(ctx, tx, t.TicketID, callerID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// ═══════════════════════════════════════════════════════════
// Cancel / Delete
// ═══════════════════════════════════════════════════════════

func (s *ticketService) Cancel(ctx context.Context, id, callerID string) (*dto.TicketResponse, error) {
	now := s.clock.Now()
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		cards, err := lockCards(ctx, tx, id)
		if err != nil {
			return err
		}
		t, err := tx.Ticket.GetForUpdate(ctx, id)
		if err != nil {
			return notFoundAs(err, ErrTicketNotFound)
		}
		if t.Status.IsTerminal() {
			return ErrTicketClosed
		}

		for _, c := range cards {
			if c.Status.IsTerminal() {
				continue
			}
			if err := tx.StatusEvent.Append(ctx, &model.StatusEvent{
				JobCardID:  c.JobCardID,
				ActorID:    callerID,
				PrevStatus: c.Status,
				NewStatus:  lifecycle.StatusCancel,
				LoggedAt:   now,
			}); err != nil {
				return err
			}
			prev := c.Status
			c.Status = lifecycle.StatusCancel
			c.UpdatedBy = model.StringPtr(callerID)
			if err := tx.JobCard.Update(ctx, c); err != nil {
				return err
			}
			if err := newActivity(model.ActivityStatusUpdate, callerID, now).
				worker(c.WorkerID).
				ticket(t.TicketID).
				jobCard(c.JobCardID).
				generator(t.GeneratorID).
				status(prev, lifecycle.StatusCancel).
				save(ctx, tx); err != nil {
				return err
			}
		}

		if err := tx.Ticket.SetStatus(ctx, t.TicketID, lifecycle.StatusCancel, callerID); err != nil {
			return err
		}
		return newActivity(model.ActivityTicketCancelled, callerID, now).
			ticket(t.TicketID).
			generator(t.GeneratorID).
			status(t.Status, lifecycle.StatusCancel).
			details(t.TicketNumber).
			save(ctx, tx)
	})
	if err != nil {
		s.logger.Warn("cancel ticket failed", zap.String("ticket_id", id), zap.Error(err))
		return nil, err
	}
	s.logger.Info("ticket cancelled", zap.String("ticket_id", id), zap.String("by", callerID))
	return s.Get(ctx, id)
}

func (s *ticketService) Delete(ctx context.Context, id, callerID string) error {
	now := s.clock.Now()
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		cards, err := lockCards(ctx, tx, id)
		if err != nil {
			return err
		}
		t, err := tx.Ticket.GetForUpdate(ctx, id)
		if err != nil {
			return notFoundAs(err, ErrTicketNotFound)
		}
		for _, c := range cards {
			if err := checkUntouched(ctx, tx, c); err != nil {
				return ErrTicketInProgress
			}
		}
		for _, c := range cards {
			if err := tx.JobCard.Delete(ctx, c.JobCardID); err != nil {
				return err
			}
		}
		if err := tx.Ticket.Delete(ctx, id); err != nil {
			return err
		}
		return newActivity(model.ActivityTicketDeleted, callerID, now).
			generator(t.GeneratorID).
			details(t.TicketNumber).
			save(ctx, tx)
	})
	if err != nil {
		s.logger.Warn("delete ticket failed", zap.String("ticket_id", id), zap.Error(err))
		return err
	}
	return nil
}

// ═══════════════════════════════════════════════════════════
// Notify
// ═══════════════════════════════════════════════════════════

func (s *ticketService) Notify(ctx context.Context, id string, req *dto.NotifyRequest) error {
	t, err := s.repo.Ticket.GetByID(ctx, id)
	if err != nil {
		return notFoundAs(err, ErrTicketNotFound)
	}
	channels := notify.AllChannels
	if len(req.Channels) > 0 {
		channels = make([]notify.Channel, 0, len(req.Channels))
		for _, c := range req.Channels {
			channels = append(channels, notify.Channel(c))
		}
	}

	n := noticeFor(t)
	n.Message = req.Message
	reachable := false
	for _, c := range channels {
		if (c == notify.ChannelEmail && n.OwnerEmail != "") || (c == notify.ChannelWhatsApp && n.WhatsAppNumber != "") {
			reachable = true
		}
	}
	if !reachable {
		return ErrNotificationMissing
	}
	s.notifier.Custom(ctx, n, channels)
	return nil
}
