package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/dto"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/lifecycle"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/model"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/repository"
	"github.com/isira-aw/Metropolitan-NEW-EMS/pkg/clock"
)

// ActivityService reads the audit trail.
type ActivityService interface {
	List(ctx context.Context, req *dto.ActivityListRequest) ([]dto.ActivityResponse, int64, error)
}

type activityService struct {
	repo   *repository.Repository
	clock  clock.Clock
	logger *zap.Logger
}

// NewActivityService creates an ActivityService.
func NewActivityService(repo *repository.Repository, clk clock.Clock, logger *zap.Logger) ActivityService {
	return &activityService{repo: repo, clock: clk, logger: logger}
}

func (s *activityService) List(ctx context.Context, req *dto.ActivityListRequest) ([]dto.ActivityResponse, int64, error) {
	from, to, err := parseRange(req.From, req.To)
	if err != nil {
		return nil, 0, err
	}
	f := repository.ActivityFilter{WorkerID: req.WorkerID, ActivityType: req.Type}
	loc := s.clock.Location()
	if from != nil {
		start, _ := dayBounds(*from, loc)
		f.From = &start
	}
	if to != nil {
		_, end := dayBounds(*to, loc)
		f.To = &end
	}

	logs, total, err := s.repo.Activity.List(ctx, f, repository.Page{Offset: req.GetOffset(), Limit: req.GetPageSize()})
	if err != nil {
		s.logger.Error("list activity failed", zap.Error(err))
		return nil, 0, err
	}
	out := make([]dto.ActivityResponse, 0, len(logs))
	for i := range logs {
		out = append(out, toActivityResponse(&logs[i], loc))
	}
	return out, total, nil
}

// activity is a builder for audit rows written inside a transaction.
type activity struct {
	row model.ActivityLog
}

func newActivity(kind, performerID string, at time.Time) *activity {
	return &activity{row: model.ActivityLog{
		ActivityType: kind,
		PerformerID:  model.StringPtr(performerID),
		CreatedAt:    at,
	}}
}

func (a *activity) worker(id string) *activity    { a.row.WorkerID = model.StringPtr(id); return a }
func (a *activity) ticket(id string) *activity    { a.row.TicketID = model.StringPtr(id); return a }
func (a *activity) jobCard(id string) *activity   { a.row.JobCardID = model.StringPtr(id); return a }
func (a *activity) generator(id string) *activity { a.row.GeneratorID = model.StringPtr(id); return a }
func (a *activity) details(s string) *activity    { a.row.Details = s; return a }

func (a *activity) status(from, to lifecycle.Status) *activity {
	a.row.OldStatus = from.String()
	a.row.NewStatus = to.String()
	return a
}

func (a *activity) at(loc *lifecycle.Location) *activity {
	if loc != nil {
		lat, lon := loc.Latitude, loc.Longitude
		a.row.Latitude = &lat
		a.row.Longitude = &lon
	}
	return a
}

func (a *activity) save(ctx context.Context, repo *repository.Repository) error {
	return repo.Activity.Create(ctx, &a.row)
}
