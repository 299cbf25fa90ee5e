package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/dto"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/lifecycle"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/model"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/repository"
	"github.com/isira-aw/Metropolitan-NEW-EMS/pkg/clock"
)

// GeneratorService manages the assets tickets are raised against.
type GeneratorService interface {
	Create(ctx context.Context, req *dto.GeneratorRequest, callerID string) (*dto.GeneratorResponse, error)
	Get(ctx context.Context, id string) (*dto.GeneratorResponse, error)
	List(ctx context.Context, req *dto.GeneratorListRequest) ([]dto.GeneratorResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.GeneratorRequest, callerID string) (*dto.GeneratorResponse, error)
	Delete(ctx context.Context, id string) error
	History(ctx context.Context, id string) (*dto.GeneratorHistoryResponse, error)
}

type generatorService struct {
	repo   *repository.Repository
	clock  clock.Clock
	logger *zap.Logger
}

// NewGeneratorService creates a GeneratorService.
func NewGeneratorService(repo *repository.Repository, clk clock.Clock, logger *zap.Logger) GeneratorService {
	return &generatorService{repo: repo, clock: clk, logger: logger}
}

func applyGenerator(g *model.Generator, req *dto.GeneratorRequest) {
	g.Model = req.Model
	g.Name = req.Name
	g.Capacity = req.Capacity
	g.LocationName = req.LocationName
	g.OwnerEmail = req.OwnerEmail
	g.WhatsAppNumber = req.WhatsAppNumber
	g.LandlineNumber = req.LandlineNumber
	g.Note = req.Note
}

func (s *generatorService) Create(ctx context.Context, req *dto.GeneratorRequest, callerID string) (*dto.GeneratorResponse, error) {
	g := &model.Generator{BaseModel: model.BaseModel{CreatedBy: model.StringPtr(callerID)}}
	applyGenerator(g, req)
	if err := s.repo.Generator.Create(ctx, g); err != nil {
		s.logger.Error("create generator failed", zap.Error(err))
		return nil, err
	}
	resp := toGeneratorResponse(g)
	return &resp, nil
}

func (s *generatorService) Get(ctx context.Context, id string) (*dto.GeneratorResponse, error) {
	g, err := s.repo.Generator.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrGeneratorNotFound)
	}
	resp := toGeneratorResponse(g)
	return &resp, nil
}

func (s *generatorService) List(ctx context.Context, req *dto.GeneratorListRequest) ([]dto.GeneratorResponse, int64, error) {
	gens, total, err := s.repo.Generator.List(ctx, req.Name, repository.Page{Offset: req.GetOffset(), Limit: req.GetPageSize()})
	if err != nil {
		s.logger.Error("list generators failed", zap.Error(err))
		return nil, 0, err
	}
	out := make([]dto.GeneratorResponse, 0, len(gens))
	for i := range gens {
		out = append(out, toGeneratorResponse(&gens[i]))
	}
	return out, total, nil
}

func (s *generatorService) Update(ctx context.Context, id string, req *dto.GeneratorRequest, callerID string) (*dto.GeneratorResponse, error) {
	g, err := s.repo.Generator.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrGeneratorNotFound)
	}
	applyGenerator(g, req)
	g.UpdatedBy = model.StringPtr(callerID)
	g.UpdatedAt = s.clock.Now()
	if err := s.repo.Generator.Update(ctx, g); err != nil {
		s.logger.Error("update generator failed", zap.Error(err))
		return nil, err
	}
	resp := toGeneratorResponse(g)
	return &resp, nil
}

func (s *generatorService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Generator.GetByID(ctx, id); err != nil {
		return notFoundAs(err, ErrGeneratorNotFound)
	}
	n, err := s.repo.Ticket.CountByGenerator(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrGeneratorInUse
	}
	return s.repo.Generator.Delete(ctx, id)
}

func (s *generatorService) History(ctx context.Context, id string) (*dto.GeneratorHistoryResponse, error) {
	g, err := s.repo.Generator.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrGeneratorNotFound)
	}
	tickets, total, err := s.repo.Ticket.List(ctx, repository.TicketFilter{GeneratorID: id}, repository.Page{})
	if err != nil {
		return nil, err
	}

	resp := &dto.GeneratorHistoryResponse{Generator: toGeneratorResponse(g), TotalServices: total}
	loc := s.clock.Location()
	for i := range tickets {
		if tickets[i].Status == lifecycle.StatusCompleted {
			resp.CompletedServices++
		}
		resp.Tickets = append(resp.Tickets, toTicketResponse(&tickets[i], loc))
	}
	return resp, nil
}
