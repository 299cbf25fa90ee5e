package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/model"
)

// AssignmentRepository ticket-to-worker assignments.
type AssignmentRepository interface {
	Create(ctx context.Context, a *model.TicketAssignment) error
	ListByTicket(ctx context.Context, ticketID string) ([]model.TicketAssignment, error)
	Delete(ctx context.Context, ticketID, workerID string) error
}

type assignmentRepo struct {
	db *gorm.DB
}

// NewAssignmentRepo creates an AssignmentRepository.
func NewAssignmentRepo(db *gorm.DB) AssignmentRepository {
	return &assignmentRepo{db: db}
}

func (r *assignmentRepo) Create(ctx context.Context, a *model.TicketAssignment) error {
	return r.db.WithContext(ctx).Omit("Worker").Create(a).Error
}

func (r *assignmentRepo) ListByTicket(ctx context.Context, ticketID string) ([]model.TicketAssignment, error) {
	var list []model.TicketAssignment
	err := r.db.WithContext(ctx).
		Preload("Worker").
		Where("ticket_id = ?", ticketID).
		Order("assigned_at ASC").
		Find(&list).Error
	return list, err
}

func (r *assignmentRepo) Delete(ctx context.Context, ticketID, workerID string) error {
	return r.db.WithContext(ctx).
		Where("ticket_id = ? AND worker_id = ?", ticketID, workerID).
		Delete(&model.TicketAssignment{}).Error
}
