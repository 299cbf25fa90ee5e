package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/model"
)

// StatusEventRepository is append-only: there is no update or delete.
type StatusEventRepository interface {
	Append(ctx context.Context, e *model.StatusEvent) error
	// ListByJobCard returns the log in chronological order.
	ListByJobCard(ctx context.Context, jobCardID string) ([]model.StatusEvent, error)
	ListByJobCards(ctx context.Context, jobCardIDs []string) (map[string][]model.StatusEvent, error)
	CountByJobCard(ctx context.Context, jobCardID string) (int64, error)
}

type statusEventRepo struct {
	db *gorm.DB
}

// NewStatusEventRepo creates a StatusEventRepository.
func NewStatusEventRepo(db *gorm.DB) StatusEventRepository {
	return &statusEventRepo{db: db}
}

func (r *statusEventRepo) Append(ctx context.Context, e *model.StatusEvent) error {
	return r.db.WithContext(ctx).Omit("Actor").Create(e).Error
}

func (r *statusEventRepo) ListByJobCard(ctx context.Context, jobCardID string) ([]model.StatusEvent, error) {
	var events []model.StatusEvent
	err := r.db.WithContext(ctx).
		Where("job_card_id = ?", jobCardID).
		Order("logged_at ASC, event_id ASC").
		Find(&events).Error
	return events, err
}

func (r *statusEventRepo) ListByJobCards(ctx context.Context, jobCardIDs []string) (map[string][]model.StatusEvent, error) {
	out := make(map[string][]model.StatusEvent, len(jobCardIDs))
	if len(jobCardIDs) == 0 {
		return out, nil
	}
	var events []model.StatusEvent
	err := r.db.WithContext(ctx).
		Where("job_card_id IN ?", jobCardIDs).
		Order("logged_at ASC, event_id ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	for _, e := range events {
		out[e.JobCardID] = append(out[e.JobCardID], e)
	}
	return out, nil
}

func (r *statusEventRepo) CountByJobCard(ctx context.Context, jobCardID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.StatusEvent{}).Where("job_card_id = ?", jobCardID).Count(&n).Error
	return n, err
}
