package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/model"
)

// ActivityFilter narrows the audit log. To is exclusive.
type ActivityFilter struct {
	WorkerID     string
	ActivityType string
	From         *time.Time
	To           *time.Time
}

// ActivityRepository audit trail; rows are only ever inserted.
type ActivityRepository interface {
	Create(ctx context.Context, a *model.ActivityLog) error
	List(ctx context.Context, f ActivityFilter, page Page) ([]model.ActivityLog, int64, error)
}

type activityRepo struct {
	db *gorm.DB
}

// NewActivityRepo creates an ActivityRepository.
func NewActivityRepo(db *gorm.DB) ActivityRepository {
	return &activityRepo{db: db}
}

func (r *activityRepo) Create(ctx context.Context, a *model.ActivityLog) error {
	return r.db.WithContext(ctx).Omit("Performer", "Worker").Create(a).Error
}

func (r *activityRepo) List(ctx context.Context, f ActivityFilter, page Page) ([]model.ActivityLog, int64, error) {
	var logs []model.ActivityLog
	var total int64

	db := r.db.WithContext(ctx).Model(&model.ActivityLog{})
	if f.WorkerID != "" {
		db = db.Where("worker_id = ?", f.WorkerID)
	}
	if f.ActivityType != "" {
		db = db.Where("activity_type = ?", f.ActivityType)
	}
	if f.From != nil {
		db = db.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		db = db.Where("created_at < ?", *f.To)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := page.apply(db).
		Preload("Performer").
		Preload("Worker").
		Order("created_at DESC, activity_id DESC").
		Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}
