package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/model"
)

// ScoreFilter narrows score listings; WorkDate bounds are inclusive.
type ScoreFilter struct {
	WorkerID string
	TicketID string
	From     *time.Time
	To       *time.Time
}

// ScoreTotal is one worker's aggregate.
type ScoreTotal struct {
	WorkerID string
	Total    int64
	Count    int64
}

// ScoreRepository score data access.
type ScoreRepository interface {
	Create(ctx context.Context, s *model.Score) error
	GetByID(ctx context.Context, id string) (*model.Score, error)
	GetByJobCard(ctx context.Context, jobCardID string) (*model.Score, error)
	ExistsForJobCard(ctx context.Context, jobCardID string) (bool, error)
	Update(ctx context.Context, s *model.Score) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f ScoreFilter, page Page) ([]model.Score, int64, error)
	TotalsByWorker(ctx context.Context, f ScoreFilter) ([]ScoreTotal, error)
}

type scoreRepo struct {
	db *gorm.DB
}

// NewScoreRepo creates a ScoreRepository.
func NewScoreRepo(db *gorm.DB) ScoreRepository {
	return &scoreRepo{db: db}
}

func (r *scoreRepo) Create(ctx context.Context, s *model.Score) error {
	return r.db.WithContext(ctx).Omit("JobCard", "Worker").Create(s).Error
}

func (r *scoreRepo) GetByID(ctx context.Context, id string) (*model.Score, error) {
	var s model.Score
	if err := r.db.WithContext(ctx).Where("score_id = ?", id).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *scoreRepo) GetByJobCard(ctx context.Context, jobCardID string) (*model.Score, error) {
	var s model.Score
	if err := r.db.WithContext(ctx).Where("job_card_id = ?", jobCardID).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *scoreRepo) ExistsForJobCard(ctx context.Context, jobCardID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Score{}).Where("job_card_id = ?", jobCardID).Count(&n).Error
	return n > 0, err
}

func (r *scoreRepo) Update(ctx context.Context, s *model.Score) error {
	return r.db.WithContext(ctx).
		Model(&model.Score{}).
		Where("score_id = ?", s.ScoreID).
		Updates(map[string]interface{}{
			"weight":      s.Weight,
			"approved_by": s.ApprovedBy,
			"approved_at": s.ApprovedAt,
			"updated_by":  s.UpdatedBy,
			"updated_at":  gorm.Expr("NOW()"),
		}).Error
}

func (r *scoreRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("score_id = ?", id).Delete(&model.Score{}).Error
}

func (r *scoreRepo) filtered(ctx context.Context, f ScoreFilter) *gorm.DB {
	db := r.db.WithContext(ctx).Model(&model.Score{})
	if f.WorkerID != "" {
		db = db.Where("scores.worker_id = ?", f.WorkerID)
	}
	if f.TicketID != "" {
		db = db.Where("scores.job_card_id IN (?)",
			r.db.Model(&model.JobCard{}).Select("job_card_id").Where("ticket_id = ?", f.TicketID))
	}
	if f.From != nil {
		db = db.Where("scores.work_date >= ?", *f.From)
	}
	if f.To != nil {
		db = db.Where("scores.work_date <= ?", *f.To)
	}
	return db
}

func (r *scoreRepo) List(ctx context.Context, f ScoreFilter, page Page) ([]model.Score, int64, error) {
	var scores []model.Score
	var total int64

	if err := r.filtered(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := page.apply(r.filtered(ctx, f)).
		Preload("JobCard.Ticket").
		Preload("Worker").
		Order("work_date DESC, approved_at DESC").
		Find(&scores).Error
	if err != nil {
		return nil, 0, err
	}
	return scores, total, nil
}

func (r *scoreRepo) TotalsByWorker(ctx context.Context, f ScoreFilter) ([]ScoreTotal, error) {
	var totals []ScoreTotal
	err := r.filtered(ctx, f).
		Select("scores.worker_id AS worker_id, SUM(scores.weight) AS total, COUNT(*) AS count").
		Group("scores.worker_id").
		Scan(&totals).Error
	return totals, err
}
