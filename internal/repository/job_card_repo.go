package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/lifecycle"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/model"
)

// JobCardFilter narrows job-card listings. Date and the From/To range refer
// to the owning ticket's scheduled date.
type JobCardFilter struct {
	WorkerID string
	TicketID string
	Status   lifecycle.Status
	Date     *time.Time
	From     *time.Time
	To       *time.Time
	Approved *bool
}

// JobCardRepository job-card data access.
type JobCardRepository interface {
	Create(ctx context.Context, card *model.JobCard) error
	GetByID(ctx context.Context, id string) (*model.JobCard, error)
	// GetForUpdate locks the job-card row. Ticket is preloaded, unlocked.
	GetForUpdate(ctx context.Context, id string) (*model.JobCard, error)
	GetByTicketAndWorker(ctx context.Context, ticketID, workerID string) (*model.JobCard, error)
	ListByTicket(ctx context.Context, ticketID string) ([]model.JobCard, error)
	// ListForWorkerOnDate returns the worker's cards whose ticket is
	// scheduled for date, with Ticket preloaded.
	ListForWorkerOnDate(ctx context.Context, workerID string, date time.Time) ([]model.JobCard, error)
	List(ctx context.Context, f JobCardFilter, page Page) ([]model.JobCard, int64, error)
	Count(ctx context.Context, f JobCardFilter) (int64, error)
	ListPendingApproval(ctx context.Context, page Page) ([]model.JobCard, int64, error)
	ListApprovedUnscored(ctx context.Context) ([]model.JobCard, error)
	ListByStatus(ctx context.Context, status lifecycle.Status) ([]model.JobCard, error)
	// ListStartedBetween returns cards whose start time falls in [from, to).
	ListStartedBetween(ctx context.Context, workerID string, from, to time.Time) ([]model.JobCard, error)
	Update(ctx context.Context, card *model.JobCard) error
	SetImage(ctx context.Context, id, ref, updatedBy string) error
	SetWorkMinutes(ctx context.Context, id string, minutes int) error
	Delete(ctx context.Context, id string) error
}

type jobCardRepo struct {
	db *gorm.DB
}

// NewJobCardRepo creates a JobCardRepository.
func NewJobCardRepo(db *gorm.DB) JobCardRepository {
	return &jobCardRepo{db: db}
}

func (r *jobCardRepo) Create(ctx context.Context, card *model.JobCard) error {
	return r.db.WithContext(ctx).Omit("Ticket", "Worker").Create(card).Error
}

func (r *jobCardRepo) GetByID(ctx context.Context, id string) (*model.JobCard, error) {
	var card model.JobCard
	err := r.db.WithContext(ctx).
		Preload("Ticket.Generator").
		Preload("Worker").
		Where("job_card_id = ?", id).
		First(&card).Error
	if err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *jobCardRepo) GetForUpdate(ctx context.Context, id string) (*model.JobCard, error) {
	var card model.JobCard
	err := forUpdate(r.db.WithContext(ctx)).
		Where("job_card_id = ?", id).
		First(&card).Error
	if err != nil {
		return nil, err
	}
	var ticket model.Ticket
	if err := r.db.WithContext(ctx).Preload("Generator").Where("ticket_id = ?", card.TicketID).First(&ticket).Error; err != nil {
		return nil, err
	}
	card.Ticket = &ticket
	return &card, nil
}

func (r *jobCardRepo) GetByTicketAndWorker(ctx context.Context, ticketID, workerID string) (*model.JobCard, error) {
	var card model.JobCard
	err := r.db.WithContext(ctx).
		Where("ticket_id = ? AND worker_id = ?", ticketID, workerID).
		First(&card).Error
	if err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *jobCardRepo) ListByTicket(ctx context.Context, ticketID string) ([]model.JobCard, error) {
	var cards []model.JobCard
	err := r.db.WithContext(ctx).
		Preload("Worker").
		Where("ticket_id = ?", ticketID).
		Order("created_at ASC").
		Find(&cards).Error
	return cards, err
}

func (r *jobCardRepo) ListForWorkerOnDate(ctx context.Context, workerID string, date time.Time) ([]model.JobCard, error) {
	var cards []model.JobCard
	err := r.db.WithContext(ctx).
		Joins("JOIN tickets ON tickets.ticket_id = job_cards.ticket_id").
		Preload("Ticket").
		Where("job_cards.worker_id = ? AND tickets.scheduled_date = ?", workerID, date).
		Order("tickets.scheduled_time ASC, job_cards.created_at ASC").
		Find(&cards).Error
	return cards, err
}

func (r *jobCardRepo) filtered(ctx context.Context, f JobCardFilter) *gorm.DB {
	db := r.db.WithContext(ctx).Model(&model.JobCard{}).
		Joins("JOIN tickets ON tickets.ticket_id = job_cards.ticket_id")
	if f.WorkerID != "" {
		db = db.Where("job_cards.worker_id = ?", f.WorkerID)
	}
	if f.TicketID != "" {
		db = db.Where("job_cards.ticket_id = ?", f.TicketID)
	}
	if f.Status != "" {
		db = db.Where("job_cards.status = ?", f.Status)
	}
	if f.Date != nil {
		db = db.Where("tickets.scheduled_date = ?", *f.Date)
	}
	if f.From != nil {
		db = db.Where("tickets.scheduled_date >= ?", *f.From)
	}
	if f.To != nil {
		db = db.Where("tickets.scheduled_date <= ?", *f.To)
	}
	if f.Approved != nil {
		db = db.Where("job_cards.approved = ?", *f.Approved)
	}
	return db
}

func (r *jobCardRepo) List(ctx context.Context, f JobCardFilter, page Page) ([]model.JobCard, int64, error) {
	var cards []model.JobCard
	var total int64

	if err := r.filtered(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := page.apply(r.filtered(ctx, f)).
		Preload("Ticket.Generator").
		Preload("Worker").
		Order("tickets.scheduled_date DESC, tickets.scheduled_time ASC").
		Find(&cards).Error
	if err != nil {
		return nil, 0, err
	}
	return cards, total, nil
}

func (r *jobCardRepo) Count(ctx context.Context, f JobCardFilter) (int64, error) {
	var n int64
	err := r.filtered(ctx, f).Count(&n).Error
	return n, err
}

func (r *jobCardRepo) ListPendingApproval(ctx context.Context, page Page) ([]model.JobCard, int64, error) {
	var cards []model.JobCard
	var total int64

	db := r.db.WithContext(ctx).Model(&model.JobCard{}).
		Where("status = ? AND approved = ?", lifecycle.StatusCompleted, false)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := page.apply(db).
		Preload("Ticket.Generator").
		Preload("Worker").
		Order("end_time DESC NULLS LAST").
		Find(&cards).Error
	if err != nil {
		return nil, 0, err
	}
	return cards, total, nil
}

func (r *jobCardRepo) ListApprovedUnscored(ctx context.Context) ([]model.JobCard, error) {
	var cards []model.JobCard
	err := r.db.WithContext(ctx).
		Preload("Ticket").
		Where("status = ? AND approved = ?", lifecycle.StatusCompleted, true).
		Where("NOT EXISTS (SELECT 1 FROM scores s WHERE s.job_card_id = job_cards.job_card_id)").
		Order("end_time ASC").
		Find(&cards).Error
	return cards, err
}

func (r *jobCardRepo) ListByStatus(ctx context.Context, status lifecycle.Status) ([]model.JobCard, error) {
	var cards []model.JobCard
	err := r.db.WithContext(ctx).Where("status = ?", status).Find(&cards).Error
	return cards, err
}

func (r *jobCardRepo) ListStartedBetween(ctx context.Context, workerID string, from, to time.Time) ([]model.JobCard, error) {
	var cards []model.JobCard
	db := r.db.WithContext(ctx).
		Preload("Ticket.Generator").
		Where("start_time >= ? AND start_time < ?", from, to)
	if workerID != "" {
		db = db.Where("worker_id = ?", workerID)
	}
	err := db.Order("start_time ASC").Find(&cards).Error
	return cards, err
}

func (r *jobCardRepo) Update(ctx context.Context, card *model.JobCard) error {
	return r.db.WithContext(ctx).
		Model(&model.JobCard{}).
		Where("job_card_id = ?", card.JobCardID).
		Updates(map[string]interface{}{
			"status":       card.Status,
			"start_time":   card.StartTime,
			"end_time":     card.EndTime,
			"approved":     card.Approved,
			"work_minutes": card.WorkMinutes,
			"updated_by":   card.UpdatedBy,
			"updated_at":   gorm.Expr("NOW()"),
		}).Error
}

func (r *jobCardRepo) SetImage(ctx context.Context, id, ref, updatedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.JobCard{}).
		Where("job_card_id = ?", id).
		Updates(map[string]interface{}{
			"image_ref":  ref,
			"updated_by": updatedBy,
			"updated_at": gorm.Expr("NOW()"),
		}).Error
}

func (r *jobCardRepo) SetWorkMinutes(ctx context.Context, id string, minutes int) error {
	return r.db.WithContext(ctx).
		Model(&model.JobCard{}).
		Where("job_card_id = ?", id).
		Update("work_minutes", minutes).Error
}

func (r *jobCardRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("job_card_id = ?", id).Delete(&model.JobCard{}).Error
}
