package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/lifecycle"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/model"
	pkgerrors "github.com/isira-aw/Metropolitan-NEW-EMS/pkg/errors"
)

// TicketFilter narrows ticket listings. Zero values are ignored; dates are
// inclusive civil dates.
type TicketFilter struct {
	Status      lifecycle.Status
	GeneratorID string
	CreatedBy   string
	WorkerID    string
	Search      string
	From        *time.Time
	To          *time.Time
}

// TicketRepository ticket data access.
type TicketRepository interface {
	Create(ctx context.Context, t *model.Ticket) error
	GetByID(ctx context.Context, id string) (*model.Ticket, error)
	// GetForUpdate locks the ticket row without preloading associations.
	GetForUpdate(ctx context.Context, id string) (*model.Ticket, error)
	// Update writes the editable fields, guarded by Version.
	Update(ctx context.Context, t *model.Ticket) error
	SetStatus(ctx context.Context, id string, status lifecycle.Status, updatedBy string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f TicketFilter, page Page) ([]model.Ticket, int64, error)
	ListByIDs(ctx context.Context, ids []string) ([]model.Ticket, error)
	CountByGenerator(ctx context.Context, generatorID string) (int64, error)
	CountByStatus(ctx context.Context, from, to *time.Time) (map[lifecycle.Status]int64, error)
}

type ticketRepo struct {
	db *gorm.DB
}

// NewTicketRepo creates a TicketRepository.
func NewTicketRepo(db *gorm.DB) TicketRepository {
	return &ticketRepo{db: db}
}

func (r *ticketRepo) Create(ctx context.Context, t *model.Ticket) error {
	return r.db.WithContext(ctx).Omit("Generator", "JobCards").Create(t).Error
}

func (r *ticketRepo) GetByID(ctx context.Context, id string) (*model.Ticket, error) {
	var t model.Ticket
	err := r.db.WithContext(ctx).
		Preload("Generator").
		Preload("JobCards", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("JobCards.Worker").
		Where("ticket_id = ?", id).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *ticketRepo) GetForUpdate(ctx context.Context, id string) (*model.Ticket, error) {
	var t model.Ticket
	err := forUpdate(r.db.WithContext(ctx)).
		Where("ticket_id = ?", id).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *ticketRepo) Update(ctx context.Context, t *model.Ticket) error {
	oldVersion := t.Version
	result := r.db.WithContext(ctx).
		Model(&model.Ticket{}).
		Where("ticket_id = ? AND version = ?", t.TicketID, oldVersion).
		Updates(map[string]interface{}{
			"generator_id":   t.GeneratorID,
			"title":          t.Title,
			"description":    t.Description,
			"category":       t.Category,
			"weight":         t.Weight,
			"scheduled_date": t.ScheduledDate,
			"scheduled_time": t.ScheduledTime,
			"updated_by":     t.UpdatedBy,
			"updated_at":     gorm.Expr("NOW()"),
			"version":        oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	t.Version = oldVersion + 1
	return nil
}

func (r *ticketRepo) SetStatus(ctx context.Context, id string, status lifecycle.Status, updatedBy string) error {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": gorm.Expr("NOW()"),
		"version":    gorm.Expr("version + 1"),
	}
	if updatedBy != "" {
		updates["updated_by"] = updatedBy
	}
	return r.db.WithContext(ctx).
		Model(&model.Ticket{}).
		Where("ticket_id = ?", id).
		Updates(updates).Error
}

func (r *ticketRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("ticket_id = ?", id).Delete(&model.Ticket{}).Error
}

func (r *ticketRepo) List(ctx context.Context, f TicketFilter, page Page) ([]model.Ticket, int64, error) {
	var tickets []model.Ticket
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Ticket{})
	if f.Status != "" {
		db = db.Where("status = ?", f.Status)
	}
	if f.GeneratorID != "" {
		db = db.Where("generator_id = ?", f.GeneratorID)
	}
	if f.CreatedBy != "" {
		db = db.Where("created_by = ?", f.CreatedBy)
	}
	if f.WorkerID != "" {
		db = db.Where("ticket_id IN (?)",
			r.db.Model(&model.JobCard{}).Select("ticket_id").Where("worker_id = ?", f.WorkerID))
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		db = db.Where("ticket_number ILIKE ? OR title ILIKE ?", like, like)
	}
	if f.From != nil {
		db = db.Where("scheduled_date >= ?", *f.From)
	}
	if f.To != nil {
		db = db.Where("scheduled_date <= ?", *f.To)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := page.apply(db).
		Preload("Generator").
		Order("scheduled_date DESC, created_at DESC").
		Find(&tickets).Error
	if err != nil {
		return nil, 0, err
	}
	return tickets, total, nil
}

func (r *ticketRepo) ListByIDs(ctx context.Context, ids []string) ([]model.Ticket, error) {
	var tickets []model.Ticket
	if len(ids) == 0 {
		return tickets, nil
	}
	err := r.db.WithContext(ctx).Preload("Generator").Where("ticket_id IN ?", ids).Find(&tickets).Error
	return tickets, err
}

func (r *ticketRepo) CountByGenerator(ctx context.Context, generatorID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Ticket{}).Where("generator_id = ?", generatorID).Count(&n).Error
	return n, err
}

func (r *ticketRepo) CountByStatus(ctx context.Context, from, to *time.Time) (map[lifecycle.Status]int64, error) {
	var rows []struct {
		Status lifecycle.Status
		N      int64
	}
	db := r.db.WithContext(ctx).Model(&model.Ticket{}).Select("status, COUNT(*) AS n")
	if from != nil {
		db = db.Where("scheduled_date >= ?", *from)
	}
	if to != nil {
		db = db.Where("scheduled_date <= ?", *to)
	}
	if err := db.Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[lifecycle.Status]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.N
	}
	return out, nil
}
