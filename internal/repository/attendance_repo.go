package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/model"
)

// AttendanceRepository attendance-day data access.
type AttendanceRepository interface {
	Create(ctx context.Context, day *model.AttendanceDay) error
	// GetByWorkerAndDate returns gorm.ErrRecordNotFound when the day was
	// never started.
	GetByWorkerAndDate(ctx context.Context, workerID string, date time.Time) (*model.AttendanceDay, error)
	GetByWorkerAndDateForUpdate(ctx context.Context, workerID string, date time.Time) (*model.AttendanceDay, error)
	Close(ctx context.Context, day *model.AttendanceDay) error
	// ListRange returns days in [from, to] inclusive; workerID may be empty.
	ListRange(ctx context.Context, workerID string, from, to time.Time) ([]model.AttendanceDay, error)
	ListByDate(ctx context.Context, date time.Time) ([]model.AttendanceDay, error)
}

type attendanceRepo struct {
	db *gorm.DB
}

// NewAttendanceRepo creates an AttendanceRepository.
func NewAttendanceRepo(db *gorm.DB) AttendanceRepository {
	return &attendanceRepo{db: db}
}

func (r *attendanceRepo) Create(ctx context.Context, day *model.AttendanceDay) error {
	return r.db.WithContext(ctx).Omit("Worker").Create(day).Error
}

func (r *attendanceRepo) GetByWorkerAndDate(ctx context.Context, workerID string, date time.Time) (*model.AttendanceDay, error) {
	var day model.AttendanceDay
	err := r.db.WithContext(ctx).
		Where("worker_id = ? AND work_date = ?", workerID, date).
		First(&day).Error
	if err != nil {
		return nil, err
	}
	return &day, nil
}

func (r *attendanceRepo) GetByWorkerAndDateForUpdate(ctx context.Context, workerID string, date time.Time) (*model.AttendanceDay, error) {
	var day model.AttendanceDay
	err := forUpdate(r.db.WithContext(ctx)).
		Where("worker_id = ? AND work_date = ?", workerID, date).
		First(&day).Error
	if err != nil {
		return nil, err
	}
	return &day, nil
}

func (r *attendanceRepo) Close(ctx context.Context, day *model.AttendanceDay) error {
	return r.db.WithContext(ctx).
		Model(&model.AttendanceDay{}).
		Where("attendance_id = ? AND day_end IS NULL", day.AttendanceID).
		Updates(map[string]interface{}{
			"day_end":            day.DayEnd,
			"regular_minutes":    day.RegularMinutes,
			"evening_ot_minutes": day.EveningOTMinutes,
			"updated_by":         day.UpdatedBy,
			"updated_at":         gorm.Expr("NOW()"),
		}).Error
}

func (r *attendanceRepo) ListRange(ctx context.Context, workerID string, from, to time.Time) ([]model.AttendanceDay, error) {
	var days []model.AttendanceDay
	db := r.db.WithContext(ctx).
		Preload("Worker").
		Where("work_date >= ? AND work_date <= ?", from, to)
	if workerID != "" {
		db = db.Where("worker_id = ?", workerID)
	}
	err := db.Order("work_date ASC, day_start ASC").Find(&days).Error
	return days, err
}

func (r *attendanceRepo) ListByDate(ctx context.Context, date time.Time) ([]model.AttendanceDay, error) {
	var days []model.AttendanceDay
	err := r.db.WithContext(ctx).
		Preload("Worker").
		Where("work_date = ?", date).
		Order("day_start ASC").
		Find(&days).Error
	return days, err
}
