package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/dto"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/lifecycle"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/metrics"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/model"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/repository"
	"github.com/isira-aw/Metropolitan-NEW-EMS/pkg/clock"
	pkgerrors "github.com/isira-aw/Metropolitan-NEW-EMS/pkg/errors"
)

// historyDays is the default attendance history span.
const historyDays = 30

// AttendanceService records day start and day end and computes overtime.
type AttendanceService interface {
	StartDay(ctx context.Context, workerID string, req *dto.DayEventRequest) (*dto.AttendanceDayResponse, error)
	// EndDay refuses while any of today's job cards is still open.
	EndDay(ctx context.Context, workerID string, req *dto.DayEventRequest) (*dto.AttendanceDayResponse, error)
	Today(ctx context.Context, workerID string) (*dto.TodayResponse, error)
	History(ctx context.Context, workerID string, req *dto.AttendanceHistoryRequest) ([]dto.AttendanceDayResponse, error)
	ListByDate(ctx context.Context, date string) ([]dto.AttendanceDayResponse, error)
}

type attendanceService struct {
	repo    *repository.Repository
	clock   clock.Clock
	window  lifecycle.Window
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewAttendanceService creates an AttendanceService.
func NewAttendanceService(repo *repository.Repository, clk clock.Clock, window lifecycle.Window, m *metrics.Metrics, logger *zap.Logger) AttendanceService {
	return &attendanceService{repo: repo, clock: clk, window: window, metrics: m, logger: logger}
}

// optionalLocation validates a fix only when one was sent.
func optionalLocation(lat, lon *float64) (*lifecycle.Location, error) {
	if lat == nil && lon == nil {
		return nil, nil
	}
	loc, err := lifecycle.ValidateLocation(lat, lon)
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

func (s *attendanceService) StartDay(ctx context.Context, workerID string, req *dto.DayEventRequest) (*dto.AttendanceDayResponse, error) {
	fix, err := optionalLocation(req.Latitude, req.Longitude)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	today := clock.DateOf(now)
	var day *model.AttendanceDay

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		u, err := tx.User.LockByID(ctx, workerID)
		if err != nil {
			return notFoundAs(err, ErrUserNotFound)
		}
		if !u.IsEmployee() {
			return ErrForbidden
		}

		_, err = tx.Attendance.GetByWorkerAndDate(ctx, workerID, today)
		if err == nil {
			return lifecycle.ErrDayAlreadyStarted
		}
		if !isNotFound(err) {
			return err
		}

		day = &model.AttendanceDay{
			WorkerID:         workerID,
			WorkDate:         today,
			DayStart:         now,
			MorningOTMinutes: s.window.MorningOvertime(now),
			BaseModel:        model.BaseModel{CreatedBy: model.StringPtr(workerID)},
		}
		if err := tx.Attendance.Create(ctx, day); err != nil {
			if pkgerrors.IsDuplicate(err) {
				return lifecycle.ErrDayAlreadyStarted
			}
			return err
		}
		return newActivity(model.ActivityDayStart, workerID, now).
			worker(workerID).
			at(fix).
			save(ctx, tx)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.Attendance("start")
	s.logger.Info("day started",
		zap.String("worker_id", workerID),
		zap.Time("at", now),
		zap.Int("morning_ot", day.MorningOTMinutes))
	return toAttendanceResponse(day, s.clock.Location()), nil
}

func (s *attendanceService) EndDay(ctx context.Context, workerID string, req *dto.DayEventRequest) (*dto.AttendanceDayResponse, error) {
	fix, err := optionalLocation(req.Latitude, req.Longitude)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	today := clock.DateOf(now)
	loc := s.clock.Location()
	var day *model.AttendanceDay

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := tx.User.LockByID(ctx, workerID); err != nil {
			return notFoundAs(err, ErrUserNotFound)
		}

		d, err := tx.Attendance.GetByWorkerAndDateForUpdate(ctx, workerID, today)
		if err != nil {
			if isNotFound(err) {
				return lifecycle.ErrDayNotStarted
			}
			return err
		}
		if d.Ended() {
			return lifecycle.ErrDayAlreadyEnded
		}

		cards, err := tx.JobCard.ListForWorkerOnDate(ctx, workerID, today)
		if err != nil {
			return err
		}
		open := make([]lifecycle.OpenCard, 0, len(cards))
		for _, c := range cards {
			oc := lifecycle.OpenCard{Status: c.Status}
			if c.Ticket != nil {
				oc.TicketNumber = c.Ticket.TicketNumber
			}
			open = append(open, oc)
		}
		if err := lifecycle.CheckDayClosable(open); err != nil {
			return err
		}

		totals := s.window.CloseDay(d.DayStart.In(loc), now, d.MorningOTMinutes)
		d.DayEnd = &now
		d.RegularMinutes = totals.RegularMinutes
		d.EveningOTMinutes = totals.EveningOTMinutes
		d.UpdatedBy = model.StringPtr(workerID)
		if err := tx.Attendance.Close(ctx, d); err != nil {
			return err
		}
		day = d

		return newActivity(model.ActivityDayEnd, workerID, now).
			worker(workerID).
			at(fix).
			save(ctx, tx)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.Attendance("end")
	s.logger.Info("day ended",
		zap.String("worker_id", workerID),
		zap.Int("regular", day.RegularMinutes),
		zap.Int("overtime", day.TotalOTMinutes()))
	return toAttendanceResponse(day, loc), nil
}

func (s *attendanceService) Today(ctx context.Context, workerID string) (*dto.TodayResponse, error) {
	today := clock.Today(s.clock)
	resp := &dto.TodayResponse{Date: clock.FormatDate(today)}

	day, err := s.repo.Attendance.GetByWorkerAndDate(ctx, workerID, today)
	switch {
	case err == nil:
		resp.Started = true
		resp.Ended = day.Ended()
		resp.Day = toAttendanceResponse(day, s.clock.Location())
	case !isNotFound(err):
		return nil, err
	}

	cards, err := s.repo.JobCard.ListForWorkerOnDate(ctx, workerID, today)
	if err != nil {
		return nil, err
	}
	for _, c := range cards {
		if !c.Status.IsTerminal() {
			resp.OpenJobs++
		}
	}
	return resp, nil
}

func (s *attendanceService) History(ctx context.Context, workerID string, req *dto.AttendanceHistoryRequest) ([]dto.AttendanceDayResponse, error) {
	from, to, err := parseRange(req.From, req.To)
	if err != nil {
		return nil, err
	}
	end := clock.Today(s.clock)
	if to != nil {
		end = *to
	}
	start := end.AddDate(0, 0, -historyDays)
	if from != nil {
		start = *from
	}
	if start.After(end) {
		return nil, ErrInvalidDateRange
	}

	days, err := s.repo.Attendance.ListRange(ctx, workerID, start, end)
	if err != nil {
		s.logger.Error("attendance history failed", zap.String("worker_id", workerID), zap.Error(err))
		return nil, err
	}
	loc := s.clock.Location()
	out := make([]dto.AttendanceDayResponse, 0, len(days))
	for i := range days {
		out = append(out, *toAttendanceResponse(&days[i], loc))
	}
	return out, nil
}

func (s *attendanceService) ListByDate(ctx context.Context, date string) ([]dto.AttendanceDayResponse, error) {
	d := clock.Today(s.clock)
	if date != "" {
		parsed, err := clock.ParseDate(date)
		if err != nil {
			return nil, ErrInvalidDate
		}
		d = parsed
	}
	days, err := s.repo.Attendance.ListByDate(ctx, d)
	if err != nil {
		return nil, err
	}
	loc := s.clock.Location()
	out := make([]dto.AttendanceDayResponse, 0, len(days))
	for i := range days {
		out = append(out, *toAttendanceResponse(&days[i], loc))
	}
	return out, nil
}
