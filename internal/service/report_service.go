package service

import (
	"context"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/dto"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/lifecycle"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/model"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/repository"
	"github.com/isira-aw/Metropolitan-NEW-EMS/pkg/clock"
)

// ReportService builds read-only reports from the attendance ledger and the
// status logs. Nothing here takes a lock.
type ReportService interface {
	TimeTracking(ctx context.Context, req *dto.ReportRequest) ([]dto.TimeTrackingRow, error)
	Overtime(ctx context.Context, req *dto.ReportRequest) (*dto.OvertimeReport, error)
	OvertimeByGenerator(ctx context.Context, req *dto.ReportRequest) (*dto.OvertimeByGeneratorReport, error)
	Scores(ctx context.Context, req *dto.ReportRequest) (*dto.ScoreReport, error)
	TicketCompletion(ctx context.Context, req *dto.ReportRequest) (*dto.TicketCompletionReport, error)
	Productivity(ctx context.Context, req *dto.ReportRequest) ([]dto.ProductivityRow, error)
	DailyAttendance(ctx context.Context, date string) (*dto.DailyAttendanceReport, error)
	WorkerDay(ctx context.Context, workerID, date string) (*dto.WorkerDayReport, error)
	AdminDashboard(ctx context.Context) (*dto.AdminDashboard, error)
	WorkerDashboard(ctx context.Context, workerID string) (*dto.WorkerDashboard, error)
}

type reportService struct {
	repo   *repository.Repository
	clock  clock.Clock
	window lifecycle.Window
	logger *zap.Logger
}

// NewReportService creates a ReportService.
func NewReportService(repo *repository.Repository, clk clock.Clock, window lifecycle.Window, logger *zap.Logger) ReportService {
	return &reportService{repo: repo, clock: clk, window: window, logger: logger}
}

// reportRange parses a required inclusive date range.
func reportRange(req *dto.ReportRequest) (time.Time, time.Time, error) {
	from, to, err := parseRange(req.From, req.To)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if from == nil || to == nil {
		return time.Time{}, time.Time{}, ErrInvalidDateRange
	}
	return *from, *to, nil
}

func briefOf(u *model.User, id string) dto.UserBrief {
	if u == nil {
		return dto.UserBrief{ID: id}
	}
	return *userBrief(u)
}

func percent(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(whole)*10000) / 100
}

// workerDay keys a worker's civil date.
type workerDay struct {
	workerID string
	date     string
}

// startedCards loads the cards started in [from, to] grouped by worker and
// the business-zone date they started, plus the logs of those cards.
func (s *reportService) startedCards(ctx context.Context, workerID string, from, to time.Time) (map[workerDay][]model.JobCard, map[string][]model.StatusEvent, error) {
	loc := s.clock.Location()
	start, _ := dayBounds(from, loc)
	_, end := dayBounds(to, loc)

	cards, err := s.repo.JobCard.ListStartedBetween(ctx, workerID, start, end)
	if err != nil {
		return nil, nil, err
	}
	grouped := make(map[workerDay][]model.JobCard)
	ids := make([]string, 0, len(cards))
	for _, c := range cards {
		key := workerDay{c.WorkerID, clock.FormatDate(c.StartTime.In(loc))}
		grouped[key] = append(grouped[key], c)
		ids = append(ids, c.JobCardID)
	}
	logs, err := s.repo.StatusEvent.ListByJobCards(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	return grouped, logs, nil
}

// ═══════════════════════════════════════════════════════════
// Time tracking and overtime
// ═══════════════════════════════════════════════════════════

func (s *reportService) TimeTracking(ctx context.Context, req *dto.ReportRequest) ([]dto.TimeTrackingRow, error) {
	from, to, err := reportRange(req)
	if err != nil {
		return nil, err
	}
	days, err := s.repo.Attendance.ListRange(ctx, req.WorkerID, from, to)
	if err != nil {
		s.logger.Error("time tracking report failed", zap.Error(err))
		return nil, err
	}
	grouped, logs, err := s.startedCards(ctx, req.WorkerID, from, to)
	if err != nil {
		return nil, err
	}

	loc := s.clock.Location()
	rows := make([]dto.TimeTrackingRow, 0, len(days))
	for i := range days {
		d := &days[i]
		date := clock.FormatDate(d.WorkDate)
		row := dto.TimeTrackingRow{
			Worker:           briefOf(d.Worker, d.WorkerID),
			Date:             date,
			DayStart:         d.DayStart.In(loc),
			DayEnd:           inZone(d.DayEnd, loc),
			RegularMinutes:   d.RegularMinutes,
			MorningOTMinutes: d.MorningOTMinutes,
			EveningOTMinutes: d.EveningOTMinutes,
			Path:             []dto.GeoPoint{},
		}

		var total lifecycle.TimeBreakdown
		var events []model.StatusEvent
		for _, c := range grouped[workerDay{d.WorkerID, date}] {
			log := logs[c.JobCardID]
			total = total.Add(lifecycle.Breakdown(model.LifecycleEvents(log)))
			events = append(events, log...)
		}
		row.WorkMinutes = total.WorkMinutes
		row.IdleMinutes = total.IdleMinutes
		row.TravelMinutes = total.TravelMinutes
		row.Path = geoPath(events, loc)
		rows = append(rows, row)
	}
	return rows, nil
}

// geoPath is the chronological list of fixes in events.
func geoPath(events []model.StatusEvent, loc *time.Location) []dto.GeoPoint {
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].LoggedAt.Equal(events[j].LoggedAt) {
			return events[i].LoggedAt.Before(events[j].LoggedAt)
		}
		return events[i].EventID < events[j].EventID
	})
	path := []dto.GeoPoint{}
	for _, e := range events {
		if e.Latitude == nil || e.Longitude == nil {
			continue
		}
		path = append(path, dto.GeoPoint{
			Latitude:  *e.Latitude,
			Longitude: *e.Longitude,
			At:        e.LoggedAt.In(loc),
			Status:    e.NewStatus.String(),
			MapsURL:   lifecycle.MapsURL(*e.Latitude, *e.Longitude),
		})
	}
	return path
}

func (s *reportService) Overtime(ctx context.Context, req *dto.ReportRequest) (*dto.OvertimeReport, error) {
	from, to, err := reportRange(req)
	if err != nil {
		return nil, err
	}
	days, err := s.repo.Attendance.ListRange(ctx, req.WorkerID, from, to)
	if err != nil {
		s.logger.Error("overtime report failed", zap.Error(err))
		return nil, err
	}

	report := &dto.OvertimeReport{
		From:   clock.FormatDate(from),
		To:     clock.FormatDate(to),
		Rows:   []dto.OvertimeRow{},
		Totals: []dto.OvertimeTotal{},
	}
	totals := make(map[string]*dto.OvertimeTotal)
	var order []string
	for i := range days {
		d := &days[i]
		brief := briefOf(d.Worker, d.WorkerID)
		report.Rows = append(report.Rows, dto.OvertimeRow{
			Worker:           brief,
			Date:             clock.FormatDate(d.WorkDate),
			MorningOTMinutes: d.MorningOTMinutes,
			EveningOTMinutes: d.EveningOTMinutes,
			TotalOTMinutes:   d.TotalOTMinutes(),
		})

		t, ok := totals[d.WorkerID]
		if !ok {
			t = &dto.OvertimeTotal{Worker: brief}
			totals[d.WorkerID] = t
			order = append(order, d.WorkerID)
		}
		t.Days++
		t.MorningOTMinutes += d.MorningOTMinutes
		t.EveningOTMinutes += d.EveningOTMinutes
		t.TotalOTMinutes += d.TotalOTMinutes()
	}
	for _, id := range order {
		report.Totals = append(report.Totals, *totals[id])
	}
	sort.SliceStable(report.Totals, func(i, j int) bool {
		return report.Totals[i].TotalOTMinutes > report.Totals[j].TotalOTMinutes
	})
	return report, nil
}

// OvertimeByGenerator attributes a worker-day's overtime to every generator
// the worker started a job on that day.
func (s *reportService) OvertimeByGenerator(ctx context.Context, req *dto.ReportRequest) (*dto.OvertimeByGeneratorReport, error) {
	from, to, err := reportRange(req)
	if err != nil {
		return nil, err
	}
	days, err := s.repo.Attendance.ListRange(ctx, req.WorkerID, from, to)
	if err != nil {
		return nil, err
	}
	grouped, _, err := s.startedCards(ctx, req.WorkerID, from, to)
	if err != nil {
		return nil, err
	}

	byGen := make(map[string]*dto.GeneratorOvertime)
	var order []string
	for i := range days {
		d := &days[i]
		if d.TotalOTMinutes() == 0 {
			continue
		}
		seen := make(map[string]bool)
		for _, c := range grouped[workerDay{d.WorkerID, clock.FormatDate(d.WorkDate)}] {
			if c.Ticket == nil || seen[c.Ticket.GeneratorID] {
				continue
			}
			genID := c.Ticket.GeneratorID
			seen[genID] = true

			g, ok := byGen[genID]
			if !ok {
				g = &dto.GeneratorOvertime{Generator: dto.GeneratorBrief{ID: genID}}
				if b := generatorBrief(c.Ticket.Generator); b != nil {
					g.Generator = *b
				}
				byGen[genID] = g
				order = append(order, genID)
			}
			g.MorningOTMinutes += d.MorningOTMinutes
			g.EveningOTMinutes += d.EveningOTMinutes
			g.TotalOTMinutes += d.TotalOTMinutes()
		}
	}

	report := &dto.OvertimeByGeneratorReport{
		From:       clock.FormatDate(from),
		To:         clock.FormatDate(to),
		Generators: make([]dto.GeneratorOvertime, 0, len(order)),
	}
	for _, id := range order {
		report.Generators = append(report.Generators, *byGen[id])
	}
	sort.SliceStable(report.Generators, func(i, j int) bool {
		return report.Generators[i].TotalOTMinutes > report.Generators[j].TotalOTMinutes
	})
	return report, nil
}

// ═══════════════════════════════════════════════════════════
// Scores, tickets, productivity
// ═══════════════════════════════════════════════════════════

func (s *reportService) Scores(ctx context.Context, req *dto.ReportRequest) (*dto.ScoreReport, error) {
	from, to, err := reportRange(req)
	if err != nil {
		return nil, err
	}
	totals, err := s.repo.Score.TotalsByWorker(ctx, repository.ScoreFilter{WorkerID: req.WorkerID, From: &from, To: &to})
	if err != nil {
		s.logger.Error("score report failed", zap.Error(err))
		return nil, err
	}
	ids := make([]string, 0, len(totals))
	for _, t := range totals {
		ids = append(ids, t.WorkerID)
	}
	users, err := s.repo.User.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*model.User, len(users))
	for i := range users {
		byID[users[i].UserID] = &users[i]
	}

	report := &dto.ScoreReport{
		From:    clock.FormatDate(from),
		To:      clock.FormatDate(to),
		Workers: make([]dto.WorkerScore, 0, len(totals)),
	}
	for _, t := range totals {
		ws := dto.WorkerScore{Worker: briefOf(byID[t.WorkerID], t.WorkerID), Total: t.Total, Count: t.Count}
		if t.Count > 0 {
			ws.Average = math.Round(float64(t.Total)/float64(t.Count)*100) / 100
		}
		report.Workers = append(report.Workers, ws)
	}
	sort.SliceStable(report.Workers, func(i, j int) bool {
		return report.Workers[i].Total > report.Workers[j].Total
	})
	return report, nil
}

func (s *reportService) TicketCompletion(ctx context.Context, req *dto.ReportRequest) (*dto.TicketCompletionReport, error) {
	from, to, err := reportRange(req)
	if err != nil {
		return nil, err
	}
	counts, err := s.repo.Ticket.CountByStatus(ctx, &from, &to)
	if err != nil {
		return nil, err
	}

	r := &dto.TicketCompletionReport{From: clock.FormatDate(from), To: clock.FormatDate(to)}
	for st, n := range counts {
		r.Total += n
		switch {
		case st == lifecycle.StatusPending:
			r.Pending += n
		case st.IsActive():
			r.Active += n
		case st == lifecycle.StatusCompleted:
			r.Completed += n
		case st == lifecycle.StatusCancel:
			r.Cancelled += n
		}
	}
	r.CompletionRate = percent(r.Completed, r.Total)
	return r, nil
}

func (s *reportService) Productivity(ctx context.Context, req *dto.ReportRequest) ([]dto.ProductivityRow, error) {
	from, to, err := reportRange(req)
	if err != nil {
		return nil, err
	}

	var workers []model.User
	if req.WorkerID != "" {
		u, err := s.repo.User.GetByID(ctx, req.WorkerID)
		if err != nil {
			return nil, notFoundAs(err, ErrWorkerNotFound)
		}
		workers = []model.User{*u}
	} else {
		workers, _, err = s.repo.User.List(ctx, model.RoleEmployee, repository.Page{})
		if err != nil {
			return nil, err
		}
	}

	cards, _, err := s.repo.JobCard.List(ctx, repository.JobCardFilter{WorkerID: req.WorkerID, From: &from, To: &to}, repository.Page{})
	if err != nil {
		return nil, err
	}
	days, err := s.repo.Attendance.ListRange(ctx, req.WorkerID, from, to)
	if err != nil {
		return nil, err
	}

	rows := make(map[string]*dto.ProductivityRow, len(workers))
	for i := range workers {
		rows[workers[i].UserID] = &dto.ProductivityRow{Worker: *userBrief(&workers[i])}
	}
	for _, c := range cards {
		r, ok := rows[c.WorkerID]
		if !ok {
			continue
		}
		r.TotalJobs++
		if c.Status == lifecycle.StatusCompleted {
			r.CompletedJobs++
			r.TotalWorkMinutes += c.WorkMinutes
		}
	}
	for i := range days {
		if r, ok := rows[days[i].WorkerID]; ok {
			r.TotalOTMinutes += days[i].TotalOTMinutes()
		}
	}

	out := make([]dto.ProductivityRow, 0, len(workers))
	for i := range workers {
		r := rows[workers[i].UserID]
		r.CompletionRate = percent(r.CompletedJobs, r.TotalJobs)
		out = append(out, *r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CompletedJobs > out[j].CompletedJobs })
	return out, nil
}

// ═══════════════════════════════════════════════════════════
// Daily views
// ═══════════════════════════════════════════════════════════

func (s *reportService) dateOrToday(date string) (time.Time, error) {
	if date == "" {
		return clock.Today(s.clock), nil
	}
	d, err := clock.ParseDate(date)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

func (s *reportService) DailyAttendance(ctx context.Context, date string) (*dto.DailyAttendanceReport, error) {
	d, err := s.dateOrToday(date)
	if err != nil {
		return nil, err
	}
	days, err := s.repo.Attendance.ListByDate(ctx, d)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.User.CountByRole(ctx, model.RoleEmployee, true)
	if err != nil {
		return nil, err
	}

	loc := s.clock.Location()
	r := &dto.DailyAttendanceReport{
		Date:         clock.FormatDate(d),
		TotalWorkers: total,
		Present:      len(days),
		Rows:         make([]dto.DailyAttendanceRow, 0, len(days)),
	}
	for i := range days {
		a := &days[i]
		start := a.DayStart.In(loc)
		late := start.After(s.window.StartOn(start))
		if late {
			r.LateStarts++
		}
		if !a.Ended() {
			r.OpenDays++
		}
		r.TotalRegular += a.RegularMinutes
		r.TotalOvertime += a.TotalOTMinutes()
		r.Rows = append(r.Rows, dto.DailyAttendanceRow{
			Worker:           briefOf(a.Worker, a.WorkerID),
			DayStart:         start,
			DayEnd:           inZone(a.DayEnd, loc),
			RegularMinutes:   a.RegularMinutes,
			MorningOTMinutes: a.MorningOTMinutes,
			EveningOTMinutes: a.EveningOTMinutes,
			Late:             late,
		})
	}
	return r, nil
}

func (s *reportService) WorkerDay(ctx context.Context, workerID, date string) (*dto.WorkerDayReport, error) {
	d, err := s.dateOrToday(date)
	if err != nil {
		return nil, err
	}
	u, err := s.repo.User.GetByID(ctx, workerID)
	if err != nil {
		return nil, notFoundAs(err, ErrWorkerNotFound)
	}

	loc := s.clock.Location()
	r := &dto.WorkerDayReport{Worker: *userBrief(u), Date: clock.FormatDate(d), Jobs: []dto.WorkerDayJob{}}

	day, err := s.repo.Attendance.GetByWorkerAndDate(ctx, workerID, d)
	switch {
	case err == nil:
		r.Attendance = toAttendanceResponse(day, loc)
	case !isNotFound(err):
		return nil, err
	}

	cards, err := s.repo.JobCard.ListForWorkerOnDate(ctx, workerID, d)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(cards))
	for _, c := range cards {
		ids = append(ids, c.JobCardID)
	}
	logs, err := s.repo.StatusEvent.ListByJobCards(ctx, ids)
	if err != nil {
		return nil, err
	}

	for i := range cards {
		c := &cards[i]
		events := model.LifecycleEvents(logs[c.JobCardID])
		b := lifecycle.Breakdown(events)
		job := dto.WorkerDayJob{
			JobCardID:     c.JobCardID,
			Status:        c.Status.String(),
			StartTime:     inZone(c.StartTime, loc),
			EndTime:       inZone(c.EndTime, loc),
			WorkMinutes:   lifecycle.WorkMinutes(events),
			IdleMinutes:   b.IdleMinutes,
			TravelMinutes: b.TravelMinutes,
			Approved:      c.Approved,
			Events:        make([]dto.StatusEventResponse, 0, len(events)),
		}
		if t := c.Ticket; t != nil {
			job.TicketNumber = t.TicketNumber
			job.Title = t.Title
			job.Generator = generatorBrief(t.Generator)
		}
		for j := range logs[c.JobCardID] {
			job.Events = append(job.Events, toEventResponse(&logs[c.JobCardID][j], loc))
		}
		if c.Approved {
			score, err := s.repo.Score.GetByJobCard(ctx, c.JobCardID)
			switch {
			case err == nil:
				w := score.Weight
				job.ScoreEarned = &w
				r.ScoreTotal += w
			case !isNotFound(err):
				return nil, err
			}
		}

		r.WorkMinutes += job.WorkMinutes
		r.IdleMinutes += job.IdleMinutes
		r.TravelMinutes += job.TravelMinutes
		r.Jobs = append(r.Jobs, job)
	}
	return r, nil
}

// ═══════════════════════════════════════════════════════════
// Dashboards
// ═══════════════════════════════════════════════════════════

func (s *reportService) AdminDashboard(ctx context.Context) (*dto.AdminDashboard, error) {
	today := clock.Today(s.clock)
	r := &dto.AdminDashboard{Date: clock.FormatDate(today), TicketsByStatus: make(map[string]int64)}

	var err error
	if r.TotalWorkers, err = s.repo.User.CountByRole(ctx, model.RoleEmployee, false); err != nil {
		return nil, err
	}
	if r.ActiveWorkers, err = s.repo.User.CountByRole(ctx, model.RoleEmployee, true); err != nil {
		return nil, err
	}

	days, err := s.repo.Attendance.ListByDate(ctx, today)
	if err != nil {
		return nil, err
	}
	r.PresentToday = len(days)
	for i := range days {
		r.OvertimeTodayMins += days[i].TotalOTMinutes()
	}

	all, err := s.repo.Ticket.CountByStatus(ctx, nil, nil)
	if err != nil {
		return nil, err
	}
	for _, st := range lifecycle.AllStatuses {
		r.TicketsByStatus[st.String()] = all[st]
	}
	todays, err := s.repo.Ticket.CountByStatus(ctx, &today, &today)
	if err != nil {
		return nil, err
	}
	for _, n := range todays {
		r.TicketsToday += n
	}

	no := false
	if r.PendingApprovals, err = s.repo.JobCard.Count(ctx, repository.JobCardFilter{Status: lifecycle.StatusCompleted, Approved: &no}); err != nil {
		return nil, err
	}
	if _, r.TotalGenerators, err = s.repo.Generator.List(ctx, "", repository.Page{Limit: 1}); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *reportService) WorkerDashboard(ctx context.Context, workerID string) (*dto.WorkerDashboard, error) {
	today := clock.Today(s.clock)
	loc := s.clock.Location()
	r := &dto.WorkerDashboard{Date: clock.FormatDate(today)}

	day, err := s.repo.Attendance.GetByWorkerAndDate(ctx, workerID, today)
	switch {
	case err == nil:
		r.Attendance = toAttendanceResponse(day, loc)
	case !isNotFound(err):
		return nil, err
	}

	cards, err := s.repo.JobCard.ListForWorkerOnDate(ctx, workerID, today)
	if err != nil {
		return nil, err
	}
	r.JobsToday = len(cards)
	for i := range cards {
		c := &cards[i]
		if c.Status == lifecycle.StatusCompleted {
			r.CompletedToday++
		}
		if c.Status.IsActive() && r.ActiveJob == nil {
			resp := toJobCardResponse(c, loc)
			r.ActiveJob = &resp
		}
		r.WorkMinutesToday += c.WorkMinutes
	}

	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	totals, err := s.repo.Score.TotalsByWorker(ctx, repository.ScoreFilter{WorkerID: workerID, From: &monthStart, To: &today})
	if err != nil {
		return nil, err
	}
	for _, t := range totals {
		r.MonthScoreTotal += t.Total
		r.MonthScoreCount += t.Count
	}

	month, err := s.repo.Attendance.ListRange(ctx, workerID, monthStart, today)
	if err != nil {
		return nil, err
	}
	for i := range month {
		r.MonthOTMinutes += month[i].TotalOTMinutes()
	}
	return r, nil
}
