package dto

import "time"

// ── Reports ──
// One record type per report; nothing here is a loose map.

// ReportRequest common report query. WorkerID is optional.
type ReportRequest struct {
	WorkerID string `form:"worker_id" binding:"omitempty,uuid"`
	From     string `form:"from"      binding:"required,datetime=2006-01-02"`
	To       string `form:"to"        binding:"required,datetime=2006-01-02"`
}

// TimeTrackingRow one worker-day.
type TimeTrackingRow struct {
	Worker           UserBrief  `json:"worker"`
	Date             string     `json:"date"`
	DayStart         time.Time  `json:"day_start"`
	DayEnd           *time.Time `json:"day_end,omitempty"`
	WorkMinutes      int        `json:"work_minutes"`
	IdleMinutes      int        `json:"idle_minutes"`
	TravelMinutes    int        `json:"travel_minutes"`
	RegularMinutes   int        `json:"regular_minutes"`
	MorningOTMinutes int        `json:"morning_ot_minutes"`
	EveningOTMinutes int        `json:"evening_ot_minutes"`
	Path             []GeoPoint `json:"path"`
}

// OvertimeRow one worker-day of overtime.
type OvertimeRow struct {
	Worker           UserBrief `json:"worker"`
	Date             string    `json:"date"`
	MorningOTMinutes int       `json:"morning_ot_minutes"`
	EveningOTMinutes int       `json:"evening_ot_minutes"`
	TotalOTMinutes   int       `json:"total_ot_minutes"`
}

// OvertimeTotal one worker's overtime over the range.
type OvertimeTotal struct {
	Worker           UserBrief `json:"worker"`
	Days             int       `json:"days"`
	MorningOTMinutes int       `json:"morning_ot_minutes"`
	EveningOTMinutes int       `json:"evening_ot_minutes"`
	TotalOTMinutes   int       `json:"total_ot_minutes"`
}

// OvertimeReport rows plus per-worker totals.
type OvertimeReport struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Rows   []OvertimeRow   `json:"rows"`
	Totals []OvertimeTotal `json:"totals"`
}

// GeneratorOvertime overtime attributed to a generator: a worker-day's
// overtime counts toward every generator the worker started a job on that day.
type GeneratorOvertime struct {
	Generator        GeneratorBrief `json:"generator"`
	MorningOTMinutes int            `json:"morning_ot_minutes"`
	EveningOTMinutes int            `json:"evening_ot_minutes"`
	TotalOTMinutes   int            `json:"total_ot_minutes"`
}

// OvertimeByGeneratorReport per-generator overtime.
type OvertimeByGeneratorReport struct {
	From       string              `json:"from"`
	To         string              `json:"to"`
	Generators []GeneratorOvertime `json:"generators"`
}

// WorkerScore score totals for one worker.
type WorkerScore struct {
	Worker  UserBrief `json:"worker"`
	Total   int64     `json:"total"`
	Count   int64     `json:"count"`
	Average float64   `json:"average"`
}

// ScoreReport per-worker totals.
type ScoreReport struct {
	From    string        `json:"from"`
	To      string        `json:"to"`
	Workers []WorkerScore `json:"workers"`
}

// TicketCompletionReport tickets by status over the scheduled range.
type TicketCompletionReport struct {
	From           string  `json:"from"`
	To             string  `json:"to"`
	Total          int64   `json:"total"`
	Pending        int64   `json:"pending"`
	Active         int64   `json:"active"`
	Completed      int64   `json:"completed"`
	Cancelled      int64   `json:"cancelled"`
	CompletionRate float64 `json:"completion_rate"` // percent
}

// ProductivityRow one worker's output over the range.
type ProductivityRow struct {
	Worker           UserBrief `json:"worker"`
	TotalJobs        int64     `json:"total_jobs"`
	CompletedJobs    int64     `json:"completed_jobs"`
	TotalWorkMinutes int       `json:"total_work_minutes"`
	TotalOTMinutes   int       `json:"total_ot_minutes"`
	CompletionRate   float64   `json:"completion_rate"` // percent
}

// DailyAttendanceRow one worker present on the day.
type DailyAttendanceRow struct {
	Worker           UserBrief  `json:"worker"`
	DayStart         time.Time  `json:"day_start"`
	DayEnd           *time.Time `json:"day_end,omitempty"`
	RegularMinutes   int        `json:"regular_minutes"`
	MorningOTMinutes int        `json:"morning_ot_minutes"`
	EveningOTMinutes int        `json:"evening_ot_minutes"`
	Late             bool       `json:"late"`
}

// DailyAttendanceReport who worked on a date.
type DailyAttendanceReport struct {
	Date          string               `json:"date"`
	TotalWorkers  int64                `json:"total_workers"`
	Present       int                  `json:"present"`
	OpenDays      int                  `json:"open_days"`
	LateStarts    int                  `json:"late_starts"`
	TotalRegular  int                  `json:"total_regular_minutes"`
	TotalOvertime int                  `json:"total_ot_minutes"`
	Rows          []DailyAttendanceRow `json:"rows"`
}

// WorkerDayJob one job in a worker-day report.
type WorkerDayJob struct {
	JobCardID     string                `json:"job_card_id"`
	TicketNumber  string                `json:"ticket_number"`
	Title         string                `json:"title"`
	Generator     *GeneratorBrief       `json:"generator,omitempty"`
	Status        string                `json:"status"`
	StartTime     *time.Time            `json:"start_time,omitempty"`
	EndTime       *time.Time            `json:"end_time,omitempty"`
	WorkMinutes   int                   `json:"work_minutes"`
	IdleMinutes   int                   `json:"idle_minutes"`
	TravelMinutes int                   `json:"travel_minutes"`
	Approved      bool                  `json:"approved"`
	ScoreEarned   *int                  `json:"score_earned,omitempty"`
	Events        []StatusEventResponse `json:"events"`
}

// WorkerDayReport everything one worker did on a date.
type WorkerDayReport struct {
	Worker        UserBrief              `json:"worker"`
	Date          string                 `json:"date"`
	Attendance    *AttendanceDayResponse `json:"attendance,omitempty"`
	Jobs          []WorkerDayJob         `json:"jobs"`
	WorkMinutes   int                    `json:"work_minutes"`
	IdleMinutes   int                    `json:"idle_minutes"`
	TravelMinutes int                    `json:"travel_minutes"`
	ScoreTotal    int                    `json:"score_total"`
}

// AdminDashboard headline numbers for administrators.
type AdminDashboard struct {
	Date              string           `json:"date"`
	TotalWorkers      int64            `json:"total_workers"`
	ActiveWorkers     int64            `json:"active_workers"`
	PresentToday      int              `json:"present_today"`
	TicketsByStatus   map[string]int64 `json:"tickets_by_status"`
	TicketsToday      int64            `json:"tickets_today"`
	PendingApprovals  int64            `json:"pending_approvals"`
	TotalGenerators   int64            `json:"total_generators"`
	OvertimeTodayMins int              `json:"overtime_today_minutes"`
}

// WorkerDashboard headline numbers for a worker.
type WorkerDashboard struct {
	Date             string                 `json:"date"`
	Attendance       *AttendanceDayResponse `json:"attendance,omitempty"`
	JobsToday        int                    `json:"jobs_today"`
	CompletedToday   int                    `json:"completed_today"`
	ActiveJob        *JobCardResponse       `json:"active_job,omitempty"`
	WorkMinutesToday int                    `json:"work_minutes_today"`
	MonthScoreTotal  int64                  `json:"month_score_total"`
	MonthScoreCount  int64                  `json:"month_score_count"`
	MonthOTMinutes   int                    `json:"month_ot_minutes"`
}
