package dto

import "time"

// ── Attendance ──

// DayEventRequest optional location for day start/end.
type DayEventRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// AttendanceHistoryRequest worker history query.
type AttendanceHistoryRequest struct {
	From string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To   string `form:"to"   binding:"omitempty,datetime=2006-01-02"`
}

// AttendanceDayResponse one attendance record.
type AttendanceDayResponse struct {
	ID               string     `json:"id"`
	Worker           *UserBrief `json:"worker,omitempty"`
	WorkDate         string     `json:"work_date"`
	DayStart         time.Time  `json:"day_start"`
	DayEnd           *time.Time `json:"day_end,omitempty"`
	RegularMinutes   int        `json:"regular_minutes"`
	MorningOTMinutes int        `json:"morning_ot_minutes"`
	EveningOTMinutes int        `json:"evening_ot_minutes"`
	TotalOTMinutes   int        `json:"total_ot_minutes"`
}

// TodayResponse state of the worker's current day.
type TodayResponse struct {
	Date     string                 `json:"date"`
	Started  bool                   `json:"started"`
	Ended    bool                   `json:"ended"`
	Day      *AttendanceDayResponse `json:"day,omitempty"`
	OpenJobs int                    `json:"open_jobs"`
}
