package model

import "time"

// AttendanceDay is a worker's clock-in/clock-out for one date.
type AttendanceDay struct {
	AttendanceID     string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"attendance_id"`
	WorkerID         string     `gorm:"type:uuid;not null;uniqueIndex:uq_worker_date"  json:"worker_id"`
	WorkDate         time.Time  `gorm:"type:date;not null;uniqueIndex:uq_worker_date"  json:"work_date"`
	DayStart         time.Time  `gorm:"not null"                                       json:"day_start"`
	DayEnd           *time.Time `                                                      json:"day_end,omitempty"`
	RegularMinutes   int        `gorm:"not null;default:0"                             json:"regular_minutes"`
	MorningOTMinutes int        `gorm:"column:morning_ot_minutes;not null;default:0"   json:"morning_ot_minutes"`
	EveningOTMinutes int        `gorm:"column:evening_ot_minutes;not null;default:0"   json:"evening_ot_minutes"`
	BaseModel

	Worker *User `gorm:"foreignKey:WorkerID;references:UserID" json:"worker,omitempty"`
}

// TableName attendance_days
func (AttendanceDay) TableName() string { return "attendance_days" }

// Ended reports whether the day has been closed.
func (a *AttendanceDay) Ended() bool { return a.DayEnd != nil }

// TotalOTMinutes morning + evening overtime.
func (a *AttendanceDay) TotalOTMinutes() int { return a.MorningOTMinutes + a.EveningOTMinutes }
