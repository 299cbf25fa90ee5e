package model

import "time"

// Score is the performance credit for an approved job card. The value is the
// ticket's weight at approval time; administrators may correct it.
type Score struct {
	ScoreID    string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"score_id"`
	JobCardID  string    `gorm:"type:uuid;not null;uniqueIndex"                 json:"job_card_id"`
	WorkerID   string    `gorm:"type:uuid;not null;index"                       json:"worker_id"`
	WorkDate   time.Time `gorm:"type:date;not null;index"                       json:"work_date"`
	Weight     int       `gorm:"not null"                                       json:"weight"`
	ApprovedBy string    `gorm:"type:uuid;not null"                             json:"approved_by"`
	ApprovedAt time.Time `gorm:"not null"                                       json:"approved_at"`
	BaseModel

	JobCard *JobCard `gorm:"foreignKey:JobCardID;references:JobCardID" json:"job_card,omitempty"`
	Worker  *User    `gorm:"foreignKey:WorkerID;references:UserID"     json:"worker,omitempty"`
}

// TableName scores
func (Score) TableName() string { return "scores" }
