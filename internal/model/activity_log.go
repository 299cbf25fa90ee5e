package model

import "time"

// Activity types.
const (
	ActivityDayStart        = "DAY_START"
	ActivityDayEnd          = "DAY_END"
	ActivityStatusUpdate    = "STATUS_UPDATE"
	ActivityJobApproved     = "JOB_APPROVED"
	ActivityJobRejected     = "JOB_REJECTED"
	ActivityScoreAssigned   = "SCORE_ASSIGNED"
	ActivityScoreUpdated    = "SCORE_UPDATED"
	ActivityScoreDeleted    = "SCORE_DELETED"
	ActivityTicketCreated   = "TICKET_CREATED"
	ActivityTicketUpdated   = "TICKET_UPDATED"
	ActivityTicketCancelled = "TICKET_CANCELLED"
	ActivityTicketDeleted   = "TICKET_DELETED"
	ActivityJobAssigned     = "JOB_ASSIGNED"
	ActivityJobUnassigned   = "JOB_UNASSIGNED"
	ActivityImageAttached   = "IMAGE_ATTACHED"
)

// ActivityLog is the audit trail shown to administrators. It is separate
// from the status log, which remains the source of truth for time.
type ActivityLog struct {
	ActivityID   int64     `gorm:"primaryKey;autoIncrement"        json:"activity_id"`
	ActivityType string    `gorm:"type:varchar(30);not null;index" json:"activity_type"`
	PerformerID  *string   `gorm:"type:uuid"                       json:"performer_id,omitempty"`
	WorkerID     *string   `gorm:"type:uuid;index"                 json:"worker_id,omitempty"`
	TicketID     *string   `gorm:"type:uuid"                       json:"ticket_id,omitempty"`
	JobCardID    *string   `gorm:"type:uuid"                       json:"job_card_id,omitempty"`
	GeneratorID  *string   `gorm:"type:uuid"                       json:"generator_id,omitempty"`
	OldStatus    string    `gorm:"type:varchar(20)"                json:"old_status,omitempty"`
	NewStatus    string    `gorm:"type:varchar(20)"                json:"new_status,omitempty"`
	Latitude     *float64  `                                       json:"latitude,omitempty"`
	Longitude    *float64  `                                       json:"longitude,omitempty"`
	Details      string    `gorm:"type:text"                       json:"details,omitempty"`
	CreatedAt    time.Time `gorm:"not null;index"                  json:"created_at"`

	Performer *User `gorm:"foreignKey:PerformerID;references:UserID" json:"performer,omitempty"`
	Worker    *User `gorm:"foreignKey:WorkerID;references:UserID"    json:"worker,omitempty"`
}

// TableName activity_logs
func (ActivityLog) TableName() string { return "activity_logs" }
