package model

import (
	"time"

	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/lifecycle"
)

// JobCard is one worker's share of a ticket.
type JobCard struct {
	JobCardID   string           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"  json:"job_card_id"`
	TicketID    string           `gorm:"type:uuid;not null;uniqueIndex:uq_ticket_worker" json:"ticket_id"`
	WorkerID    string           `gorm:"type:uuid;not null;uniqueIndex:uq_ticket_worker" json:"worker_id"`
	Status      lifecycle.Status `gorm:"type:varchar(20);not null;default:'PENDING'"     json:"status"`
	StartTime   *time.Time       `                                                       json:"start_time,omitempty"`
	EndTime     *time.Time       `                                                       json:"end_time,omitempty"`
	Approved    bool             `gorm:"not null;default:false"                          json:"approved"`
	WorkMinutes int              `gorm:"not null;default:0"                              json:"work_minutes"`
	ImageRef    *string          `gorm:"type:varchar(500)"                               json:"image_ref,omitempty"`
	BaseModel

	Ticket *Ticket `gorm:"foreignKey:TicketID;references:TicketID" json:"ticket,omitempty"`
	Worker *User   `gorm:"foreignKey:WorkerID;references:UserID"   json:"worker,omitempty"`
}

// TableName job_cards
func (JobCard) TableName() string { return "job_cards" }

// StatusEvent is one immutable row of a job card's status log.
type StatusEvent struct {
	EventID    int64            `gorm:"primaryKey;autoIncrement"           json:"event_id"`
	JobCardID  string           `gorm:"type:uuid;not null;index"           json:"job_card_id"`
	ActorID    string           `gorm:"type:uuid;not null"                 json:"actor_id"`
	PrevStatus lifecycle.Status `gorm:"type:varchar(20);not null"          json:"prev_status"`
	NewStatus  lifecycle.Status `gorm:"type:varchar(20);not null"          json:"new_status"`
	Latitude   *float64         `                                          json:"latitude,omitempty"`
	Longitude  *float64         `                                          json:"longitude,omitempty"`
	LoggedAt   time.Time        `gorm:"not null"                           json:"logged_at"`

	Actor *User `gorm:"foreignKey:ActorID;references:UserID" json:"actor,omitempty"`
}

// TableName status_events
func (StatusEvent) TableName() string { return "status_events" }

// LifecycleEvent strips the row down to what time accounting reads.
func (e *StatusEvent) LifecycleEvent() lifecycle.Event {
	return lifecycle.Event{Seq: e.EventID, NewStatus: e.NewStatus, At: e.LoggedAt}
}

// LifecycleEvents converts a slice of rows.
func LifecycleEvents(rows []StatusEvent) []lifecycle.Event {
	out := make([]lifecycle.Event, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].LifecycleEvent())
	}
	return out
}
