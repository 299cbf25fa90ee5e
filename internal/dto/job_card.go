package dto

import "time"

// ── Job cards ──

// UpdateStatusRequest worker status change.
type UpdateStatusRequest struct {
	Status    string   `json:"status"    binding:"required,oneof=PENDING TRAVELING STARTED ON_HOLD COMPLETED CANCEL"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// MyJobCardsRequest worker listing query; Date defaults to today.
type MyJobCardsRequest struct {
	PaginationRequest
	Date   string `form:"date"   binding:"omitempty,datetime=2006-01-02"`
	Status string `form:"status" binding:"omitempty,oneof=PENDING TRAVELING STARTED ON_HOLD COMPLETED CANCEL"`
}

// JobCardResponse one worker's card.
type JobCardResponse struct {
	ID            string          `json:"id"`
	TicketID      string          `json:"ticket_id"`
	TicketNumber  string          `json:"ticket_number,omitempty"`
	Title         string          `json:"title,omitempty"`
	Weight        int             `json:"weight,omitempty"`
	ScheduledDate string          `json:"scheduled_date,omitempty"`
	ScheduledTime string          `json:"scheduled_time,omitempty"`
	Generator     *GeneratorBrief `json:"generator,omitempty"`
	Worker        *UserBrief      `json:"worker,omitempty"`
	Status        string          `json:"status"`
	StartTime     *time.Time      `json:"start_time,omitempty"`
	EndTime       *time.Time      `json:"end_time,omitempty"`
	Approved      bool            `json:"approved"`
	WorkMinutes   int             `json:"work_minutes"`
	ImageRef      string          `json:"image_ref,omitempty"`
	ImageURL      string          `json:"image_url,omitempty"`
}

// StatusEventResponse one log row.
type StatusEventResponse struct {
	ID         int64     `json:"id"`
	ActorID    string    `json:"actor_id"`
	PrevStatus string    `json:"prev_status"`
	NewStatus  string    `json:"new_status"`
	Latitude   *float64  `json:"latitude,omitempty"`
	Longitude  *float64  `json:"longitude,omitempty"`
	MapsURL    string    `json:"maps_url,omitempty"`
	LoggedAt   time.Time `json:"logged_at"`
}

// RebuildResult outcome of recomputing cached work minutes from the log.
type RebuildResult struct {
	Checked  int               `json:"checked"`
	Repaired int               `json:"repaired"`
	Drifts   []WorkMinuteDrift `json:"drifts,omitempty"`
}

// WorkMinuteDrift a card whose cached minutes disagreed with the log.
type WorkMinuteDrift struct {
	JobCardID string `json:"job_card_id"`
	Cached    int    `json:"cached"`
	Replayed  int    `json:"replayed"`
}
