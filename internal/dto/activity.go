package dto

import "time"

// ── Activity log ──

// ActivityListRequest listing query.
type ActivityListRequest struct {
	PaginationRequest
	WorkerID string `form:"worker_id" binding:"omitempty,uuid"`
	Type     string `form:"type"      binding:"omitempty,max=30"`
	From     string `form:"from"      binding:"omitempty,datetime=2006-01-02"`
	To       string `form:"to"        binding:"omitempty,datetime=2006-01-02"`
}

// ActivityResponse one audit row.
type ActivityResponse struct {
	ID          int64      `json:"id"`
	Type        string     `json:"type"`
	Performer   *UserBrief `json:"performer,omitempty"`
	Worker      *UserBrief `json:"worker,omitempty"`
	TicketID    string     `json:"ticket_id,omitempty"`
	JobCardID   string     `json:"job_card_id,omitempty"`
	GeneratorID string     `json:"generator_id,omitempty"`
	OldStatus   string     `json:"old_status,omitempty"`
	NewStatus   string     `json:"new_status,omitempty"`
	Latitude    *float64   `json:"latitude,omitempty"`
	Longitude   *float64   `json:"longitude,omitempty"`
	MapsURL     string     `json:"maps_url,omitempty"`
	Details     string     `json:"details,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
