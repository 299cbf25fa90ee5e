package dto

import "time"

// ── Tickets ──

// CreateTicketRequest admin creates a ticket with its job cards.
type CreateTicketRequest struct {
	GeneratorID   string   `json:"generator_id"   binding:"required,uuid"`
	Title         string   `json:"title"          binding:"required,max=200"`
	Description   string   `json:"description"`
	Category      string   `json:"category"       binding:"required,oneof=SERVICE REPAIR MAINTENANCE VISIT EMERGENCY"`
	Weight        int      `json:"weight"         binding:"required,min=1,max=5"`
	ScheduledDate string   `json:"scheduled_date" binding:"required,datetime=2006-01-02"`
	ScheduledTime string   `json:"scheduled_time" binding:"omitempty,datetime=15:04"`
	WorkerIDs     []string `json:"worker_ids"     binding:"required,min=1,max=5,unique,dive,uuid"`
}

// UpdateTicketRequest partial update. WorkerIDs, when present, replaces
// the assignment set.
type UpdateTicketRequest struct {
	Version       int       `json:"version"        binding:"required,min=1"`
	GeneratorID   *string   `json:"generator_id"   binding:"omitempty,uuid"`
	Title         *string   `json:"title"          binding:"omitempty,max=200"`
	Description   *string   `json:"description"`
	Category      *string   `json:"category"       binding:"omitempty,oneof=SERVICE REPAIR MAINTENANCE VISIT EMERGENCY"`
	Weight        *int      `json:"weight"         binding:"omitempty,min=1,max=5"`
	ScheduledDate *string   `json:"scheduled_date" binding:"omitempty,datetime=2006-01-02"`
	ScheduledTime *string   `json:"scheduled_time" binding:"omitempty,datetime=15:04"`
	WorkerIDs     *[]string `json:"worker_ids"     binding:"omitempty,min=1,max=5,unique,dive,uuid"`
}

// AssignWorkerRequest adds one worker.
type AssignWorkerRequest struct {
	WorkerID string `json:"worker_id" binding:"required,uuid"`
}

// TicketListRequest listing query.
type TicketListRequest struct {
	PaginationRequest
	Status      string `form:"status"       binding:"omitempty,oneof=PENDING TRAVELING STARTED ON_HOLD COMPLETED CANCEL"`
	GeneratorID string `form:"generator_id" binding:"omitempty,uuid"`
	CreatedBy   string `form:"created_by"   binding:"omitempty,uuid"`
	WorkerID    string `form:"worker_id"    binding:"omitempty,uuid"`
	Search      string `form:"search"       binding:"omitempty,max=100"`
	From        string `form:"from"         binding:"omitempty,datetime=2006-01-02"`
	To          string `form:"to"           binding:"omitempty,datetime=2006-01-02"`
}

// NotifyRequest custom admin message to the generator owner.
type NotifyRequest struct {
	Message  string   `json:"message"  binding:"required,max=1000"`
	Channels []string `json:"channels" binding:"omitempty,dive,oneof=email whatsapp"`
}

// TicketResponse ticket with its cards.
type TicketResponse struct {
	ID            string            `json:"id"`
	TicketNumber  string            `json:"ticket_number"`
	Generator     *GeneratorBrief   `json:"generator,omitempty"`
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	Category      string            `json:"category"`
	Weight        int               `json:"weight"`
	Status        string            `json:"status"`
	ScheduledDate string            `json:"scheduled_date"`
	ScheduledTime string            `json:"scheduled_time"`
	CreatedBy     string            `json:"created_by,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	Version       int               `json:"version"`
	JobCards      []JobCardResponse `json:"job_cards,omitempty"`
}
