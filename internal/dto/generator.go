package dto

import "time"

// ── Generators ──

// GeneratorRequest create/update body.
type GeneratorRequest struct {
	Model          string `json:"model"           binding:"required,max=100"`
	Name           string `json:"name"            binding:"required,max=150"`
	Capacity       string `json:"capacity"        binding:"omitempty,max=50"`
	LocationName   string `json:"location_name"   binding:"omitempty,max=255"`
	OwnerEmail     string `json:"owner_email"     binding:"omitempty,email"`
	WhatsAppNumber string `json:"whatsapp_number" binding:"omitempty,max=20"`
	LandlineNumber string `json:"landline_number" binding:"omitempty,max=20"`
	Note           string `json:"note"`
}

// GeneratorListRequest listing query.
type GeneratorListRequest struct {
	PaginationRequest
	Name string `form:"name" binding:"omitempty,max=150"`
}

// GeneratorResponse full generator.
type GeneratorResponse struct {
	ID             string    `json:"id"`
	Model          string    `json:"model"`
	Name           string    `json:"name"`
	Capacity       string    `json:"capacity"`
	LocationName   string    `json:"location_name"`
	OwnerEmail     string    `json:"owner_email"`
	WhatsAppNumber string    `json:"whatsapp_number"`
	LandlineNumber string    `json:"landline_number"`
	Note           string    `json:"note"`
	CreatedAt      time.Time `json:"created_at"`
}

// GeneratorHistoryResponse service history of one generator.
type GeneratorHistoryResponse struct {
	Generator         GeneratorResponse `json:"generator"`
	TotalServices     int64             `json:"total_services"`
	CompletedServices int64             `json:"completed_services"`
	Tickets           []TicketResponse  `json:"tickets"`
}
