package dto

import "time"

// ── Pagination ──

// PaginationRequest common paging query parameters.
type PaginationRequest struct {
	Page     int `form:"page"      binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// GetPage page number with default.
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// GetPageSize page size with default.
func (p *PaginationRequest) GetPageSize() int {
	if p.PageSize <= 0 {
		return 20
	}
	return p.PageSize
}

// GetOffset row offset.
func (p *PaginationRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}

// DateRangeRequest inclusive civil-date range, YYYY-MM-DD.
type DateRangeRequest struct {
	From string `form:"from" binding:"required,datetime=2006-01-02"`
	To   string `form:"to"   binding:"required,datetime=2006-01-02"`
}

// ── Shared responses ──

// UserBrief is the minimal user reference embedded in other responses.
type UserBrief struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
}

// GeneratorBrief is the minimal generator reference.
type GeneratorBrief struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Model        string `json:"model"`
	LocationName string `json:"location_name"`
}

// GeoPoint is a recorded coordinate with a maps link.
type GeoPoint struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	At        time.Time `json:"at"`
	Status    string    `json:"status,omitempty"`
	MapsURL   string    `json:"maps_url"`
}

// CountResponse is returned by batch operations.
type CountResponse struct {
	Count int `json:"count"`
}
