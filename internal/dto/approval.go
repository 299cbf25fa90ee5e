package dto

import "time"

// ── Approval and scores ──

// BulkApproveRequest approves many cards at once.
type BulkApproveRequest struct {
	JobCardIDs []string `json:"job_card_ids" binding:"required,min=1,max=200,dive,uuid"`
}

// UpdateScoreRequest weight correction.
type UpdateScoreRequest struct {
	Weight int `json:"weight" binding:"required,min=1,max=5"`
}

// ScoreListRequest listing query.
type ScoreListRequest struct {
	PaginationRequest
	WorkerID string `form:"worker_id" binding:"omitempty,uuid"`
	TicketID string `form:"ticket_id" binding:"omitempty,uuid"`
	From     string `form:"from"      binding:"omitempty,datetime=2006-01-02"`
	To       string `form:"to"        binding:"omitempty,datetime=2006-01-02"`
}

// ScoreResponse one score.
type ScoreResponse struct {
	ID           string     `json:"id"`
	JobCardID    string     `json:"job_card_id"`
	TicketNumber string     `json:"ticket_number,omitempty"`
	Worker       *UserBrief `json:"worker,omitempty"`
	WorkerID     string     `json:"worker_id"`
	WorkDate     string     `json:"work_date"`
	Weight       int        `json:"weight"`
	ApprovedBy   string     `json:"approved_by"`
	ApprovedAt   time.Time  `json:"approved_at"`
}

// ApprovalStats review pipeline counters. Rejected counts cards sent back
// to ON_HOLD.
type ApprovalStats struct {
	PendingApproval int64 `json:"pending_approval"`
	Approved        int64 `json:"approved"`
	Rejected        int64 `json:"rejected"`
	TotalCompleted  int64 `json:"total_completed"`
}
