package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/dto"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/lifecycle"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/service"
	"github.com/isira-aw/Metropolitan-NEW-EMS/pkg/response"
)

// ApprovalHandler review of completed work and the score ledger.
type ApprovalHandler struct {
	approvalSvc service.ApprovalService
}

// NewApprovalHandler creates an ApprovalHandler.
func NewApprovalHandler(approvalSvc service.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{approvalSvc: approvalSvc}
}

// ListPending GET /api/v1/approvals/pending
func (h *ApprovalHandler) ListPending(c *gin.Context) {
	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		bindFailed(c, err)
		return
	}

	cards, total, err := h.approvalSvc.ListPending(c.Request.Context(), &page)
	if err != nil {
		handleApprovalError(c, err)
		return
	}
	response.OKPage(c, cards, total, page.GetPage(), page.GetPageSize())
}

// Approve POST /api/v1/approvals/:id/approve
func (h *ApprovalHandler) Approve(c *gin.Context) {
	adminID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	card, err := h.approvalSvc.Approve(c.Request.Context(), c.Param("id"), adminID)
	if err != nil {
		handleApprovalError(c, err)
		return
	}
	response.OK(c, card)
}

// BulkApprove POST /api/v1/approvals/bulk
func (h *ApprovalHandler) BulkApprove(c *gin.Context) {
	var req dto.BulkApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	adminID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	n, err := h.approvalSvc.BulkApprove(c.Request.Context(), req.JobCardIDs, adminID)
	if err != nil {
		handleApprovalError(c, err)
		return
	}
	response.OK(c, gin.H{"requested": len(req.JobCardIDs), "approved": n})
}

// Reject POST /api/v1/approvals/:id/reject
func (h *ApprovalHandler) Reject(c *gin.Context) {
	adminID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	card, err := h.approvalSvc.Reject(c.Request.Context(), c.Param("id"), adminID)
	if err != nil {
		handleApprovalError(c, err)
		return
	}
	response.OK(c, card)
}

// Stats GET /api/v1/approvals/stats
func (h *ApprovalHandler) Stats(c *gin.Context) {
	stats, err := h.approvalSvc.Stats(c.Request.Context())
	if err != nil {
		handleApprovalError(c, err)
		return
	}
	response.OK(c, stats)
}

// AssignScore credits an approved card with its ticket's weight.
// POST /api/v1/scores/:id where :id is the job card
func (h *ApprovalHandler) AssignScore(c *gin.Context) {
	adminID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	score, err := h.approvalSvc.AssignScore(c.Request.Context(), c.Param("id"), adminID)
	if err != nil {
		handleApprovalError(c, err)
		return
	}
	response.Created(c, score)
}

// UpdateScore PUT /api/v1/scores/:id
func (h *ApprovalHandler) UpdateScore(c *gin.Context) {
	var req dto.UpdateScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	adminID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	score, err := h.approvalSvc.UpdateScore(c.Request.Context(), c.Param("id"), req.Weight, adminID)
	if err != nil {
		handleApprovalError(c, err)
		return
	}
	response.OK(c, score)
}

// DeleteScore DELETE /api/v1/scores/:id
func (h *ApprovalHandler) DeleteScore(c *gin.Context) {
	adminID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.approvalSvc.DeleteScore(c.Request.Context(), c.Param("id"), adminID); err != nil {
		handleApprovalError(c, err)
		return
	}
	response.OK(c, nil)
}

// ListScores GET /api/v1/scores
func (h *ApprovalHandler) ListScores(c *gin.Context) {
	var req dto.ScoreListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	scores, total, err := h.approvalSvc.ListScores(c.Request.Context(), &req)
	if err != nil {
		handleApprovalError(c, err)
		return
	}
	response.OKPage(c, scores, total, req.GetPage(), req.GetPageSize())
}

// Backfill POST /api/v1/scores/backfill
func (h *ApprovalHandler) Backfill(c *gin.Context) {
	n, err := h.approvalSvc.BackfillScores(c.Request.Context())
	if err != nil {
		handleApprovalError(c, err)
		return
	}
	response.OK(c, gin.H{"created": n})
}

func handleApprovalError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, lifecycle.ErrNotCompleted):
		response.BadRequest(c, 25001, "job card is not completed")
	case errors.Is(err, lifecycle.ErrNotApproved):
		response.BadRequest(c, 25002, "job card is not approved")
	case errors.Is(err, lifecycle.ErrAlreadyScored):
		response.Conflict(c, 25003, "job card already has a score", "")
	case errors.Is(err, lifecycle.ErrMissingEndTime):
		response.BadRequest(c, 25004, "job card has no end time")
	case errors.Is(err, lifecycle.ErrInvalidWeight):
		response.BadRequest(c, 25006, err.Error())
	default:
		handleCommonError(c, err)
	}
}
