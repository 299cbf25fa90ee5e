package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/dto"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/lifecycle"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/service"
	"github.com/isira-aw/Metropolitan-NEW-EMS/pkg/response"
)

// JobCardHandler worker job cards.
type JobCardHandler struct {
	jobCardSvc    service.JobCardService
	maxImageBytes int64
}

// NewJobCardHandler creates a JobCardHandler.
func NewJobCardHandler(jobCardSvc service.JobCardService, maxImageBytes int64) *JobCardHandler {
	return &JobCardHandler{jobCardSvc: jobCardSvc, maxImageBytes: maxImageBytes}
}

// ListMine lists the caller's cards for a day, today by default.
// GET /api/v1/job-cards/my
func (h *JobCardHandler) ListMine(c *gin.Context) {
	var req dto.MyJobCardsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}
	workerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	cards, total, err := h.jobCardSvc.ListMine(c.Request.Context(), workerID, &req)
	if err != nil {
		handleJobCardError(c, err)
		return
	}
	response.OKPage(c, cards, total, req.GetPage(), req.GetPageSize())
}

// GetMine GET /api/v1/job-cards/my/:id
func (h *JobCardHandler) GetMine(c *gin.Context) {
	workerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	card, err := h.jobCardSvc.GetMine(c.Request.Context(), workerID, c.Param("id"))
	if err != nil {
		handleJobCardError(c, err)
		return
	}
	response.OK(c, card)
}

// GetJobCard is the administrator view of any card.
// GET /api/v1/job-cards/:id
func (h *JobCardHandler) GetJobCard(c *gin.Context) {
	card, err := h.jobCardSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleJobCardError(c, err)
		return
	}
	response.OK(c, card)
}

// UpdateStatus moves a card through its lifecycle.
// PUT /api/v1/job-cards/:id/status
func (h *JobCardHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	actorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	card, err := h.jobCardSvc.UpdateStatus(c.Request.Context(), c.Param("id"), &req, actorID)
	if err != nil {
		handleJobCardError(c, err)
		return
	}
	response.OK(c, card)
}

// ListEvents returns a card's status log. Workers only see their own.
// GET /api/v1/job-cards/:id/events
func (h *JobCardHandler) ListEvents(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	events, err := h.jobCardSvc.ListEvents(c.Request.Context(), c.Param("id"), callerID, role)
	if err != nil {
		handleJobCardError(c, err)
		return
	}
	response.OK(c, gin.H{"list": events})
}

// AttachImage stores a photo of the job, multipart field "image".
// POST /api/v1/job-cards/:id/image
func (h *JobCardHandler) AttachImage(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("image")
	if err != nil {
		bindFailed(c, err)
		return
	}
	if h.maxImageBytes > 0 && fh.Size > h.maxImageBytes {
		response.PayloadTooLarge(c, 23007, "image is larger than "+strconv.FormatInt(h.maxImageBytes, 10)+" bytes")
		return
	}
	f, err := fh.Open()
	if err != nil {
		bindFailed(c, err)
		return
	}
	defer f.Close()

	card, err := h.jobCardSvc.AttachImage(c.Request.Context(), c.Param("id"), callerID, role, f, fh.Size, fh.Header.Get("Content-Type"))
	if err != nil {
		handleJobCardError(c, err)
		return
	}
	response.OK(c, card)
}

// RebuildMinutes compares cached work minutes with the status logs and,
// with ?repair=true, fixes the ones that drifted.
// POST /api/v1/job-cards/rebuild-minutes
func (h *JobCardHandler) RebuildMinutes(c *gin.Context) {
	repair, _ := strconv.ParseBool(c.Query("repair"))

	res, err := h.jobCardSvc.RebuildWorkMinutes(c.Request.Context(), repair)
	if err != nil {
		handleJobCardError(c, err)
		return
	}
	response.OK(c, res)
}

// handleJobCardError maps transition failures. The attendance-day checks
// made while moving a card share the attendance codes.
func handleJobCardError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, lifecycle.ErrUnauthorized):
		response.Forbidden(c, 23002, "job card is not assigned to you")
	case errors.Is(err, lifecycle.ErrInvalidTransition):
		response.BadRequest(c, 23003, err.Error())
	case errors.Is(err, lifecycle.ErrConcurrentActiveJob):
		response.Conflict(c, 23004, "another job is already in progress today", "")
	case errors.Is(err, lifecycle.ErrDateRestricted):
		response.BadRequest(c, 23005, "only jobs scheduled for today can be updated")
	case errors.Is(err, service.ErrUnsupportedImage):
		response.BadRequest(c, 23007, err.Error())
	case errors.Is(err, service.ErrStorageUnavailable):
		response.Error(c, http.StatusServiceUnavailable, 23007, "image storage is not configured")
	case errors.Is(err, lifecycle.ErrDayNotStarted):
		response.BadRequest(c, 24001, "start your day first")
	case errors.Is(err, lifecycle.ErrDayAlreadyEnded):
		response.BadRequest(c, 24003, "your day has already ended")
	default:
		handleCommonError(c, err)
	}
}
