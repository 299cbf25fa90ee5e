package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/dto"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/lifecycle"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/service"
	"github.com/isira-aw/Metropolitan-NEW-EMS/pkg/response"
)

// AttendanceHandler day start and end.
type AttendanceHandler struct {
	attendanceSvc service.AttendanceService
}

// NewAttendanceHandler creates an AttendanceHandler.
func NewAttendanceHandler(attendanceSvc service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceSvc: attendanceSvc}
}

// StartDay POST /api/v1/attendance/start
func (h *AttendanceHandler) StartDay(c *gin.Context) {
	var req dto.DayEventRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		bindFailed(c, err)
		return
	}
	workerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	day, err := h.attendanceSvc.StartDay(c.Request.Context(), workerID, &req)
	if err != nil {
		handleAttendanceError(c, err)
		return
	}
	response.Created(c, day)
}

// EndDay POST /api/v1/attendance/end
func (h *AttendanceHandler) EndDay(c *gin.Context) {
	var req dto.DayEventRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		bindFailed(c, err)
		return
	}
	workerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	day, err := h.attendanceSvc.EndDay(c.Request.Context(), workerID, &req)
	if err != nil {
		handleAttendanceError(c, err)
		return
	}
	response.OK(c, day)
}

// Today GET /api/v1/attendance/today
func (h *AttendanceHandler) Today(c *gin.Context) {
	workerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	today, err := h.attendanceSvc.Today(c.Request.Context(), workerID)
	if err != nil {
		handleAttendanceError(c, err)
		return
	}
	response.OK(c, today)
}

// History GET /api/v1/attendance/history
func (h *AttendanceHandler) History(c *gin.Context) {
	var req dto.AttendanceHistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}
	workerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	days, err := h.attendanceSvc.History(c.Request.Context(), workerID, &req)
	if err != nil {
		handleAttendanceError(c, err)
		return
	}
	response.OK(c, gin.H{"list": days})
}

// ListByDate is the administrator roll call for one date.
// GET /api/v1/attendance?date=YYYY-MM-DD
func (h *AttendanceHandler) ListByDate(c *gin.Context) {
	days, err := h.attendanceSvc.ListByDate(c.Request.Context(), c.Query("date"))
	if err != nil {
		handleAttendanceError(c, err)
		return
	}
	response.OK(c, gin.H{"list": days})
}

func handleAttendanceError(c *gin.Context, err error) {
	var open *lifecycle.OpenTicketsError
	switch {
	case errors.As(err, &open):
		response.Conflict(c, 24004, "complete or cancel today's open jobs before ending the day", open.Detail())
	case errors.Is(err, lifecycle.ErrDayNotStarted):
		response.BadRequest(c, 24001, "day has not been started")
	case errors.Is(err, lifecycle.ErrDayAlreadyStarted):
		response.Conflict(c, 24002, "day has already been started", "")
	case errors.Is(err, lifecycle.ErrDayAlreadyEnded):
		response.Conflict(c, 24003, "day has already been ended", "")
	default:
		handleCommonError(c, err)
	}
}

// bindOptionalJSON accepts an empty body as the zero request.
func bindOptionalJSON(c *gin.Context, obj interface{}) error {
	if c.Request.ContentLength == 0 {
		return nil
	}
	return c.ShouldBindJSON(obj)
}
