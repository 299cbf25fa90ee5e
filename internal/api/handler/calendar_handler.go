package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/service"
)

// CalendarHandler iCalendar feeds.
type CalendarHandler struct {
	calendarSvc service.CalendarService
}

// NewCalendarHandler creates a CalendarHandler.
func NewCalendarHandler(calendarSvc service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendarSvc: calendarSvc}
}

// MyFeed GET /api/v1/calendar/my.ics
func (h *CalendarHandler) MyFeed(c *gin.Context) {
	workerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	feed, err := h.calendarSvc.WorkerFeed(c.Request.Context(), workerID)
	if err != nil {
		handleCommonError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="jobs.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(feed))
}
