package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/dto"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/service"
	"github.com/isira-aw/Metropolitan-NEW-EMS/pkg/response"
)

// ReportHandler read-only reports and dashboards.
type ReportHandler struct {
	reportSvc service.ReportService
}

// NewReportHandler creates a ReportHandler.
func NewReportHandler(reportSvc service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// rangeReport binds the common from/to/worker query and renders fn's result.
func rangeReport[T any](c *gin.Context, fn func(*gin.Context, *dto.ReportRequest) (T, error)) {
	var req dto.ReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}
	out, err := fn(c, &req)
	if err != nil {
		handleCommonError(c, err)
		return
	}
	response.OK(c, out)
}

// TimeTracking GET /api/v1/reports/time-tracking
func (h *ReportHandler) TimeTracking(c *gin.Context) {
	rangeReport(c, func(c *gin.Context, req *dto.ReportRequest) (gin.H, error) {
		rows, err := h.reportSvc.TimeTracking(c.Request.Context(), req)
		return gin.H{"list": rows}, err
	})
}

// Overtime GET /api/v1/reports/overtime
func (h *ReportHandler) Overtime(c *gin.Context) {
	rangeReport(c, func(c *gin.Context, req *dto.ReportRequest) (*dto.OvertimeReport, error) {
		return h.reportSvc.Overtime(c.Request.Context(), req)
	})
}

// OvertimeByGenerator GET /api/v1/reports/overtime-by-generator
func (h *ReportHandler) OvertimeByGenerator(c *gin.Context) {
	rangeReport(c, func(c *gin.Context, req *dto.ReportRequest) (*dto.OvertimeByGeneratorReport, error) {
		return h.reportSvc.OvertimeByGenerator(c.Request.Context(), req)
	})
}

// Scores GET /api/v1/reports/scores
func (h *ReportHandler) Scores(c *gin.Context) {
	rangeReport(c, func(c *gin.Context, req *dto.ReportRequest) (*dto.ScoreReport, error) {
		return h.reportSvc.Scores(c.Request.Context(), req)
	})
}

// TicketCompletion GET /api/v1/reports/ticket-completion
func (h *ReportHandler) TicketCompletion(c *gin.Context) {
	rangeReport(c, func(c *gin.Context, req *dto.ReportRequest) (*dto.TicketCompletionReport, error) {
		return h.reportSvc.TicketCompletion(c.Request.Context(), req)
	})
}

// Productivity GET /api/v1/reports/productivity
func (h *ReportHandler) Productivity(c *gin.Context) {
	rangeReport(c, func(c *gin.Context, req *dto.ReportRequest) (gin.H, error) {
		rows, err := h.reportSvc.Productivity(c.Request.Context(), req)
		return gin.H{"list": rows}, err
	})
}

// DailyAttendance GET /api/v1/reports/daily-attendance?date=YYYY-MM-DD
func (h *ReportHandler) DailyAttendance(c *gin.Context) {
	r, err := h.reportSvc.DailyAttendance(c.Request.Context(), c.Query("date"))
	if err != nil {
		handleCommonError(c, err)
		return
	}
	response.OK(c, r)
}

// WorkerDay GET /api/v1/reports/workers/:id/day?date=YYYY-MM-DD
func (h *ReportHandler) WorkerDay(c *gin.Context) {
	r, err := h.reportSvc.WorkerDay(c.Request.Context(), c.Param("id"), c.Query("date"))
	if err != nil {
		handleCommonError(c, err)
		return
	}
	response.OK(c, r)
}

// AdminDashboard GET /api/v1/dashboard/admin
func (h *ReportHandler) AdminDashboard(c *gin.Context) {
	d, err := h.reportSvc.AdminDashboard(c.Request.Context())
	if err != nil {
		handleCommonError(c, err)
		return
	}
	response.OK(c, d)
}

// WorkerDashboard GET /api/v1/dashboard/me
func (h *ReportHandler) WorkerDashboard(c *gin.Context) {
	workerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	d, err := h.reportSvc.WorkerDashboard(c.Request.Context(), workerID)
	if err != nil {
		handleCommonError(c, err)
		return
	}
	response.OK(c, d)
}
