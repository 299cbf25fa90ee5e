package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/dto"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/service"
	"github.com/isira-aw/Metropolitan-NEW-EMS/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler Excel downloads of the reports.
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler creates an ExportHandler.
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// TimeTracking GET /api/v1/exports/time-tracking
func (h *ExportHandler) TimeTracking(c *gin.Context) {
	h.download(c, h.exportSvc.TimeTracking)
}

// Overtime GET /api/v1/exports/overtime
func (h *ExportHandler) Overtime(c *gin.Context) {
	h.download(c, h.exportSvc.Overtime)
}

// Scores GET /api/v1/exports/scores
func (h *ExportHandler) Scores(c *gin.Context) {
	h.download(c, h.exportSvc.Scores)
}

type exportFunc func(ctx context.Context, req *dto.ReportRequest) (*bytes.Buffer, string, error)

func (h *ExportHandler) download(c *gin.Context, export exportFunc) {
	var req dto.ReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	buf, filename, err := export(c.Request.Context(), &req)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrExportGenerateFail) {
		response.Error(c, http.StatusInternalServerError, 26002, "failed to generate the workbook")
		return
	}
	handleCommonError(c, err)
}
