package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/dto"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/service"
	"github.com/isira-aw/Metropolitan-NEW-EMS/pkg/response"
)

// ActivityHandler audit trail.
type ActivityHandler struct {
	activitySvc service.ActivityService
}

// NewActivityHandler creates an ActivityHandler.
func NewActivityHandler(activitySvc service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activitySvc: activitySvc}
}

// ListActivity GET /api/v1/activity-logs
func (h *ActivityHandler) ListActivity(c *gin.Context) {
	var req dto.ActivityListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	logs, total, err := h.activitySvc.List(c.Request.Context(), &req)
	if err != nil {
		handleCommonError(c, err)
		return
	}
	response.OKPage(c, logs, total, req.GetPage(), req.GetPageSize())
}
