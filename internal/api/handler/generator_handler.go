package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/dto"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/service"
	"github.com/isira-aw/Metropolitan-NEW-EMS/pkg/response"
)

// GeneratorHandler generator registry.
type GeneratorHandler struct {
	generatorSvc service.GeneratorService
}

// NewGeneratorHandler creates a GeneratorHandler.
func NewGeneratorHandler(generatorSvc service.GeneratorService) *GeneratorHandler {
	return &GeneratorHandler{generatorSvc: generatorSvc}
}

// ListGenerators GET /api/v1/generators
func (h *GeneratorHandler) ListGenerators(c *gin.Context) {
	var req dto.GeneratorListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	gens, total, err := h.generatorSvc.List(c.Request.Context(), &req)
	if err != nil {
		handleCommonError(c, err)
		return
	}
	response.OKPage(c, gens, total, req.GetPage(), req.GetPageSize())
}

// GetGenerator GET /api/v1/generators/:id
func (h *GeneratorHandler) GetGenerator(c *gin.Context) {
	gen, err := h.generatorSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleCommonError(c, err)
		return
	}
	response.OK(c, gen)
}

// CreateGenerator POST /api/v1/generators
func (h *GeneratorHandler) CreateGenerator(c *gin.Context) {
	var req dto.GeneratorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	gen, err := h.generatorSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		handleCommonError(c, err)
		return
	}
	response.Created(c, gen)
}

// UpdateGenerator PUT /api/v1/generators/:id
func (h *GeneratorHandler) UpdateGenerator(c *gin.Context) {
	var req dto.GeneratorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	gen, err := h.generatorSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		handleCommonError(c, err)
		return
	}
	response.OK(c, gen)
}

// DeleteGenerator DELETE /api/v1/generators/:id
func (h *GeneratorHandler) DeleteGenerator(c *gin.Context) {
	if err := h.generatorSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrGeneratorInUse) {
			response.Conflict(c, 21002, "generator is referenced by tickets", "")
			return
		}
		handleCommonError(c, err)
		return
	}
	response.OK(c, nil)
}

// History lists every service ticket raised for a generator.
// GET /api/v1/generators/:id/history
func (h *GeneratorHandler) History(c *gin.Context) {
	hist, err := h.generatorSvc.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleCommonError(c, err)
		return
	}
	response.OK(c, hist)
}
