package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/dto"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/service"
	pkgerrors "github.com/isira-aw/Metropolitan-NEW-EMS/pkg/errors"
	"github.com/isira-aw/Metropolitan-NEW-EMS/pkg/response"
)

// TicketHandler ticket administration.
type TicketHandler struct {
	ticketSvc  service.TicketService
	jobCardSvc service.JobCardService
}

// NewTicketHandler creates a TicketHandler.
func NewTicketHandler(ticketSvc service.TicketService, jobCardSvc service.JobCardService) *TicketHandler {
	return &TicketHandler{ticketSvc: ticketSvc, jobCardSvc: jobCardSvc}
}

// ListTickets GET /api/v1/tickets
func (h *TicketHandler) ListTickets(c *gin.Context) {
	var req dto.TicketListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	tickets, total, err := h.ticketSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleTicketError(c, err)
		return
	}
	response.OKPage(c, tickets, total, req.GetPage(), req.GetPageSize())
}

// GetTicket GET /api/v1/tickets/:id
func (h *TicketHandler) GetTicket(c *gin.Context) {
	ticket, err := h.ticketSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleTicketError(c, err)
		return
	}
	response.OK(c, ticket)
}

// CreateTicket POST /api/v1/tickets
func (h *TicketHandler) CreateTicket(c *gin.Context) {
	var req dto.CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	ticket, err := h.ticketSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleTicketError(c, err)
		return
	}
	response.Created(c, ticket)
}

// UpdateTicket PUT /api/v1/tickets/:id
func (h *TicketHandler) UpdateTicket(c *gin.Context) {
	var req dto.UpdateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	ticket, err := h.ticketSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleTicketError(c, err)
		return
	}
	response.OK(c, ticket)
}

// DeleteTicket DELETE /api/v1/tickets/:id
func (h *TicketHandler) DeleteTicket(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	if err := h.ticketSvc.Delete(c.Request.Context(), c.Param("id"), callerID); err != nil {
		h.handleTicketError(c, err)
		return
	}
	response.OK(c, nil)
}

// AssignWorker POST /api/v1/tickets/:id/workers
func (h *TicketHandler) AssignWorker(c *gin.Context) {
	var req dto.AssignWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	ticket, err := h.ticketSvc.AssignWorker(c.Request.Context(), c.Param("id"), req.WorkerID, callerID)
	if err != nil {
		h.handleTicketError(c, err)
		return
	}
	response.OK(c, ticket)
}

// UnassignWorker DELETE /api/v1/tickets/:id/workers/:workerId
func (h *TicketHandler) UnassignWorker(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	ticket, err := h.ticketSvc.UnassignWorker(c.Request.Context(), c.Param("id"), c.Param("workerId"), callerID)
	if err != nil {
		h.handleTicketError(c, err)
		return
	}
	response.OK(c, ticket)
}

// CancelTicket POST /api/v1/tickets/:id/cancel
func (h *TicketHandler) CancelTicket(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	ticket, err := h.ticketSvc.Cancel(c.Request.Context(), c.Param("id"), callerID)
	if err != nil {
		h.handleTicketError(c, err)
		return
	}
	response.OK(c, ticket)
}

// NotifyOwner sends a custom message to the generator's owner.
// POST /api/v1/tickets/:id/notify
func (h *TicketHandler) NotifyOwner(c *gin.Context) {
	var req dto.NotifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	if err := h.ticketSvc.Notify(c.Request.Context(), c.Param("id"), &req); err != nil {
		h.handleTicketError(c, err)
		return
	}
	response.Accepted(c, "queued")
}

// ListJobCards GET /api/v1/tickets/:id/job-cards
func (h *TicketHandler) ListJobCards(c *gin.Context) {
	cards, err := h.jobCardSvc.ListByTicket(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleTicketError(c, err)
		return
	}
	response.OK(c, gin.H{"list": cards})
}

func (h *TicketHandler) handleTicketError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidWorker):
		response.BadRequest(c, 22002, "worker must be an active employee")
	case errors.Is(err, service.ErrTooManyWorkers):
		response.BadRequest(c, 22003, "a ticket takes at most 5 workers")
	case errors.Is(err, service.ErrWorkerAssigned):
		response.Conflict(c, 22004, "worker is already assigned to this ticket", "")
	case errors.Is(err, service.ErrWorkerNotAssigned):
		response.BadRequest(c, 22005, "worker is not assigned to this ticket")
	case errors.Is(err, service.ErrWorkerHasProgress):
		response.Conflict(c, 22006, "worker has already progressed this job", "")
	case errors.Is(err, service.ErrTicketNeedsWorker):
		response.BadRequest(c, 22007, "a ticket needs at least one worker")
	case errors.Is(err, service.ErrTicketInProgress):
		response.Conflict(c, 22008, "ticket has job cards in progress", "")
	case errors.Is(err, service.ErrTicketClosed):
		response.Conflict(c, 22009, "ticket is completed or cancelled", "")
	case pkgerrors.IsConflict(err):
		response.Conflict(c, 22010, "ticket was modified by someone else, reload and retry", "")
	case errors.Is(err, service.ErrNotificationMissing):
		response.BadRequest(c, 22011, "generator has no contact for the requested channels")
	default:
		handleCommonError(c, err)
	}
}
