package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/lifecycle"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/service"
	"github.com/isira-aw/Metropolitan-NEW-EMS/pkg/response"
)

// Error codes shared across modules.
const (
	codeValidation      = 10001
	codeUnauthenticated = 10002
	codeForbidden       = 10003
	codeBodyTooLarge    = 10005
)

// handleCommonError covers the failures every module can produce. Anything
// unrecognised becomes a 500.
func handleCommonError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidDate), errors.Is(err, service.ErrInvalidDateRange):
		response.BadRequest(c, 26001, err.Error())
	case errors.Is(err, lifecycle.ErrInvalidLocation):
		response.BadRequest(c, 23006, "latitude and longitude must both be present and in range")
	case errors.Is(err, service.ErrForbidden), errors.Is(err, lifecycle.ErrUnauthorized):
		response.Forbidden(c, codeForbidden, err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 20001, "user not found")
	case errors.Is(err, service.ErrWorkerNotFound):
		response.NotFound(c, 20001, "worker not found")
	case errors.Is(err, service.ErrGeneratorNotFound):
		response.NotFound(c, 21001, "generator not found")
	case errors.Is(err, service.ErrTicketNotFound):
		response.NotFound(c, 22001, "ticket not found")
	case errors.Is(err, service.ErrJobCardNotFound):
		response.NotFound(c, 23001, "job card not found")
	case errors.Is(err, service.ErrScoreNotFound):
		response.NotFound(c, 25005, "score not found")
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}

func bindFailed(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		response.PayloadTooLarge(c, codeBodyTooLarge, "request body too large")
		return
	}
	response.BadRequest(c, codeValidation, "validation failed")
}
