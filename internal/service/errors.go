package service

import (
	"errors"

	"gorm.io/gorm"
)

// Not-found errors per entity. Transition, attendance and scoring failures
// live in the lifecycle package.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrWorkerNotFound    = errors.New("worker not found")
	ErrGeneratorNotFound = errors.New("generator not found")
	ErrTicketNotFound    = errors.New("ticket not found")
	ErrJobCardNotFound   = errors.New("job card not found")
	ErrScoreNotFound     = errors.New("score not found")
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserDisabled       = errors.New("account is disabled")
	ErrUsernameTaken      = errors.New("username already exists")

	ErrGeneratorInUse = errors.New("generator is referenced by tickets")

	ErrInvalidWorker       = errors.New("worker must be an active employee")
	ErrTooManyWorkers      = errors.New("a ticket takes at most 5 workers")
	ErrWorkerAssigned      = errors.New("worker is already assigned to this ticket")
	ErrWorkerNotAssigned   = errors.New("worker is not assigned to this ticket")
	ErrWorkerHasProgress   = errors.New("worker has already progressed this job")
	ErrTicketNeedsWorker   = errors.New("a ticket needs at least one worker")
	ErrTicketInProgress    = errors.New("ticket has job cards in progress")
	ErrTicketClosed        = errors.New("ticket is completed or cancelled")
	ErrInvalidDate         = errors.New("invalid date")
	ErrInvalidDateRange    = errors.New("from must not be after to")
	ErrForbidden           = errors.New("not allowed")
	ErrStorageUnavailable  = errors.New("image storage is not configured")
	ErrUnsupportedImage    = errors.New("unsupported image")
	ErrNotificationMissing = errors.New("generator has no contact for the requested channels")
)

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// notFoundAs maps gorm.ErrRecordNotFound to target and passes anything else
// through.
func notFoundAs(err, target error) error {
	if isNotFound(err) {
		return target
	}
	return err
}
