package handler

import "github.com/isira-aw/Metropolitan-NEW-EMS/internal/service"

// Handler aggregates every HTTP handler.
type Handler struct {
	Auth       *AuthHandler
	User       *UserHandler
	Generator  *GeneratorHandler
	Ticket     *TicketHandler
	JobCard    *JobCardHandler
	Attendance *AttendanceHandler
	Approval   *ApprovalHandler
	Report     *ReportHandler
	Export     *ExportHandler
	Activity   *ActivityHandler
	Calendar   *CalendarHandler
}

// NewHandler wires the handlers to their services. maxImageBytes caps job
// card photo uploads.
func NewHandler(svc *service.Service, maxImageBytes int64) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth, svc.User),
		User:       NewUserHandler(svc.User),
		Generator:  NewGeneratorHandler(svc.Generator),
		Ticket:     NewTicketHandler(svc.Ticket, svc.JobCard),
		JobCard:    NewJobCardHandler(svc.JobCard, maxImageBytes),
		Attendance: NewAttendanceHandler(svc.Attendance),
		Approval:   NewApprovalHandler(svc.Approval),
		Report:     NewReportHandler(svc.Report),
		Export:     NewExportHandler(svc.Export),
		Activity:   NewActivityHandler(svc.Activity),
		Calendar:   NewCalendarHandler(svc.Calendar),
	}
}
