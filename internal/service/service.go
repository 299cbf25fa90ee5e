package service

import (
	"go.uber.org/zap"

	"github.com/isira-aw/Metropolitan-NEW-EMS/config"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/metrics"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/notify"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/repository"
	"github.com/isira-aw/Metropolitan-NEW-EMS/pkg/clock"
	"github.com/isira-aw/Metropolitan-NEW-EMS/pkg/jwt"
	"github.com/isira-aw/Metropolitan-NEW-EMS/pkg/storage"
)

// Service is the aggregate entry point to every use case.
type Service struct {
	Auth       AuthService
	User       UserService
	Generator  GeneratorService
	Ticket     TicketService
	JobCard    JobCardService
	Attendance AttendanceService
	Approval   ApprovalService
	Report     ReportService
	Export     ExportService
	Activity   ActivityService
	Calendar   CalendarService
}

// Deps are the collaborators shared by the services. Notifier, Images and
// Metrics may be nil.
type Deps struct {
	Config    *config.Config
	Repo      *repository.Repository
	Clock     clock.Clock
	JWT       *jwt.Manager
	Blacklist TokenBlacklist
	Notifier  notify.Notifier
	Images    storage.ImageStore
	Metrics   *metrics.Metrics
	Logger    *zap.Logger
}

// NewService wires every service. It fails only on an unusable attendance
// window in the configuration.
func NewService(d Deps) (*Service, error) {
	window, err := d.Config.Attendance.Window()
	if err != nil {
		return nil, err
	}
	if d.Notifier == nil {
		d.Notifier = notify.Nop{}
	}

	report := NewReportService(d.Repo, d.Clock, window, d.Logger)
	return &Service{
		Auth:       NewAuthService(d.Repo, d.JWT, d.Blacklist, d.Logger),
		User:       NewUserService(d.Repo, d.Logger),
		Generator:  NewGeneratorService(d.Repo, d.Clock, d.Logger),
		Ticket:     NewTicketService(d.Repo, d.Clock, d.Notifier, d.Logger),
		JobCard:    NewJobCardService(d.Repo, d.Clock, d.Config.Attendance.RequireLocation, d.Notifier, d.Images, d.Metrics, d.Logger),
		Attendance: NewAttendanceService(d.Repo, d.Clock, window, d.Metrics, d.Logger),
		Approval:   NewApprovalService(d.Repo, d.Clock, d.Metrics, d.Logger),
		Report:     report,
		Export:     NewExportService(report, d.Logger),
		Activity:   NewActivityService(d.Repo, d.Clock, d.Logger),
		Calendar:   NewCalendarService(d.Repo, d.Clock, d.Logger),
	}, nil
}
