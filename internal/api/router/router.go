package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/isira-aw/Metropolitan-NEW-EMS/config"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/api/handler"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/api/middleware"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/metrics"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/model"
	"github.com/isira-aw/Metropolitan-NEW-EMS/pkg/jwt"
	"github.com/isira-aw/Metropolitan-NEW-EMS/pkg/redis"
)

// Setup builds the gin engine with every route mounted.
// rdb may be nil; revocation checks and login rate limiting are then skipped.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, m *metrics.Metrics, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// avoid typed-nil interfaces when redis is not configured
	var (
		blacklist middleware.BlacklistChecker
		limiter   middleware.Limiter
	)
	if rdb != nil {
		blacklist = rdb
		limiter = rdb
	}

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))
	if cfg.Metrics.Enabled && m != nil {
		r.Use(m.GinMiddleware())
		r.GET(cfg.Metrics.Path, gin.WrapH(m.Handler()))
	}

	// redis is optional, so an unreachable instance is reported but not fatal
	r.GET("/health", func(c *gin.Context) {
		body := gin.H{"status": "ok"}
		if rdb != nil {
			body["redis"] = "ok"
			if err := rdb.Ping(c.Request.Context()); err != nil {
				body["redis"] = "unreachable"
			}
		}
		c.JSON(http.StatusOK, body)
	})

	v1 := r.Group("/api/v1")
	{
		v1.POST("/auth/login",
			middleware.RateLimit(limiter, cfg.Server.RateLimit.LoginLimit, cfg.Server.RateLimit.LoginWindow),
			h.Auth.Login)

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, blacklist))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			registerEmployeeRoutes(authorized.Group("", middleware.RoleAuth(model.RoleEmployee)), h)
			registerSharedRoutes(authorized, h)
			registerAdminRoutes(authorized.Group("", middleware.RoleAuth(model.RoleAdmin)), h)
		}
	}

	return r
}

// registerEmployeeRoutes field work: the working day and the worker's own job cards.
func registerEmployeeRoutes(g *gin.RouterGroup, h *handler.Handler) {
	attendance := g.Group("/attendance")
	{
		attendance.POST("/start", h.Attendance.StartDay)
		attendance.POST("/end", h.Attendance.EndDay)
		attendance.GET("/today", h.Attendance.Today)
		attendance.GET("/history", h.Attendance.History)
	}

	jobCards := g.Group("/job-cards")
	{
		jobCards.GET("/my", h.JobCard.ListMine)
		jobCards.GET("/my/:id", h.JobCard.GetMine)
		jobCards.PUT("/:id/status", h.JobCard.UpdateStatus)
	}

	g.GET("/dashboard/me", h.Report.WorkerDashboard)
	g.GET("/calendar/my.ics", h.Calendar.MyFeed)
}

// registerSharedRoutes both roles; the service narrows an employee to their own cards.
func registerSharedRoutes(g *gin.RouterGroup, h *handler.Handler) {
	g.GET("/job-cards/:id/events", h.JobCard.ListEvents)
	g.POST("/job-cards/:id/image", h.JobCard.AttachImage)
}

func registerAdminRoutes(g *gin.RouterGroup, h *handler.Handler) {
	users := g.Group("/users")
	{
		users.GET("", h.User.ListUsers)
		users.GET("/workers", h.User.ListWorkers)
		users.POST("", h.User.CreateUser)
		users.PUT("/:id/active", h.User.SetActive)
	}

	generators := g.Group("/generators")
	{
		generators.GET("", h.Generator.ListGenerators)
		generators.GET("/:id", h.Generator.GetGenerator)
		generators.GET("/:id/history", h.Generator.History)
		generators.POST("", h.Generator.CreateGenerator)
		generators.PUT("/:id", h.Generator.UpdateGenerator)
		generators.DELETE("/:id", h.Generator.DeleteGenerator)
	}

	tickets := g.Group("/tickets")
	{
		tickets.GET("", h.Ticket.ListTickets)
		tickets.GET("/:id", h.Ticket.GetTicket)
		tickets.POST("", h.Ticket.CreateTicket)
		tickets.PUT("/:id", h.Ticket.UpdateTicket)
		tickets.DELETE("/:id", h.Ticket.DeleteTicket)
		tickets.POST("/:id/workers", h.Ticket.AssignWorker)
		tickets.DELETE("/:id/workers/:workerId", h.Ticket.UnassignWorker)
		tickets.POST("/:id/cancel", h.Ticket.CancelTicket)
		tickets.POST("/:id/notify", h.Ticket.NotifyOwner)
		tickets.GET("/:id/job-cards", h.Ticket.ListJobCards)
	}

	g.GET("/job-cards/:id", h.JobCard.GetJobCard)
	g.POST("/job-cards/rebuild-minutes", h.JobCard.RebuildMinutes)

	g.GET("/attendance", h.Attendance.ListByDate)

	approvals := g.Group("/approvals")
	{
		approvals.GET("/pending", h.Approval.ListPending)
		approvals.GET("/stats", h.Approval.Stats)
		approvals.POST("/bulk", h.Approval.BulkApprove)
		approvals.POST("/:id/approve", h.Approval.Approve)
		approvals.POST("/:id/reject", h.Approval.Reject)
	}

	scores := g.Group("/scores")
	{
		scores.GET("", h.Approval.ListScores)
		scores.POST("/backfill", h.Approval.Backfill)
		scores.POST("/:id", h.Approval.AssignScore)
		scores.PUT("/:id", h.Approval.UpdateScore)
		scores.DELETE("/:id", h.Approval.DeleteScore)
	}

	reports := g.Group("/reports")
	{
		reports.GET("/time-tracking", h.Report.TimeTracking)
		reports.GET("/overtime", h.Report.Overtime)
		reports.GET("/overtime-by-generator", h.Report.OvertimeByGenerator)
		reports.GET("/scores", h.Report.Scores)
		reports.GET("/ticket-completion", h.Report.TicketCompletion)
		reports.GET("/productivity", h.Report.Productivity)
		reports.GET("/daily-attendance", h.Report.DailyAttendance)
		reports.GET("/workers/:id/day", h.Report.WorkerDay)
	}

	exports := g.Group("/exports")
	{
		exports.GET("/time-tracking", h.Export.TimeTracking)
		exports.GET("/overtime", h.Export.Overtime)
		exports.GET("/scores", h.Export.Scores)
	}

	g.GET("/activity-logs", h.Activity.ListActivity)
	g.GET("/dashboard/admin", h.Report.AdminDashboard)
}
