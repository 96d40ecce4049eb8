package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/jonasbrito1/gbcidadenova-sub000/internal/app"
	"github.com/jonasbrito1/gbcidadenova-sub000/internal/domain/backup"
	"github.com/jonasbrito1/gbcidadenova-sub000/internal/domain/billing"
	"github.com/jonasbrito1/gbcidadenova-sub000/internal/domain/dashboard"
	"github.com/jonasbrito1/gbcidadenova-sub000/internal/domain/notification"
	idb "github.com/jonasbrito1/gbcidadenova-sub000/internal/infra/database"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

// RecurrenceConfigurer is the recurrence service surface the API uses.
type RecurrenceConfigurer interface {
	Configure(ctx context.Context, in app.ConfigureInput) (*billing.RecurringCharge, error)
	Cancel(ctx context.Context, studentID int64) error
}

// NotificationSender is the manual-send surface the API uses.
type NotificationSender interface {
	Send(ctx context.Context, chargeID int64, kind notification.Kind) error
}

// BackupManager is the backup service surface the API uses.
type BackupManager interface {
	Run(ctx context.Context) (*backup.Backup, error)
	List(ctx context.Context) ([]*backup.Backup, error)
	Validate(ctx context.Context) ([]app.ValidationIssue, error)
	Restore(ctx context.Context, id int64) error
	Cleanup(ctx context.Context) (int, error)
}

// DashboardReader exposes the summary aggregates.
type DashboardReader interface {
	Summary(ctx context.Context) (*dashboard.Summary, error)
}

// Server is the admin HTTP surface over the billing core.
type Server struct {
	echo          *echo.Echo
	recurrence    RecurrenceConfigurer
	notifications NotificationSender
	backups       BackupManager
	dashboard     DashboardReader
	charges       billing.ChargeRepository
	records       notification.Repository
	log           *logrus.Logger
}

func NewServer(
	recurrence RecurrenceConfigurer,
	notifications NotificationSender,
	backups BackupManager,
	dash DashboardReader,
	charges billing.ChargeRepository,
	records notification.Repository,
	log *logrus.Logger,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	s := &Server{
		echo:          e,
		recurrence:    recurrence,
		notifications: notifications,
		backups:       backups,
		dashboard:     dash,
		charges:       charges,
		records:       records,
		log:           log,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.echo.POST("/charges/configure", s.configureCharge)
	s.echo.GET("/charges/:studentID", s.getCharge)
	s.echo.DELETE("/charges/:studentID", s.cancelCharge)
	s.echo.POST("/charges/:id/notify", s.sendNotification)
	s.echo.GET("/notifications", s.listNotifications)

	s.echo.POST("/backups", s.runBackup)
	s.echo.GET("/backups", s.listBackups)
	s.echo.GET("/backups/validate", s.validateBackups)
	s.echo.POST("/backups/:id/restore", s.restoreBackup)
	s.echo.POST("/backups/cleanup", s.cleanupBackups)

	s.echo.GET("/dashboard/summary", s.dashboardSummary)
}

func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// httpError maps domain and application errors onto HTTP statuses.
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, idb.ErrStudentNotFound),
		errors.Is(err, idb.ErrChargeNotFound),
		errors.Is(err, idb.ErrPlanNotFound),
		errors.Is(err, idb.ErrBackupNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, app.ErrPlanRequired),
		errors.Is(err, app.ErrInvalidDueDay):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, app.ErrBackupNotRestorable):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}
