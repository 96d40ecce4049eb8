package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonasbrito1/gbcidadenova-sub000/internal/api"
	"github.com/jonasbrito1/gbcidadenova-sub000/internal/app"
	domainmail "github.com/jonasbrito1/gbcidadenova-sub000/internal/domain/mail"
	"github.com/jonasbrito1/gbcidadenova-sub000/internal/infra/config"
	idb "github.com/jonasbrito1/gbcidadenova-sub000/internal/infra/database"
	"github.com/jonasbrito1/gbcidadenova-sub000/internal/infra/logger"
	"github.com/jonasbrito1/gbcidadenova-sub000/internal/infra/mail"
	"github.com/jonasbrito1/gbcidadenova-sub000/internal/infra/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("FATAL: Could not load application configuration: %v", err)
	}
	logger.Init(cfg)
	log := logger.Get()
	log.Infof("Configuration loaded. Environment: %s, Timezone: %s", cfg.Environment, cfg.Timezone)

	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}

	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to database: %v", err)
	}
	defer db.Close()
	log.Info("Database connection established successfully")

	// Repositories
	studentRepo := idb.NewPostgresStudentRepository(db)
	planRepo := idb.NewPostgresPlanRepository(db)
	chargeRepo := idb.NewPostgresChargeRepository(db)
	notificationRepo := idb.NewPostgresNotificationRepository(db)
	backupRepo := idb.NewPostgresBackupRepository(db)
	dashboardRepo := idb.NewPostgresDashboardRepository(db)

	// Mail transport
	var sender domainmail.Sender
	if cfg.SendgridAPIKey != "" {
		sender = mail.NewSendgridSender(cfg.SendgridAPIKey, cfg.MailFromName, cfg.MailFromAddress)
		log.Info("SendGrid mail sender initialized")
	} else {
		sender = mail.NewConsoleSender(log)
		log.Warn("SENDGRID_API_KEY not set; using console mail sender")
	}

	// Application services
	recurrenceService := app.NewRecurrenceService(
		studentRepo, planRepo, chargeRepo, cfg.DefaultMonthlyAmount, loc, log)
	notificationService := app.NewNotificationService(
		chargeRepo, studentRepo, planRepo, notificationRepo, sender, cfg.AppName, log)
	backupService := app.NewBackupService(
		backupRepo, cfg.BackupDir, cfg.BackupRetention, cfg.PgDumpPath, cfg.PsqlPath, cfg.DatabaseURL, log)
	dashboardService := app.NewDashboardService(dashboardRepo, loc)

	// Scheduler
	sched := scheduler.New(notificationService, backupService, loc, log, cfg.CronSpecBilling, cfg.CronSpecBackup)
	if err := sched.Start(); err != nil {
		log.Fatalf("FATAL: Could not start scheduler: %v", err)
	}

	// Admin HTTP API
	server := api.NewServer(
		recurrenceService, notificationService, backupService, dashboardService,
		chargeRepo, notificationRepo, log)
	go func() {
		if err := server.Start(cfg.HTTPAddr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("FATAL: HTTP server failed: %v", err)
		}
	}()
	log.Infof("Application setup complete. Listening on %s", cfg.HTTPAddr)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down application...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("HTTP server shutdown: %v", err)
	}
	sched.Stop()
	log.Info("Application shut down gracefully")
}
