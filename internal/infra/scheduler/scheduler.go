package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/jonasbrito1/gbcidadenova-sub000/internal/domain/backup"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// BillingService is the slice of the notification service the scheduler needs.
type BillingService interface {
	ProcessDueCharges(ctx context.Context, today time.Time) error
}

// BackupService is the slice of the backup service the scheduler needs.
type BackupService interface {
	Run(ctx context.Context) (*backup.Backup, error)
	Cleanup(ctx context.Context) (int, error)
}

const (
	billingTickTimeout = 5 * time.Minute
	backupTickTimeout  = 30 * time.Minute
)

// Scheduler drives the daily billing tick and the backup ticks on
// wall-clock cron triggers in the academy timezone. Jobs are
// panic-recovered and non-reentrant: a tick still running when the next
// trigger fires causes the new one to be skipped, so a slow dump cannot
// pile up overlapping runs.
type Scheduler struct {
	cronEngine  *cron.Cron
	billing     BillingService
	backups     BackupService
	loc         *time.Location
	log         *logrus.Logger
	billingSpec string
	backupSpec  string
}

func New(
	billing BillingService,
	backups BackupService,
	loc *time.Location,
	log *logrus.Logger,
	billingSpec string, // e.g. "0 8 * * *"
	backupSpec string, // e.g. "0 3,15 * * *"
) *Scheduler {
	cronLog := cron.PrintfLogger(log)
	return &Scheduler{
		cronEngine: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		billing:     billing,
		backups:     backups,
		loc:         loc,
		log:         log,
		billingSpec: billingSpec,
		backupSpec:  backupSpec,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cronEngine.AddFunc(s.billingSpec, s.billingTick); err != nil {
		return fmt.Errorf("could not add billing tick cron job: %w", err)
	}
	if _, err := s.cronEngine.AddFunc(s.backupSpec, s.backupTick); err != nil {
		return fmt.Errorf("could not add backup tick cron job: %w", err)
	}

	s.cronEngine.Start()
	s.log.WithFields(logrus.Fields{
		"billing_spec": s.billingSpec,
		"backup_spec":  s.backupSpec,
		"timezone":     s.loc.String(),
	}).Info("Scheduler started")
	return nil
}

func (s *Scheduler) billingTick() {
	s.log.Info("Cron job triggered: processing due recurring charges")
	ctx, cancel := context.WithTimeout(context.Background(), billingTickTimeout)
	defer cancel()

	today := time.Now().In(s.loc)
	if err := s.billing.ProcessDueCharges(ctx, today); err != nil {
		s.log.WithError(err).Error("Billing tick failed")
	}
}

func (s *Scheduler) backupTick() {
	s.log.Info("Cron job triggered: database backup")
	ctx, cancel := context.WithTimeout(context.Background(), backupTickTimeout)
	defer cancel()

	if _, err := s.backups.Run(ctx); err != nil {
		// Already recorded in the backup catalog; nothing left to do here.
		s.log.WithError(err).Error("Backup tick failed")
		return
	}
	if _, err := s.backups.Cleanup(ctx); err != nil {
		s.log.WithError(err).Error("Backup cleanup failed")
	}
}

// Stop halts the cron engine and waits for any running job to finish.
func (s *Scheduler) Stop() {
	s.log.Info("Stopping scheduler...")
	ctx := s.cronEngine.Stop()
	<-ctx.Done()
	s.log.Info("Scheduler gracefully stopped")
}
