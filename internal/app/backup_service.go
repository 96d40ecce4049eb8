package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"time"

	"github.com/jonasbrito1/gbcidadenova-sub000/internal/domain/backup"

	"github.com/sirupsen/logrus"
)

var ErrBackupNotRestorable = errors.New("backup is not completed or its file is missing")

// commandRunner executes an external command and returns its combined
// output. Injectable so tests can avoid spawning real processes.
type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// ValidationIssue describes one problem found while validating the backup
// catalog against the files on disk.
type ValidationIssue struct {
	BackupID int64  `json:"backup_id"`
	FileName string `json:"file_name"`
	Problem  string `json:"problem"`
}

// BackupService snapshots the database via pg_dump, keeps the backup
// catalog, and exposes listing/validation/restore/cleanup.
type BackupService struct {
	repo        backup.Repository
	dir         string
	retention   int
	pgDumpPath  string
	psqlPath    string
	databaseURL string
	log         *logrus.Logger
	run         commandRunner
}

func NewBackupService(
	repo backup.Repository,
	dir string,
	retention int,
	pgDumpPath, psqlPath, databaseURL string,
	log *logrus.Logger,
) *BackupService {
	return &BackupService{
		repo:        repo,
		dir:         dir,
		retention:   retention,
		pgDumpPath:  pgDumpPath,
		psqlPath:    psqlPath,
		databaseURL: databaseURL,
		log:         log,
		run:         execRunner,
	}
}

// Run performs one backup: an in_progress record is written first, then
// pg_dump snapshots the database to a timestamped file, then the record is
// finalized with size/duration and completed or failed. Failures are
// recorded and returned; there is no retry.
func (s *BackupService) Run(ctx context.Context) (*backup.Backup, error) {
	start := time.Now()
	fileName := fmt.Sprintf("backup_%s.sql", start.Format("20060102_150405"))

	b := &backup.Backup{
		FileName:  fileName,
		FilePath:  filepath.Join(s.dir, fileName),
		Status:    backup.StatusInProgress,
		StartedAt: start,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to create backup record: %w", err)
	}

	dumpErr := s.dump(ctx, b.FilePath)

	b.DurationMs = time.Since(start).Milliseconds()
	b.FinishedAt = sql.NullTime{Time: time.Now(), Valid: true}
	if dumpErr != nil {
		b.Status = backup.StatusFailed
		b.ErrorMessage = sql.NullString{String: dumpErr.Error(), Valid: true}
		s.log.WithField("file", b.FileName).WithError(dumpErr).Error("Database backup failed")
	} else {
		if info, err := os.Stat(b.FilePath); err == nil {
			b.SizeBytes = info.Size()
		}
		b.Status = backup.StatusCompleted
		s.log.WithFields(logrus.Fields{
			"file":        b.FileName,
			"size_bytes":  b.SizeBytes,
			"duration_ms": b.DurationMs,
		}).Info("Database backup completed")
	}

	if err := s.repo.Update(ctx, b); err != nil {
		return b, fmt.Errorf("failed to finalize backup record %d: %w", b.ID, err)
	}
	return b, dumpErr
}

func (s *BackupService) dump(ctx context.Context, path string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}
	out, err := s.run(ctx, s.pgDumpPath,
		"--dbname", s.databaseURL,
		"--format", "plain",
		"--file", path,
	)
	if err != nil {
		return fmt.Errorf("pg_dump failed: %w (output: %s)", err, out)
	}
	return nil
}

// List returns the backup catalog, most recent first.
func (s *BackupService) List(ctx context.Context) ([]*backup.Backup, error) {
	return s.repo.List(ctx)
}

// Validate cross-checks the catalog against the filesystem. A record still
// in_progress is reported as not concluded rather than treated as an
// error; completed records are checked for a present, non-empty file.
func (s *BackupService) Validate(ctx context.Context) ([]ValidationIssue, error) {
	backups, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list backups for validation: %w", err)
	}

	issues := make([]ValidationIssue, 0)
	for _, b := range backups {
		switch b.Status {
		case backup.StatusInProgress:
			issues = append(issues, ValidationIssue{
				BackupID: b.ID, FileName: b.FileName,
				Problem: "backup did not conclude (still in_progress)",
			})
		case backup.StatusCompleted:
			info, err := os.Stat(b.FilePath)
			if err != nil {
				issues = append(issues, ValidationIssue{
					BackupID: b.ID, FileName: b.FileName,
					Problem: "backup file missing on disk",
				})
			} else if info.Size() == 0 {
				issues = append(issues, ValidationIssue{
					BackupID: b.ID, FileName: b.FileName,
					Problem: "backup file is empty",
				})
			}
		}
	}
	return issues, nil
}

// Restore replays a completed backup into the database. Destructive and
// irreversible without a prior backup.
func (s *BackupService) Restore(ctx context.Context, id int64) error {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load backup %d: %w", id, err)
	}
	if b.Status != backup.StatusCompleted {
		return ErrBackupNotRestorable
	}
	if _, err := os.Stat(b.FilePath); err != nil {
		return ErrBackupNotRestorable
	}

	s.log.WithField("file", b.FileName).Warn("Restoring database from backup")
	out, err := s.run(ctx, s.psqlPath,
		"--dbname", s.databaseURL,
		"--file", b.FilePath,
	)
	if err != nil {
		return fmt.Errorf("psql restore failed: %w (output: %s)", err, out)
	}
	s.log.WithField("file", b.FileName).Info("Database restore completed")
	return nil
}

// Cleanup removes completed backups beyond the retention count, newest
// kept. Returns how many were removed.
func (s *BackupService) Cleanup(ctx context.Context) (int, error) {
	backups, err := s.repo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list backups for cleanup: %w", err)
	}

	completed := make([]*backup.Backup, 0, len(backups))
	for _, b := range backups {
		if b.Status == backup.StatusCompleted {
			completed = append(completed, b)
		}
	}
	sort.Slice(completed, func(i, j int) bool {
		return completed[i].StartedAt.After(completed[j].StartedAt)
	})

	removed := 0
	for _, b := range completed[min(s.retention, len(completed)):] {
		if err := os.Remove(b.FilePath); err != nil && !os.IsNotExist(err) {
			s.log.WithField("file", b.FileName).WithError(err).Error("Failed to remove expired backup file")
			continue
		}
		if err := s.repo.Delete(ctx, b.ID); err != nil {
			s.log.WithField("file", b.FileName).WithError(err).Error("Failed to delete expired backup record")
			continue
		}
		removed++
	}
	if removed > 0 {
		s.log.WithField("removed", removed).Info("Expired backups cleaned up")
	}
	return removed, nil
}
