package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonasbrito1/gbcidadenova-sub000/internal/domain/backup"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBackupFixture(t *testing.T) (*BackupService, *fakeBackupRepo, string) {
	t.Helper()
	dir := t.TempDir()
	repo := newFakeBackupRepo()
	svc := NewBackupService(repo, dir, 2, "pg_dump", "psql", "postgres://test", testLogger())
	return svc, repo, dir
}

// stubRunner pretends to be pg_dump/psql: it writes the --file target when
// asked to, or fails.
func stubRunner(writeContents string, fail bool) commandRunner {
	return func(_ context.Context, _ string, args ...string) ([]byte, error) {
		if fail {
			return []byte("connection refused"), errors.New("exit status 1")
		}
		for i, a := range args {
			if a == "--file" && i+1 < len(args) {
				if err := os.WriteFile(args[i+1], []byte(writeContents), 0o644); err != nil {
					return nil, err
				}
			}
		}
		return nil, nil
	}
}

func TestBackupRunSuccess(t *testing.T) {
	svc, repo, _ := newBackupFixture(t)
	svc.run = stubRunner("-- PostgreSQL database dump", false)

	b, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, b)

	assert.Equal(t, backup.StatusCompleted, b.Status)
	assert.Greater(t, b.SizeBytes, int64(0))
	assert.True(t, b.FinishedAt.Valid)

	stored, err := repo.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, backup.StatusCompleted, stored.Status)
}

func TestBackupRunFailureIsRecorded(t *testing.T) {
	svc, repo, _ := newBackupFixture(t)
	svc.run = stubRunner("", true)

	b, err := svc.Run(context.Background())
	require.Error(t, err)
	require.NotNil(t, b, "a failed run still yields a catalog record")

	assert.Equal(t, backup.StatusFailed, b.Status)
	assert.True(t, b.ErrorMessage.Valid)
	assert.Contains(t, b.ErrorMessage.String, "connection refused")

	stored, err := repo.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, backup.StatusFailed, stored.Status)
}

func TestValidateReportsUnconcludedBackup(t *testing.T) {
	svc, repo, dir := newBackupFixture(t)
	ctx := context.Background()

	// A run that never finished: record stuck in_progress.
	require.NoError(t, repo.Create(ctx, &backup.Backup{
		FileName: "backup_a.sql", FilePath: filepath.Join(dir, "backup_a.sql"),
		Status: backup.StatusInProgress, StartedAt: time.Now().Add(-time.Hour),
	}))
	// A completed run whose file vanished.
	require.NoError(t, repo.Create(ctx, &backup.Backup{
		FileName: "backup_b.sql", FilePath: filepath.Join(dir, "backup_b.sql"),
		Status: backup.StatusCompleted, StartedAt: time.Now().Add(-30 * time.Minute),
	}))
	// A healthy completed run.
	okPath := filepath.Join(dir, "backup_c.sql")
	require.NoError(t, os.WriteFile(okPath, []byte("dump"), 0o644))
	require.NoError(t, repo.Create(ctx, &backup.Backup{
		FileName: "backup_c.sql", FilePath: okPath,
		Status: backup.StatusCompleted, StartedAt: time.Now(),
	}))

	issues, err := svc.Validate(ctx)
	require.NoError(t, err, "validation must not crash on an unconcluded backup")
	require.Len(t, issues, 2)

	problems := map[string]string{}
	for _, issue := range issues {
		problems[issue.FileName] = issue.Problem
	}
	assert.Contains(t, problems["backup_a.sql"], "did not conclude")
	assert.Contains(t, problems["backup_b.sql"], "missing")
}

func TestRestoreRequiresCompletedBackup(t *testing.T) {
	svc, repo, dir := newBackupFixture(t)
	ctx := context.Background()

	inProgress := &backup.Backup{
		FileName: "backup_x.sql", FilePath: filepath.Join(dir, "backup_x.sql"),
		Status: backup.StatusInProgress, StartedAt: time.Now(),
	}
	require.NoError(t, repo.Create(ctx, inProgress))

	err := svc.Restore(ctx, inProgress.ID)
	assert.ErrorIs(t, err, ErrBackupNotRestorable)

	// Completed but file missing on disk.
	gone := &backup.Backup{
		FileName: "backup_y.sql", FilePath: filepath.Join(dir, "backup_y.sql"),
		Status: backup.StatusCompleted, StartedAt: time.Now(),
	}
	require.NoError(t, repo.Create(ctx, gone))
	err = svc.Restore(ctx, gone.ID)
	assert.ErrorIs(t, err, ErrBackupNotRestorable)
}

func TestRestoreRunsPsql(t *testing.T) {
	svc, repo, dir := newBackupFixture(t)
	ctx := context.Background()

	path := filepath.Join(dir, "backup_ok.sql")
	require.NoError(t, os.WriteFile(path, []byte("dump"), 0o644))
	b := &backup.Backup{
		FileName: "backup_ok.sql", FilePath: path,
		Status: backup.StatusCompleted, StartedAt: time.Now(),
	}
	require.NoError(t, repo.Create(ctx, b))

	var gotName string
	svc.run = func(_ context.Context, name string, _ ...string) ([]byte, error) {
		gotName = name
		return nil, nil
	}
	require.NoError(t, svc.Restore(ctx, b.ID))
	assert.Equal(t, "psql", gotName)
}

func TestCleanupKeepsRetention(t *testing.T) {
	svc, repo, dir := newBackupFixture(t) // retention 2
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		name := string(rune('a'+i)) + ".sql"
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("dump"), 0o644))
		require.NoError(t, repo.Create(ctx, &backup.Backup{
			FileName: name, FilePath: path,
			Status:    backup.StatusCompleted,
			StartedAt: time.Now().Add(time.Duration(i) * time.Minute),
		}))
	}

	removed, err := svc.Cleanup(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	remaining, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 2)
	// Newest two survive.
	assert.Equal(t, "d.sql", remaining[0].FileName)
	assert.Equal(t, "c.sql", remaining[1].FileName)
	_, err = os.Stat(filepath.Join(dir, "a.sql"))
	assert.True(t, os.IsNotExist(err))
}
