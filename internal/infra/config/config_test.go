package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/test")
	for _, key := range []string{
		"APP_NAME", "TIMEZONE", "DEFAULT_MONTHLY_AMOUNT",
		"CRON_SPEC_BILLING", "CRON_SPEC_BACKUP", "BACKUP_RETENTION",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "GB Cidade Nova", cfg.AppName)
	assert.Equal(t, "America/Manaus", cfg.Timezone)
	assert.Equal(t, "150.00", cfg.DefaultMonthlyAmount.StringFixed(2))
	assert.Equal(t, "0 8 * * *", cfg.CronSpecBilling)
	assert.Equal(t, "0 3,15 * * *", cfg.CronSpecBackup)
	assert.Equal(t, 14, cfg.BackupRetention)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "America/Manaus", loc.String())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/test")
	t.Setenv("TIMEZONE", "America/Sao_Paulo")
	t.Setenv("BACKUP_RETENTION", "3")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "America/Sao_Paulo", cfg.Timezone)
	assert.Equal(t, 3, cfg.BackupRetention)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/test")

	t.Run("monthly amount", func(t *testing.T) {
		t.Setenv("DEFAULT_MONTHLY_AMOUNT", "abc")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("retention", func(t *testing.T) {
		t.Setenv("BACKUP_RETENTION", "0")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("timezone", func(t *testing.T) {
		t.Setenv("TIMEZONE", "Mars/Olympus")
		cfg, err := Load()
		require.NoError(t, err)
		_, err = cfg.Location()
		assert.Error(t, err)
	})
}
