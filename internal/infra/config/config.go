package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// AppConfig holds all configuration for the application.
type AppConfig struct {
	AppName     string
	DatabaseURL string
	HTTPAddr    string
	LogLevel    string
	Environment string

	// Timezone is the academy's civil timezone; every scheduling decision
	// is made in it.
	Timezone string

	SendgridAPIKey  string
	MailFromName    string
	MailFromAddress string

	DefaultMonthlyAmount decimal.Decimal

	CronSpecBilling string // daily notification tick
	CronSpecBackup  string // database dump runs

	BackupDir       string
	BackupRetention int // completed backups kept by Cleanup
	PgDumpPath      string
	PsqlPath        string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// godotenv.Load will not override variables already set in the environment.
	_ = godotenv.Load()

	cfg := &AppConfig{}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.AppName = getOrDefault("APP_NAME", "GB Cidade Nova")
	cfg.HTTPAddr = getOrDefault("HTTP_ADDR", ":8080")
	cfg.LogLevel = strings.ToLower(getOrDefault("LOG_LEVEL", "info"))
	cfg.Environment = strings.ToLower(getOrDefault("ENVIRONMENT", "development"))
	cfg.Timezone = getOrDefault("TIMEZONE", "America/Manaus")

	cfg.SendgridAPIKey = os.Getenv("SENDGRID_API_KEY") // empty: console sender is used
	cfg.MailFromName = getOrDefault("MAIL_FROM_NAME", cfg.AppName)
	cfg.MailFromAddress = getOrDefault("MAIL_FROM_ADDRESS", "financeiro@gbcidadenova.com.br")

	amountStr := getOrDefault("DEFAULT_MONTHLY_AMOUNT", "150.00")
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_MONTHLY_AMOUNT: %w", err)
	}
	cfg.DefaultMonthlyAmount = amount

	cfg.CronSpecBilling = getOrDefault("CRON_SPEC_BILLING", "0 8 * * *")  // 08:00 daily
	cfg.CronSpecBackup = getOrDefault("CRON_SPEC_BACKUP", "0 3,15 * * *") // 03:00 and 15:00

	cfg.BackupDir = getOrDefault("BACKUP_DIR", "./backups")
	retentionStr := getOrDefault("BACKUP_RETENTION", "14")
	cfg.BackupRetention, err = strconv.Atoi(retentionStr)
	if err != nil || cfg.BackupRetention < 1 {
		return nil, fmt.Errorf("invalid BACKUP_RETENTION: %q", retentionStr)
	}
	cfg.PgDumpPath = getOrDefault("PG_DUMP_PATH", "pg_dump")
	cfg.PsqlPath = getOrDefault("PSQL_PATH", "psql")

	return cfg, nil
}

// Location resolves the configured academy timezone.
func (c *AppConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func getOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
