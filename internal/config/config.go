package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	devSecretKey  = "dev-secret-key-change-in-production"
	devCronSecret = "dev-cron-secret"
	devPassword   = "goals2026"
)

// Categories is the recommended category list exposed to the frontend.
// It is not a hard constraint on stored goals.
var Categories = []string{
	"Health",
	"Finance",
	"Career",
	"Relationship",
	"Personal",
	"Other",
}

type Config struct {
	// Application
	AppName string
	AppEnv  string
	AppURL  string
	Port    string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBPath       string
	DBConnection string

	// Security
	SecretKey       string
	SessionExpiry   time.Duration
	AppPassword     string
	AppPasswordHash string
	CronSecret      string

	// Login rate limiting (0 disables)
	LoginRateLimit  int
	LoginRateWindow time.Duration
	TrustProxy      bool // read client IPs from X-Forwarded-For

	// Household
	Person1Name string
	Person2Name string
	CurrentYear int

	// Email
	MailProvider    string // "resend", "smtp" or "log"; empty auto-detects
	EmailFrom       string
	EmailFromName   string
	ResendAPIKey    string
	SMTPHost        string
	SMTPPort        int
	SMTPUsername    string
	SMTPPassword    string
	RecipientEmails []string

	// Observability (optional)
	SentryDSN      string
	MetricsEnabled bool

	// Backups (S3-compatible, optional)
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string
	BackupKeep  int
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	dbPath := envString("DB_PATH", "./data/goals.db")

	cfg := &Config{
		// Application
		AppName: envString("APP_NAME", "Goals Tracker"),
		AppEnv:  envString("APP_ENV", "development"),
		AppURL:  envString("APP_URL", "http://localhost:8000"),
		Port:    envString("PORT", "8000"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBPath:       dbPath,
		DBConnection: envString("DB_CONNECTION", SQLiteDSN(dbPath)),

		// Security
		SecretKey:       envString("SECRET_KEY", devSecretKey),
		SessionExpiry:   envDuration("SESSION_EXPIRY", 30*24*time.Hour), // 30 days
		AppPassword:     envString("APP_PASSWORD", ""),
		AppPasswordHash: envString("APP_PASSWORD_HASH", ""),
		CronSecret:      envString("CRON_SECRET", devCronSecret),
		LoginRateLimit:  envInt("LOGIN_RATE_LIMIT", 10),
		LoginRateWindow: envDuration("LOGIN_RATE_WINDOW", 15*time.Minute),
		TrustProxy:      envBool("TRUST_PROXY", false),

		// Household
		Person1Name: envString("PERSON_1_NAME", "Mark"),
		Person2Name: envString("PERSON_2_NAME", "Gabs"),
		CurrentYear: envInt("CURRENT_YEAR", time.Now().Year()),

		// Email (GMAIL_* names are accepted for the SMTP relay)
		MailProvider:    strings.ToLower(envString("MAIL_PROVIDER", "")),
		EmailFrom:       envString("EMAIL_FROM", envString("GMAIL_ADDRESS", "noreply@example.com")),
		EmailFromName:   envString("EMAIL_FROM_NAME", "Goals Tracker"),
		ResendAPIKey:    envString("RESEND_API_KEY", ""),
		SMTPHost:        envString("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:        envInt("SMTP_PORT", 465),
		SMTPUsername:    envString("SMTP_USERNAME", envString("GMAIL_ADDRESS", "")),
		SMTPPassword:    envString("SMTP_PASSWORD", envString("GMAIL_APP_PASSWORD", "")),
		RecipientEmails: envList("RECIPIENT_EMAILS"),

		// Observability
		SentryDSN:      envString("SENTRY_DSN", ""),
		MetricsEnabled: envBool("METRICS_ENABLED", true),

		// Backups
		S3Region:    envString("S3_REGION", "us-east-1"),
		S3Bucket:    envString("S3_BUCKET", ""),
		S3AccessKey: envString("S3_ACCESS_KEY", ""),
		S3SecretKey: envString("S3_SECRET_KEY", ""),
		S3Endpoint:  envString("S3_ENDPOINT", ""),
		BackupKeep:  envInt("BACKUP_KEEP", 12),
	}

	if cfg.AppPassword == "" && cfg.AppPasswordHash == "" && !cfg.IsProduction() {
		slog.Warn("no APP_PASSWORD or APP_PASSWORD_HASH set, using development password")
		cfg.AppPassword = devPassword
	}

	// Production: validate secrets
	if cfg.IsProduction() {
		err = cfg.ValidateProduction()
		if err != nil {
			slog.Error("invalid production configuration", "error", err,
				"hint", "set APP_ENV=development for local testing with default secrets")
			os.Exit(1)
		}
	}

	return cfg
}

// SQLiteDSN builds the modernc connection string for a database file.
// Immediate transactions take the write lock up front so read-then-write
// sequences on the same goal serialise.
func SQLiteDSN(path string) string {
	return path + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_txlock=immediate"
}

// ValidateProduction reports the first setting that is unsafe to deploy with.
func (c *Config) ValidateProduction() error {
	if c.SecretKey == "" || c.SecretKey == devSecretKey {
		return fmt.Errorf("SECRET_KEY must be set")
	}
	if c.CronSecret == "" || c.CronSecret == devCronSecret {
		return fmt.Errorf("CRON_SECRET must be set")
	}
	if c.AppPassword == "" && c.AppPasswordHash == "" {
		return fmt.Errorf("APP_PASSWORD or APP_PASSWORD_HASH must be set")
	}
	return nil
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return i
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

// envList splits a comma separated variable, dropping blanks.
func envList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Persons returns the two configured display names in order.
func (c *Config) Persons() []string {
	return []string{c.Person1Name, c.Person2Name}
}

// BackupsEnabled reports whether S3-compatible storage is configured.
func (c *Config) BackupsEnabled() bool {
	return c.S3Bucket != ""
}
