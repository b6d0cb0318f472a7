// Package config provides configuration management for caseflow.
// It loads settings from environment variables with the CASEFLOW_ prefix
// and provides sensible defaults for all configuration options.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Storage engines
const (
	EngineSQLite   = "sqlite"
	EnginePostgres = "postgres"
	EngineMemory   = "memory"
)

// Config holds all configuration settings for the caseflow application.
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Security  SecurityConfig
	Deadlines DeadlinesConfig
	Notify    NotifyConfig
	Backup    BackupConfig
	Logging   LoggingConfig
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port int    // Server port (default: 6464)
	Host string // Server host (default: 127.0.0.1)

	// AllowedOrigins are extra websocket origins accepted besides
	// localhost (comma-separated in CASEFLOW_ALLOWED_ORIGINS).
	AllowedOrigins []string
}

// StorageConfig contains snapshot storage configuration.
type StorageConfig struct {
	StorageEngine string // sqlite, postgres or memory (default: sqlite)
	DataPath      string // Path to data directory (default: ./data)
	PostgresDSN   string // Connection string when StorageEngine is postgres
	SnapshotName  string // Snapshot row name (default: graph)
}

// SecurityConfig contains security and authentication settings.
type SecurityConfig struct {
	SecurityMode string // Security mode: development, production (default: development)
	APIToken     string // API authentication token
	RateLimit    int    // Requests per second per client (default: 20)
	RateBurst    int    // Burst size (default: 40)
}

// DeadlinesConfig contains deadline engine settings.
type DeadlinesConfig struct {
	RulesFile              string // Optional YAML rule table merged over the built-ins
	WatchRules             bool   // Reload RulesFile on change (default: true)
	DefaultPreparationDays int    // Preparation days when a request omits them (default: 7)
}

// NotifyConfig contains escalation webhook settings.
type NotifyConfig struct {
	WebhookURL      string        // Escalation webhook; empty disables delivery
	Primary         string        // Address of the primary contact
	Backup          string        // Address of the backup contact
	Assistant       string        // Address of the assistant
	BreakerFailures int           // Consecutive failures before the breaker opens (default: 3)
	BreakerTimeout  time.Duration // How long the breaker stays open (default: 30s)
	WebhookTimeout  time.Duration // Per-request timeout (default: 10s)
}

// BackupConfig contains SQLite backup settings. Backups only apply to the
// sqlite engine.
type BackupConfig struct {
	Dir         string        // Backup directory (default: <DataPath>/backups)
	Interval    time.Duration // Scheduled backup interval; 0 disables (default: 0)
	KeepHourly  int           // Backups kept from the last day (default: 24)
	KeepDaily   int           // Backups kept from the last week (default: 7)
	KeepWeekly  int           // Backups kept from the last month (default: 4)
	KeepMonthly int           // Backups kept from the last year (default: 12)
}

// LoggingConfig contains log output settings.
type LoggingConfig struct {
	Level  string // debug, info, warn, error (default: info)
	Format string // text or json (default: text)
}

// LoadConfig loads configuration from environment variables with sensible defaults.
// All environment variables use the CASEFLOW_ prefix.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnvInt("CASEFLOW_PORT", 6464),
			Host:           getEnv("CASEFLOW_HOST", "127.0.0.1"),
			AllowedOrigins: getEnvList("CASEFLOW_ALLOWED_ORIGINS"),
		},
		Storage: StorageConfig{
			StorageEngine: strings.ToLower(getEnv("CASEFLOW_STORAGE_ENGINE", EngineSQLite)),
			DataPath:      getEnv("CASEFLOW_DATA_PATH", "./data"),
			PostgresDSN:   getEnv("CASEFLOW_POSTGRES_DSN", ""),
			SnapshotName:  getEnv("CASEFLOW_SNAPSHOT_NAME", "graph"),
		},
		Security: SecurityConfig{
			SecurityMode: getEnv("CASEFLOW_SECURITY_MODE", "development"),
			APIToken:     getEnv("CASEFLOW_API_TOKEN", ""),
			RateLimit:    getEnvInt("CASEFLOW_RATE_LIMIT", 20),
			RateBurst:    getEnvInt("CASEFLOW_RATE_BURST", 40),
		},
		Deadlines: DeadlinesConfig{
			RulesFile:              getEnv("CASEFLOW_RULES_FILE", ""),
			WatchRules:             getEnvBool("CASEFLOW_WATCH_RULES", true),
			DefaultPreparationDays: getEnvInt("CASEFLOW_PREPARATION_DAYS", 7),
		},
		Notify: NotifyConfig{
			WebhookURL:      getEnv("CASEFLOW_WEBHOOK_URL", ""),
			Primary:         getEnv("CASEFLOW_NOTIFY_PRIMARY", ""),
			Backup:          getEnv("CASEFLOW_NOTIFY_BACKUP", ""),
			Assistant:       getEnv("CASEFLOW_NOTIFY_ASSISTANT", ""),
			BreakerFailures: getEnvInt("CASEFLOW_BREAKER_FAILURES", 3),
			BreakerTimeout:  getEnvDuration("CASEFLOW_BREAKER_TIMEOUT", 30*time.Second),
			WebhookTimeout:  getEnvDuration("CASEFLOW_WEBHOOK_TIMEOUT", 10*time.Second),
		},
		Backup: BackupConfig{
			Dir:         getEnv("CASEFLOW_BACKUP_DIR", ""),
			Interval:    getEnvDuration("CASEFLOW_BACKUP_INTERVAL", 0),
			KeepHourly:  getEnvInt("CASEFLOW_BACKUP_KEEP_HOURLY", 24),
			KeepDaily:   getEnvInt("CASEFLOW_BACKUP_KEEP_DAILY", 7),
			KeepWeekly:  getEnvInt("CASEFLOW_BACKUP_KEEP_WEEKLY", 4),
			KeepMonthly: getEnvInt("CASEFLOW_BACKUP_KEEP_MONTHLY", 12),
		},
		Logging: LoggingConfig{
			Level:  strings.ToLower(getEnv("CASEFLOW_LOG_LEVEL", "info")),
			Format: strings.ToLower(getEnv("CASEFLOW_LOG_FORMAT", "text")),
		},
	}

	if cfg.Backup.Dir == "" {
		cfg.Backup.Dir = filepath.Join(cfg.Storage.DataPath, "backups")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("config: invalid port %d", c.Server.Port))
	}

	switch c.Storage.StorageEngine {
	case EngineSQLite, EngineMemory:
	case EnginePostgres:
		if c.Storage.PostgresDSN == "" {
			errs = append(errs, errors.New("config: CASEFLOW_POSTGRES_DSN is required for the postgres engine"))
		}
	default:
		errs = append(errs, fmt.Errorf("config: unknown storage engine %q", c.Storage.StorageEngine))
	}

	switch c.Security.SecurityMode {
	case "development":
	case "production":
		if c.Security.APIToken == "" {
			errs = append(errs, errors.New("config: CASEFLOW_API_TOKEN is required in production mode"))
		}
	default:
		errs = append(errs, fmt.Errorf("config: unknown security mode %q", c.Security.SecurityMode))
	}

	if c.Backup.Interval < 0 {
		errs = append(errs, fmt.Errorf("config: negative backup interval %s", c.Backup.Interval))
	}

	switch c.Logging.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("config: unknown log format %q", c.Logging.Format))
	}

	return errors.Join(errs...)
}

// SQLitePath is the database file used by the sqlite engine.
func (c *Config) SQLitePath() string {
	return filepath.Join(c.Storage.DataPath, "caseflow.db")
}

// getEnv retrieves a string environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default value.
// If the environment variable exists but cannot be parsed as an integer,
// it returns the default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns a default value.
// It recognizes "true", "1", "yes" as true and "false", "0", "no" as false (case-insensitive).
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		switch strings.ToLower(value) {
		case "true", "1", "yes":
			return true
		case "false", "0", "no":
			return false
		}
	}
	return defaultValue
}

// getEnvDuration parses a time.Duration ("30s", "2m") or returns the default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvList splits a comma-separated variable, dropping empty items.
func getEnvList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
