// Package backup takes consistent copies of the caseflow SQLite database,
// prunes them with a tiered retention policy and restores them.
package backup

import (
	"log/slog"
	"time"
)

// Options configures a Service.
type Options struct {
	// DBPath is the SQLite database holding the graph snapshot.
	DBPath string

	// Dir is where backup files are written.
	Dir string

	// Interval between scheduled backups (default: 1h).
	Interval time.Duration

	// Retention bounds how many backups each age tier keeps.
	Retention RetentionPolicy

	// SkipVerify disables the integrity check after each backup.
	SkipVerify bool

	Logger *slog.Logger
}

// RetentionPolicy defines how many backups to keep in each age tier:
// hourly (<1 day), daily (<1 week), weekly (<30 days) and monthly
// (<1 year). Anything older than a year is removed.
type RetentionPolicy struct {
	Hourly  int
	Daily   int
	Weekly  int
	Monthly int
}

// DefaultRetention keeps a day of hourly copies and a year of monthly ones.
var DefaultRetention = RetentionPolicy{Hourly: 24, Daily: 7, Weekly: 4, Monthly: 12}

// Info describes one backup file.
type Info struct {
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
	Size      int64     `json:"size"`
}

// Result describes a completed backup.
type Result struct {
	Path     string        `json:"path"`
	Duration time.Duration `json:"duration"`
	Size     int64         `json:"size"`
	Verified bool          `json:"verified"`
}

// Status summarises the backup directory for health reporting.
type Status struct {
	Status        string    `json:"status"` // healthy or warning
	Message       string    `json:"message"`
	LastBackup    time.Time `json:"last_backup,omitempty"`
	TotalBackups  int       `json:"total_backups"`
	DiskSpaceUsed int64     `json:"disk_space_used"`
}
