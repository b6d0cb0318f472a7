package backup

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	filePrefix = "caseflow-"
	fileSuffix = ".db"
)

// listBackups returns the backup files in dir, newest first.
func listBackups(dir string) ([]Info, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var backups []Info
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, Info{
			Path:      filepath.Join(dir, name),
			Timestamp: fi.ModTime(),
			Size:      fi.Size(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
	return backups, nil
}

// expired returns the backups the policy no longer keeps, judged at now.
// backups must be sorted newest first.
func expired(backups []Info, policy RetentionPolicy, now time.Time) []string {
	var hourly, daily, weekly, monthly, drop []string
	for _, b := range backups {
		switch age := now.Sub(b.Timestamp); {
		case age < 24*time.Hour:
			hourly = append(hourly, b.Path)
		case age < 7*24*time.Hour:
			daily = append(daily, b.Path)
		case age < 30*24*time.Hour:
			weekly = append(weekly, b.Path)
		case age < 365*24*time.Hour:
			monthly = append(monthly, b.Path)
		default:
			drop = append(drop, b.Path)
		}
	}

	keep := func(tier []string, n int) {
		if n < 0 {
			n = 0
		}
		if len(tier) > n {
			drop = append(drop, tier[n:]...)
		}
	}
	keep(hourly, policy.Hourly)
	keep(daily, policy.Daily)
	keep(weekly, policy.Weekly)
	keep(monthly, policy.Monthly)
	return drop
}

// applyRetention removes the backups in dir that policy no longer keeps.
// Removal continues past individual failures.
func applyRetention(dir string, policy RetentionPolicy, now time.Time) (int, error) {
	backups, err := listBackups(dir)
	if err != nil {
		return 0, err
	}

	var errs []error
	removed := 0
	for _, path := range expired(backups, policy, now) {
		if err := os.Remove(path); err != nil {
			errs = append(errs, err)
			continue
		}
		removed++
	}
	if err := errors.Join(errs...); err != nil {
		return removed, fmt.Errorf("failed to delete some backups: %w", err)
	}
	return removed, nil
}
