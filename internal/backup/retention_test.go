package backup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeBackup creates a fake backup file whose modification time is age ago.
func writeBackup(t *testing.T, dir, name string, now time.Time, age time.Duration) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("sqlite"), 0o600))
	ts := now.Add(-age)
	require.NoError(t, os.Chtimes(path, ts, ts))
	return path
}

func TestListBackups(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()

	older := writeBackup(t, dir, "caseflow-a.db", now, 2*time.Hour)
	newer := writeBackup(t, dir, "caseflow-b.db", now, time.Hour)
	writeBackup(t, dir, "notes.db", now, time.Hour)
	writeBackup(t, dir, "caseflow-c.json", now, time.Hour)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "caseflow-dir.db"), 0o750))

	backups, err := listBackups(dir)
	require.NoError(t, err)
	require.Len(t, backups, 2)
	assert.Equal(t, newer, backups[0].Path, "newest first")
	assert.Equal(t, older, backups[1].Path)
	assert.EqualValues(t, 6, backups[0].Size)

	_, err = listBackups(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestExpired(t *testing.T) {
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	at := func(name string, age time.Duration) Info {
		return Info{Path: name, Timestamp: now.Add(-age)}
	}
	backups := []Info{
		at("h1", time.Hour),
		at("h2", 2*time.Hour),
		at("h3", 3*time.Hour),
		at("d1", 2*24*time.Hour),
		at("d2", 3*24*time.Hour),
		at("w1", 10*24*time.Hour),
		at("m1", 60*24*time.Hour),
		at("m2", 90*24*time.Hour),
		at("old", 400*24*time.Hour),
	}

	drop := expired(backups, RetentionPolicy{Hourly: 2, Daily: 1, Weekly: 4, Monthly: 1}, now)
	assert.ElementsMatch(t, []string{"h3", "d2", "m2", "old"}, drop)

	assert.ElementsMatch(t, []string{"old"}, expired(backups, DefaultRetention, now),
		"backups older than a year are always dropped")

	drop = expired(backups, RetentionPolicy{Hourly: -1}, now)
	assert.Len(t, drop, len(backups), "negative limits keep nothing")
}

func TestApplyRetention(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()

	keep := writeBackup(t, dir, "caseflow-1.db", now, time.Minute)
	gone := writeBackup(t, dir, "caseflow-2.db", now, 2*time.Minute)
	ancient := writeBackup(t, dir, "caseflow-3.db", now, 400*24*time.Hour)

	removed, err := applyRetention(dir, RetentionPolicy{Hourly: 1, Daily: 1, Weekly: 1, Monthly: 1}, now)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	assert.FileExists(t, keep)
	assert.NoFileExists(t, gone)
	assert.NoFileExists(t, ancient)
}
