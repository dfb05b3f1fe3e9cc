package vault

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-session-keeper/internal/logger"
)

func writeAged(t *testing.T, dir, name string, age time.Duration) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
	mtime := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(path, mtime, mtime))
	return path
}

func TestSweeper_RemovesStaleArtifacts(t *testing.T) {
	dir := t.TempDir()
	s := NewSweeper(dir, 24*time.Hour, time.Hour, logger.Nop())

	stale := writeAged(t, dir, "servers.json", 48*time.Hour)
	fresh := writeAged(t, dir, "sentry.bin", time.Minute)

	s.sweepOnce(time.Now())

	assert.NoFileExists(t, stale)
	assert.FileExists(t, fresh)
}

func TestSweeper_NeverTouchesVaultRecords(t *testing.T) {
	dir := t.TempDir()
	s := NewSweeper(dir, 24*time.Hour, time.Hour, logger.Nop())

	record := writeAged(t, dir, "alice"+RecordSuffix, 30*24*time.Hour)

	s.sweepOnce(time.Now())

	assert.FileExists(t, record)
}

func TestSweeper_RemovesTempFilesRegardlessOfAge(t *testing.T) {
	dir := t.TempDir()
	s := NewSweeper(dir, 24*time.Hour, time.Hour, logger.Nop())

	tmp := writeAged(t, dir, "download.tmp", time.Second)

	s.sweepOnce(time.Now())

	assert.NoFileExists(t, tmp)
}

func TestSweeper_LeavesSubdirectoriesAlone(t *testing.T) {
	dir := t.TempDir()
	s := NewSweeper(dir, 24*time.Hour, time.Hour, logger.Nop())

	sub := filepath.Join(dir, "depots")
	require.NoError(t, os.Mkdir(sub, 0o700))
	old := time.Now().Add(-30 * 24 * time.Hour)
	require.NoError(t, os.Chtimes(sub, old, old))

	s.sweepOnce(time.Now())

	assert.DirExists(t, sub)
}

func TestSweeper_MissingDirIsFine(t *testing.T) {
	s := NewSweeper(filepath.Join(t.TempDir(), "absent"), 24*time.Hour, time.Hour, logger.Nop())

	s.sweepOnce(time.Now())
}

func TestSweeper_EmptyCacheDirNeverStarts(t *testing.T) {
	s := NewSweeper("", 24*time.Hour, time.Hour, logger.Nop())

	s.Run()
	s.Stop() // safe even though Run was a no-op
}
