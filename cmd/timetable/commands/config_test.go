package commands

import (
	"os"
	"path/filepath"
	"testing"
	"time"
	"timetable-backend/internal/scrapers/banner"
	"timetable-backend/internal/timetable"

	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	previous, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		os.Chdir(previous)
	})
}

func TestLoadConfigMissing(t *testing.T) {
	chdir(t, t.TempDir())

	config, path, err := loadConfig("timetable-missing.json5", false)
	require.NoError(t, err)
	require.Equal(t, "", path)
	require.Equal(t, defaultConfig(), config)

	_, _, err = loadConfig("timetable-missing.json5", true)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "timetable.json5"), []byte(`{
		// comments are allowed
		term: "202509",
		fetcher: { timeout_seconds: 30 },
		scraper: { concurrency: 8 },
	}`), 0600)
	require.NoError(t, err)
	chdir(t, dir)

	config, path, err := loadConfig("timetable.json5", false)
	require.NoError(t, err)
	require.Equal(t, "timetable.json5", filepath.Base(path))
	require.Equal(t, "202509", config.Term)
	require.Equal(t, 8, config.Scraper.Concurrency)

	opts := config.Fetcher.options()
	require.Equal(t, 30*time.Second, opts.Timeout)
	require.Equal(t, banner.DefaultEndpoint, opts.Endpoint)
	require.Equal(t, banner.DefaultCampus, opts.Campus)
}

func TestScraperConfigDialect(t *testing.T) {
	custom := timetable.DefaultDialect()
	custom.Name = "vt-legacy"

	dialect, err := ScraperConfig{}.dialect()
	require.NoError(t, err)
	require.Equal(t, timetable.DefaultDialect().Name, dialect.Name)

	dialect, err = ScraperConfig{Dialect: "vt-legacy", Dialects: []timetable.Dialect{custom}}.dialect()
	require.NoError(t, err)
	require.Equal(t, "vt-legacy", dialect.Name)

	_, err = ScraperConfig{Dialect: "missing"}.dialect()
	require.ErrorIs(t, err, timetable.ErrInvalidDialect)
}
