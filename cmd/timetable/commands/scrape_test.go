package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"
	"timetable-backend/internal/chrono"
	"timetable-backend/internal/components/telemetry"
	"timetable-backend/internal/timetable"

	"github.com/stretchr/testify/require"
)

type emptyFetcher struct{}

func (emptyFetcher) FetchPage(ctx context.Context, query timetable.Query) (string, error) {
	return "<html><body>No sections found</body></html>", nil
}

func TestScrapeUsesSessionClock(t *testing.T) {
	scraper, err := timetable.NewScraper(emptyFetcher{}, timetable.ScraperOptions{}, &telemetry.Recorder{})
	require.NoError(t, err)

	var buf bytes.Buffer
	out, err := newOutput(&buf, formatJson)
	require.NoError(t, err)

	instant := time.Date(2025, 8, 25, 8, 0, 0, 0, time.UTC)
	previous := app
	app = &session{
		term:    "202509",
		scraper: scraper,
		clock:   chrono.FixedTime(instant),
		out:     out,
	}
	t.Cleanup(func() {
		app.close()
		app = previous
	})

	scrapeCmd.SetContext(context.Background())
	require.NoError(t, scrapeCmd.RunE(scrapeCmd, []string{"cs"}))

	var snapshot timetable.Snapshot
	require.NoError(t, json.Unmarshal(buf.Bytes(), &snapshot))
	require.Equal(t, "202509", snapshot.Term)
	require.True(t, instant.Equal(snapshot.ScrapedAt))
	require.Empty(t, snapshot.Subjects)
}
