package commands

import (
	"context"
	"testing"
	"timetable-backend/internal/timetable"

	"github.com/stretchr/testify/require"
)

type countingCloser struct {
	closed int
}

func (c *countingCloser) Close() error {
	c.closed++
	return nil
}

func TestPartialSessionClose(t *testing.T) {
	fetcher := &countingCloser{}
	shutdowns := 0
	s := &session{
		fetcher: fetcher,
		shutdown: func(ctx context.Context) error {
			shutdowns++
			return nil
		},
	}
	s.close()
	require.Equal(t, 1, fetcher.closed)
	require.Equal(t, 1, shutdowns)

	// nothing created yet
	(&session{}).close()
}

func TestNewSessionRejectsUnknownDialect(t *testing.T) {
	config := defaultConfig()
	config.Scraper.Dialect = "missing"

	s, err := newSession(context.Background(), config, "202509")
	require.ErrorIs(t, err, timetable.ErrInvalidDialect)
	require.Nil(t, s)
}

func TestNewSession(t *testing.T) {
	s, err := newSession(context.Background(), defaultConfig(), "202509")
	require.NoError(t, err)
	defer s.close()
	require.Equal(t, "202509", s.term)
	require.NotNil(t, s.scraper)
	require.NotNil(t, s.clock)
}
