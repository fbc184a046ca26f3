package commands

import (
	"errors"
	"fmt"
	"os"
	"time"
	"timetable-backend/internal/scrapers/banner"
	"timetable-backend/internal/timetable"
	"timetable-backend/lib/configutil"
	libtelemetry "timetable-backend/lib/telemetry"
)

type FetcherConfig struct {
	Endpoint          string  `json:"endpoint"`
	Campus            string  `json:"campus"`
	TimeoutSeconds    int     `json:"timeout_seconds"`
	RequestsPerSecond float64 `json:"requests_per_second"`
	Burst             int     `json:"burst"`
	UserAgent         string  `json:"user_agent"`
	CloudflareBypass  bool    `json:"cloudflare_bypass"`
	// DumpDir accepts a "<dev_state>/..." path.
	DumpDir string `json:"dump_dir"`
}

func (c FetcherConfig) options() banner.Options {
	return banner.Options{
		Endpoint:          c.Endpoint,
		Campus:            c.Campus,
		Timeout:           time.Duration(c.TimeoutSeconds) * time.Second,
		RequestsPerSecond: c.RequestsPerSecond,
		Burst:             c.Burst,
		UserAgent:         c.UserAgent,
		CloudflareBypass:  c.CloudflareBypass,
		DumpDir:           c.DumpDir,
	}
}

type ScraperConfig struct {
	Concurrency int `json:"concurrency"`
	// Dialect names the table layout, either the built in one or one of
	// Dialects.
	Dialect  string              `json:"dialect"`
	Dialects []timetable.Dialect `json:"dialects"`
}

func (c ScraperConfig) dialect() (timetable.Dialect, error) {
	builtin := timetable.DefaultDialect()
	if c.Dialect == "" || c.Dialect == builtin.Name {
		return builtin, nil
	}
	for _, d := range c.Dialects {
		if d.Name == c.Dialect {
			return d, nil
		}
	}
	return timetable.Dialect{}, fmt.Errorf("%w: unknown dialect %q", timetable.ErrInvalidDialect, c.Dialect)
}

func (c ScraperConfig) options() (timetable.ScraperOptions, error) {
	dialect, err := c.dialect()
	if err != nil {
		return timetable.ScraperOptions{}, err
	}
	return timetable.ScraperOptions{
		Dialect:     dialect,
		Concurrency: c.Concurrency,
	}, nil
}

type Config struct {
	// Term is used when --term is not given.
	Term      string              `json:"term"`
	Fetcher   FetcherConfig       `json:"fetcher"`
	Scraper   ScraperConfig       `json:"scraper"`
	Telemetry libtelemetry.Config `json:"telemetry"`
	// TimeZone of the scraped_at timestamp, defaults to UTC.
	TimeZone string `json:"time_zone"`
}

func defaultConfig() Config {
	return Config{
		Fetcher: FetcherConfig{
			Endpoint:          banner.DefaultEndpoint,
			Campus:            banner.DefaultCampus,
			TimeoutSeconds:    int(banner.DefaultTimeout / time.Second),
			RequestsPerSecond: banner.DefaultRequestsPerSecond,
		},
		Scraper: ScraperConfig{
			Concurrency: 4,
		},
	}
}

// loadConfig reads `name` searching upward from the cwd. A missing file
// yields the defaults unless `explicit` is set.
func loadConfig(name string, explicit bool) (Config, string, error) {
	config, path, err := configutil.ReadRecursively(name, defaultConfig())
	if errors.Is(err, os.ErrNotExist) && !explicit {
		return defaultConfig(), "", nil
	}
	if err != nil {
		return Config{}, "", fmt.Errorf("read config %s: %w", name, err)
	}
	return config, path, nil
}
