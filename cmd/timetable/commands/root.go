package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"
	"timetable-backend/internal/chrono"
	"timetable-backend/internal/components/telemetry"
	"timetable-backend/internal/scrapers/banner"
	"timetable-backend/internal/timetable"
	libtelemetry "timetable-backend/lib/telemetry"

	"github.com/mazen160/go-random"
	"github.com/spf13/cobra"
)

var (
	configName string
	termFlag   string
	verbose    bool
	formatFlag string
	outPath    string
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configName, "config", "timetable.json5", "The config file, searched for in parent directories.")
	flags.StringVar(&termFlag, "term", "", "The term to scrape like 202509, overrides the config.")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging.")
	flags.StringVar(&formatFlag, "format", formatTable, "The output format, table or json.")
	flags.StringVar(&outPath, "out", "", "Write the output to a file instead of stdout.")
}

// session holds everything a command needs, it is created before the
// command runs and closed after Execute returns.
type session struct {
	term    string
	fetcher io.Closer
	scraper *timetable.Scraper
	clock   chrono.TimeAPI
	out     output
	outFile io.Closer
	// shutdown flushes the otel providers, nil when telemetry is not set up.
	shutdown func(ctx context.Context) error
}

var app *session

// close releases whatever has been created so far, it is safe on a
// partially built session.
func (s *session) close() {
	var closer io.Closer = s.fetcher
	if s.scraper != nil {
		closer = s.scraper
	}
	if closer != nil {
		err := closer.Close()
		if err != nil {
			slog.Warn("failed to close fetcher", "err", err)
		}
	}
	if s.outFile != nil {
		err := s.outFile.Close()
		if err != nil {
			slog.Warn("failed to close output file", "err", err)
		}
	}

	if s.shutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		err := s.shutdown(ctx)
		if err != nil {
			slog.Warn("failed to shutdown telemetry", "err", err)
		}
	}
}

func setup(cmd *cobra.Command) (*session, error) {
	runId, err := random.String(8)
	if err != nil {
		return nil, err
	}
	telemetry.InitSlog(verbose, "run_id", runId)

	config, path, err := loadConfig(configName, cmd.Flags().Changed("config"))
	if err != nil {
		return nil, err
	}
	if path != "" {
		slog.Debug("loaded config", "path", path)
	}

	term := termFlag
	if term == "" {
		term = config.Term
	}
	if term == "" {
		return nil, errors.New("no term given, pass --term or set term in the config")
	}

	return newSession(cmd.Context(), config, term)
}

// newSession builds the scraper and the output for `term`. On failure
// everything created before the error is closed.
func newSession(ctx context.Context, config Config, term string) (*session, error) {
	otel, err := libtelemetry.Setup(ctx, "timetable", config.Telemetry)
	if err != nil {
		return nil, fmt.Errorf("setup telemetry: %w", err)
	}
	s := &session{term: term, shutdown: otel.Shutdown}
	fail := func(err error) (*session, error) {
		s.close()
		return nil, err
	}

	if config.Telemetry.PerfStats && otel.MeterProvider != nil {
		libtelemetry.InstrumentPerfStats(ctx)
	}

	s.clock, err = chrono.NewStandardTime(config.TimeZone)
	if err != nil {
		return fail(fmt.Errorf("time zone: %w", err))
	}

	tel := telemetry.SlogAPI{}
	client, err := banner.NewClient(config.Fetcher.options(), tel)
	if err != nil {
		return fail(fmt.Errorf("fetcher: %w", err))
	}
	s.fetcher = client

	opts, err := config.Scraper.options()
	if err != nil {
		return fail(err)
	}
	s.scraper, err = timetable.NewScraper(client, opts, tel)
	if err != nil {
		return fail(err)
	}

	var w io.Writer = os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fail(err)
		}
		w = f
		s.outFile = f
	}
	s.out, err = newOutput(w, formatFlag)
	if err != nil {
		return fail(err)
	}
	return s, nil
}

var rootCmd = &cobra.Command{
	Use:          "timetable",
	Short:        "timetable is a CLI for scraping the university timetable of classes.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := setup(cmd)
		if err != nil {
			return err
		}
		app = s
		return nil
	},
}

func ExecuteContext(ctx context.Context) {
	err := rootCmd.ExecuteContext(ctx)
	if app != nil {
		app.close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
