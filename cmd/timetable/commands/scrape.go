package commands

import (
	"log/slog"
	"strings"
	"timetable-backend/internal/timetable"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [subject...]",
	Short: "Scrapes the given subjects, or every subject when none are given.",
	RunE: func(cmd *cobra.Command, args []string) error {
		started := app.clock.Now()

		var subjects timetable.SubjectMap
		if len(args) == 0 {
			subjects = app.scraper.ScrapeAll(cmd.Context(), app.term)
		} else {
			codes := make([]string, len(args))
			for i, arg := range args {
				codes[i] = strings.ToUpper(strings.TrimSpace(arg))
			}
			subjects = app.scraper.ScrapeSubjects(cmd.Context(), app.term, codes)
		}

		slog.Info(
			"scrape finished",
			"term", app.term,
			"subjects", len(subjects),
			"courses", len(subjects.CourseCodes()),
			"seconds", app.clock.Now().Sub(started).Seconds(),
		)

		return app.out.snapshot(timetable.Snapshot{
			Term:      app.term,
			ScrapedAt: app.clock.Now(),
			Subjects:  subjects,
		})
	},
}
