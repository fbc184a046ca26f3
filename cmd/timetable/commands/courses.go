package commands

import (
	"strings"
	"timetable-backend/internal/timetable"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(coursesCmd)
	rootCmd.AddCommand(sectionsCmd)
}

var coursesCmd = &cobra.Command{
	Use:   "courses <subject>",
	Short: "Lists the course codes of a subject.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		subject := strings.ToUpper(strings.TrimSpace(args[0]))
		return app.out.courseCodes(app.scraper.CoursesForSubject(cmd.Context(), app.term, subject))
	},
}

var sectionsCmd = &cobra.Command{
	Use:   "sections <course code>",
	Short: "Lists the sections of a course like CS-2114.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sections, err := app.scraper.SectionsForCourse(cmd.Context(), app.term, args[0])
		if err != nil {
			return err
		}
		subject, _ := timetable.SplitCourseCode(strings.ToUpper(strings.TrimSpace(args[0])))
		return app.out.sections(subject, sections)
	},
}
