package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"timetable-backend/internal/timetable"
	"timetable-backend/lib/textutil"

	"github.com/spf13/cobra"
)

const (
	suggestionLimit     = 5
	suggestionThreshold = 0.8
)

func init() {
	rootCmd.AddCommand(findCourseCmd)
	rootCmd.AddCommand(findCrnCmd)
}

// suggestCourses proposes course codes close to `partial`. A partial with
// a subject prefix is compared against the courses of that subject,
// otherwise against the subject codes.
func suggestCourses(ctx context.Context, partial string) []string {
	partial = strings.ToUpper(strings.TrimSpace(partial))
	subject, _, found := strings.Cut(partial, "-")
	if found && subject != "" {
		candidates := app.scraper.CoursesForSubject(ctx, app.term, subject)
		return textutil.Suggest(partial, candidates, suggestionLimit, suggestionThreshold)
	}
	candidates := timetable.SubjectCodes(app.scraper.ListSubjects(ctx, app.term))
	return textutil.Suggest(partial, candidates, suggestionLimit, suggestionThreshold)
}

var findCourseCmd = &cobra.Command{
	Use:   "find-course <partial code>",
	Short: "Finds the courses whose code contains the given text across all subjects.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		matched, err := app.scraper.FindCourse(cmd.Context(), app.term, args[0])
		if err != nil {
			return err
		}
		if len(matched) == 0 {
			suggestions := suggestCourses(cmd.Context(), args[0])
			if len(suggestions) > 0 {
				fmt.Fprintf(os.Stderr, "no course matches %q, did you mean: %s\n", args[0], strings.Join(suggestions, ", "))
			} else {
				fmt.Fprintf(os.Stderr, "no course matches %q\n", args[0])
			}
		}
		return app.out.subjectMap(matched)
	},
}

var findCrnCmd = &cobra.Command{
	Use:   "find-crn <crn>",
	Short: "Finds the section with the given CRN.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		match, ok := app.scraper.FindSectionByCRN(cmd.Context(), app.term, args[0])
		if !ok {
			return fmt.Errorf("no section with crn %q during %s", args[0], app.term)
		}
		return app.out.sectionMatch(match)
	},
}
