package commands

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(subjectsCmd)
}

var subjectsCmd = &cobra.Command{
	Use:   "subjects",
	Short: "Lists the subjects offered during the term.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.out.subjects(app.scraper.ListSubjects(cmd.Context(), app.term))
	},
}
