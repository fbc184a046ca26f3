package commands

import (
	"timetable-backend/internal/timetable"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(crossListedCmd)
}

var crossListedCmd = &cobra.Command{
	Use:   "cross-listed",
	Short: "Lists the CRNs that appear under more than one subject.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		subjects := app.scraper.ScrapeAll(cmd.Context(), app.term)
		return app.out.crossListings(timetable.CrossListings(subjects))
	},
}
