package cli

import (
	"fmt"
	"sort"

	"github.com/familytrip/tripplanner/pkg/datekey"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(datesCmd)
	rootCmd.AddCommand(purgeCmd)
}

var datesCmd = &cobra.Command{
	Use:   "dates",
	Short: "List the days that have an itinerary",
	Args:  cobra.NoArgs,
	RunE:  runDates,
}

func runDates(cmd *cobra.Command, args []string) error {
	application, err := openApplication(cmd.Context())
	if err != nil {
		return err
	}
	defer application.Close()

	service := application.Dependencies().ItineraryService
	dates, err := service.DatesWithContent(cmd.Context())
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(dates))
	for d := range dates {
		keys = append(keys, d.String())
	}
	sort.Strings(keys)

	out := cmd.OutOrStdout()
	for _, k := range keys {
		day, err := service.GetDay(cmd.Context(), datekey.DateKey(k))
		if err != nil {
			return err
		}
		fmt.Fprintln(out, k)
		for _, line := range day.Lines() {
			fmt.Fprintf(out, "  %s\n", line)
		}
	}
	return nil
}

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Remove stored days that have no entries",
	Args:  cobra.NoArgs,
	RunE:  runPurge,
}

func runPurge(cmd *cobra.Command, args []string) error {
	application, err := openApplication(cmd.Context())
	if err != nil {
		return err
	}
	defer application.Close()

	removed, err := application.Dependencies().ItineraryService.PurgeEmpty(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %d empty days\n", removed)
	return nil
}
