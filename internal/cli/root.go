package cli

import (
	"context"

	"github.com/familytrip/tripplanner/internal/app"
	"github.com/spf13/cobra"
)

const defaultConfigPath = "./config/application.yaml"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "tripplanner",
	Short: "Family trip itinerary and cost planner",
	Long: `tripplanner keeps a day-by-day itinerary of a family trip on a calendar and
compares two cost schemes for every planned day.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath, "Path to the YAML configuration file")
}

// Execute runs the command line. Without a subcommand the HTTP server is started.
func Execute() error {
	return rootCmd.Execute()
}

func openApplication(ctx context.Context) (*app.Application, error) {
	return app.NewApplication(ctx, configPath)
}
