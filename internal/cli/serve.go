package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	application, err := openApplication(cmd.Context())
	if err != nil {
		return err
	}
	defer application.Close()
	if err := application.Start(cmd.Context()); err != nil {
		return err
	}
	return application.Run()
}
