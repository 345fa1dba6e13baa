// File: /cmd/root.go
package cmd

import (
	"github.com/spf13/cobra"
	"socialpulse-api/config"
	"socialpulse-api/logging"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:           "socialpulse",
	Short:         "SocialPulse API server and post scheduler",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
		logging.Setup(cfg.Environment)
	},
	// Running without a subcommand starts the server.
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, publishDueCmd)
}

// Execute runs the command line.
func Execute() error {
	return rootCmd.Execute()
}
