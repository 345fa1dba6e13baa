// File: /cmd/publish.go
package cmd

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var publishDueTimeout time.Duration

// publishDueCmd runs a single scheduler iteration, for cron-driven deployments
// that do not keep a server running.
var publishDueCmd = &cobra.Command{
	Use:   "publish-due",
	Short: "Publish every post that is due and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if publishDueTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, publishDueTimeout)
			defer cancel()
		}

		app, err := Bootstrap(ctx, cfg)
		if err != nil {
			return err
		}
		defer app.Close()

		report, err := app.Job.RunOnce(ctx)
		if err != nil {
			return err
		}
		log.Info().
			Int("selected", report.Selected).
			Int("published", report.Published).
			Int("failed", report.Failed).
			Int("skipped", report.Skipped).
			Msg("Publish run finished")

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	},
}

func init() {
	publishDueCmd.Flags().DurationVar(&publishDueTimeout, "timeout", 5*time.Minute, "upper bound for the whole run, 0 disables it")
}
