// File: /cmd/migrate.go
package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"socialpulse-api/database"
)

var seedDemo bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Initialize(cfg.DatabaseDriver, cfg.DatabaseURL, false)
		if err != nil {
			return err
		}
		defer func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}()

		if err := database.Migrate(db); err != nil {
			return err
		}
		log.Info().Str("driver", cfg.DatabaseDriver).Msg("Database migrated")

		if seedDemo {
			return database.SeedData(db)
		}
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&seedDemo, "seed", false, "insert the demo user and posts into an empty database")
}
