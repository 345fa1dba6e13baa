// File: /cmd/serve.go
package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"socialpulse-api/database"
	"socialpulse-api/routes"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the post scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		app, err := Bootstrap(ctx, cfg)
		if err != nil {
			return err
		}
		defer app.Close()

		if err := app.Migrate(); err != nil {
			return err
		}
		if !cfg.IsProduction() {
			if err := database.SeedData(app.DB); err != nil {
				log.Warn().Err(err).Msg("Failed to seed database")
			}
		}

		return serve(ctx, app)
	},
}

func serve(ctx context.Context, app *App) error {
	if app.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := app.Hub.Start(ctx); err != nil {
		log.Warn().Err(err).Msg("Realtime fan-out disabled")
	}
	if app.Config.SchedulerEnabled {
		app.Job.Start(ctx)
	} else {
		log.Info().Msg("Post scheduler disabled")
	}

	srv := &http.Server{
		Addr:              ":" + app.Config.Port,
		Handler:           routes.NewRouter(app.deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", app.Config.Port).
			Str("environment", app.Config.Environment).
			Msg("Starting SocialPulse API server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down")
	case serveErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}
	app.Job.Stop()
	return serveErr
}
