// File: /logging/logging.go

// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup installs the global logger. Development gets a console writer at
// debug level, everything else JSON at info level.
func Setup(environment string) {
	log.Logger = New(os.Stdout, environment)
	zerolog.SetGlobalLevel(levelFor(environment))
}

// New builds a logger writing to w in the format used for environment.
func New(w io.Writer, environment string) zerolog.Logger {
	if environment == "development" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).With().Timestamp().Logger()
}

func levelFor(environment string) zerolog.Level {
	switch environment {
	case "development":
		return zerolog.DebugLevel
	case "test":
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}
