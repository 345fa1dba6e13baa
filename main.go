// File: /main.go
package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"socialpulse-api/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
