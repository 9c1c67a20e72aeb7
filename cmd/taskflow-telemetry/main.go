package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/ChandanM123456/TaskFlow/telemetryservice"
)

func main() {
	if err := telemetryservice.Run(); err != nil {
		log.Error().Err(err).Msg("taskflow-telemetry exited with error")
		os.Exit(1)
	}
}
