package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/multiyield-labs/multiyield-engine/cmd/multiyield/cli"
	"github.com/multiyield-labs/multiyield-engine/internal/observability/tracing"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("failed to load .env file")
	}
}

func main() {
	// requests without a trace id still log through the global logger
	zerolog.DefaultContextLogger = &log.Logger

	ctx := tracing.InjectTraceID(context.Background())
	if err := cli.Setup(ctx); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
