package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/rs/zerolog/log"

	"genai-camera/handler"
	"genai-camera/internal/app"
	"genai-camera/internal/config"
	"genai-camera/internal/logging"
)

func main() {
	ctx := context.Background()

	// ---- Configuration (read only here) ----
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Init(cfg.LogLevel, cfg.LogFormat)

	// ---- AWS SDK config ----
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load AWS config")
	}

	// ---- Services ----
	svc, err := app.Build(ctx, cfg, app.NewClients(awsCfg))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build services")
	}

	// ---- Handler ----
	h, err := handler.NewHandler(svc, handler.Options{AuthMode: cfg.AuthMode})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create handler")
	}

	log.Info().
		Bool("caption", svc.Caption != nil).
		Bool("prompts", svc.Prompts != nil).
		Bool("camera", svc.Camera != nil).
		Str("authMode", cfg.AuthMode).
		Msg("Camera BFF ready")

	lambda.Start(h.Handle)
}
