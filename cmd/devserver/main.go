package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"genai-camera/handler"
	"genai-camera/internal/app"
	"genai-camera/internal/config"
	"genai-camera/internal/logging"
	"genai-camera/internal/metrics"
	"genai-camera/internal/objectstore"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Init(cfg.LogLevel, cfg.LogFormat)

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load AWS config")
	}
	clients := app.NewClients(awsCfg)

	if cfg.CameraEnabled() && cfg.Server.StorageBackend == config.StorageMinio {
		m := cfg.Server.Minio
		store, err := objectstore.NewMinioStore(ctx, objectstore.MinioOptions{
			Endpoint:  m.Endpoint,
			Region:    m.Region,
			Bucket:    cfg.BucketName,
			AccessKey: m.AccessKey,
			SecretKey: m.SecretKey,
			UseSSL:    m.UseSSL,
		})
		if err != nil {
			log.Fatal().Err(err).Str("endpoint", m.Endpoint).Msg("Failed to connect to MinIO")
		}
		clients.Images = store
	}

	svc, err := app.Build(ctx, cfg, clients)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build services")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	api, err := handler.NewRouter(svc, handler.Options{
		AuthMode: cfg.AuthMode,
		Metrics:  metrics.NewCollector(reg),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create router")
	}

	root := chi.NewRouter()
	root.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	root.Mount("/", api)

	srv := &http.Server{
		Addr:              cfg.Server.ListenAddr,
		Handler:           root,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", cfg.Server.ListenAddr).
			Str("storage", cfg.Server.StorageBackend).
			Str("authMode", cfg.AuthMode).
			Msg("Dev server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Dev server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down dev server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}
