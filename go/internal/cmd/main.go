package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/puckpool/livesync/go/internal/events"
	"github.com/puckpool/livesync/go/internal/syncer"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if getEnv("LOG_PRETTY", "") != "" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}

	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	cfg, err := loadConfig(getEnv("CONFIG_PATH", "config.yaml"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := setupDatabase(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up database")
	}
	defer pool.Close()

	redisClient, err := setupRedis(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up Redis")
	}
	defer redisClient.Close()

	publisher := setupPublisher()
	if publisher != nil {
		defer publisher.Close()
	}

	runner := setupRunner(cfg, pool, redisClient, asSyncerPublisher(publisher))

	metricsServer := setupMetricsServer()
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server stopped")
		}
	}()
	defer metricsServer.Close()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("received shutdown signal")
		cancel()
	}()

	if err := runner.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("sync runner failed")
	}
}

// setupPublisher connects to NATS for live-score fan-out. The engine runs
// fine without it (records are still persisted); set NATS_DISABLED to skip.
func setupPublisher() *events.JetStreamPublisher {
	if getEnv("NATS_DISABLED", "") != "" {
		log.Info().Msg("NATS fan-out disabled")
		return nil
	}

	cfg := events.DefaultJetStreamConfig()
	cfg.URL = getEnv("NATS_URL", nats.DefaultURL)

	publisher, err := events.NewJetStreamPublisher(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to NATS")
	}
	return publisher
}

// asSyncerPublisher avoids handing the syncer a non-nil interface wrapping a
// nil pointer.
func asSyncerPublisher(p *events.JetStreamPublisher) syncer.Publisher {
	if p == nil {
		return nil
	}
	return p
}

func setupMetricsServer() *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return &http.Server{
		Addr:    ":" + getEnv("METRICS_PORT", "9090"),
		Handler: mux,
	}
}
