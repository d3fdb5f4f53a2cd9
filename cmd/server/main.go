package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/sparkcrew/backend/internal/catalog"
	"github.com/sparkcrew/backend/internal/config"
	"github.com/sparkcrew/backend/internal/db"
	httpapi "github.com/sparkcrew/backend/internal/http"
	"github.com/sparkcrew/backend/internal/service"
	"github.com/sparkcrew/backend/internal/travel"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	logger := log.Level(level).With().Str("service", "sparkcrew-backend").Logger()

	ctx := context.Background()
	store, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect db")
	}
	defer store.Close()

	var estimator travel.Estimator
	if cfg.RoutingURL == "" {
		estimator = travel.HaversineEstimator{}
		logger.Info().Msg("using haversine travel estimates")
	} else {
		estimator = travel.Failover{
			Primary: &travel.OSRMEstimator{
				BaseURL: cfg.RoutingURL,
				Client:  &http.Client{Timeout: cfg.RoutingTimeout},
			},
			Fallback: travel.HaversineEstimator{},
		}
		logger.Info().Str("routing_url", cfg.RoutingURL).Msg("using routing provider with haversine fallback")
	}

	generator := catalog.NewGenerator(nil)
	optimizer := &service.Optimizer{Scorer: service.NewScorer(estimator, nil)}

	router := httpapi.Router(cfg, store, generator, optimizer, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	logger.Info().Msg("server stopped")
}
