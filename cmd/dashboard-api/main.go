package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/edvin/opsdash/internal/api"
	"github.com/edvin/opsdash/internal/cache"
	"github.com/edvin/opsdash/internal/config"
	"github.com/edvin/opsdash/internal/core"
	"github.com/edvin/opsdash/internal/db"
	"github.com/edvin/opsdash/internal/fcm"
	"github.com/edvin/opsdash/internal/github"
	"github.com/edvin/opsdash/internal/logging"
	"github.com/edvin/opsdash/internal/metrics"
	"github.com/edvin/opsdash/internal/probe"
	"github.com/edvin/opsdash/internal/vercel"
)

func main() {
	migrateFlag := flag.Bool("migrate", false, "Run database migrations before starting")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg)
	if !cfg.PushConfigured() {
		logger.Warn().Msg("FIREBASE_* not set, push notifications disabled")
	}

	if (*migrateFlag || cfg.MigrateOnStart) && cfg.DatabaseURL != "" {
		logger.Info().Msg("running database migrations")
		if err := db.RunMigrations(cfg.DatabaseURL); err != nil {
			logger.Fatal().Err(err).Msg("migration failed")
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deps := core.Deps{
		Hosting: vercel.NewClient(cfg.VercelAPIURL, cfg.VercelToken, cfg.VercelTeamID),
		CI:      github.NewClient(cfg.GitHubAPIURL, cfg.GitHubToken),
		Pusher: fcm.NewClient(fcm.Config{
			ProjectID:   cfg.FirebaseProjectID,
			ClientEmail: cfg.FirebaseClientEmail,
			PrivateKey:  cfg.FirebasePrivateKey,
			APIURL:      cfg.FCMAPIURL,
			IIDURL:      cfg.FCMIIDURL,
		}),
		Prober: probe.New(probe.DefaultTimeout),
	}

	storePool, err := db.NewStorePool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error().Err(err).Msg("invalid DATABASE_URL, continuing without store")
	}
	if storePool != nil {
		defer storePool.Close()
		deps.DB = storePool
		deps.Store = storePool
		metrics.RegisterStorePoolMetrics(prometheus.DefaultRegisterer, storePool)

		// Requests report the outage until the database comes back.
		pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
		if err := storePool.Ping(pingCtx); err != nil {
			logger.Warn().Err(err).Msg("store database unreachable at startup")
		}
		pingCancel()
	} else if err == nil {
		logger.Warn().Msg("DATABASE_URL not set, maintenance and history disabled")
	}

	redisCache := cache.NewRedis(ctx, cfg.RedisURL, logger)
	defer redisCache.Close()
	if redisCache.Enabled() {
		deps.Cache = redisCache
	}

	services := core.NewServices(deps, core.Options{
		ExcludedProjects: cfg.ExcludedProjects,
		HealthTargets:    cfg.HealthTargets,
		PushTopic:        cfg.PushTopic,
		ProjectCacheTTL:  cfg.ProjectCacheTTL,
	})

	var store core.Pinger
	if storePool != nil {
		store = storePool
	}
	srv := api.NewServer(logger, services, store, cfg)

	httpServer := &http.Server{
		Addr:        cfg.HTTPListenAddr,
		Handler:     srv,
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: /api/live keeps its connection open.
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPListenAddr).Msg("starting dashboard API server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
}
