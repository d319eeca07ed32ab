package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/propertydesk/crm-api/internal/api"
	"github.com/propertydesk/crm-api/internal/core/service"
	"github.com/propertydesk/crm-api/internal/infrastructure/config"
	mongostore "github.com/propertydesk/crm-api/internal/infrastructure/db/mongo"
	redisstore "github.com/propertydesk/crm-api/internal/infrastructure/db/redis"
	"github.com/propertydesk/crm-api/internal/infrastructure/queue"
	"github.com/propertydesk/crm-api/pkg/logger"
)

const (
	leadWorkers     = 4
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.Session.Secret == "" {
		log.Fatal().Msg("SESSION_SECRET is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mongoClient, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	if err := ensureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	// Lead intake pipeline: dedup-checked, sharded by contact key.
	leadService := service.NewLeadService(
		mongostore.NewCustomerRepository(db),
		redisstore.NewLeadDedupChecker(rdb),
		log,
	)
	dispatcher := queue.NewDispatcher(leadWorkers, leadService, log)
	dispatcher.Start(ctx)

	e := api.NewRouter(cfg, db, rdb, dispatcher, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	waitForShutdown(log)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// ensureIndexes creates the collection indexes the repositories rely on,
// notably the unique email index that backs duplicate registration checks.
func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	if err := mongostore.NewAccountRepository(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := mongostore.NewCustomerRepository(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := mongostore.NewPropertyRepository(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	return mongostore.NewDealRepository(db).EnsureIndexes(ctx)
}

func waitForShutdown(log zerolog.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	log.Info().Str("signal", sig.String()).Msg("shutting down")
}
