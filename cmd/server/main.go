package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/studorg/counter-system/internal/api"
	"github.com/studorg/counter-system/internal/api/metrics"
	"github.com/studorg/counter-system/internal/core/service"
	"github.com/studorg/counter-system/internal/core/session"
	"github.com/studorg/counter-system/internal/infrastructure/config"
	mongodb "github.com/studorg/counter-system/internal/infrastructure/db/mongo"
	redisdb "github.com/studorg/counter-system/internal/infrastructure/db/redis"
	"github.com/studorg/counter-system/internal/infrastructure/jobs"
	"github.com/studorg/counter-system/internal/infrastructure/queue"
	"github.com/studorg/counter-system/pkg/logger"

	_ "github.com/studorg/counter-system/docs"
)

const (
	tokenTTL        = 24 * time.Hour
	shutdownTimeout = 10 * time.Second
)

// @title        Counter System API
// @version      1.0
// @description  Student association counter service: ledger accounts, catalog, sales, refills and counter attendance.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// --- Repositories ---
	customerRepo := mongodb.NewCustomerRepository(db)
	catalogRepo := mongodb.NewCatalogRepository(db)
	txnRepo := mongodb.NewTransactionRepository(db)
	attendanceRepo := mongodb.NewAttendanceRepository(db)
	authRepo := mongodb.NewAuthRepository(db)

	for name, ensure := range map[string]func(context.Context) error{
		"customers":    customerRepo.EnsureIndexes,
		"catalog":      catalogRepo.EnsureIndexes,
		"transactions": txnRepo.EnsureIndexes,
		"attendance":   attendanceRepo.EnsureIndexes,
		"operators":    authRepo.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			log.Fatal().Err(err).Str("repository", name).Msg("index creation failed")
		}
	}

	// --- Attendance pipeline and session registry ---
	dispatcher := queue.NewDispatcher(0, attendanceRepo, log, metrics.AttendanceDroppedTotal.Inc)
	dispatcher.Start(ctx)

	registry := session.NewRegistry(cfg.SessionIdleTimeout, dispatcher, log,
		session.WithEvictionHook(func(counterID string, evicted int) {
			metrics.SessionEvictionsTotal.Add(float64(evicted))
		}),
	)

	sweeper := jobs.NewSweeper(registry, cfg.SessionSweepInterval, log)
	if err := sweeper.Start(); err != nil {
		log.Fatal().Err(err).Msg("session sweeper failed to start")
	}
	defer sweeper.Stop()

	// --- Services ---
	dedup := redisdb.NewDedupChecker(rdb)
	authService := service.NewAuthService(authRepo, cfg.JWTSecret, tokenTTL)
	catalogService := service.NewCatalogService(catalogRepo, log)
	ledgerService := service.NewLedgerService(customerRepo, catalogRepo, txnRepo, registry, dedup, log)

	// --- HTTP ---
	e := api.NewRouter(api.Dependencies{
		Mongo:      db,
		Redis:      rdb,
		JWTSecret:  cfg.JWTSecret,
		Log:        log,
		Auth:       authService,
		Ledger:     ledgerService,
		Catalog:    catalogService,
		Registry:   registry,
		Attendance: attendanceRepo,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("counter system started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
