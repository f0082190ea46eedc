package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"obsdb/internal/config"
	"obsdb/internal/field"
	"obsdb/internal/httpx"
	"obsdb/internal/lookup"
	"obsdb/internal/observation"
	"obsdb/internal/overview"
	"obsdb/internal/platform/cache"
	"obsdb/internal/platform/logging"
	"obsdb/internal/platform/strudel"
	"obsdb/internal/survey"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	config.LoadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool := mustOpenDB(ctx, cfg.DatabaseDSN, logger)
	defer dbPool.Close()

	var resolver lookup.Resolver = strudel.NewClient(strudel.Config{
		BaseURL:    cfg.Lookup.BaseURL,
		UserAgent:  "obsdb/1.0",
		RPS:        cfg.Lookup.RPS,
		MaxRetries: cfg.Lookup.MaxRetries,
		Timeout:    cfg.Lookup.Timeout,
	}, logger.Named("strudel"))

	if cfg.RedisURL != "" {
		redisCache, err := cache.Open(ctx, cfg.RedisURL, "obsdb:lookup:", cfg.Lookup.CacheTTL)
		if err != nil {
			logger.Warn("lookup cache disabled", zap.Error(err))
		} else {
			defer redisCache.Close()
			resolver = lookup.NewCachedResolver(resolver, redisCache, logger.Named("lookup"))
			logger.Info("lookup cache enabled", zap.Duration("ttl", cfg.Lookup.CacheTTL))
		}
	}

	requester := lookup.NewRequester(resolver, logger.Named("lookup"))
	lookupService := lookup.NewService(requester, cfg.Lookup.Timeout+5*time.Second)

	fieldService := field.NewService(field.NewPostgresRepo(dbPool, cfg.DBTimeout))
	surveyService := survey.NewService(survey.NewPostgresRepo(dbPool, cfg.DBTimeout))
	observationService := observation.NewService(observation.NewPostgresRepo(dbPool, cfg.DBTimeout), logger.Named("observation"))
	overviewService := overview.NewService(overview.NewPostgresRepo(dbPool, cfg.DBTimeout))

	router := newRouter(handlers{
		lookup:       lookup.NewHTTPHandler(lookupService, fieldService, cfg.PageSize),
		surveys:      survey.NewHTTPHandler(surveyService),
		fields:       field.NewHTTPHandler(fieldService, cfg.PageSize),
		observations: observation.NewHTTPHandler(observationService, cfg.PageSize),
		overview:     overview.NewHTTPHandler(overviewService),
	}, cfg.JWTSecret, dbPool.Ping)

	rateLimiter := httpx.NewRateLimitMiddleware(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst)
	handler := httpx.Chain(router,
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(logger),
		httpx.RecoveryMiddleware(logger),
		httpx.CORSMiddleware(cfg.CORSOrigins),
		httpx.SecurityHeadersMiddleware(!cfg.IsDevelopment()),
		httpx.RequestSizeLimitMiddleware(1<<20),
		rateLimiter.Middleware,
	)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.Lookup.Timeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("addr", cfg.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
	requester.Wait()
}

func mustOpenDB(ctx context.Context, dsn string, logger *zap.Logger) *pgxpool.Pool {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Fatal("cannot create db pool", zap.Error(err))
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		logger.Fatal("cannot ping database", zap.String("dsn", redactDSN(dsn)), zap.Error(err))
	}
	logger.Info("database connection OK")
	return pool
}

func redactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
