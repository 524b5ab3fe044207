package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/meridian-clinic/deepsearch/internal/config"
	dbRedis "github.com/meridian-clinic/deepsearch/internal/db/redis"
	"github.com/meridian-clinic/deepsearch/internal/domain"
	logpkg "github.com/meridian-clinic/deepsearch/internal/logger"
	"github.com/meridian-clinic/deepsearch/internal/metrics"
	"github.com/meridian-clinic/deepsearch/internal/repository/chunkstore"
	"github.com/meridian-clinic/deepsearch/internal/repository/transcache"
	chiTransport "github.com/meridian-clinic/deepsearch/internal/transport/chi"
	openaiCompletion "github.com/meridian-clinic/deepsearch/internal/transport/openai"
	deepsearchuc "github.com/meridian-clinic/deepsearch/internal/usecase/deepsearch"
	healthuc "github.com/meridian-clinic/deepsearch/internal/usecase/health"
	queryuc "github.com/meridian-clinic/deepsearch/internal/usecase/query"
	"github.com/meridian-clinic/deepsearch/internal/usecase/report"
	retrievaluc "github.com/meridian-clinic/deepsearch/internal/usecase/retrieval"
	translateuc "github.com/meridian-clinic/deepsearch/internal/usecase/translate"
	"github.com/meridian-clinic/deepsearch/internal/version"
)

func main() {
	// Optional .env for local development; config takes over from here.
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting deepsearch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("completion_model", cfg.Completion.Model),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register core metrics explicitly (no init())
	metrics.RegisterCoreMetrics()

	// Static topic catalog — resolved once, read-only afterwards.
	catalog := domain.NewTopicCatalog()

	completer := openaiCompletion.NewCompleter(&openaiCompletion.Config{
		APIKey:  cfg.Completion.APIKey,
		BaseURL: cfg.Completion.BaseURL,
		Model:   cfg.Completion.Model,
		Timeout: time.Duration(cfg.Completion.TimeoutSec) * time.Second,
		Logger:  logger,
	})

	chunkRepo := chunkstore.New(store).WithKeyPrefix(cfg.Storage.ChunkKeyPrefix)

	// Translation bridge, optionally cached in the KV store.
	var translator deepsearchuc.Translator = translateuc.New(completer)
	if cfg.Translation.CacheTTLHours > 0 {
		translator = transcache.New(
			translator, store,
			time.Duration(cfg.Translation.CacheTTLHours)*time.Hour,
			metrics.TranslationCacheTotal, logger,
		)
	}

	retriever := retrievaluc.New(chunkRepo, catalog).
		WithQueryTimeout(time.Duration(cfg.Database.QueryTimeoutSec) * time.Second)

	pipeline := deepsearchuc.New(
		catalog,
		queryuc.NewBuilder(),
		translator,
		retriever,
		report.NewSynthesizer(completer),
		report.NewExtractor(),
	)

	healthSvc := healthuc.New(store, completer)

	server := chiTransport.NewServer(pipeline, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())

			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
