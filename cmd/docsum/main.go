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
	"go.uber.org/zap"

	"github.com/kailas-cloud/docsum/internal/config"
	"github.com/kailas-cloud/docsum/internal/db"
	dbFirestore "github.com/kailas-cloud/docsum/internal/db/firestore"
	dbMongo "github.com/kailas-cloud/docsum/internal/db/mongo"
	dbRedis "github.com/kailas-cloud/docsum/internal/db/redis"
	logpkg "github.com/kailas-cloud/docsum/internal/logger"
	"github.com/kailas-cloud/docsum/internal/metrics"
	documentrepo "github.com/kailas-cloud/docsum/internal/repository/document"
	chiTransport "github.com/kailas-cloud/docsum/internal/transport/chi"
	openaiSum "github.com/kailas-cloud/docsum/internal/transport/openai"
	batchuc "github.com/kailas-cloud/docsum/internal/usecase/batch"
	documentuc "github.com/kailas-cloud/docsum/internal/usecase/document"
	healthuc "github.com/kailas-cloud/docsum/internal/usecase/health"
	summaryuc "github.com/kailas-cloud/docsum/internal/usecase/summary"
	"github.com/kailas-cloud/docsum/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg := config.MustLoad(env)

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting docsum server",
		zap.String("build", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("model", cfg.Summarizer.Model),
	)

	ctx := context.Background()

	store, err := openStore(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register domain metrics explicitly (no init())
	metrics.RegisterSummarizationMetrics()
	metrics.RegisterStoreMetrics()

	completer := openaiSum.NewClient(&openaiSum.Config{
		APIKey:  cfg.Summarizer.APIKey,
		BaseURL: cfg.Summarizer.BaseURL,
		Model:   cfg.Summarizer.Model,
		User:    version.String(),
		Logger:  logger,
	})
	summarizer := summaryuc.New(completer).
		WithMaxSentences(cfg.Summarizer.MaxSentences).
		WithGeneration(cfg.Summarizer.Temperature, cfg.Summarizer.MaxTokens)
	logger.Info("Summarizer created",
		zap.String("base_url", cfg.Summarizer.BaseURL),
		zap.String("model", completer.Model()),
		zap.Int("max_sentences", summarizer.MaxSentences()),
	)

	docRepo := documentrepo.New(store)
	docSvc := documentuc.New(docRepo)
	batchSvc := batchuc.New(docSvc, summarizer)
	healthSvc := healthuc.New(store, completer)

	server := chiTransport.NewServer(docSvc, batchSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Register(r)

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

// openStore connects the document store selected by cfg.Driver.
func openStore(ctx context.Context, cfg config.DatabaseConfig) (db.Store, error) {
	switch cfg.Driver {
	case config.DriverFirestore:
		return dbFirestore.NewStore(ctx, dbFirestore.Config{
			ProjectID:       cfg.ProjectID,
			CredentialsFile: cfg.CredentialsFile,
			DatabaseID:      cfg.DatabaseID,
		})
	case config.DriverMongo:
		return dbMongo.NewStore(ctx, dbMongo.Config{
			URI:      cfg.URI,
			Database: cfg.Name,
			Username: cfg.Username,
			Password: cfg.Password,
		})
	case config.DriverRedis, config.DriverValkey:
		// Valkey speaks the same protocol and JSON module commands.
		return dbRedis.NewStore(dbRedis.Config{
			Addrs:     cfg.Addrs,
			Password:  cfg.Password,
			KeyPrefix: cfg.KeyPrefix,
		})
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.String("path", r.URL.Path),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"error": "internal error",
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

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
