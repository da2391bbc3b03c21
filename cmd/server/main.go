package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/vedantkasargod/walmart-x1/internal/cart"
	"github.com/vedantkasargod/walmart-x1/internal/checkout"
	"github.com/vedantkasargod/walmart-x1/internal/command"
	"github.com/vedantkasargod/walmart-x1/internal/config"
	"github.com/vedantkasargod/walmart-x1/internal/curation"
	"github.com/vedantkasargod/walmart-x1/internal/dispatch"
	"github.com/vedantkasargod/walmart-x1/internal/httpapi"
	"github.com/vedantkasargod/walmart-x1/internal/llm"
	"github.com/vedantkasargod/walmart-x1/internal/orders"
	"github.com/vedantkasargod/walmart-x1/internal/retrieval"
	"github.com/vedantkasargod/walmart-x1/internal/review"
)

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	// Redis holds the ephemeral state: carts and review sessions.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("redis connection failed", zap.Error(err))
	}
	logger.Info("connected to redis", zap.String("addr", cfg.RedisAddr))

	// Postgres holds the durable state: orders and the product catalog.
	repo, err := orders.NewPostgresRepository(&cfg.Postgres)
	if err != nil {
		logger.Fatal("postgres connection failed", zap.Error(err))
	}
	defer repo.Close()
	if err := repo.RunMigrations(&cfg.Postgres); err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}
	logger.Info("connected to postgres",
		zap.String("host", cfg.Postgres.Host),
		zap.String("db", cfg.Postgres.DBName))

	embedder, err := retrieval.NewGenAIEmbedder(ctx, cfg.GenAIAPIKey, cfg.EmbeddingModel)
	if err != nil {
		logger.Fatal("embedding client failed", zap.Error(err))
	}
	searcher := retrieval.NewPostgresSearcher(repo.DB(), embedder, logger)

	llmService := llm.NewService(llm.NewClient(llm.Config{
		APIKey:  cfg.LLMAPIKey,
		BaseURL: cfg.LLMBaseURL,
		Model:   cfg.LLMModel,
		Timeout: cfg.LLMTimeout,
	}), logger)

	carts := cart.NewRedisManager(redisClient, logger)
	reviews := review.NewRedisManager(redisClient, logger)
	curator := curation.NewEngine(llmService, logger)
	dispatcher := dispatch.NewDispatcher(llmService, llmService, searcher, repo, curator, carts, reviews, logger)
	interpreter := command.NewInterpreter(llmService, reviews, logger)
	coordinator := checkout.NewCoordinator(carts, repo, logger)

	handler := httpapi.NewHandler(dispatcher, interpreter, carts, reviews, coordinator, logger)
	router := httpapi.NewRouter(handler, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}
}
