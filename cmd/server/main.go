package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"rag-chatbot/internal/adapter/chat_http"
	"rag-chatbot/internal/di"
	"rag-chatbot/internal/infra"
	"rag-chatbot/internal/infra/config"
	"rag-chatbot/internal/infra/logger"
)

func main() {
	// 1. Load Config
	cfg := config.Load()

	// 2. Initialize Logger
	log := logger.New()
	slog.SetDefault(log)

	// 3. Initialize DB
	dsn := cfg.DatabaseURL() + "?sslmode=disable"
	dbPool, err := infra.NewPostgresDB(context.Background(), dsn)
	if err != nil {
		log.Error("failed to connect to db", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// 4. Initialize Redis
	redisClient, err := infra.NewRedisClient(context.Background(), cfg.RedisURL)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer func() { _ = redisClient.Close() }()

	// 5. Wire Components
	components, err := di.NewApplicationComponents(context.Background(), cfg, dbPool, redisClient, log)
	if err != nil {
		log.Error("failed to wire components", "error", err)
		os.Exit(1)
	}

	// 6. Kick off the first ingestion in the background so the server
	// starts answering status checks immediately.
	if cfg.IngestOnStartup {
		if err := components.IngestUsecase.Trigger(); err != nil {
			log.Error("startup ingestion not started", "error", err)
		}
	}

	// 7. Initialize Echo
	e := echo.New()
	e.HideBanner = true
	e.Use(chat_http.RequestLogger(components.ContextLogger))
	e.Use(middleware.Recover())

	// 8. Register Handlers
	components.Handler.RegisterRoutes(e)

	// 9. Start Server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		log.Info("Starting server", "addr", addr, "sources", len(components.Sources))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal("shutting down the server")
		}
	}()

	// 10. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		e.Logger.Fatal(err)
	}
}
