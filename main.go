package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/xiaot623/edgechat/api"
	"github.com/xiaot623/edgechat/backend"
	"github.com/xiaot623/edgechat/classifier"
	"github.com/xiaot623/edgechat/config"
	"github.com/xiaot623/edgechat/service"
	"github.com/xiaot623/edgechat/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg := config.Load()

	log.Printf("Starting edgechat mediator...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Store backend: %s", cfg.StoreBackend)
	log.Printf("Backend URL: %s", cfg.BackendBaseURL)
	log.Printf("Intent detection: %v", cfg.IntentDetectionEnabled)

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	st, err := newStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	backendClient := backend.NewClient(cfg.BackendBaseURL, cfg.APIKey, cfg.RequestTimeout, cfg.BackendInsecureTLS)

	var cl classifier.Classifier
	if cfg.IntentDetectionEnabled {
		cl = classifier.NewOllamaClassifier(cfg.ClassifierBaseURL, cfg.ClassifierModel, cfg.ClassifierTemperature, cfg.RequestTimeout)
	}

	svc := service.New(st, backendClient, cl, cfg, logger)
	h := api.NewHandler(svc)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	h.RegisterRoutes(e)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("API started on port %d", cfg.HTTPPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	log.Println("Stopped")
}

func newStore(cfg *config.Config) (store.Store, error) {
	switch cfg.StoreBackend {
	case "redis":
		return store.NewRedisStore(cfg.RedisAddr), nil
	case "sqlite":
		return store.NewSQLiteStore(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
