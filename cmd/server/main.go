package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/lumina/glow-platform/internal/advisor"
	"github.com/lumina/glow-platform/internal/analysis"
	"github.com/lumina/glow-platform/internal/api"
	"github.com/lumina/glow-platform/internal/catalog"
	"github.com/lumina/glow-platform/internal/config"
	"github.com/lumina/glow-platform/internal/feed"
	"github.com/lumina/glow-platform/internal/notify"
	"github.com/lumina/glow-platform/internal/pkg/logger"
	"github.com/lumina/glow-platform/internal/prefs"
	"github.com/lumina/glow-platform/internal/recommend"
	"github.com/lumina/glow-platform/internal/store"
)

func main() {
	if strings.EqualFold(os.Getenv("LOG_LEVEL"), "debug") {
		logger.SetLevel(logger.DEBUG)
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	cfg, err := config.LoadFromEnv(configPath)
	if err != nil {
		logger.Error("Failed to load config", "path", configPath, "error", err.Error())
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		logger.Error("Failed to load catalog", "path", cfg.Catalog.Path, "error", err.Error())
		os.Exit(1)
	}
	logger.Info("Catalog loaded", "products", len(cat.Products), "routines", len(cat.Routines))

	docs, err := openStore(ctx, cfg.Storage)
	if err != nil {
		logger.Error("Failed to open document store", "type", cfg.Storage.Type, "error", err.Error())
		os.Exit(1)
	}
	defer docs.Close()

	var cache *store.Cache
	if cfg.Redis.Enabled {
		cache = store.NewCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL())
		defer cache.Close()
		logger.Info("Redis cache enabled", "addr", cfg.Redis.Addr)
	}

	prefSvc := prefs.NewService(docs, cache)
	if cache != nil {
		// Preference writes invalidate the per-user recommendation cache.
		prefSvc.Register(prefs.ObserverFunc(func(obsCtx context.Context, userID string) {
			if err := cache.Invalidate(obsCtx,
				"recs:products:"+userID, "recs:routines:"+userID); err != nil {
				logger.Warn("Failed to invalidate recommendation cache", "user_id", userID, "error", err.Error())
			}
		}))
	}

	engine := recommend.NewEngine(cat)

	var classifier analysis.Classifier
	if cfg.Classifier.Enabled {
		classifier = analysis.NewHTTPClassifier(cfg.Classifier)
	}
	var uploader analysis.Uploader
	if cfg.Storage.S3Bucket != "" {
		uploader, err = analysis.NewS3Uploader(ctx, cfg.Storage.S3Bucket, cfg.Storage.AWSRegion, cfg.Storage.GetAWSProfile())
		if err != nil {
			logger.Warn("Image archival disabled", "error", err.Error())
			uploader = nil
		}
	}
	pipeline := analysis.NewPipeline(classifier, docs, uploader)

	display, err := buildDisplay(ctx, cfg.Notifications, prefSvc)
	if err != nil {
		logger.Warn("Falling back to log display for reminders", "error", err.Error())
		display = notify.LogDisplay{}
	}
	scheduler := notify.NewScheduler(docs, display)
	if cfg.Notifications.Enabled {
		if err := scheduler.Start(ctx); err != nil {
			logger.Error("Failed to start reminder scheduler", "error", err.Error())
			os.Exit(1)
		}
		defer scheduler.Stop()
	}

	var chat api.ChatService
	if cfg.Advisor.Enabled {
		adv, err := advisor.New(ctx, cfg.Advisor)
		if err != nil {
			logger.Warn("Advisor disabled", "error", err.Error())
		} else {
			chat = adv
			logger.Info("Advisor enabled", "model_id", cfg.Advisor.ModelID)
		}
	}

	var trends *feed.Service
	if cfg.Trends.Enabled && len(cfg.Trends.FeedURLs) > 0 {
		trends = feed.NewService(cfg.Trends)
		trends.Start(ctx)
		defer trends.Stop()
	}

	handlers := api.NewHandlers(prefSvc, engine, pipeline, scheduler, chat, trends, cache, cfg.Recommend)
	server := api.NewServer(handlers)

	addr := fmt.Sprintf("%s:%d", cfg.Server.GetHost(), cfg.Server.Port)
	go func() {
		logger.Info("HTTP server listening", "addr", addr)
		if err := server.ListenAndServe(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err.Error())
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Graceful shutdown incomplete", "error", err.Error())
	}
}

func openStore(ctx context.Context, cfg config.StorageConfig) (store.DocumentStore, error) {
	switch cfg.Type {
	case "postgres":
		return store.NewPostgresStore(ctx, cfg.DatabaseURL)
	case "dynamodb":
		return store.NewDynamoStore(ctx, cfg.DynamoDBTable, cfg.AWSRegion, cfg.GetAWSProfile())
	case "", "memory":
		logger.Warn("Using in-memory document store; data will not survive restarts")
		return store.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
}

func buildDisplay(ctx context.Context, cfg config.NotificationsConfig, prefSvc *prefs.Service) (notify.Display, error) {
	if !cfg.EmailEnabled || cfg.EmailFrom == "" {
		return notify.LogDisplay{}, nil
	}

	lookup := func(ctx context.Context, userID string) (string, bool) {
		p, err := prefSvc.Get(ctx, userID)
		if err != nil || p.Email == "" {
			return "", false
		}
		return p.Email, true
	}
	display, err := notify.NewEmailDisplay(ctx, cfg.EmailFrom, cfg.EmailRegion, lookup)
	if err != nil {
		return nil, err
	}
	logger.Info("Email reminders enabled", "from", logger.RedactEmail(cfg.EmailFrom))
	return display, nil
}
