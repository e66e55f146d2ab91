package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "closetrent/docs"
	"closetrent/internal/caching"
	"closetrent/internal/common"
	"closetrent/internal/config"
	"closetrent/internal/handlers"
	"closetrent/internal/jobs"
	"closetrent/internal/jobs/background"
	"closetrent/internal/middleware"
	"closetrent/internal/repositories"
	"closetrent/internal/services"
	"closetrent/pkg/database"
	"closetrent/pkg/logger"
)

const version = "1.0.0"

//	@title			closetrent API
//	@version		1.0
//	@description	Inventory and rental order management for a clothing-rental shop.
//	@BasePath		/
func main() {
	configFile := flag.String("config", "", "path to a TOML config file")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "closetrent: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)

	if err := run(cfg); err != nil {
		logger.Get().WithError(err).Fatal("closetrent stopped")
	}
}

func run(cfg *config.Config) error {
	log := logger.WithComponent("main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database
	pool, err := database.NewPool(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.Database.EnsureSchema {
		if err := database.EnsureSchema(ctx, pool); err != nil {
			return err
		}
		log.Info("Database schema ensured")
	}

	// Cache
	cacheSvc := caching.NewNoopCacheService()
	if cfg.Redis.Addr != "" {
		cacheSvc, err = caching.NewRedisCacheService(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
	} else {
		log.Info("Redis not configured, caching disabled")
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = common.HTTPErrorHandler(logger.WithComponent("http"))

	// Media storage
	media, err := setupMedia(ctx, cfg, e)
	if err != nil {
		return err
	}

	// Repositories
	clothesRepo := repositories.NewClothesRepo(pool)
	rentalRepo := repositories.NewRentalRepo(pool)

	// Services
	clothesSvc := services.NewClothesService(clothesRepo, media, cacheSvc, cfg.CacheTTL())
	rentalSvc := services.NewRentalService(rentalRepo, clothesRepo, media)
	receiptSvc := services.NewReceiptService(rentalSvc, clothesSvc, cfg.Server.ShopName)

	// Middleware
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestIDWithConfig(echoMiddleware.RequestIDConfig{
		Generator: func() string { return random.String(16) },
	}))
	e.Use(echoMiddleware.CORS())
	e.Pre(echoMiddleware.RemoveTrailingSlash())
	e.Use(echoMiddleware.BodyLimit(cfg.Server.BodyLimit))
	e.Use(middleware.RequestLogger(logger.WithComponent("http")))
	e.Use(middleware.Metrics())

	// Routes
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc, media, version)
	e.GET("/health", healthHandlers.LivenessCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api", middleware.VersionHeader(version))
	handlers.NewClothesHandlers(clothesSvc, cfg.Server.PublicURL, cfg.MaxFileSize()).Register(api.Group("/clothes"))
	handlers.NewRentalHandlers(rentalSvc, receiptSvc, cfg.MaxFileSize()).Register(api.Group("/rentals"))

	// Background jobs
	scheduler, err := background.NewJobScheduler(jobs.NewOverdueReportService(rentalSvc), cacheSvc, background.Intervals{
		OverdueCheck: time.Duration(cfg.Jobs.OverdueCheckMinutes) * time.Minute,
		CacheFlush:   time.Duration(cfg.Jobs.CacheFlushMinutes) * time.Minute,
	})
	if err != nil {
		return err
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.WithError(err).Warn("Scheduler shutdown failed")
		}
	}()

	serverErr := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{
			"port":    cfg.Server.Port,
			"storage": media.Backend(),
			"version": version,
		}).Info("Server starting")
		if err := e.Start(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// setupMedia builds the configured media store and mounts the /uploads
// routes that serve it.
func setupMedia(ctx context.Context, cfg *config.Config, e *echo.Echo) (services.MediaStore, error) {
	log := logger.WithComponent("media")

	switch cfg.Storage.Backend {
	case "minio":
		client, err := services.NewMinioService(cfg.Storage.MinioEndpoint, cfg.Storage.MinioAccessKey,
			cfg.Storage.MinioSecretKey, cfg.Storage.MinioUseSSL)
		if err != nil {
			return nil, fmt.Errorf("create minio client: %w", err)
		}
		store := services.NewMinioMediaStore(client, cfg.Storage.MinioBucket, 15*time.Minute)
		if err := store.Init(ctx); err != nil {
			return nil, err
		}
		e.GET("/uploads/*", handlers.NewMediaHandlers(store).Redirect)
		return store, nil

	default:
		store, err := services.NewLocalMediaStore(cfg.Storage.UploadDir)
		if err != nil {
			return nil, err
		}
		root := cfg.Storage.UploadDir
		if r, ok := store.(interface{ Root() string }); ok {
			root = r.Root()
		}
		e.Static("/uploads", root)
		log.WithField("dir", root).Info("Serving uploads from local directory")
		return store, nil
	}
}
