package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/weatherapp/backend/internal/config"
	"github.com/weatherapp/backend/internal/delivery/http"
	"github.com/weatherapp/backend/internal/domain"
	"github.com/weatherapp/backend/internal/repository/memory"
	"github.com/weatherapp/backend/internal/repository/postgres"
	"github.com/weatherapp/backend/internal/repository/sqlite"
	"github.com/weatherapp/backend/internal/service"
	"github.com/weatherapp/backend/pkg/logger"
)

const sessionIdleTimeout = 24 * time.Hour

func main() {
	configPath := flag.String("config", "", "Path to a TOML config file (optional, defaults to ./config.toml when present)")
	flag.Parse()

	// Load environment variables
	envErr := godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: cfg.Logging.Level, Format: cfg.LogFormat()})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if envErr != nil {
		log.Info("No .env file found, using system environment")
	}

	// History storage
	repo, closeRepo := openHistory(cfg, log)
	defer closeRepo()

	// Dependency Injection: Services
	weatherSvc := service.NewWeatherService(cfg.OpenWeather.APIKey, cfg.OpenWeather.BaseURL, cfg.OpenWeather.IconURL, log)
	sessions := service.NewSessionManager(weatherSvc, repo, log)
	resolver := newResolver(cfg, log)

	// Fiber App
	app := fiber.New(fiber.Config{
		AppName:      "Weather App v" + http.Version,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		Immutable:    true, // sessions keep strings past the request
		ErrorHandler: http.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Routes
	http.SetupRoutes(app, http.NewHandler(sessions, weatherSvc, resolver, repo, log))

	// Drop idle sessions
	pruneCtx, stopPrune := context.WithCancel(context.Background())
	defer stopPrune()
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-pruneCtx.Done():
				return
			case <-ticker.C:
				if n := sessions.Prune(sessionIdleTimeout); n > 0 {
					log.Debug("Pruned idle sessions", logger.Int("count", n), logger.Duration("idle_timeout", sessionIdleTimeout))
				}
			}
		}
	}()

	// Graceful shutdown
	go func() {
		log.Info("Server starting",
			logger.String("port", cfg.Server.Port),
			logger.String("env", cfg.Server.Env),
			logger.Bool("production", cfg.IsProduction()),
			logger.String("geolocation", cfg.Geolocation.Mode))
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Fatal("Server error", logger.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		log.Warn("Server forced to shutdown", logger.Error(err))
	}
	sessions.WaitBackground()
	log.Info("Server exited gracefully")
}

// openHistory picks PostgreSQL, then SQLite, then memory
func openHistory(cfg *config.Config, log *logger.Logger) (domain.HistoryRepository, func()) {
	if cfg.Storage.DatabaseURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		pool, err := pgxpool.New(ctx, cfg.Storage.DatabaseURL)
		if err == nil {
			repo := postgres.NewPostgresRepository(pool)
			if err = repo.Migrate(ctx); err == nil {
				log.Info("Connected to PostgreSQL")
				return repo, pool.Close
			}
			pool.Close()
		}
		log.Warn("Could not connect to database, falling back", logger.Error(err))
	}

	if cfg.Storage.SQLitePath != "" {
		repo, err := sqlite.Open(cfg.Storage.SQLitePath)
		if err == nil {
			log.Info("Using SQLite history", logger.String("path", cfg.Storage.SQLitePath))
			return repo, func() {
				if err := repo.Close(); err != nil {
					log.Warn("Failed to close SQLite", logger.Error(err))
				}
			}
		}
		log.Warn("Could not open SQLite, falling back", logger.Error(err))
	}

	log.Info("Keeping lookup history in memory only")
	return memory.NewRepository(), func() {}
}

func newResolver(cfg *config.Config, log *logger.Logger) service.Resolver {
	switch cfg.Geolocation.Mode {
	case config.GeolocationIP:
		return service.NewIPResolver(cfg.Geolocation.URL, log)
	case config.GeolocationStatic:
		return service.Static{Position: domain.Coordinates{
			Latitude:  cfg.Geolocation.Latitude,
			Longitude: cfg.Geolocation.Longitude,
		}}
	default:
		return service.Unsupported{}
	}
}
