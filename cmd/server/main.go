package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trainerhub/app/internal/api"
	"trainerhub/app/internal/config"
	"trainerhub/app/internal/logger"
	"trainerhub/app/internal/metrics"
	"trainerhub/app/internal/repository"
	"trainerhub/app/internal/repository/memory"
	"trainerhub/app/internal/repository/mongo"
	"trainerhub/app/internal/revocation"
	"trainerhub/app/internal/service"
	"trainerhub/app/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// @title TrainerHub API
// @version 1.0
// @description API for trainers managing clients, sessions, workout templates and progress.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		// Logger is not up yet.
		os.Stderr.WriteString("FATAL: could not load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(logger.ParseLevel(cfg.Log.Level), zap.String("service", "trainerhub")); err != nil {
		os.Stderr.WriteString("FATAL: could not init logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Log
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("Server stopped with error", zap.Error(err))
	}
	log.Info("Server exiting")
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx := context.Background()
	log.Info("Starting TrainerHub server",
		zap.String("address", cfg.Server.Address),
		zap.String("database_driver", cfg.Database.Driver))

	// --- Repositories ---
	var repos repository.Set
	switch cfg.Database.Driver {
	case "memory":
		log.Warn("Using in-memory storage; data is lost on restart")
		repos = memory.NewRepositories()
	default:
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		dbClient, err := mongo.ConnectDB(connectCtx, cfg.Database.URI)
		cancel()
		if err != nil {
			return err
		}
		defer func() {
			log.Info("Disconnecting MongoDB")
			if err := mongo.DisconnectDB(dbClient); err != nil {
				log.Error("Failed to disconnect MongoDB", zap.Error(err))
			}
		}()
		appDB := dbClient.Database(cfg.Database.Name)
		log.Info("Database connection established", zap.String("database", cfg.Database.Name))

		go func() {
			indexCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			mongo.EnsureIndexes(indexCtx, appDB, log)
		}()
		repos = mongo.NewRepositories(appDB)
	}

	// --- Token revocation ---
	var revoked revocation.Store
	if cfg.Redis.Addr != "" {
		store, err := revocation.NewRedisStore(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		log.Info("Token revocation backed by Redis", zap.String("addr", cfg.Redis.Addr))
		revoked = store
	} else {
		log.Warn("Redis not configured; revocations are kept in process memory")
		revoked = revocation.NewMemoryStore()
	}
	defer func() {
		if err := revoked.Close(); err != nil {
			log.Error("Failed to close revocation store", zap.Error(err))
		}
	}()

	// --- Photo storage ---
	fileStorage := storage.Disabled()
	if cfg.S3.Enabled() {
		fs, err := storage.NewS3Storage(ctx, cfg.S3, log)
		if err != nil {
			return err
		}
		fileStorage = fs
	} else {
		log.Warn("S3 bucket not configured; progress photos are disabled")
	}

	// --- Services ---
	authService, err := service.NewAuthService(repos.Users, revoked, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)
	if err != nil {
		return err
	}
	services := api.Services{
		Auth:      authService,
		Clients:   service.NewClientService(repos.Clients, repos.Templates),
		Sessions:  service.NewSessionService(repos.Sessions, repos.Clients, repos.Templates, log),
		Templates: service.NewWorkoutTemplateService(repos.Templates, repos.Clients),
		Exercises: service.NewExerciseService(repos.Exercises),
		Progress:  service.NewProgressService(repos.Progress, repos.Clients, fileStorage, log),
	}

	// --- Metrics ---
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	appMetrics := metrics.New(registry)

	// --- Router ---
	gin.SetMode(cfg.Server.Mode)
	router := api.NewRouter(services, api.RouterConfig{
		Cookie:         cfg.Cookie,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Metrics:        appMetrics,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Logger:         log,
	})

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Server listening", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		return err
	case sig := <-quit:
		log.Info("Shutting down server", zap.String("signal", sig.String()))
	}

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()
	return server.Shutdown(ctxShutdown)
}
