package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/pulso-lab/pulso/internal/calendar"
	corecfg "github.com/pulso-lab/pulso/internal/core/config"
	"github.com/pulso-lab/pulso/internal/core/storage/postgres"
	"github.com/pulso-lab/pulso/internal/insights"
	"github.com/pulso-lab/pulso/internal/migrations"
	"github.com/pulso-lab/pulso/internal/posts"
	"github.com/pulso-lab/pulso/internal/server"
	"github.com/pulso-lab/pulso/internal/users"
)

func main() {
	configPath := flag.String("config", "pulso.yaml", "Path to configuration file")
	flag.Parse()

	// 0. Initialize Logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 1. Load Configuration (.env feeds the PULSO_ env overrides)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to load .env file", "error", err)
	}
	cfg, err := corecfg.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	slog.Info("Loaded config", "host", cfg.Server.Host, "port", cfg.Server.Port, "mode", cfg.Server.Mode)

	// 2. Initialize Storage (PostgreSQL)
	postStore, err := postgres.NewAdapter(
		cfg.Database.DSN,
		cfg.Database.MaxOpenConns,
		cfg.Database.MaxIdleConns,
		cfg.Database.EffectiveQueryTimeout(),
	)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer postStore.Close()

	// 2.1. Run Database Migrations
	if err := migrations.RunMigrations(postStore.DB(), cfg.Database.AutoMigrate); err != nil {
		slog.Error("Failed to run database migrations", "error", err)
		os.Exit(1)
	}

	userStore := postgres.NewUserAdapter(postStore.DB())
	taskStore := postgres.NewTaskAdapter(postStore.DB())

	// 3. Initialize Auth
	jwtManager, err := users.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.EffectiveTokenTTL())
	if err != nil {
		slog.Error("Failed to initialize JWT manager", "error", err)
		os.Exit(1)
	}

	// 4. Initialize Services
	userSvc := users.NewService(userStore, jwtManager, cfg.Auth.BcryptCost)
	postSvc := posts.NewService(postStore, cfg.Server.MaxBodySizeMB)
	insightSvc := insights.NewService(postStore, cfg.RetentionBuckets)
	calendarSvc := calendar.NewService(taskStore)

	// 5. Initialize Server
	srv := server.New(fmtAddr(cfg.Server.Host, cfg.Server.Port), postStore, cfg.Server.Mode)
	userSvc.RegisterRoutes(srv.Engine)
	postSvc.RegisterRoutes(srv.Engine)
	insightSvc.RegisterRoutes(srv.Engine)
	calendarSvc.RegisterRoutes(srv.Engine)

	// 6. Start Services
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Signal handler triggers the shutdown sequence below.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		slog.Info("Signal received, shutting down...")
		cancel()
	}()

	// HTTP server blocks until ctx is cancelled.
	if err := srv.Run(ctx); err != nil {
		slog.Error("Server stopped with error", "error", err)
	}

	slog.Info("Shutdown complete")
}

func fmtAddr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}
