package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/minsuhan/tasktalk/internal/config"
	tasktalkhttp "github.com/minsuhan/tasktalk/internal/http"
	"github.com/minsuhan/tasktalk/internal/intent"
	"github.com/minsuhan/tasktalk/internal/middleware"
	"github.com/minsuhan/tasktalk/internal/model"
	"github.com/minsuhan/tasktalk/internal/oracle"
	"github.com/minsuhan/tasktalk/internal/repository"
	"github.com/minsuhan/tasktalk/internal/service"
)

// userResolverAdapter adapts the user repository to the middleware.UserResolver interface.
type userResolverAdapter struct {
	repo repository.UserRepository
}

func (a *userResolverAdapter) ResolveUser(ctx context.Context, userID int64) (model.User, error) {
	user, err := a.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, middleware.ErrUserNotFound
		}
		return model.User{}, fmt.Errorf("failed to resolve user: %w", err)
	}
	return user, nil
}

func main() {
	// Initial logger at info level; reconfigured after config load
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(context.Background()); err != nil {
		logger.Error("application failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.ParseLogLevel(),
	}))
	slog.SetDefault(logger)

	logger.Info("config loaded",
		"env", cfg.AppEnv,
		"port", cfg.ServerPort,
		"auth_dev_mode", cfg.AuthDevMode,
		"log_level", cfg.LogLevel,
		"oracle_model", cfg.Oracle.Model,
	)

	// Database connection
	db, err := repository.NewDB(cfg.DB.DSN())
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("database connected")

	if cfg.DB.Migrate {
		if err := repository.Migrate(ctx, db); err != nil {
			return err
		}
		logger.Info("schema applied")
	}

	// Repositories
	taskRepo := repository.NewPostgresTask(db)
	userRepo := repository.NewPostgresUser(db)
	categoryRepo := repository.NewPostgresCategory(db)

	// Auth service + optional demo users
	authSvc := service.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL(), service.WithAuthLogger(logger))
	if cfg.SeedUsers {
		if err := authSvc.SeedUsers(ctx); err != nil {
			return err
		}
	}

	// Intent extraction pipeline
	oracleClient := oracle.NewChatClient(cfg.Oracle)
	if cfg.Oracle.APIKey == "" {
		logger.Warn("ORACLE_API_KEY not set: extraction will rely on fallback heuristics")
	}
	extractor := intent.NewExtractor(oracleClient, cfg.Oracle.Temperature, intent.WithLogger(logger))

	// Task mutation engine
	taskSvc := service.NewTaskService(extractor, taskRepo, taskRepo, categoryRepo, service.WithTaskLogger(logger))

	// Auth middleware
	auth, err := middleware.NewAuth(middleware.AuthConfig{
		DevMode:  cfg.AuthDevMode,
		Secret:   []byte(cfg.Auth.JWTSecret),
		Resolver: &userResolverAdapter{repo: userRepo},
	})
	if err != nil {
		return fmt.Errorf("failed to create auth middleware: %w", err)
	}

	// HTTP Server
	srv := tasktalkhttp.NewServer(cfg.ServerPort, logger, taskSvc, authSvc, auth)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	logger.Info("server starting", "port", cfg.ServerPort)

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("server stopped gracefully")
	return nil
}
