package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zaakiraza/ResumeAI-sub001/internal/config"
	"github.com/zaakiraza/ResumeAI-sub001/internal/database"
	"github.com/zaakiraza/ResumeAI-sub001/internal/domain"
	"github.com/zaakiraza/ResumeAI-sub001/internal/handler"
	"github.com/zaakiraza/ResumeAI-sub001/internal/repository"
	"github.com/zaakiraza/ResumeAI-sub001/internal/repository/memory"
	"github.com/zaakiraza/ResumeAI-sub001/internal/service"
	"github.com/zaakiraza/ResumeAI-sub001/internal/upload"
)

// memoryDatabaseURL runs the server on in-memory stores for local development.
const memoryDatabaseURL = "memory"

func main() {
	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

type stores struct {
	users         service.UserStore
	notifications service.NotificationStore
	feedback      service.FeedbackStore
	close         func() error
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx := context.Background()

	st, err := openStores(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer st.close()

	authSvc := service.NewAuthService(st.users, service.AuthConfig{
		JWTSecret:       cfg.JWTSecret,
		AccessTokenTTL:  cfg.AccessTokenTTL,
		RefreshTokenTTL: cfg.RefreshTokenTTL,
	})
	notificationSvc := service.NewNotificationService(st.notifications)

	if !cfg.Cloudinary.Configured() {
		slog.Warn("asset host not configured, uploads will fail", "missing", "CLOUDINARY_CLOUD_NAME or CLOUDINARY_UPLOAD_PRESET")
	}

	e := handler.NewRouter(handler.Services{
		Auth:          authSvc,
		Users:         service.NewUserService(st.users),
		Notifications: notificationSvc,
		Feedback:      service.NewFeedbackService(st.feedback, st.users, notificationSvc),
		Uploader:      upload.NewUploader(cfg.Cloudinary),
	}, handler.RouterConfig{FrontendURL: cfg.FrontendURL})

	if cfg.DatabaseURL == memoryDatabaseURL {
		if pair, err := authSvc.GenerateTokenPair(1); err == nil {
			slog.Warn("development access token for user 1", "access_token", pair.AccessToken)
		}
	}

	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = cfg.Cloudinary.Timeout + 10*time.Second
	e.Server.IdleTimeout = 60 * time.Second

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Port)
		errCh <- e.Start(fmt.Sprintf(":%d", cfg.Port))
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig)
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

func openStores(ctx context.Context, databaseURL string) (stores, error) {
	if databaseURL == memoryDatabaseURL {
		slog.Warn("using in-memory stores, data is lost on restart")
		return stores{
			users: memory.NewUsers(
				domain.User{ID: 1, Email: "demo@resumeai.local", DisplayName: "Demo User"},
				domain.User{ID: 2, Email: "admin@resumeai.local", DisplayName: "Admin", Role: domain.RoleAdmin},
			),
			notifications: memory.NewNotifications(),
			feedback:      memory.NewFeedback(),
			close:         func() error { return nil },
		}, nil
	}

	db, err := database.Connect(ctx, databaseURL)
	if err != nil {
		return stores{}, err
	}
	slog.Info("database connected")

	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		return stores{}, err
	}
	slog.Info("migrations applied")

	return stores{
		users:         repository.NewUserRepository(db),
		notifications: repository.NewNotificationRepository(db),
		feedback:      repository.NewFeedbackRepository(db),
		close:         db.Close,
	}, nil
}
