package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"movie-comments/internal/data/repository"
	"movie-comments/internal/usecase"
	"movie-comments/internal/view"
	"movie-comments/internal/wire"
	"movie-comments/pkg/database"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	shutdownTimeout        = 15 * time.Second
	sessionCleanupInterval = time.Hour
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	config, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
		zap.String("edit_form_policy", config.Comment.EditFormPolicy),
	)

	if config.App.MigrationsOnStart {
		if err := database.RunMigrations(config.Database.DSN(), database.MigrateUp, logger); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}

	db, err := database.InitDB(config.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	renderer, err := view.NewRenderer()
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}

	repos := repository.NewRepository(db, logger)
	app := wire.Wiring(repos, db, config, renderer, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go cleanSessions(ctx, app.Service.Auth, logger)

	return APIServer(ctx, app.Router, config.App.Port, logger)
}

// APIServer serves until ctx is cancelled, then shuts down gracefully
func APIServer(ctx context.Context, route http.Handler, port string, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", port),
		Handler:           route,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("Server stopped")
	return nil
}

func cleanSessions(ctx context.Context, auth usecase.AuthService, logger *zap.Logger) {
	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := auth.CleanExpiredSessions(ctx); err != nil {
				logger.Error("Failed to clean expired sessions", zap.Error(err))
			}
		}
	}
}
