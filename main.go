package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/animedom/animedom/internal/api"
	"github.com/animedom/animedom/internal/auth"
	"github.com/animedom/animedom/internal/core"
	"github.com/animedom/animedom/internal/jobs"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Initialize the core application components
	app, err := core.New(version)
	if err != nil {
		log.Fatalf("Fatal error during application setup: %v", err)
	}
	defer app.Close()
	logger := app.Logger

	server, err := api.NewServer(app)
	if err != nil {
		logger.Fatal("Could not build the web server", zap.Error(err))
	}

	// --- First User Provisioning ---
	password, err := auth.EnsureAdmin(context.Background(), server.Store(), app.Config.Admin.Email)
	if err != nil {
		logger.Fatal("Could not provision the admin account", zap.Error(err))
	}
	if password != "" {
		logger.Warn("No users found. Default admin account created; change this password immediately.",
			zap.String("email", app.Config.Admin.Email),
			zap.String("password", password),
		)
	}

	scheduler := jobs.StartJobs(server.Jobs(), app.Config.Session.CleanupInterval, logger)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", app.Config.Port),
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// --- Graceful Shutdown ---
	go func() {
		logger.Info("Starting web server", zap.String("addr", httpServer.Addr), zap.String("version", version))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Could not start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	if scheduler != nil {
		scheduler.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	server.Jobs().Wait()

	logger.Info("Server exiting.")
}
