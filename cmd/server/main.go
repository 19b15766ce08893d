package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/WillSeigler/Bookd/internal/events"
	"github.com/WillSeigler/Bookd/internal/router"
	"github.com/WillSeigler/Bookd/pkg/cloudinary"
	"github.com/WillSeigler/Bookd/pkg/config"
	"github.com/WillSeigler/Bookd/pkg/firebase"
	"github.com/WillSeigler/Bookd/validators"
	"github.com/labstack/echo/v4"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg := config.Load()
	logger := config.NewLogger(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database connections
	db, err := config.InitDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.CloseDB()

	// Firebase login is optional
	var verifier firebase.TokenVerifier
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
	switch {
	case err == nil:
		verifier = firebaseApp
	case errors.Is(err, firebase.ErrNotConfigured):
		logger.Warn("Firebase credentials not set, Firebase login disabled")
	default:
		return err
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.NatsURL != "" {
		nc, err := events.Connect(cfg.NatsURL)
		if err != nil {
			return err
		}
		defer nc.Drain()
		publisher = events.NewNatsPublisher(nc)
		logger.Info("Publishing activity events to NATS", "url", cfg.NatsURL)
	}

	// Uploads fail with setup instructions until a cloud name is set.
	cloudName := cfg.CloudinaryCloudName
	if !cfg.CloudinaryConfigured() {
		logger.Warn(config.CloudinarySetupInstructions)
		cloudName = ""
	}
	mediaHost := cloudinary.NewClient(cloudName, cloudinary.WithSetupHint(config.CloudinarySetupInstructions))

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()
	config.SetupMiddleware(e, logger)

	err = router.SetupRoutes(ctx, e, router.Dependencies{
		Postgres:  db.Postgres,
		Mongo:     db.MongoDB,
		Firebase:  verifier,
		Publisher: publisher,
		MediaHost: mediaHost,
		JWTSecret: cfg.SigningSecret(),
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "port", cfg.Port)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
