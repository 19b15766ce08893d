package router

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/WillSeigler/Bookd/internal/events"
	"github.com/WillSeigler/Bookd/internal/handlers"
	"github.com/WillSeigler/Bookd/internal/media"
	"github.com/WillSeigler/Bookd/internal/middleware"
	"github.com/WillSeigler/Bookd/internal/models"
	"github.com/WillSeigler/Bookd/internal/repositories"
	"github.com/WillSeigler/Bookd/internal/services"
	"github.com/WillSeigler/Bookd/pkg/firebase"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Dependencies are the process-level resources the routes are built from.
type Dependencies struct {
	Postgres *gorm.DB
	Mongo    *mongo.Database
	// Firebase is nil when no credentials are configured.
	Firebase  firebase.TokenVerifier
	Publisher events.Publisher
	MediaHost media.Host
	JWTSecret string
	Logger    *slog.Logger
}

// Migrate creates the relational tables and the post indexes.
func Migrate(ctx context.Context, pgdb *gorm.DB, posts *repositories.MongoPostRepository) error {
	err := pgdb.WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.Organization{},
		&models.Follow{},
		&models.Like{},
		&models.Comment{},
	)
	if err != nil {
		return fmt.Errorf("failed to auto migrate models: %w", err)
	}
	slog.Info("PostgreSQL auto-migrations completed for all models.")

	if err := posts.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("failed to create post indexes: %w", err)
	}
	slog.Info("MongoDB post indexes ensured.")
	return nil
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(ctx context.Context, e *echo.Echo, deps Dependencies) error {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(deps.Postgres)
	orgRepo := repositories.NewPostgresOrganizationRepository(deps.Postgres)
	followRepo := repositories.NewPostgresFollowRepository(deps.Postgres)
	likeRepo := repositories.NewPostgresLikeRepository(deps.Postgres)
	commentRepo := repositories.NewPostgresCommentRepository(deps.Postgres)
	postRepo := repositories.NewMongoPostRepository(deps.Mongo)

	if err := Migrate(ctx, deps.Postgres, postRepo); err != nil {
		return err
	}

	// --- Services ---
	graph := services.NewGraphService(followRepo, userRepo, deps.Publisher, logger)
	feed := services.NewFeedService(graph, postRepo, userRepo, orgRepo, likeRepo, commentRepo, logger)
	posts := services.NewPostService(postRepo, deps.Publisher, logger)
	likes := services.NewLikeService(likeRepo, postRepo, deps.Publisher, logger)
	comments := services.NewCommentService(commentRepo, postRepo, userRepo)
	accounts := services.NewAccountService(userRepo, deps.Firebase, deps.JWTSecret, logger)
	users := services.NewUserService(userRepo, graph, logger)
	uploader := media.NewUploader(deps.MediaHost, logger)

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	handlers.NewAuthHandler(accounts).RegisterAuthRoutes(authGroup)
	logger.Info("Auth routes configured.")

	// --- Protected routes ---
	var firebaseUsers middleware.FirebaseUserResolver
	if deps.Firebase != nil {
		firebaseUsers = accounts
	}
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(deps.JWTSecret, firebaseUsers))
	logger.Info("Session middleware applied to /api/v1 group.", "firebase_fallback", firebaseUsers != nil)

	handlers.NewUserHandler(users).RegisterProfileRoutes(api)
	handlers.NewFollowHandler(graph).RegisterFollowRoutes(api)
	handlers.NewFeedHandler(feed).RegisterFeedRoutes(api)
	handlers.NewPostHandler(posts, feed).RegisterPostRoutes(api)
	handlers.NewLikeHandler(likes).RegisterLikeRoutes(api)
	handlers.NewCommentHandler(comments).RegisterCommentRoutes(api)
	handlers.NewMediaHandler(uploader, users).RegisterMediaRoutes(api)
	logger.Info("API routes configured.")

	return nil
}
