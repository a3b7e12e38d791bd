package router

import (
	"log"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/pinory/backend/internal/cache"
	"github.com/pinory/backend/internal/feed"
	"github.com/pinory/backend/internal/handlers"
	"github.com/pinory/backend/internal/middleware"
	"github.com/pinory/backend/internal/models"
	"github.com/pinory/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Logger())
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mgClient *mongo.Client, firebaseAuthClient *auth.Client, appCache *cache.Cache) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Friendship{},
		&models.FriendInvitation{},
		&models.FriendInvitationAcceptance{},
		&models.Reaction{},
		&models.SavedPlace{},
		&models.ShareLink{},
		&models.Notification{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	mongoDB := mgClient.Database("pinory")
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	friendshipRepo := repositories.NewPostgresFriendshipRepository(pgdb)
	invitationRepo := repositories.NewPostgresInvitationRepository(pgdb)
	reactionRepo := repositories.NewPostgresReactionRepository(pgdb)
	savedPlaceRepo := repositories.NewPostgresSavedPlaceRepository(pgdb)
	shareRepo := repositories.NewPostgresShareRepository(pgdb)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)
	placeRepo := repositories.NewMongoPlaceRepository(mongoDB)
	journeyRepo := repositories.NewMongoJourneyRepository(mongoDB)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, firebaseAuthClient)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Public routes with optional authentication ---
	inviteHandler := handlers.NewInviteHandler(invitationRepo, friendshipRepo, userRepo, notificationRepo, appCache)
	shareHandler := handlers.NewShareHandler(shareRepo, placeRepo, journeyRepo, friendshipRepo)

	public := e.Group("/api/v1")
	public.Use(middleware.OptionalJWTAuthMiddleware())
	inviteHandler.RegisterPublicInviteRoutes(public)
	shareHandler.RegisterPublicShareRoutes(public)
	log.Println("Public invite and share routes configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware())
	log.Println("JWT authentication middleware applied to /api/v1 group.")

	// User profile and search routes
	userHandler := handlers.NewUserHandler(userRepo, friendshipRepo, placeRepo)
	userHandler.RegisterProfileRoutes(api)
	log.Println("User profile routes configured.")

	// Place routes
	placeHandler := handlers.NewPlaceHandler(placeRepo, friendshipRepo)
	placeHandler.RegisterPlaceRoutes(api)
	log.Println("Place routes configured.")

	// Journey routes
	journeyHandler := handlers.NewJourneyHandler(journeyRepo, placeRepo, friendshipRepo)
	journeyHandler.RegisterJourneyRoutes(api)
	log.Println("Journey routes configured.")

	// Friendship routes
	friendshipHandler := handlers.NewFriendshipHandler(friendshipRepo, userRepo, notificationRepo)
	friendshipHandler.RegisterFriendshipRoutes(api)
	log.Println("Friendship routes configured.")

	// Invitation routes
	inviteHandler.RegisterInviteRoutes(api)
	log.Println("Invitation routes configured.")

	// Feed routes
	aggregator := feed.NewAggregator(friendshipRepo, placeRepo, journeyRepo, reactionRepo, userRepo)
	feedHandler := handlers.NewFeedHandler(aggregator, appCache)
	feedHandler.RegisterFeedRoutes(api)
	log.Println("Feed routes configured.")

	// Reaction routes
	reactionHandler := handlers.NewReactionHandler(reactionRepo, placeRepo, journeyRepo, notificationRepo)
	reactionHandler.RegisterReactionRoutes(api)
	log.Println("Reaction routes configured.")

	// Saved place routes
	savedPlaceHandler := handlers.NewSavedPlaceHandler(savedPlaceRepo, placeRepo)
	savedPlaceHandler.RegisterSavedPlaceRoutes(api)
	log.Println("Saved place routes configured.")

	// Share routes
	shareHandler.RegisterShareRoutes(api)
	log.Println("Share routes configured.")

	// Notification routes
	notificationHandler := handlers.NewNotificationHandler(notificationRepo, userRepo)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	log.Println("All routes configured.")
}
