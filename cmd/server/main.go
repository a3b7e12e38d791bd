package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"
	"github.com/pinory/backend/internal/cache"
	"github.com/pinory/backend/internal/router"
	"github.com/pinory/backend/pkg/config"
	"github.com/pinory/backend/pkg/firebase"
	"github.com/pinory/backend/validators"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connections
	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	// Initialize Firebase
	ctx := context.Background()
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	// Redis cache is optional; a nil cache disables caching
	var appCache *cache.Cache
	if cfg.RedisAddr != "" {
		appCache, err = cache.New(ctx, cfg.RedisAddr)
		if err != nil {
			log.Printf("Redis unavailable at %s, continuing without cache: %v", cfg.RedisAddr, err)
			appCache = nil
		} else {
			defer appCache.Close()
		}
	}

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, db.Postgres, db.Mongo, firebaseApp.AuthClient, appCache)

	// Validator
	e.Validator = validators.NewValidator()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
