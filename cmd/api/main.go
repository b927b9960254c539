package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"travel-journal-backend/internal/api"
	"travel-journal-backend/internal/config"
	"travel-journal-backend/internal/modules/files"
	"travel-journal-backend/internal/modules/members"
	"travel-journal-backend/internal/modules/places"
	"travel-journal-backend/internal/modules/planner"
	"travel-journal-backend/internal/modules/trips"
	"travel-journal-backend/pkg/email"
	"travel-journal-backend/pkg/storage"
)

func main() {
	// 1. --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	e := echo.New()

	// 2. --- Middleware ---
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:5173", cfg.ClientOrigin},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// 3. --- Database Connection ---
	dbConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Unable to parse database configuration: %v", err)
	}
	dbPool, err := pgxpool.NewWithConfig(context.Background(), dbConfig)
	if err != nil {
		log.Fatalf("Unable to create connection pool: %v", err)
	}
	defer dbPool.Close()

	if err := dbPool.Ping(context.Background()); err != nil {
		log.Fatalf("Unable to ping database: %v", err)
	}
	e.Logger.Info("Successfully connected to the database!")

	// 4. --- External Clients ---
	var emailSvc email.ServiceInterface
	if !cfg.EmailDisabled {
		sender, err := email.NewSESV2Sender(context.Background(), cfg.AWSRegion, cfg.EmailFrom)
		if err != nil {
			log.Fatalf("Unable to initialize SES sender: %v", err)
		}
		emailSvc = sender
	}

	uploader, err := storage.NewS3Uploader(context.Background(), cfg.AWSRegion, cfg.PhotoBucket)
	if err != nil {
		log.Fatalf("Unable to initialize S3 uploader: %v", err)
	}

	// 5. --- Dependency Injection (Wiring everything up) ---
	// --- Members Module ---
	memberRepo := members.NewRepository(dbPool)
	memberService := members.NewService(memberRepo, cfg.JWTSecret, cfg.ClientOrigin,
		cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
	memberHandler := members.NewHandler(memberService, cfg.ClientOrigin)

	// --- Places Module ---
	placeProvider := places.NewHTTPProvider(cfg.PlaceAPIBaseURL, cfg.PlaceAPIKey)
	placeService := places.NewService(placeProvider)
	placeHandler := places.NewHandler(placeService)

	// --- Trips Module ---
	tripRepo := trips.NewRepository(dbPool)
	tripService := trips.NewService(tripRepo, emailSvc, cfg.ClientOrigin)
	tripHandler := trips.NewHandler(tripService)

	// --- Planner Module ---
	sessionManager := planner.NewManager(tripService, tripService)
	plannerHandler := planner.NewHandler(sessionManager)

	// --- Files Module ---
	fileService := files.NewService(uploader)
	fileHandler := files.NewHandler(fileService)

	// 6. --- Initialize Router ---
	api.SetupRoutes(e, cfg.JWTSecret,
		memberHandler,
		placeHandler,
		plannerHandler,
		tripHandler,
		fileHandler,
	)

	// 7. --- Start Server with graceful shutdown logic ---
	go func() {
		if err := e.Start(":" + cfg.ServerPort); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal("shutting down the server, an error occurred: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		e.Logger.Fatal("Server forced to shutdown: ", err)
	}
	log.Println("Server exiting")
}
