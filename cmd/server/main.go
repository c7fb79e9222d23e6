package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"centralfight/gym-app/internal/analytics"
	"centralfight/gym-app/internal/api"
	"centralfight/gym-app/internal/app"
	"centralfight/gym-app/internal/config"
	"centralfight/gym-app/internal/service"

	"github.com/gin-gonic/gin"
)

// @title Central Fight API
// @version 1.0
// @description Trainer dashboards, student progress, payments and check-ins for a fight gym.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	log.Println("Starting Central Fight Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")
	if cfg.JWT.Secret == "" {
		log.Fatal("FATAL: jwt.secret (JWT_SECRET) must be set")
	}

	weekStart, err := analytics.ParseWeekday(cfg.Analytics.WeekStart)
	if err != nil {
		log.Fatalf("FATAL: Invalid analytics.week_start: %v", err)
	}

	// --- Directory ---
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	directory, err := app.LoadDirectory(ctx, cfg, time.Now())
	cancel()
	if err != nil {
		log.Fatalf("FATAL: Could not load data: %v", err)
	}

	// --- Initialize Services ---
	log.Println("Initializing services...")
	authService := service.NewAuthService(directory, cfg.JWT.Secret, cfg.JWT.Expiration)
	trainerService := service.NewTrainerService(directory, weekStart, time.Now)
	studentService := service.NewStudentService(directory, service.SimulatedGateway{Delay: cfg.Payment.SimulatedDelay}, weekStart, time.Now)

	// --- Initialize Gin Engine ---
	router := gin.Default() // Includes Logger and Recovery middleware
	api.SetupRoutes(router, cfg.JWT.Secret, authService, trainerService, studentService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
