package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"hostel-backend/config"
	"hostel-backend/controllers"
	"hostel-backend/routes"
	"hostel-backend/services"
)

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Println(".env not found or couldn't load it; continuing with environment variables")
	}

	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("database connect failed: %v", err)
	}
	db := config.DB
	if db == nil {
		log.Fatal("config.DB is nil after ConnectDatabase()")
	}
	log.Println("database connection established, migrations applied")

	// Services
	notifier := services.LogNotifier{}
	rollupService := services.NewRollupService(db)
	hostelService := services.NewHostelService(db)
	roomService := services.NewRoomService(db, rollupService)
	bookingService := services.NewBookingService(db, roomService, rollupService, notifier)
	allocationService := services.NewAllocationService(db, roomService, bookingService, rollupService, notifier)

	// Reconciliation sweep: one pass at boot to settle anything a previous
	// crash left behind, then periodic.
	sweeper := services.NewSweeper(db, rollupService)
	sweeper.Sweep()
	if err := sweeper.Start(); err != nil {
		log.Fatalf("failed to start reconciliation sweep: %v", err)
	}
	defer sweeper.Stop()

	// Controllers
	hostelController := controllers.NewHostelController(hostelService, rollupService)
	roomController := controllers.NewRoomController(roomService)
	bookingController := controllers.NewBookingController(bookingService, allocationService)

	router := routes.SetupRouter(hostelController, roomController, bookingController)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("shutdown signal received, shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server stopped gracefully")
}
