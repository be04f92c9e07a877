package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/whatshouldieat/backend/config"
	"github.com/whatshouldieat/backend/internal/app"
	"github.com/whatshouldieat/backend/internal/realtime"
	"github.com/whatshouldieat/backend/internal/server"
)

func main() {
	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	hub := realtime.NewHub()
	a, err := app.New(context.Background(), cfg, hub)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	// Create and start server
	srv := server.New(cfg, a, hub)

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)

	// Start server in a goroutine
	go func() {
		log.Println("Starting server...")
		errChan <- srv.Start()
	}()

	// Channel to listen for an interrupt or terminate signal from the OS
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Block until we receive a signal or error
	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	// Gracefully shutdown the server
	log.Println("Shutting down server...")
	if err := srv.Shutdown(context.Background()); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
