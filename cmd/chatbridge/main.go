// Command chatbridge serves the UI shell and the session/backend API it calls.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xiaot623/chatbridge/internal/app"
	"github.com/xiaot623/chatbridge/internal/config"
	transporthttp "github.com/xiaot623/chatbridge/internal/transport/http"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg.ConfigureLog(log.Default())

	log.Printf("Starting chatbridge...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Backend URL: %s", cfg.BackendURL)
	log.Printf("Auth mode: %s", cfg.AuthMode)
	if cfg.StaticDir != "" {
		log.Printf("Static UI: %s", cfg.StaticDir)
	}

	// Wire backend client, metrics and sessions
	ctx := context.Background()
	a, err := app.New(ctx, cfg, app.Options{})
	if err != nil {
		log.Fatalf("Failed to initialize chatbridge: %v", err)
	}

	server := transporthttp.NewServer(a.Facade, a, transporthttp.Options{
		StaticDir: cfg.StaticDir,
		Metrics:   a.Metrics.Handler(),
		Quiet:     cfg.Quiet(),
	})

	// Start HTTP server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	log.Printf("HTTP server started on port %d", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down chatbridge...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown HTTP server gracefully: %v", err)
	}

	log.Println("Chatbridge stopped")
}
