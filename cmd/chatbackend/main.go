// Command chatbackend runs the in-memory development backend. It answers the
// chat procedures over JSON-RPC on raw TCP and on a websocket endpoint.
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

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/xiaot623/chatbridge/internal/adapter/llm"
	"github.com/xiaot623/chatbridge/internal/config"
	"github.com/xiaot623/chatbridge/internal/service"
	"github.com/xiaot623/chatbridge/internal/transport/rpc"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg.ConfigureLog(log.Default())

	log.Printf("Starting chatbackend...")
	log.Printf("RPC Port: %d", cfg.BackendRPCPort)
	log.Printf("WebSocket Port: %d", cfg.BackendWSPort)
	log.Printf("LLM URL: %s", cfg.LLMBaseURL)

	// Initialize LLM client
	llmClient := llm.NewLLMClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMTimeout)

	// Initialize service
	svc := service.New(llmClient, service.Options{
		Model:         cfg.LLMModel,
		PromptLimit:   cfg.PromptLimit,
		BlockDuration: cfg.PromptBlock,
	})

	rpcServer, err := rpc.NewServer(svc)
	if err != nil {
		log.Fatalf("Failed to initialize RPC server: %v", err)
	}

	// Create WebSocket Echo server
	wsEcho := echo.New()
	wsEcho.HideBanner = true
	wsEcho.HidePort = true
	if !cfg.Quiet() {
		wsEcho.Use(middleware.Logger())
	}
	wsEcho.Use(middleware.Recover())
	wsEcho.GET("/rpc", rpcServer.HandleWebSocket)
	wsEcho.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
	})

	// Start RPC server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.BackendRPCPort)
		if err := rpcServer.Start(addr); err != nil {
			log.Fatalf("Failed to start RPC server: %v", err)
		}
	}()

	// Start WebSocket server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.BackendWSPort)
		if err := wsEcho.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start WebSocket server: %v", err)
		}
	}()

	log.Printf("RPC server started on port %d", cfg.BackendRPCPort)
	log.Printf("WebSocket server started on port %d", cfg.BackendWSPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down chatbackend...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := rpcServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown RPC server gracefully: %v", err)
	}
	if err := wsEcho.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown WebSocket server gracefully: %v", err)
	}

	log.Println("Chatbackend stopped")
}
