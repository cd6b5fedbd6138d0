// Package v1 provides the HTTP API the UI shell talks to.
package v1

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/chatbridge/internal/facade"
	"github.com/xiaot623/chatbridge/internal/principal"
	"github.com/xiaot623/chatbridge/internal/session"
)

// Sessions performs logins and reports the current session.
type Sessions interface {
	Login(ctx context.Context) (session.Result, error)
	Current() session.Session
}

// Handler handles HTTP requests.
type Handler struct {
	facade   *facade.Facade
	sessions Sessions
}

// NewHandler creates a new handler.
func NewHandler(f *facade.Facade, sessions Sessions) *Handler {
	return &Handler{
		facade:   f,
		sessions: sessions,
	}
}

// RegisterRoutes registers the API routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Session API
	e.POST("/v1/login", h.Login)
	e.GET("/v1/session", h.GetSession)

	// Chat API
	e.POST("/v1/chat", h.Chat)
	e.GET("/v1/chats", h.ListChats)
	e.POST("/v1/chats", h.CreateChat)
	e.GET("/v1/chats/:chat_id/history", h.GetChatHistory)
	e.POST("/v1/chats/:chat_id/messages", h.AddChatMessage)
	e.PUT("/v1/chats/:chat_id", h.RenameChat)
	e.DELETE("/v1/chats/:chat_id", h.DeleteChat)

	// User API
	e.GET("/v1/username", h.GetUserName)
	e.PUT("/v1/username", h.SetUserName)
	e.POST("/v1/prompts/try", h.TryPrompt)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"logged_in": h.sessions.Current().LoggedIn,
	})
}

// principal returns the logged in principal, or writes 401 and reports false.
func (h *Handler) principal(c echo.Context) (principal.Principal, bool, error) {
	sess := h.sessions.Current()
	if !sess.LoggedIn {
		return principal.Principal{}, false, c.JSON(http.StatusUnauthorized, map[string]string{"error": "not logged in"})
	}
	return sess.Principal, true, nil
}

// backendError reports a failed backend call with its text untouched.
func backendError(c echo.Context, err error) error {
	return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
}
