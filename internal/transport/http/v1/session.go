package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/chatbridge/internal/session"
)

// LoginResponse is the response of POST /v1/login.
type LoginResponse struct {
	Outcome session.Outcome `json:"outcome"`
	Reason  string          `json:"reason,omitempty"`
	Session session.Session `json:"session"`
}

// Login runs the configured login flow.
// POST /v1/login
func (h *Handler) Login(c echo.Context) error {
	ctx := c.Request().Context()

	result, err := h.sessions.Login(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return c.JSON(http.StatusGatewayTimeout, map[string]string{"error": "login timed out"})
		}
		return backendError(c, err)
	}

	return c.JSON(http.StatusOK, LoginResponse{
		Outcome: result.Outcome,
		Reason:  result.Reason,
		Session: h.sessions.Current(),
	})
}

// GetSession returns the current session.
// GET /v1/session
func (h *Handler) GetSession(c echo.Context) error {
	return c.JSON(http.StatusOK, h.sessions.Current())
}
