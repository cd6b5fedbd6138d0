package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// SetUserNameRequest is the request of PUT /v1/username.
type SetUserNameRequest struct {
	Username string `json:"username"`
}

// GetUserName returns the display name of the logged in user.
// GET /v1/username
func (h *Handler) GetUserName(c echo.Context) error {
	ctx := c.Request().Context()
	p, ok, err := h.principal(c)
	if !ok {
		return err
	}

	name, err := h.facade.GetUserName(ctx, p)
	if err != nil {
		return backendError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"username": name})
}

// SetUserName stores the display name of the logged in user. The session keeps
// the name it was loaded with until the next login.
// PUT /v1/username
func (h *Handler) SetUserName(c echo.Context) error {
	ctx := c.Request().Context()
	p, ok, err := h.principal(c)
	if !ok {
		return err
	}

	var req SetUserNameRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	if err := h.facade.SetUserName(ctx, p, req.Username); err != nil {
		return backendError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

// TryPrompt consumes one prompt of the user's quota.
// POST /v1/prompts/try
func (h *Handler) TryPrompt(c echo.Context) error {
	ctx := c.Request().Context()
	p, ok, err := h.principal(c)
	if !ok {
		return err
	}

	allowed, err := h.facade.TryPrompt(ctx, p)
	if err != nil {
		return backendError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]bool{"allowed": allowed})
}
