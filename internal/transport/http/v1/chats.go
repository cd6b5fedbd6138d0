package v1

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/xiaot623/chatbridge/internal/domain"
)

// ChatRequest is the request of POST /v1/chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// CreateChatRequest is the request of POST /v1/chats.
type CreateChatRequest struct {
	ChatID string `json:"chat_id,omitempty"`
	Name   string `json:"name"`
}

// AddMessageRequest is the request of POST /v1/chats/:chat_id/messages.
type AddMessageRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// RenameChatRequest is the request of PUT /v1/chats/:chat_id.
type RenameChatRequest struct {
	Name string `json:"name"`
}

// Chat sends a message to the backend and returns its reply.
// POST /v1/chat
func (h *Handler) Chat(c echo.Context) error {
	ctx := c.Request().Context()
	if _, ok, err := h.principal(c); !ok {
		return err
	}

	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	reply, err := h.facade.ChatWithBackend(ctx, req.Message)
	if err != nil {
		return backendError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"reply": reply})
}

// ListChats lists the chats of the logged in user.
// GET /v1/chats
func (h *Handler) ListChats(c echo.Context) error {
	ctx := c.Request().Context()
	p, ok, err := h.principal(c)
	if !ok {
		return err
	}

	chats, err := h.facade.ListChats(ctx, p)
	if err != nil {
		return backendError(c, err)
	}
	if chats == nil {
		chats = []domain.ChatMeta{}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"chats": chats,
	})
}

// CreateChat creates a chat, generating its id when none is given.
// POST /v1/chats
func (h *Handler) CreateChat(c echo.Context) error {
	ctx := c.Request().Context()
	p, ok, err := h.principal(c)
	if !ok {
		return err
	}

	var req CreateChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.ChatID == "" {
		req.ChatID = uuid.NewString()
	}

	if err := h.facade.CreateNewChat(ctx, p, req.ChatID, req.Name); err != nil {
		return backendError(c, err)
	}

	return c.JSON(http.StatusCreated, domain.ChatMeta{ID: req.ChatID, Name: req.Name})
}

// GetChatHistory returns a chat with its messages.
// GET /v1/chats/:chat_id/history
func (h *Handler) GetChatHistory(c echo.Context) error {
	ctx := c.Request().Context()
	p, ok, err := h.principal(c)
	if !ok {
		return err
	}

	info, err := h.facade.GetChatHistory(ctx, p, c.Param("chat_id"))
	if err != nil {
		return backendError(c, err)
	}

	return c.JSON(http.StatusOK, info)
}

// AddChatMessage appends a question/answer pair to a chat.
// POST /v1/chats/:chat_id/messages
func (h *Handler) AddChatMessage(c echo.Context) error {
	ctx := c.Request().Context()
	p, ok, err := h.principal(c)
	if !ok {
		return err
	}

	var req AddMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	if err := h.facade.AddChatMessage(ctx, p, c.Param("chat_id"), req.Question, req.Answer); err != nil {
		return backendError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

// RenameChat renames a chat.
// PUT /v1/chats/:chat_id
func (h *Handler) RenameChat(c echo.Context) error {
	ctx := c.Request().Context()
	p, ok, err := h.principal(c)
	if !ok {
		return err
	}

	var req RenameChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	renamed, err := h.facade.RenameChat(ctx, p, c.Param("chat_id"), req.Name)
	if err != nil {
		return backendError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]bool{"renamed": renamed})
}

// DeleteChat deletes a chat.
// DELETE /v1/chats/:chat_id
func (h *Handler) DeleteChat(c echo.Context) error {
	ctx := c.Request().Context()
	p, ok, err := h.principal(c)
	if !ok {
		return err
	}

	deleted, err := h.facade.DeleteChat(ctx, p, c.Param("chat_id"))
	if err != nil {
		return backendError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]bool{"deleted": deleted})
}
