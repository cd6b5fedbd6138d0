// Package facade is the flat library the UI shell calls to reach the chat
// backend. Each method forwards its arguments to one remote procedure and
// returns the result or error exactly as the backend produced it.
package facade

import (
	"context"

	"github.com/xiaot623/chatbridge/internal/adapter/backend"
	"github.com/xiaot623/chatbridge/internal/domain"
	"github.com/xiaot623/chatbridge/internal/principal"
)

// Facade forwards calls to a backend service.
type Facade struct {
	backend backend.Service
}

// New creates a facade over svc.
func New(svc backend.Service) *Facade {
	return &Facade{backend: svc}
}

// ChatWithBackend asks the backend for a reply to message.
func (f *Facade) ChatWithBackend(ctx context.Context, message string) (string, error) {
	return f.backend.Chat(ctx, message)
}

func (f *Facade) CreateNewChat(ctx context.Context, p principal.Principal, chatID, name string) error {
	return f.backend.CreateNewChat(ctx, p, chatID, name)
}

func (f *Facade) AddChatMessage(ctx context.Context, p principal.Principal, chatID, question, answer string) error {
	return f.backend.AddChatMessage(ctx, p, chatID, question, answer)
}

// GetChatHistory always re-fetches; nothing is cached here.
func (f *Facade) GetChatHistory(ctx context.Context, p principal.Principal, chatID string) (*domain.ChatInfo, error) {
	return f.backend.GetChatHistory(ctx, p, chatID)
}

func (f *Facade) DeleteChat(ctx context.Context, p principal.Principal, chatID string) (bool, error) {
	return f.backend.DeleteChat(ctx, p, chatID)
}

func (f *Facade) RenameChat(ctx context.Context, p principal.Principal, chatID, newName string) (bool, error) {
	return f.backend.RenameChat(ctx, p, chatID, newName)
}

func (f *Facade) ListChats(ctx context.Context, p principal.Principal) ([]domain.ChatMeta, error) {
	return f.backend.ListChats(ctx, p)
}

func (f *Facade) SetUserName(ctx context.Context, p principal.Principal, username string) error {
	return f.backend.SetUserName(ctx, p, username)
}

func (f *Facade) GetUserName(ctx context.Context, p principal.Principal) (string, error) {
	return f.backend.GetUserName(ctx, p)
}

// TryPrompt consumes one prompt of p's quota and reports whether it is allowed.
// Concurrent calls are neither merged nor serialized.
func (f *Facade) TryPrompt(ctx context.Context, p principal.Principal) (bool, error) {
	return f.backend.TryIncrementUserPrompt(ctx, p)
}
