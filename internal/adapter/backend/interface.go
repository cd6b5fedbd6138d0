// Package backend provides the client side of the chat backend's remote procedures.
package backend

import (
	"context"

	"github.com/xiaot623/chatbridge/internal/domain"
	"github.com/xiaot623/chatbridge/internal/principal"
)

// Service is the set of remote procedures exposed by the chat backend.
type Service interface {
	// Chat sends a single prompt and returns the generated reply.
	Chat(ctx context.Context, message string) (string, error)

	CreateNewChat(ctx context.Context, p principal.Principal, chatID, name string) error
	AddChatMessage(ctx context.Context, p principal.Principal, chatID, question, answer string) error
	GetChatHistory(ctx context.Context, p principal.Principal, chatID string) (*domain.ChatInfo, error)
	DeleteChat(ctx context.Context, p principal.Principal, chatID string) (bool, error)
	RenameChat(ctx context.Context, p principal.Principal, chatID, newName string) (bool, error)
	ListChats(ctx context.Context, p principal.Principal) ([]domain.ChatMeta, error)

	SetUserName(ctx context.Context, p principal.Principal, name string) error
	GetUserName(ctx context.Context, p principal.Principal) (string, error)

	// TryIncrementUserPrompt consumes one prompt from the principal's quota and
	// reports whether the prompt is allowed.
	TryIncrementUserPrompt(ctx context.Context, p principal.Principal) (bool, error)
}

// Ensure Client implements Service interface.
var _ Service = (*Client)(nil)
