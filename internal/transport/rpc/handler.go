package rpc

import (
	"context"
	"errors"

	"github.com/xiaot623/chatbridge/internal/adapter/backend"
	"github.com/xiaot623/chatbridge/internal/domain"
)

// Handler implements backend RPC methods. Every exported method is a remote
// procedure, so helpers must stay unexported.
type Handler struct {
	service backend.Service
}

var errNoArgs = errors.New("arguments are required")

// Chat generates a reply to a prompt.
func (h *Handler) Chat(args *backend.ChatArgs, reply *string) error {
	if args == nil {
		return errNoArgs
	}
	out, err := h.service.Chat(context.Background(), args.Message)
	if err != nil {
		return err
	}
	*reply = out
	return nil
}

// CreateNewChat creates a chat.
func (h *Handler) CreateNewChat(args *backend.CreateNewChatArgs, _ *backend.Empty) error {
	if args == nil {
		return errNoArgs
	}
	return h.service.CreateNewChat(context.Background(), args.Principal, args.ChatID, args.Name)
}

// AddChatMessage appends a question/answer pair.
func (h *Handler) AddChatMessage(args *backend.AddChatMessageArgs, _ *backend.Empty) error {
	if args == nil {
		return errNoArgs
	}
	return h.service.AddChatMessage(context.Background(), args.Principal, args.ChatID, args.Question, args.Answer)
}

// GetChatHistory returns a chat with its messages.
func (h *Handler) GetChatHistory(args *backend.ChatRefArgs, reply *domain.ChatInfo) error {
	if args == nil {
		return errNoArgs
	}
	info, err := h.service.GetChatHistory(context.Background(), args.Principal, args.ChatID)
	if err != nil {
		return err
	}
	if info != nil {
		*reply = *info
	}
	return nil
}

// DeleteChat removes a chat.
func (h *Handler) DeleteChat(args *backend.ChatRefArgs, reply *bool) error {
	if args == nil {
		return errNoArgs
	}
	deleted, err := h.service.DeleteChat(context.Background(), args.Principal, args.ChatID)
	if err != nil {
		return err
	}
	*reply = deleted
	return nil
}

// RenameChat renames a chat.
func (h *Handler) RenameChat(args *backend.RenameChatArgs, reply *bool) error {
	if args == nil {
		return errNoArgs
	}
	renamed, err := h.service.RenameChat(context.Background(), args.Principal, args.ChatID, args.NewName)
	if err != nil {
		return err
	}
	*reply = renamed
	return nil
}

// ListChats lists a principal's chats.
func (h *Handler) ListChats(args *backend.PrincipalArgs, reply *[]domain.ChatMeta) error {
	if args == nil {
		return errNoArgs
	}
	chats, err := h.service.ListChats(context.Background(), args.Principal)
	if err != nil {
		return err
	}
	*reply = chats
	return nil
}

// SetUserName stores a display name.
func (h *Handler) SetUserName(args *backend.SetUserNameArgs, _ *backend.Empty) error {
	if args == nil {
		return errNoArgs
	}
	return h.service.SetUserName(context.Background(), args.Principal, args.Name)
}

// GetUserName loads a display name.
func (h *Handler) GetUserName(args *backend.PrincipalArgs, reply *string) error {
	if args == nil {
		return errNoArgs
	}
	name, err := h.service.GetUserName(context.Background(), args.Principal)
	if err != nil {
		return err
	}
	*reply = name
	return nil
}

// TryIncrementUserPrompt consumes one prompt of the quota.
func (h *Handler) TryIncrementUserPrompt(args *backend.PrincipalArgs, reply *bool) error {
	if args == nil {
		return errNoArgs
	}
	allowed, err := h.service.TryIncrementUserPrompt(context.Background(), args.Principal)
	if err != nil {
		return err
	}
	*reply = allowed
	return nil
}
