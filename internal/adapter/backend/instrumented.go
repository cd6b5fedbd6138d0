package backend

import (
	"context"
	"time"

	"github.com/xiaot623/chatbridge/internal/domain"
	"github.com/xiaot623/chatbridge/internal/principal"
)

// Observer receives one observation per backend call.
type Observer interface {
	ObserveCall(procedure domain.Procedure, started time.Time, err error)
}

// WithMetrics wraps svc so every call is reported to obs. Arguments, results and
// errors pass through unchanged.
func WithMetrics(svc Service, obs Observer) Service {
	if obs == nil {
		return svc
	}
	return &instrumented{next: svc, obs: obs}
}

type instrumented struct {
	next Service
	obs  Observer
}

func (i *instrumented) Chat(ctx context.Context, message string) (string, error) {
	start := time.Now()
	reply, err := i.next.Chat(ctx, message)
	i.obs.ObserveCall(domain.ProcChat, start, err)
	return reply, err
}

func (i *instrumented) CreateNewChat(ctx context.Context, p principal.Principal, chatID, name string) error {
	start := time.Now()
	err := i.next.CreateNewChat(ctx, p, chatID, name)
	i.obs.ObserveCall(domain.ProcCreateNewChat, start, err)
	return err
}

func (i *instrumented) AddChatMessage(ctx context.Context, p principal.Principal, chatID, question, answer string) error {
	start := time.Now()
	err := i.next.AddChatMessage(ctx, p, chatID, question, answer)
	i.obs.ObserveCall(domain.ProcAddChatMessage, start, err)
	return err
}

func (i *instrumented) GetChatHistory(ctx context.Context, p principal.Principal, chatID string) (*domain.ChatInfo, error) {
	start := time.Now()
	info, err := i.next.GetChatHistory(ctx, p, chatID)
	i.obs.ObserveCall(domain.ProcGetChatHistory, start, err)
	return info, err
}

func (i *instrumented) DeleteChat(ctx context.Context, p principal.Principal, chatID string) (bool, error) {
	start := time.Now()
	deleted, err := i.next.DeleteChat(ctx, p, chatID)
	i.obs.ObserveCall(domain.ProcDeleteChat, start, err)
	return deleted, err
}

func (i *instrumented) RenameChat(ctx context.Context, p principal.Principal, chatID, newName string) (bool, error) {
	start := time.Now()
	renamed, err := i.next.RenameChat(ctx, p, chatID, newName)
	i.obs.ObserveCall(domain.ProcRenameChat, start, err)
	return renamed, err
}

func (i *instrumented) ListChats(ctx context.Context, p principal.Principal) ([]domain.ChatMeta, error) {
	start := time.Now()
	chats, err := i.next.ListChats(ctx, p)
	i.obs.ObserveCall(domain.ProcListChats, start, err)
	return chats, err
}

func (i *instrumented) SetUserName(ctx context.Context, p principal.Principal, name string) error {
	start := time.Now()
	err := i.next.SetUserName(ctx, p, name)
	i.obs.ObserveCall(domain.ProcSetUserName, start, err)
	return err
}

func (i *instrumented) GetUserName(ctx context.Context, p principal.Principal) (string, error) {
	start := time.Now()
	name, err := i.next.GetUserName(ctx, p)
	i.obs.ObserveCall(domain.ProcGetUserName, start, err)
	return name, err
}

func (i *instrumented) TryIncrementUserPrompt(ctx context.Context, p principal.Principal) (bool, error) {
	start := time.Now()
	allowed, err := i.next.TryIncrementUserPrompt(ctx, p)
	i.obs.ObserveCall(domain.ProcTryIncrementUserPrompt, start, err)
	return allowed, err
}
