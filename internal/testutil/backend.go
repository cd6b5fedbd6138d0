// Package testutil provides test doubles shared across packages.
package testutil

import (
	"context"
	"sync"

	"github.com/xiaot623/chatbridge/internal/adapter/backend"
	"github.com/xiaot623/chatbridge/internal/domain"
	"github.com/xiaot623/chatbridge/internal/principal"
)

// Call is one recorded backend invocation.
type Call struct {
	Procedure domain.Procedure
	Args      []interface{}
}

// FakeBackend records every call and answers with canned values. A non-nil Err
// makes every procedure fail with exactly that error.
type FakeBackend struct {
	mu    sync.Mutex
	calls []Call

	Err error

	ChatReply   string
	History     *domain.ChatInfo
	Deleted     bool
	Renamed     bool
	Chats       []domain.ChatMeta
	UserName    string
	UserNameErr error
	Allowed     bool
}

var _ backend.Service = (*FakeBackend)(nil)

// Calls returns a copy of the recorded calls.
func (f *FakeBackend) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CountOf returns how many times procedure was called.
func (f *FakeBackend) CountOf(procedure domain.Procedure) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Procedure == procedure {
			n++
		}
	}
	return n
}

func (f *FakeBackend) record(procedure domain.Procedure, args ...interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Procedure: procedure, Args: args})
	return f.Err
}

func (f *FakeBackend) Chat(_ context.Context, message string) (string, error) {
	if err := f.record(domain.ProcChat, message); err != nil {
		return "", err
	}
	return f.ChatReply, nil
}

func (f *FakeBackend) CreateNewChat(_ context.Context, p principal.Principal, chatID, name string) error {
	return f.record(domain.ProcCreateNewChat, p, chatID, name)
}

func (f *FakeBackend) AddChatMessage(_ context.Context, p principal.Principal, chatID, question, answer string) error {
	return f.record(domain.ProcAddChatMessage, p, chatID, question, answer)
}

func (f *FakeBackend) GetChatHistory(_ context.Context, p principal.Principal, chatID string) (*domain.ChatInfo, error) {
	if err := f.record(domain.ProcGetChatHistory, p, chatID); err != nil {
		return nil, err
	}
	return f.History, nil
}

func (f *FakeBackend) DeleteChat(_ context.Context, p principal.Principal, chatID string) (bool, error) {
	if err := f.record(domain.ProcDeleteChat, p, chatID); err != nil {
		return false, err
	}
	return f.Deleted, nil
}

func (f *FakeBackend) RenameChat(_ context.Context, p principal.Principal, chatID, newName string) (bool, error) {
	if err := f.record(domain.ProcRenameChat, p, chatID, newName); err != nil {
		return false, err
	}
	return f.Renamed, nil
}

func (f *FakeBackend) ListChats(_ context.Context, p principal.Principal) ([]domain.ChatMeta, error) {
	if err := f.record(domain.ProcListChats, p); err != nil {
		return nil, err
	}
	return f.Chats, nil
}

func (f *FakeBackend) SetUserName(_ context.Context, p principal.Principal, name string) error {
	return f.record(domain.ProcSetUserName, p, name)
}

func (f *FakeBackend) GetUserName(_ context.Context, p principal.Principal) (string, error) {
	if err := f.record(domain.ProcGetUserName, p); err != nil {
		return "", err
	}
	if f.UserNameErr != nil {
		return "", f.UserNameErr
	}
	return f.UserName, nil
}

func (f *FakeBackend) TryIncrementUserPrompt(_ context.Context, p principal.Principal) (bool, error) {
	if err := f.record(domain.ProcTryIncrementUserPrompt, p); err != nil {
		return false, err
	}
	return f.Allowed, nil
}
