package facade

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaot623/chatbridge/internal/domain"
	"github.com/xiaot623/chatbridge/internal/principal"
	"github.com/xiaot623/chatbridge/internal/testutil"
)

var alice = principal.SelfAuthenticating([]byte("alice"))

func TestFacadePassesResultsThrough(t *testing.T) {
	ctx := context.Background()
	history := &domain.ChatInfo{
		Name:     "Trip",
		Messages: []domain.ChatMessage{{Question: "q1", Answer: "a1"}},
	}
	chats := []domain.ChatMeta{{ID: "c1", Name: "Trip"}}
	fake := &testutil.FakeBackend{
		ChatReply: "hello back",
		History:   history,
		Deleted:   true,
		Renamed:   true,
		Chats:     chats,
		UserName:  "alice",
		Allowed:   true,
	}
	f := New(fake)

	t.Run("ChatWithBackend", func(t *testing.T) {
		reply, err := f.ChatWithBackend(ctx, "hello")
		require.NoError(t, err)
		assert.Equal(t, "hello back", reply)
	})

	t.Run("CreateNewChat", func(t *testing.T) {
		assert.NoError(t, f.CreateNewChat(ctx, alice, "c1", "Trip"))
	})

	t.Run("AddChatMessage", func(t *testing.T) {
		assert.NoError(t, f.AddChatMessage(ctx, alice, "c1", "q", "a"))
	})

	t.Run("GetChatHistory", func(t *testing.T) {
		got, err := f.GetChatHistory(ctx, alice, "c1")
		require.NoError(t, err)
		assert.Same(t, history, got)
	})

	t.Run("DeleteChat", func(t *testing.T) {
		deleted, err := f.DeleteChat(ctx, alice, "c1")
		require.NoError(t, err)
		assert.True(t, deleted)
	})

	t.Run("RenameChat", func(t *testing.T) {
		renamed, err := f.RenameChat(ctx, alice, "c1", "NewName")
		require.NoError(t, err)
		assert.True(t, renamed)
	})

	t.Run("ListChats", func(t *testing.T) {
		got, err := f.ListChats(ctx, alice)
		require.NoError(t, err)
		assert.Equal(t, chats, got)
	})

	t.Run("SetUserName", func(t *testing.T) {
		assert.NoError(t, f.SetUserName(ctx, alice, "alice"))
	})

	t.Run("GetUserName", func(t *testing.T) {
		name, err := f.GetUserName(ctx, alice)
		require.NoError(t, err)
		assert.Equal(t, "alice", name)
	})

	t.Run("TryPrompt", func(t *testing.T) {
		allowed, err := f.TryPrompt(ctx, alice)
		require.NoError(t, err)
		assert.True(t, allowed)
	})
}

func TestFacadeForwardsArgumentsInOrder(t *testing.T) {
	ctx := context.Background()
	fake := &testutil.FakeBackend{}
	f := New(fake)

	_, _ = f.ChatWithBackend(ctx, "hi")
	_ = f.CreateNewChat(ctx, alice, "c1", "Trip")
	_ = f.AddChatMessage(ctx, alice, "c1", "q", "a")
	_, _ = f.GetChatHistory(ctx, alice, "c1")
	_, _ = f.DeleteChat(ctx, alice, "c1")
	_, _ = f.RenameChat(ctx, alice, "c1", "NewName")
	_, _ = f.ListChats(ctx, alice)
	_ = f.SetUserName(ctx, alice, "bob")
	_, _ = f.GetUserName(ctx, alice)
	_, _ = f.TryPrompt(ctx, alice)

	want := []testutil.Call{
		{Procedure: domain.ProcChat, Args: []interface{}{"hi"}},
		{Procedure: domain.ProcCreateNewChat, Args: []interface{}{alice, "c1", "Trip"}},
		{Procedure: domain.ProcAddChatMessage, Args: []interface{}{alice, "c1", "q", "a"}},
		{Procedure: domain.ProcGetChatHistory, Args: []interface{}{alice, "c1"}},
		{Procedure: domain.ProcDeleteChat, Args: []interface{}{alice, "c1"}},
		{Procedure: domain.ProcRenameChat, Args: []interface{}{alice, "c1", "NewName"}},
		{Procedure: domain.ProcListChats, Args: []interface{}{alice}},
		{Procedure: domain.ProcSetUserName, Args: []interface{}{alice, "bob"}},
		{Procedure: domain.ProcGetUserName, Args: []interface{}{alice}},
		{Procedure: domain.ProcTryIncrementUserPrompt, Args: []interface{}{alice}},
	}
	assert.Equal(t, want, fake.Calls())
}

func TestFacadePropagatesErrorsUnchanged(t *testing.T) {
	ctx := context.Background()
	backendErr := errors.New("canister rejected the call")
	f := New(&testutil.FakeBackend{Err: backendErr})

	calls := map[string]func() error{
		"ChatWithBackend": func() error { _, err := f.ChatWithBackend(ctx, "hi"); return err },
		"CreateNewChat":   func() error { return f.CreateNewChat(ctx, alice, "c1", "n") },
		"AddChatMessage":  func() error { return f.AddChatMessage(ctx, alice, "c1", "q", "a") },
		"GetChatHistory":  func() error { _, err := f.GetChatHistory(ctx, alice, "c1"); return err },
		"DeleteChat":      func() error { _, err := f.DeleteChat(ctx, alice, "c1"); return err },
		"RenameChat":      func() error { _, err := f.RenameChat(ctx, alice, "c1", "n"); return err },
		"ListChats":       func() error { _, err := f.ListChats(ctx, alice); return err },
		"SetUserName":     func() error { return f.SetUserName(ctx, alice, "n") },
		"GetUserName":     func() error { _, err := f.GetUserName(ctx, alice); return err },
		"TryPrompt":       func() error { _, err := f.TryPrompt(ctx, alice); return err },
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			assert.Same(t, backendErr, call())
		})
	}
}

func TestConcurrentTryPromptReachesBackendEachTime(t *testing.T) {
	fake := &testutil.FakeBackend{Allowed: true}
	f := New(fake)

	const n = 16
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = f.TryPrompt(context.Background(), alice)
		}()
	}
	wg.Wait()

	assert.Equal(t, n, fake.CountOf(domain.ProcTryIncrementUserPrompt))
}
