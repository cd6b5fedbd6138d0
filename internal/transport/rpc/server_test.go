package rpc

import (
	"context"
	"net"
	"net/http/httptest"
	netrpc "net/rpc"
	"net/rpc/jsonrpc"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaot623/chatbridge/internal/adapter/backend"
	"github.com/xiaot623/chatbridge/internal/adapter/llm"
	"github.com/xiaot623/chatbridge/internal/domain"
	"github.com/xiaot623/chatbridge/internal/facade"
	"github.com/xiaot623/chatbridge/internal/principal"
	"github.com/xiaot623/chatbridge/internal/service"
)

var alice = principal.SelfAuthenticating([]byte("alice"))

// startTCP serves a fresh in-memory backend and returns its address.
func startTCP(t *testing.T) string {
	t.Helper()
	srv, err := NewServer(service.New(llm.NewMockClient(), service.Options{PromptLimit: 1000}))
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go srv.Serve(ln)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return ln.Addr().String()
}

// startWebSocket serves a fresh in-memory backend on /rpc and returns its ws:// URL.
func startWebSocket(t *testing.T) string {
	t.Helper()
	srv, err := NewServer(service.New(llm.NewMockClient(), service.Options{}))
	require.NoError(t, err)

	e := echo.New()
	e.GET("/rpc", srv.HandleWebSocket)
	ts := httptest.NewServer(e)
	t.Cleanup(ts.Close)

	return "ws" + strings.TrimPrefix(ts.URL, "http") + "/rpc"
}

func exerciseFacade(t *testing.T, f *facade.Facade) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	reply, err := f.ChatWithBackend(ctx, "hello")
	require.NoError(t, err)
	assert.Contains(t, reply, "[MOCK]")

	require.NoError(t, f.CreateNewChat(ctx, alice, "c1", "Trip"))
	require.NoError(t, f.AddChatMessage(ctx, alice, "c1", "q1", "a1"))
	require.NoError(t, f.AddChatMessage(ctx, alice, "c1", "q2", "a2"))

	info, err := f.GetChatHistory(ctx, alice, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Trip", info.Name)
	assert.Equal(t, []domain.ChatMessage{{Question: "q1", Answer: "a1"}, {Question: "q2", Answer: "a2"}}, info.Messages)

	renamed, err := f.RenameChat(ctx, alice, "c1", "NewName")
	require.NoError(t, err)
	assert.True(t, renamed)

	chats, err := f.ListChats(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, []domain.ChatMeta{{ID: "c1", Name: "NewName"}}, chats)

	name, err := f.GetUserName(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "user", name)
	require.NoError(t, f.SetUserName(ctx, alice, "Alice"))
	name, err = f.GetUserName(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "Alice", name)

	allowed, err := f.TryPrompt(ctx, alice)
	require.NoError(t, err)
	assert.True(t, allowed)

	deleted, err := f.DeleteChat(ctx, alice, "c1")
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = f.GetChatHistory(ctx, alice, "c1")
	require.Error(t, err)
	var serverErr netrpc.ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, service.ErrChatNotFound.Error(), string(serverErr))
}

func TestFacadeOverTCP(t *testing.T) {
	addr := startTCP(t)
	exerciseFacade(t, facade.New(backend.NewClient("tcp://"+addr)))
}

func TestFacadeOverWebSocket(t *testing.T) {
	url := startWebSocket(t)
	exerciseFacade(t, facade.New(backend.NewClient(url)))
}

func TestConcurrentTryPromptOverTCP(t *testing.T) {
	addr := startTCP(t)
	client := backend.NewClient(addr)

	const n = 10
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := client.TryIncrementUserPrompt(context.Background(), alice)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	allowed, err := facade.New(client).TryPrompt(context.Background(), alice)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestWireUsesProcedureNames(t *testing.T) {
	addr := startTCP(t)
	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	client := jsonrpc.NewClient(conn)
	defer client.Close()

	var name string
	require.NoError(t, client.Call("get_user_name", &backend.PrincipalArgs{Principal: alice}, &name))
	assert.Equal(t, "user", name)

	// Go method names work too; unknown names do not.
	require.NoError(t, client.Call("Backend.GetUserName", &backend.PrincipalArgs{Principal: alice}, &name))
	assert.Error(t, client.Call("drop_tables", &backend.PrincipalArgs{Principal: alice}, &name))
}

func TestClientReportsDialFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	_, err = backend.NewClient(addr, backend.WithDialTimeout(time.Second)).GetUserName(context.Background(), alice)
	assert.Error(t, err)
}

func TestClientHonoursContext(t *testing.T) {
	// A listener that accepts but never answers.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	go func() {
		var held []net.Conn
		defer func() {
			for _, conn := range held {
				conn.Close()
			}
		}()
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			held = append(held, conn)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = backend.NewClient(ln.Addr().String()).ListChats(ctx, alice)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
