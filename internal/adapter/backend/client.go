package backend

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/xiaot623/chatbridge/internal/domain"
	"github.com/xiaot623/chatbridge/internal/principal"
)

// Client calls the chat backend over JSON-RPC. Every call opens its own
// connection, so concurrent calls never share or wait on each other.
type Client struct {
	addr        string
	wsURL       string
	dialTimeout time.Duration
	callTimeout time.Duration
	wsDialer    *websocket.Dialer
}

// Option configures a Client.
type Option func(*Client)

// WithDialTimeout bounds connection setup.
func WithDialTimeout(d time.Duration) Option {
	return func(c *Client) { c.dialTimeout = d }
}

// WithCallTimeout bounds every call. Zero leaves calls bounded only by the
// caller's context.
func WithCallTimeout(d time.Duration) Option {
	return func(c *Client) { c.callTimeout = d }
}

// NewClient creates a backend client. backendURL is either host:port,
// tcp://host:port, or a ws:// / wss:// websocket endpoint.
func NewClient(backendURL string, opts ...Option) *Client {
	c := &Client{
		dialTimeout: 5 * time.Second,
		wsDialer:    websocket.DefaultDialer,
	}
	raw := strings.TrimSpace(backendURL)
	if strings.HasPrefix(raw, "ws://") || strings.HasPrefix(raw, "wss://") {
		c.wsURL = raw
	} else {
		c.addr = resolveRPCAddr(raw)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Chat calls chat.
func (c *Client) Chat(ctx context.Context, message string) (string, error) {
	var reply string
	err := c.call(ctx, domain.ProcChat, &ChatArgs{Message: message}, &reply)
	return reply, err
}

// CreateNewChat calls create_new_chat.
func (c *Client) CreateNewChat(ctx context.Context, p principal.Principal, chatID, name string) error {
	args := &CreateNewChatArgs{Principal: p, ChatID: chatID, Name: name}
	return c.call(ctx, domain.ProcCreateNewChat, args, &Empty{})
}

// AddChatMessage calls add_chat_message.
func (c *Client) AddChatMessage(ctx context.Context, p principal.Principal, chatID, question, answer string) error {
	args := &AddChatMessageArgs{Principal: p, ChatID: chatID, Question: question, Answer: answer}
	return c.call(ctx, domain.ProcAddChatMessage, args, &Empty{})
}

// GetChatHistory calls get_chat_history.
func (c *Client) GetChatHistory(ctx context.Context, p principal.Principal, chatID string) (*domain.ChatInfo, error) {
	var info domain.ChatInfo
	if err := c.call(ctx, domain.ProcGetChatHistory, &ChatRefArgs{Principal: p, ChatID: chatID}, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// DeleteChat calls delete_chat.
func (c *Client) DeleteChat(ctx context.Context, p principal.Principal, chatID string) (bool, error) {
	var deleted bool
	err := c.call(ctx, domain.ProcDeleteChat, &ChatRefArgs{Principal: p, ChatID: chatID}, &deleted)
	return deleted, err
}

// RenameChat calls rename_chat.
func (c *Client) RenameChat(ctx context.Context, p principal.Principal, chatID, newName string) (bool, error) {
	var renamed bool
	args := &RenameChatArgs{Principal: p, ChatID: chatID, NewName: newName}
	err := c.call(ctx, domain.ProcRenameChat, args, &renamed)
	return renamed, err
}

// ListChats calls list_chats.
func (c *Client) ListChats(ctx context.Context, p principal.Principal) ([]domain.ChatMeta, error) {
	var chats []domain.ChatMeta
	if err := c.call(ctx, domain.ProcListChats, &PrincipalArgs{Principal: p}, &chats); err != nil {
		return nil, err
	}
	return chats, nil
}

// SetUserName calls set_user_name.
func (c *Client) SetUserName(ctx context.Context, p principal.Principal, name string) error {
	return c.call(ctx, domain.ProcSetUserName, &SetUserNameArgs{Principal: p, Name: name}, &Empty{})
}

// GetUserName calls get_user_name.
func (c *Client) GetUserName(ctx context.Context, p principal.Principal) (string, error) {
	var name string
	err := c.call(ctx, domain.ProcGetUserName, &PrincipalArgs{Principal: p}, &name)
	return name, err
}

// TryIncrementUserPrompt calls try_increment_user_prompt.
func (c *Client) TryIncrementUserPrompt(ctx context.Context, p principal.Principal) (bool, error) {
	var allowed bool
	err := c.call(ctx, domain.ProcTryIncrementUserPrompt, &PrincipalArgs{Principal: p}, &allowed)
	return allowed, err
}

// call runs one request/response exchange. Errors reported by the backend come
// back as rpc.ServerError, untouched.
func (c *Client) call(ctx context.Context, procedure domain.Procedure, args, reply interface{}) error {
	if c.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.callTimeout)
		defer cancel()
	}

	conn, err := c.dial(ctx)
	if err != nil {
		return fmt.Errorf("dial backend for %s: %w", procedure, err)
	}
	client := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	defer client.Close()

	call := client.Go(string(procedure), args, reply, nil)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-call.Done:
		// A deadline on the connection surfaces as an i/o error; report the context instead.
		if call.Error != nil && ctx.Err() != nil {
			return ctx.Err()
		}
		return call.Error
	}
}

func (c *Client) dial(ctx context.Context) (io.ReadWriteCloser, error) {
	if c.wsURL != "" {
		dialCtx, cancel := context.WithTimeout(ctx, c.dialTimeout)
		defer cancel()
		ws, _, err := c.wsDialer.DialContext(dialCtx, c.wsURL, nil)
		if err != nil {
			return nil, err
		}
		if deadline, ok := ctx.Deadline(); ok {
			_ = ws.SetReadDeadline(deadline)
			_ = ws.SetWriteDeadline(deadline)
		}
		return NewWebSocketStream(ws), nil
	}

	if c.addr == "" {
		return nil, fmt.Errorf("backend address is not configured")
	}
	dialer := net.Dialer{Timeout: c.dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return nil, err
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	return conn, nil
}

func resolveRPCAddr(raw string) string {
	if raw == "" {
		return ""
	}
	if strings.Contains(raw, "://") {
		parsed, err := url.Parse(raw)
		if err == nil && parsed.Host != "" {
			return parsed.Host
		}
	}
	return raw
}
