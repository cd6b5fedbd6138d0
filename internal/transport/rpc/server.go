// Package rpc serves a backend.Service over JSON-RPC, on raw TCP connections
// and on websocket connections.
package rpc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/rpc"
	"net/rpc/jsonrpc"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/xiaot623/chatbridge/internal/adapter/backend"
)

// Server exposes the backend procedures to remote clients.
type Server struct {
	mu        sync.Mutex
	listener  net.Listener
	rpcServer *rpc.Server
	upgrader  websocket.Upgrader
	done      chan struct{}
}

// NewServer creates a new RPC server bound to svc.
func NewServer(svc backend.Service) (*Server, error) {
	rpcServer := rpc.NewServer()
	handler := &Handler{service: svc}
	if err := rpcServer.RegisterName(backend.ServiceName, handler); err != nil {
		return nil, fmt.Errorf("register rpc handler: %w", err)
	}

	return &Server{
		rpcServer: rpcServer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		done: make(chan struct{}),
	}, nil
}

// Start begins accepting RPC connections on the given address.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts RPC connections on ln until it is closed.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				close(s.done)
				return nil
			}
			log.Printf("RPC accept error: %v", err)
			continue
		}

		go s.ServeConn(conn)
	}
}

// ServeConn serves a single connection until the peer hangs up.
func (s *Server) ServeConn(conn io.ReadWriteCloser) {
	s.rpcServer.ServeCodec(procedureCodec{ServerCodec: jsonrpc.NewServerCodec(conn)})
}

// HandleWebSocket upgrades the request and serves JSON-RPC over the websocket.
func (s *Server) HandleWebSocket(c echo.Context) error {
	ws, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Printf("Failed to upgrade WebSocket: %v", err)
		return err
	}

	s.ServeConn(backend.NewWebSocketStream(ws))
	return nil
}

// Shutdown stops accepting new RPC connections.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	ln := s.listener
	s.mu.Unlock()
	if ln == nil {
		return nil
	}

	if err := ln.Close(); err != nil {
		return err
	}

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// procedureCodec lets clients call procedures by their backend names
// ("create_new_chat") while net/rpc dispatches on "Backend.CreateNewChat".
type procedureCodec struct {
	rpc.ServerCodec
}

func (c procedureCodec) ReadRequestHeader(r *rpc.Request) error {
	if err := c.ServerCodec.ReadRequestHeader(r); err != nil {
		return err
	}
	if method, ok := backend.MethodFor(r.ServiceMethod); ok {
		r.ServiceMethod = method
	}
	return nil
}
