// Package service is an in-memory chat backend. It stands in for the real
// backend during development and in end-to-end tests of the adapter.
package service

import (
	"errors"
	"sync"
	"time"

	"github.com/xiaot623/chatbridge/internal/adapter/backend"
	"github.com/xiaot623/chatbridge/internal/adapter/llm"
	"github.com/xiaot623/chatbridge/internal/domain"
	"github.com/xiaot623/chatbridge/internal/principal"
)

// ErrChatNotFound is returned when a principal has no chat with the given id.
var ErrChatNotFound = errors.New("chat not found")

const (
	DefaultModel         = "gpt-4o-mini"
	DefaultPromptLimit   = 50
	DefaultBlockDuration = 12 * time.Hour
)

// Options tune a Service.
type Options struct {
	Model         string
	PromptLimit   int
	BlockDuration time.Duration
	// Now is the clock used for prompt quotas.
	Now func() time.Time
}

type promptQuota struct {
	count        int
	blockedSince *time.Time
}

// Service keeps every user's chats, names and prompt quota in memory.
type Service struct {
	llmClient llm.LLMClient
	opts      Options

	mu      sync.Mutex
	chats   map[principal.Principal]map[string]*domain.ChatInfo
	names   map[principal.Principal]string
	prompts map[principal.Principal]*promptQuota
}

// Ensure Service implements backend.Service interface.
var _ backend.Service = (*Service)(nil)

// New creates an empty service.
func New(llmClient llm.LLMClient, opts Options) *Service {
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.PromptLimit <= 0 {
		opts.PromptLimit = DefaultPromptLimit
	}
	if opts.BlockDuration <= 0 {
		opts.BlockDuration = DefaultBlockDuration
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		llmClient: llmClient,
		opts:      opts,
		chats:     make(map[principal.Principal]map[string]*domain.ChatInfo),
		names:     make(map[principal.Principal]string),
		prompts:   make(map[principal.Principal]*promptQuota),
	}
}
