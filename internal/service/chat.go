package service

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/xiaot623/chatbridge/internal/adapter/llm"
	"github.com/xiaot623/chatbridge/internal/domain"
	"github.com/xiaot623/chatbridge/internal/principal"
)

// Chat asks the LLM for a single completion of message.
func (s *Service) Chat(ctx context.Context, message string) (string, error) {
	resp, err := s.llmClient.CreateChatCompletion(ctx, &llm.ChatCompletionRequest{
		Model:    s.opts.Model,
		Messages: []llm.ChatMessage{{Role: "user", Content: message}},
	})
	if err != nil {
		log.Printf("WARN: chat completion failed: %v", err)
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message == nil {
		return "No choices in response", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// CreateNewChat creates the chat unless it already exists.
func (s *Service) CreateNewChat(_ context.Context, p principal.Principal, chatID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	chats, ok := s.chats[p]
	if !ok {
		chats = make(map[string]*domain.ChatInfo)
		s.chats[p] = chats
	}
	if _, exists := chats[chatID]; !exists {
		chats[chatID] = &domain.ChatInfo{Name: name, Messages: []domain.ChatMessage{}}
	}
	return nil
}

// AddChatMessage appends a question/answer pair. Messages for unknown chats
// are dropped.
func (s *Service) AddChatMessage(_ context.Context, p principal.Principal, chatID, question, answer string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if chat, ok := s.chats[p][chatID]; ok {
		chat.Messages = append(chat.Messages, domain.ChatMessage{Question: question, Answer: answer})
	}
	return nil
}

// GetChatHistory returns a copy of the chat.
func (s *Service) GetChatHistory(_ context.Context, p principal.Principal, chatID string) (*domain.ChatInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chat, ok := s.chats[p][chatID]
	if !ok {
		return nil, ErrChatNotFound
	}
	return &domain.ChatInfo{
		Name:     chat.Name,
		Messages: append([]domain.ChatMessage{}, chat.Messages...),
	}, nil
}

// DeleteChat reports whether the chat existed.
func (s *Service) DeleteChat(_ context.Context, p principal.Principal, chatID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chats, ok := s.chats[p]
	if !ok {
		return false, nil
	}
	if _, exists := chats[chatID]; !exists {
		return false, nil
	}
	delete(chats, chatID)
	return true, nil
}

// RenameChat reports whether the chat existed.
func (s *Service) RenameChat(_ context.Context, p principal.Principal, chatID, newName string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chat, ok := s.chats[p][chatID]
	if !ok {
		return false, nil
	}
	chat.Name = newName
	return true, nil
}

// ListChats returns the principal's chats ordered by id.
func (s *Service) ListChats(_ context.Context, p principal.Principal) ([]domain.ChatMeta, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	metas := make([]domain.ChatMeta, 0, len(s.chats[p]))
	for id, chat := range s.chats[p] {
		metas = append(metas, domain.ChatMeta{ID: id, Name: chat.Name})
	}
	sort.Slice(metas, func(i, j int) bool { return metas[i].ID < metas[j].ID })
	return metas, nil
}
