package service

import (
	"context"

	"github.com/xiaot623/chatbridge/internal/domain"
	"github.com/xiaot623/chatbridge/internal/principal"
)

// SetUserName stores the display name of p.
func (s *Service) SetUserName(_ context.Context, p principal.Principal, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.names[p] = name
	return nil
}

// GetUserName returns the display name of p, or "user" when none is set.
func (s *Service) GetUserName(_ context.Context, p principal.Principal) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if name, ok := s.names[p]; ok {
		return name, nil
	}
	return domain.DefaultUserName, nil
}

// TryIncrementUserPrompt counts one prompt against p's quota. The prompt that
// reaches the limit is still allowed but blocks p; once the block duration has
// passed the counter restarts at one.
func (s *Service) TryIncrementUserPrompt(_ context.Context, p principal.Principal) (bool, error) {
	now := s.opts.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	quota, ok := s.prompts[p]
	if !ok {
		quota = &promptQuota{}
		s.prompts[p] = quota
	}

	if quota.blockedSince != nil {
		if now.Sub(*quota.blockedSince) < s.opts.BlockDuration {
			return false, nil
		}
		quota.count = 1
		quota.blockedSince = nil
		return true, nil
	}

	quota.count++
	if quota.count >= s.opts.PromptLimit {
		quota.blockedSince = &now
	}
	return true, nil
}
