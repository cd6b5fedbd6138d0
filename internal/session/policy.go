package session

import (
	"context"
	"fmt"

	"github.com/xiaot623/chatbridge/internal/policy"
)

// Action is what happens to the current session after a login that did not
// succeed.
type Action string

const (
	ActionKeep   Action = policy.DecisionKeep
	ActionLogout Action = policy.DecisionLogout
)

// ParseAction parses "keep" or "logout".
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionKeep, ActionLogout:
		return Action(s), nil
	default:
		return "", fmt.Errorf("unknown auth failure action %q", s)
	}
}

// OutcomePolicy decides the fate of the current session after a denied or
// cancelled login.
type OutcomePolicy interface {
	Decide(ctx context.Context, result Result, current Session) (Action, error)
}

// StaticPolicy applies the same action to every unsuccessful outcome.
type StaticPolicy Action

// Decide implements OutcomePolicy.
func (p StaticPolicy) Decide(context.Context, Result, Session) (Action, error) {
	return Action(p), nil
}

// RegoPolicy delegates the decision to an OPA policy.
type RegoPolicy struct {
	Engine *policy.Engine
}

// Decide implements OutcomePolicy.
func (p RegoPolicy) Decide(ctx context.Context, result Result, current Session) (Action, error) {
	decision, err := p.Engine.Evaluate(ctx, policy.Input{
		Outcome:  string(result.Outcome),
		Reason:   result.Reason,
		LoggedIn: current.LoggedIn,
	})
	if err != nil {
		return "", err
	}
	return Action(decision), nil
}
