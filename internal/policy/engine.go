// Package policy evaluates Rego policies that decide what happens to the
// current session when a login does not succeed.
package policy

import (
	"context"
	"fmt"
	"os"

	"github.com/open-policy-agent/opa/rego"
)

const (
	// DecisionKeep leaves the previous session in place.
	DecisionKeep = "keep"
	// DecisionLogout resets the session to logged out.
	DecisionLogout = "logout"
)

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// Input is the document a policy sees as `input`.
type Input struct {
	Outcome  string `json:"outcome"`
	Reason   string `json:"reason"`
	LoggedIn bool   `json:"logged_in"`
}

// NewEngine prepares policyContent. The module must define
// data.auth_policy.decision.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.auth_policy.decision"),
		rego.Module("auth_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// LoadFile prepares the policy stored at path.
func LoadFile(ctx context.Context, path string) (*Engine, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy %s: %w", path, err)
	}
	return NewEngine(ctx, string(content))
}

// Evaluate returns "keep" or "logout". A policy that produces nothing keeps
// the session.
func (e *Engine) Evaluate(ctx context.Context, input Input) (string, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return DecisionKeep, nil
	}

	decision, ok := results[0].Expressions[0].Value.(string)
	if !ok {
		return "", fmt.Errorf("policy decision must be a string, got %T", results[0].Expressions[0].Value)
	}
	switch decision {
	case DecisionKeep, DecisionLogout:
		return decision, nil
	default:
		return "", fmt.Errorf("unknown policy decision %q", decision)
	}
}

// DefaultPolicy logs the user out on an explicit denial and keeps the previous
// session when the user merely cancelled.
const DefaultPolicy = `
package auth_policy

default decision = "keep"

decision = "logout" {
	input.outcome == "denied"
}
`
