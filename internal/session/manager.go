package session

import (
	"context"
	"fmt"
	"log"

	"github.com/xiaot623/chatbridge/internal/principal"
)

// UserNameLookup loads the display name registered for a principal.
type UserNameLookup interface {
	GetUserName(ctx context.Context, p principal.Principal) (string, error)
}

// LoginObserver is told the outcome of every login attempt.
type LoginObserver interface {
	ObserveLogin(outcome string)
}

// Manager performs logins and owns the session store.
type Manager struct {
	store    *Store
	provider Provider
	names    UserNameLookup
	policy   OutcomePolicy
	observer LoginObserver
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithOutcomePolicy sets the policy applied after denied or cancelled logins.
// The default keeps the previous session.
func WithOutcomePolicy(p OutcomePolicy) ManagerOption {
	return func(m *Manager) { m.policy = p }
}

// WithLoginObserver reports login outcomes to o.
func WithLoginObserver(o LoginObserver) ManagerOption {
	return func(m *Manager) { m.observer = o }
}

// NewManager creates a manager with a fresh logged out store.
func NewManager(provider Provider, names UserNameLookup, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:    NewStore(),
		provider: provider,
		names:    names,
		policy:   StaticPolicy(ActionKeep),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Current returns the current session.
func (m *Manager) Current() Session {
	return m.store.Load()
}

// Login authenticates through the provider. On success the username is loaded
// for the new principal and the session is replaced in one step; if the lookup
// fails its error is returned as is and the session is left untouched.
func (m *Manager) Login(ctx context.Context) (Result, error) {
	result, err := m.provider.Authenticate(ctx)
	if err != nil {
		m.observe("error")
		return Result{}, err
	}

	switch result.Outcome {
	case OutcomeSuccess:
		p := result.Identity.Principal
		username, err := m.names.GetUserName(ctx, p)
		if err != nil {
			m.observe("error")
			return Result{}, err
		}

		sess := Session{LoggedIn: true, Principal: p, Username: username}
		m.store.Replace(sess)
		result.Session = &sess
		log.Printf("Logged in as %s (%s)", username, p)

	case OutcomeDenied, OutcomeCancelled:
		current := m.store.Load()
		action, err := m.policy.Decide(ctx, result, current)
		if err != nil {
			m.observe("error")
			return Result{}, fmt.Errorf("failed to apply auth failure policy: %w", err)
		}
		if action == ActionLogout {
			m.store.Replace(LoggedOut())
		}
		log.Printf("Login %s (%s), session action: %s", result.Outcome, result.Reason, action)

	default:
		m.observe("error")
		return Result{}, fmt.Errorf("identity provider returned unknown outcome %q", result.Outcome)
	}

	m.observe(string(result.Outcome))
	return result, nil
}

func (m *Manager) observe(outcome string) {
	if m.observer != nil {
		m.observer.ObserveLogin(outcome)
	}
}
