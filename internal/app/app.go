// Package app assembles the adapter from configuration: backend client,
// metrics, facade and session manager.
package app

import (
	"context"
	"fmt"
	"log"

	"github.com/xiaot623/chatbridge/internal/adapter/backend"
	"github.com/xiaot623/chatbridge/internal/config"
	"github.com/xiaot623/chatbridge/internal/facade"
	"github.com/xiaot623/chatbridge/internal/metrics"
	"github.com/xiaot623/chatbridge/internal/policy"
	"github.com/xiaot623/chatbridge/internal/session"
)

// App is the wired adapter.
type App struct {
	Config   *config.Config
	Metrics  *metrics.Metrics
	Facade   *facade.Facade
	Sessions *session.Manager
}

// Options override pieces that are normally built from the configuration.
type Options struct {
	// Backend replaces the JSON-RPC client.
	Backend backend.Service
	// Provider replaces the provider selected by AuthMode.
	Provider session.Provider
	// Open is used by the redirect provider to send the user to the identity provider.
	Open func(authURL string) error
}

// New wires an App.
func New(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	m := metrics.New()

	svc := opts.Backend
	if svc == nil {
		svc = backend.NewClient(cfg.BackendURL,
			backend.WithDialTimeout(cfg.DialTimeout),
			backend.WithCallTimeout(cfg.CallTimeout),
		)
	}
	svc = backend.WithMetrics(svc, m)

	provider := opts.Provider
	if provider == nil {
		var err error
		provider, err = NewProvider(cfg, opts.Open)
		if err != nil {
			return nil, err
		}
	}

	outcomePolicy, err := NewOutcomePolicy(ctx, cfg)
	if err != nil {
		return nil, err
	}

	manager := session.NewManager(provider, svc,
		session.WithOutcomePolicy(outcomePolicy),
		session.WithLoginObserver(m),
	)

	return &App{
		Config:   cfg,
		Metrics:  m,
		Facade:   facade.New(svc),
		Sessions: manager,
	}, nil
}

// Login runs one login bounded by the configured login timeout.
func (a *App) Login(ctx context.Context) (session.Result, error) {
	if a.Config.LoginTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Config.LoginTimeout)
		defer cancel()
	}
	return a.Sessions.Login(ctx)
}

// NewProvider selects the identity provider for cfg.AuthMode.
func NewProvider(cfg *config.Config, open func(string) error) (session.Provider, error) {
	switch cfg.AuthMode {
	case config.AuthModeStub, "":
		return session.NewStubProvider(), nil
	case config.AuthModeRedirect:
		return session.NewRedirectProvider(session.RedirectConfig{
			IdentityProviderURL: cfg.IdentityProviderURL,
			CallbackAddr:        cfg.CallbackAddr,
			Open:                open,
		}), nil
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.AuthMode)
	}
}

// NewOutcomePolicy loads the Rego policy when one is configured and falls back
// to the static keep/logout action otherwise.
func NewOutcomePolicy(ctx context.Context, cfg *config.Config) (session.OutcomePolicy, error) {
	if cfg.AuthPolicyFile != "" {
		engine, err := policy.LoadFile(ctx, cfg.AuthPolicyFile)
		if err != nil {
			return nil, err
		}
		log.Printf("Auth failure policy loaded from %s", cfg.AuthPolicyFile)
		return session.RegoPolicy{Engine: engine}, nil
	}

	action, err := session.ParseAction(cfg.AuthFailurePolicy)
	if err != nil {
		return nil, err
	}
	return session.StaticPolicy(action), nil
}

// Current returns the current session.
func (a *App) Current() session.Session {
	return a.Sessions.Current()
}
