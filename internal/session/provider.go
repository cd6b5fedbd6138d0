package session

import (
	"context"

	"github.com/xiaot623/chatbridge/internal/principal"
)

// Outcome tags how an authentication attempt ended.
type Outcome string

const (
	OutcomeSuccess   Outcome = "success"
	OutcomeDenied    Outcome = "denied"
	OutcomeCancelled Outcome = "cancelled"
)

// Identity is what a provider hands back on success.
type Identity struct {
	Principal principal.Principal
	// PublicKey is the DER encoded key the principal was derived from, if any.
	PublicKey []byte
}

// Result is the tagged outcome of a login. Session is set only on success.
type Result struct {
	Outcome  Outcome
	Identity Identity
	Reason   string
	Session  *Session
}

// Provider authenticates the local user. A denial or cancellation is reported
// through Result.Outcome; the error return is reserved for failures of the
// flow itself (network, bad callback, context done).
type Provider interface {
	Authenticate(ctx context.Context) (Result, error)
}

// StubProvider succeeds immediately with a fixed principal.
type StubProvider struct {
	Principal principal.Principal
}

// NewStubProvider returns a provider that always yields the placeholder
// principal "aaaaa-aa".
func NewStubProvider() *StubProvider {
	return &StubProvider{Principal: principal.ManagementCanister}
}

// Authenticate implements Provider.
func (p *StubProvider) Authenticate(ctx context.Context) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	return Result{
		Outcome:  OutcomeSuccess,
		Identity: Identity{Principal: p.Principal},
	}, nil
}
