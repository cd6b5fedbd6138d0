package session

import (
	"context"
	"crypto/x509"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/xiaot623/chatbridge/internal/principal"
)

// DefaultIdentityProviderURL is where users are sent to authenticate.
const DefaultIdentityProviderURL = "https://identity.ic0.app/#authorize"

// RedirectConfig configures a RedirectProvider.
type RedirectConfig struct {
	// IdentityProviderURL receives redirect_uri and state as query parameters.
	IdentityProviderURL string
	// CallbackAddr is the loopback address the callback listener binds.
	CallbackAddr string
	// Open sends the user to the authorization URL. The default logs it.
	Open func(authURL string) error
}

// RedirectProvider runs an interactive redirect handshake: the user is sent to
// the identity provider, which redirects back to a local callback carrying
// either the delegated public key or an error.
type RedirectProvider struct {
	cfg RedirectConfig
}

// NewRedirectProvider creates a redirect provider, filling unset fields with defaults.
func NewRedirectProvider(cfg RedirectConfig) *RedirectProvider {
	if cfg.IdentityProviderURL == "" {
		cfg.IdentityProviderURL = DefaultIdentityProviderURL
	}
	if cfg.CallbackAddr == "" {
		cfg.CallbackAddr = "127.0.0.1:0"
	}
	if cfg.Open == nil {
		cfg.Open = func(authURL string) error {
			log.Printf("Open this URL to log in: %s", authURL)
			return nil
		}
	}
	return &RedirectProvider{cfg: cfg}
}

type callbackResult struct {
	result Result
	err    error
}

// Authenticate implements Provider. It returns when the callback arrives or
// ctx is done.
func (p *RedirectProvider) Authenticate(ctx context.Context) (Result, error) {
	ln, err := net.Listen("tcp", p.cfg.CallbackAddr)
	if err != nil {
		return Result{}, fmt.Errorf("failed to listen for login callback: %w", err)
	}

	state := uuid.NewString()
	redirectURI := fmt.Sprintf("http://%s/callback", ln.Addr().String())
	authURL, err := buildAuthURL(p.cfg.IdentityProviderURL, redirectURI, state)
	if err != nil {
		ln.Close()
		return Result{}, err
	}

	results := make(chan callbackResult, 1)
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Listener = ln
	e.GET("/callback", callbackHandler(state, results))

	go func() {
		if err := e.Start(""); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("WARN: login callback server stopped: %v", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = e.Shutdown(shutdownCtx)
	}()

	if err := p.cfg.Open(authURL); err != nil {
		return Result{}, fmt.Errorf("failed to open identity provider: %w", err)
	}

	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case r := <-results:
		return r.result, r.err
	}
}

func callbackHandler(state string, results chan<- callbackResult) echo.HandlerFunc {
	deliver := func(r callbackResult) {
		select {
		case results <- r:
		default:
		}
	}

	return func(c echo.Context) error {
		if c.QueryParam("state") != state {
			return c.String(http.StatusBadRequest, "state mismatch")
		}

		if reason := c.QueryParam("error"); reason != "" {
			outcome := outcomeForError(reason)
			deliver(callbackResult{result: Result{Outcome: outcome, Reason: reason}})
			return c.String(http.StatusOK, "Login "+string(outcome)+". You can close this window.")
		}

		encoded := c.QueryParam("public_key")
		if encoded == "" {
			deliver(callbackResult{err: errors.New("login callback carried neither public_key nor error")})
			return c.String(http.StatusBadRequest, "missing public_key")
		}

		der, err := decodeKey(encoded)
		if err != nil {
			deliver(callbackResult{err: fmt.Errorf("invalid public_key in login callback: %w", err)})
			return c.String(http.StatusBadRequest, "invalid public_key")
		}

		deliver(callbackResult{result: Result{
			Outcome: OutcomeSuccess,
			Identity: Identity{
				Principal: principal.SelfAuthenticating(der),
				PublicKey: der,
			},
		}})
		return c.String(http.StatusOK, "Login complete. You can close this window.")
	}
}

func outcomeForError(reason string) Outcome {
	switch strings.ToLower(reason) {
	case "cancelled", "canceled", "user_cancelled", "user_canceled":
		return OutcomeCancelled
	default:
		return OutcomeDenied
	}
}

func decodeKey(encoded string) ([]byte, error) {
	der, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(encoded, "="))
	if err != nil {
		return nil, err
	}
	if _, err := x509.ParsePKIXPublicKey(der); err != nil {
		return nil, err
	}
	return der, nil
}

func buildAuthURL(providerURL, redirectURI, state string) (string, error) {
	u, err := url.Parse(providerURL)
	if err != nil {
		return "", fmt.Errorf("invalid identity provider URL: %w", err)
	}
	q := u.Query()
	q.Set("redirect_uri", redirectURI)
	q.Set("state", state)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
