// Package principal provides the opaque identity value the chat backend keys
// every user record on.
package principal

import (
	"errors"
	"fmt"

	icp "github.com/aviate-labs/agent-go/principal"
)

// MaxLength is the maximum number of raw bytes in a principal.
const MaxLength = 29

// ErrInvalidText is returned when a textual principal cannot be decoded.
var ErrInvalidText = errors.New("invalid principal text")

// Principal is an immutable identity value. The zero value is the management
// canister principal, textually "aaaaa-aa".
type Principal struct {
	raw string
}

var (
	// ManagementCanister is the empty principal, textually "aaaaa-aa".
	ManagementCanister = Principal{}
	// Anonymous is the principal of unauthenticated callers, textually "2vxsx-fae".
	Anonymous = Principal{raw: string(icp.AnonymousID.Raw)}
)

// FromBytes wraps raw principal bytes.
func FromBytes(b []byte) (Principal, error) {
	if len(b) > MaxLength {
		return Principal{}, fmt.Errorf("principal too long: %d bytes", len(b))
	}
	return Principal{raw: string(b)}, nil
}

// FromText parses the canonical textual form of a principal. Upper case and
// regrouped spellings of a valid principal are rejected.
func FromText(text string) (Principal, error) {
	decoded, err := icp.Decode(text)
	if err != nil {
		return Principal{}, fmt.Errorf("%w %q: %v", ErrInvalidText, text, err)
	}
	p, err := FromBytes(decoded.Raw)
	if err != nil {
		return Principal{}, fmt.Errorf("%w %q: %v", ErrInvalidText, text, err)
	}
	if p.String() != text {
		return Principal{}, fmt.Errorf("%w %q: not canonical, expected %q", ErrInvalidText, text, p.String())
	}
	return p, nil
}

// MustFromText is FromText for package-level literals. It panics on bad input.
func MustFromText(text string) Principal {
	p, err := FromText(text)
	if err != nil {
		panic(err)
	}
	return p
}

// SelfAuthenticating derives the principal owned by a DER encoded public key.
func SelfAuthenticating(derPublicKey []byte) Principal {
	return Principal{raw: string(icp.NewSelfAuthenticating(derPublicKey).Raw)}
}

// Bytes returns a copy of the raw principal bytes.
func (p Principal) Bytes() []byte {
	return []byte(p.raw)
}

// IsAnonymous reports whether p is the anonymous principal.
func (p Principal) IsAnonymous() bool {
	return p == Anonymous
}

// String returns the canonical textual form.
func (p Principal) String() string {
	return icp.Principal{Raw: []byte(p.raw)}.Encode()
}

// MarshalText implements encoding.TextMarshaler.
func (p Principal) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Principal) UnmarshalText(text []byte) error {
	parsed, err := FromText(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
