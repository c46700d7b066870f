// Package protocolerr defines the connection-pipeline's closed error
// taxonomy. Every failure that reaches the scheduler is one of these five
// kinds, carried as a typed error rather than a panic, so the caller can
// decide silent-drop vs. a user-visible Disconnect without string
// matching.
package protocolerr

import "fmt"

// Kind classifies why a connection is being torn down.
type Kind int

const (
	// Io covers socket read/write failures.
	Io Kind = iota
	// Malformed covers varint overflow, negative lengths, unknown enum
	// discriminants, and short reads within a frame.
	Malformed
	// CryptoMismatch covers a verify-token or shared-secret that doesn't
	// match what the handshake expects.
	CryptoMismatch
	// AuthFailed covers a session validator rejection.
	AuthFailed
	// Full covers a login attempt when the server is already at max players.
	Full
)

func (k Kind) String() string {
	switch k {
	case Io:
		return "Io"
	case Malformed:
		return "Malformed"
	case CryptoMismatch:
		return "CryptoMismatch"
	case AuthFailed:
		return "AuthFailed"
	case Full:
		return "Full"
	default:
		return "Unknown"
	}
}

// Error wraps an underlying cause with its Kind classification.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds an Error of the given kind wrapping err.
func New(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// Newf builds an Error of the given kind from a format string.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// Disconnectable reports whether the kind should produce a user-visible
// Disconnect packet (AuthFailed, Full) as opposed to a silent drop
// (Io, Malformed, CryptoMismatch).
func (k Kind) Disconnectable() bool {
	return k == AuthFailed || k == Full
}
