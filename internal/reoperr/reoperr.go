// Package reoperr defines the typed error kinds surfaced by the reop core.
//
// Every core package returns errors wrapped with one of these kinds so
// callers (the CLI, tests) can distinguish classes of failure without
// parsing error strings.
package reoperr

import (
	"errors"
	"fmt"
)

// Kind classifies a core error. The zero value is never returned.
type Kind int

const (
	// KindIO covers file read/write failures and disallowed path shapes
	// (directories, symlinks, missing files).
	KindIO Kind = iota + 1

	// KindTooLarge means an input exceeded the 1 GiB read cap.
	KindTooLarge

	// KindFormat covers malformed armor framing, base64 errors, bad binary
	// magic/length prefixes, and struct-size mismatches for a tag.
	KindFormat

	// KindAlgorithmUnsupported means a 2-byte algorithm tag did not match
	// any of the fixed constants.
	KindAlgorithmUnsupported

	// KindMismatch means randomids present in an envelope or signature do
	// not bind to the keys supplied, prior to any cryptographic check.
	KindMismatch

	// KindAuthFail means a Poly1305 tag or Ed25519 signature failed to
	// verify: wrong key, wrong passphrase, or tampered bytes.
	KindAuthFail

	// KindNoKey means a requested key could not be located.
	KindNoKey

	// KindPassphrase means the passphrase collaborator returned nothing,
	// returned empty when one was required, or confirmations disagreed.
	KindPassphrase
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindTooLarge:
		return "too_large"
	case KindFormat:
		return "format"
	case KindAlgorithmUnsupported:
		return "algorithm_unsupported"
	case KindMismatch:
		return "mismatch"
	case KindAuthFail:
		return "auth_fail"
	case KindNoKey:
		return "no_key"
	case KindPassphrase:
		return "passphrase"
	default:
		return "unknown"
	}
}

// Error is a typed error carrying a Kind alongside the usual message chain.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an *Error with no wrapped cause.
func New(k Kind, msg string) error {
	return &Error{Kind: k, Msg: msg}
}

// Wrap builds an *Error that wraps err.
func Wrap(k Kind, msg string, err error) error {
	return &Error{Kind: k, Msg: msg, Err: err}
}

// Is reports whether err (or any error it wraps) carries the given Kind.
func Is(err error, k Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == k
	}
	return false
}
