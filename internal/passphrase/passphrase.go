// Package passphrase implements the passphrase collaborator boundary:
// the core's KDF layer never reads a TTY or environment variable itself,
// it only calls an injected Func. This package provides the TTY-backed
// implementation the CLI wires in, plus a fixture implementation tests
// use in place of a terminal.
package passphrase

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/reop/reop/internal/reoperr"
)

// Func is the passphrase collaborator contract. Given confirm, it returns
// a passphrase, whether one was actually supplied, and any I/O error. When
// confirm is true, implementations should prompt twice and only report
// supplied=true if both entries match.
type Func func(confirm bool) (pass string, supplied bool, err error)

// Acquire resolves a passphrase via fn. If fn reports that nothing was
// supplied (e.g. non-interactive stdin with no override), an empty
// passphrase is accepted only when allowEmpty is true — the caller must
// have explicitly opted into a no-password key. Otherwise acquisition
// fails with reoperr.KindPassphrase.
func Acquire(fn Func, confirm bool, allowEmpty bool) (string, error) {
	pass, supplied, err := fn(confirm)
	if err != nil {
		return "", reoperr.Wrap(reoperr.KindPassphrase, "reading passphrase", err)
	}
	if !supplied {
		if allowEmpty {
			return "", nil
		}
		return "", reoperr.New(reoperr.KindPassphrase, "no passphrase supplied")
	}
	return pass, nil
}

// TTY returns a Func that checks envVar first (for non-interactive use,
// e.g. scripted tests) and otherwise prompts on the controlling terminal.
// If stdin is not a terminal and envVar is unset, it reports nothing
// supplied rather than blocking.
func TTY(envVar string) Func {
	return func(confirm bool) (string, bool, error) {
		if envVar != "" {
			if v, ok := os.LookupEnv(envVar); ok {
				return v, true, nil
			}
		}

		fd := int(os.Stdin.Fd())
		if !term.IsTerminal(fd) {
			return "", false, nil
		}

		first, err := readOnce(fd, "passphrase: ")
		if err != nil {
			return "", false, err
		}
		if confirm {
			second, err := readOnce(fd, "confirm passphrase: ")
			if err != nil {
				return "", false, err
			}
			if first != second {
				return "", false, reoperr.New(reoperr.KindPassphrase, "passphrases did not match")
			}
		}
		return first, true, nil
	}
}

func readOnce(fd int, prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Static returns a Func for tests and scripted callers that always yields
// pass with supplied fixed to true — the common case for fixtures.
func Static(pass string) Func {
	return func(confirm bool) (string, bool, error) {
		return pass, true, nil
	}
}

// None returns a Func that always reports nothing supplied, modeling a
// non-interactive caller with no passphrase source configured.
func None() Func {
	return func(confirm bool) (string, bool, error) {
		return "", false, nil
	}
}
