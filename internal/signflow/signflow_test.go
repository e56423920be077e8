package signflow

import (
	"bytes"
	"testing"

	"github.com/reop/reop/internal/passphrase"
	"github.com/reop/reop/internal/reopfmt"
)

func TestGenerateUnwrapRoundTrip(t *testing.T) {
	pub, sec, err := Generate("alice", passphrase.Static("pw"))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if pub.RandomID != sec.RandomID {
		t.Fatal("public and secret randomid disagree")
	}
	if sec.KdfRounds == 0 {
		t.Fatal("non-empty passphrase should not select the zero-round sentinel")
	}

	sigSec, encSec, err := Unwrap(sec, passphrase.Static("pw"))
	if err != nil {
		t.Fatalf("Unwrap: %v", err)
	}
	if len(sigSec) == 0 || *encSec == ([32]byte{}) {
		t.Fatal("unwrapped material looks empty")
	}
}

func TestGenerateEmptyPassphraseIsZeroRoundSentinel(t *testing.T) {
	_, sec, err := Generate("bob", passphrase.Static(""))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if sec.KdfRounds != 0 {
		t.Fatalf("KdfRounds = %d, want 0 for empty passphrase", sec.KdfRounds)
	}
	if _, _, err := Unwrap(sec, passphrase.Static("")); err != nil {
		t.Fatalf("Unwrap with empty passphrase: %v", err)
	}
}

func TestUnwrapWrongPassphraseFails(t *testing.T) {
	_, sec, err := Generate("carol", passphrase.Static("correct"))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, _, err := Unwrap(sec, passphrase.Static("wrong")); err == nil {
		t.Fatal("expected auth failure with wrong passphrase")
	}
}

func TestSignVerifyRoundTrip(t *testing.T) {
	pub, sec, err := Generate("dave", passphrase.Static(""))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	sigSec, _, err := Unwrap(sec, passphrase.Static(""))
	if err != nil {
		t.Fatalf("Unwrap: %v", err)
	}

	msg := []byte("hello\n")
	sig := SignDetached(sec, sigSec, msg)
	if err := VerifyDetached(pub, msg, sig); err != nil {
		t.Fatalf("VerifyDetached: %v", err)
	}

	if err := VerifyDetached(pub, []byte("hellp\n"), sig); err == nil {
		t.Fatal("expected auth failure on tampered message")
	}
}

func TestVerifyDetachedWrongKeyMismatch(t *testing.T) {
	_, sec1, err := Generate("erin", passphrase.Static(""))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	pub2, _, err := Generate("frank", passphrase.Static(""))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	sigSec1, _, err := Unwrap(sec1, passphrase.Static(""))
	if err != nil {
		t.Fatalf("Unwrap: %v", err)
	}

	msg := []byte("shared message")
	sig := SignDetached(sec1, sigSec1, msg)
	if err := VerifyDetached(pub2, msg, sig); err == nil {
		t.Fatal("expected mismatch verifying against unrelated public key")
	}
}

func TestSignEmbeddedVerifyEmbeddedRoundTrip(t *testing.T) {
	pub, sec, err := Generate("holly", passphrase.Static(""))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	sigSec, _, err := Unwrap(sec, passphrase.Static(""))
	if err != nil {
		t.Fatalf("Unwrap: %v", err)
	}

	msg := []byte("abc\n-----BEGIN REOP SIGNATURE-----\nfake\n")
	data, err := SignEmbedded(sec, sigSec, msg)
	if err != nil {
		t.Fatalf("SignEmbedded: %v", err)
	}

	gotMsg, err := VerifyEmbedded(data, pub, nil)
	if err != nil {
		t.Fatalf("VerifyEmbedded: %v", err)
	}
	if !bytes.Equal(gotMsg, msg) {
		t.Fatalf("recovered message mismatch: got %q, want %q", gotMsg, msg)
	}
}

// TestSignEmbeddedVerifyEmbeddedNoTrailingNewline covers a message that
// does not already end in '\n' (e.g. a file with no trailing newline, or
// arbitrary binary data): EncodeSignedMessage pads such a message with a
// separating '\n' before the signature block, so the signature must be
// computed over the padded bytes or verification of the recovered,
// padded message span would always fail with auth_fail.
func TestSignEmbeddedVerifyEmbeddedNoTrailingNewline(t *testing.T) {
	pub, sec, err := Generate("jasper", passphrase.Static(""))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	sigSec, _, err := Unwrap(sec, passphrase.Static(""))
	if err != nil {
		t.Fatalf("Unwrap: %v", err)
	}

	msg := []byte("no trailing newline here")
	data, err := SignEmbedded(sec, sigSec, msg)
	if err != nil {
		t.Fatalf("SignEmbedded: %v", err)
	}

	gotMsg, err := VerifyEmbedded(data, pub, nil)
	if err != nil {
		t.Fatalf("VerifyEmbedded: %v", err)
	}
	want := append(append([]byte{}, msg...), '\n')
	if !bytes.Equal(gotMsg, want) {
		t.Fatalf("recovered message mismatch: got %q, want %q", gotMsg, want)
	}
}

func TestVerifyEmbeddedLooksUpByIdent(t *testing.T) {
	pub, sec, err := Generate("iris", passphrase.Static(""))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	sigSec, _, err := Unwrap(sec, passphrase.Static(""))
	if err != nil {
		t.Fatalf("Unwrap: %v", err)
	}
	data, err := SignEmbedded(sec, sigSec, []byte("message body\n"))
	if err != nil {
		t.Fatalf("SignEmbedded: %v", err)
	}

	lookupCalled := false
	_, err = VerifyEmbedded(data, nil, func(ident string) (*reopfmt.PublicKey, error) {
		lookupCalled = true
		if ident != "iris" {
			t.Fatalf("lookup ident = %q, want iris", ident)
		}
		return pub, nil
	})
	if err != nil {
		t.Fatalf("VerifyEmbedded: %v", err)
	}
	if !lookupCalled {
		t.Fatal("lookup was never called")
	}
}

func TestSignatureRoundTripThroughMarshal(t *testing.T) {
	_, sec, err := Generate("gina", passphrase.Static(""))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	sigSec, _, err := Unwrap(sec, passphrase.Static(""))
	if err != nil {
		t.Fatalf("Unwrap: %v", err)
	}
	sig := SignDetached(sec, sigSec, []byte("m"))

	buf := sig.Marshal()
	if !bytes.Equal(buf[:2], []byte("Ed")) {
		t.Fatal("marshaled signature does not start with Ed tag")
	}
}
