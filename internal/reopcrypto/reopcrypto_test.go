package reopcrypto_test

import (
	"bytes"
	"testing"

	"github.com/reop/reop/internal/reopcrypto"
)

func TestSymEncryptDecryptRoundTrip(t *testing.T) {
	var key [reopcrypto.SymKeySize]byte
	if err := reopcrypto.RandomBytes(key[:]); err != nil {
		t.Fatal(err)
	}

	plain := []byte("password-protected")
	buf := append([]byte(nil), plain...)

	nonce, tag, err := reopcrypto.SymEncrypt(buf, &key)
	if err != nil {
		t.Fatalf("SymEncrypt error = %v", err)
	}
	if bytes.Equal(buf, plain) {
		t.Fatal("buffer was not encrypted in place")
	}
	if len(buf) != len(plain) {
		t.Fatalf("ciphertext length = %d, want %d", len(buf), len(plain))
	}

	if err := reopcrypto.SymDecrypt(buf, nonce, tag, &key); err != nil {
		t.Fatalf("SymDecrypt error = %v", err)
	}
	if !bytes.Equal(buf, plain) {
		t.Errorf("decrypted = %q, want %q", buf, plain)
	}
}

func TestSymDecryptWrongKeyFails(t *testing.T) {
	var key, wrongKey [reopcrypto.SymKeySize]byte
	reopcrypto.RandomBytes(key[:])
	reopcrypto.RandomBytes(wrongKey[:])

	buf := []byte("secret")
	nonce, tag, err := reopcrypto.SymEncrypt(buf, &key)
	if err != nil {
		t.Fatal(err)
	}
	if err := reopcrypto.SymDecrypt(buf, nonce, tag, &wrongKey); err == nil {
		t.Error("expected auth failure with wrong key")
	}
}

func TestSymDecryptTamperedTag(t *testing.T) {
	var key [reopcrypto.SymKeySize]byte
	reopcrypto.RandomBytes(key[:])

	buf := []byte("secret")
	nonce, tag, err := reopcrypto.SymEncrypt(buf, &key)
	if err != nil {
		t.Fatal(err)
	}
	tag[0] ^= 0xFF
	if err := reopcrypto.SymDecrypt(buf, nonce, tag, &key); err == nil {
		t.Error("expected auth failure with tampered tag")
	}
}

func TestPubEncryptDecryptRoundTrip(t *testing.T) {
	senderPub, senderSec, err := reopcrypto.GenerateBoxKeyPair()
	if err != nil {
		t.Fatal(err)
	}
	recipientPub, recipientSec, err := reopcrypto.GenerateBoxKeyPair()
	if err != nil {
		t.Fatal(err)
	}

	plain := []byte("secret")
	buf := append([]byte(nil), plain...)

	nonce, tag, err := reopcrypto.PubEncrypt(buf, &recipientPub, &senderSec)
	if err != nil {
		t.Fatalf("PubEncrypt error = %v", err)
	}

	if err := reopcrypto.PubDecrypt(buf, nonce, tag, &senderPub, &recipientSec); err != nil {
		t.Fatalf("PubDecrypt error = %v", err)
	}
	if !bytes.Equal(buf, plain) {
		t.Errorf("decrypted = %q, want %q", buf, plain)
	}
}

func TestPubDecryptWrongSenderFails(t *testing.T) {
	_, senderSec, err := reopcrypto.GenerateBoxKeyPair()
	if err != nil {
		t.Fatal(err)
	}
	recipientPub, recipientSec, err := reopcrypto.GenerateBoxKeyPair()
	if err != nil {
		t.Fatal(err)
	}
	otherPub, _, err := reopcrypto.GenerateBoxKeyPair()
	if err != nil {
		t.Fatal(err)
	}

	buf := []byte("secret")
	nonce, tag, err := reopcrypto.PubEncrypt(buf, &recipientPub, &senderSec)
	if err != nil {
		t.Fatal(err)
	}
	if err := reopcrypto.PubDecrypt(buf, nonce, tag, &otherPub, &recipientSec); err == nil {
		t.Error("expected auth failure with wrong sender public key")
	}
}

func TestSignVerifyRoundTrip(t *testing.T) {
	pub, sec, err := reopcrypto.GenerateSignKeyPair()
	if err != nil {
		t.Fatal(err)
	}
	msg := []byte("hello\n")
	sig := reopcrypto.SignDetached(sec, msg)
	if !reopcrypto.VerifyDetached(pub, msg, sig) {
		t.Error("Verify returned false for a valid signature")
	}
	if reopcrypto.VerifyDetached(pub, []byte("hellp\n"), sig) {
		t.Error("Verify returned true for a tampered message")
	}
}

func TestZeroize(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5}
	reopcrypto.Zeroize(buf)
	for i, b := range buf {
		if b != 0 {
			t.Errorf("buf[%d] = %d, want 0", i, b)
		}
	}
}
