// Package reopcrypto is a narrow, in-place-operating façade over the
// Ed25519 / Curve25519-Salsa20-Poly1305 / XSalsa20-Poly1305 primitives
// reop commits to. No algorithm choice is exposed: every function hard-codes
// exactly one construction.
//
// golang.org/x/crypto/nacl/box and nacl/secretbox both return a single
// combined tag||ciphertext slice. reop's wire formats need the tag and
// ciphertext as separate fixed-size fields of equal-length-to-plaintext
// ciphertext, so every Encrypt here splits that combined output and every
// Decrypt rejoins it before calling into the NaCl primitive.
package reopcrypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"io"
	"runtime"

	"golang.org/x/crypto/nacl/box"
	"golang.org/x/crypto/nacl/secretbox"

	"github.com/reop/reop/internal/reoperr"
)

const (
	// SymKeySize is the XSalsa20-Poly1305 symmetric key size.
	SymKeySize = 32
	// BoxKeySize is the Curve25519 public/private key size.
	BoxKeySize = 32
	// SignPublicKeySize is the Ed25519 public key size.
	SignPublicKeySize = ed25519.PublicKeySize
	// SignPrivateKeySize is the Ed25519 private key size.
	SignPrivateKeySize = ed25519.PrivateKeySize
	// SignatureSize is the Ed25519 signature size.
	SignatureSize = ed25519.SignatureSize
	// NonceSize is the XSalsa20 nonce size used by both box and secretbox.
	NonceSize = 24
	// TagSize is the detached Poly1305 authenticator size.
	TagSize = 16
)

// Init is an idempotent one-time initialization hook. Neither crypto/ed25519
// nor golang.org/x/crypto/nacl require global setup, so this is a no-op kept
// only so callers have a single, explicit place to call once, matching the
// shape of the underlying C library's init requirement.
func Init() {}

// RandomBytes fills out with cryptographically random bytes.
func RandomBytes(out []byte) error {
	if _, err := io.ReadFull(rand.Reader, out); err != nil {
		return reoperr.Wrap(reoperr.KindIO, "reading random bytes", err)
	}
	return nil
}

// Zeroize overwrites buf with zeros. It is best-effort constant-time
// wiping: the runtime.KeepAlive call prevents the compiler from proving
// the store dead and eliding it, which is the main practical risk in Go
// since there is no vet-blessed secure-wipe primitive in the standard
// library or anywhere in reop's dependency set.
func Zeroize(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
	runtime.KeepAlive(buf)
}

// SymEncrypt encrypts plaintext in place using XSalsa20-Poly1305 with a
// fresh random nonce. It returns the generated nonce and the 16-byte
// detached tag; buf is overwritten with the ciphertext of equal length.
func SymEncrypt(buf []byte, key *[SymKeySize]byte) (nonce [NonceSize]byte, tag [TagSize]byte, err error) {
	if err = RandomBytes(nonce[:]); err != nil {
		return nonce, tag, err
	}
	combined := secretbox.Seal(nil, buf, &nonce, key)
	copy(tag[:], combined[:TagSize])
	copy(buf, combined[TagSize:])
	return nonce, tag, nil
}

// SymDecrypt decrypts buf in place using XSalsa20-Poly1305. On authentication
// failure buf is left untouched and a KindAuthFail error is returned.
func SymDecrypt(buf []byte, nonce [NonceSize]byte, tag [TagSize]byte, key *[SymKeySize]byte) error {
	combined := make([]byte, TagSize+len(buf))
	copy(combined[:TagSize], tag[:])
	copy(combined[TagSize:], buf)
	plain, ok := secretbox.Open(nil, combined, &nonce, key)
	if !ok {
		return reoperr.New(reoperr.KindAuthFail, "symmetric box authentication failed")
	}
	copy(buf, plain)
	return nil
}

// PubEncrypt encrypts buf in place using Curve25519-XSalsa20-Poly1305
// (crypto_box) from senderSec to recipientPub, with a fresh random nonce.
func PubEncrypt(buf []byte, recipientPub, senderSec *[BoxKeySize]byte) (nonce [NonceSize]byte, tag [TagSize]byte, err error) {
	if err = RandomBytes(nonce[:]); err != nil {
		return nonce, tag, err
	}
	combined := box.Seal(nil, buf, &nonce, recipientPub, senderSec)
	copy(tag[:], combined[:TagSize])
	copy(buf, combined[TagSize:])
	return nonce, tag, nil
}

// PubDecrypt decrypts buf in place using crypto_box from senderPub to
// recipientSec. On authentication failure buf is left untouched and a
// KindAuthFail error is returned.
func PubDecrypt(buf []byte, nonce [NonceSize]byte, tag [TagSize]byte, senderPub, recipientSec *[BoxKeySize]byte) error {
	combined := make([]byte, TagSize+len(buf))
	copy(combined[:TagSize], tag[:])
	copy(combined[TagSize:], buf)
	plain, ok := box.Open(nil, combined, &nonce, senderPub, recipientSec)
	if !ok {
		return reoperr.New(reoperr.KindAuthFail, "public-key box authentication failed")
	}
	copy(buf, plain)
	return nil
}

// SignDetached produces a 64-byte Ed25519 signature over msg.
func SignDetached(secret ed25519.PrivateKey, msg []byte) [SignatureSize]byte {
	var sig [SignatureSize]byte
	copy(sig[:], ed25519.Sign(secret, msg))
	return sig
}

// VerifyDetached reports whether sig is a valid Ed25519 signature over msg
// under public.
func VerifyDetached(public ed25519.PublicKey, msg []byte, sig [SignatureSize]byte) bool {
	return ed25519.Verify(public, msg, sig[:])
}

// GenerateBoxKeyPair generates a fresh Curve25519 keypair for crypto_box use.
func GenerateBoxKeyPair() (pub, sec [BoxKeySize]byte, err error) {
	p, s, err := box.GenerateKey(rand.Reader)
	if err != nil {
		return pub, sec, reoperr.Wrap(reoperr.KindIO, "generating curve25519 keypair", err)
	}
	pub, sec = *p, *s
	return pub, sec, nil
}

// GenerateSignKeyPair generates a fresh Ed25519 signing keypair.
func GenerateSignKeyPair() (pub ed25519.PublicKey, sec ed25519.PrivateKey, err error) {
	pub, sec, err = ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, reoperr.Wrap(reoperr.KindIO, "generating ed25519 keypair", err)
	}
	return pub, sec, nil
}
