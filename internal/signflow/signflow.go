// Package signflow implements keypair generation and detached/embedded
// Ed25519 signing and verification over the reopfmt data model.
package signflow

import (
	"crypto/ed25519"

	"github.com/reop/reop/internal/kdf"
	"github.com/reop/reop/internal/passphrase"
	"github.com/reop/reop/internal/reopcrypto"
	"github.com/reop/reop/internal/reoperr"
	"github.com/reop/reop/internal/reopfmt"
)

// KeyLookup resolves a public key by the ident embedded in a signature,
// backing the key-ring collaborator consulted when verification is not
// given an explicit public key path.
type KeyLookup func(ident string) (*reopfmt.PublicKey, error)

func tagOf(s string) [2]byte {
	var b [2]byte
	copy(b[:], s)
	return b
}

// Generate produces a fresh keypair: independent Ed25519 and Curve25519
// keys sharing one randomid, with the secret half wrapped under a
// passphrase acquired from passFn. An empty passphrase selects the
// zero-round no-password sentinel.
func Generate(ident string, passFn passphrase.Func) (*reopfmt.PublicKey, *reopfmt.SecretKey, error) {
	sigPub, sigSec, err := reopcrypto.GenerateSignKeyPair()
	if err != nil {
		return nil, nil, err
	}
	defer reopcrypto.Zeroize(sigSec)
	encPub, encSec, err := reopcrypto.GenerateBoxKeyPair()
	if err != nil {
		return nil, nil, err
	}
	defer reopcrypto.Zeroize(encSec[:])

	var randomID [8]byte
	if err := reopcrypto.RandomBytes(randomID[:]); err != nil {
		return nil, nil, err
	}

	pass, err := passphrase.Acquire(passFn, true, true)
	if err != nil {
		return nil, nil, err
	}
	rounds := uint32(kdf.DefaultRounds)
	var salt [kdf.SaltSize]byte
	if pass == "" {
		rounds = kdf.ZeroRounds
	} else if err := reopcrypto.RandomBytes(salt[:]); err != nil {
		return nil, nil, err
	}

	material := make([]byte, 0, kdf.WrappedMaterialSize)
	material = append(material, sigSec...)
	material = append(material, encSec[:]...)
	defer reopcrypto.Zeroize(material)

	nonce, tag, err := kdf.WrapMaterial(material, pass, salt, rounds)
	if err != nil {
		return nil, nil, err
	}

	sec := &reopfmt.SecretKey{
		SigAlg:    tagOf(reopfmt.TagEd),
		EncAlg:    tagOf(reopfmt.TagCS),
		SymAlg:    tagOf(reopfmt.TagSP),
		KdfAlg:    tagOf(reopfmt.TagBK),
		RandomID:  randomID,
		KdfRounds: rounds,
		Salt:      salt,
		Nonce:     nonce,
		Tag:       tag,
		Ident:     ident,
	}
	sec.SetMaterial(material)

	pub := &reopfmt.PublicKey{
		SigAlg:   tagOf(reopfmt.TagEd),
		EncAlg:   tagOf(reopfmt.TagCS),
		RandomID: randomID,
		SigKey:   [32]byte(sigPub),
		EncKey:   encPub,
		Ident:    ident,
	}
	return pub, sec, nil
}

// Unwrap decrypts a copy of sec's sigkey||enckey material under the
// passphrase acquired from passFn, returning the plaintext Ed25519 and
// Curve25519 secret keys. sec itself is not modified.
func Unwrap(sec *reopfmt.SecretKey, passFn passphrase.Func) (ed25519.PrivateKey, *[32]byte, error) {
	pass, err := passphrase.Acquire(passFn, false, true)
	if err != nil {
		return nil, nil, err
	}
	material := sec.Material()
	defer reopcrypto.Zeroize(material)
	if err := kdf.UnwrapMaterial(material, pass, sec.Salt, sec.KdfRounds, sec.Nonce, sec.Tag); err != nil {
		return nil, nil, err
	}
	sigSec := make(ed25519.PrivateKey, ed25519.PrivateKeySize)
	copy(sigSec, material[:64])
	var encSec [32]byte
	copy(encSec[:], material[64:96])
	return sigSec, &encSec, nil
}

// SignDetached signs msg with sec (already unwrapped), producing a
// Signature struct ready to be serialized.
func SignDetached(sec *reopfmt.SecretKey, sigSec ed25519.PrivateKey, msg []byte) *reopfmt.Signature {
	sig := reopcrypto.SignDetached(sigSec, msg)
	return &reopfmt.Signature{
		SigAlg:   tagOf(reopfmt.TagEd),
		RandomID: sec.RandomID,
		Sig:      sig,
		Ident:    sec.Ident,
	}
}

// VerifyDetached checks sig against msg under pub. It rejects with
// KindMismatch before any cryptography runs if the randomids disagree.
func VerifyDetached(pub *reopfmt.PublicKey, msg []byte, sig *reopfmt.Signature) error {
	if pub.RandomID != sig.RandomID {
		return reoperr.New(reoperr.KindMismatch, "signature randomid does not match public key")
	}
	pk := ed25519.PublicKey(pub.SigKey[:])
	if !reopcrypto.VerifyDetached(pk, msg, sig.Sig) {
		return reoperr.New(reoperr.KindAuthFail, "signature verification failed")
	}
	return nil
}

// SignEmbedded produces a self-contained signed-message file: msg with
// a trailing signature block appended in the armored "SIGNED MESSAGE"
// form described by the envelope codec. msg is signed after padding it
// with PadSignedMessage, since that padded form — not the caller's
// original bytes — is what SplitSignedMessage recovers as the message
// span on verify; signing anything else would make a non-newline-
// terminated message fail verification.
func SignEmbedded(sec *reopfmt.SecretKey, sigSec ed25519.PrivateKey, msg []byte) ([]byte, error) {
	padded := reopfmt.PadSignedMessage(msg)
	sig := SignDetached(sec, sigSec, padded)
	return reopfmt.EncodeSignedMessage(padded, sec.Ident, sig.Marshal())
}

// VerifyEmbedded splits data per the "last occurrence of the signature
// opener" rule, parses the trailing signature block, and verifies it
// against the recovered message span. If pub is nil, lookup resolves
// the verifying key by the signature's ident.
func VerifyEmbedded(data []byte, pub *reopfmt.PublicKey, lookup KeyLookup) (message []byte, err error) {
	message, ident, sigPayload, err := reopfmt.SplitSignedMessage(data)
	if err != nil {
		return nil, err
	}
	if len(sigPayload) != reopfmt.SignatureSize {
		return nil, reoperr.New(reoperr.KindFormat, "signature: wrong struct size")
	}
	sig, err := reopfmt.UnmarshalSignature(sigPayload)
	if err != nil {
		return nil, err
	}
	sig.Ident = ident

	if pub == nil {
		if lookup == nil {
			return nil, reoperr.New(reoperr.KindNoKey, "no public key supplied and no key-ring lookup configured")
		}
		pub, err = lookup(ident)
		if err != nil {
			return nil, err
		}
	}
	if err := VerifyDetached(pub, message, sig); err != nil {
		return nil, err
	}
	return message, nil
}
