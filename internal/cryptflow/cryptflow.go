// Package cryptflow implements reop's two encryption modes: passphrase
// symmetric encryption, and public-key encryption via a per-message
// ephemeral keypair that authenticates the sender. It also decrypts the
// two legacy public-key envelope variants still found in the wild.
package cryptflow

import (
	"github.com/reop/reop/internal/kdf"
	"github.com/reop/reop/internal/passphrase"
	"github.com/reop/reop/internal/reopcrypto"
	"github.com/reop/reop/internal/reoperr"
	"github.com/reop/reop/internal/reopfmt"
)

func tagOf(s string) [2]byte {
	var b [2]byte
	copy(b[:], s)
	return b
}

// EncryptSymmetric encrypts plaintext under a key derived from a
// passphrase acquired from passFn, using the default 42-round
// bcrypt-pbkdf. plaintext is encrypted in place; the returned header is
// ready to serialize via reopfmt.
func EncryptSymmetric(plaintext []byte, passFn passphrase.Func) (*reopfmt.SymHeader, error) {
	pass, err := passphrase.Acquire(passFn, false, true)
	if err != nil {
		return nil, err
	}
	var salt [kdf.SaltSize]byte
	if err := reopcrypto.RandomBytes(salt[:]); err != nil {
		return nil, err
	}
	key, err := kdf.DeriveKey(pass, salt, kdf.DefaultRounds)
	if err != nil {
		return nil, err
	}
	defer reopcrypto.Zeroize(key[:])

	nonce, tag, err := reopcrypto.SymEncrypt(plaintext, &key)
	if err != nil {
		return nil, err
	}
	return &reopfmt.SymHeader{
		SymAlg:    tagOf(reopfmt.TagSP),
		KdfAlg:    tagOf(reopfmt.TagBK),
		KdfRounds: kdf.DefaultRounds,
		Salt:      salt,
		Nonce:     nonce,
		Tag:       tag,
	}, nil
}

// DecryptSymmetric decrypts ciphertext in place under a key derived from
// a passphrase acquired from passFn and header's salt/rounds.
func DecryptSymmetric(ciphertext []byte, header *reopfmt.SymHeader, passFn passphrase.Func) error {
	pass, err := passphrase.Acquire(passFn, false, true)
	if err != nil {
		return err
	}
	key, err := kdf.DeriveKey(pass, header.Salt, header.KdfRounds)
	if err != nil {
		return err
	}
	defer reopcrypto.Zeroize(key[:])
	return reopcrypto.SymDecrypt(ciphertext, header.Nonce, header.Tag, &key)
}

// EncryptCurrent implements the current (eC) public-key envelope: a
// fresh ephemeral keypair encrypts the message body to the recipient,
// and the sender's static secret key authenticates the ephemeral
// public key by encrypting it too.
func EncryptCurrent(plaintext []byte, sender *reopfmt.SecretKey, senderEncSec *[32]byte, recipient *reopfmt.PublicKey) (*reopfmt.ECHeader, error) {
	ephPub, ephSec, err := reopcrypto.GenerateBoxKeyPair()
	if err != nil {
		return nil, err
	}
	defer reopcrypto.Zeroize(ephSec[:])

	nonce, tag, err := reopcrypto.PubEncrypt(plaintext, &recipient.EncKey, &ephSec)
	if err != nil {
		return nil, err
	}

	ephPubBuf := ephPub
	ephNonce, ephTag, err := reopcrypto.PubEncrypt(ephPubBuf[:], &recipient.EncKey, senderEncSec)
	if err != nil {
		return nil, err
	}

	h := &reopfmt.ECHeader{
		EncAlg:      tagOf(reopfmt.TagEC),
		SecRandomID: sender.RandomID,
		PubRandomID: recipient.RandomID,
		EphNonce:    ephNonce,
		EphTag:      ephTag,
		Nonce:       nonce,
		Tag:         tag,
	}
	copy(h.EphPubKey[:], ephPubBuf[:])
	return h, nil
}

// DecryptCurrent reverses EncryptCurrent. It rejects with KindMismatch
// before any cryptography runs if the envelope's randomids do not bind
// to the supplied keys.
func DecryptCurrent(ciphertext []byte, header *reopfmt.ECHeader, recipient *reopfmt.SecretKey, recipientEncSec *[32]byte, sender *reopfmt.PublicKey) error {
	if header.PubRandomID != recipient.RandomID || header.SecRandomID != sender.RandomID {
		return reoperr.New(reoperr.KindMismatch, "envelope randomids do not bind to supplied keys")
	}

	ephPubBuf := header.EphPubKey
	if err := reopcrypto.PubDecrypt(ephPubBuf[:], header.EphNonce, header.EphTag, &sender.EncKey, recipientEncSec); err != nil {
		return err
	}
	var ephPub [32]byte
	copy(ephPub[:], ephPubBuf[:])

	return reopcrypto.PubDecrypt(ciphertext, header.Nonce, header.Tag, &ephPub, recipientEncSec)
}

// EncryptLegacyCS implements the legacy CS envelope: the message body
// is encrypted directly between the sender's secret and the
// recipient's public key, with no ephemeral key. Kept for v1-compat
// output.
func EncryptLegacyCS(plaintext []byte, sender *reopfmt.SecretKey, senderEncSec *[32]byte, recipient *reopfmt.PublicKey) (*reopfmt.CSHeader, error) {
	nonce, tag, err := reopcrypto.PubEncrypt(plaintext, &recipient.EncKey, senderEncSec)
	if err != nil {
		return nil, err
	}
	return &reopfmt.CSHeader{
		EncAlg:      tagOf(reopfmt.TagCS),
		SecRandomID: sender.RandomID,
		PubRandomID: recipient.RandomID,
		Nonce:       nonce,
		Tag:         tag,
	}, nil
}

// DecryptLegacyCS reverses EncryptLegacyCS. The caller supplies its own
// secret key and the other party's public key without knowing which
// side played sender or recipient; randomids are matched against the
// pair in either assignment order, per the documented strict
// reimplementation of the legacy comparison.
func DecryptLegacyCS(ciphertext []byte, header *reopfmt.CSHeader, ownSec *reopfmt.SecretKey, ownEncSec *[32]byte, otherPub *reopfmt.PublicKey) error {
	matchesForward := header.SecRandomID == otherPub.RandomID && header.PubRandomID == ownSec.RandomID
	matchesReverse := header.SecRandomID == ownSec.RandomID && header.PubRandomID == otherPub.RandomID
	if !matchesForward && !matchesReverse {
		return reoperr.New(reoperr.KindMismatch, "envelope randomids do not bind to supplied keys")
	}
	return reopcrypto.PubDecrypt(ciphertext, header.Nonce, header.Tag, &otherPub.EncKey, ownEncSec)
}

// DecryptLegacyES reverses the legacy eS envelope: only the recipient's
// secret key is needed, since the ephemeral public key travels in the
// clear in the header.
func DecryptLegacyES(ciphertext []byte, header *reopfmt.ESHeader, recipient *reopfmt.SecretKey, recipientEncSec *[32]byte) error {
	if header.PubRandomID != recipient.RandomID {
		return reoperr.New(reoperr.KindMismatch, "envelope randomid does not match recipient secret key")
	}
	return reopcrypto.PubDecrypt(ciphertext, header.Nonce, header.Tag, &header.PubKey, recipientEncSec)
}
