package kdf

import (
	"github.com/reop/reop/internal/reopcrypto"
	"github.com/reop/reop/internal/reoperr"
)

// SaltSize sizes the salt field of a wrapped secret key; the nonce and tag
// sizes are reopcrypto.NonceSize and reopcrypto.TagSize.
const (
	SaltSize = 16
	// DefaultRounds is the bcrypt-pbkdf iteration count used for freshly
	// generated secret keys.
	DefaultRounds = 42
	// ZeroRounds is the sentinel iteration count for a no-password secret
	// key: the derived key is all zeros and no bcrypt call is made, but
	// the authenticated box is still computed so the on-disk format is
	// uniform regardless of whether a passphrase was used.
	ZeroRounds = 0
	// WrappedMaterialSize is len(sigkey) + len(enckey) = 64 + 32.
	WrappedMaterialSize = 96
)

// DeriveKey derives the 32-byte symmetric key used to wrap a secret key's
// material. rounds==ZeroRounds is the no-password sentinel: it returns an
// all-zero key without invoking bcrypt-pbkdf at all.
func DeriveKey(passphrase string, salt [SaltSize]byte, rounds uint32) ([reopcrypto.SymKeySize]byte, error) {
	var key [reopcrypto.SymKeySize]byte
	if rounds == ZeroRounds {
		return key, nil
	}
	derived, err := BcryptPBKDF([]byte(passphrase), salt[:], rounds, reopcrypto.SymKeySize)
	if err != nil {
		return key, reoperr.Wrap(reoperr.KindFormat, "deriving key via bcrypt-pbkdf", err)
	}
	copy(key[:], derived)
	return key, nil
}

// WrapMaterial encrypts material (expected to be the 96-byte
// sigkey||enckey concatenation) in place under the key derived from
// passphrase, salt, and rounds. It returns the generated nonce and tag.
func WrapMaterial(material []byte, passphrase string, salt [SaltSize]byte, rounds uint32) (nonce [reopcrypto.NonceSize]byte, tag [reopcrypto.TagSize]byte, err error) {
	key, err := DeriveKey(passphrase, salt, rounds)
	if err != nil {
		return nonce, tag, err
	}
	defer reopcrypto.Zeroize(key[:])
	return reopcrypto.SymEncrypt(material, &key)
}

// UnwrapMaterial decrypts material in place using the key derived from
// passphrase, salt, and rounds. On authentication failure material is
// left untouched and a KindAuthFail error is returned.
func UnwrapMaterial(material []byte, passphrase string, salt [SaltSize]byte, rounds uint32, nonce [reopcrypto.NonceSize]byte, tag [reopcrypto.TagSize]byte) error {
	key, err := DeriveKey(passphrase, salt, rounds)
	if err != nil {
		return err
	}
	defer reopcrypto.Zeroize(key[:])
	return reopcrypto.SymDecrypt(material, nonce, tag, &key)
}
