package reopfmt

import (
	"encoding/binary"

	"github.com/reop/reop/internal/reoperr"
)

// PublicKeySize is the serialized size of a PublicKey, excluding Ident.
const PublicKeySize = 2 + 2 + 8 + 32 + 32

// PublicKey is the public half of a keypair. Ident is carried alongside
// the struct (in the armor's ident: line, or the binary identity field)
// and is never part of the fixed-size serialized form.
type PublicKey struct {
	SigAlg   [2]byte
	EncAlg   [2]byte
	RandomID [8]byte
	SigKey   [32]byte // Ed25519 public key
	EncKey   [32]byte // Curve25519 public key
	Ident    string
}

// Marshal serializes the fixed-size fields (not Ident) to PublicKeySize bytes.
func (k *PublicKey) Marshal() []byte {
	buf := make([]byte, PublicKeySize)
	i := 0
	i += copy(buf[i:], k.SigAlg[:])
	i += copy(buf[i:], k.EncAlg[:])
	i += copy(buf[i:], k.RandomID[:])
	i += copy(buf[i:], k.SigKey[:])
	i += copy(buf[i:], k.EncKey[:])
	return buf
}

// UnmarshalPublicKey parses exactly PublicKeySize bytes into a PublicKey.
// Ident must be set by the caller from the out-of-band identity field.
func UnmarshalPublicKey(buf []byte) (*PublicKey, error) {
	if len(buf) != PublicKeySize {
		return nil, reoperr.New(reoperr.KindFormat, "public key: wrong struct size")
	}
	k := &PublicKey{}
	i := 0
	i += copy(k.SigAlg[:], buf[i:i+2])
	i += copy(k.EncAlg[:], buf[i:i+2])
	i += copy(k.RandomID[:], buf[i:i+8])
	i += copy(k.SigKey[:], buf[i:i+32])
	copy(k.EncKey[:], buf[i:i+32])
	if err := checkTag(k.SigAlg, TagEd); err != nil {
		return nil, err
	}
	if err := checkTag(k.EncAlg, TagCS); err != nil {
		return nil, err
	}
	return k, nil
}

// SecretKeySize is the serialized size of a SecretKey, excluding Ident.
const SecretKeySize = 2 + 2 + 2 + 2 + 8 + 4 + 16 + 24 + 16 + 64 + 32

// SecretKey is the secret half of a keypair. SigKey||EncKey is always the
// symmetrically encrypted form, on disk and in this struct; unwrapping
// yields the plaintext keys as separate values and leaves the struct
// unchanged. Ident is out-of-band, as with PublicKey.
type SecretKey struct {
	SigAlg    [2]byte
	EncAlg    [2]byte
	SymAlg    [2]byte
	KdfAlg    [2]byte
	RandomID  [8]byte
	KdfRounds uint32
	Salt      [16]byte
	Nonce     [24]byte
	Tag       [16]byte
	SigKey    [64]byte // Ed25519 private key, wrapped
	EncKey    [32]byte // Curve25519 private key, wrapped
	Ident     string
}

// Marshal serializes the fixed-size fields (not Ident) to SecretKeySize bytes.
// SigKey||EncKey must already be in the form the caller wants persisted
// (encrypted, for on-disk use).
func (k *SecretKey) Marshal() []byte {
	buf := make([]byte, SecretKeySize)
	i := 0
	i += copy(buf[i:], k.SigAlg[:])
	i += copy(buf[i:], k.EncAlg[:])
	i += copy(buf[i:], k.SymAlg[:])
	i += copy(buf[i:], k.KdfAlg[:])
	i += copy(buf[i:], k.RandomID[:])
	binary.BigEndian.PutUint32(buf[i:], k.KdfRounds)
	i += 4
	i += copy(buf[i:], k.Salt[:])
	i += copy(buf[i:], k.Nonce[:])
	i += copy(buf[i:], k.Tag[:])
	i += copy(buf[i:], k.SigKey[:])
	copy(buf[i:], k.EncKey[:])
	return buf
}

// UnmarshalSecretKey parses exactly SecretKeySize bytes into a SecretKey.
// The returned SigKey||EncKey is still in its on-disk (encrypted) form.
func UnmarshalSecretKey(buf []byte) (*SecretKey, error) {
	if len(buf) != SecretKeySize {
		return nil, reoperr.New(reoperr.KindFormat, "secret key: wrong struct size")
	}
	k := &SecretKey{}
	i := 0
	i += copy(k.SigAlg[:], buf[i:i+2])
	i += copy(k.EncAlg[:], buf[i:i+2])
	i += copy(k.SymAlg[:], buf[i:i+2])
	i += copy(k.KdfAlg[:], buf[i:i+2])
	i += copy(k.RandomID[:], buf[i:i+8])
	k.KdfRounds = binary.BigEndian.Uint32(buf[i:])
	i += 4
	i += copy(k.Salt[:], buf[i:i+16])
	i += copy(k.Nonce[:], buf[i:i+24])
	i += copy(k.Tag[:], buf[i:i+16])
	i += copy(k.SigKey[:], buf[i:i+64])
	copy(k.EncKey[:], buf[i:i+32])

	if err := checkTag(k.SigAlg, TagEd); err != nil {
		return nil, err
	}
	if err := checkTag(k.EncAlg, TagCS); err != nil {
		return nil, err
	}
	if err := checkTag(k.SymAlg, TagSP); err != nil {
		return nil, err
	}
	if err := checkTag(k.KdfAlg, TagBK); err != nil {
		return nil, err
	}
	return k, nil
}

// Material returns a copy of the 96-byte sigkey||enckey region for
// wrap/unwrap to operate on in place; changes reach the struct only
// through SetMaterial.
func (k *SecretKey) Material() []byte {
	buf := make([]byte, 0, 96)
	buf = append(buf, k.SigKey[:]...)
	buf = append(buf, k.EncKey[:]...)
	return buf
}

// SetMaterial writes a 96-byte sigkey||enckey region back into the struct.
func (k *SecretKey) SetMaterial(buf []byte) {
	copy(k.SigKey[:], buf[:64])
	copy(k.EncKey[:], buf[64:96])
}

// SignatureSize is the serialized size of a Signature, excluding Ident.
const SignatureSize = 2 + 8 + 64

// Signature is a detached Ed25519 signature. RandomID identifies the
// issuing secret key, used to detect a verification attempt against the
// wrong public key before any cryptography runs.
type Signature struct {
	SigAlg   [2]byte
	RandomID [8]byte
	Sig      [64]byte
	Ident    string
}

// Marshal serializes the fixed-size fields (not Ident) to SignatureSize bytes.
func (s *Signature) Marshal() []byte {
	buf := make([]byte, SignatureSize)
	i := 0
	i += copy(buf[i:], s.SigAlg[:])
	i += copy(buf[i:], s.RandomID[:])
	copy(buf[i:], s.Sig[:])
	return buf
}

// UnmarshalSignature parses exactly SignatureSize bytes into a Signature.
func UnmarshalSignature(buf []byte) (*Signature, error) {
	if len(buf) != SignatureSize {
		return nil, reoperr.New(reoperr.KindFormat, "signature: wrong struct size")
	}
	s := &Signature{}
	i := 0
	i += copy(s.SigAlg[:], buf[i:i+2])
	i += copy(s.RandomID[:], buf[i:i+8])
	copy(s.Sig[:], buf[i:i+64])
	if err := checkTag(s.SigAlg, TagEd); err != nil {
		return nil, err
	}
	return s, nil
}

func checkTag(got [2]byte, want string) error {
	if tagString(got) != want {
		return reoperr.New(reoperr.KindAlgorithmUnsupported, "unexpected algorithm tag "+tagString(got))
	}
	return nil
}
