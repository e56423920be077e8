package cryptflow

import (
	"github.com/reop/reop/internal/passphrase"
	"github.com/reop/reop/internal/reoperr"
	"github.com/reop/reop/internal/reopfmt"
)

// Keys bundles the key material a decrypt dispatch may need. Which
// fields are required depends on the envelope's algorithm tag: SP needs
// none (it uses PassFn instead), eC and CS need both a secret key and a
// peer public key, eS needs only the secret key.
type Keys struct {
	Secret    *reopfmt.SecretKey
	SecretSym *[32]byte // recipient's/own unwrapped Curve25519 secret
	Peer      *reopfmt.PublicKey
	PassFn    passphrase.Func
}

// Decrypt parses header according to tag and decrypts ciphertext in
// place, dispatching to the variant the tag names. header must be
// exactly the size reopfmt.HeaderSizeForTag declares for tag.
func Decrypt(tag [2]byte, header []byte, ciphertext []byte, keys Keys) error {
	switch tagString(tag) {
	case reopfmt.TagSP:
		h, err := reopfmt.UnmarshalSymHeader(header)
		if err != nil {
			return err
		}
		return DecryptSymmetric(ciphertext, h, keys.PassFn)

	case reopfmt.TagEC:
		h, err := reopfmt.UnmarshalECHeader(header)
		if err != nil {
			return err
		}
		if keys.Secret == nil || keys.SecretSym == nil || keys.Peer == nil {
			return reoperr.New(reoperr.KindNoKey, "eC decryption requires both a secret key and the sender's public key")
		}
		return DecryptCurrent(ciphertext, h, keys.Secret, keys.SecretSym, keys.Peer)

	case reopfmt.TagCS:
		h, err := reopfmt.UnmarshalCSHeader(header)
		if err != nil {
			return err
		}
		if keys.Secret == nil || keys.SecretSym == nil || keys.Peer == nil {
			return reoperr.New(reoperr.KindNoKey, "CS decryption requires both a secret key and the peer's public key")
		}
		return DecryptLegacyCS(ciphertext, h, keys.Secret, keys.SecretSym, keys.Peer)

	case reopfmt.TagES:
		h, err := reopfmt.UnmarshalESHeader(header)
		if err != nil {
			return err
		}
		if keys.Secret == nil || keys.SecretSym == nil {
			return reoperr.New(reoperr.KindNoKey, "eS decryption requires the recipient's secret key")
		}
		return DecryptLegacyES(ciphertext, h, keys.Secret, keys.SecretSym)

	default:
		return reoperr.New(reoperr.KindAlgorithmUnsupported, "unknown envelope algorithm tag")
	}
}

func tagString(b [2]byte) string { return string(b[:]) }
