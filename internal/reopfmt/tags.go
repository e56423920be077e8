// Package reopfmt implements reop's data model and the two wire framings
// (armored and binary) that carry it: public/secret keys, detached
// signatures, and the symmetric and public-key encrypted-message
// envelopes, including the two legacy public-key envelope variants.
//
// Every multi-byte integer here is big-endian; every algorithm tag is a
// fixed 2-byte ASCII constant. A tag that does not match one of the
// constants below is always a hard rejection, never a fallback.
package reopfmt

// Algorithm tags. Values are fixed by the wire format; there is no
// negotiation and no other accepted value for any of these fields.
const (
	TagEd = "Ed" // Ed25519 signatures
	TagCS = "CS" // Curve25519+Salsa20 key algorithm, and the legacy public-key envelope
	TagEC = "eC" // current ephemeral public-key envelope
	TagES = "eS" // legacy ephemeral-key envelope
	TagSP = "SP" // Salsa20-Poly1305 symmetric envelope
	TagBK = "BK" // bcrypt KDF
)

// BinaryMagic is the 4-byte magic (including the trailing NUL) that
// marks a binary-framed file.
var BinaryMagic = [4]byte{'R', 'B', 'F', 0}

// MaxIdentBytes is the maximum content length of an identity string
// (63 bytes of content, null-terminated in a 64-byte buffer).
const MaxIdentBytes = 63

// MaxBinaryIdentBytes is the largest identity length accepted on the
// binary framing path, bounded by the 64-byte identity buffer the
// original format reserves (which keeps one byte for the NUL).
const MaxBinaryIdentBytes = 63

// MaxInputSize is the hard cap on any file the codec will read.
const MaxInputSize = 1 << 30 // 1 GiB

func tagBytes(s string) [2]byte {
	var b [2]byte
	copy(b[:], s)
	return b
}

func tagString(b [2]byte) string {
	return string(b[:])
}
