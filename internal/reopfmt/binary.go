package reopfmt

import (
	"bytes"
	"encoding/binary"

	"github.com/reop/reop/internal/reoperr"
)

// EncodeBinary serializes the binary framing: RBF\0 magic, the fixed
// header for the envelope's algorithm tag, a big-endian u32 identity
// length, the identity bytes (no NUL), then the raw ciphertext.
func EncodeBinary(header []byte, ident string, ciphertext []byte) ([]byte, error) {
	if len(ident) > MaxBinaryIdentBytes {
		return nil, reoperr.New(reoperr.KindFormat, "identity exceeds binary identity buffer")
	}
	var b bytes.Buffer
	b.Write(BinaryMagic[:])
	b.Write(header)
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(ident)))
	b.Write(lenBuf[:])
	b.WriteString(ident)
	b.Write(ciphertext)
	return b.Bytes(), nil
}

// DecodeBinary parses the binary framing. The algorithm tag is read from
// the first two bytes following the magic, which dictates the header's
// expected size; any other value, or a header shorter than that size, is
// a hard rejection.
func DecodeBinary(data []byte) (tag [2]byte, header []byte, ident string, ciphertext []byte, err error) {
	if len(data) > MaxInputSize {
		return tag, nil, "", nil, reoperr.New(reoperr.KindTooLarge, "input exceeds 1 GiB")
	}
	if len(data) < len(BinaryMagic) || !bytes.Equal(data[:len(BinaryMagic)], BinaryMagic[:]) {
		return tag, nil, "", nil, reoperr.New(reoperr.KindFormat, "missing RBF magic")
	}
	rest := data[len(BinaryMagic):]

	if len(rest) < 2 {
		return tag, nil, "", nil, reoperr.New(reoperr.KindFormat, "truncated header tag")
	}
	copy(tag[:], rest[:2])
	size, known := HeaderSizeForTag(tag)
	if !known {
		return tag, nil, "", nil, reoperr.New(reoperr.KindAlgorithmUnsupported, "unknown binary envelope tag "+tagString(tag))
	}
	if len(rest) < size {
		return tag, nil, "", nil, reoperr.New(reoperr.KindFormat, "truncated envelope header")
	}
	header = rest[:size]
	rest = rest[size:]

	if len(rest) < 4 {
		return tag, nil, "", nil, reoperr.New(reoperr.KindFormat, "truncated identity length")
	}
	identLen := binary.BigEndian.Uint32(rest[:4])
	rest = rest[4:]
	if identLen > MaxBinaryIdentBytes {
		return tag, nil, "", nil, reoperr.New(reoperr.KindFormat, "identity length exceeds binary identity buffer")
	}
	if uint64(len(rest)) < uint64(identLen) {
		return tag, nil, "", nil, reoperr.New(reoperr.KindFormat, "truncated identity")
	}
	ident = string(rest[:identLen])
	ciphertext = rest[identLen:]
	return tag, header, ident, ciphertext, nil
}
