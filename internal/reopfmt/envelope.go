package reopfmt

import (
	"encoding/binary"

	"github.com/reop/reop/internal/reoperr"
)

// SymHeaderSize is the serialized size of a SymHeader.
const SymHeaderSize = 2 + 2 + 4 + 16 + 24 + 16

// SymHeader is the symmetric envelope header (algorithm tag SP).
type SymHeader struct {
	SymAlg    [2]byte
	KdfAlg    [2]byte
	KdfRounds uint32
	Salt      [16]byte
	Nonce     [24]byte
	Tag       [16]byte
}

func (h *SymHeader) Marshal() []byte {
	buf := make([]byte, SymHeaderSize)
	i := 0
	i += copy(buf[i:], h.SymAlg[:])
	i += copy(buf[i:], h.KdfAlg[:])
	binary.BigEndian.PutUint32(buf[i:], h.KdfRounds)
	i += 4
	i += copy(buf[i:], h.Salt[:])
	i += copy(buf[i:], h.Nonce[:])
	copy(buf[i:], h.Tag[:])
	return buf
}

func UnmarshalSymHeader(buf []byte) (*SymHeader, error) {
	if len(buf) != SymHeaderSize {
		return nil, reoperr.New(reoperr.KindFormat, "symmetric header: wrong struct size")
	}
	h := &SymHeader{}
	i := 0
	i += copy(h.SymAlg[:], buf[i:i+2])
	i += copy(h.KdfAlg[:], buf[i:i+2])
	h.KdfRounds = binary.BigEndian.Uint32(buf[i:])
	i += 4
	i += copy(h.Salt[:], buf[i:i+16])
	i += copy(h.Nonce[:], buf[i:i+24])
	copy(h.Tag[:], buf[i:i+16])
	if err := checkTag(h.SymAlg, TagSP); err != nil {
		return nil, err
	}
	if err := checkTag(h.KdfAlg, TagBK); err != nil {
		return nil, err
	}
	return h, nil
}

// ECHeaderSize is the serialized size of an ECHeader (current public-key
// envelope, algorithm tag eC).
const ECHeaderSize = 2 + 8 + 8 + 32 + 24 + 16 + 24 + 16

// ECHeader is the current ephemeral-key authenticated public-key
// envelope header.
type ECHeader struct {
	EncAlg      [2]byte
	SecRandomID [8]byte
	PubRandomID [8]byte
	EphPubKey   [32]byte // encrypted in place; decrypts to the ephemeral Curve25519 public key
	EphNonce    [24]byte
	EphTag      [16]byte
	Nonce       [24]byte
	Tag         [16]byte
}

func (h *ECHeader) Marshal() []byte {
	buf := make([]byte, ECHeaderSize)
	i := 0
	i += copy(buf[i:], h.EncAlg[:])
	i += copy(buf[i:], h.SecRandomID[:])
	i += copy(buf[i:], h.PubRandomID[:])
	i += copy(buf[i:], h.EphPubKey[:])
	i += copy(buf[i:], h.EphNonce[:])
	i += copy(buf[i:], h.EphTag[:])
	i += copy(buf[i:], h.Nonce[:])
	copy(buf[i:], h.Tag[:])
	return buf
}

func UnmarshalECHeader(buf []byte) (*ECHeader, error) {
	if len(buf) != ECHeaderSize {
		return nil, reoperr.New(reoperr.KindFormat, "eC header: wrong struct size")
	}
	h := &ECHeader{}
	i := 0
	i += copy(h.EncAlg[:], buf[i:i+2])
	i += copy(h.SecRandomID[:], buf[i:i+8])
	i += copy(h.PubRandomID[:], buf[i:i+8])
	i += copy(h.EphPubKey[:], buf[i:i+32])
	i += copy(h.EphNonce[:], buf[i:i+24])
	i += copy(h.EphTag[:], buf[i:i+16])
	i += copy(h.Nonce[:], buf[i:i+24])
	copy(h.Tag[:], buf[i:i+16])
	if err := checkTag(h.EncAlg, TagEC); err != nil {
		return nil, err
	}
	return h, nil
}

// CSHeaderSize is the serialized size of a CSHeader (legacy envelope,
// algorithm tag CS).
const CSHeaderSize = 2 + 8 + 8 + 24 + 16

// CSHeader is the legacy public-key envelope with no ephemeral key: the
// body is encrypted directly between the sender's secret and the
// recipient's public key.
type CSHeader struct {
	EncAlg      [2]byte
	SecRandomID [8]byte
	PubRandomID [8]byte
	Nonce       [24]byte
	Tag         [16]byte
}

func (h *CSHeader) Marshal() []byte {
	buf := make([]byte, CSHeaderSize)
	i := 0
	i += copy(buf[i:], h.EncAlg[:])
	i += copy(buf[i:], h.SecRandomID[:])
	i += copy(buf[i:], h.PubRandomID[:])
	i += copy(buf[i:], h.Nonce[:])
	copy(buf[i:], h.Tag[:])
	return buf
}

func UnmarshalCSHeader(buf []byte) (*CSHeader, error) {
	if len(buf) != CSHeaderSize {
		return nil, reoperr.New(reoperr.KindFormat, "CS header: wrong struct size")
	}
	h := &CSHeader{}
	i := 0
	i += copy(h.EncAlg[:], buf[i:i+2])
	i += copy(h.SecRandomID[:], buf[i:i+8])
	i += copy(h.PubRandomID[:], buf[i:i+8])
	i += copy(h.Nonce[:], buf[i:i+24])
	copy(h.Tag[:], buf[i:i+16])
	if err := checkTag(h.EncAlg, TagCS); err != nil {
		return nil, err
	}
	return h, nil
}

// ESHeaderSize is the serialized size of an ESHeader (legacy ephemeral-key
// envelope, algorithm tag eS).
const ESHeaderSize = 2 + 8 + 32 + 24 + 16

// ESHeader is the legacy ephemeral-key envelope: only the recipient's
// secret key is needed to decrypt, since the ephemeral public key
// travels in the clear in the header.
type ESHeader struct {
	EkcAlg      [2]byte
	PubRandomID [8]byte
	PubKey      [32]byte // ephemeral Curve25519 public key, in the clear
	Nonce       [24]byte
	Tag         [16]byte
}

func (h *ESHeader) Marshal() []byte {
	buf := make([]byte, ESHeaderSize)
	i := 0
	i += copy(buf[i:], h.EkcAlg[:])
	i += copy(buf[i:], h.PubRandomID[:])
	i += copy(buf[i:], h.PubKey[:])
	i += copy(buf[i:], h.Nonce[:])
	copy(buf[i:], h.Tag[:])
	return buf
}

func UnmarshalESHeader(buf []byte) (*ESHeader, error) {
	if len(buf) != ESHeaderSize {
		return nil, reoperr.New(reoperr.KindFormat, "eS header: wrong struct size")
	}
	h := &ESHeader{}
	i := 0
	i += copy(h.EkcAlg[:], buf[i:i+2])
	i += copy(h.PubRandomID[:], buf[i:i+8])
	i += copy(h.PubKey[:], buf[i:i+32])
	i += copy(h.Nonce[:], buf[i:i+24])
	copy(h.Tag[:], buf[i:i+16])
	if err := checkTag(h.EkcAlg, TagES); err != nil {
		return nil, err
	}
	return h, nil
}

// HeaderSizeForTag returns the expected serialized size of the envelope
// header for the given 2-byte algorithm tag, and whether the tag is a
// known envelope variant at all.
func HeaderSizeForTag(tag [2]byte) (size int, known bool) {
	switch tagString(tag) {
	case TagSP:
		return SymHeaderSize, true
	case TagEC:
		return ECHeaderSize, true
	case TagCS:
		return CSHeaderSize, true
	case TagES:
		return ESHeaderSize, true
	default:
		return 0, false
	}
}
