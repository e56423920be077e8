package reopfmt

import (
	"bytes"
	"testing"
)

func TestEncodeDecodeBinaryRoundTrip(t *testing.T) {
	header := (&SymHeader{SymAlg: tagBytes(TagSP), KdfAlg: tagBytes(TagBK)}).Marshal()
	ciphertext := bytes.Repeat([]byte{0x99}, 500)

	data, err := EncodeBinary(header, "gina", ciphertext)
	if err != nil {
		t.Fatalf("EncodeBinary: %v", err)
	}
	if !bytes.HasPrefix(data, BinaryMagic[:]) {
		t.Fatal("missing RBF magic prefix")
	}

	tag, gotHeader, ident, gotCT, err := DecodeBinary(data)
	if err != nil {
		t.Fatalf("DecodeBinary: %v", err)
	}
	if tagString(tag) != TagSP || !bytes.Equal(gotHeader, header) || ident != "gina" || !bytes.Equal(gotCT, ciphertext) {
		t.Fatal("round trip mismatch")
	}
}

func TestDecodeBinaryRejectsBadMagic(t *testing.T) {
	if _, _, _, _, err := DecodeBinary([]byte("NOTRBF\x00restofdata")); err == nil {
		t.Fatal("expected error on bad magic")
	}
}

func TestDecodeBinaryRejectsUnknownTag(t *testing.T) {
	var data []byte
	data = append(data, BinaryMagic[:]...)
	data = append(data, 'Z', 'Z')
	data = append(data, bytes.Repeat([]byte{0}, 200)...)
	if _, _, _, _, err := DecodeBinary(data); err == nil {
		t.Fatal("expected error on unknown algorithm tag")
	}
}

func TestDecodeBinaryRejectsTruncatedHeader(t *testing.T) {
	var data []byte
	data = append(data, BinaryMagic[:]...)
	spTag := tagBytes(TagSP)
	data = append(data, spTag[:]...)
	if _, _, _, _, err := DecodeBinary(data); err == nil {
		t.Fatal("expected error on truncated header")
	}
}

func TestDecodeBinaryRejectsOversizedIdent(t *testing.T) {
	header := (&CSHeader{EncAlg: tagBytes(TagCS)}).Marshal()
	data, err := EncodeBinary(header, "", nil)
	if err != nil {
		t.Fatalf("EncodeBinary: %v", err)
	}
	// Overwrite the identity-length field with a value beyond the buffer.
	identLenOffset := len(BinaryMagic) + len(header)
	data[identLenOffset] = 0xFF
	data[identLenOffset+1] = 0xFF
	data[identLenOffset+2] = 0xFF
	data[identLenOffset+3] = 0xFF
	if _, _, _, _, err := DecodeBinary(data); err == nil {
		t.Fatal("expected error on oversized identity length")
	}
}

func TestEncodeBinaryRejectsLongIdent(t *testing.T) {
	longIdent := string(bytes.Repeat([]byte{'a'}, MaxBinaryIdentBytes+1))
	header := (&ESHeader{EkcAlg: tagBytes(TagES)}).Marshal()
	if _, err := EncodeBinary(header, longIdent, nil); err == nil {
		t.Fatal("expected error on over-long identity")
	}
}

func TestDecodeBinaryRejectsOversizedInput(t *testing.T) {
	big := make([]byte, MaxInputSize+1)
	if _, _, _, _, err := DecodeBinary(big); err == nil {
		t.Fatal("expected error on input exceeding 1 GiB")
	}
}
