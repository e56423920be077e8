// Package keyring implements the key-ring collaborator: a local file of
// concatenated armored PUBLIC KEY blocks, searched by ident so signature
// and public-key-envelope verification can resolve a key the caller did
// not pass explicitly.
package keyring

import (
	"bytes"

	"github.com/reop/reop/internal/reoperr"
	"github.com/reop/reop/internal/reopfmt"
)

// KeyRing is an in-memory collection of public keys loaded from a
// key-ring file, indexed by ident for lookup.
type KeyRing struct {
	keys []*reopfmt.PublicKey
}

// Parse splits data into individual armored PUBLIC KEY blocks (blank
// lines between blocks are permitted; blank lines inside a block are
// not) and decodes each one.
func Parse(data []byte) (*KeyRing, error) {
	kr := &KeyRing{}
	for _, block := range splitBlocks(data) {
		if len(bytes.TrimSpace(block)) == 0 {
			continue
		}
		ident, payload, err := reopfmt.Decode(block, reopfmt.KindPublicKey, reopfmt.PublicKeySize)
		if err != nil {
			return nil, err
		}
		pub, err := reopfmt.UnmarshalPublicKey(payload)
		if err != nil {
			return nil, err
		}
		pub.Ident = ident
		kr.keys = append(kr.keys, pub)
	}
	return kr, nil
}

// splitBlocks breaks data on blank lines that separate armored blocks.
// A blank line is only treated as a separator outside of a block; since
// armored blocks never contain a blank line themselves, splitting on
// any run of blank lines is equivalent and much simpler.
func splitBlocks(data []byte) [][]byte {
	var blocks [][]byte
	var current bytes.Buffer
	lines := bytes.Split(data, []byte("\n"))
	for _, line := range lines {
		if len(bytes.TrimSpace(line)) == 0 {
			if current.Len() > 0 {
				blocks = append(blocks, append([]byte(nil), current.Bytes()...))
				current.Reset()
			}
			continue
		}
		current.Write(line)
		current.WriteByte('\n')
	}
	if current.Len() > 0 {
		blocks = append(blocks, current.Bytes())
	}
	return blocks
}

// FindByIdent looks up a public key by its ident. It returns a
// KindNoKey error if no key in the ring carries that ident.
func (kr *KeyRing) FindByIdent(ident string) (*reopfmt.PublicKey, error) {
	for _, k := range kr.keys {
		if k.Ident == ident {
			return k, nil
		}
	}
	return nil, reoperr.New(reoperr.KindNoKey, "no key-ring entry for ident "+ident)
}

// Add appends pub to the ring, returning an error if ident already
// has an entry.
func (kr *KeyRing) Add(pub *reopfmt.PublicKey) error {
	if _, err := kr.FindByIdent(pub.Ident); err == nil {
		return reoperr.New(reoperr.KindFormat, "key-ring already has an entry for ident "+pub.Ident)
	}
	kr.keys = append(kr.keys, pub)
	return nil
}

// Keys returns the ring's entries in load order.
func (kr *KeyRing) Keys() []*reopfmt.PublicKey {
	return kr.keys
}

// Marshal serializes the ring back to its on-disk concatenated-armored-blocks form.
func (kr *KeyRing) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	for i, k := range kr.keys {
		block, err := reopfmt.Encode(reopfmt.KindPublicKey, k.Ident, k.Marshal())
		if err != nil {
			return nil, err
		}
		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.Write(block)
	}
	return buf.Bytes(), nil
}
