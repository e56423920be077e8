package main

import (
	"github.com/reop/reop/internal/fileio"
	"github.com/reop/reop/internal/keyring"
	"github.com/reop/reop/internal/reopfmt"
)

func readPublicKeyFile(path string) (*reopfmt.PublicKey, error) {
	data, err := fileio.ReadAll(path, reopfmt.MaxInputSize)
	if err != nil {
		return nil, err
	}
	ident, payload, err := reopfmt.Decode(data, reopfmt.KindPublicKey, reopfmt.PublicKeySize)
	if err != nil {
		return nil, err
	}
	pub, err := reopfmt.UnmarshalPublicKey(payload)
	if err != nil {
		return nil, err
	}
	pub.Ident = ident
	return pub, nil
}

func writePublicKeyFile(path string, pub *reopfmt.PublicKey) error {
	data, err := reopfmt.Encode(reopfmt.KindPublicKey, pub.Ident, pub.Marshal())
	if err != nil {
		return err
	}
	return fileio.WriteAll(path, data, fileio.PublicKeyMode, true)
}

func readSecretKeyFile(path string) (*reopfmt.SecretKey, error) {
	data, err := fileio.ReadAll(path, reopfmt.MaxInputSize)
	if err != nil {
		return nil, err
	}
	ident, payload, err := reopfmt.Decode(data, reopfmt.KindSecretKey, reopfmt.SecretKeySize)
	if err != nil {
		return nil, err
	}
	sec, err := reopfmt.UnmarshalSecretKey(payload)
	if err != nil {
		return nil, err
	}
	sec.Ident = ident
	return sec, nil
}

func writeSecretKeyFile(path string, sec *reopfmt.SecretKey) error {
	data, err := reopfmt.Encode(reopfmt.KindSecretKey, sec.Ident, sec.Marshal())
	if err != nil {
		return err
	}
	return fileio.WriteAll(path, data, fileio.SecretKeyMode, true)
}

// lookupByIdent loads the key-ring file at keyringPath and returns the
// public key registered under ident, backing signflow's KeyLookup and
// cryptflow's peer-key resolution when no explicit -p path is given.
func lookupByIdent(ident string) (*reopfmt.PublicKey, error) {
	data, err := fileio.ReadAll(keyringPath, reopfmt.MaxInputSize)
	if err != nil {
		return nil, err
	}
	kr, err := keyring.Parse(data)
	if err != nil {
		return nil, err
	}
	return kr.FindByIdent(ident)
}
