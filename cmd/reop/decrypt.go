package main

import (
	"bytes"

	"github.com/spf13/cobra"

	"github.com/reop/reop/internal/cryptflow"
	"github.com/reop/reop/internal/fileio"
	"github.com/reop/reop/internal/passphrase"
	"github.com/reop/reop/internal/reopcrypto"
	"github.com/reop/reop/internal/reoperr"
	"github.com/reop/reop/internal/reopfmt"
	"github.com/reop/reop/internal/signflow"
)

func newDecryptCmd() *cobra.Command {
	var inFile, outFile string

	cmd := &cobra.Command{
		Use:   "decrypt",
		Short: "Decrypt a message produced by encrypt",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecrypt(inFile, outFile, cmd.Flags().Changed("pubkey"))
		},
	}
	cmd.Flags().StringVarP(&inFile, "message", "m", "", "ciphertext file to decrypt (required)")
	cmd.Flags().StringVarP(&outFile, "output", "o", "", "plaintext output file (default stdout)")
	_ = cmd.MarkFlagRequired("message")

	return cmd
}

func runDecrypt(inFile, outFile string, explicitPubkey bool) error {
	data, err := fileio.ReadAll(inFile, reopfmt.MaxInputSize)
	if err != nil {
		return err
	}

	var (
		tag        [2]byte
		headerData []byte
		ident      string
		ciphertext []byte
	)

	if bytes.HasPrefix(data, reopfmt.BinaryMagic[:]) {
		tag, headerData, ident, ciphertext, err = reopfmt.DecodeBinary(data)
		if err != nil {
			return err
		}
	} else {
		ident, headerData, ciphertext, err = reopfmt.DecodeEncryptedMessage(data)
		if err != nil {
			return err
		}
		if len(headerData) < 2 {
			return reoperr.New(reoperr.KindFormat, "encrypted message header too short to carry an algorithm tag")
		}
		copy(tag[:], headerData[:2])
		size, known := reopfmt.HeaderSizeForTag(tag)
		if !known {
			return reoperr.New(reoperr.KindAlgorithmUnsupported, "unknown envelope algorithm tag")
		}
		if len(headerData) != size {
			return reoperr.New(reoperr.KindFormat, "envelope header size mismatch for its algorithm tag")
		}
	}

	keys := cryptflow.Keys{PassFn: passphrase.TTY("REOP_PASSPHRASE")}
	if tag != tagBytes(reopfmt.TagSP) {
		sec, err := readSecretKeyFile(seckeyPath)
		if err != nil {
			return err
		}
		sigSec, secSym, err := signflow.Unwrap(sec, passphrase.TTY("REOP_PASSPHRASE"))
		if err != nil {
			return err
		}
		defer reopcrypto.Zeroize(sigSec)
		defer reopcrypto.Zeroize(secSym[:])
		keys.Secret = sec
		keys.SecretSym = secSym

		if tag == tagBytes(reopfmt.TagEC) || tag == tagBytes(reopfmt.TagCS) {
			var peer *reopfmt.PublicKey
			if explicitPubkey {
				peer, err = readPublicKeyFile(pubkeyPath)
			} else {
				peer, err = lookupByIdent(ident)
			}
			if err != nil {
				return err
			}
			keys.Peer = peer
		}
	}

	if err := cryptflow.Decrypt(tag, headerData, ciphertext, keys); err != nil {
		return err
	}

	if outFile == "" {
		outFile = fileio.Stdio
	}
	if err := fileio.WriteAll(outFile, ciphertext, fileio.PublicKeyMode, false); err != nil {
		return err
	}

	infof("decrypted to %s", outFile)
	return nil
}

func tagBytes(s string) [2]byte {
	var b [2]byte
	copy(b[:], s)
	return b
}
