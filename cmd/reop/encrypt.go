package main

import (
	"github.com/spf13/cobra"

	"github.com/reop/reop/internal/cryptflow"
	"github.com/reop/reop/internal/fileio"
	"github.com/reop/reop/internal/passphrase"
	"github.com/reop/reop/internal/reopcrypto"
	"github.com/reop/reop/internal/reopfmt"
	"github.com/reop/reop/internal/signflow"
)

func newEncryptCmd() *cobra.Command {
	var msgFile, outFile string
	var symmetric, binary, legacyV1 bool

	cmd := &cobra.Command{
		Use:   "encrypt",
		Short: "Encrypt a message, symmetrically or to a recipient's public key",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncrypt(msgFile, outFile, symmetric, binary, legacyV1)
		},
	}
	cmd.Flags().StringVarP(&msgFile, "message", "m", "", "message file to encrypt (required)")
	cmd.Flags().StringVarP(&outFile, "output", "o", "", "ciphertext output file (default <message>.enc)")
	cmd.Flags().BoolVarP(&symmetric, "symmetric", "S", false, "passphrase symmetric encryption instead of public-key")
	cmd.Flags().BoolVarP(&binary, "binary", "b", false, "write the binary framing instead of armored")
	cmd.Flags().BoolVar(&legacyV1, "v1", false, "emit the legacy direct (CS) public-key envelope")
	_ = cmd.MarkFlagRequired("message")

	return cmd
}

func runEncrypt(msgFile, outFile string, symmetric, binary, legacyV1 bool) error {
	if outFile == "" {
		outFile = msgFile + ".enc"
	}

	plaintext, err := fileio.ReadAll(msgFile, reopfmt.MaxInputSize)
	if err != nil {
		return err
	}

	var (
		ident      string
		headerTag  string
		headerData []byte
	)

	if symmetric {
		header, err := cryptflow.EncryptSymmetric(plaintext, passphrase.TTY("REOP_PASSPHRASE"))
		if err != nil {
			return err
		}
		headerTag = reopfmt.TagSP
		headerData = header.Marshal()
	} else {
		sender, err := readSecretKeyFile(seckeyPath)
		if err != nil {
			return err
		}
		senderSigSec, senderEncSec, err := signflow.Unwrap(sender, passphrase.TTY("REOP_PASSPHRASE"))
		if err != nil {
			return err
		}
		defer reopcrypto.Zeroize(senderSigSec)
		defer reopcrypto.Zeroize(senderEncSec[:])

		recipient, err := readPublicKeyFile(pubkeyPath)
		if err != nil {
			return err
		}

		ident = sender.Ident
		if legacyV1 {
			header, err := cryptflow.EncryptLegacyCS(plaintext, sender, senderEncSec, recipient)
			if err != nil {
				return err
			}
			headerTag = reopfmt.TagCS
			headerData = header.Marshal()
		} else {
			header, err := cryptflow.EncryptCurrent(plaintext, sender, senderEncSec, recipient)
			if err != nil {
				return err
			}
			headerTag = reopfmt.TagEC
			headerData = header.Marshal()
		}
	}

	var out []byte
	if binary {
		out, err = reopfmt.EncodeBinary(headerData, ident, plaintext)
		if err != nil {
			return err
		}
	} else {
		out, err = reopfmt.EncodeEncryptedMessage(ident, headerData, plaintext)
		if err != nil {
			return err
		}
	}

	if err := fileio.WriteAll(outFile, out, fileio.PublicKeyMode, false); err != nil {
		return err
	}

	infof("encrypted (%s) to %s", headerTag, outFile)
	return nil
}
