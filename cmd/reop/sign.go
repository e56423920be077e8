package main

import (
	"github.com/spf13/cobra"

	"github.com/reop/reop/internal/fileio"
	"github.com/reop/reop/internal/passphrase"
	"github.com/reop/reop/internal/reopcrypto"
	"github.com/reop/reop/internal/reopfmt"
	"github.com/reop/reop/internal/signflow"
)

func newSignCmd() *cobra.Command {
	var msgFile, sigFile string
	var embedded bool

	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign a message, detached (default) or embedded",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSign(msgFile, sigFile, embedded)
		},
	}
	cmd.Flags().StringVarP(&msgFile, "message", "m", "", "message file to sign (required)")
	cmd.Flags().StringVarP(&sigFile, "sig", "x", "", "signature output file (default <message>.sig)")
	cmd.Flags().BoolVarP(&embedded, "embed", "e", false, "embed the message in the signature file")
	_ = cmd.MarkFlagRequired("message")

	return cmd
}

func runSign(msgFile, sigFile string, embedded bool) error {
	if sigFile == "" {
		sigFile = msgFile + ".sig"
	}

	sec, err := readSecretKeyFile(seckeyPath)
	if err != nil {
		return err
	}
	sigSec, encSec, err := signflow.Unwrap(sec, passphrase.TTY("REOP_PASSPHRASE"))
	if err != nil {
		return err
	}
	defer reopcrypto.Zeroize(sigSec)
	defer reopcrypto.Zeroize(encSec[:])

	msg, err := fileio.ReadAll(msgFile, reopfmt.MaxInputSize)
	if err != nil {
		return err
	}

	if embedded {
		out, err := signflow.SignEmbedded(sec, sigSec, msg)
		if err != nil {
			return err
		}
		if err := fileio.WriteAll(sigFile, out, fileio.PublicKeyMode, false); err != nil {
			return err
		}
	} else {
		sig := signflow.SignDetached(sec, sigSec, msg)
		out, err := reopfmt.Encode(reopfmt.KindSignature, sec.Ident, sig.Marshal())
		if err != nil {
			return err
		}
		if err := fileio.WriteAll(sigFile, out, fileio.PublicKeyMode, false); err != nil {
			return err
		}
	}

	infof("signature written to %s", sigFile)
	return nil
}
