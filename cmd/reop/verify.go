package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reop/reop/internal/fileio"
	"github.com/reop/reop/internal/reopfmt"
	"github.com/reop/reop/internal/signflow"
)

func newVerifyCmd() *cobra.Command {
	var msgFile, sigFile string
	var embedded bool
	var explicitPubkey bool

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a detached or embedded signature",
		RunE: func(cmd *cobra.Command, args []string) error {
			explicitPubkey = cmd.Flags().Changed("pubkey")
			return runVerify(msgFile, sigFile, embedded, explicitPubkey)
		},
	}
	cmd.Flags().StringVarP(&msgFile, "message", "m", "", "message file (embedded: the signed-message file itself)")
	cmd.Flags().StringVarP(&sigFile, "sig", "x", "", "detached signature file (default <message>.sig)")
	cmd.Flags().BoolVarP(&embedded, "embed", "e", false, "verify an embedded signed-message file")
	_ = cmd.MarkFlagRequired("message")

	return cmd
}

func runVerify(msgFile, sigFile string, embedded, explicitPubkey bool) error {
	if embedded {
		data, err := fileio.ReadAll(msgFile, reopfmt.MaxInputSize)
		if err != nil {
			return err
		}
		var pub *reopfmt.PublicKey
		if explicitPubkey {
			pub, err = readPublicKeyFile(pubkeyPath)
			if err != nil {
				return err
			}
		}
		msg, err := signflow.VerifyEmbedded(data, pub, lookupByIdent)
		if err != nil {
			return err
		}
		infof("signature verified")
		fmt.Print(string(msg))
		return nil
	}

	if sigFile == "" {
		sigFile = msgFile + ".sig"
	}
	msg, err := fileio.ReadAll(msgFile, reopfmt.MaxInputSize)
	if err != nil {
		return err
	}
	sigData, err := fileio.ReadAll(sigFile, reopfmt.MaxInputSize)
	if err != nil {
		return err
	}
	ident, payload, err := reopfmt.Decode(sigData, reopfmt.KindSignature, reopfmt.SignatureSize)
	if err != nil {
		return err
	}
	sig, err := reopfmt.UnmarshalSignature(payload)
	if err != nil {
		return err
	}
	sig.Ident = ident

	var pub *reopfmt.PublicKey
	if explicitPubkey {
		pub, err = readPublicKeyFile(pubkeyPath)
	} else {
		pub, err = lookupByIdent(ident)
	}
	if err != nil {
		return err
	}

	if err := signflow.VerifyDetached(pub, msg, sig); err != nil {
		return err
	}
	infof("signature verified")
	return nil
}
