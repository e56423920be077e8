package main

import (
	"github.com/spf13/cobra"

	"github.com/reop/reop/internal/passphrase"
	"github.com/reop/reop/internal/signflow"
)

func newGenerateCmd() *cobra.Command {
	var noPassphrase bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a new Ed25519/Curve25519 keypair",
		RunE: func(cmd *cobra.Command, args []string) error {
			ident, err := cmd.Flags().GetString("ident")
			if err != nil {
				return err
			}
			return runGenerate(ident, noPassphrase)
		},
	}
	cmd.Flags().String("ident", "", "identity string stored alongside the keypair (required)")
	cmd.Flags().BoolVar(&noPassphrase, "no-passphrase", false, "generate a no-password secret key (zero-round sentinel)")
	_ = cmd.MarkFlagRequired("ident")

	return cmd
}

func runGenerate(ident string, noPassphrase bool) error {
	passFn := passphrase.TTY("REOP_PASSPHRASE")
	if noPassphrase {
		passFn = passphrase.None()
	}

	pub, sec, err := signflow.Generate(ident, passFn)
	if err != nil {
		return err
	}

	if err := writeSecretKeyFile(seckeyPath, sec); err != nil {
		return err
	}
	if err := writePublicKeyFile(pubkeyPath, pub); err != nil {
		return err
	}

	infof("generated keypair %q", ident)
	infof("  public key: %s", pubkeyPath)
	infof("  secret key: %s", seckeyPath)
	return nil
}
