// Command reop is a small command-line cryptographic toolkit: generate
// Ed25519/Curve25519 keypairs, sign and verify messages, and encrypt
// and decrypt files using public-key or passphrase-based symmetric
// encryption.
//
// Usage:
//
//	reop generate --ident alice
//	reop sign -m message.txt
//	reop verify -m message.txt -p alice.pub
//	reop encrypt -p bob.pub -s alice.sec -m message.txt
//	reop decrypt -s bob.sec -p alice.pub -m message.txt.enc
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/reop/reop/internal/config"
)

var (
	pubkeyPath  string
	seckeyPath  string
	keyringPath string
	configPath  string
	logLevel    string
	quiet       bool
)

func main() {
	root := &cobra.Command{
		Use:   "reop",
		Short: "A small cryptographic toolkit: sign, verify, encrypt, decrypt",
		Long: `reop produces and consumes signed, authenticated, and encrypted files
using Ed25519 signatures and Curve25519-XSalsa20-Poly1305 authenticated
encryption, with a bcrypt-pbkdf-protected secret key container.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			slog.SetDefault(newLogger())
		},
	}

	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		fmt.Fprintln(os.Stderr, "reop: loading config:", err)
		os.Exit(1)
	}

	root.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "config file path (not read: settings always load from the default path)")
	root.PersistentFlags().StringVarP(&pubkeyPath, "pubkey", "p", cfg.PubkeyPath, "public key file path")
	root.PersistentFlags().StringVarP(&seckeyPath, "seckey", "s", cfg.SeckeyPath, "secret key file path")
	root.PersistentFlags().StringVar(&keyringPath, "keyring", cfg.KeyringPath, "key-ring file path")
	root.PersistentFlags().StringVar(&logLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress informational output")

	root.AddCommand(
		newGenerateCmd(),
		newSignCmd(),
		newVerifyCmd(),
		newEncryptCmd(),
		newDecryptCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "reop:", err)
		os.Exit(1)
	}
}

// newLogger builds a slog.Logger at the configured level, writing to
// stderr so it never interleaves with stdout payloads.
func newLogger() *slog.Logger {
	var level slog.Level
	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func infof(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
