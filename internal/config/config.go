// Package config handles reading and writing reop's CLI configuration
// file in YAML format.
//
// Config is stored at ~/.reop/config.yaml. Its absence is not an
// error — the CLI falls back to hard-coded defaults — and nothing it
// holds affects any serialized cryptographic format; it is pure CLI
// ergonomics layered on top of the core.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds CLI-layer defaults overridable via ~/.reop/config.yaml.
type Config struct {
	// PubkeyPath is the default public key file path.
	PubkeyPath string `yaml:"pubkey_path,omitempty"`

	// SeckeyPath is the default secret key file path.
	SeckeyPath string `yaml:"seckey_path,omitempty"`

	// KeyringPath is the default key-ring file path.
	KeyringPath string `yaml:"keyring_path,omitempty"`

	// KdfRounds is a bcrypt-pbkdf iteration count stored in the config
	// file. Key generation does not read it; new secret keys always use
	// kdf.DefaultRounds.
	KdfRounds uint32 `yaml:"kdf_rounds,omitempty"`

	// LogLevel is the default slog level: debug, info, warn, or error.
	LogLevel string `yaml:"log_level,omitempty"`
}

// DefaultKdfRounds is the iteration count used when the config file is
// absent or does not set kdf_rounds.
const DefaultKdfRounds = 42

// Default returns a Config populated with reop's hard-coded defaults,
// rooted at the user's home directory.
func Default() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	dir := filepath.Join(home, ".reop")
	return &Config{
		PubkeyPath:  filepath.Join(dir, "pubkey"),
		SeckeyPath:  filepath.Join(dir, "seckey"),
		KeyringPath: filepath.Join(dir, "pubkeyring"),
		KdfRounds:   DefaultKdfRounds,
		LogLevel:    "info",
	}
}

// DefaultPath returns ~/.reop/config.yaml, or a relative fallback if
// the home directory cannot be resolved.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".reop/config.yaml"
	}
	return filepath.Join(home, ".reop", "config.yaml")
}

// Load reads and parses the config file at path, overlaying it onto
// Default(). A missing file is not an error: Default() is returned
// unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path as YAML, creating parent directories as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}
