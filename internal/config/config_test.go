package config

import (
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(filepath.Join(dir, "nonexistent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Default()
	if cfg.PubkeyPath != want.PubkeyPath || cfg.KdfRounds != want.KdfRounds {
		t.Fatalf("got %+v, want %+v", cfg, want)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg := Default()
	cfg.KdfRounds = 100
	cfg.LogLevel = "debug"
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.KdfRounds != 100 || got.LogLevel != "debug" {
		t.Fatalf("got %+v, want KdfRounds=100 LogLevel=debug", got)
	}
}

func TestLoadOverlaysPartialFileOntoDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := Save(path, &Config{LogLevel: "warn"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.LogLevel != "warn" {
		t.Fatalf("LogLevel = %q, want warn", got.LogLevel)
	}
	if got.KdfRounds != DefaultKdfRounds {
		t.Fatalf("KdfRounds = %d, want default %d (unset field should keep default)", got.KdfRounds, DefaultKdfRounds)
	}
}
