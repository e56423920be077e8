package fileio

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteAllThenReadAllRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "msg.txt")
	data := []byte("hello world")

	if err := WriteAll(path, data, 0o600, true); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}
	got, err := ReadAll(path, 1<<20)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != string(data) {
		t.Fatalf("got %q, want %q", got, data)
	}
}

func TestWriteAllExclRefusesExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "msg.txt")
	if err := WriteAll(path, []byte("a"), 0o600, true); err != nil {
		t.Fatalf("first WriteAll: %v", err)
	}
	if err := WriteAll(path, []byte("b"), 0o600, true); err == nil {
		t.Fatal("expected error writing to existing file with excl=true")
	}
}

func TestReadAllRefusesDirectory(t *testing.T) {
	dir := t.TempDir()
	if _, err := ReadAll(dir, 1<<20); err == nil {
		t.Fatal("expected error reading a directory")
	}
}

func TestReadAllRefusesSymlink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target.txt")
	if err := os.WriteFile(target, []byte("data"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	link := filepath.Join(dir, "link.txt")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unsupported in this environment: %v", err)
	}
	if _, err := ReadAll(link, 1<<20); err == nil {
		t.Fatal("expected error reading a symlink")
	}
}

func TestReadAllEnforcesMaxSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.txt")
	if err := os.WriteFile(path, make([]byte, 100), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := ReadAll(path, 10); err == nil {
		t.Fatal("expected too_large error")
	}
}

func TestReadAllMissingFile(t *testing.T) {
	if _, err := ReadAll("/nonexistent/path/does/not/exist", 1<<20); err == nil {
		t.Fatal("expected error reading missing file")
	}
}
