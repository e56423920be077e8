// Package fileio implements the file-I/O collaborator boundary: the core
// codec and flow packages never touch the filesystem directly, only
// through ReadAll/WriteAll. The sentinel path "-" names stdin/stdout;
// symlinks and directories are refused.
package fileio

import (
	"io"
	"os"

	"github.com/reop/reop/internal/reoperr"
)

// Stdio is the sentinel filename denoting standard input (on read) or
// standard output (on write).
const Stdio = "-"

// ReadAll reads path in full, refusing symlinks, directories, and any
// input larger than maxSize bytes. Passing Stdio reads from os.Stdin.
func ReadAll(path string, maxSize int64) ([]byte, error) {
	if path == Stdio {
		return readAllFrom(os.Stdin, maxSize)
	}

	info, err := os.Lstat(path)
	if err != nil {
		return nil, reoperr.Wrap(reoperr.KindIO, "stat "+path, err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return nil, reoperr.New(reoperr.KindIO, "refusing to follow symlink "+path)
	}
	if info.IsDir() {
		return nil, reoperr.New(reoperr.KindIO, "refusing to read directory "+path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, reoperr.Wrap(reoperr.KindIO, "opening "+path, err)
	}
	defer f.Close()
	return readAllFrom(f, maxSize)
}

func readAllFrom(r io.Reader, maxSize int64) ([]byte, error) {
	limited := io.LimitReader(r, maxSize+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, reoperr.Wrap(reoperr.KindIO, "reading input", err)
	}
	if int64(len(data)) > maxSize {
		return nil, reoperr.New(reoperr.KindTooLarge, "input exceeds maximum size")
	}
	return data, nil
}

// WriteAll writes data to path with the given permission mode. If excl
// is true, the file must not already exist (O_EXCL); otherwise an
// existing file is truncated and overwritten. Passing Stdio writes to
// os.Stdout regardless of mode/excl.
func WriteAll(path string, data []byte, mode os.FileMode, excl bool) error {
	if path == Stdio {
		if _, err := os.Stdout.Write(data); err != nil {
			return reoperr.Wrap(reoperr.KindIO, "writing to stdout", err)
		}
		return nil
	}

	if info, err := os.Lstat(path); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return reoperr.New(reoperr.KindIO, "refusing to follow symlink "+path)
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if excl {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, mode)
	if err != nil {
		return reoperr.Wrap(reoperr.KindIO, "opening "+path+" for write", err)
	}
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		return reoperr.Wrap(reoperr.KindIO, "writing "+path, err)
	}
	return nil
}

// Permission modes for the two key file kinds: secret keys are
// owner-only, public keys use the default umask-subject mode.
const (
	SecretKeyMode os.FileMode = 0o600
	PublicKeyMode os.FileMode = 0o644
)
