// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package fsutil owns the CLI's on-disk tree: directory layout, secret
// file permission enforcement, and atomic writes.
//
// All functions operate on an [afero.Fs] so that callers can substitute
// an in-memory filesystem in tests. Production code uses
// afero.NewOsFs().
package fsutil

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/bureau-foundation/dcos/lib/errdef"
)

// DirMode is the mode of every directory the CLI creates.
const DirMode fs.FileMode = 0o775

// SecretMode is the only mode accepted on secret-bearing files.
const SecretMode fs.FileMode = 0o600

// EnsureDir creates path and any missing parents with [DirMode].
func EnsureDir(filesystem afero.Fs, path string) error {
	info, err := filesystem.Stat(path)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("fsutil: %s exists and is not a directory", path)
		}
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("fsutil: stat %s: %w", path, err)
	}
	if err := filesystem.MkdirAll(path, DirMode); err != nil {
		return fmt.Errorf("fsutil: creating %s: %w", path, err)
	}
	// MkdirAll is subject to the process umask.
	if err := filesystem.Chmod(path, DirMode); err != nil {
		return fmt.Errorf("fsutil: chmod %s: %w", path, err)
	}
	return nil
}

// EnsureFile creates path empty with the given mode if it does not
// exist. An existing file is left untouched.
func EnsureFile(filesystem afero.Fs, path string, perm fs.FileMode) error {
	file, err := filesystem.OpenFile(path, os.O_RDONLY|os.O_CREATE, perm)
	if err != nil {
		return fmt.Errorf("fsutil: creating %s: %w", path, err)
	}
	return file.Close()
}

// Exists reports whether path exists. Errors other than "not exist" are
// reported as existing so callers fail on the next real operation
// instead of silently skipping.
func Exists(filesystem afero.Fs, path string) bool {
	_, err := filesystem.Stat(path)
	return err == nil || !errors.Is(err, fs.ErrNotExist)
}

// IsDir reports whether path exists and is a directory.
func IsDir(filesystem afero.Fs, path string) bool {
	info, err := filesystem.Stat(path)
	return err == nil && info.IsDir()
}

// CheckSecretMode fails with a PermissionsTooOpen error when path grants
// any permission to group or other. The mode is never repaired: a
// broader mode may mean the secret has already leaked, and the user has
// to decide. On platforms without POSIX permissions the check is skipped.
func CheckSecretMode(filesystem afero.Fs, path string) error {
	if !posixPermissions {
		return nil
	}
	info, err := filesystem.Stat(path)
	if err != nil {
		return fmt.Errorf("fsutil: stat %s: %w", path, err)
	}
	if info.Mode().Perm()&0o077 != 0 {
		return errdef.New(errdef.PermissionsTooOpen,
			"Permissions '%#o' for configuration file '%s' are too open. File must only be accessible by owner.",
			info.Mode().Perm(), path).
			WithHint("Please run `chmod 600 %s`.", path)
	}
	return nil
}

// ReadSecureFile enforces [CheckSecretMode] and then reads path.
func ReadSecureFile(filesystem afero.Fs, path string) ([]byte, error) {
	if err := CheckSecretMode(filesystem, path); err != nil {
		return nil, err
	}
	return afero.ReadFile(filesystem, path)
}

// WriteAtomic replaces path with data. The data is written to a
// temporary file in the same directory, synced, given mode perm, and
// renamed over path. Readers observe either the old or the new content,
// never a partial write. On any failure the temporary file is removed
// and path is unchanged.
func WriteAtomic(filesystem afero.Fs, path string, data []byte, perm fs.FileMode) error {
	directory := filepath.Dir(path)
	if err := EnsureDir(filesystem, directory); err != nil {
		return err
	}

	temporary, err := afero.TempFile(filesystem, directory, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("fsutil: creating temporary file for %s: %w", path, err)
	}
	temporaryPath := temporary.Name()

	committed := false
	defer func() {
		if !committed {
			_ = filesystem.Remove(temporaryPath)
		}
	}()

	if _, err := temporary.Write(data); err != nil {
		temporary.Close()
		return fmt.Errorf("fsutil: writing %s: %w", temporaryPath, err)
	}
	if err := temporary.Sync(); err != nil {
		temporary.Close()
		return fmt.Errorf("fsutil: syncing %s: %w", temporaryPath, err)
	}
	if err := temporary.Close(); err != nil {
		return fmt.Errorf("fsutil: closing %s: %w", temporaryPath, err)
	}
	if err := filesystem.Chmod(temporaryPath, perm); err != nil {
		return fmt.Errorf("fsutil: chmod %s: %w", temporaryPath, err)
	}
	if err := filesystem.Rename(temporaryPath, path); err != nil {
		return fmt.Errorf("fsutil: renaming %s to %s: %w", temporaryPath, path, err)
	}
	committed = true
	return nil
}

// CopyFile copies src to dst with the given mode, replacing dst.
func CopyFile(filesystem afero.Fs, src, dst string, perm fs.FileMode) error {
	source, err := filesystem.Open(src)
	if err != nil {
		return fmt.Errorf("fsutil: opening %s: %w", src, err)
	}
	defer source.Close()

	destination, err := filesystem.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("fsutil: creating %s: %w", dst, err)
	}
	if _, err := io.Copy(destination, source); err != nil {
		destination.Close()
		return fmt.Errorf("fsutil: copying %s to %s: %w", src, dst, err)
	}
	if err := destination.Close(); err != nil {
		return err
	}
	return filesystem.Chmod(dst, perm)
}
