package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/yo-kondo/fmtbookdir/internal/apperr"
	"github.com/yo-kondo/fmtbookdir/internal/checksum"
)

// FS implements Provider backed by the local file system.
type FS struct {
	root string // absolute path to repository directory
}

// NewFS creates a new FS provider rooted at the given directory.
// The directory must already exist.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	return &FS{root: abs}, nil
}

// Root returns the absolute repository root.
func (f *FS) Root() string { return f.root }

// safePath resolves a relative path against the repository root and rejects
// any result that escapes it (directory traversal).
func (f *FS) safePath(rel string) (string, error) {
	if rel == "" {
		return f.root, nil
	}
	cleaned := filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("storage: absolute paths not allowed: %s", rel)
	}
	joined := filepath.Join(f.root, cleaned)
	abs, err := filepath.Abs(joined)
	if err != nil {
		return "", fmt.Errorf("storage: resolve path: %w", err)
	}
	// Ensure the resolved path is still under root.
	if !strings.HasPrefix(abs, f.root+string(os.PathSeparator)) && abs != f.root {
		return "", fmt.Errorf("storage: path escapes repository root: %s", rel)
	}
	return abs, nil
}

// Read returns the raw bytes of a repository file.
func (f *FS) Read(path string) ([]byte, error) {
	abs, err := f.safePath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", apperr.ErrFilesystem, path, err)
	}
	return data, nil
}

// Write atomically writes content: tmp file → fsync → rename.
func (f *FS) Write(path string, content []byte) error {
	abs, err := f.safePath(path)
	if err != nil {
		return err
	}
	return writeAtomic(abs, content, 0o644)
}

func writeAtomic(abs string, content []byte, perm fs.FileMode) error {
	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: mkdir %s: %w", apperr.ErrFilesystem, dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".fmtbookdir-tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create temp: %w", apperr.ErrFilesystem, err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("%w: write temp: %w", apperr.ErrFilesystem, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("%w: fsync: %w", apperr.ErrFilesystem, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close temp: %w", apperr.ErrFilesystem, err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("%w: chmod: %w", apperr.ErrFilesystem, err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return fmt.Errorf("%w: rename: %w", apperr.ErrFilesystem, err)
	}
	success = true
	return nil
}

// Exists reports whether path exists under the repository root.
func (f *FS) Exists(path string) (bool, error) {
	abs, err := f.safePath(path)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(abs)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("%w: stat %s: %w", apperr.ErrFilesystem, path, err)
}

// CopyDir merges the tree under src into dst. Existing destination files are
// overwritten unless their content already matches, in which case they are
// left untouched. File permissions follow the source.
func (f *FS) CopyDir(src, dst string) (CopyStats, error) {
	var stats CopyStats
	absSrc, err := f.safePath(src)
	if err != nil {
		return stats, err
	}
	absDst, err := f.safePath(dst)
	if err != nil {
		return stats, err
	}
	if absSrc == absDst {
		return stats, fmt.Errorf("%w: copy %s onto itself", apperr.ErrFilesystem, src)
	}
	if strings.HasPrefix(absDst, absSrc+string(os.PathSeparator)) {
		return stats, fmt.Errorf("%w: copy %s into its own subtree %s", apperr.ErrFilesystem, src, dst)
	}

	info, err := os.Stat(absSrc)
	if err != nil {
		return stats, fmt.Errorf("%w: stat %s: %w", apperr.ErrFilesystem, src, err)
	}
	if !info.IsDir() {
		return stats, fmt.Errorf("%w: not a directory: %s", apperr.ErrFilesystem, src)
	}

	err = filepath.WalkDir(absSrc, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(absSrc, p)
		if err != nil {
			return err
		}
		target := filepath.Join(absDst, rel)
		info, err := d.Info()
		if err != nil {
			return err
		}
		if d.IsDir() {
			return os.MkdirAll(target, info.Mode().Perm()|0o700)
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		written, err := copyFile(p, target, info.Mode().Perm())
		if err != nil {
			return err
		}
		if written < 0 {
			stats.Unchanged++
			return nil
		}
		stats.Files++
		stats.Bytes += written
		return nil
	})
	if err != nil {
		if errors.Is(err, apperr.ErrFilesystem) {
			return stats, err
		}
		return stats, fmt.Errorf("%w: copy %s to %s: %w", apperr.ErrFilesystem, src, dst, err)
	}
	return stats, nil
}

// copyFile returns the number of bytes written, or -1 when dst already held
// identical content.
func copyFile(src, dst string, perm fs.FileMode) (int64, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return 0, err
	}
	if existing, err := checksum.File(dst); err == nil && existing == checksum.Sum(data) {
		return -1, nil
	}
	if err := writeAtomic(dst, data, perm); err != nil {
		return 0, err
	}
	return int64(len(data)), nil
}

// RemoveAll deletes path recursively. The repository root itself cannot be removed.
func (f *FS) RemoveAll(path string) error {
	abs, err := f.safePath(path)
	if err != nil {
		return err
	}
	if abs == f.root {
		return fmt.Errorf("%w: refusing to remove repository root", apperr.ErrFilesystem)
	}
	if err := os.RemoveAll(abs); err != nil {
		return fmt.Errorf("%w: remove %s: %w", apperr.ErrFilesystem, path, err)
	}
	return nil
}
