// Package storage defines the repository file-system abstraction.
package storage

// Provider is the interface for repository file operations.
// All paths are relative to the repository root and use forward slashes.
type Provider interface {
	// Root returns the absolute repository root.
	Root() string
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path, creating parent directories.
	Write(path string, content []byte) error
	// Exists reports whether path exists.
	Exists(path string) (bool, error)
	// CopyDir recursively copies the contents of src into dst, overwriting
	// files that already exist at the destination.
	CopyDir(src, dst string) (CopyStats, error)
	// RemoveAll removes path and everything below it. A missing path is not an error.
	RemoveAll(path string) error
}

// CopyStats summarises one CopyDir call.
type CopyStats struct {
	Files     int   // files written
	Unchanged int   // files skipped because the destination was identical
	Bytes     int64 // bytes written
}
