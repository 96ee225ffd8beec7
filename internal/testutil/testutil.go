// Package testutil provides shared test helpers for setting up repositories.
package testutil

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/yo-kondo/fmtbookdir/internal/storage"
)

// TestRepo creates a temporary repository directory with a storage.Provider.
func TestRepo(t *testing.T) (string, storage.Provider) {
	t.Helper()
	repoDir := t.TempDir()
	store, err := storage.NewFS(repoDir)
	if err != nil {
		t.Fatal(err)
	}
	return repoDir, store
}

// WriteFiles creates each repository-relative path with its content.
func WriteFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

// Logger returns a logger that discards output.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
