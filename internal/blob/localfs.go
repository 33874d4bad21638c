package blob

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalFS stores files under Root and serves them at BaseURL/media/<name>.
// Stored names are uuid-based so an upload can never clobber an earlier one.
type LocalFS struct {
	Root    string
	BaseURL string // e.g. "http://localhost:8080"
}

// Upload writes the file to disk, fsyncs it, and returns its public URL.
// The original name only contributes its extension.
func (l *LocalFS) Upload(name string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	stored := uuid.NewString() + ext

	if err := os.MkdirAll(l.Root, 0o755); err != nil {
		return "", fmt.Errorf("blob: mkdir %s: %w", l.Root, err)
	}

	abs := filepath.Join(l.Root, stored)
	f, err := os.Create(abs)
	if err != nil {
		return "", fmt.Errorf("blob: create %s: %w", stored, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(abs)
		return "", fmt.Errorf("blob: write %s: %w", stored, err)
	}
	// Durable before the URL is referenced anywhere.
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(abs)
		return "", fmt.Errorf("blob: sync %s: %w", stored, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("blob: close %s: %w", stored, err)
	}

	return strings.TrimRight(l.BaseURL, "/") + path.Join("/media", stored), nil
}

// Open returns the stored file for serving.
func (l *LocalFS) Open(stored string) (*os.File, error) {
	return os.Open(filepath.Join(l.Root, filepath.Clean(stored)))
}
