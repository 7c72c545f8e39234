// Package blobstore is the opaque blob collaborator: it stores bytes
// under a generated reference and resolves references back to files
// for serving. References never encode paths, only names.
package blobstore

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Namespaces for the two image side-channels.
const (
	PostImages    = "posts"
	ProfileImages = "profileimages"
)

// FileStore stores blobs on the local filesystem, one directory per
// namespace.
type FileStore struct {
	root string
}

// NewFileStore creates a FileStore rooted at dir, creating the
// namespace directories if needed.
func NewFileStore(dir string) (*FileStore, error) {
	for _, ns := range []string{PostImages, ProfileImages} {
		if err := os.MkdirAll(filepath.Join(dir, ns), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create blob directory %s: %w", ns, err)
		}
	}
	return &FileStore{root: dir}, nil
}

// Store writes the blob and returns its reference: a random hex
// prefix joined with the sanitized original filename.
func (s *FileStore) Store(namespace, filename string, r io.Reader) (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate blob reference: %w", err)
	}
	ref := hex.EncodeToString(buf) + "_" + sanitize(filename)

	f, err := os.Create(filepath.Join(s.root, namespace, ref))
	if err != nil {
		return "", fmt.Errorf("failed to create blob file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("failed to write blob: %w", err)
	}
	return ref, nil
}

// Path resolves a reference to the file path it was stored at. A
// reference containing path separators or traversal segments is
// rejected.
func (s *FileStore) Path(namespace, ref string) (string, error) {
	if ref == "" || ref != filepath.Base(ref) || strings.Contains(ref, "..") {
		return "", fmt.Errorf("invalid blob reference %q", ref)
	}
	path := filepath.Join(s.root, namespace, ref)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("blob %s not found: %w", ref, err)
	}
	return path, nil
}

// sanitize strips anything path-like from an uploaded filename and
// keeps a conservative character set.
func sanitize(filename string) string {
	base := filepath.Base(filename)
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "blob"
	}
	return b.String()
}
