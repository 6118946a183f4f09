// Package storage implements the file-storage collaborator on the local
// filesystem. Uploaded blobs are written under <root>/<kind>/ with a unique
// suffixed filename; the returned path is relative ("/uploads/<kind>/<name>")
// and stored verbatim on the owning record.
package storage

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/learnhub/course-marketplace/internal/core/ports"
)

type LocalStore struct {
	root string
}

// NewLocalStore creates a store rooted at dir. Bucket directories are
// created lazily on first save.
func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{root: dir}
}

// Save writes the blob to disk and returns its public relative path.
func (s *LocalStore) Save(ctx context.Context, kind ports.FileKind, filename string, r io.Reader) (string, error) {
	dir := filepath.Join(s.root, string(kind))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("storage: create dir: %w", err)
	}

	name := uniqueName(filename)
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("storage: create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("storage: write file: %w", err)
	}

	return "/uploads/" + string(kind) + "/" + name, nil
}

// Delete removes a previously saved blob by its public path. Deleting a
// missing file is not an error.
func (s *LocalStore) Delete(ctx context.Context, path string) error {
	rel := strings.TrimPrefix(path, "/uploads/")
	// Base-name the last segment so a crafted path cannot escape the root.
	rel = filepath.Join(filepath.Dir(filepath.Clean(rel)), filepath.Base(rel))
	if strings.HasPrefix(rel, "..") {
		return fmt.Errorf("storage: invalid path %q", path)
	}

	err := os.Remove(filepath.Join(s.root, rel))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: delete file: %w", err)
	}
	return nil
}

// uniqueName keeps the original base name and extension but appends a
// timestamp plus random suffix to avoid collisions.
func uniqueName(filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filepath.Base(filename), ext)

	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%s-%d%s", base, time.Now().UnixNano(), ext)
	}
	return fmt.Sprintf("%s-%d-%s%s", base, time.Now().Unix(), hex.EncodeToString(b), ext)
}
