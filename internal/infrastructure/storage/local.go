// Package storage persists uploaded profile photos on the local filesystem.
// Files are stored under a single managed directory with generated names and
// served statically by the HTTP layer under the same path prefix.
package storage

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/staffhub/employee-api/internal/api/metrics"
)

// PhotoStore writes photos to dir and returns public paths of the form
// <base(dir)>/<uuid><ext>, matching the static route prefix.
type PhotoStore struct {
	dir string
}

func NewPhotoStore(dir string) *PhotoStore {
	return &PhotoStore{dir: dir}
}

// Store copies src to a new uuid-named file, keeping the original extension.
func (s *PhotoStore) Store(src io.Reader, originalName string) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	name := uuid.New().String() + strings.ToLower(filepath.Ext(originalName))
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create photo file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("write photo file: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("close photo file: %w", err)
	}

	metrics.PhotoUploadsTotal.Inc()
	return path.Join(filepath.Base(s.dir), name), nil
}

// Remove deletes the file behind a path previously returned by Store. A file
// that is already gone is treated as removed.
func (s *PhotoStore) Remove(storedPath string) error {
	if storedPath == "" {
		return nil
	}

	err := os.Remove(filepath.Join(s.dir, path.Base(storedPath)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove photo file: %w", err)
	}
	return nil
}
