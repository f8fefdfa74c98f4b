// Package filesystem contains filesystem-based adapter implementations.
package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/riskmap/internal/ports/secondary"
)

// DocumentFileStore implements secondary.DocumentFileStore on local files.
type DocumentFileStore struct{}

// NewDocumentFileStore creates a new filesystem document store.
func NewDocumentFileStore() *DocumentFileStore {
	return &DocumentFileStore{}
}

// Read returns the contents of the document at path.
func (s *DocumentFileStore) Read(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// Write replaces the document at path. The new contents are written to a
// temporary file in the same directory and renamed into place, so a failed
// write never leaves a truncated document behind.
func (s *DocumentFileStore) Write(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// Exists reports whether a document exists at path.
func (s *DocumentFileStore) Exists(ctx context.Context, path string) (bool, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if info.IsDir() {
		return false, fmt.Errorf("%s is a directory", path)
	}
	return true, nil
}

// Ensure DocumentFileStore implements the interface
var _ secondary.DocumentFileStore = (*DocumentFileStore)(nil)
