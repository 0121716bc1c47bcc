// Package local archives pages under a root directory on the local
// filesystem.
package local

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store writes archived pages below its root directory and returns file://
// URIs.
type Store struct {
	root string
}

// New creates the root directory if needed and verifies it is writable.
func New(root string) (*Store, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("root directory is required")
	}
	info, err := os.Stat(root)
	switch {
	case os.IsNotExist(err):
		if mkErr := os.MkdirAll(root, 0o750); mkErr != nil {
			return nil, fmt.Errorf("create root directory: %w", mkErr)
		}
	case err != nil:
		return nil, fmt.Errorf("stat root directory: %w", err)
	case !info.IsDir():
		return nil, fmt.Errorf("root path %s is not a directory", root)
	}

	probe := filepath.Join(root, ".writable_probe")
	if err := os.WriteFile(probe, []byte("ok"), 0o600); err != nil {
		return nil, fmt.Errorf("root directory is not writable: %w", err)
	}
	if err := os.Remove(probe); err != nil {
		return nil, fmt.Errorf("remove write probe: %w", err)
	}

	return &Store{root: root}, nil
}

// Put writes data to root/key, creating parent directories, and returns a
// file:// URI. Keys that escape the root are rejected.
func (s *Store) Put(_ context.Context, key, _ string, data []byte) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("key is required")
	}

	fullPath := filepath.Join(s.root, key)
	cleanRoot := filepath.Clean(s.root)
	if !strings.HasPrefix(filepath.Clean(fullPath), cleanRoot+string(filepath.Separator)) {
		return "", fmt.Errorf("key %q escapes archive root", key)
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
		return "", fmt.Errorf("create parent directories: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0o600); err != nil {
		return "", fmt.Errorf("write archive file: %w", err)
	}
	return "file://" + fullPath, nil
}
