// Package cache persists downloaded files under their remote names in a
// single flat directory. Identity is the file name, not the content: two
// remote files sharing a name collide and the later write wins.
package cache

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Cache is a name-keyed flat file store.
type Cache struct {
	root string
}

// New creates the cache root if needed and returns the cache.
func New(root string) (*Cache, error) {
	if root == "" {
		return nil, fmt.Errorf("cache root cannot be empty")
	}

	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	return &Cache{root: root}, nil
}

// Root returns the cache root directory.
func (c *Cache) Root() string {
	return c.root
}

// Path returns the location an entry with the given name would occupy.
// It does not guarantee the entry exists. Names are flattened to their
// base so listing entries with path separators cannot escape the root.
func (c *Cache) Path(name string) string {
	return filepath.Join(c.root, filepath.Base(name))
}

// Has reports whether an entry with the given name exists. Existence
// only; content is never validated.
func (c *Cache) Has(name string) bool {
	_, err := os.Stat(c.Path(name))
	return err == nil
}

// Store streams data into the cache under the given name. The write goes
// through a temp file and a rename so a failed store never leaves a
// partial entry.
func (c *Cache) Store(name string, r io.Reader) (string, error) {
	dest := c.Path(name)

	tmp, err := os.CreateTemp(c.root, ".store-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write cache entry %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), dest); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to rename temp file: %w", err)
	}

	return dest, nil
}

// Clear deletes all cached content and recreates an empty root.
func (c *Cache) Clear() error {
	if err := os.RemoveAll(c.root); err != nil {
		return fmt.Errorf("failed to remove cache directory: %w", err)
	}
	if err := os.MkdirAll(c.root, 0755); err != nil {
		return fmt.Errorf("failed to recreate cache directory: %w", err)
	}
	return nil
}
