package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func createTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := New(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	return c
}

func TestCacheStoreAndHas(t *testing.T) {
	c := createTestCache(t)

	if c.Has("results.tsv") {
		t.Fatal("empty cache claims to have an entry")
	}

	path, err := c.Store("results.tsv", strings.NewReader("a\tb\n1\t2\n"))
	if err != nil {
		t.Fatalf("failed to store entry: %v", err)
	}
	if path != c.Path("results.tsv") {
		t.Fatalf("stored path %s does not match Path() %s", path, c.Path("results.tsv"))
	}

	if !c.Has("results.tsv") {
		t.Fatal("cache does not report stored entry")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read stored entry: %v", err)
	}
	if string(data) != "a\tb\n1\t2\n" {
		t.Fatalf("unexpected stored content: %q", data)
	}
}

func TestCachePathIsFlat(t *testing.T) {
	c := createTestCache(t)

	path := c.Path("some/nested/table.csv")
	if filepath.Dir(path) != c.Root() {
		t.Fatalf("entry path escapes the flat root: %s", path)
	}
}

func TestCacheClear(t *testing.T) {
	c := createTestCache(t)

	for _, name := range []string{"a.tsv", "b.tsv", "c.tsv"} {
		if _, err := c.Store(name, strings.NewReader("x")); err != nil {
			t.Fatalf("failed to store %s: %v", name, err)
		}
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("failed to clear cache: %v", err)
	}

	for _, name := range []string{"a.tsv", "b.tsv", "c.tsv"} {
		if c.Has(name) {
			t.Fatalf("entry %s survived a clear", name)
		}
	}

	// The root must be recreated empty and immediately usable.
	if _, err := c.Store("d.tsv", strings.NewReader("y")); err != nil {
		t.Fatalf("cache unusable after clear: %v", err)
	}
}

func TestCacheLeavesNoTempFilesOnFailure(t *testing.T) {
	c := createTestCache(t)

	if _, err := c.Store("fail.tsv", failingReader{}); err == nil {
		t.Fatal("expected store to fail")
	}
	if c.Has("fail.tsv") {
		t.Fatal("failed store left a cache entry")
	}

	entries, err := os.ReadDir(c.Root())
	if err != nil {
		t.Fatalf("failed to read cache root: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("failed store left %d files behind", len(entries))
	}
}

type failingReader struct{}

func (failingReader) Read(p []byte) (int, error) {
	return 0, os.ErrDeadlineExceeded
}
