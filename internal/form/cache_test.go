package form

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

const cacheDefV1 = `
id: cached
fields:
  - name: email
    type: email
    required: true
`

const cacheDefV2 = `
id: cached
fields:
  - name: email
    type: email
    required: true
  - name: city
    required: true
`

func TestFileCacheReloadsOnChange(t *testing.T) {
	p := filepath.Join(t.TempDir(), "def.yaml")
	if err := os.WriteFile(p, []byte(cacheDefV1), 0o644); err != nil {
		t.Fatal(err)
	}

	var c FileCache
	f1, err := c.Get(p)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	f2, err := c.Get(p)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if f1 != f2 {
		t.Fatal("unchanged file should return the cached form")
	}

	if err := os.WriteFile(p, []byte(cacheDefV2), 0o644); err != nil {
		t.Fatal(err)
	}
	// Force a distinct mtime on coarse filesystems.
	later := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(p, later, later); err != nil {
		t.Fatal(err)
	}

	f3, err := c.Get(p)
	if err != nil {
		t.Fatalf("Get after edit: %v", err)
	}
	if f3 == f1 || f3.Schema.Len() != 2 {
		t.Fatalf("expected reloaded form with 2 fields, got %d", f3.Schema.Len())
	}
	if reg, _ := Lookup("cached"); reg != f3 {
		t.Fatal("reloaded form should replace the registry entry")
	}
}

func TestFileCacheErrors(t *testing.T) {
	var c FileCache
	if _, err := c.Get(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}

	p := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(p, []byte("id: bad\nfields:\n  - name: zip\n    type: code\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Get(p); !IsConfigurationError(err) {
		t.Fatalf("want ConfigurationError, got %v", err)
	}
}

func TestFileCacheConcurrent(t *testing.T) {
	p := filepath.Join(t.TempDir(), "def.yaml")
	if err := os.WriteFile(p, []byte(cacheDefV1), 0o644); err != nil {
		t.Fatal(err)
	}

	var (
		c   FileCache
		wg  sync.WaitGroup
		mu  sync.Mutex
		got = map[*Form]struct{}{}
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f, err := c.Get(p)
			if err != nil {
				t.Error(err)
				return
			}
			mu.Lock()
			got[f] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()
	if len(got) != 1 {
		t.Fatalf("expected loads to be shared, saw %d distinct forms", len(got))
	}
}
