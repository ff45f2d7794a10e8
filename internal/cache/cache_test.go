package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDocumentKey(t *testing.T) {
	a := DocumentKey([]byte("document one"))
	b := DocumentKey([]byte("document one"))
	c := DocumentKey([]byte("document two"))

	if !strings.HasPrefix(a, "morespeech:v1:") {
		t.Errorf("key %q missing version prefix", a)
	}
	if a != b {
		t.Error("identical documents must produce identical keys")
	}
	if a == c {
		t.Error("different documents must produce different keys")
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("expected a miss for an unknown key")
	}

	if err := c.Set("key", []byte("value"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	val, found := c.Get("key")
	if !found || string(val) != "value" {
		t.Errorf("Get = %q, %v", val, found)
	}

	if err := c.Delete("key"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, found := c.Get("key"); found {
		t.Error("expected a miss after delete")
	}
}

func TestDiskCache(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Minute)

	if err := c.Set("key", []byte("value"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	val, found := c.Get("key")
	if !found || string(val) != "value" {
		t.Errorf("Get = %q, %v", val, found)
	}

	// A fresh instance over the same directory still sees the entry.
	c2 := NewDiskCache(dir, time.Minute)
	if _, found := c2.Get("key"); !found {
		t.Error("expected the entry to survive a restart")
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, found := c.Get("key"); found {
		t.Error("expected a miss after clear")
	}
}

func TestDiskCache_Expiry(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)

	if err := c.Set("key", []byte("value"), time.Nanosecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, found := c.Get("key"); found {
		t.Error("expected an expired entry to miss")
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()

	first := NewLayeredCache(time.Minute, dir, time.Minute)
	if err := first.Set("key", []byte("value"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// A new layered cache over the same directory starts with cold memory;
	// the first read comes from disk and is promoted.
	second := NewLayeredCache(time.Minute, dir, time.Minute)
	val, found := second.Get("key")
	if !found || string(val) != "value" {
		t.Fatalf("Get = %q, %v", val, found)
	}
	if _, found := second.memory.Get("key"); !found {
		t.Error("expected the disk hit to be promoted to memory")
	}
}

func TestLayeredCache_Delete(t *testing.T) {
	c := NewLayeredCache(time.Minute, t.TempDir(), time.Minute)

	if err := c.Set("key", []byte("value"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := c.Delete("key"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, found := c.Get("key"); found {
		t.Error("expected a miss after delete")
	}
}

func TestDiskCache_DeleteMissing(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)

	if err := c.Delete("absent"); err != nil {
		t.Errorf("Delete of a missing entry: %v", err)
	}
}

func TestDiskCache_CorruptEntryIsMiss(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Minute)

	if err := os.WriteFile(filepath.Join(dir, "key.json"), []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, found := c.Get("key"); found {
		t.Error("expected a miss for a corrupt entry")
	}
}
