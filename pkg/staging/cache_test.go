package staging

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/draylabs/dray/pkg/types"
)

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestCache_PathFor_Deterministic(t *testing.T) {
	cache, err := NewCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}

	session := types.Session("session-1")
	p1 := cache.PathFor("/data/input.csv", session)
	p2 := cache.PathFor("/data/input.csv", session)

	if p1 != p2 {
		t.Errorf("PathFor() not deterministic: %v != %v", p1, p2)
	}
}

func TestCache_PathFor_SessionsDoNotCollide(t *testing.T) {
	cache, err := NewCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}

	p1 := cache.PathFor("/data/input.csv", types.Session("session-1"))
	p2 := cache.PathFor("/data/input.csv", types.Session("session-2"))

	if p1 == p2 {
		t.Errorf("PathFor() collided across sessions: %v", p1)
	}
}

func TestCache_PathFor_SourcesDoNotCollide(t *testing.T) {
	cache, err := NewCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}

	session := types.Session("session-1")
	p1 := cache.PathFor("/data/a/input.csv", session)
	p2 := cache.PathFor("/data/b/input.csv", session)

	if p1 == p2 {
		t.Errorf("PathFor() collided across sources: %v", p1)
	}
}

func TestCache_Ensure_PopulatesEntry(t *testing.T) {
	srcDir := t.TempDir()
	source := writeSource(t, srcDir, "input.txt", "hello")

	cache, err := NewCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}

	entry, err := cache.Ensure(context.Background(), source, types.Session("s1"))
	if err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}

	if entry != cache.PathFor(source, types.Session("s1")) {
		t.Errorf("Ensure() = %v, want PathFor result", entry)
	}

	content, err := os.ReadFile(entry)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(content) != "hello" {
		t.Errorf("cache entry content = %q, want %q", content, "hello")
	}
}

func TestCache_Ensure_Idempotent(t *testing.T) {
	srcDir := t.TempDir()
	source := writeSource(t, srcDir, "input.txt", "original")

	cache, err := NewCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}

	session := types.Session("s1")
	entry1, err := cache.Ensure(context.Background(), source, session)
	if err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}

	// A changed source must not be re-copied: the entry is keyed by
	// identity, not content, and population happens at most once.
	if err := os.WriteFile(source, []byte("modified"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	entry2, err := cache.Ensure(context.Background(), source, session)
	if err != nil {
		t.Fatalf("Ensure() second call error = %v", err)
	}
	if entry1 != entry2 {
		t.Errorf("Ensure() returned different paths: %v != %v", entry1, entry2)
	}

	content, _ := os.ReadFile(entry2)
	if string(content) != "original" {
		t.Errorf("Ensure() re-populated existing entry: content = %q", content)
	}
}

func TestCache_Ensure_MissingSource(t *testing.T) {
	cache, err := NewCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}

	_, err = cache.Ensure(context.Background(), "/nonexistent/input.txt", types.Session("s1"))
	if err == nil {
		t.Error("Ensure() with missing source should return error")
	}
}

func TestCache_Ensure_Cancelled(t *testing.T) {
	srcDir := t.TempDir()
	source := writeSource(t, srcDir, "input.txt", "hello")

	cache, err := NewCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := cache.Ensure(ctx, source, types.Session("s1")); err == nil {
		t.Error("Ensure() with cancelled context should return error")
	}
}

func TestCache_Ensure_Concurrent(t *testing.T) {
	srcDir := t.TempDir()
	content := make([]byte, 1<<20)
	for i := range content {
		content[i] = byte(i % 251)
	}
	source := filepath.Join(srcDir, "big.bin")
	if err := os.WriteFile(source, content, 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cache, err := NewCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}
	session := types.Session("s1")

	const callers = 8
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			entry, err := cache.Ensure(context.Background(), source, session)
			if err != nil {
				errs <- err
				return
			}
			// Every caller must observe a complete entry, never a
			// partially written one.
			got, err := os.ReadFile(entry)
			if err != nil {
				errs <- err
				return
			}
			if len(got) != len(content) {
				errs <- fmt.Errorf("observed partial entry: %d of %d bytes", len(got), len(content))
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent Ensure(): %v", err)
	}
}

func TestCache_Remove_BestEffort(t *testing.T) {
	srcDir := t.TempDir()
	source := writeSource(t, srcDir, "input.txt", "hello")

	cache, err := NewCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}

	entry, err := cache.Ensure(context.Background(), source, types.Session("s1"))
	if err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}

	// A missing entry in the list must not stop the real one from going.
	cache.Remove([]string{filepath.Join(cache.Root(), "already-gone"), entry})

	if _, err := os.Lstat(entry); !os.IsNotExist(err) {
		t.Error("Remove() did not delete the cache entry")
	}
}

func TestCache_Close(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	cache, err := NewCache(dir)
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}

	if err := cache.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("Close() did not remove the cache directory")
	}
}
