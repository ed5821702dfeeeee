package cache

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
)

func setupTestCache(t *testing.T) *Cache {
	t.Helper()
	cache, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	t.Cleanup(func() { cache.Close() })
	return cache
}

func TestCacheOpenClose(t *testing.T) {
	tmpDir := t.TempDir()

	cache, err := Open(tmpDir)
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	if want := filepath.Join(tmpDir, FileName); cache.Path() != want {
		t.Errorf("path = %q, want %q", cache.Path(), want)
	}
	if err := cache.MarkClean("src/lib.rs", "h1"); err != nil {
		t.Fatalf("mark clean: %v", err)
	}
	if err := cache.Close(); err != nil {
		t.Errorf("close: %v", err)
	}

	// Entries survive a reopen.
	cache2, err := Open(tmpDir)
	if err != nil {
		t.Fatalf("reopen cache: %v", err)
	}
	defer cache2.Close()
	if ok, err := cache2.IsClean("src/lib.rs", "h1"); err != nil || !ok {
		t.Errorf("IsClean after reopen = %v, %v", ok, err)
	}
}

func TestIsClean(t *testing.T) {
	cache := setupTestCache(t)

	if ok, err := cache.IsClean("a.rs", "h1"); err != nil || ok {
		t.Errorf("IsClean(unknown) = %v, %v, want false", ok, err)
	}

	if err := cache.MarkClean("a.rs", "h1"); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		hash string
		want bool
	}{
		{"h1", true},
		{"h2", false},
	}
	for _, tt := range tests {
		ok, err := cache.IsClean("a.rs", tt.hash)
		if err != nil {
			t.Fatalf("IsClean: %v", err)
		}
		if ok != tt.want {
			t.Errorf("IsClean(a.rs, %s) = %v, want %v", tt.hash, ok, tt.want)
		}
	}

	if err := cache.MarkClean("a.rs", "h2"); err != nil {
		t.Fatal(err)
	}
	if ok, _ := cache.IsClean("a.rs", "h1"); ok {
		t.Error("old hash still clean after update")
	}
	e, err := cache.Entry("a.rs")
	if err != nil {
		t.Fatal(err)
	}
	if e.Fingerprint != "h2" || e.Hits != 0 {
		t.Errorf("entry after update = %+v, want h2 with no hits", e)
	}

	if err := cache.Forget("a.rs"); err != nil {
		t.Fatal(err)
	}
	if _, err := cache.Entry("a.rs"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("Entry after Forget error = %v, want sql.ErrNoRows", err)
	}
}

func TestStatsClearPrune(t *testing.T) {
	cache := setupTestCache(t)
	for _, p := range []string{"a.rs", "b.rs", "c.rs"} {
		if err := cache.MarkClean(p, Hash([]byte(p), "x")); err != nil {
			t.Fatal(err)
		}
	}

	for i := 0; i < 2; i++ {
		if ok, err := cache.IsClean("a.rs", Hash([]byte("a.rs"), "x")); err != nil || !ok {
			t.Fatalf("IsClean(a.rs) = %v, %v", ok, err)
		}
	}

	stats, err := cache.GetStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.Files != 3 || stats.Hits != 2 {
		t.Errorf("stats = %+v, want 3 files and 2 hits", stats)
	}

	pruned, err := cache.Prune(func(path string) bool { return path == "b.rs" })
	if err != nil {
		t.Fatal(err)
	}
	if pruned != 2 {
		t.Errorf("pruned = %d, want 2", pruned)
	}
	entries, err := cache.Entries()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Path != "b.rs" || entries[0].RecordedAt.IsZero() {
		t.Errorf("entries = %+v", entries)
	}

	if err := cache.Clear(); err != nil {
		t.Fatal(err)
	}
	if stats, _ := cache.GetStats(); stats.Files != 0 || stats.Hits != 0 {
		t.Errorf("stats after Clear = %+v", stats)
	}
}

func TestSchemaVersion(t *testing.T) {
	dir := t.TempDir()
	cache, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := cache.MarkClean("a.rs", "h1"); err != nil {
		t.Fatal(err)
	}
	// A database from another schema version is rebuilt on open.
	if _, err := cache.db.Exec("PRAGMA user_version = 99"); err != nil {
		t.Fatal(err)
	}
	cache.Close()

	cache, err = Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer cache.Close()
	if stats, err := cache.GetStats(); err != nil || stats.Files != 0 {
		t.Errorf("stats after rebuild = %+v, %v", stats, err)
	}
	var version int
	if err := cache.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil || version != schemaVersion {
		t.Errorf("user_version = %d, %v, want %d", version, err, schemaVersion)
	}
}

func TestHash(t *testing.T) {
	a := Hash([]byte("fn f() {}"), "convert_if_to_filter")
	if len(a) != 64 {
		t.Errorf("len(Hash) = %d, want 64", len(a))
	}
	if a != Hash([]byte("fn f() {}"), "convert_if_to_filter") {
		t.Error("Hash is not deterministic")
	}
	if a == Hash([]byte("fn f() {}"), "") {
		t.Error("Hash ignores the assist set")
	}
	if a == Hash([]byte("fn g() {}"), "convert_if_to_filter") {
		t.Error("Hash ignores content")
	}
}
