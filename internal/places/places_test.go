package places

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "places.json")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return store, path
}

func TestAddAndGet(t *testing.T) {
	store, _ := openTemp(t)

	if err := store.Add("Home", "123 Main St, Springfield"); err != nil {
		t.Fatalf("add: %v", err)
	}

	addr, err := store.Get("Home")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if addr != "123 Main St, Springfield" {
		t.Errorf("address = %q", addr)
	}
}

func TestGetIsCaseInsensitive(t *testing.T) {
	store, _ := openTemp(t)
	if err := store.Add("Home", "123 Main St"); err != nil {
		t.Fatalf("add: %v", err)
	}

	for _, name := range []string{"Home", "home", "HOME"} {
		if _, err := store.Get(name); err != nil {
			t.Errorf("Get(%q): %v", name, err)
		}
	}
}

func TestGetUnknownName(t *testing.T) {
	store, _ := openTemp(t)

	_, err := store.Get("Cabin")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAddOverwrites(t *testing.T) {
	store, _ := openTemp(t)
	store.Add("Home", "old address")
	store.Add("Home", "new address")

	addr, err := store.Get("Home")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if addr != "new address" {
		t.Errorf("address = %q, want the newer value", addr)
	}
}

func TestRemove(t *testing.T) {
	store, _ := openTemp(t)
	store.Add("Home", "123 Main St")

	removed, err := store.Remove("Home")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if !removed {
		t.Error("expected removed=true")
	}
	if _, err := store.Get("Home"); !errors.Is(err, ErrNotFound) {
		t.Errorf("place still resolvable after remove: %v", err)
	}
}

func TestRemoveMissing(t *testing.T) {
	store, _ := openTemp(t)

	removed, err := store.Remove("Ghost")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if removed {
		t.Error("expected removed=false for an unknown name")
	}
}

func TestListReturnsCopy(t *testing.T) {
	store, _ := openTemp(t)
	store.Add("Home", "123 Main St")
	store.Add("Cabin", "1 Forest Rd")

	listed := store.List()
	if len(listed) != 2 {
		t.Fatalf("listed %d places, want 2", len(listed))
	}

	listed["Home"] = "tampered"
	addr, _ := store.Get("Home")
	if addr != "123 Main St" {
		t.Error("mutating the listed map must not affect the store")
	}
}

func TestPersistsAcrossReload(t *testing.T) {
	store, path := openTemp(t)
	if err := store.Add("Home", "123 Main St"); err != nil {
		t.Fatalf("add: %v", err)
	}

	reloaded, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	addr, err := reloaded.Get("Home")
	if err != nil {
		t.Fatalf("get after reload: %v", err)
	}
	if addr != "123 Main St" {
		t.Errorf("address = %q", addr)
	}
}

func TestCorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "places.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	store, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if len(store.List()) != 0 {
		t.Error("corrupt registry should start empty")
	}
}

func TestOpenMissingFile(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "nested", "places.json"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := store.Add("Home", "123 Main St"); err != nil {
		t.Fatalf("add should create parent directories: %v", err)
	}
}
