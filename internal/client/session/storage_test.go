package session

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileStorage_LoadMissingFile(t *testing.T) {
	fs := NewFileStorage(filepath.Join(t.TempDir(), "token.json"))

	token, err := fs.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if token != "" {
		t.Errorf("expected empty token, got %q", token)
	}
}

func TestFileStorage_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	fs := NewFileStorage(path)

	if err := fs.Save("abc123"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected mode 0600, got %v", info.Mode().Perm())
	}

	token, err := fs.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if token != "abc123" {
		t.Errorf("expected abc123, got %q", token)
	}
}

func TestFileStorage_Clear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	fs := NewFileStorage(path)

	if err := fs.Clear(); err != nil {
		t.Fatalf("Clear on missing file failed: %v", err)
	}

	if err := fs.Save("tok"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := fs.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	token, err := fs.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if token != "" {
		t.Errorf("expected empty token after Clear, got %q", token)
	}
}

func TestFileStorage_LoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	if err := os.WriteFile(path, []byte("not json"), 0600); err != nil {
		t.Fatal(err)
	}

	fs := NewFileStorage(path)
	if _, err := fs.Load(); err == nil {
		t.Error("expected error for corrupt token file")
	}
}
