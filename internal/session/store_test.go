// ABOUTME: Tests for session persistence
// ABOUTME: Validates file storage, corrupt-file recovery, and clearing

package session

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileStore_Empty(t *testing.T) {
	fs := NewFileStore(t.TempDir())

	token, err := fs.Token()
	if err != nil {
		t.Fatalf("Token() error: %v", err)
	}
	if token != "" {
		t.Errorf("expected no token, got %q", token)
	}
}

func TestFileStore_SetTokenAndRole(t *testing.T) {
	dir := t.TempDir()
	fs := NewFileStore(dir)

	if err := fs.SetToken("abc"); err != nil {
		t.Fatalf("SetToken() error: %v", err)
	}
	if err := fs.SetRole("ADMIN"); err != nil {
		t.Fatalf("SetRole() error: %v", err)
	}

	// A fresh store over the same directory sees the persisted values
	reopened := NewFileStore(dir)
	token, _ := reopened.Token()
	role, _ := reopened.Role()
	if token != "abc" {
		t.Errorf("expected token abc, got %q", token)
	}
	if role != "ADMIN" {
		t.Errorf("expected role ADMIN, got %q", role)
	}
}

func TestFileStore_SetTokenKeepsRole(t *testing.T) {
	fs := NewFileStore(t.TempDir())
	fs.SetRole("USER")
	fs.SetToken("next")

	role, _ := fs.Role()
	if role != "USER" {
		t.Errorf("expected role to survive SetToken, got %q", role)
	}
}

func TestFileStore_Clear(t *testing.T) {
	fs := NewFileStore(t.TempDir())
	fs.SetToken("abc")
	fs.SetRole("USER")

	if err := fs.Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	// Clearing twice is fine
	if err := fs.Clear(); err != nil {
		t.Fatalf("second Clear() error: %v", err)
	}

	token, _ := fs.Token()
	role, _ := fs.Role()
	if token != "" || role != "" {
		t.Errorf("expected empty session after Clear, got token=%q role=%q", token, role)
	}
	if _, err := os.Stat(fs.Path()); !os.IsNotExist(err) {
		t.Error("expected session file to be removed")
	}
}

func TestFileStore_CorruptFileIsEmpty(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	fs := NewFileStore(dir)
	token, err := fs.Token()
	if err != nil {
		t.Fatalf("Token() error: %v", err)
	}
	if token != "" {
		t.Errorf("expected corrupt file to read as empty, got %q", token)
	}

	// And it can be overwritten
	if err := fs.SetToken("fresh"); err != nil {
		t.Fatalf("SetToken() error: %v", err)
	}
	if token, _ := fs.Token(); token != "fresh" {
		t.Errorf("expected fresh, got %q", token)
	}
}

func TestFileStore_CreatesConfigDir(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "lostfound")
	fs := NewFileStore(configDir)

	if err := fs.SetToken("abc"); err != nil {
		t.Fatalf("SetToken() error: %v", err)
	}

	info, err := os.Stat(fs.Path())
	if err != nil {
		t.Fatalf("expected session file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("expected session file mode 0600, got %o", perm)
	}

	entries, _ := os.ReadDir(configDir)
	if len(entries) != 1 {
		t.Errorf("expected only the session file in config dir, found %d entries", len(entries))
	}
}

func TestMemoryStore(t *testing.T) {
	m := NewMemoryStore("seed")

	if token, _ := m.Token(); token != "seed" {
		t.Errorf("expected seed token, got %q", token)
	}
	m.SetRole("STAFF")
	m.Clear()

	token, _ := m.Token()
	role, _ := m.Role()
	if token != "" || role != "" {
		t.Errorf("expected cleared store, got token=%q role=%q", token, role)
	}
}
