package session

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "token"))
}

func TestTokenEmptyWhenMissing(t *testing.T) {
	s := newTestStore(t)
	if got := s.Token(); got != "" {
		t.Fatalf("Token() = %q, want empty", got)
	}
	if s.Authenticated() {
		t.Fatal("Authenticated() = true for empty store")
	}
}

func TestSetThenToken(t *testing.T) {
	s := newTestStore(t)
	if err := s.Set("abc123"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := s.Token(); got != "abc123" {
		t.Fatalf("Token() = %q, want %q", got, "abc123")
	}
	if !s.Authenticated() {
		t.Fatal("Authenticated() = false after Set")
	}
}

func TestSetRejectsEmpty(t *testing.T) {
	s := newTestStore(t)
	if err := s.Set("   "); err == nil {
		t.Fatal("expected error storing blank token")
	}
}

func TestClear(t *testing.T) {
	s := newTestStore(t)
	if err := s.Set("abc123"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if got := s.Token(); got != "" {
		t.Fatalf("Token() after Clear = %q, want empty", got)
	}

	// Clearing twice is fine.
	if err := s.Clear(); err != nil {
		t.Fatalf("second Clear: %v", err)
	}
}

func TestReadThrough(t *testing.T) {
	// A second store on the same path observes writes from the first
	// without any refresh call.
	path := filepath.Join(t.TempDir(), "token")
	a := NewStore(path)
	b := NewStore(path)

	if err := a.Set("shared"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := b.Token(); got != "shared" {
		t.Fatalf("second store Token() = %q, want %q", got, "shared")
	}

	if err := b.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if got := a.Token(); got != "" {
		t.Fatalf("first store Token() after Clear = %q, want empty", got)
	}
}

func TestTokenFilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not meaningful on windows")
	}

	s := newTestStore(t)
	if err := s.Set("abc123"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	info, err := os.Stat(filepath.Join(filepath.Dir(s.path), "token"))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Fatalf("token file mode = %o, want 0600", perm)
	}
}

func TestTokenTrimsWhitespace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte("abc123\n"), 0600); err != nil {
		t.Fatalf("seed token file: %v", err)
	}
	s := NewStore(path)
	if got := s.Token(); got != "abc123" {
		t.Fatalf("Token() = %q, want %q", got, "abc123")
	}
}
