package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// The package keeps global state; Initialize resets it, so each test
// reinitializes with its own directory.

func TestDisabledIsNoop(t *testing.T) {
	dir := t.TempDir()
	if err := Initialize(dir, false, "info"); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	Get(CategoryAPI).Info("should go nowhere")
	Sync()

	if _, err := os.Stat(filepath.Join(dir, "logs")); !os.IsNotExist(err) {
		t.Fatalf("expected no logs directory, stat err = %v", err)
	}
}

func TestEnabledWritesCategoryFile(t *testing.T) {
	dir := t.TempDir()
	if err := Initialize(dir, true, "debug"); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	Get(CategoryChat).Info("conversation started")
	Sync()

	data, err := os.ReadFile(filepath.Join(dir, "logs", "chat.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "conversation started") {
		t.Fatalf("log content missing entry: %q", string(data))
	}
}

func TestLevelFiltering(t *testing.T) {
	dir := t.TempDir()
	if err := Initialize(dir, true, "error"); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	Get(CategoryNews).Info("filtered out")
	Get(CategoryNews).Error("kept")
	Sync()

	data, err := os.ReadFile(filepath.Join(dir, "logs", "news.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if strings.Contains(string(data), "filtered out") {
		t.Fatal("info entry should have been filtered at error level")
	}
	if !strings.Contains(string(data), "kept") {
		t.Fatal("error entry missing")
	}
}
