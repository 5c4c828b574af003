package trace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRecorderRotation(t *testing.T) {
	dir := t.TempDir()

	for i := 0; i < MaxRotatedFiles+2; i++ {
		r, err := NewRecorder(dir)
		if err != nil {
			t.Fatal(err)
		}
		r.LogStep("plus", 0, map[string]string{"dobj": "1"}, nil, 1)
		if err := r.Close(); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond) // ensure distinct mod times
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != MaxRotatedFiles {
		t.Errorf("expected %d files, got %d", MaxRotatedFiles, len(entries))
	}
}

func TestRecorderLogsOneLinePerStep(t *testing.T) {
	dir := t.TempDir()

	r, err := NewRecorder(dir)
	if err != nil {
		t.Fatal(err)
	}
	r.LogStep("plus", 0, map[string]string{"dobj": "1"}, []string{"a"}, 4)
	r.LogStep("plus", 1, map[string]string{"iobj": "3"}, []string{"b"}, 1)
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 file, got %d", len(entries))
	}

	content, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	for _, line := range lines {
		if !strings.HasPrefix(line, `{"ts":`) {
			t.Errorf("unexpected line format: %s", line)
		}
	}
}

func TestNewRecorderRequiresDirectory(t *testing.T) {
	if _, err := NewRecorder(""); err == nil {
		t.Error("expected an error for an empty directory")
	}
}
