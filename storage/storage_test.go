package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteCreatesDirectory(t *testing.T) {
	root := t.TempDir()
	s := New(root)
	path, err := s.Write(filepath.Join("out", "nested"), "base16-example-scheme.txt", []byte("background: 181818"))
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if path != filepath.Join(root, "out", "nested", "base16-example-scheme.txt") {
		t.Fatalf("unexpected path %s", path)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != "background: 181818" {
		t.Fatalf("unexpected content %q", raw)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind")
	}
}

func TestWriteOverwrites(t *testing.T) {
	s := New(t.TempDir())
	if _, err := s.Write("out", "a.txt", []byte("one")); err != nil {
		t.Fatal(err)
	}
	path, err := s.Write("out", "a.txt", []byte("two"))
	if err != nil {
		t.Fatal(err)
	}
	if raw, _ := os.ReadFile(path); string(raw) != "two" {
		t.Fatalf("expected overwrite, got %q", raw)
	}
}

func TestCleanRemovesOnlyMatchingFiles(t *testing.T) {
	root := t.TempDir()
	s := New(root)
	for _, name := range []string{"base16-a.txt", "base16-b.txt", "base16-c.conf", "other.txt", "README.md"} {
		if _, err := s.Write("out", name, []byte("x")); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(root, "out", "base16-dir.txt"), 0o755); err != nil {
		t.Fatal(err)
	}
	removed, err := s.Clean("out", "base16-", ".txt")
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	if len(removed) != 2 || removed[0] != "base16-a.txt" || removed[1] != "base16-b.txt" {
		t.Fatalf("unexpected removed set %v", removed)
	}
	left, err := s.list("out", "", "")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"README.md", "base16-c.conf", "other.txt"}
	if len(left) != len(want) {
		t.Fatalf("unexpected remaining files %v", left)
	}
	for i := range want {
		if left[i] != want[i] {
			t.Fatalf("remaining[%d] = %s, want %s", i, left[i], want[i])
		}
	}
}

func TestCleanWithoutPrefix(t *testing.T) {
	s := New(t.TempDir())
	for _, name := range []string{"ocean.yml", "eighties.yml", "keep.json"} {
		if _, err := s.Write("themes", name, []byte("x")); err != nil {
			t.Fatal(err)
		}
	}
	removed, err := s.Clean("themes", "", ".yml")
	if err != nil {
		t.Fatal(err)
	}
	if len(removed) != 2 {
		t.Fatalf("expected 2 removals, got %v", removed)
	}
}

func TestCleanMissingDirectory(t *testing.T) {
	s := New(t.TempDir())
	removed, err := s.Clean("does-not-exist", "base16-", ".txt")
	if err != nil || len(removed) != 0 {
		t.Fatalf("expected no-op, got %v %v", removed, err)
	}
}

func TestAbsoluteDirIgnoresRoot(t *testing.T) {
	abs := t.TempDir()
	s := New(t.TempDir())
	path, err := s.Write(abs, "x.txt", []byte("x"))
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Dir(path) != abs {
		t.Fatalf("expected file under %s, got %s", abs, path)
	}
}
