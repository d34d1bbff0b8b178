package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func tempTree(t *testing.T) *FS {
	t.Helper()
	fs, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

func TestWriteAndRead(t *testing.T) {
	s := tempTree(t)
	content := []byte("!title:{Hello} World")
	if err := s.Write("page.ley", content); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("page.ley")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: got %q", got)
	}
	if !s.Exists("page.ley") {
		t.Error("Exists = false after write")
	}
}

func TestWriteCreatesSubdirs(t *testing.T) {
	s := tempTree(t)
	if err := s.Write("a/b/c.html", []byte("deep")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("a/b/c.html")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "deep" {
		t.Errorf("content = %q", got)
	}
}

func TestDelete(t *testing.T) {
	s := tempTree(t)
	_ = s.Write("del.html", []byte("bye"))
	if err := s.Delete("del.html"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if s.Exists("del.html") {
		t.Error("file still exists after delete")
	}
	if _, err := s.Read("del.html"); err == nil {
		t.Error("expected error reading deleted file")
	}
}

func TestListFiltersByExtension(t *testing.T) {
	s := tempTree(t)
	_ = s.Write("b.ley", []byte("b"))
	_ = s.Write("a.ley", []byte("a"))
	_ = s.Write("sub/c.ley", []byte("c"))
	_ = s.Write("readme.txt", []byte("not ley"))

	items, err := s.List("", ".ley")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("len = %d, want 3", len(items))
	}
	want := []string{"a.ley", "b.ley", "sub/c.ley"}
	for i, w := range want {
		if items[i].Path != w {
			t.Errorf("items[%d] = %q, want %q", i, items[i].Path, w)
		}
		if items[i].Checksum == "" {
			t.Errorf("items[%d] has no checksum", i)
		}
	}
}

func TestTraversalBlocked(t *testing.T) {
	s := tempTree(t)
	for _, p := range []string{"../../etc/passwd", "../outside.ley", "/etc/shadow"} {
		if _, err := s.Read(p); err == nil {
			t.Errorf("expected error for path %q", p)
		}
		if err := s.Write(p, []byte("x")); err == nil {
			t.Errorf("expected error for write to %q", p)
		}
		if s.Exists(p) {
			t.Errorf("Exists(%q) = true", p)
		}
	}
}

func TestAtomicWriteLeavesNoTempFiles(t *testing.T) {
	s := tempTree(t)
	_ = s.Write("atomic.html", []byte("original"))
	if err := s.Write("atomic.html", []byte("updated")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, _ := s.Read("atomic.html")
	if string(got) != "updated" {
		t.Errorf("expected updated content, got %q", got)
	}
	matches, _ := filepath.Glob(filepath.Join(s.Root(), ".ley-tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestNewFS_NonExistentDir(t *testing.T) {
	if _, err := NewFS(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for non-existent dir")
	}
}

func TestNewFS_FileNotDir(t *testing.T) {
	f, _ := os.CreateTemp("", "ley-test-*")
	_ = f.Close()
	defer os.Remove(f.Name())
	if _, err := NewFS(f.Name()); err == nil {
		t.Error("expected error when root is a file")
	}
}
