package site

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/ley/internal/ley"
)

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestBuildFile_IntoDirectory(t *testing.T) {
	src := writeSource(t, t.TempDir(), "hello.ley", "!title:{Hello} !:{World}")
	dst := t.TempDir()

	got, err := BuildFile(context.Background(), src, dst, "")
	if err != nil {
		t.Fatalf("BuildFile: %v", err)
	}
	if want := filepath.Join(dst, "hello.html"); got != want {
		t.Errorf("path = %q, want %q", got, want)
	}
	data, _ := os.ReadFile(got)
	if !strings.Contains(string(data), "<title>Hello</title>") || !strings.Contains(string(data), "<p>World </p>") {
		t.Errorf("output = %s", data)
	}
}

func TestBuildFile_ExplicitFile(t *testing.T) {
	src := writeSource(t, t.TempDir(), "a.ley", "text")
	dst := filepath.Join(t.TempDir(), "nested", "out.html")

	got, err := BuildFile(context.Background(), src, dst, "print.css")
	if err != nil {
		t.Fatalf("BuildFile: %v", err)
	}
	if got != dst {
		t.Errorf("path = %q, want %q", got, dst)
	}
	data, _ := os.ReadFile(dst)
	if !strings.Contains(string(data), `href="print.css"`) {
		t.Errorf("style not applied: %s", data)
	}
}

func TestBuildFile_MissingDirectory(t *testing.T) {
	src := writeSource(t, t.TempDir(), "page.ley", "!title:{Page} text")
	dst := filepath.Join(t.TempDir(), "site")

	got, err := BuildFile(context.Background(), src, dst, "")
	if err != nil {
		t.Fatalf("BuildFile: %v", err)
	}
	if want := filepath.Join(dst, "page.html"); got != want {
		t.Errorf("path = %q, want %q", got, want)
	}
	info, err := os.Stat(dst)
	if err != nil || !info.IsDir() {
		t.Fatalf("destination is not a directory: %v", err)
	}
	if _, err := os.Stat(got); err != nil {
		t.Errorf("page not written: %v", err)
	}
}

func TestBuildFile_ExistingFile(t *testing.T) {
	src := writeSource(t, t.TempDir(), "page.ley", "text")
	dst := writeSource(t, t.TempDir(), "out", "old")

	got, err := BuildFile(context.Background(), src, dst, "")
	if err != nil {
		t.Fatalf("BuildFile: %v", err)
	}
	if got != dst {
		t.Errorf("path = %q, want %q", got, dst)
	}
	data, _ := os.ReadFile(dst)
	if !strings.Contains(string(data), "<body>") {
		t.Errorf("output = %s", data)
	}
}

func TestBuildFile_ParseError(t *testing.T) {
	src := writeSource(t, t.TempDir(), "bad.ley", "!:{hello")
	dst := t.TempDir()

	if _, err := BuildFile(context.Background(), src, dst, ""); !errors.Is(err, ley.ErrUnclosedSection) {
		t.Fatalf("err = %v, want UnclosedSection", err)
	}
	if _, err := os.Stat(filepath.Join(dst, "bad.html")); !os.IsNotExist(err) {
		t.Error("output written for failed parse")
	}
}

func TestBuildFile_MissingSource(t *testing.T) {
	if _, err := BuildFile(context.Background(), filepath.Join(t.TempDir(), "nope.ley"), t.TempDir(), ""); err == nil {
		t.Error("expected error")
	}
}
