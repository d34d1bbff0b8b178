package site

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/ley/internal/ley"
	"github.com/starford/ley/internal/render"
	"github.com/starford/ley/internal/storage"
)

// BuildFile renders a single source file. dst names the output file when it
// ends in .html or is an existing non-directory; otherwise it is a directory,
// created if missing, and the page is written there as <stem>.html. It
// returns the path written.
func BuildFile(ctx context.Context, src, dst, style string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return "", fmt.Errorf("site: read source: %w", err)
	}
	doc, err := ley.Parse(string(data), ley.WithStyle(style))
	if err != nil {
		return "", fmt.Errorf("site: %s: %w", src, err)
	}

	dir, name := dst, strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))+".html"
	if isOutputFile(dst) {
		dir, name = filepath.Split(dst)
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("site: mkdir: %w", err)
	}

	out, err := storage.NewFS(dir)
	if err != nil {
		return "", err
	}
	if err := out.Write(name, []byte(render.HTML(doc))); err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

func isOutputFile(dst string) bool {
	if dst == "" {
		return false
	}
	if strings.EqualFold(filepath.Ext(dst), ".html") {
		return true
	}
	info, err := os.Stat(dst)
	return err == nil && !info.IsDir()
}
