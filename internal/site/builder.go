// Package site builds a tree of Ley sources into a static HTML site and keeps
// the build manifest in step with it.
package site

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/starford/ley/internal/apperr"
	"github.com/starford/ley/internal/checksum"
	"github.com/starford/ley/internal/index"
	"github.com/starford/ley/internal/ley"
	"github.com/starford/ley/internal/models"
	"github.com/starford/ley/internal/registry"
	"github.com/starford/ley/internal/render"
	"github.com/starford/ley/internal/storage"
)

// SourceExt is the extension of Ley source files.
const SourceExt = ".ley"

// Event kinds passed to a NotifyFunc.
const (
	EventBuilt   = "built"
	EventRemoved = "removed"
	EventIndex   = "index"
)

// NotifyFunc is called after the builder changes the output tree. path is the
// source path for built and removed pages and the index file name otherwise.
type NotifyFunc func(kind, path string)

// Report summarises one BuildAll run.
type Report struct {
	Built   int    `json:"built"`
	Skipped int    `json:"skipped"`
	Removed int    `json:"removed"`
	Failed  int    `json:"failed"`
	Bytes   uint64 `json:"bytes"`
}

// Builder renders sources from one tree into another.
type Builder struct {
	src      storage.Provider
	out      storage.Provider
	manifest index.Manifest

	style     string
	index     bool
	workers   int
	keepGoing bool
	logger    *slog.Logger
	notify    NotifyFunc

	indexMu sync.Mutex
}

// Option configures a Builder.
type Option func(*Builder)

// WithStyle sets the stylesheet used by documents that declare none.
func WithStyle(style string) Option {
	return func(b *Builder) { b.style = style }
}

// WithIndex enables writing index.html after builds.
func WithIndex(enabled bool) Option {
	return func(b *Builder) { b.index = enabled }
}

// WithWorkers bounds how many documents are built concurrently.
func WithWorkers(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.workers = n
		}
	}
}

// WithKeepGoing makes BuildAll skip documents that fail to parse instead of
// aborting.
func WithKeepGoing(keepGoing bool) Option {
	return func(b *Builder) { b.keepGoing = keepGoing }
}

// WithLogger sets the builder logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithNotify registers a callback for output changes.
func WithNotify(fn NotifyFunc) Option {
	return func(b *Builder) { b.notify = fn }
}

// New creates a builder reading from src and writing to out.
func New(src, out storage.Provider, manifest index.Manifest, opts ...Option) *Builder {
	b := &Builder{
		src:      src,
		out:      out,
		manifest: manifest,
		workers:  4,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// OutputPath maps a source path to the page it is rendered to.
func OutputPath(source string) string {
	return strings.TrimSuffix(source, SourceExt) + ".html"
}

// SourceRoot returns the absolute path of the source tree.
func (b *Builder) SourceRoot() string {
	return b.src.Root()
}

// Style returns the fallback stylesheet.
func (b *Builder) Style() string {
	return b.style
}

// Render parses and renders source in memory.
func (b *Builder) Render(source []byte) (*ley.Document, string, error) {
	doc, err := ley.Parse(string(source), ley.WithStyle(b.style), ley.WithLogger(b.logger))
	if err != nil {
		return nil, "", err
	}
	return doc, render.HTML(doc), nil
}

// ReadSource returns the raw text of a source file.
func (b *Builder) ReadSource(rel string) ([]byte, error) {
	if !strings.HasSuffix(rel, SourceExt) || !b.src.Exists(rel) {
		return nil, apperr.ErrNotFound
	}
	data, err := b.src.Read(rel)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, apperr.ErrNotFound
	}
	return data, err
}

// BuildOne renders one source, writes its page and records it in the
// manifest. Parse failures are returned as *ley.ParseError wrapped with the
// source path.
func (b *Builder) BuildOne(_ context.Context, rel string) (*models.Page, error) {
	data, err := b.src.Read(rel)
	if err != nil {
		return nil, err
	}
	doc, html, err := b.Render(data)
	if err != nil {
		return nil, fmt.Errorf("site: %s: %w", rel, err)
	}

	out := OutputPath(rel)
	if err := b.out.Write(out, []byte(html)); err != nil {
		return nil, err
	}

	page := models.Page{
		Source:   rel,
		Output:   out,
		Title:    doc.Title.String(),
		Author:   doc.Author.String(),
		Date:     doc.Date.String(),
		Checksum: checksum.Sum(data),
		Links:    render.Links(doc),
		BuiltAt:  time.Now().UTC(),
	}
	if err := b.manifest.UpsertPage(page, render.PlainText(doc)); err != nil {
		return nil, err
	}

	b.logger.Debug("site: built",
		slog.String("source", rel),
		slog.String("output", out),
		slog.String("checksum", checksum.Short(page.Checksum)))
	b.emit(EventBuilt, rel)
	page.Links = nonNilSlice(page.Links)
	return &page, nil
}

// CreateSource writes a new source file and builds it. The content must
// parse; nothing is written otherwise.
func (b *Builder) CreateSource(ctx context.Context, rel string, content []byte) (*models.Page, error) {
	if !strings.HasSuffix(rel, SourceExt) {
		return nil, fmt.Errorf("%w: %s does not end in %s", apperr.ErrInvalidSource, rel, SourceExt)
	}
	if b.src.Exists(rel) {
		return nil, apperr.ErrAlreadyExists
	}
	if _, _, err := b.Render(content); err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrInvalidSource, err)
	}
	if err := b.src.Write(rel, content); err != nil {
		return nil, err
	}
	page, err := b.BuildOne(ctx, rel)
	if err != nil {
		return nil, err
	}
	if b.index {
		if err := b.WriteIndex(ctx); err != nil {
			return nil, err
		}
	}
	return page, nil
}

// WriteAsset stores a static file such as an image in the output tree.
func (b *Builder) WriteAsset(rel string, data []byte) error {
	if b.out.Exists(rel) {
		return apperr.ErrAlreadyExists
	}
	return b.out.Write(rel, data)
}

// Remove deletes the page built from rel and forgets it in the manifest.
func (b *Builder) Remove(rel string) error {
	out := OutputPath(rel)
	if b.out.Exists(out) {
		if err := b.out.Delete(out); err != nil {
			return err
		}
	}
	if err := b.manifest.DeletePage(rel); err != nil {
		return err
	}
	b.logger.Debug("site: removed", slog.String("source", rel), slog.String("output", out))
	b.emit(EventRemoved, rel)
	return nil
}

// BuildAll brings the output tree up to date with the source tree. Sources
// whose checksum matches the manifest are skipped while their page exists.
// Pages of vanished sources are removed. The index is rewritten last.
func (b *Builder) BuildAll(ctx context.Context) (*Report, error) {
	start := time.Now()

	sources, err := b.src.List("", SourceExt)
	if err != nil {
		return nil, err
	}
	known, err := b.manifest.AllChecksums()
	if err != nil {
		return nil, err
	}

	var (
		mu     sync.Mutex
		report Report
	)
	onDisk := make(map[string]struct{}, len(sources))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for _, s := range sources {
		onDisk[s.Path] = struct{}{}
		if known[s.Path] == s.Checksum && b.out.Exists(OutputPath(s.Path)) {
			report.Skipped++
			continue
		}

		s := s
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			_, err := b.BuildOne(gCtx, s.Path)

			mu.Lock()
			defer mu.Unlock()
			var perr *ley.ParseError
			switch {
			case err == nil:
				report.Built++
				if data, rerr := b.out.Read(OutputPath(s.Path)); rerr == nil {
					report.Bytes += uint64(len(data))
				}
				return nil
			case b.keepGoing && errors.As(err, &perr):
				report.Failed++
				b.logger.Warn("site: skipped document", slog.String("source", s.Path), slog.String("error", err.Error()))
				return nil
			default:
				report.Failed++
				return err
			}
		})
	}
	if err := g.Wait(); err != nil {
		return &report, err
	}

	for source := range known {
		if _, ok := onDisk[source]; ok {
			continue
		}
		if err := b.Remove(source); err != nil {
			b.logger.Warn("site: remove stale failed", slog.String("source", source), slog.String("error", err.Error()))
			continue
		}
		report.Removed++
	}

	if b.index {
		if err := b.WriteIndex(ctx); err != nil {
			return &report, err
		}
	}

	b.logger.Info("site: build finished",
		slog.Int("built", report.Built),
		slog.Int("skipped", report.Skipped),
		slog.Int("removed", report.Removed),
		slog.Int("failed", report.Failed),
		slog.String("written", humanize.Bytes(report.Bytes)),
		slog.Duration("took", time.Since(start)))
	return &report, nil
}

// WriteIndex renders index.html linking every page in the manifest, ordered
// by source path.
func (b *Builder) WriteIndex(_ context.Context) error {
	b.indexMu.Lock()
	defer b.indexMu.Unlock()

	pages, err := b.manifest.ListPages()
	if err != nil {
		return err
	}
	reg := registry.New()
	for _, p := range pages {
		if p.Output == registry.IndexFile {
			b.logger.Warn("site: page shadowed by index", slog.String("source", p.Source))
			continue
		}
		title := p.Title
		if title == "" {
			title = render.DefaultTitle
		}
		reg.Add(p.Output, title)
	}

	if err := b.out.Write(registry.IndexFile, []byte(render.HTML(reg.Document(b.style)))); err != nil {
		return err
	}
	b.logger.Debug("site: index written", slog.Int("pages", len(reg.Pages())))
	b.emit(EventIndex, registry.IndexFile)
	return nil
}

func (b *Builder) emit(kind, path string) {
	if b.notify != nil {
		b.notify(kind, path)
	}
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
