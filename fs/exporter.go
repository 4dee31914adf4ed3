// Package fs exports extracted records to a directory tree for review.
package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/pagemig"
)

// Ensure Exporter implements pagemig.RecordExporter at compile time.
var _ pagemig.RecordExporter = (*Exporter)(nil)

// Exporter implements pagemig.RecordExporter with atomic update semantics.
// Records are written to baseDir/name.tmp and moved to baseDir/name on
// Commit, replacing any previous export.
//
// Each record is written as <type>/<slug>.json. When a Converter is set,
// blog posts are also written as <type>/<slug>.md with YAML frontmatter.
type Exporter struct {
	baseDir   string
	name      string
	converter pagemig.Converter
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithConverter enables Markdown output for blog posts.
func WithConverter(c pagemig.Converter) Option {
	return func(e *Exporter) { e.converter = c }
}

// NewExporter creates a new Exporter.
func NewExporter(baseDir, name string, opts ...Option) *Exporter {
	e := &Exporter{baseDir: baseDir, name: name}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Exporter) tempDir() string {
	return filepath.Join(e.baseDir, e.name+".tmp")
}

func (e *Exporter) finalDir() string {
	return filepath.Join(e.baseDir, e.name)
}

// Export writes rec to the temporary directory.
func (e *Exporter) Export(ctx context.Context, rec pagemig.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	slug := rec.Core().Slug
	if slug == "" || strings.ContainsAny(slug, `/\`) || slug == "." || slug == ".." {
		return pagemig.Errorf(pagemig.EINVALID, "invalid record slug %q", slug)
	}

	dir := filepath.Join(e.tempDir(), string(rec.Type()))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s %q: %w", rec.Type(), slug, err)
	}
	if err := os.WriteFile(filepath.Join(dir, slug+".json"), append(data, '\n'), 0644); err != nil {
		return err
	}

	post, ok := rec.(*pagemig.BlogPost)
	if !ok || e.converter == nil || post.Content == "" {
		return nil
	}
	markdown, err := e.converter.Convert(post.Content)
	if err != nil {
		return fmt.Errorf("convert %q: %w", slug, err)
	}
	return os.WriteFile(filepath.Join(dir, slug+".md"), []byte(FormatPost(post, markdown)), 0644)
}

// FormatPost formats a blog post body with YAML frontmatter.
func FormatPost(post *pagemig.BlogPost, markdown string) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("slug: ")
	b.WriteString(post.Slug)
	b.WriteString("\ntitle: ")
	b.WriteString(quoteYAML(post.Title))
	if post.PublishedAt != nil {
		b.WriteString("\npublished: ")
		b.WriteString(post.PublishedAt.Format("2006-01-02"))
	}
	if len(post.CategorySlugs) > 0 {
		b.WriteString("\ncategories: [")
		b.WriteString(strings.Join(post.CategorySlugs, ", "))
		b.WriteString("]")
	}
	b.WriteString("\n---\n\n")
	b.WriteString(markdown)
	b.WriteString("\n")
	return b.String()
}

// quoteYAML quotes s when it contains characters YAML would misread.
func quoteYAML(s string) string {
	if strings.ContainsAny(s, `:#"'[]{}`) {
		return fmt.Sprintf("%q", s)
	}
	return s
}

// Commit replaces the final directory with the temporary one.
func (e *Exporter) Commit() error {
	if err := os.MkdirAll(e.tempDir(), 0755); err != nil {
		return err
	}
	if err := os.RemoveAll(e.finalDir()); err != nil {
		return err
	}
	return os.Rename(e.tempDir(), e.finalDir())
}

// Abort discards the temporary directory.
func (e *Exporter) Abort() error {
	return os.RemoveAll(e.tempDir())
}
