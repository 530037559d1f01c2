// Package ui hosts the boilerplate web interface served by the worker
// process: a template layout with sidebar navigation and a set of
// markdown-backed pages.
package ui

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Page is a renderable unit addressed by a menu identifier.
type Page interface {
	ID() string
	Title() string
	Body() (template.HTML, error)
}

// MarkdownPage renders a static markdown document through goldmark.
type MarkdownPage struct {
	id     string
	title  string
	source []byte
	md     goldmark.Markdown
}

// NewMarkdownPage creates a page whose body is the given markdown source.
func NewMarkdownPage(id, title string, source string) *MarkdownPage {
	return &MarkdownPage{
		id:     id,
		title:  title,
		source: []byte(source),
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

func (p *MarkdownPage) ID() string    { return p.id }
func (p *MarkdownPage) Title() string { return p.title }

func (p *MarkdownPage) Body() (template.HTML, error) {
	var buf bytes.Buffer
	if err := p.md.Convert(p.source, &buf); err != nil {
		return "", fmt.Errorf("render page %s: %w", p.id, err)
	}
	// Page sources are repository content, not user input.
	return template.HTML(buf.String()), nil
}

// Registry maps menu identifiers to pages. It is assembled once at startup;
// lookups of unregistered identifiers fall back to a placeholder page so a
// menu entry without an implementation degrades gracefully instead of
// erroring.
type Registry struct {
	pages map[string]Page
}

// NewRegistry creates an empty page registry.
func NewRegistry() *Registry {
	return &Registry{pages: make(map[string]Page)}
}

// Register adds a page, replacing any existing page with the same id.
func (r *Registry) Register(p Page) {
	r.pages[p.ID()] = p
}

// Lookup returns the page for id and whether it was registered.
func (r *Registry) Lookup(id string) (Page, bool) {
	p, ok := r.pages[id]
	return p, ok
}

// Placeholder returns the fallback page shown for an unregistered id.
func (r *Registry) Placeholder(id string) Page {
	return NewMarkdownPage(id, "Page Not Implemented", fmt.Sprintf(placeholderMarkdown, id, id))
}

// IDs returns the registered page identifiers, sorted.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.pages))
	for id := range r.pages {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
