// Package templates ships the static proposal page layouts and their anchor bindings.
// Layouts are embedded at compile time; every Load returns a fresh document.
package templates

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"path"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/proposal-pages/internal/types"
)

//go:embed */index.html */bindings.yaml
var files embed.FS

// ErrUnknownTemplate is returned for layout names that are not embedded.
var ErrUnknownTemplate = errors.New("unknown template")

// Page is a freshly parsed layout ready to be populated.
type Page struct {
	Name     types.Template
	Doc      *goquery.Document
	Bindings *Bindings
}

var (
	bindingsCache = make(map[types.Template]*Bindings)
	cacheMu       sync.RWMutex
)

// Load parses the named layout. The returned document is private to the caller;
// bindings are shared and must be treated as read-only.
func Load(name types.Template) (*Page, error) {
	if !name.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}

	source, err := Source(name)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	bindings, err := LoadBindings(name)
	if err != nil {
		return nil, err
	}

	return &Page{Name: name, Doc: doc, Bindings: bindings}, nil
}

// Source returns the raw HTML of the named layout.
func Source(name types.Template) ([]byte, error) {
	if !name.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}
	data, err := files.ReadFile(path.Join(string(name), "index.html"))
	if err != nil {
		return nil, fmt.Errorf("failed to read template %s: %w", name, err)
	}
	return data, nil
}

// LoadBindings returns the decoded anchor table of the named layout.
func LoadBindings(name types.Template) (*Bindings, error) {
	cacheMu.RLock()
	if b, ok := bindingsCache[name]; ok {
		cacheMu.RUnlock()
		return b, nil
	}
	cacheMu.RUnlock()

	if !name.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}
	data, err := files.ReadFile(path.Join(string(name), "bindings.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to read bindings for %s: %w", name, err)
	}

	var b Bindings
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to parse bindings for %s: %w", name, err)
	}

	cacheMu.Lock()
	bindingsCache[name] = &b
	cacheMu.Unlock()
	return &b, nil
}

// Render serializes a document back to HTML.
func Render(doc *goquery.Document) (string, error) {
	out, err := goquery.OuterHtml(doc.Selection)
	if err != nil {
		return "", fmt.Errorf("failed to render document: %w", err)
	}
	return out, nil
}
