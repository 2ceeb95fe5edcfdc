// Package prompts provides the embedded prompt templates used to draft proposal sections.
package prompts

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"text/template"
)

//go:embed *.json
var promptFiles embed.FS

// ProposalFile holds one prompt per proposal section.
const ProposalFile = "proposal.json"

var (
	cache   = make(map[string]map[string]*template.Template)
	cacheMu sync.RWMutex
)

// Get returns the parsed template stored under key in filename.
func Get(filename, key string) (*template.Template, error) {
	prompts, err := loadFile(filename)
	if err != nil {
		return nil, err
	}
	tmpl, ok := prompts[key]
	if !ok {
		return nil, fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return tmpl, nil
}

// Render executes the prompt stored under key with data. Every placeholder
// must have a value.
func Render(filename, key string, data any) (string, error) {
	tmpl, err := Get(filename, key)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render prompt %s/%s: %w", filename, key, err)
	}
	return buf.String(), nil
}

// List returns the sorted prompt keys of a file.
func List(filename string) ([]string, error) {
	prompts, err := loadFile(filename)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(prompts))
	for key := range prompts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// ClearCache clears the prompt cache. Useful for testing.
func ClearCache() {
	cacheMu.Lock()
	cache = make(map[string]map[string]*template.Template)
	cacheMu.Unlock()
}

func loadFile(filename string) (map[string]*template.Template, error) {
	cacheMu.RLock()
	prompts, ok := cache[filename]
	cacheMu.RUnlock()
	if ok {
		return prompts, nil
	}

	data, err := promptFiles.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
	}

	prompts = make(map[string]*template.Template, len(raw))
	for key, text := range raw {
		tmpl, err := template.New(key).Option("missingkey=error").Parse(text)
		if err != nil {
			return nil, fmt.Errorf("failed to parse prompt %s/%s: %w", filename, key, err)
		}
		prompts[key] = tmpl
	}

	cacheMu.Lock()
	cache[filename] = prompts
	cacheMu.Unlock()
	return prompts, nil
}
