// Package prompt assembles the text sent to the generation service: the
// system instructions, the farm context block, replayed conversation
// history, and the clarification templates rendered by name.
package prompt

import (
	"fmt"
	"strings"
	"sync"
	"text/template"
)

// Template is a named text/template with its source kept for inspection.
type Template struct {
	Name     string
	Content  string
	template *template.Template
}

// NewTemplate parses content into a named template.
func NewTemplate(name, content string) (*Template, error) {
	tmpl, err := template.New(name).Parse(content)
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}
	return &Template{
		Name:     name,
		Content:  content,
		template: tmpl,
	}, nil
}

// Render executes the template with the given variables.
func (t *Template) Render(vars map[string]interface{}) (string, error) {
	var buf strings.Builder
	if err := t.template.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("render template %s: %w", t.Name, err)
	}
	return buf.String(), nil
}

// Manager is a registry of templates rendered by name. Registration happens
// at startup; reads are guarded for concurrent request handling.
type Manager struct {
	mu        sync.RWMutex
	templates map[string]*Template
}

// NewManager creates an empty template registry.
func NewManager() *Manager {
	return &Manager{
		templates: make(map[string]*Template),
	}
}

// Register adds a template. Names are unique.
func (m *Manager) Register(tmpl *Template) error {
	if tmpl.Name == "" {
		return fmt.Errorf("template name cannot be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.templates[tmpl.Name]; exists {
		return fmt.Errorf("template %s already registered", tmpl.Name)
	}
	m.templates[tmpl.Name] = tmpl
	return nil
}

// RegisterString parses and registers a template from source text.
func (m *Manager) RegisterString(name, content string) error {
	tmpl, err := NewTemplate(name, content)
	if err != nil {
		return err
	}
	return m.Register(tmpl)
}

// Get retrieves a template by name.
func (m *Manager) Get(name string) (*Template, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tmpl, ok := m.templates[name]
	if !ok {
		return nil, fmt.Errorf("template %s not found", name)
	}
	return tmpl, nil
}

// Render looks up a template by name and executes it.
func (m *Manager) Render(name string, vars map[string]interface{}) (string, error) {
	tmpl, err := m.Get(name)
	if err != nil {
		return "", err
	}
	return tmpl.Render(vars)
}

// List returns the registered template names.
func (m *Manager) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.templates))
	for name := range m.templates {
		names = append(names, name)
	}
	return names
}

// Builder accumulates prompt sections in order.
type Builder struct {
	parts []string
}

// NewBuilder creates an empty prompt builder.
func NewBuilder() *Builder {
	return &Builder{
		parts: make([]string, 0),
	}
}

// Add appends a part as-is.
func (b *Builder) Add(part string) *Builder {
	b.parts = append(b.parts, part)
	return b
}

// AddFormat appends a formatted part.
func (b *Builder) AddFormat(format string, args ...interface{}) *Builder {
	b.parts = append(b.parts, fmt.Sprintf(format, args...))
	return b
}

// AddLine appends a part followed by a newline.
func (b *Builder) AddLine(part string) *Builder {
	b.parts = append(b.parts, part+"\n")
	return b
}

// AddSection appends a "## title" heading with its content.
func (b *Builder) AddSection(title, content string) *Builder {
	b.parts = append(b.parts, fmt.Sprintf("## %s\n%s\n", title, content))
	return b
}

// Build joins the accumulated parts.
func (b *Builder) Build() string {
	return strings.Join(b.parts, "")
}

// Reset clears all parts.
func (b *Builder) Reset() *Builder {
	b.parts = make([]string, 0)
	return b
}
