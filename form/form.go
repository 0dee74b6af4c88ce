// Package form defines interactive form schemas the chat UI renders so a
// farmer can tap options instead of typing. Labels carry English and Hindi
// variants.
package form

import (
	"fmt"
	"sync"

	krishierrors "github.com/sweetpotato0/krishigpt/errors"
)

// FieldType enumerates the widget kinds the UI can render.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeSelect   FieldType = "select"
	FieldTypeRadio    FieldType = "radio"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeSlider   FieldType = "slider"
)

// Option is a single selectable choice.
type Option struct {
	Value      string `json:"value"`
	Label      string `json:"label"`
	LabelHindi string `json:"label_hi,omitempty"`
}

// Field is one input in a form.
type Field struct {
	Name        string    `json:"name"`
	Type        FieldType `json:"type"`
	Label       string    `json:"label"`
	LabelHindi  string    `json:"label_hi,omitempty"`
	Options     []Option  `json:"options,omitempty"`
	MinValue    float64   `json:"min_value,omitempty"`
	MaxValue    float64   `json:"max_value,omitempty"`
	Step        float64   `json:"step,omitempty"`
	Required    bool      `json:"required"`
	Placeholder string    `json:"placeholder,omitempty"`
}

// Schema is a complete renderable form. SubmitAction tells the pipeline what
// to do with the submitted values: "update_context" merges them into the farm
// context, any other value names a tool to execute.
type Schema struct {
	ID               string  `json:"id"`
	Title            string  `json:"title"`
	TitleHindi       string  `json:"title_hi,omitempty"`
	Description      string  `json:"description,omitempty"`
	Fields           []Field `json:"fields"`
	SubmitAction     string  `json:"submit_action"`
	SubmitLabel      string  `json:"submit_label"`
	SubmitLabelHindi string  `json:"submit_label_hi,omitempty"`
}

// FieldNames returns the names of all fields in declaration order.
func (s *Schema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// Catalog holds form schemas keyed by ID. Safe for concurrent use.
type Catalog struct {
	mu    sync.RWMutex
	forms map[string]*Schema
}

// NewCatalog creates an empty form catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		forms: make(map[string]*Schema),
	}
}

// Register adds a form schema to the catalog.
func (c *Catalog) Register(s *Schema) error {
	if s == nil {
		return fmt.Errorf("%w: form schema is nil", krishierrors.ErrInvalidInput)
	}
	if s.ID == "" {
		return fmt.Errorf("%w: form ID is empty", krishierrors.ErrInvalidInput)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.forms[s.ID]; exists {
		return fmt.Errorf("form %q already registered", s.ID)
	}
	c.forms[s.ID] = s
	return nil
}

// Get returns the form with the given ID.
func (c *Catalog) Get(id string) (*Schema, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s, ok := c.forms[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", krishierrors.ErrFormNotFound, id)
	}
	return s, nil
}

// List returns all registered forms.
func (c *Catalog) List() []*Schema {
	c.mu.RLock()
	defer c.mu.RUnlock()

	list := make([]*Schema, 0, len(c.forms))
	for _, s := range c.forms {
		list = append(list, s)
	}
	return list
}

// IDs returns the IDs of all registered forms.
func (c *Catalog) IDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := make([]string, 0, len(c.forms))
	for id := range c.forms {
		ids = append(ids, id)
	}
	return ids
}
