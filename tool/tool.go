// Package tool implements the farm action tools the advice pipeline can
// invoke. The set of tools is closed: Default() registers every tool this
// package defines and callers compose registries from those, they do not
// define new tool kinds at runtime.
package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	krishierrors "github.com/sweetpotato0/krishigpt/errors"
	"github.com/sweetpotato0/krishigpt/farm"
	"github.com/sweetpotato0/krishigpt/form"
	"github.com/sweetpotato0/krishigpt/safety"
)

// Parameter defines a tool parameter
type Parameter struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"` // string, number, boolean, object, array
	Description string      `json:"description"`
	Required    bool        `json:"required"`
	Enum        []string    `json:"enum,omitempty"`
	Default     interface{} `json:"default,omitempty"`
}

// Definition describes a tool: its parameters, the farm context fields it
// needs before it may run, and whether its output is safety-critical.
type Definition struct {
	Name            string       `json:"name"`
	Description     string       `json:"description"`
	Parameters      []Parameter  `json:"parameters"`
	RequiresContext []farm.Field `json:"requires_context,omitempty"`
	MinConfidence   farm.ConfidenceLevel `json:"min_confidence"`
	SafetyCritical  bool         `json:"safety_critical"`
}

// ValidateArgs validates the provided arguments against the definition
func (d Definition) ValidateArgs(args map[string]interface{}) error {
	for _, param := range d.Parameters {
		if param.Required {
			if _, ok := args[param.Name]; !ok {
				return fmt.Errorf("missing required parameter: %s", param.Name)
			}
		}
	}
	return nil
}

// ToJSONSchema returns the tool definition in JSON schema format for LLM
func (d Definition) ToJSONSchema() map[string]interface{} {
	properties := make(map[string]interface{})
	required := make([]string, 0)

	for _, param := range d.Parameters {
		prop := map[string]interface{}{
			"type":        param.Type,
			"description": param.Description,
		}
		if len(param.Enum) > 0 {
			prop["enum"] = param.Enum
		}
		if param.Default != nil {
			prop["default"] = param.Default
		}
		properties[param.Name] = prop

		if param.Required {
			required = append(required, param.Name)
		}
	}

	return map[string]interface{}{
		"type": "function",
		"function": map[string]interface{}{
			"name":        d.Name,
			"description": d.Description,
			"parameters": map[string]interface{}{
				"type":       "object",
				"properties": properties,
				"required":   required,
			},
		},
	}
}

// Result is the structured outcome of a tool run.
type Result struct {
	Success            bool                   `json:"success"`
	Data               map[string]interface{} `json:"data,omitempty"`
	Error              string                 `json:"error,omitempty"`
	Confidence         farm.ConfidenceLevel   `json:"confidence"`
	RequiresDisclaimer bool                   `json:"requires_disclaimer"`
	DisclaimerText     string                 `json:"disclaimer_text,omitempty"`
}

// SetDisclaimer marks the result as requiring a disclaimer.
func (r *Result) SetDisclaimer(text string) {
	r.RequiresDisclaimer = true
	r.DisclaimerText = text
}

// Tool is a single farm action.
type Tool interface {
	// Definition returns the tool's schema and context requirements.
	Definition() Definition

	// ClarificationForm returns the form to show the farmer when context
	// is insufficient, or nil if the tool has none.
	ClarificationForm() *form.Schema

	// Execute runs the tool against the farm context and parameters.
	Execute(ctx context.Context, fc farm.Context, params map[string]interface{}) (*Result, error)
}

// ValidateContext checks the farm context against a tool's requirements,
// returning the missing fields.
func ValidateContext(t Tool, fc farm.Context) (bool, []farm.Field) {
	return safety.ValidateContextForTool(fc, t.Definition().RequiresContext)
}

// Registry manages a collection of tools
// All operations are thread-safe using RWMutex protection
type Registry struct {
	mu    sync.RWMutex // Protects tools map
	tools map[string]Tool
}

// NewRegistry creates a new tool registry
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

// Default returns a registry preloaded with every tool this package defines.
func Default() *Registry {
	r := NewRegistry()
	for _, t := range []Tool{
		&DiagnoseCropIssue{},
		&RecommendFertilizer{},
		&PesticideSafetyCheck{},
		&IrrigationSchedule{},
		&WeatherBasedAdvice{},
		&MarketPriceLookup{},
		&SoilHealthAnalysis{},
	} {
		// Names are distinct literals, registration cannot fail.
		_ = r.Register(t)
	}
	return r
}

// Register adds a tool to the registry
func (r *Registry) Register(t Tool) error {
	if t == nil {
		return fmt.Errorf("%w: tool is nil", krishierrors.ErrInvalidInput)
	}
	name := t.Definition().Name
	if name == "" {
		return fmt.Errorf("%w: tool name is empty", krishierrors.ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool %s already registered", name)
	}
	r.tools[name] = t
	return nil
}

// Get retrieves a tool by name
func (r *Registry) Get(name string) (Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", krishierrors.ErrToolNotFound, name)
	}
	return t, nil
}

// List returns all registered tools
func (r *Registry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]Tool, 0, len(r.tools))
	for _, t := range r.tools {
		tools = append(tools, t)
	}
	return tools
}

// Names returns the names of all registered tools
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	return names
}

// ToJSONSchemas returns all tools in JSON schema format
func (r *Registry) ToJSONSchemas() []map[string]interface{} {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schemas := make([]map[string]interface{}, 0, len(r.tools))
	for _, t := range r.tools {
		schemas = append(schemas, t.Definition().ToJSONSchema())
	}
	return schemas
}

// MarshalJSON customizes JSON marshaling for Registry
func (r *Registry) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ToJSONSchemas())
}

// normalize lowercases and trims a user-supplied name for table lookups.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
