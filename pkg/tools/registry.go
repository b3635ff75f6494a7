// Package tools holds the fixed registry of side-effecting operations
// agents may invoke. Every failure crossing this boundary is converted into
// a descriptive string result; callers never receive a Go error from a tool
// invocation.
package tools

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/xeipuuv/gojsonschema"
)

// Parameter defines a parameter for a tool
type Parameter struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// Handler is the function signature for tool execution
type Handler func(ctx context.Context, params map[string]interface{}) (string, error)

// Definition defines a tool's metadata and handler
type Definition struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  []Parameter `json:"parameters"`
	Handler     Handler     `json:"-"`
}

// Result carries either a success payload or a descriptive failure string.
// Failure strings always contain "Error" so downstream substring checks
// can detect them.
type Result struct {
	Output string
	Failed bool
}

// Text returns the payload or failure string
func (r Result) Text() string {
	return r.Output
}

func failure(format string, args ...interface{}) Result {
	return Result{Output: fmt.Sprintf(format, args...), Failed: true}
}

// Registry maps a closed set of tool names to their definitions
type Registry struct {
	tools   map[string]*Definition
	schemas map[string]*gojsonschema.Schema
	mu      sync.RWMutex
}

// NewRegistry creates an empty tool registry
func NewRegistry() *Registry {
	return &Registry{
		tools:   make(map[string]*Definition),
		schemas: make(map[string]*gojsonschema.Schema),
	}
}

// Register validates and adds a tool definition
func (r *Registry) Register(def Definition) error {
	if err := validateDefinition(def); err != nil {
		return fmt.Errorf("invalid tool definition: %w", err)
	}

	schema, err := generateSchema(def)
	if err != nil {
		return fmt.Errorf("failed to generate schema for %s: %w", def.Name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.tools[def.Name] = &def
	r.schemas[def.Name] = schema

	log.Debug().Str("tool", def.Name).Msg("Tool registered")
	return nil
}

// Get returns a tool definition by name, nil if unknown
func (r *Registry) Get(name string) *Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tools[name]
}

// Has reports whether a tool name is registered
func (r *Registry) Has(name string) bool {
	return r.Get(name) != nil
}

// Names returns all registered tool names
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	return names
}

// Invoke executes a tool by name. Unknown tools, invalid parameters, and
// handler failures all come back as failure Results, never as errors.
func (r *Registry) Invoke(ctx context.Context, name string, params map[string]interface{}) Result {
	r.mu.RLock()
	tool := r.tools[name]
	schema := r.schemas[name]
	r.mu.RUnlock()

	if tool == nil {
		log.Error().Str("tool", name).Msg("Tool not found")
		return failure("Error: tool not found: %s", name)
	}

	if params == nil {
		params = map[string]interface{}{}
	}

	if err := validateParams(schema, params); err != nil {
		log.Error().Str("tool", name).Err(err).Msg("Parameter validation failed")
		return failure("Error: invalid parameters for %s: %v", name, err)
	}

	log.Debug().Str("tool", name).Msg("Executing tool")

	output, err := tool.Handler(ctx, params)
	if err != nil {
		log.Error().Str("tool", name).Err(err).Msg("Tool execution failed")
		return failure("Error: %v", err)
	}

	return Result{Output: output}
}

// validateDefinition checks a tool definition for completeness
func validateDefinition(def Definition) error {
	if def.Name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}
	if def.Description == "" {
		return fmt.Errorf("tool description cannot be empty")
	}
	if def.Handler == nil {
		return fmt.Errorf("tool handler cannot be nil")
	}

	validTypes := map[string]bool{
		"string": true, "number": true, "boolean": true,
		"object": true, "array": true, "integer": true,
	}
	for _, param := range def.Parameters {
		if param.Name == "" {
			return fmt.Errorf("parameter name cannot be empty")
		}
		if !validTypes[param.Type] {
			return fmt.Errorf("invalid parameter type %s for %s", param.Type, param.Name)
		}
	}
	return nil
}

// generateSchema builds a JSON Schema for the tool's parameters
func generateSchema(def Definition) (*gojsonschema.Schema, error) {
	properties := map[string]interface{}{}
	required := []string{}

	for _, param := range def.Parameters {
		properties[param.Name] = map[string]interface{}{
			"type":        param.Type,
			"description": param.Description,
		}
		if param.Required {
			required = append(required, param.Name)
		}
	}

	schemaMap := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schemaMap["required"] = required
	}

	return gojsonschema.NewSchema(gojsonschema.NewGoLoader(schemaMap))
}

// validateParams validates parameters against the tool's schema
func validateParams(schema *gojsonschema.Schema, params map[string]interface{}) error {
	result, err := schema.Validate(gojsonschema.NewGoLoader(params))
	if err != nil {
		return err
	}
	if !result.Valid() {
		errs := result.Errors()
		if len(errs) > 0 {
			return fmt.Errorf("%s", errs[0].String())
		}
		return fmt.Errorf("parameters do not match schema")
	}
	return nil
}

// InputSchema returns the JSON-schema shaped map advertised to the hosted
// model for a tool: {type, properties, required}.
func (r *Registry) InputSchema(name string) map[string]interface{} {
	tool := r.Get(name)
	if tool == nil {
		return nil
	}

	properties := map[string]interface{}{}
	required := []string{}
	for _, param := range tool.Parameters {
		properties[param.Name] = map[string]interface{}{
			"type":        param.Type,
			"description": param.Description,
		}
		if param.Required {
			required = append(required, param.Name)
		}
	}

	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}
