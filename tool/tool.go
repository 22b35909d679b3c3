// Package tool provides tool interfaces and implementations for the agent
// runtime boundary.
package tool

import "context"

// Tool is the basic interface that all tools must implement.
type Tool interface {
	// Declaration returns the metadata describing the tool to the host
	// runtime: name, description and input/output schemas.
	Declaration() *Declaration
}

// CallableTool is a tool that can be invoked with JSON-encoded arguments.
type CallableTool interface {
	Tool

	// Call executes the tool with the given JSON arguments and returns a
	// JSON-compatible value. The returned value is handed back to the host
	// runtime unchanged.
	Call(ctx context.Context, jsonArgs []byte) (any, error)
}

// Declaration describes a tool to the host runtime.
type Declaration struct {
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	InputSchema  *Schema `json:"inputSchema,omitempty"`
	OutputSchema *Schema `json:"outputSchema,omitempty"`
}

// Schema is a JSON schema describing tool input or output.
type Schema struct {
	Type                 string             `json:"type,omitempty"`
	Description          string             `json:"description,omitempty"`
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	Items                *Schema            `json:"items,omitempty"`
	Enum                 []any              `json:"enum,omitempty"`
	AdditionalProperties any                `json:"additionalProperties,omitempty"`
	Ref                  string             `json:"$ref,omitempty"`
	Defs                 map[string]*Schema `json:"$defs,omitempty"`
}
