// Package llm defines the provider-agnostic model surface the agent runs
// against: chat generation with function tools, structured JSON output, and
// grounded web search. Provider adapters live in subpackages.
package llm

import "context"

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is one turn of model input or output.
type Message struct {
	Role string `json:"role"`

	// Text is the message body for user and assistant turns.
	Text string `json:"text,omitempty"`

	// ToolCalls carries function calls requested by an assistant turn.
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`

	// ToolResult carries the outcome of a call on a tool turn.
	ToolResult *ToolResult `json:"tool_result,omitempty"`
}

// ToolCall is a function invocation requested by the model.
type ToolCall struct {
	ID   string         `json:"id"`
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

// ToolResult is the outcome of a tool call, fed back to the model.
type ToolResult struct {
	CallID  string `json:"call_id"`
	Name    string `json:"name"`
	Text    string `json:"text"`
	IsError bool   `json:"is_error,omitempty"`
}

// ToolDef declares a function tool the model may call.
type ToolDef struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Parameters  *Schema `json:"parameters,omitempty"`
}

// Schema is a minimal JSON schema for tool parameters and structured output.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
}

// Request is one chat generation call.
type Request struct {
	Model    string
	System   string
	Messages []Message
	Tools    []ToolDef
}

// Response is the model's reply. Text and ToolCalls may both be set when the
// model speaks and calls tools in the same turn.
type Response struct {
	Text      string
	ToolCalls []ToolCall
}

// Client generates chat completions.
type Client interface {
	Generate(ctx context.Context, req *Request) (*Response, error)
}

// StructuredClient generates a JSON value conforming to a schema and decodes
// it into out.
type StructuredClient interface {
	GenerateJSON(ctx context.Context, model, system, prompt string, schema *Schema, out any) error
}

// Searcher answers a query using provider-grounded web search.
type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}
