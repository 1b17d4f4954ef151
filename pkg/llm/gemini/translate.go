package gemini

import (
	"errors"

	"google.golang.org/genai"

	"github.com/vocalize-ai/hrscreen/pkg/llm"
)

// toContents translates conversation messages to the Gemini wire shape.
// Assistant turns become role "model"; tool results travel back as function
// responses on a user turn, which is how Gemini expects them.
func toContents(msgs []llm.Message) []*genai.Content {
	out := make([]*genai.Content, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case llm.RoleAssistant:
			var parts []*genai.Part
			if m.Text != "" {
				parts = append(parts, genai.NewPartFromText(m.Text))
			}
			for _, tc := range m.ToolCalls {
				p := genai.NewPartFromFunctionCall(tc.Name, tc.Args)
				p.FunctionCall.ID = tc.ID
				parts = append(parts, p)
			}
			if len(parts) == 0 {
				continue
			}
			out = append(out, &genai.Content{Role: genai.RoleModel, Parts: parts})

		case llm.RoleTool:
			if m.ToolResult == nil {
				continue
			}
			p := genai.NewPartFromFunctionResponse(m.ToolResult.Name, map[string]any{
				"output": m.ToolResult.Text,
			})
			p.FunctionResponse.ID = m.ToolResult.CallID
			out = append(out, &genai.Content{Role: genai.RoleUser, Parts: []*genai.Part{p}})

		default:
			out = append(out, genai.NewContentFromText(m.Text, genai.RoleUser))
		}
	}
	return out
}

func toDeclarations(tools []llm.ToolDef) []*genai.FunctionDeclaration {
	out := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, t := range tools {
		out = append(out, &genai.FunctionDeclaration{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  toSchema(t.Parameters),
		})
	}
	return out
}

func toSchema(s *llm.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:        toSchemaType(s.Type),
		Description: s.Description,
		Required:    s.Required,
		Enum:        s.Enum,
		Items:       toSchema(s.Items),
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toSchema(prop)
		}
	}
	return out
}

func toSchemaType(t string) genai.Type {
	switch t {
	case "object":
		return genai.TypeObject
	case "array":
		return genai.TypeArray
	case "string":
		return genai.TypeString
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	default:
		return genai.TypeUnspecified
	}
}

// normalizeError maps SDK failures onto the llm error taxonomy so retry
// decisions do not depend on provider internals.
func normalizeError(err error) error {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return &llm.Error{Type: llm.ErrProvider, Message: err.Error()}
	}

	var typ llm.ErrorType
	switch apiErr.Code {
	case 400:
		typ = llm.ErrInvalidRequest
	case 401, 403:
		typ = llm.ErrAuthentication
	case 429:
		typ = llm.ErrRateLimit
	case 503:
		typ = llm.ErrOverloaded
	case 500, 502, 504:
		typ = llm.ErrAPI
	default:
		typ = llm.ErrProvider
	}
	return &llm.Error{Type: typ, Message: apiErr.Message, Code: apiErr.Status}
}
