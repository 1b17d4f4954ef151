package gemini

import (
	"errors"
	"testing"

	"google.golang.org/genai"

	"github.com/vocalize-ai/hrscreen/pkg/llm"
)

func TestToContents_Roles(t *testing.T) {
	msgs := []llm.Message{
		{Role: llm.RoleUser, Text: "hello"},
		{Role: llm.RoleAssistant, Text: "hi", ToolCalls: []llm.ToolCall{
			{ID: "c1", Name: "start_timer", Args: map[string]any{}},
		}},
		{Role: llm.RoleTool, ToolResult: &llm.ToolResult{CallID: "c1", Name: "start_timer", Text: "started"}},
	}

	out := toContents(msgs)
	if len(out) != 3 {
		t.Fatalf("contents=%d", len(out))
	}
	if out[0].Role != genai.RoleUser {
		t.Fatalf("role[0]=%s", out[0].Role)
	}
	if out[1].Role != genai.RoleModel {
		t.Fatalf("role[1]=%s", out[1].Role)
	}
	if len(out[1].Parts) != 2 {
		t.Fatalf("assistant parts=%d", len(out[1].Parts))
	}
	if out[1].Parts[1].FunctionCall == nil || out[1].Parts[1].FunctionCall.Name != "start_timer" {
		t.Fatalf("function call part=%+v", out[1].Parts[1])
	}
	if out[2].Role != genai.RoleUser {
		t.Fatalf("tool result role=%s", out[2].Role)
	}
	if out[2].Parts[0].FunctionResponse == nil || out[2].Parts[0].FunctionResponse.ID != "c1" {
		t.Fatalf("function response part=%+v", out[2].Parts[0])
	}
}

func TestToContents_SkipsEmptyTurns(t *testing.T) {
	msgs := []llm.Message{
		{Role: llm.RoleAssistant},
		{Role: llm.RoleTool},
		{Role: llm.RoleUser, Text: "hi"},
	}
	out := toContents(msgs)
	if len(out) != 1 {
		t.Fatalf("contents=%d, want 1", len(out))
	}
}

func TestToSchema(t *testing.T) {
	s := toSchema(&llm.Schema{
		Type: "object",
		Properties: map[string]*llm.Schema{
			"file_name": {Type: "string", Description: "name of the document"},
			"pages":     {Type: "array", Items: &llm.Schema{Type: "integer"}},
		},
		Required: []string{"file_name"},
	})

	if s.Type != genai.TypeObject {
		t.Fatalf("type=%v", s.Type)
	}
	if s.Properties["file_name"].Type != genai.TypeString {
		t.Fatalf("file_name type=%v", s.Properties["file_name"].Type)
	}
	if s.Properties["pages"].Items.Type != genai.TypeInteger {
		t.Fatalf("items type=%v", s.Properties["pages"].Items.Type)
	}
	if len(s.Required) != 1 || s.Required[0] != "file_name" {
		t.Fatalf("required=%v", s.Required)
	}
}

func TestNormalizeError(t *testing.T) {
	cases := []struct {
		code      int
		want      llm.ErrorType
		retryable bool
	}{
		{429, llm.ErrRateLimit, true},
		{503, llm.ErrOverloaded, true},
		{500, llm.ErrAPI, true},
		{400, llm.ErrInvalidRequest, false},
		{403, llm.ErrAuthentication, false},
	}
	for _, tc := range cases {
		err := normalizeError(genai.APIError{Code: tc.code, Message: "boom"})
		var lerr *llm.Error
		if !errors.As(err, &lerr) {
			t.Fatalf("code=%d: not an llm.Error: %v", tc.code, err)
		}
		if lerr.Type != tc.want {
			t.Fatalf("code=%d: type=%s, want %s", tc.code, lerr.Type, tc.want)
		}
		if lerr.IsRetryable() != tc.retryable {
			t.Fatalf("code=%d: retryable=%v", tc.code, lerr.IsRetryable())
		}
	}
}

func TestNormalizeError_NonAPIError(t *testing.T) {
	err := normalizeError(errors.New("conn refused"))
	var lerr *llm.Error
	if !errors.As(err, &lerr) || lerr.Type != llm.ErrProvider {
		t.Fatalf("err=%v", err)
	}
}
