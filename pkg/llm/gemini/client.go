// Package gemini adapts the Google GenAI SDK to the llm interfaces. One
// Client serves chat generation, structured JSON output, and grounded web
// search; each caller picks its own model per request.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"
	"google.golang.org/genai"

	"github.com/vocalize-ai/hrscreen/pkg/llm"
)

const (
	defaultMaxRetries  = 3
	defaultBackoff     = 500 * time.Millisecond
	defaultSearchModel = "gemini-2.0-flash"
)

// Client implements llm.Client, llm.StructuredClient and llm.Searcher on the
// Gemini API.
type Client struct {
	gc          *genai.Client
	maxRetries  uint64
	backoff     time.Duration
	searchModel string
}

// Option configures the client.
type Option func(*Client)

// WithMaxRetries overrides how many times a retryable provider error is
// retried before giving up.
func WithMaxRetries(n uint64) Option {
	return func(c *Client) { c.maxRetries = n }
}

// WithBackoff overrides the initial retry backoff.
func WithBackoff(d time.Duration) Option {
	return func(c *Client) { c.backoff = d }
}

// WithSearchModel overrides the model used for grounded search requests.
func WithSearchModel(model string) Option {
	return func(c *Client) { c.searchModel = model }
}

// New creates a client against the public Gemini API.
func New(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	c := &Client{
		gc:          gc,
		maxRetries:  defaultMaxRetries,
		backoff:     defaultBackoff,
		searchModel: defaultSearchModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Generate implements llm.Client.
func (c *Client) Generate(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	config := &genai.GenerateContentConfig{}
	if req.System != "" {
		config.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if len(req.Tools) > 0 {
		config.Tools = []*genai.Tool{{FunctionDeclarations: toDeclarations(req.Tools)}}
	}

	resp, err := c.generate(ctx, req.Model, toContents(req.Messages), config)
	if err != nil {
		return nil, err
	}

	out := &llm.Response{Text: resp.Text()}
	for _, fc := range resp.FunctionCalls() {
		out.ToolCalls = append(out.ToolCalls, llm.ToolCall{
			ID:   fc.ID,
			Name: fc.Name,
			Args: fc.Args,
		})
	}
	return out, nil
}

// GenerateJSON implements llm.StructuredClient.
func (c *Client) GenerateJSON(ctx context.Context, model, system, prompt string, schema *llm.Schema, out any) error {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   toSchema(schema),
	}
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	resp, err := c.generate(ctx, model, contents, config)
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(resp.Text()), out); err != nil {
		return &llm.Error{Type: llm.ErrProvider, Message: fmt.Sprintf("decode structured output: %v", err)}
	}
	return nil
}

// Search implements llm.Searcher using the Gemini-grounded search tool.
func (c *Client) Search(ctx context.Context, query string) (string, error) {
	config := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	}
	contents := []*genai.Content{genai.NewContentFromText(query, genai.RoleUser)}
	resp, err := c.generate(ctx, c.searchModel, contents, config)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

func (c *Client) generate(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	var resp *genai.GenerateContentResponse

	backoff := retry.WithMaxRetries(c.maxRetries, retry.NewExponential(c.backoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var callErr error
		resp, callErr = c.gc.Models.GenerateContent(ctx, model, contents, config)
		if callErr == nil {
			return nil
		}
		nerr := normalizeError(callErr)
		var lerr *llm.Error
		if errors.As(nerr, &lerr) && lerr.IsRetryable() {
			return retry.RetryableError(nerr)
		}
		return nerr
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}
