package tools

import (
	"context"
	"strings"

	"github.com/vocalize-ai/hrscreen/pkg/agent/state"
	"github.com/vocalize-ai/hrscreen/pkg/llm"
)

// WebSearch implements web_search over a grounded search client. Useful when
// the candidate mentions a company or technology the documents do not cover.
type WebSearch struct {
	Searcher llm.Searcher
}

func (WebSearch) Name() string { return "web_search" }

func (WebSearch) Definition() llm.ToolDef {
	return llm.ToolDef{
		Name:        "web_search",
		Description: "Search the web for current information, such as a company the candidate mentions. Use sparingly; prefer the input documents.",
		Parameters: &llm.Schema{
			Type: "object",
			Properties: map[string]*llm.Schema{
				"query": {Type: "string", Description: "the search query"},
			},
			Required: []string{"query"},
		},
	}
}

func (t WebSearch) Execute(ctx context.Context, inv Invocation, _ state.State) (Result, error) {
	query := strings.TrimSpace(stringArg(inv.Args, "query"))
	if query == "" {
		return Result{Text: "Error: web_search requires a non-empty query argument."}, nil
	}
	answer, err := t.Searcher.Search(ctx, query)
	if err != nil {
		return Result{}, err
	}
	if strings.TrimSpace(answer) == "" {
		return Result{Text: "The search returned no results."}, nil
	}
	return Result{Text: answer}, nil
}
