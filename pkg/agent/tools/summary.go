package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/vocalize-ai/hrscreen/pkg/agent/state"
	"github.com/vocalize-ai/hrscreen/pkg/llm"
)

// SummarySink persists interview summaries outside the session state so they
// survive the call.
type SummarySink interface {
	WriteSummary(ctx context.Context, text string) error
}

// WriteSummary implements write_summary. The text is persisted through the
// sink and mirrored into session state, where read_summary finds it.
type WriteSummary struct {
	Sink SummarySink
}

func (WriteSummary) Name() string { return "write_summary" }

func (WriteSummary) Definition() llm.ToolDef {
	return llm.ToolDef{
		Name:        "write_summary",
		Description: "Persist the interview summary. Call this near the end of the interview with a structured summary of the candidate's background, answers, and fit.",
		Parameters: &llm.Schema{
			Type: "object",
			Properties: map[string]*llm.Schema{
				"summary": {Type: "string", Description: "the full summary text"},
			},
			Required: []string{"summary"},
		},
	}
}

func (t WriteSummary) Execute(ctx context.Context, inv Invocation, _ state.State) (Result, error) {
	text := strings.TrimSpace(stringArg(inv.Args, "summary"))
	if text == "" {
		return Result{Text: "Error: write_summary requires a non-empty summary argument."}, nil
	}
	if t.Sink != nil {
		if err := t.Sink.WriteSummary(ctx, text); err != nil {
			// The summary still lands in session state; only the external
			// copy is missing.
			return Result{
				Text:   fmt.Sprintf("Warning: the summary could not be persisted (%v). It has been stored in the session state only.", err),
				Update: state.SetSummary(text),
			}, nil
		}
	}
	return Result{
		Text:   "Summary saved.",
		Update: state.SetSummary(text),
	}, nil
}

// ReadSummary implements read_summary.
type ReadSummary struct{}

func (ReadSummary) Name() string { return "read_summary" }

func (ReadSummary) Definition() llm.ToolDef {
	return llm.ToolDef{
		Name:        "read_summary",
		Description: "Read back the interview summary saved so far, if any.",
	}
}

func (ReadSummary) Execute(_ context.Context, _ Invocation, st state.State) (Result, error) {
	if st.InterviewSummary == "" {
		return Result{Text: "No summary has been written yet."}, nil
	}
	return Result{Text: "Current summary:\n\n" + st.InterviewSummary}, nil
}
