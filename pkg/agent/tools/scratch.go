package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/vocalize-ai/hrscreen/pkg/agent/state"
	"github.com/vocalize-ai/hrscreen/pkg/llm"
)

// Think implements think: a private scratchpad append the candidate never
// hears. Duplicate thoughts collapse in the merge.
type Think struct{}

func (Think) Name() string { return "think" }

func (Think) Definition() llm.ToolDef {
	return llm.ToolDef{
		Name:        "think",
		Description: "Record a private note about the candidate or the interview plan. The candidate never sees these notes.",
		Parameters: &llm.Schema{
			Type: "object",
			Properties: map[string]*llm.Schema{
				"thought": {Type: "string", Description: "the note to record"},
			},
			Required: []string{"thought"},
		},
	}
}

func (Think) Execute(_ context.Context, inv Invocation, st state.State) (Result, error) {
	thought := strings.TrimSpace(stringArg(inv.Args, "thought"))
	if thought == "" {
		return Result{Text: "Error: think requires a non-empty thought argument."}, nil
	}

	var b strings.Builder
	b.WriteString("Notes so far:\n")
	for _, t := range st.Scratchpad {
		fmt.Fprintf(&b, "- %s\n", t)
	}
	fmt.Fprintf(&b, "- %s\n", thought)

	return Result{
		Text:   b.String(),
		Update: state.AppendThought(thought),
	}, nil
}

// ClearThoughts implements clear_thoughts, emptying the scratchpad.
type ClearThoughts struct{}

func (ClearThoughts) Name() string { return "clear_thoughts" }

func (ClearThoughts) Definition() llm.ToolDef {
	return llm.ToolDef{
		Name:        "clear_thoughts",
		Description: "Discard all private notes recorded with think.",
	}
}

func (ClearThoughts) Execute(_ context.Context, _ Invocation, _ state.State) (Result, error) {
	return Result{
		Text:   "Notes cleared.",
		Update: state.ReplaceScratchpad(),
	}, nil
}
