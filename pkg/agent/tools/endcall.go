package tools

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/vocalize-ai/hrscreen/pkg/agent/state"
	"github.com/vocalize-ai/hrscreen/pkg/llm"
)

// DefaultEndCallDelay leaves the agent time to speak its goodbye before the
// transport is torn down.
const DefaultEndCallDelay = 15 * time.Second

// CallTerminator ends the live call. The session owns the transport, so the
// session implements this.
type CallTerminator interface {
	Terminate(reason string)
}

// EndCall implements end_call. Termination is scheduled, not immediate: the
// tool returns right away so the model's farewell still reaches the
// candidate, and the transport closes after the delay.
type EndCall struct {
	Terminator CallTerminator
	Delay      time.Duration
	Logger     *slog.Logger

	// after is swapped in tests; nil means time.AfterFunc.
	after func(d time.Duration, f func()) *time.Timer
}

func (EndCall) Name() string { return "end_call" }

func (EndCall) Definition() llm.ToolDef {
	return llm.ToolDef{
		Name:        "end_call",
		Description: "End the interview call. Say goodbye to the candidate first; the call disconnects shortly after this tool returns.",
		Parameters: &llm.Schema{
			Type: "object",
			Properties: map[string]*llm.Schema{
				"reason": {Type: "string", Description: "short reason the call is ending"},
			},
		},
	}
}

func (t EndCall) Execute(_ context.Context, inv Invocation, _ state.State) (Result, error) {
	reason := strings.TrimSpace(stringArg(inv.Args, "reason"))
	if reason == "" {
		reason = "interview complete"
	}

	delay := t.Delay
	if delay <= 0 {
		delay = DefaultEndCallDelay
	}
	after := t.after
	if after == nil {
		after = time.AfterFunc
	}

	if t.Terminator != nil {
		after(delay, func() {
			t.log().Info("ending call", "reason", reason, "delay", delay)
			t.Terminator.Terminate(reason)
		})
	}
	return Result{Text: fmt.Sprintf("Ending call: %s. The call disconnects shortly; deliver your goodbye now.", reason)}, nil
}

func (t EndCall) log() *slog.Logger {
	if t.Logger != nil {
		return t.Logger
	}
	return slog.Default()
}
