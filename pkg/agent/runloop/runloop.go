// Package runloop drives one interview turn: guardrail screening, model
// invocation, and tool dispatch, looping until the model produces a spoken
// reply. All state changes flow through the merge engine; the loop itself
// holds no mutable session state between calls.
package runloop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/vocalize-ai/hrscreen/pkg/agent/guardrail"
	"github.com/vocalize-ai/hrscreen/pkg/agent/state"
	"github.com/vocalize-ai/hrscreen/pkg/agent/tools"
	"github.com/vocalize-ai/hrscreen/pkg/llm"
)

// DefaultMaxSteps bounds model/tool iterations within one turn.
const DefaultMaxSteps = 25

// ErrMaxSteps is returned when a turn exhausts its step budget without the
// model settling on a reply.
var ErrMaxSteps = errors.New("turn exceeded max steps")

// Controller runs interview turns for one session.
type Controller struct {
	Client llm.Client
	Tools  *tools.Registry
	Gate   *guardrail.Gate

	Model  string
	System string

	// MaxSteps bounds the tool loop. Zero means DefaultMaxSteps.
	MaxSteps int

	Logger *slog.Logger

	// NewID is swapped in tests; nil means uuid.NewString.
	NewID func() string
}

// RunTurn advances the interview by one candidate turn. userText may be
// empty, which runs the model against the existing conversation; sessions
// use that for the opening greeting and for resuming a restored call. The
// returned state is the new canonical state whether or not an error occurred.
func (c *Controller) RunTurn(ctx context.Context, st state.State, userText string, emit EmitFunc) (state.State, error) {
	turn := countUserTurns(st.Messages)
	if err := c.emit(emit, TurnStartEvent{Turn: turn}); err != nil {
		return st, err
	}

	if userText != "" {
		msg := state.Message{ID: c.newID(), Role: state.RoleUser, Content: userText}
		st = state.Merge(st, state.AppendMessages(msg))
		if err := c.emit(emit, StateUpdateEvent{Messages: []state.Message{msg}}); err != nil {
			return st, err
		}
	}

	if c.Gate != nil {
		if res := c.Gate.Evaluate(ctx, st); !res.Allowed {
			reply := state.Message{ID: c.newID(), Role: state.RoleAssistant, Content: res.Reply}
			st = state.Merge(st, state.AppendMessages(reply))
			if err := c.emit(emit, TurnBlockedEvent{Reason: res.Reason}); err != nil {
				return st, err
			}
			if err := c.emit(emit, StateUpdateEvent{Messages: []state.Message{reply}}); err != nil {
				return st, err
			}
			return st, c.emit(emit, TurnCompleteEvent{FinalText: res.Reply})
		}
	}

	maxSteps := c.MaxSteps
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}

	for step := 0; step < maxSteps; step++ {
		if err := ctx.Err(); err != nil {
			return st, err
		}

		resp, err := c.Client.Generate(ctx, &llm.Request{
			Model:    c.Model,
			System:   c.System,
			Messages: toModelMessages(st.Messages),
			Tools:    c.Tools.Definitions(),
		})
		if err != nil {
			_ = c.emit(emit, TurnErrorEvent{Message: err.Error()})
			return st, fmt.Errorf("model call: %w", err)
		}

		assistant := state.Message{ID: c.newID(), Role: state.RoleAssistant, Content: resp.Text}
		for _, tc := range resp.ToolCalls {
			id := tc.ID
			if id == "" {
				id = c.newID()
			}
			assistant.ToolCalls = append(assistant.ToolCalls, state.ToolCall{ID: id, Name: tc.Name, Args: tc.Args})
		}
		st = state.Merge(st, state.AppendMessages(assistant))
		if err := c.emit(emit, StateUpdateEvent{Step: step, Messages: []state.Message{assistant}}); err != nil {
			return st, err
		}

		if len(assistant.ToolCalls) == 0 {
			return st, c.emit(emit, TurnCompleteEvent{FinalText: resp.Text})
		}

		for _, tc := range assistant.ToolCalls {
			if err := c.emit(emit, ToolCallEvent{ID: tc.ID, Name: tc.Name, Args: tc.Args}); err != nil {
				return st, err
			}

			res := c.Tools.Dispatch(ctx, tools.Invocation{ID: tc.ID, Name: tc.Name, Args: tc.Args}, st)
			if !res.Update.IsZero() {
				st = state.Merge(st, res.Update)
			}

			resultMsg := state.Message{
				ID:         c.newID(),
				Role:       state.RoleToolResult,
				Content:    res.Text,
				ToolCallID: tc.ID,
				ToolName:   tc.Name,
			}
			st = state.Merge(st, state.AppendMessages(resultMsg))

			if err := c.emit(emit, ToolResultEvent{ID: tc.ID, Name: tc.Name, Text: res.Text}); err != nil {
				return st, err
			}
			if err := c.emit(emit, StateUpdateEvent{Step: step, Messages: []state.Message{resultMsg}}); err != nil {
				return st, err
			}
		}
	}

	c.log().Error("turn exceeded max steps", "max_steps", maxSteps)
	_ = c.emit(emit, TurnErrorEvent{Message: ErrMaxSteps.Error()})
	return st, ErrMaxSteps
}

func (c *Controller) emit(emit EmitFunc, ev Event) error {
	if emit == nil {
		return nil
	}
	return emit(ev)
}

func (c *Controller) newID() string {
	if c.NewID != nil {
		return c.NewID()
	}
	return uuid.NewString()
}

func (c *Controller) log() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// toModelMessages converts canonical history into the model wire shape.
// System turns never appear in history; instructions travel separately.
func toModelMessages(msgs []state.Message) []llm.Message {
	out := make([]llm.Message, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case state.RoleUser:
			out = append(out, llm.Message{Role: llm.RoleUser, Text: m.Content})
		case state.RoleAssistant:
			lm := llm.Message{Role: llm.RoleAssistant, Text: m.Content}
			for _, tc := range m.ToolCalls {
				lm.ToolCalls = append(lm.ToolCalls, llm.ToolCall{ID: tc.ID, Name: tc.Name, Args: tc.Args})
			}
			out = append(out, lm)
		case state.RoleToolResult:
			out = append(out, llm.Message{Role: llm.RoleTool, ToolResult: &llm.ToolResult{
				CallID: m.ToolCallID,
				Name:   m.ToolName,
				Text:   m.Content,
			}})
		}
	}
	return out
}

func countUserTurns(msgs []state.Message) int {
	n := 0
	for _, m := range msgs {
		if m.Role == state.RoleUser {
			n++
		}
	}
	return n
}
