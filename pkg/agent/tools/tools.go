// Package tools implements the function tools the interviewing model can
// call and the registry that dispatches them. Executors are pure with respect
// to session state: they read the state they are handed and describe changes
// as merge updates, never mutating anything in place. Dispatch never returns
// a Go error to the run loop; failures become descriptive text the model can
// read and recover from.
package tools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vocalize-ai/hrscreen/pkg/agent/state"
	"github.com/vocalize-ai/hrscreen/pkg/llm"
)

// Invocation is one tool call requested by the model.
type Invocation struct {
	ID   string
	Name string
	Args map[string]any
}

// Result is what an executor hands back: text for the model and an optional
// state update for the merge engine.
type Result struct {
	Text   string
	Update state.Update
}

// Executor is a single callable tool.
type Executor interface {
	Name() string
	Definition() llm.ToolDef
	Execute(ctx context.Context, inv Invocation, st state.State) (Result, error)
}

// Registry holds a session's executors in registration order.
type Registry struct {
	order  []string
	byName map[string]Executor
	logger *slog.Logger
}

// NewRegistry builds a registry from the given executors. Registering two
// executors with the same name panics; that is a wiring bug, not a runtime
// condition.
func NewRegistry(logger *slog.Logger, execs ...Executor) *Registry {
	r := &Registry{byName: make(map[string]Executor, len(execs)), logger: logger}
	for _, e := range execs {
		name := e.Name()
		if _, dup := r.byName[name]; dup {
			panic(fmt.Sprintf("tools: duplicate executor %q", name))
		}
		r.order = append(r.order, name)
		r.byName[name] = e
	}
	return r
}

// Definitions returns the tool declarations in registration order, for the
// model request.
func (r *Registry) Definitions() []llm.ToolDef {
	out := make([]llm.ToolDef, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name].Definition())
	}
	return out
}

// Dispatch executes one invocation. Unknown tools and executor errors are
// reported as result text so the model can see what went wrong and continue
// the interview; they never abort the turn.
func (r *Registry) Dispatch(ctx context.Context, inv Invocation, st state.State) Result {
	exec, ok := r.byName[inv.Name]
	if !ok {
		r.log().Warn("unknown tool requested", "tool", inv.Name)
		return Result{Text: fmt.Sprintf("Error: unknown tool %q.", inv.Name)}
	}

	res, err := exec.Execute(ctx, inv, st)
	if err != nil {
		r.log().Error("tool failed", "tool", inv.Name, "error", err)
		return Result{Text: fmt.Sprintf("Error: %s failed: %v", inv.Name, err)}
	}
	return res
}

func (r *Registry) log() *slog.Logger {
	if r.logger != nil {
		return r.logger
	}
	return slog.Default()
}

// stringArg extracts a string argument, tolerating absent maps.
func stringArg(args map[string]any, key string) string {
	if args == nil {
		return ""
	}
	s, _ := args[key].(string)
	return s
}
