// Package guardrail screens candidate utterances before they reach the
// interviewing model. Two classifiers run in order, safety first and topical
// relevance second, each over a bounded window of recent conversation. A
// blocked turn never reaches the model; the gate supplies the deflection the
// agent speaks instead.
package guardrail

import (
	"context"
	"log/slog"

	"github.com/vocalize-ai/hrscreen/pkg/agent/state"
)

// DefaultWindow is how many trailing messages a classifier sees for context.
const DefaultWindow = 15

// Block reasons.
const (
	ReasonUnsafe   = "unsafe"
	ReasonOffTopic = "off_topic"
)

// Verdict is a single classifier's judgment of the latest utterance.
type Verdict struct {
	Flagged bool   `json:"flagged"`
	Reason  string `json:"reason,omitempty"`
}

// Classifier judges the latest user utterance given recent context.
type Classifier interface {
	Classify(ctx context.Context, window []state.Message, latest string) (Verdict, error)
}

// Result is the gate's decision for one turn.
type Result struct {
	Allowed bool

	// Reason is set when blocked: ReasonUnsafe or ReasonOffTopic.
	Reason string

	// Reply is the assistant deflection to speak in place of a model turn.
	Reply string
}

// Gate runs the safety and relevance checks for a session.
type Gate struct {
	Safety    Classifier
	Relevance Classifier

	// Window bounds the context handed to classifiers. Zero means
	// DefaultWindow.
	Window int

	Logger *slog.Logger
}

const (
	safetyReply    = "I'm not able to discuss that. Let's keep our conversation professional and focused on the interview."
	relevanceReply = "Let's stay focused on the interview. Could we get back to discussing your background and the role?"
)

// Evaluate screens the state's newest message. Turns whose newest message is
// not from the candidate bypass the gate unchanged: tool results and
// assistant turns are the agent's own output. A classifier failure is logged
// and treated as allowed, because stalling a live call is worse than one
// unscreened utterance.
func (g *Gate) Evaluate(ctx context.Context, st state.State) Result {
	latest, ok := st.LastMessage()
	if !ok || latest.Role != state.RoleUser {
		return Result{Allowed: true}
	}

	n := g.Window
	if n <= 0 {
		n = DefaultWindow
	}
	window := st.Window(n)
	log := g.logger()

	if g.Safety != nil {
		v, err := g.Safety.Classify(ctx, window, latest.Content)
		switch {
		case err != nil:
			log.Warn("safety check failed, allowing turn", "error", err)
		case v.Flagged:
			log.Info("turn blocked", "reason", ReasonUnsafe, "detail", v.Reason)
			return Result{Reason: ReasonUnsafe, Reply: safetyReply}
		}
	}

	if g.Relevance != nil {
		v, err := g.Relevance.Classify(ctx, window, latest.Content)
		switch {
		case err != nil:
			log.Warn("relevance check failed, allowing turn", "error", err)
		case v.Flagged:
			log.Info("turn blocked", "reason", ReasonOffTopic, "detail", v.Reason)
			return Result{Reason: ReasonOffTopic, Reply: relevanceReply}
		}
	}

	return Result{Allowed: true}
}

func (g *Gate) logger() *slog.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return slog.Default()
}
