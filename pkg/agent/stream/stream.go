// Package stream filters run loop events down to the utterances a voice
// transport should speak. Tool calls, tool results, and empty assistant
// turns never produce output; each content-bearing assistant message yields
// exactly one delta, keyed by its canonical message ID so re-emission after
// a retry or restore is suppressed.
package stream

import (
	"github.com/google/uuid"

	"github.com/vocalize-ai/hrscreen/pkg/agent/runloop"
	"github.com/vocalize-ai/hrscreen/pkg/agent/state"
)

// ChatDelta is one speakable assistant utterance.
type ChatDelta struct {
	ID      string `json:"id"`
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Adapter translates run loop events for one session. Not safe for
// concurrent use; a session owns exactly one.
type Adapter struct {
	seen map[string]struct{}
}

func NewAdapter() *Adapter {
	return &Adapter{seen: make(map[string]struct{})}
}

// Translate returns the deltas an event produces, usually zero or one.
func (a *Adapter) Translate(ev runloop.Event) []ChatDelta {
	su, ok := ev.(runloop.StateUpdateEvent)
	if !ok {
		return nil
	}

	var out []ChatDelta
	for _, m := range su.Messages {
		if m.Role != state.RoleAssistant || m.Content == "" {
			continue
		}
		id := m.ID
		if id == "" {
			// A message with no upstream identity gets its own; it cannot be
			// a re-emission of anything.
			id = uuid.NewString()
		} else if _, dup := a.seen[id]; dup {
			continue
		}
		a.seen[id] = struct{}{}
		out = append(out, ChatDelta{ID: id, Role: m.Role, Content: m.Content})
	}
	return out
}

// Emit wraps a delta sink as a run loop emit function.
func (a *Adapter) Emit(sink func(ChatDelta) error) runloop.EmitFunc {
	return func(ev runloop.Event) error {
		for _, d := range a.Translate(ev) {
			if err := sink(d); err != nil {
				return err
			}
		}
		return nil
	}
}
