// Package state holds the canonical per-call interview state and the merge
// engine that resolves partial updates against it. A call's state is owned
// exclusively by its session loop; nothing in this package locks.
package state

import "time"

// Message roles.
const (
	RoleSystem     = "system"
	RoleUser       = "user"
	RoleAssistant  = "assistant"
	RoleToolResult = "tool_result"
)

// ToolCall records a function call an assistant turn requested, so the
// conversation can be replayed into model context after a restore.
type ToolCall struct {
	ID   string         `json:"id"`
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

// Message is a single role-tagged turn in the conversation.
type Message struct {
	ID      string `json:"id,omitempty"`
	Role    string `json:"role"`
	Content string `json:"content"`

	// ToolCalls is set on assistant turns that invoked tools.
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`

	// ToolCallID and ToolName tie a tool_result turn back to its call.
	ToolCallID string `json:"tool_call_id,omitempty"`
	ToolName   string `json:"tool_name,omitempty"`
}

// State is the full interview session record. The zero value is a valid
// empty session.
type State struct {
	// Messages is the authoritative conversation order. It only grows,
	// except when a checkpoint restore replaces it wholesale.
	Messages []Message `json:"messages"`

	// Scratchpad is the agent's working memory: an ordered, duplicate-free
	// list of free-text thoughts.
	Scratchpad []string `json:"scratchpad,omitempty"`

	// StartTime is set by the start_timer tool. Nil until the timer starts.
	StartTime *time.Time `json:"start_time,omitempty"`

	// InterviewSummary is the last summary written by write_summary.
	InterviewSummary string `json:"interview_summary,omitempty"`
}

// LastMessage returns the newest message, if any.
func (s State) LastMessage() (Message, bool) {
	if len(s.Messages) == 0 {
		return Message{}, false
	}
	return s.Messages[len(s.Messages)-1], true
}

// Window returns up to n of the newest messages in conversation order.
func (s State) Window(n int) []Message {
	if n <= 0 || len(s.Messages) == 0 {
		return nil
	}
	if len(s.Messages) <= n {
		n = len(s.Messages)
	}
	out := make([]Message, n)
	copy(out, s.Messages[len(s.Messages)-n:])
	return out
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	out := State{
		StartTime:        s.StartTime,
		InterviewSummary: s.InterviewSummary,
	}
	if len(s.Messages) > 0 {
		out.Messages = make([]Message, len(s.Messages))
		copy(out.Messages, s.Messages)
	}
	if len(s.Scratchpad) > 0 {
		out.Scratchpad = make([]string, len(s.Scratchpad))
		copy(out.Scratchpad, s.Scratchpad)
	}
	return out
}
