package runloop

import "github.com/vocalize-ai/hrscreen/pkg/agent/state"

// Event is the interface all run loop events implement.
type Event interface {
	EventType() string
}

// EmitFunc receives events as the turn progresses. A non-nil error aborts
// the turn.
type EmitFunc func(Event) error

// TurnStartEvent opens a turn.
type TurnStartEvent struct {
	Turn int
}

func (TurnStartEvent) EventType() string { return "turn_start" }

// StateUpdateEvent reports messages appended to the canonical conversation.
type StateUpdateEvent struct {
	Step     int
	Messages []state.Message
}

func (StateUpdateEvent) EventType() string { return "state_update" }

// ToolCallEvent reports a tool invocation the model requested.
type ToolCallEvent struct {
	ID   string
	Name string
	Args map[string]any
}

func (ToolCallEvent) EventType() string { return "tool_call" }

// ToolResultEvent reports the outcome of a tool invocation.
type ToolResultEvent struct {
	ID   string
	Name string
	Text string
}

func (ToolResultEvent) EventType() string { return "tool_result" }

// TurnBlockedEvent reports that the guardrail gate stopped the turn before
// it reached the model.
type TurnBlockedEvent struct {
	Reason string
}

func (TurnBlockedEvent) EventType() string { return "turn_blocked" }

// TurnCompleteEvent closes a successful turn.
type TurnCompleteEvent struct {
	FinalText string
}

func (TurnCompleteEvent) EventType() string { return "turn_complete" }

// TurnErrorEvent closes a failed turn.
type TurnErrorEvent struct {
	Message string
}

func (TurnErrorEvent) EventType() string { return "turn_error" }
