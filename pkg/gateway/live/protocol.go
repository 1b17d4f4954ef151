// Package live is the WebSocket gateway for interview calls. One connection
// is one call: the client opens with a hello frame, sends candidate turns as
// they are transcribed, and receives the agent's utterances as deltas.
package live

import (
	"encoding/json"
	"fmt"
	"strings"
)

const ProtocolVersion1 = "1"

// Client frame types.
const (
	FrameHello    = "hello"
	FrameUserTurn = "user_turn"
	FrameControl  = "control"
)

// Server frame types.
const (
	FrameHelloAck       = "hello_ack"
	FrameAssistantDelta = "assistant_delta"
	FrameCallEnded      = "call_ended"
	FrameError          = "error"
)

// DecodeError reports a malformed or unsupported client frame.
type DecodeError struct {
	Code    string
	Message string
	Param   string
}

func (e *DecodeError) Error() string {
	if strings.TrimSpace(e.Param) == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Param)
}

func badRequest(message, param string) *DecodeError {
	return &DecodeError{Code: "bad_request", Message: message, Param: param}
}

// ClientHello opens a call. Room and SID together identify the call; a
// reconnect with the same pair resumes from the last checkpoint.
type ClientHello struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Room            string `json:"room"`
	SID             string `json:"sid"`
	Company         string `json:"company,omitempty"`
	Position        string `json:"position,omitempty"`
	Candidate       string `json:"candidate,omitempty"`
}

// CallID derives the checkpoint key for this call.
func (h ClientHello) CallID() string {
	return h.Room + "__" + h.SID
}

// UserTurn carries one transcribed candidate utterance.
type UserTurn struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Control carries client-side call control.
type Control struct {
	Type   string `json:"type"`
	Action string `json:"action"` // "end"
}

// HelloAck confirms the call is open.
type HelloAck struct {
	Type    string `json:"type"`
	CallID  string `json:"call_id"`
	Resumed bool   `json:"resumed"`
}

// AssistantDelta is one speakable agent utterance.
type AssistantDelta struct {
	Type    string `json:"type"`
	ID      string `json:"id"`
	Content string `json:"content"`
}

// CallEnded announces the call is over and the connection will close.
type CallEnded struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// ErrorFrame reports a recoverable or fatal session error.
type ErrorFrame struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type frameEnvelope struct {
	Type string `json:"type"`
}

// DecodeHello parses and validates the opening frame.
func DecodeHello(data []byte) (ClientHello, error) {
	var h ClientHello
	if err := json.Unmarshal(data, &h); err != nil {
		return ClientHello{}, badRequest("malformed hello frame", "")
	}
	if h.Type != FrameHello {
		return ClientHello{}, badRequest("first frame must be hello", "type")
	}
	if h.ProtocolVersion != ProtocolVersion1 {
		return ClientHello{}, badRequest("unsupported protocol version", "protocol_version")
	}
	if strings.TrimSpace(h.Room) == "" {
		return ClientHello{}, badRequest("room is required", "room")
	}
	if strings.TrimSpace(h.SID) == "" {
		return ClientHello{}, badRequest("sid is required", "sid")
	}
	return h, nil
}

// ClientFrame is any post-hello inbound frame.
type ClientFrame struct {
	UserTurn *UserTurn
	Control  *Control
}

// DecodeClientFrame parses a post-hello frame.
func DecodeClientFrame(data []byte) (ClientFrame, error) {
	var env frameEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return ClientFrame{}, badRequest("malformed frame", "")
	}
	switch env.Type {
	case FrameUserTurn:
		var ut UserTurn
		if err := json.Unmarshal(data, &ut); err != nil {
			return ClientFrame{}, badRequest("malformed user_turn frame", "")
		}
		if strings.TrimSpace(ut.Text) == "" {
			return ClientFrame{}, badRequest("text is required", "text")
		}
		return ClientFrame{UserTurn: &ut}, nil
	case FrameControl:
		var c Control
		if err := json.Unmarshal(data, &c); err != nil {
			return ClientFrame{}, badRequest("malformed control frame", "")
		}
		if c.Action != "end" {
			return ClientFrame{}, badRequest("unsupported control action", "action")
		}
		return ClientFrame{Control: &c}, nil
	case FrameHello:
		return ClientFrame{}, badRequest("hello may only be sent once", "type")
	default:
		return ClientFrame{}, badRequest(fmt.Sprintf("unknown frame type %q", env.Type), "type")
	}
}
