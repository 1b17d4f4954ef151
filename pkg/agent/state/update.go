package state

import "time"

// SeqMode selects how a sequence field in an Update is resolved against the
// current value.
type SeqMode int

const (
	// SeqAppend concatenates the update onto the current sequence. This is
	// the default.
	SeqAppend SeqMode = iota

	// SeqReplace discards the current sequence and installs the update's
	// value wholesale. This is the only path that can shrink a sequence.
	SeqReplace
)

// Update is a partial state change. Fields left at their zero value leave
// the corresponding state field untouched. Sequence fields carry an explicit
// mode; scalar fields are replace-on-write via non-nil pointers.
type Update struct {
	Messages     []Message
	MessagesMode SeqMode

	Scratchpad     []string
	ScratchpadMode SeqMode
	// ScratchpadSet distinguishes "replace with empty" from "no change"
	// when ScratchpadMode is SeqReplace and Scratchpad is empty.
	ScratchpadSet bool

	StartTime *time.Time
	Summary   *string
}

// AppendMessages builds an update that appends messages to the conversation.
func AppendMessages(msgs ...Message) Update {
	return Update{Messages: msgs}
}

// AppendThought builds an update that appends one scratchpad entry.
func AppendThought(thought string) Update {
	return Update{Scratchpad: []string{thought}, ScratchpadSet: true}
}

// ReplaceScratchpad builds an override update that installs the given
// scratchpad wholesale. ReplaceScratchpad() clears it.
func ReplaceScratchpad(thoughts ...string) Update {
	return Update{Scratchpad: thoughts, ScratchpadMode: SeqReplace, ScratchpadSet: true}
}

// SetStartTime builds an update that records the interview start time.
func SetStartTime(t time.Time) Update {
	return Update{StartTime: &t}
}

// SetSummary builds an update that stores the interview summary.
func SetSummary(text string) Update {
	return Update{Summary: &text}
}

// IsZero reports whether the update changes nothing.
func (u Update) IsZero() bool {
	return len(u.Messages) == 0 && u.MessagesMode == SeqAppend &&
		!u.ScratchpadSet && u.StartTime == nil && u.Summary == nil
}
