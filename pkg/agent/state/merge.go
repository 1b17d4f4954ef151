package state

// Merge resolves an update against the current state and returns the new
// state. The inputs are not mutated. Updates are applied sequentially by the
// session's single loop, so Merge does not lock.
//
// Sequence fields append by default and are duplicate-eliminated after the
// merge, preserving first-occurrence order. Because elimination runs as a
// post-step over the combined sequence, re-merging an already-applied update
// does not grow the field. Messages are deduplicated by message ID only:
// conversation content may legitimately repeat ("yes", "thanks"), so two
// distinct messages with identical text are both kept.
func Merge(current State, u Update) State {
	next := current.Clone()

	switch u.MessagesMode {
	case SeqReplace:
		next.Messages = dedupMessages(u.Messages)
	default:
		if len(u.Messages) > 0 {
			next.Messages = dedupMessages(append(next.Messages, u.Messages...))
		}
	}

	if u.ScratchpadSet {
		switch u.ScratchpadMode {
		case SeqReplace:
			next.Scratchpad = dedupStrings(u.Scratchpad)
		default:
			next.Scratchpad = dedupStrings(append(next.Scratchpad, u.Scratchpad...))
		}
	}

	if u.StartTime != nil {
		// The timer may be restarted, but never moved backwards.
		if next.StartTime == nil || !u.StartTime.Before(*next.StartTime) {
			t := *u.StartTime
			next.StartTime = &t
		}
	}

	if u.Summary != nil {
		next.InterviewSummary = *u.Summary
	}

	return next
}

// Replay reconstructs a state by applying updates in order to an empty
// initial state.
func Replay(updates []Update) State {
	var s State
	for _, u := range updates {
		s = Merge(s, u)
	}
	return s
}

func dedupMessages(msgs []Message) []Message {
	if len(msgs) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(msgs))
	out := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		if m.ID != "" {
			if _, dup := seen[m.ID]; dup {
				continue
			}
			seen[m.ID] = struct{}{}
		}
		out = append(out, m)
	}
	return out
}

func dedupStrings(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
