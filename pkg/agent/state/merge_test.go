package state

import (
	"testing"
	"time"
)

func TestMerge_AppendMessages(t *testing.T) {
	s := Merge(State{}, AppendMessages(Message{ID: "m1", Role: RoleUser, Content: "hi"}))
	s = Merge(s, AppendMessages(Message{ID: "m2", Role: RoleAssistant, Content: "hello"}))

	if len(s.Messages) != 2 {
		t.Fatalf("messages=%d", len(s.Messages))
	}
	if s.Messages[0].ID != "m1" || s.Messages[1].ID != "m2" {
		t.Fatalf("order=%v", s.Messages)
	}
}

func TestMerge_ReapplyIsIdempotent(t *testing.T) {
	u := AppendMessages(Message{ID: "m1", Role: RoleUser, Content: "hi"})
	s := Merge(State{}, u)
	s = Merge(s, u)
	if len(s.Messages) != 1 {
		t.Fatalf("duplicate growth: messages=%d", len(s.Messages))
	}

	th := AppendThought("candidate has 5y Go experience")
	s = Merge(s, th)
	s = Merge(s, th)
	if len(s.Scratchpad) != 1 {
		t.Fatalf("duplicate growth: scratchpad=%d", len(s.Scratchpad))
	}
}

func TestMerge_IdenticalContentDistinctIDsBothKept(t *testing.T) {
	s := Merge(State{}, AppendMessages(Message{ID: "m1", Role: RoleUser, Content: "yes"}))
	s = Merge(s, AppendMessages(Message{ID: "m2", Role: RoleUser, Content: "yes"}))
	if len(s.Messages) != 2 {
		t.Fatalf("messages=%d, want 2", len(s.Messages))
	}
}

func TestMerge_ScratchpadDedupPreservesFirstOccurrence(t *testing.T) {
	s := Merge(State{}, Update{Scratchpad: []string{"a", "b", "a", "c", "b"}, ScratchpadSet: true})
	want := []string{"a", "b", "c"}
	if len(s.Scratchpad) != len(want) {
		t.Fatalf("scratchpad=%v", s.Scratchpad)
	}
	for i, w := range want {
		if s.Scratchpad[i] != w {
			t.Fatalf("scratchpad[%d]=%q, want %q", i, s.Scratchpad[i], w)
		}
	}
}

func TestMerge_ScratchpadOverride(t *testing.T) {
	s := Merge(State{}, AppendThought("first"))
	s = Merge(s, AppendThought("second"))

	s = Merge(s, ReplaceScratchpad("fresh", "fresh", "start"))
	if len(s.Scratchpad) != 2 || s.Scratchpad[0] != "fresh" || s.Scratchpad[1] != "start" {
		t.Fatalf("override result=%v", s.Scratchpad)
	}

	s = Merge(s, ReplaceScratchpad())
	if len(s.Scratchpad) != 0 {
		t.Fatalf("clear result=%v", s.Scratchpad)
	}
}

func TestMerge_StartTimeNeverDecreases(t *testing.T) {
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := Merge(State{}, SetStartTime(t0))
	if s.StartTime == nil || !s.StartTime.Equal(t0) {
		t.Fatalf("start=%v", s.StartTime)
	}

	earlier := t0.Add(-time.Minute)
	s = Merge(s, SetStartTime(earlier))
	if !s.StartTime.Equal(t0) {
		t.Fatalf("start moved backwards to %v", s.StartTime)
	}

	later := t0.Add(time.Minute)
	s = Merge(s, SetStartTime(later))
	if !s.StartTime.Equal(later) {
		t.Fatalf("restart not applied: %v", s.StartTime)
	}
}

func TestMerge_ScalarOmissionLeavesValue(t *testing.T) {
	s := Merge(State{}, SetSummary("v1"))
	s = Merge(s, AppendMessages(Message{ID: "m1", Role: RoleUser, Content: "hi"}))
	if s.InterviewSummary != "v1" {
		t.Fatalf("summary=%q", s.InterviewSummary)
	}
	s = Merge(s, SetSummary("v2"))
	if s.InterviewSummary != "v2" {
		t.Fatalf("summary=%q", s.InterviewSummary)
	}
}

func TestReplay_Deterministic(t *testing.T) {
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	updates := []Update{
		AppendMessages(Message{ID: "m1", Role: RoleUser, Content: "hi"}),
		SetStartTime(t0),
		AppendThought("note"),
		AppendMessages(Message{ID: "m2", Role: RoleAssistant, Content: "hello"}),
		SetSummary("done"),
	}

	a := Replay(updates)
	b := Replay(updates)

	if len(a.Messages) != 2 || len(b.Messages) != 2 {
		t.Fatalf("messages a=%d b=%d", len(a.Messages), len(b.Messages))
	}
	if a.InterviewSummary != b.InterviewSummary || a.InterviewSummary != "done" {
		t.Fatalf("summary a=%q b=%q", a.InterviewSummary, b.InterviewSummary)
	}
	if !a.StartTime.Equal(*b.StartTime) {
		t.Fatalf("start a=%v b=%v", a.StartTime, b.StartTime)
	}
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	cur := State{Messages: []Message{{ID: "m1", Role: RoleUser, Content: "hi"}}}
	_ = Merge(cur, AppendMessages(Message{ID: "m2", Role: RoleAssistant, Content: "hello"}))
	if len(cur.Messages) != 1 {
		t.Fatalf("current mutated: %v", cur.Messages)
	}
}

func TestWindow(t *testing.T) {
	var s State
	for _, id := range []string{"a", "b", "c"} {
		s = Merge(s, AppendMessages(Message{ID: id, Role: RoleUser, Content: id}))
	}
	w := s.Window(2)
	if len(w) != 2 || w[0].ID != "b" || w[1].ID != "c" {
		t.Fatalf("window=%v", w)
	}
	if got := s.Window(10); len(got) != 3 {
		t.Fatalf("window(10)=%d", len(got))
	}
}
