package tools

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vocalize-ai/hrscreen/pkg/agent/state"
	"github.com/vocalize-ai/hrscreen/pkg/llm"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type failing struct{ name string }

func (f failing) Name() string            { return f.name }
func (f failing) Definition() llm.ToolDef { return llm.ToolDef{Name: f.name} }
func (f failing) Execute(context.Context, Invocation, state.State) (Result, error) {
	return Result{}, errors.New("disk on fire")
}

func TestRegistry_DispatchUnknownTool(t *testing.T) {
	r := NewRegistry(discard(), Think{})
	res := r.Dispatch(context.Background(), Invocation{ID: "c1", Name: "launch_rocket"}, state.State{})
	if !strings.Contains(res.Text, "unknown tool") {
		t.Fatalf("text=%q", res.Text)
	}
	if !res.Update.IsZero() {
		t.Fatalf("unexpected update: %+v", res.Update)
	}
}

func TestRegistry_DispatchExecutorErrorBecomesText(t *testing.T) {
	r := NewRegistry(discard(), failing{name: "flaky"})
	res := r.Dispatch(context.Background(), Invocation{Name: "flaky"}, state.State{})
	if !strings.Contains(res.Text, "flaky failed") || !strings.Contains(res.Text, "disk on fire") {
		t.Fatalf("text=%q", res.Text)
	}
}

func TestRegistry_DefinitionsInRegistrationOrder(t *testing.T) {
	r := NewRegistry(discard(), Think{}, ClearThoughts{}, ReadSummary{})
	defs := r.Definitions()
	want := []string{"think", "clear_thoughts", "read_summary"}
	if len(defs) != len(want) {
		t.Fatalf("defs=%d", len(defs))
	}
	for i, w := range want {
		if defs[i].Name != w {
			t.Fatalf("defs[%d]=%q, want %q", i, defs[i].Name, w)
		}
	}
}

func TestListDocuments(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"resume.pdf", "job_description.txt", "notes.docx", ".hidden.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	res, err := ListDocuments{Store: NewFSStore(dir, nil)}.Execute(context.Background(), Invocation{}, state.State{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.Text, "resume.pdf (PDF, 1 B)") {
		t.Fatalf("text=%q", res.Text)
	}
	if !strings.Contains(res.Text, "job_description.txt (Text, 1 B)") {
		t.Fatalf("text=%q", res.Text)
	}
	if strings.Contains(res.Text, "notes.docx") {
		t.Fatalf("unsupported file listed: %q", res.Text)
	}
}

func TestListDocuments_MissingDirectoryIsNormalResult(t *testing.T) {
	store := NewFSStore(filepath.Join(t.TempDir(), "does_not_exist"), nil)
	res, err := ListDocuments{Store: store}.Execute(context.Background(), Invocation{}, state.State{})
	if err != nil {
		t.Fatalf("missing directory escalated to error: %v", err)
	}
	if !strings.Contains(res.Text, "does not exist") {
		t.Fatalf("text=%q", res.Text)
	}
	if !res.Update.IsZero() {
		t.Fatalf("unexpected update: %+v", res.Update)
	}
}

func TestListDocuments_EmptyDirectory(t *testing.T) {
	res, err := ListDocuments{Store: NewFSStore(t.TempDir(), nil)}.Execute(context.Background(), Invocation{}, state.State{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.Text, "No input documents") {
		t.Fatalf("text=%q", res.Text)
	}
}

func TestReadDocument_PlainText(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "jd.txt"), []byte("Senior Go engineer."), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := ReadDocument{Store: NewFSStore(dir, nil)}.Execute(context.Background(),
		Invocation{Args: map[string]any{"file_name": "jd.txt"}}, state.State{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.Text, "Senior Go engineer.") {
		t.Fatalf("text=%q", res.Text)
	}
}

func TestReadDocument_MissingFileIsModelVisibleError(t *testing.T) {
	res, err := ReadDocument{Store: NewFSStore(t.TempDir(), nil)}.Execute(context.Background(),
		Invocation{Args: map[string]any{"file_name": "missing.pdf"}}, state.State{})
	if err != nil {
		t.Fatalf("missing file escalated to error: %v", err)
	}
	if !strings.Contains(res.Text, "missing.pdf") || !strings.Contains(res.Text, "list_input_documents") {
		t.Fatalf("text=%q", res.Text)
	}
}

func TestReadDocument_RejectsTraversal(t *testing.T) {
	res, err := ReadDocument{Store: NewFSStore(t.TempDir(), nil)}.Execute(context.Background(),
		Invocation{Args: map[string]any{"file_name": "../secrets.txt"}}, state.State{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.Text, "Error") {
		t.Fatalf("text=%q", res.Text)
	}
}

func TestStartTimer(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	res, err := StartTimer{Now: func() time.Time { return now }}.Execute(context.Background(), Invocation{}, state.State{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Update.StartTime == nil || !res.Update.StartTime.Equal(now) {
		t.Fatalf("update=%+v", res.Update)
	}
	if !strings.Contains(res.Text, "started") {
		t.Fatalf("text=%q", res.Text)
	}

	st := state.Merge(state.State{}, res.Update)
	res, err = StartTimer{Now: func() time.Time { return now.Add(time.Minute) }}.Execute(context.Background(), Invocation{}, st)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.Text, "restarted") {
		t.Fatalf("text=%q", res.Text)
	}
}

func TestCheckTime(t *testing.T) {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	ct := CheckTime{
		Duration: 15 * time.Minute,
		Warning:  5 * time.Minute,
		Now:      func() time.Time { return start.Add(11 * time.Minute) },
	}

	res, err := ct.Execute(context.Background(), Invocation{}, state.State{StartTime: &start})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.Text, "critical") {
		t.Fatalf("text=%q", res.Text)
	}

	res, err = ct.Execute(context.Background(), Invocation{}, state.State{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.Text, "start_timer") {
		t.Fatalf("text=%q", res.Text)
	}
}

type fakeSink struct {
	texts []string
	err   error
}

func (f *fakeSink) WriteSummary(_ context.Context, text string) error {
	if f.err != nil {
		return f.err
	}
	f.texts = append(f.texts, text)
	return nil
}

func TestWriteSummary(t *testing.T) {
	sink := &fakeSink{}
	res, err := WriteSummary{Sink: sink}.Execute(context.Background(),
		Invocation{Args: map[string]any{"summary": "Strong backend candidate."}}, state.State{})
	if err != nil {
		t.Fatal(err)
	}
	if len(sink.texts) != 1 || sink.texts[0] != "Strong backend candidate." {
		t.Fatalf("sink=%v", sink.texts)
	}
	if res.Update.Summary == nil || *res.Update.Summary != "Strong backend candidate." {
		t.Fatalf("update=%+v", res.Update)
	}
}

func TestWriteSummary_SinkFailureKeepsInMemorySummary(t *testing.T) {
	ws := WriteSummary{Sink: &fakeSink{err: errors.New("db down")}}
	res, err := ws.Execute(context.Background(),
		Invocation{Args: map[string]any{"summary": "Solid candidate."}}, state.State{})
	if err != nil {
		t.Fatalf("sink failure escalated to error: %v", err)
	}
	if !strings.Contains(res.Text, "db down") || !strings.Contains(res.Text, "session state") {
		t.Fatalf("text=%q", res.Text)
	}
	if res.Update.Summary == nil || *res.Update.Summary != "Solid candidate." {
		t.Fatalf("update=%+v", res.Update)
	}

	st := state.Merge(state.State{}, res.Update)
	if st.InterviewSummary != "Solid candidate." {
		t.Fatalf("summary=%q", st.InterviewSummary)
	}
}

func TestReadSummary(t *testing.T) {
	res, err := ReadSummary{}.Execute(context.Background(), Invocation{}, state.State{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.Text, "No summary") {
		t.Fatalf("text=%q", res.Text)
	}

	res, err = ReadSummary{}.Execute(context.Background(), Invocation{}, state.State{InterviewSummary: "done"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.Text, "done") {
		t.Fatalf("text=%q", res.Text)
	}
}

func TestThinkAndClear(t *testing.T) {
	res, err := Think{}.Execute(context.Background(),
		Invocation{Args: map[string]any{"thought": "asks good questions"}}, state.State{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.Text, "asks good questions") {
		t.Fatalf("text=%q", res.Text)
	}
	st := state.Merge(state.State{}, res.Update)
	if len(st.Scratchpad) != 1 || st.Scratchpad[0] != "asks good questions" {
		t.Fatalf("scratchpad=%v", st.Scratchpad)
	}

	res, err = ClearThoughts{}.Execute(context.Background(), Invocation{}, st)
	if err != nil {
		t.Fatal(err)
	}
	st = state.Merge(st, res.Update)
	if len(st.Scratchpad) != 0 {
		t.Fatalf("scratchpad=%v", st.Scratchpad)
	}
}

type fakeTerminator struct {
	reasons []string
}

func (f *fakeTerminator) Terminate(reason string) { f.reasons = append(f.reasons, reason) }

func TestEndCall_SchedulesTermination(t *testing.T) {
	term := &fakeTerminator{}
	var gotDelay time.Duration
	var fire func()

	ec := EndCall{
		Terminator: term,
		Delay:      2 * time.Second,
		Logger:     discard(),
		after: func(d time.Duration, f func()) *time.Timer {
			gotDelay, fire = d, f
			return nil
		},
	}

	res, err := ec.Execute(context.Background(),
		Invocation{Args: map[string]any{"reason": "candidate withdrew"}}, state.State{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.Text, "goodbye") || !strings.Contains(res.Text, "candidate withdrew") {
		t.Fatalf("text=%q", res.Text)
	}
	if gotDelay != 2*time.Second {
		t.Fatalf("delay=%v", gotDelay)
	}
	if len(term.reasons) != 0 {
		t.Fatal("terminated before delay elapsed")
	}
	fire()
	if len(term.reasons) != 1 || term.reasons[0] != "candidate withdrew" {
		t.Fatalf("terminations=%v", term.reasons)
	}
}

func TestEndCall_DefaultReason(t *testing.T) {
	term := &fakeTerminator{}
	ec := EndCall{
		Terminator: term,
		Logger:     discard(),
		after: func(_ time.Duration, f func()) *time.Timer {
			f()
			return nil
		},
	}

	res, err := ec.Execute(context.Background(), Invocation{}, state.State{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.Text, "interview complete") {
		t.Fatalf("text=%q", res.Text)
	}
	if len(term.reasons) != 1 || term.reasons[0] != "interview complete" {
		t.Fatalf("terminations=%v", term.reasons)
	}
}

type fakeSearcher struct {
	answer string
	err    error
}

func (f fakeSearcher) Search(context.Context, string) (string, error) { return f.answer, f.err }

func TestWebSearch(t *testing.T) {
	res, err := WebSearch{Searcher: fakeSearcher{answer: "Acme builds rockets."}}.Execute(context.Background(),
		Invocation{Args: map[string]any{"query": "what does Acme do"}}, state.State{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Text != "Acme builds rockets." {
		t.Fatalf("text=%q", res.Text)
	}

	res, err = WebSearch{Searcher: fakeSearcher{}}.Execute(context.Background(),
		Invocation{Args: map[string]any{"query": ""}}, state.State{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.Text, "Error") {
		t.Fatalf("text=%q", res.Text)
	}
}
