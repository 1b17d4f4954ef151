package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/vocalize-ai/hrscreen/pkg/agent/state"
	"github.com/vocalize-ai/hrscreen/pkg/agent/timer"
	"github.com/vocalize-ai/hrscreen/pkg/llm"
)

// StartTimer implements start_timer. Calling it again restarts the clock;
// the merge engine guarantees the recorded time never moves backwards.
type StartTimer struct {
	Now func() time.Time
}

func (StartTimer) Name() string { return "start_timer" }

func (StartTimer) Definition() llm.ToolDef {
	return llm.ToolDef{
		Name:        "start_timer",
		Description: "Start the interview timer. Call this once at the beginning of the interview, right after greeting the candidate.",
	}
}

func (t StartTimer) Execute(_ context.Context, _ Invocation, st state.State) (Result, error) {
	now := t.now()
	res := Result{Update: state.SetStartTime(now)}
	if st.StartTime != nil {
		res.Text = "Interview timer restarted."
	} else {
		res.Text = "Interview timer started."
	}
	return res, nil
}

func (t StartTimer) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now()
}

// CheckTime implements check_time_remaining.
type CheckTime struct {
	Duration time.Duration
	Warning  time.Duration
	Now      func() time.Time
}

func (CheckTime) Name() string { return "check_time_remaining" }

func (CheckTime) Definition() llm.ToolDef {
	return llm.ToolDef{
		Name:        "check_time_remaining",
		Description: "Check how much interview time has elapsed and how much remains. Call this periodically to pace the interview.",
	}
}

func (t CheckTime) Execute(_ context.Context, _ Invocation, st state.State) (Result, error) {
	now := time.Now()
	if t.Now != nil {
		now = t.Now()
	}
	report := timer.Evaluate(now, st.StartTime, t.Duration, t.Warning)
	if !report.Tracked {
		return Result{Text: "The interview timer has not been started. Call start_timer first."}, nil
	}
	return Result{Text: fmt.Sprintf("[%s] %s", report.Tier, report.Describe())}, nil
}
