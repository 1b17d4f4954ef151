// Package timer evaluates how far an interview has progressed against its
// allotted duration. It is purely computational: the start time lives in the
// session state and the clock is passed in, so evaluation is deterministic.
package timer

import (
	"fmt"
	"time"
)

// Tier buckets the remaining time into escalating urgency levels. The model
// uses the tier to decide when to steer the interview toward a close.
type Tier int

const (
	// TierNormal means plenty of time remains.
	TierNormal Tier = iota

	// TierApproaching means remaining time is within twice the warning
	// threshold. The interview should start moving toward its final topics.
	TierApproaching

	// TierCritical means remaining time is within the warning threshold.
	// The interview should be wrapped up now.
	TierCritical

	// TierExpired means the allotted duration has fully elapsed.
	TierExpired
)

// String returns the tier name used in tool output and logs.
func (t Tier) String() string {
	switch t {
	case TierNormal:
		return "normal"
	case TierApproaching:
		return "approaching_limit"
	case TierCritical:
		return "critical"
	case TierExpired:
		return "expired"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// Report is a point-in-time evaluation of the session clock.
type Report struct {
	// Tracked is false when the timer was never started. The remaining
	// fields are meaningless in that case.
	Tracked   bool
	Tier      Tier
	Elapsed   time.Duration
	Remaining time.Duration
}

// Describe renders the report as the text handed back to the model.
func (r Report) Describe() string {
	if !r.Tracked {
		return "The interview timer has not been started yet."
	}
	switch r.Tier {
	case TierExpired:
		return fmt.Sprintf("Time is up. The interview ran %s over its allotted duration. Wrap up immediately and end the call.", roundSec(-r.Remaining))
	case TierCritical:
		return fmt.Sprintf("Only %s remaining. Wrap up the interview now.", roundSec(r.Remaining))
	case TierApproaching:
		return fmt.Sprintf("%s remaining. Begin steering toward closing topics.", roundSec(r.Remaining))
	default:
		return fmt.Sprintf("%s elapsed, %s remaining.", roundSec(r.Elapsed), roundSec(r.Remaining))
	}
}

// Evaluate computes the timer report for a session that started at start,
// with the given total duration and warning threshold, as observed at now.
// A nil start yields an untracked report. Tier boundaries are inclusive:
// remaining exactly equal to the warning threshold is already critical, and
// elapsed exactly equal to the duration is already expired.
func Evaluate(now time.Time, start *time.Time, duration, warning time.Duration) Report {
	if start == nil {
		return Report{}
	}

	elapsed := now.Sub(*start)
	if elapsed < 0 {
		elapsed = 0
	}
	remaining := duration - elapsed

	r := Report{Tracked: true, Elapsed: elapsed, Remaining: remaining}
	switch {
	case elapsed >= duration:
		r.Tier = TierExpired
	case remaining <= warning:
		r.Tier = TierCritical
	case remaining <= 2*warning:
		r.Tier = TierApproaching
	default:
		r.Tier = TierNormal
	}
	return r
}

func roundSec(d time.Duration) time.Duration {
	return d.Round(time.Second)
}
