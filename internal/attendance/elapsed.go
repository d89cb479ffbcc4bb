package attendance

import (
	"fmt"
	"time"
)

// Elapsed is a session length in whole hours and minutes. Sub-minute
// remainders are truncated, the same way for live display and for the
// value stored at clock-out.
type Elapsed struct {
	Hours   int64 `json:"hours"`
	Minutes int64 `json:"minutes"`
	// Clamped is set when end was before start and the result forced to zero.
	Clamped bool `json:"clamped,omitempty"`
}

func ComputeElapsed(start, end time.Time) Elapsed {
	d := end.Sub(start)
	if d < 0 {
		return Elapsed{Clamped: true}
	}
	return ElapsedFromMinutes(int64(d / time.Minute))
}

func ElapsedFromMinutes(total int64) Elapsed {
	if total < 0 {
		return Elapsed{Clamped: true}
	}
	return Elapsed{Hours: total / 60, Minutes: total % 60}
}

func (e Elapsed) TotalMinutes() int64 {
	return e.Hours*60 + e.Minutes
}

func (e Elapsed) String() string {
	return fmt.Sprintf("%dh %dm", e.Hours, e.Minutes)
}
