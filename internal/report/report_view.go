package report

import (
	"go-timeclock/internal/attendance"
	attendanceerrors "go-timeclock/internal/attendance/errors"
	"strings"
	"time"
)

// LocationAll disables the location filter.
const LocationAll = "all"

func CountOpenSessions(sessions []attendance.Session) int {
	n := 0
	for _, s := range sessions {
		if s.IsOpen() {
			n++
		}
	}
	return n
}

func CountByLocation(sessions []attendance.Session, loc attendance.Location) int {
	n := 0
	for _, s := range sessions {
		if s.Location == loc {
			n++
		}
	}
	return n
}

// SumElapsed adds up per-session elapsed time. Open sessions count up to now.
func SumElapsed(sessions []attendance.Session, now time.Time) attendance.Elapsed {
	var total int64
	for _, s := range sessions {
		total += s.ElapsedAt(now).TotalMinutes()
	}
	return attendance.ElapsedFromMinutes(total)
}

// FilterByLocation returns the sessions at loc. "all" or an empty value
// returns the input unchanged. The input slice is never modified.
func FilterByLocation(sessions []attendance.Session, loc string) ([]attendance.Session, error) {
	raw := strings.TrimSpace(loc)
	if raw == "" || strings.EqualFold(raw, LocationAll) {
		return sessions, nil
	}
	want, ok := attendance.ParseLocation(raw)
	if !ok {
		return nil, attendanceerrors.ErrInvalidLocation
	}
	out := make([]attendance.Session, 0, len(sessions))
	for _, s := range sessions {
		if s.Location == want {
			out = append(out, s)
		}
	}
	return out, nil
}

func Summarize(sessions []attendance.Session, now time.Time) Summary {
	total := SumElapsed(sessions, now)
	return Summary{
		Sessions:     len(sessions),
		OpenSessions: CountOpenSessions(sessions),
		Office:       CountByLocation(sessions, attendance.LocationOffice),
		Remote:       CountByLocation(sessions, attendance.LocationRemote),
		Hybrid:       CountByLocation(sessions, attendance.LocationHybrid),
		TotalElapsed: attendance.ElapsedResponse{
			Hours:        total.Hours,
			Minutes:      total.Minutes,
			TotalMinutes: total.TotalMinutes(),
			Label:        total.String(),
		},
	}
}
