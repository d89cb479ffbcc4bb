package report

import "go-timeclock/internal/attendance"

type DayQuery struct {
	Date     string `form:"date"`
	Location string `form:"location"`
	Format   string `form:"format"`
}

type AuditExportQuery struct {
	Date   string `form:"date"`
	From   string `form:"from"`
	To     string `form:"to"`
	Action string `form:"action"`
	Format string `form:"format"`
}

type Summary struct {
	Sessions     int                        `json:"sessions"`
	OpenSessions int                        `json:"open_sessions"`
	Office       int                        `json:"office"`
	Remote       int                        `json:"remote"`
	Hybrid       int                        `json:"hybrid"`
	TotalElapsed attendance.ElapsedResponse `json:"total_elapsed"`
}

type DayReport struct {
	Date     string                       `json:"date"`
	Location string                       `json:"location"`
	Summary  Summary                      `json:"summary"`
	Sessions []attendance.SessionResponse `json:"sessions"`
}

// Export is a rendered table plus the base name used for the download.
type Export struct {
	Name  string
	Table Table
}
