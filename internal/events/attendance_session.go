package events

import "time"

const AttendanceSessionTopic = "timeclock.attendance.session.v1"

const (
	AttendanceSessionOpened = "attendance.session.opened"
	AttendanceSessionClosed = "attendance.session.closed"
)

type AttendanceSessionEvent struct {
	EventType      string     `json:"event_type"`
	RequestID      string     `json:"request_id,omitempty"`
	SessionID      string     `json:"session_id"`
	EmployeeID     string     `json:"employee_id"`
	CompanyID      string     `json:"company_id"`
	Location       string     `json:"location"`
	ClockIn        time.Time  `json:"clock_in"`
	ClockOut       *time.Time `json:"clock_out,omitempty"`
	ElapsedMinutes *int64     `json:"elapsed_minutes,omitempty"`
	OccurredAt     time.Time  `json:"occurred_at"`
}
