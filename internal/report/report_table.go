package report

import (
	"encoding/json"
	"go-timeclock/internal/attendance"
	"go-timeclock/internal/audit"
	"time"
)

const missing = "-"

var AttendanceColumns = []string{
	"Employee Email",
	"Employee Name",
	"Manager",
	"Clock In",
	"Clock Out",
	"Location",
	"Hours Worked",
	"IP Address",
	"City",
	"Country",
	"Date",
}

var AuditColumns = []string{
	"Timestamp",
	"Action",
	"Employee",
	"Email",
	"IP Address",
	"Location",
	"Details",
}

// Table is a flat export: ordered columns and one row per record, every row
// as wide as Columns.
type Table struct {
	Columns []string
	Rows    [][]string
}

// AttendanceTable renders sessions with times in loc. Open sessions show
// elapsed time up to now.
func AttendanceTable(sessions []attendance.Session, loc *time.Location, now time.Time) Table {
	if loc == nil {
		loc = time.UTC
	}
	t := Table{Columns: AttendanceColumns, Rows: make([][]string, 0, len(sessions))}
	for _, s := range sessions {
		var name, email, manager *string
		if s.Employee != nil {
			name = &s.Employee.Name
			email = s.Employee.Email
			manager = s.Employee.Manager
		}
		clockOut := "Still clocked in"
		if s.ClockOut != nil {
			clockOut = s.ClockOut.In(loc).Format(time.TimeOnly)
		}
		in := s.ClockIn.In(loc)
		t.Rows = append(t.Rows, []string{
			orMissing(email),
			orMissing(name),
			orMissing(manager),
			in.Format(time.TimeOnly),
			clockOut,
			s.Location.Label(),
			s.ElapsedAt(now).String(),
			orMissing(s.IPAddress),
			orMissing(s.City),
			orMissing(s.Country),
			in.Format(time.DateOnly),
		})
	}
	return t
}

func AuditTable(events []audit.Event, loc *time.Location) Table {
	if loc == nil {
		loc = time.UTC
	}
	t := Table{Columns: AuditColumns, Rows: make([][]string, 0, len(events))}
	for _, e := range events {
		where := e.Location()
		if where == "" {
			where = missing
		}
		t.Rows = append(t.Rows, []string{
			e.CreatedAt.In(loc).Format(time.DateTime),
			e.Action.Label(),
			orMissing(e.ActorName),
			orMissing(e.ActorEmail),
			orMissing(e.IPAddress),
			where,
			detailsJSON(e.Details),
		})
	}
	return t
}

func detailsJSON(p audit.Payload) string {
	if len(p) == 0 {
		return "{}"
	}
	b, err := json.Marshal(map[string]any(p))
	if err != nil {
		return "{}"
	}
	return string(b)
}

func orMissing(s *string) string {
	if s == nil || *s == "" {
		return missing
	}
	return *s
}
