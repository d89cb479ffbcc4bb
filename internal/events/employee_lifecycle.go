package events

import "time"

const EmployeeLifecycleTopic = "timeclock.employee.lifecycle.v1"

const (
	EmployeeAdded      = "employee_added"
	EmployeeRegistered = "employee_registered"
)

// where an added employee came from
const (
	SourceAdmin        = "admin"
	SourceImport       = "import"
	SourceRegistration = "registration"
)

type EmployeeAddedEvent struct {
	EventType   string    `json:"event_type"`
	RequestID   string    `json:"request_id,omitempty"`
	EmployeeID  string    `json:"employee_id"`
	CompanyID   string    `json:"company_id"`
	CompanyName string    `json:"company_name,omitempty"`
	Name        string    `json:"name"`
	Email       *string   `json:"email,omitempty"`
	Source      string    `json:"source"`
	OccurredAt  time.Time `json:"occurred_at"`
}
