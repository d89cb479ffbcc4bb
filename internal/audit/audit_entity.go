package audit

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Action string

const (
	ActionClockIn            Action = "clock_in"
	ActionClockOut           Action = "clock_out"
	ActionEmployeeRegistered Action = "employee_registered"
	ActionEmployeeAdded      Action = "employee_added"
	ActionEmployeeLogin      Action = "employee_login"
	ActionAdminLogin         Action = "admin_login"
)

var actionLabels = map[Action]string{
	ActionClockIn:            "Clock In",
	ActionClockOut:           "Clock Out",
	ActionEmployeeRegistered: "Registration",
	ActionEmployeeAdded:      "Added by Admin",
	ActionEmployeeLogin:      "Employee Login",
	ActionAdminLogin:         "Admin Login",
}

// Label is the human readable form used in listings and exports.
func (a Action) Label() string {
	if l, ok := actionLabels[a]; ok {
		return l
	}
	return string(a)
}

func (a Action) Valid() bool {
	_, ok := actionLabels[a]
	return ok
}

func ParseAction(raw string) (Action, bool) {
	a := Action(strings.ToLower(strings.TrimSpace(raw)))
	return a, a.Valid()
}

var errImmutable = errors.New("audit events are append-only")

// Payload is the free-form detail object stored as jsonb.
type Payload map[string]any

func (p Payload) Value() (driver.Value, error) {
	if p == nil {
		return "{}", nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (p *Payload) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*p = Payload{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("audit payload: unsupported type %T", src)
	}
	out := Payload{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			return err
		}
	}
	*p = out
	return nil
}

func (Payload) GormDataType() string {
	return "jsonb"
}

// Event keeps the actor by value so the trail stays readable after the
// employee is removed.
type Event struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID  `gorm:"column:company_id;type:uuid;not null;index:idx_audit_logs_company_created,priority:1"`
	Action     Action     `gorm:"column:action;type:varchar(40);not null;index"`
	EmployeeID *uuid.UUID `gorm:"column:employee_id;type:uuid"`
	ActorName  *string    `gorm:"column:actor_name;type:varchar(200)"`
	ActorEmail *string    `gorm:"column:actor_email;type:varchar(255)"`
	IPAddress  *string    `gorm:"column:ip_address;type:varchar(64)"`
	City       *string    `gorm:"column:city;type:varchar(120)"`
	Country    *string    `gorm:"column:country;type:varchar(120)"`
	Timezone   *string    `gorm:"column:timezone;type:varchar(64)"`
	Details    Payload    `gorm:"column:details;type:jsonb;not null;default:'{}'"`
	CreatedAt  time.Time  `gorm:"column:created_at;type:timestamptz;not null;index:idx_audit_logs_company_created,priority:2"`
}

func (Event) TableName() string {
	return "audit_logs"
}

func (Event) BeforeUpdate(*gorm.DB) error {
	return errImmutable
}

func (Event) BeforeDelete(*gorm.DB) error {
	return errImmutable
}

// Location renders "City, Country" from whatever parts are known.
func (e Event) Location() string {
	parts := make([]string, 0, 2)
	if e.City != nil && *e.City != "" {
		parts = append(parts, *e.City)
	}
	if e.Country != nil && *e.Country != "" {
		parts = append(parts, *e.Country)
	}
	return strings.Join(parts, ", ")
}
