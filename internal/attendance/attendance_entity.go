package attendance

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Location string

const (
	LocationOffice Location = "office"
	LocationRemote Location = "remote"
	LocationHybrid Location = "hybrid"
)

var locationLabels = map[Location]string{
	LocationOffice: "Office",
	LocationRemote: "Remote",
	LocationHybrid: "Hybrid",
}

func ParseLocation(raw string) (Location, bool) {
	l := Location(strings.ToLower(strings.TrimSpace(raw)))
	_, ok := locationLabels[l]
	return l, ok
}

func (l Location) Label() string {
	if label, ok := locationLabels[l]; ok {
		return label
	}
	return string(l)
}

// Session is one continuous work period. The partial unique index allows a
// single row with clock_out NULL per employee.
type Session struct {
	ID             uuid.UUID    `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID      uuid.UUID    `gorm:"column:company_id;type:uuid;not null;index:idx_attendances_company_clock_in,priority:1"`
	EmployeeID     uuid.UUID    `gorm:"column:employee_id;type:uuid;not null;uniqueIndex:uq_attendance_open_session,where:clock_out IS NULL"`
	Location       Location     `gorm:"column:location;type:varchar(20);not null"`
	ClockIn        time.Time    `gorm:"column:clock_in;type:timestamptz;not null;index:idx_attendances_company_clock_in,priority:2"`
	ClockOut       *time.Time   `gorm:"column:clock_out;type:timestamptz"`
	ElapsedMinutes *int64       `gorm:"column:elapsed_minutes"`
	IPAddress      *string      `gorm:"column:ip_address;type:varchar(64)"`
	City           *string      `gorm:"column:city;type:varchar(120)"`
	Country        *string      `gorm:"column:country;type:varchar(120)"`
	Timezone       *string      `gorm:"column:timezone;type:varchar(64)"`
	CreatedAt      time.Time    `gorm:"column:created_at"`
	UpdatedAt      time.Time    `gorm:"column:updated_at"`
	Employee       *EmployeeRef `gorm:"foreignKey:EmployeeID;references:ID;constraint:OnDelete:CASCADE"`
}

func (Session) TableName() string {
	return "attendances"
}

func (s Session) IsOpen() bool {
	return s.ClockOut == nil
}

// ElapsedAt uses the stored value once closed and now while open.
func (s Session) ElapsedAt(now time.Time) Elapsed {
	if s.ClockOut != nil {
		if s.ElapsedMinutes != nil {
			return ElapsedFromMinutes(*s.ElapsedMinutes)
		}
		return ComputeElapsed(s.ClockIn, *s.ClockOut)
	}
	return ComputeElapsed(s.ClockIn, now)
}

type EmployeeRef struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name    string    `gorm:"column:name"`
	Email   *string   `gorm:"column:email"`
	Manager *string   `gorm:"column:manager"`
}

func (EmployeeRef) TableName() string {
	return "employees"
}
