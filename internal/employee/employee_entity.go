package employee

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
)

// Employee is one roster entry. Names are unique per company under case
// folding; NameKey carries the folded form for the unique index.
type Employee struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_employee_name,priority:1"`
	Name         string    `gorm:"type:varchar(150);not null"`
	NameKey      string    `gorm:"type:varchar(150);not null;uniqueIndex:uq_employee_name,priority:2"`
	Email        *string   `gorm:"type:varchar(255)"`
	Manager      *string   `gorm:"type:varchar(150)"`
	CompanyLabel *string   `gorm:"type:varchar(150)"`
	Location     *string   `gorm:"type:varchar(50)"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NameKey folds a display name for case-insensitive comparison.
func NameKey(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}
