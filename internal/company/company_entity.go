package company

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
)

// Company is a workspace. Employees log in by naming it, so names are unique
// under case folding.
type Company struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name              string    `gorm:"type:varchar(150);not null"`
	NameKey           string    `gorm:"type:varchar(150);not null;uniqueIndex:uq_company_name"`
	AdminPasswordHash string    `gorm:"type:varchar(255);not null"`
	CreatedAt         time.Time `gorm:"not null;default:now()"`
	UpdatedAt         time.Time `gorm:"not null;default:now()"`
}

func (Company) TableName() string {
	return "companies"
}

func NameKey(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}
