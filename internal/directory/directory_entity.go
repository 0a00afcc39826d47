package directory

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleEmployee = "EMPLOYEE"
	RoleManager  = "MANAGER"
	RoleAdmin    = "ADMIN"
)

// Employee is a read model over the identity directory. This engine never
// writes it; the HR system of record owns the table, including keeping the
// reports-to relation acyclic.
type Employee struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	FullName  string     `gorm:"type:varchar(150);not null"`
	Email     string     `gorm:"type:varchar(150);not null;uniqueIndex"`
	Role      string     `gorm:"type:varchar(20);not null;default:'EMPLOYEE'"`
	ManagerID *uuid.UUID `gorm:"type:uuid;index"`
	Active    bool       `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Employee) TableName() string { return "employees" }
