package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleEmployee   = "EMPLOYEE"
	RoleManager    = "MANAGER"
	RoleAdmin      = "ADMIN"
	RoleOwner      = "OWNER"
	RoleSuperAdmin = "SUPER_ADMIN"
)

// IsAdminRole reports whether a role may override approval chains.
func IsAdminRole(role string) bool {
	switch role {
	case RoleAdmin, RoleOwner, RoleSuperAdmin:
		return true
	default:
		return false
	}
}

type Employee struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID  `gorm:"column:company_id;type:uuid;not null;index;index:uq_employees_device_user,unique"`
	BranchID  *uuid.UUID `gorm:"column:branch_id;type:uuid"`
	FullName  string     `gorm:"column:full_name;type:varchar(150);not null"`
	Email     string     `gorm:"column:email;type:varchar(150);uniqueIndex"`
	Role      string     `gorm:"column:role;type:varchar(20);not null;default:EMPLOYEE"`

	// ManagerID seeds the approval chain for regularization requests.
	ManagerID *uuid.UUID `gorm:"column:manager_id;type:uuid"`

	// DeviceUserID is the identity a biometric terminal reports for this
	// employee. Unique per company so device punches resolve unambiguously.
	DeviceUserID *string `gorm:"column:device_user_id;type:varchar(100);index:uq_employees_device_user,unique,where:device_user_id IS NOT NULL"`

	EmploymentStatus string `gorm:"column:employment_status;type:varchar(20);not null;default:ACTIVE"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Employee) TableName() string {
	return "employees"
}
