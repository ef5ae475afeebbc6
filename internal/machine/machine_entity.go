package machine

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Machine status. Only ACTIVE machines may sync.
const (
	StatusActive      = "ACTIVE"
	StatusInactive    = "INACTIVE"
	StatusMaintenance = "MAINTENANCE"
)

// StatusCodeMap is a per-machine override of the vendor status-code table,
// stored as jsonb. Keys are raw vendor codes, values are internal punch types.
type StatusCodeMap map[string]string

func (m StatusCodeMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *StatusCodeMap) Scan(value any) error {
	if value == nil {
		*m = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		s, ok := value.(string)
		if !ok {
			return errors.New("unsupported type for StatusCodeMap")
		}
		b = []byte(s)
	}
	return json.Unmarshal(b, m)
}

// Machine is a registered biometric terminal. APIKeyHash holds a bcrypt hash
// of the secret half of the API key; the plaintext is shown exactly once at
// registration and never stored.
type Machine struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID  `gorm:"column:company_id;type:uuid;not null;index"`
	BranchID  *uuid.UUID `gorm:"column:branch_id;type:uuid"`

	Name     string `gorm:"column:name;type:varchar(100);not null"`
	Location string `gorm:"column:location;type:varchar(200)"`
	Vendor   string `gorm:"column:vendor;type:varchar(100)"`

	APIKeyHash string `gorm:"column:api_key_hash;type:varchar(100);not null" json:"-"`
	Status     string `gorm:"column:status;type:varchar(20);not null;default:ACTIVE"`

	StatusCodes StatusCodeMap `gorm:"column:status_codes;type:jsonb"`

	LastSyncAt *time.Time `gorm:"column:last_sync_at;type:timestamptz"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Machine) TableName() string {
	return "attendance_machines"
}
