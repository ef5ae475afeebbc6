package attendancelog

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Punch origin.
const (
	SourceMachine     = "MACHINE"
	SourceWeb         = "WEB"
	SourceMobile      = "MOBILE"
	SourceAdminManual = "ADMIN_MANUAL"
	SourceAPI         = "API"
)

// Punch type.
const (
	TypeIn         = "IN"
	TypeOut        = "OUT"
	TypeBreakStart = "BREAK_START"
	TypeBreakEnd   = "BREAK_END"
	TypeRemoteIn   = "REMOTE_IN"
	TypeRemoteOut  = "REMOTE_OUT"
	TypeUnknown    = "UNKNOWN"
)

// Processing status.
const (
	StatusPending   = "PENDING"
	StatusProcessed = "PROCESSED"
	StatusFlagged   = "FLAGGED"
	StatusRejected  = "REJECTED"
	StatusCorrected = "CORRECTED"
	StatusOrphan    = "ORPHAN"
)

// IsInType reports whether a punch type opens the working day.
func IsInType(t string) bool {
	return t == TypeIn || t == TypeRemoteIn
}

// IsOutType reports whether a punch type closes the working day.
func IsOutType(t string) bool {
	return t == TypeOut || t == TypeRemoteOut
}

// Log is one immutable punch event. The semantic fields (type, timestamp,
// employee) are never updated after creation; a correction creates a new Log
// and links back via CorrectedByLog / RegularizationID.
type Log struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID  `gorm:"column:company_id;type:uuid;not null;index"`
	BranchID  *uuid.UUID `gorm:"column:branch_id;type:uuid"`

	// EmployeeID is nil for orphan logs whose device identity could not be
	// resolved.
	EmployeeID *uuid.UUID `gorm:"column:employee_id;type:uuid;index"`

	Source string `gorm:"column:source;type:varchar(20);not null"`
	Type   string `gorm:"column:type;type:varchar(20);not null"`

	// Timestamp is when the physical event occurred (device clock);
	// ServerTimestamp is when the server received it. Devices can be offline
	// and batch-upload stale events, so the two are kept distinct.
	Timestamp       time.Time `gorm:"column:timestamp;type:timestamptz;not null;index"`
	ServerTimestamp time.Time `gorm:"column:server_timestamp;type:timestamptz;not null"`

	ProcessingStatus string `gorm:"column:processing_status;type:varchar(20);not null;default:PENDING"`
	IsVerified       bool   `gorm:"column:is_verified;not null;default:false"`

	// Natural key for batch re-delivery dedupe.
	MachineID      *uuid.UUID `gorm:"column:machine_id;type:uuid;index:uq_logs_device_event,unique,where:machine_id IS NOT NULL"`
	DeviceUserID   *string    `gorm:"column:device_user_id;type:varchar(100);index:uq_logs_device_event,unique"`
	DeviceSequence *string    `gorm:"column:device_sequence;type:varchar(100);index:uq_logs_device_event,unique"`

	// RawData retains the original device payload for forensic replay.
	RawData json.RawMessage `gorm:"column:raw_data;type:jsonb"`

	CorrectedByLog   *uuid.UUID `gorm:"column:corrected_by_log;type:uuid"`
	RegularizationID *uuid.UUID `gorm:"column:regularization_id;type:uuid"`

	CreatedAt time.Time
}

func (Log) TableName() string {
	return "attendance_logs"
}
