package regularization

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Request type.
const (
	TypeMissedPunch   = "MISSED_PUNCH"
	TypeOnDuty        = "ON_DUTY"
	TypeWorkFromHome  = "WORK_FROM_HOME"
	TypeLeaveReversal = "LEAVE_REVERSAL"
)

// Request status. APPROVED and REJECTED are terminal.
const (
	StatusDraft       = "DRAFT"
	StatusPending     = "PENDING"
	StatusUnderReview = "UNDER_REVIEW"
	StatusApproved    = "APPROVED"
	StatusRejected    = "REJECTED"
)

// Approver status.
const (
	ApproverPending  = "PENDING"
	ApproverApproved = "APPROVED"
	ApproverRejected = "REJECTED"
)

func IsTerminal(status string) bool {
	return status == StatusApproved || status == StatusRejected
}

// Request is a regularization ticket: an employee-initiated correction of one
// day's recorded attendance. The partial unique index keeps at most one
// non-terminal request per (employee, target_date); a second concurrent
// correction for the same day would be semantically ambiguous.
type Request struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID  `gorm:"column:company_id;type:uuid;not null;index:idx_regularizations_company_status"`
	BranchID   *uuid.UUID `gorm:"column:branch_id;type:uuid"`
	EmployeeID uuid.UUID  `gorm:"column:employee_id;type:uuid;not null;index:uq_regularizations_open,unique,where:status IN ('PENDING','UNDER_REVIEW')"`

	TargetDate time.Time `gorm:"column:target_date;type:date;not null;index:uq_regularizations_open,unique"`
	Type       string    `gorm:"column:type;type:varchar(20);not null"`
	Reason     string    `gorm:"column:reason;type:text;not null"`

	// Proposed correction; either end may be omitted.
	NewFirstIn *time.Time `gorm:"column:new_first_in;type:timestamptz"`
	NewLastOut *time.Time `gorm:"column:new_last_out;type:timestamptz"`

	Status           string  `gorm:"column:status;type:varchar(20);not null;default:PENDING;index:idx_regularizations_company_status"`
	ApprovalRequired int     `gorm:"column:approval_required;not null;default:0"`
	RejectionReason  *string `gorm:"column:rejection_reason;type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	Approvers []Approver     `gorm:"foreignKey:RequestID;references:ID"`
	History   []HistoryEntry `gorm:"foreignKey:RequestID;references:ID"`
}

func (Request) TableName() string {
	return "regularization_requests"
}

// Approver is one entry of the ordered approval chain.
type Approver struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	RequestID  uuid.UUID `gorm:"column:request_id;type:uuid;not null;index"`
	ApproverID uuid.UUID `gorm:"column:approver_id;type:uuid;not null;index"`
	Sequence   int       `gorm:"column:sequence;not null;default:0"`

	Status   string     `gorm:"column:status;type:varchar(20);not null;default:PENDING"`
	Comments *string    `gorm:"column:comments;type:text"`
	ActedAt  *time.Time `gorm:"column:acted_at;type:timestamptz"`

	// IsAdminOverride marks an entry appended when an administrator decided
	// without being part of the seeded chain.
	IsAdminOverride bool `gorm:"column:is_admin_override;not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Approver) TableName() string {
	return "regularization_approvers"
}

// HistoryEntry is append-only; rows are never updated or deleted.
type HistoryEntry struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	RequestID  uuid.UUID `gorm:"column:request_id;type:uuid;not null;index"`
	ActorID    uuid.UUID `gorm:"column:actor_id;type:uuid;not null"`
	Action     string    `gorm:"column:action;type:varchar(30);not null"`
	FromStatus string    `gorm:"column:from_status;type:varchar(20);not null"`
	ToStatus   string    `gorm:"column:to_status;type:varchar(20);not null"`
	Comments   *string   `gorm:"column:comments;type:text"`
	CreatedAt  time.Time
}

func (HistoryEntry) TableName() string {
	return "regularization_history"
}
