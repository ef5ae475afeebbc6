package attendanceday

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Day status. The _WORK variants mean the employee worked on a day that was
// scheduled off; they drive the payout multiplier.
const (
	StatusPresent     = "PRESENT"
	StatusAbsent      = "ABSENT"
	StatusHalfDay     = "HALF_DAY"
	StatusLate        = "LATE"
	StatusOnLeave     = "ON_LEAVE"
	StatusWeekOff     = "WEEK_OFF"
	StatusHoliday     = "HOLIDAY"
	StatusWeekOffWork = "WEEK_OFF_WORK"
	StatusHolidayWork = "HOLIDAY_WORK"
)

// PayoutMultiplier maps a day status to its payroll weight: 2.0 for work on
// an off day, 0.0 for an unpaid absence, 1.0 otherwise.
func PayoutMultiplier(status string) float64 {
	switch status {
	case StatusWeekOffWork, StatusHolidayWork:
		return 2.0
	case StatusAbsent:
		return 0.0
	default:
		return 1.0
	}
}

// LogIDs is the ordered audit trail of contributing log ids, stored as jsonb.
type LogIDs []string

func (l LogIDs) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *LogIDs) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported log_ids source type %T", src)
	}
}

func (l LogIDs) Contains(id string) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

// Day is the derived one-row-per-employee-per-day aggregate. WorkDate is a
// calendar-day string, not a timestamp, so aggregation never drifts across
// timezones. The unique index on (company, employee, work_date) is the only
// duplicate guard; concurrent writers rely on it, never on in-process locks.
type Day struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"column:company_id;type:uuid;not null;index:uq_days_employee_date,unique"`
	EmployeeID uuid.UUID `gorm:"column:employee_id;type:uuid;not null;index:uq_days_employee_date,unique"`
	WorkDate   string    `gorm:"column:work_date;type:varchar(10);not null;index:uq_days_employee_date,unique"`

	FirstIn *time.Time `gorm:"column:first_in;type:timestamptz"`
	LastOut *time.Time `gorm:"column:last_out;type:timestamptz"`

	// TotalWorkHours is always recomputed from FirstIn/LastOut, never
	// incrementally patched.
	TotalWorkHours float64 `gorm:"column:total_work_hours;not null;default:0"`

	Status           string  `gorm:"column:status;type:varchar(20);not null;default:PRESENT"`
	PayoutMultiplier float64 `gorm:"column:payout_multiplier;not null;default:1"`

	LogIDs LogIDs `gorm:"column:log_ids;type:jsonb"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Day) TableName() string {
	return "attendance_days"
}

// CalendarDate renders a punch timestamp as the Day key.
func CalendarDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
