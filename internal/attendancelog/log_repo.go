package attendancelog

import (
	"context"
	"database/sql"
	"time"

	"go-attend/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=log_repo.go -destination=mock/log_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *Log) error
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Log, error)
	FindByEmployeeAndRange(ctx context.Context, companyID, employeeID string, from, to time.Time) ([]Log, error)
	FindOrphansByCompany(ctx context.Context, companyID string) ([]Log, error)
	ExistsByDeviceEvent(ctx context.Context, machineID, deviceUserID, deviceSequence string) (bool, error)
	SetProcessingStatus(ctx context.Context, id, status string) error
	AssignEmployee(ctx context.Context, id, employeeID string) error
	LinkCorrection(ctx context.Context, supersededID, correctionID, regularizationID string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx rebinds the repository onto the caller's transaction so every
// statement it issues joins that transaction instead of the shared pool.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	session := r.db.Session(&gorm.Session{NewDB: true})
	session.Statement.ConnPool = tx
	return &repository{db: session}
}

func (r *repository) Create(ctx context.Context, l *Log) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Log, error) {
	var l Log
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) FindByEmployeeAndRange(ctx context.Context, companyID, employeeID string, from, to time.Time) ([]Log, error) {
	var logs []Log
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("timestamp >= ? AND timestamp < ?", from, to).
		Order("timestamp ASC").
		Find(&logs).Error
	return logs, err
}

func (r *repository) FindOrphansByCompany(ctx context.Context, companyID string) ([]Log, error) {
	var logs []Log
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("processing_status = ?", StatusOrphan).
		Order("timestamp DESC").
		Find(&logs).Error
	return logs, err
}

func (r *repository) ExistsByDeviceEvent(ctx context.Context, machineID, deviceUserID, deviceSequence string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Log{}).
		Where("machine_id = ?", machineID).
		Where("device_user_id = ?", deviceUserID).
		Where("device_sequence = ?", deviceSequence).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) SetProcessingStatus(ctx context.Context, id, status string) error {
	return r.db.WithContext(ctx).
		Model(&Log{}).
		Where("id = ?", id).
		Update("processing_status", status).Error
}

// AssignEmployee resolves an orphan log to an employee. The semantic punch
// fields stay untouched; only identity and processing status change.
func (r *repository) AssignEmployee(ctx context.Context, id, employeeID string) error {
	return r.db.WithContext(ctx).
		Model(&Log{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"employee_id":       employeeID,
			"processing_status": StatusProcessed,
		}).Error
}

// LinkCorrection only writes the back-link fields; the semantic fields of the
// superseded log stay untouched.
func (r *repository) LinkCorrection(ctx context.Context, supersededID, correctionID, regularizationID string) error {
	return r.db.WithContext(ctx).
		Model(&Log{}).
		Where("id = ?", supersededID).
		Updates(map[string]any{
			"processing_status": StatusCorrected,
			"corrected_by_log":  correctionID,
			"regularization_id": regularizationID,
		}).Error
}
