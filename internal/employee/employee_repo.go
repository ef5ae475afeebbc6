package employee

import (
	"context"
	"database/sql"

	"go-attend/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, e *Employee) error
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Employee, error)
	FindByDeviceUserID(ctx context.Context, companyID, deviceUserID string) (*Employee, error)
	FindManagerOf(ctx context.Context, companyID, employeeID string) (*Employee, error)
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

func (r *repository) Create(ctx context.Context, e *Employee) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&e, "id = ?", id).Error
	return &e, err
}

func (r *repository) FindByDeviceUserID(ctx context.Context, companyID, deviceUserID string) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("device_user_id = ?", deviceUserID).
		First(&e).Error
	return &e, err
}

func (r *repository) FindManagerOf(ctx context.Context, companyID, employeeID string) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&e, "id = ?", employeeID).Error
	if err != nil {
		return nil, err
	}
	if e.ManagerID == nil {
		return nil, gorm.ErrRecordNotFound
	}

	var m Employee
	err = r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&m, "id = ?", e.ManagerID.String()).Error
	return &m, err
}
