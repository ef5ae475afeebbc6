package attendanceday

import (
	"context"
	"database/sql"

	"go-attend/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=day_repo.go -destination=mock/day_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, d *Day) error
	FindByEmployeeAndDate(ctx context.Context, companyID, employeeID, workDate string) (*Day, error)
	FindByEmployeeAndRange(ctx context.Context, companyID, employeeID, fromDate, toDate string) ([]Day, error)
	FindByCompanyAndRange(ctx context.Context, companyID, fromDate, toDate string) ([]Day, error)
	Update(ctx context.Context, d *Day) error
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

func (r *repository) Create(ctx context.Context, d *Day) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *repository) FindByEmployeeAndDate(ctx context.Context, companyID, employeeID, workDate string) (*Day, error) {
	var d Day
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("work_date = ?", workDate).
		First(&d).Error
	return &d, err
}

func (r *repository) FindByEmployeeAndRange(ctx context.Context, companyID, employeeID, fromDate, toDate string) ([]Day, error) {
	var days []Day
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("work_date >= ? AND work_date <= ?", fromDate, toDate).
		Order("work_date ASC").
		Find(&days).Error
	return days, err
}

func (r *repository) FindByCompanyAndRange(ctx context.Context, companyID, fromDate, toDate string) ([]Day, error) {
	var days []Day
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("work_date >= ? AND work_date <= ?", fromDate, toDate).
		Order("work_date ASC").
		Find(&days).Error
	return days, err
}

func (r *repository) Update(ctx context.Context, d *Day) error {
	return r.db.WithContext(ctx).Save(d).Error
}
