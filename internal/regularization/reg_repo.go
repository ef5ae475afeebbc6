package regularization

import (
	"context"
	"database/sql"
	"time"

	"go-attend/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=reg_repo.go -destination=mock/reg_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, r *Request) error
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Request, error)
	FindAllByEmployee(ctx context.Context, companyID, employeeID string) ([]Request, error)
	FindPendingByApprover(ctx context.Context, companyID, approverID string) ([]Request, error)
	HasOpenRequest(ctx context.Context, companyID, employeeID string, targetDate time.Time) (bool, error)
	Update(ctx context.Context, r *Request) error
	UpdateApprover(ctx context.Context, a *Approver) error
	CreateApprover(ctx context.Context, a *Approver) error
	CreateHistory(ctx context.Context, h *HistoryEntry) error
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

func (r *repository) Create(ctx context.Context, req *Request) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Request, error) {
	var req Request
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Preload("Approvers", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC")
		}).
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&req, "id = ?", id).Error
	return &req, err
}

func (r *repository) FindAllByEmployee(ctx context.Context, companyID, employeeID string) ([]Request, error) {
	var requests []Request
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Preload("Approvers").
		Order("target_date DESC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) FindPendingByApprover(ctx context.Context, companyID, approverID string) ([]Request, error) {
	var requests []Request
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("status IN ?", []string{StatusPending, StatusUnderReview}).
		Where("id IN (?)", r.db.
			Model(&Approver{}).
			Select("request_id").
			Where("approver_id = ?", approverID).
			Where("status = ?", ApproverPending),
		).
		Preload("Approvers").
		Order("created_at ASC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) HasOpenRequest(ctx context.Context, companyID, employeeID string, targetDate time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Request{}).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("target_date = ?", targetDate.Format("2006-01-02")).
		Where("status IN ?", []string{StatusPending, StatusUnderReview}).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) Update(ctx context.Context, req *Request) error {
	return r.db.WithContext(ctx).Omit("Approvers", "History").Save(req).Error
}

func (r *repository) UpdateApprover(ctx context.Context, a *Approver) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *repository) CreateApprover(ctx context.Context, a *Approver) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) CreateHistory(ctx context.Context, h *HistoryEntry) error {
	return r.db.WithContext(ctx).Create(h).Error
}
