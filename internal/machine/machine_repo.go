package machine

import (
	"context"
	"database/sql"
	"time"

	"go-attend/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=machine_repo.go -destination=mock/machine_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, m *Machine) error
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Machine, error)
	// FindForAuth loads a machine by id with the api_key_hash column included.
	// Only the authentication path may use it.
	FindForAuth(ctx context.Context, id string) (*Machine, error)
	FindAllByCompany(ctx context.Context, companyID string) ([]Machine, error)
	UpdateStatus(ctx context.Context, companyID, id, status string) error
	UpdateStatusCodes(ctx context.Context, companyID, id string, codes StatusCodeMap) error
	TouchLastSync(ctx context.Context, id string, at time.Time) error
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

func (r *repository) Create(ctx context.Context, m *Machine) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Machine, error) {
	var m Machine
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Omit("api_key_hash").
		First(&m, "id = ?", id).Error
	return &m, err
}

func (r *repository) FindForAuth(ctx context.Context, id string) (*Machine, error) {
	var m Machine
	err := r.db.WithContext(ctx).
		First(&m, "id = ?", id).Error
	return &m, err
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]Machine, error) {
	var machines []Machine
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Omit("api_key_hash").
		Order("created_at ASC").
		Find(&machines).Error
	return machines, err
}

func (r *repository) UpdateStatus(ctx context.Context, companyID, id, status string) error {
	res := r.db.WithContext(ctx).
		Model(&Machine{}).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) UpdateStatusCodes(ctx context.Context, companyID, id string, codes StatusCodeMap) error {
	res := r.db.WithContext(ctx).
		Model(&Machine{}).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		Update("status_codes", codes)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) TouchLastSync(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&Machine{}).
		Where("id = ?", id).
		Update("last_sync_at", at).Error
}
