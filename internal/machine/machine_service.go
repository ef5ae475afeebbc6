package machine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-attend/internal/attendancelog"
	"go-attend/internal/attendanceday"
	"go-attend/internal/employee"
	"go-attend/internal/events"
	machineerrors "go-attend/internal/machine/errors"
	"go-attend/internal/notification"
	"go-attend/internal/shared/txn"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

//go:generate mockgen -source=machine_service.go -destination=mock/machine_service_mock.go -package=mock
type Service interface {
	Register(ctx context.Context, companyID string, req RegisterRequest) (RegisterResponse, error)
	GetByID(ctx context.Context, companyID, id string) (MachineResponse, error)
	GetAll(ctx context.Context, companyID string) ([]MachineResponse, error)
	SetStatus(ctx context.Context, companyID, id, status string) (MachineResponse, error)
	Sync(ctx context.Context, machineID string, entries []SyncEntry) (SyncResponse, error)
	ListOrphans(ctx context.Context, companyID string) ([]attendancelog.LogResponse, error)
	AssignOrphan(ctx context.Context, companyID, logID, employeeID string) (attendancelog.LogResponse, error)
}

type service struct {
	db           *sql.DB
	repo         Repository
	logRepo      attendancelog.Repository
	dayRepo      attendanceday.Repository
	engine       *attendanceday.Engine
	employeeRepo employee.Repository
	notifier     notification.Notifier
	logger       *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	logRepo attendancelog.Repository,
	dayRepo attendanceday.Repository,
	engine *attendanceday.Engine,
	employeeRepo employee.Repository,
	notifier notification.Notifier,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("machine.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("machine.service")
	}
	if notifier == nil {
		notifier = notification.NewNoopNotifier()
	}
	return &service{
		db:           db,
		repo:         repo,
		logRepo:      logRepo,
		dayRepo:      dayRepo,
		engine:       engine,
		employeeRepo: employeeRepo,
		notifier:     notifier,
		logger:       l,
	}
}

func (s *service) Register(ctx context.Context, companyID string, req RegisterRequest) (RegisterResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return RegisterResponse{}, machineerrors.ErrInvalidCompanyID
	}

	for code, punchType := range req.StatusCodes {
		if !isKnownPunchType(punchType) {
			s.logger.Warn("register machine rejected status code override",
				zap.String("code", code),
				zap.String("type", punchType),
			)
			return RegisterResponse{}, machineerrors.ErrInvalidStatusCode
		}
	}

	secret := uuid.NewString()
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return RegisterResponse{}, err
	}

	m := &Machine{
		ID:         uuid.New(),
		CompanyID:  companyUUID,
		Name:       req.Name,
		Location:   req.Location,
		Vendor:     req.Vendor,
		APIKeyHash: string(hash),
		Status:     StatusActive,
	}
	if req.BranchID != nil {
		branchUUID, err := uuid.Parse(*req.BranchID)
		if err != nil {
			return RegisterResponse{}, machineerrors.ErrInvalidMachineID
		}
		m.BranchID = &branchUUID
	}
	if len(req.StatusCodes) > 0 {
		m.StatusCodes = StatusCodeMap(req.StatusCodes)
	}

	if err := s.repo.Create(ctx, m); err != nil {
		s.logger.Error("register machine failed", zap.Error(err))
		return RegisterResponse{}, err
	}

	s.logger.Info("register machine success",
		zap.String("machine_id", m.ID.String()),
		zap.String("company_id", companyID),
	)
	return RegisterResponse{
		Machine: mapToResponse(*m),
		APIKey:  m.ID.String() + "." + secret,
	}, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (MachineResponse, error) {
	m, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return MachineResponse{}, machineerrors.ErrMachineNotFound
		}
		return MachineResponse{}, err
	}
	return mapToResponse(*m), nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]MachineResponse, error) {
	machines, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(machines), nil
}

func (s *service) SetStatus(ctx context.Context, companyID, id, status string) (MachineResponse, error) {
	switch status {
	case StatusActive, StatusInactive, StatusMaintenance:
	default:
		return MachineResponse{}, machineerrors.ErrInvalidStatus
	}

	if err := s.repo.UpdateStatus(ctx, companyID, id, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return MachineResponse{}, machineerrors.ErrMachineNotFound
		}
		return MachineResponse{}, err
	}

	s.logger.Info("machine status updated",
		zap.String("machine_id", id),
		zap.String("status", status),
	)
	return s.GetByID(ctx, companyID, id)
}

// Sync converts one device batch into logs and daily-aggregate updates. The
// whole batch runs in a single transaction: any entry failure aborts every
// write and the device retries the full batch. Re-delivered entries are
// skipped by their natural key, unresolvable users are persisted as orphans.
func (s *service) Sync(ctx context.Context, machineID string, entries []SyncEntry) (SyncResponse, error) {
	if len(entries) == 0 {
		return SyncResponse{}, machineerrors.ErrEmptyBatch
	}

	machineUUID, err := uuid.Parse(machineID)
	if err != nil {
		return SyncResponse{}, machineerrors.ErrInvalidMachineID
	}

	m, err := s.repo.FindForAuth(ctx, machineID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SyncResponse{}, machineerrors.ErrMachineNotFound
		}
		return SyncResponse{}, err
	}

	var resp SyncResponse
	now := time.Now().UTC()

	err = txn.Run(ctx, s.db, func(tx *sql.Tx) error {
		qtx := s.repo.WithTx(tx)
		logQtx := s.logRepo.WithTx(tx)
		dayQtx := s.dayRepo.WithTx(tx)
		employeeQtx := s.employeeRepo.WithTx(tx)

		for _, entry := range entries {
			if entry.UserID == "" {
				return machineerrors.ErrEntryMissingUser
			}
			ts, err := time.Parse(time.RFC3339, entry.Timestamp)
			if err != nil {
				return machineerrors.ErrEntryBadTimestamp
			}
			ts = ts.UTC()

			// Flaky terminals re-deliver whole batches; the device sequence
			// (or the raw timestamp when the vendor sends none) is the only
			// idempotency token the source data offers.
			sequence := entry.Sequence
			if sequence == "" {
				sequence = entry.Timestamp
			}
			exists, err := logQtx.ExistsByDeviceEvent(ctx, machineID, entry.UserID, sequence)
			if err != nil {
				return err
			}
			if exists {
				resp.Duplicates++
				continue
			}

			deviceUserID := entry.UserID
			deviceSequence := sequence
			log := &attendancelog.Log{
				ID:              uuid.New(),
				CompanyID:       m.CompanyID,
				BranchID:        m.BranchID,
				Source:          attendancelog.SourceMachine,
				Type:            ResolvePunchType(m.StatusCodes, entry.Status),
				Timestamp:       ts,
				ServerTimestamp: now,
				MachineID:       &machineUUID,
				DeviceUserID:    &deviceUserID,
				DeviceSequence:  &deviceSequence,
				RawData:         entry.Raw,
			}

			emp, err := employeeQtx.FindByDeviceUserID(ctx, m.CompanyID.String(), entry.UserID)
			if err != nil {
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					return err
				}
				// Raw events are never dropped over a failed identity match;
				// the log lands as an orphan for manual reconciliation and
				// the daily aggregate stays untouched.
				log.ProcessingStatus = attendancelog.StatusOrphan
				if err := logQtx.Create(ctx, log); err != nil {
					return err
				}
				resp.Orphans++
				continue
			}

			log.EmployeeID = &emp.ID
			log.ProcessingStatus = attendancelog.StatusProcessed
			if err := logQtx.Create(ctx, log); err != nil {
				return err
			}
			if _, err := s.engine.ApplyLog(ctx, dayQtx, *log); err != nil {
				return err
			}
			resp.Synced++
		}

		return qtx.TouchLastSync(ctx, machineID, now)
	})
	if err != nil {
		s.logger.Warn("machine sync aborted",
			zap.String("machine_id", machineID),
			zap.Int("entries", len(entries)),
			zap.Error(err),
		)
		return SyncResponse{}, err
	}

	s.notify(ctx, m.CompanyID.String(), events.EventMachineSynced, map[string]any{
		"machine_id": machineID,
		"synced":     resp.Synced,
		"orphans":    resp.Orphans,
		"duplicates": resp.Duplicates,
	})

	s.logger.Info("machine sync success",
		zap.String("machine_id", machineID),
		zap.Int("synced", resp.Synced),
		zap.Int("orphans", resp.Orphans),
		zap.Int("duplicates", resp.Duplicates),
	)
	resp.Status = "success"
	return resp, nil
}

func (s *service) ListOrphans(ctx context.Context, companyID string) ([]attendancelog.LogResponse, error) {
	logs, err := s.logRepo.FindOrphansByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return attendancelog.MapToListResponse(logs), nil
}

// AssignOrphan reconciles an orphan log to an employee. The original log stays
// immutable except for its processing status; the resolved punch is folded
// into the daily aggregate like a live sync entry.
func (s *service) AssignOrphan(ctx context.Context, companyID, logID, employeeID string) (attendancelog.LogResponse, error) {
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return attendancelog.LogResponse{}, machineerrors.ErrEmployeeNotFound
	}

	log, err := s.logRepo.FindByIDAndCompany(ctx, companyID, logID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return attendancelog.LogResponse{}, machineerrors.ErrLogNotFound
		}
		return attendancelog.LogResponse{}, err
	}
	if log.ProcessingStatus != attendancelog.StatusOrphan {
		return attendancelog.LogResponse{}, machineerrors.ErrLogNotOrphan
	}

	if _, err := s.employeeRepo.FindByIDAndCompany(ctx, companyID, employeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return attendancelog.LogResponse{}, machineerrors.ErrEmployeeNotFound
		}
		return attendancelog.LogResponse{}, err
	}

	err = txn.Run(ctx, s.db, func(tx *sql.Tx) error {
		logQtx := s.logRepo.WithTx(tx)
		dayQtx := s.dayRepo.WithTx(tx)

		if err := logQtx.AssignEmployee(ctx, logID, employeeID); err != nil {
			return err
		}

		log.EmployeeID = &employeeUUID
		log.ProcessingStatus = attendancelog.StatusProcessed
		_, err := s.engine.ApplyLog(ctx, dayQtx, *log)
		return err
	})
	if err != nil {
		s.logger.Warn("assign orphan failed",
			zap.String("log_id", logID),
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
		return attendancelog.LogResponse{}, err
	}

	s.logger.Info("assign orphan success",
		zap.String("log_id", logID),
		zap.String("employee_id", employeeID),
	)
	return attendancelog.MapToResponse(*log), nil
}

func (s *service) notify(ctx context.Context, target, event string, payload map[string]any) {
	if err := s.notifier.Notify(ctx, target, event, payload); err != nil {
		s.logger.Warn("notification failed",
			zap.String("target", target),
			zap.String("event", event),
			zap.Error(err),
		)
	}
}

func isKnownPunchType(t string) bool {
	switch t {
	case attendancelog.TypeIn, attendancelog.TypeOut,
		attendancelog.TypeBreakStart, attendancelog.TypeBreakEnd,
		attendancelog.TypeRemoteIn, attendancelog.TypeRemoteOut,
		attendancelog.TypeUnknown:
		return true
	}
	return false
}
