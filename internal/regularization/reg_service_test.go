package regularization_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"go-attend/internal/attendanceday"
	"go-attend/internal/attendancelog"
	"go-attend/internal/employee"
	"go-attend/internal/regularization"
	regerrors "go-attend/internal/regularization/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRegRepository struct {
	withTxFn                func(tx *sql.Tx) regularization.Repository
	createFn                func(ctx context.Context, r *regularization.Request) error
	findByIDAndCompanyFn    func(ctx context.Context, companyID, id string) (*regularization.Request, error)
	findAllByEmployeeFn     func(ctx context.Context, companyID, employeeID string) ([]regularization.Request, error)
	findPendingByApproverFn func(ctx context.Context, companyID, approverID string) ([]regularization.Request, error)
	hasOpenRequestFn        func(ctx context.Context, companyID, employeeID string, targetDate time.Time) (bool, error)
	updateFn                func(ctx context.Context, r *regularization.Request) error
	updateApproverFn        func(ctx context.Context, a *regularization.Approver) error
	createApproverFn        func(ctx context.Context, a *regularization.Approver) error
	createHistoryFn         func(ctx context.Context, h *regularization.HistoryEntry) error
}

func (f *fakeRegRepository) WithTx(tx *sql.Tx) regularization.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeRegRepository) Create(ctx context.Context, r *regularization.Request) error {
	if f.createFn != nil {
		return f.createFn(ctx, r)
	}
	return nil
}

func (f *fakeRegRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*regularization.Request, error) {
	if f.findByIDAndCompanyFn != nil {
		return f.findByIDAndCompanyFn(ctx, companyID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRegRepository) FindAllByEmployee(ctx context.Context, companyID, employeeID string) ([]regularization.Request, error) {
	if f.findAllByEmployeeFn != nil {
		return f.findAllByEmployeeFn(ctx, companyID, employeeID)
	}
	return nil, nil
}

func (f *fakeRegRepository) FindPendingByApprover(ctx context.Context, companyID, approverID string) ([]regularization.Request, error) {
	if f.findPendingByApproverFn != nil {
		return f.findPendingByApproverFn(ctx, companyID, approverID)
	}
	return nil, nil
}

func (f *fakeRegRepository) HasOpenRequest(ctx context.Context, companyID, employeeID string, targetDate time.Time) (bool, error) {
	if f.hasOpenRequestFn != nil {
		return f.hasOpenRequestFn(ctx, companyID, employeeID, targetDate)
	}
	return false, nil
}

func (f *fakeRegRepository) Update(ctx context.Context, r *regularization.Request) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, r)
	}
	return nil
}

func (f *fakeRegRepository) UpdateApprover(ctx context.Context, a *regularization.Approver) error {
	if f.updateApproverFn != nil {
		return f.updateApproverFn(ctx, a)
	}
	return nil
}

func (f *fakeRegRepository) CreateApprover(ctx context.Context, a *regularization.Approver) error {
	if f.createApproverFn != nil {
		return f.createApproverFn(ctx, a)
	}
	return nil
}

func (f *fakeRegRepository) CreateHistory(ctx context.Context, h *regularization.HistoryEntry) error {
	if f.createHistoryFn != nil {
		return f.createHistoryFn(ctx, h)
	}
	return nil
}

type fakeLogRepository struct {
	createFn func(ctx context.Context, l *attendancelog.Log) error
	created  []attendancelog.Log
}

func (f *fakeLogRepository) WithTx(tx *sql.Tx) attendancelog.Repository { return f }

func (f *fakeLogRepository) Create(ctx context.Context, l *attendancelog.Log) error {
	if f.createFn != nil {
		if err := f.createFn(ctx, l); err != nil {
			return err
		}
	}
	f.created = append(f.created, *l)
	return nil
}

func (f *fakeLogRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*attendancelog.Log, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLogRepository) FindByEmployeeAndRange(ctx context.Context, companyID, employeeID string, from, to time.Time) ([]attendancelog.Log, error) {
	return nil, nil
}

func (f *fakeLogRepository) FindOrphansByCompany(ctx context.Context, companyID string) ([]attendancelog.Log, error) {
	return nil, nil
}

func (f *fakeLogRepository) ExistsByDeviceEvent(ctx context.Context, machineID, deviceUserID, deviceSequence string) (bool, error) {
	return false, nil
}

func (f *fakeLogRepository) SetProcessingStatus(ctx context.Context, id, status string) error {
	return nil
}

func (f *fakeLogRepository) AssignEmployee(ctx context.Context, id, employeeID string) error {
	return nil
}

func (f *fakeLogRepository) LinkCorrection(ctx context.Context, supersededID, correctionID, regularizationID string) error {
	return nil
}

type fakeDayRepository struct {
	day      *attendanceday.Day
	updateFn func(ctx context.Context, d *attendanceday.Day) error
}

func (f *fakeDayRepository) WithTx(tx *sql.Tx) attendanceday.Repository { return f }

func (f *fakeDayRepository) Create(ctx context.Context, d *attendanceday.Day) error {
	copied := *d
	f.day = &copied
	return nil
}

func (f *fakeDayRepository) FindByEmployeeAndDate(ctx context.Context, companyID, employeeID, workDate string) (*attendanceday.Day, error) {
	if f.day == nil || f.day.WorkDate != workDate {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *f.day
	return &copied, nil
}

func (f *fakeDayRepository) FindByEmployeeAndRange(ctx context.Context, companyID, employeeID, fromDate, toDate string) ([]attendanceday.Day, error) {
	return nil, nil
}

func (f *fakeDayRepository) FindByCompanyAndRange(ctx context.Context, companyID, fromDate, toDate string) ([]attendanceday.Day, error) {
	return nil, nil
}

func (f *fakeDayRepository) Update(ctx context.Context, d *attendanceday.Day) error {
	if f.updateFn != nil {
		if err := f.updateFn(ctx, d); err != nil {
			return err
		}
	}
	copied := *d
	f.day = &copied
	return nil
}

type fakeEmployeeRepository struct {
	findManagerOfFn func(ctx context.Context, companyID, employeeID string) (*employee.Employee, error)
}

func (f *fakeEmployeeRepository) WithTx(tx *sql.Tx) employee.Repository { return f }

func (f *fakeEmployeeRepository) Create(ctx context.Context, e *employee.Employee) error { return nil }

func (f *fakeEmployeeRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*employee.Employee, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepository) FindByDeviceUserID(ctx context.Context, companyID, deviceUserID string) (*employee.Employee, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepository) FindManagerOf(ctx context.Context, companyID, employeeID string) (*employee.Employee, error) {
	if f.findManagerOfFn != nil {
		return f.findManagerOfFn(ctx, companyID, employeeID)
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeNotifier struct {
	events []string
}

func (f *fakeNotifier) Notify(ctx context.Context, target, event string, payload map[string]any) error {
	f.events = append(f.events, event)
	return nil
}

type regServiceDeps struct {
	db           *sql.DB
	sqlMock      sqlmock.Sqlmock
	service      regularization.Service
	repo         *fakeRegRepository
	logRepo      *fakeLogRepository
	dayRepo      *fakeDayRepository
	employeeRepo *fakeEmployeeRepository
	notifier     *fakeNotifier
}

func setupRegServiceTest(t *testing.T) *regServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeRegRepository{}
	logRepo := &fakeLogRepository{}
	dayRepo := &fakeDayRepository{}
	employeeRepo := &fakeEmployeeRepository{}
	notifier := &fakeNotifier{}

	svc := regularization.NewService(
		db,
		repo,
		logRepo,
		dayRepo,
		attendanceday.NewEngine(),
		employeeRepo,
		notifier,
		nil,
	)

	return &regServiceDeps{
		db:           db,
		sqlMock:      sqlMock,
		service:      svc,
		repo:         repo,
		logRepo:      logRepo,
		dayRepo:      dayRepo,
		employeeRepo: employeeRepo,
		notifier:     notifier,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func recentDate(daysAgo int) string {
	return time.Now().UTC().AddDate(0, 0, -daysAgo).Format("2006-01-02")
}

func TestRegularizationService_Submit(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()
	managerID := uuid.New()

	validReq := func() regularization.SubmitRequest {
		firstIn := time.Now().UTC().AddDate(0, 0, -2).Truncate(24 * time.Hour).Add(9 * time.Hour).Format(time.RFC3339)
		return regularization.SubmitRequest{
			TargetDate: recentDate(2),
			Type:       regularization.TypeMissedPunch,
			Reason:     "Forgot to punch in at the gate",
			NewFirstIn: &firstIn,
		}
	}

	t.Run("success seeds manager as approver", func(t *testing.T) {
		deps := setupRegServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.employeeRepo.findManagerOfFn = func(ctx context.Context, cid, eid string) (*employee.Employee, error) {
			assert.Equal(t, companyID, cid)
			assert.Equal(t, employeeID, eid)
			return &employee.Employee{ID: managerID}, nil
		}

		var created *regularization.Request
		deps.repo.createFn = func(ctx context.Context, r *regularization.Request) error {
			created = r
			return nil
		}

		resp, err := deps.service.Submit(ctx, companyID, employeeID, validReq())

		assert.NoError(t, err)
		assert.Equal(t, regularization.StatusPending, resp.Status)
		assert.Equal(t, 1, resp.ApprovalRequired)
		assert.Len(t, created.Approvers, 1)
		assert.Equal(t, managerID, created.Approvers[0].ApproverID)
		assert.Len(t, created.History, 1)
		assert.Equal(t, "SUBMIT", created.History[0].Action)
		assert.Contains(t, deps.notifier.events, "regularization_submitted")
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success zero approvers stays pending", func(t *testing.T) {
		deps := setupRegServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		// No manager configured: the request must wait for an explicit
		// administrative override, never auto-approve.
		resp, err := deps.service.Submit(ctx, companyID, employeeID, validReq())

		assert.NoError(t, err)
		assert.Equal(t, regularization.StatusPending, resp.Status)
		assert.Equal(t, 0, resp.ApprovalRequired)
		assert.Empty(t, resp.Approvers)
		assert.Empty(t, deps.notifier.events)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative future target date", func(t *testing.T) {
		deps := setupRegServiceTest(t)
		defer deps.db.Close()

		req := validReq()
		req.TargetDate = time.Now().UTC().AddDate(0, 0, 2).Format("2006-01-02")

		_, err := deps.service.Submit(ctx, companyID, employeeID, req)

		assert.ErrorIs(t, err, regerrors.ErrDateInFuture)
	})

	t.Run("negative target date outside window", func(t *testing.T) {
		deps := setupRegServiceTest(t)
		defer deps.db.Close()

		req := validReq()
		req.TargetDate = recentDate(45)

		_, err := deps.service.Submit(ctx, companyID, employeeID, req)

		assert.ErrorIs(t, err, regerrors.ErrDateTooOld)
	})

	t.Run("negative reason too short", func(t *testing.T) {
		deps := setupRegServiceTest(t)
		defer deps.db.Close()

		req := validReq()
		req.Reason = "short"

		_, err := deps.service.Submit(ctx, companyID, employeeID, req)

		assert.ErrorIs(t, err, regerrors.ErrReasonLength)
	})

	t.Run("negative missed punch without correction", func(t *testing.T) {
		deps := setupRegServiceTest(t)
		defer deps.db.Close()

		req := validReq()
		req.NewFirstIn = nil
		req.NewLastOut = nil

		_, err := deps.service.Submit(ctx, companyID, employeeID, req)

		assert.ErrorIs(t, err, regerrors.ErrNoCorrection)
	})

	t.Run("negative correction out of order", func(t *testing.T) {
		deps := setupRegServiceTest(t)
		defer deps.db.Close()

		req := validReq()
		firstIn := time.Date(2026, 8, 10, 18, 0, 0, 0, time.UTC).Format(time.RFC3339)
		lastOut := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC).Format(time.RFC3339)
		req.NewFirstIn = &firstIn
		req.NewLastOut = &lastOut

		_, err := deps.service.Submit(ctx, companyID, employeeID, req)

		assert.ErrorIs(t, err, regerrors.ErrCorrectionOrder)
	})

	t.Run("negative duplicate open request rolls back", func(t *testing.T) {
		deps := setupRegServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.hasOpenRequestFn = func(ctx context.Context, cid, eid string, targetDate time.Time) (bool, error) {
			return true, nil
		}

		_, err := deps.service.Submit(ctx, companyID, employeeID, validReq())

		assert.ErrorIs(t, err, regerrors.ErrDuplicateOpenRequest)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative unique index race maps to conflict", func(t *testing.T) {
		deps := setupRegServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.createFn = func(ctx context.Context, r *regularization.Request) error {
			return errors.New(`duplicate key value violates unique constraint "uq_regularizations_open"`)
		}

		_, err := deps.service.Submit(ctx, companyID, employeeID, validReq())

		assert.ErrorIs(t, err, regerrors.ErrDuplicateOpenRequest)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func decidableRequest(companyID, employeeID string, approverIDs ...uuid.UUID) *regularization.Request {
	targetDate, _ := time.Parse("2006-01-02", "2026-08-10")
	firstIn := targetDate.Add(9 * time.Hour)
	lastOut := targetDate.Add(18 * time.Hour)

	req := &regularization.Request{
		ID:               uuid.New(),
		CompanyID:        uuid.MustParse(companyID),
		EmployeeID:       uuid.MustParse(employeeID),
		TargetDate:       targetDate,
		Type:             regularization.TypeMissedPunch,
		Reason:           "Badge reader was offline all morning",
		NewFirstIn:       &firstIn,
		NewLastOut:       &lastOut,
		Status:           regularization.StatusPending,
		ApprovalRequired: len(approverIDs),
	}
	for i, id := range approverIDs {
		req.Approvers = append(req.Approvers, regularization.Approver{
			ID:         uuid.New(),
			RequestID:  req.ID,
			ApproverID: id,
			Sequence:   i,
			Status:     regularization.ApproverPending,
		})
	}
	return req
}

func TestRegularizationService_Decide(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()
	approverID := uuid.New()

	t.Run("success final approval writes correction logs and recomputes day", func(t *testing.T) {
		deps := setupRegServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		request := decidableRequest(companyID, employeeID, approverID)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*regularization.Request, error) {
			return request, nil
		}

		var history []regularization.HistoryEntry
		deps.repo.createHistoryFn = func(ctx context.Context, h *regularization.HistoryEntry) error {
			history = append(history, *h)
			return nil
		}

		resp, err := deps.service.Decide(ctx, companyID, approverID.String(), employee.RoleManager, request.ID.String(), regularization.DecideRequest{Status: "approved"})

		assert.NoError(t, err)
		assert.Equal(t, regularization.StatusApproved, resp.Status)

		// Two correction logs, both admin-sourced, verified and linked back.
		assert.Len(t, deps.logRepo.created, 2)
		for _, l := range deps.logRepo.created {
			assert.Equal(t, attendancelog.SourceAdminManual, l.Source)
			assert.Equal(t, attendancelog.StatusCorrected, l.ProcessingStatus)
			assert.True(t, l.IsVerified)
			assert.Equal(t, request.ID, *l.RegularizationID)
		}
		assert.Equal(t, attendancelog.TypeIn, deps.logRepo.created[0].Type)
		assert.Equal(t, attendancelog.TypeOut, deps.logRepo.created[1].Type)

		// Daily aggregate rewritten from the corrected ends.
		assert.NotNil(t, deps.dayRepo.day)
		assert.Equal(t, "2026-08-10", deps.dayRepo.day.WorkDate)
		assert.Equal(t, 9.0, deps.dayRepo.day.TotalWorkHours)
		assert.Len(t, deps.dayRepo.day.LogIDs, 2)

		assert.Len(t, history, 1)
		assert.Equal(t, "APPROVE", history[0].Action)
		assert.Equal(t, regularization.StatusPending, history[0].FromStatus)
		assert.Equal(t, regularization.StatusApproved, history[0].ToStatus)
		assert.Contains(t, deps.notifier.events, "regularization_decided")
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success rejection short-circuits remaining approvers", func(t *testing.T) {
		deps := setupRegServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		secondApprover := uuid.New()
		request := decidableRequest(companyID, employeeID, approverID, secondApprover)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*regularization.Request, error) {
			return request, nil
		}
		var history []regularization.HistoryEntry
		deps.repo.createHistoryFn = func(ctx context.Context, h *regularization.HistoryEntry) error {
			history = append(history, *h)
			return nil
		}

		reason := "Timestamps do not match the gate camera"
		resp, err := deps.service.Decide(ctx, companyID, approverID.String(), employee.RoleManager, request.ID.String(), regularization.DecideRequest{
			Status:          "rejected",
			RejectionReason: &reason,
		})

		assert.NoError(t, err)
		assert.Equal(t, regularization.StatusRejected, resp.Status)
		assert.Equal(t, &reason, resp.RejectionReason)

		// No correction logs and no daily mutation on rejection.
		assert.Empty(t, deps.logRepo.created)
		assert.Nil(t, deps.dayRepo.day)

		assert.Len(t, history, 1)
		assert.Equal(t, "REJECT", history[0].Action)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success partial approval moves to under review", func(t *testing.T) {
		deps := setupRegServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		secondApprover := uuid.New()
		request := decidableRequest(companyID, employeeID, approverID, secondApprover)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*regularization.Request, error) {
			return request, nil
		}

		resp, err := deps.service.Decide(ctx, companyID, approverID.String(), employee.RoleManager, request.ID.String(), regularization.DecideRequest{Status: "approved"})

		assert.NoError(t, err)
		assert.Equal(t, regularization.StatusUnderReview, resp.Status)
		assert.Empty(t, deps.logRepo.created)
		assert.Contains(t, deps.notifier.events, "regularization_review_requested")
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success admin override appends chain entry", func(t *testing.T) {
		deps := setupRegServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		adminID := uuid.New()
		request := decidableRequest(companyID, employeeID) // zero approvers
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*regularization.Request, error) {
			return request, nil
		}

		var appended *regularization.Approver
		deps.repo.createApproverFn = func(ctx context.Context, a *regularization.Approver) error {
			appended = a
			return nil
		}

		resp, err := deps.service.Decide(ctx, companyID, adminID.String(), employee.RoleAdmin, request.ID.String(), regularization.DecideRequest{Status: "approved"})

		assert.NoError(t, err)
		assert.Equal(t, regularization.StatusApproved, resp.Status)
		assert.NotNil(t, appended)
		assert.True(t, appended.IsAdminOverride)
		assert.Equal(t, adminID, appended.ApproverID)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative non-approver is forbidden", func(t *testing.T) {
		deps := setupRegServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		request := decidableRequest(companyID, employeeID, approverID)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*regularization.Request, error) {
			return request, nil
		}

		outsider := uuid.New()
		_, err := deps.service.Decide(ctx, companyID, outsider.String(), employee.RoleEmployee, request.ID.String(), regularization.DecideRequest{Status: "approved"})

		assert.ErrorIs(t, err, regerrors.ErrNotAnApprover)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative terminal request conflicts", func(t *testing.T) {
		deps := setupRegServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		request := decidableRequest(companyID, employeeID, approverID)
		request.Status = regularization.StatusApproved
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*regularization.Request, error) {
			return request, nil
		}

		_, err := deps.service.Decide(ctx, companyID, approverID.String(), employee.RoleManager, request.ID.String(), regularization.DecideRequest{Status: "approved"})

		assert.ErrorIs(t, err, regerrors.ErrAlreadyDecided)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative unknown request", func(t *testing.T) {
		deps := setupRegServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Decide(ctx, companyID, approverID.String(), employee.RoleManager, uuid.New().String(), regularization.DecideRequest{Status: "approved"})

		assert.ErrorIs(t, err, regerrors.ErrRequestNotFound)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative rejection without reason", func(t *testing.T) {
		deps := setupRegServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Decide(ctx, companyID, approverID.String(), employee.RoleManager, uuid.New().String(), regularization.DecideRequest{Status: "rejected"})

		assert.ErrorIs(t, err, regerrors.ErrRejectionReasonRequired)
	})

	t.Run("negative history write failure rolls back everything", func(t *testing.T) {
		deps := setupRegServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		request := decidableRequest(companyID, employeeID, approverID)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*regularization.Request, error) {
			return request, nil
		}
		deps.repo.createHistoryFn = func(ctx context.Context, h *regularization.HistoryEntry) error {
			return errors.New("disk full")
		}

		_, err := deps.service.Decide(ctx, companyID, approverID.String(), employee.RoleManager, request.ID.String(), regularization.DecideRequest{Status: "approved"})

		assert.Error(t, err)
		// No correction logs survive the rollback path.
		assert.Empty(t, deps.logRepo.created)
		assert.Empty(t, deps.notifier.events)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestRegularizationService_GetPendingApprovals(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	approverID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		deps := setupRegServiceTest(t)
		defer deps.db.Close()

		deps.repo.findPendingByApproverFn = func(ctx context.Context, cid, aid string) ([]regularization.Request, error) {
			assert.Equal(t, companyID, cid)
			assert.Equal(t, approverID, aid)
			return []regularization.Request{*decidableRequest(companyID, uuid.New().String(), uuid.MustParse(approverID))}, nil
		}

		resp, err := deps.service.GetPendingApprovals(ctx, companyID, approverID)

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, regularization.StatusPending, resp[0].Status)
	})

	t.Run("negative invalid approver id", func(t *testing.T) {
		deps := setupRegServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GetPendingApprovals(ctx, companyID, "not-a-uuid")

		assert.Error(t, err)
	})
}
