package regularization

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go-attend/internal/attendancelog"
	"go-attend/internal/attendanceday"
	"go-attend/internal/employee"
	"go-attend/internal/events"
	"go-attend/internal/notification"
	regerrors "go-attend/internal/regularization/errors"
	"go-attend/internal/shared/txn"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Maximum age of a correctable day. Payroll cutoffs depend on this window, so
// violations are hard errors rather than warnings.
const submitWindowDays = 30

const (
	reasonMinLen = 10
	reasonMaxLen = 500
)

//go:generate mockgen -source=reg_service.go -destination=mock/reg_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, companyID, actorID string, req SubmitRequest) (RequestResponse, error)
	Decide(ctx context.Context, companyID, actorID, actorRole, id string, req DecideRequest) (RequestResponse, error)
	GetByID(ctx context.Context, companyID, id string) (RequestResponse, error)
	GetMine(ctx context.Context, companyID, employeeID string) ([]RequestResponse, error)
	GetPendingApprovals(ctx context.Context, companyID, approverID string) ([]RequestResponse, error)
}

type service struct {
	db           *sql.DB
	repo         Repository
	logRepo      attendancelog.Repository
	dayRepo      attendanceday.Repository
	engine       *attendanceday.Engine
	employeeRepo employee.Repository
	notifier     notification.Notifier
	rdb          *redis.Client
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
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("regularization.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("regularization.service")
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
		rdb:          rdb,
		logger:       l,
	}
}

func (s *service) Submit(ctx context.Context, companyID, actorID string, req SubmitRequest) (RequestResponse, error) {
	s.logger.Debug("submit regularization requested",
		zap.String("company_id", companyID),
		zap.String("actor_id", actorID),
		zap.String("target_date", req.TargetDate),
		zap.String("type", req.Type),
	)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return RequestResponse{}, regerrors.ErrInvalidCompanyID
	}
	employeeUUID, err := uuid.Parse(actorID)
	if err != nil {
		return RequestResponse{}, regerrors.ErrInvalidActorID
	}

	targetDate, err := parseDate(req.TargetDate)
	if err != nil {
		return RequestResponse{}, err
	}
	if err := validateSubmitWindow(targetDate, time.Now().UTC()); err != nil {
		return RequestResponse{}, err
	}

	reason := strings.TrimSpace(req.Reason)
	if len(reason) < reasonMinLen || len(reason) > reasonMaxLen {
		return RequestResponse{}, regerrors.ErrReasonLength
	}

	newFirstIn, newLastOut, err := parseCorrection(req.NewFirstIn, req.NewLastOut)
	if err != nil {
		return RequestResponse{}, err
	}
	if req.Type == TypeMissedPunch && newFirstIn == nil && newLastOut == nil {
		return RequestResponse{}, regerrors.ErrNoCorrection
	}

	// Manager lookup happens before the transaction opens; the transaction
	// body stays free of extra round-trips.
	var approvers []Approver
	manager, err := s.employeeRepo.FindManagerOf(ctx, companyID, actorID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("submit regularization manager lookup failed", zap.Error(err))
		return RequestResponse{}, err
	}
	if manager != nil && err == nil {
		approvers = append(approvers, Approver{
			ID:         uuid.New(),
			ApproverID: manager.ID,
			Sequence:   0,
			Status:     ApproverPending,
		})
	}

	request := &Request{
		ID:               uuid.New(),
		CompanyID:        companyUUID,
		EmployeeID:       employeeUUID,
		TargetDate:       targetDate,
		Type:             req.Type,
		Reason:           reason,
		NewFirstIn:       newFirstIn,
		NewLastOut:       newLastOut,
		Status:           StatusPending,
		ApprovalRequired: len(approvers),
		Approvers:        approvers,
		History: []HistoryEntry{{
			ID:         uuid.New(),
			ActorID:    employeeUUID,
			Action:     "SUBMIT",
			FromStatus: StatusDraft,
			ToStatus:   StatusPending,
		}},
	}
	for i := range request.Approvers {
		request.Approvers[i].RequestID = request.ID
	}
	for i := range request.History {
		request.History[i].RequestID = request.ID
	}

	err = txn.Run(ctx, s.db, func(tx *sql.Tx) error {
		qtx := s.repo.WithTx(tx)

		open, err := qtx.HasOpenRequest(ctx, companyID, actorID, targetDate)
		if err != nil {
			return err
		}
		if open {
			return regerrors.ErrDuplicateOpenRequest
		}

		if err := qtx.Create(ctx, request); err != nil {
			// The read above narrows but does not close the race; the
			// partial unique index is the actual guard.
			if attendanceday.IsUniqueViolation(err) {
				return regerrors.ErrDuplicateOpenRequest
			}
			return err
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("submit regularization failed",
			zap.String("company_id", companyID),
			zap.String("actor_id", actorID),
			zap.Error(err),
		)
		return RequestResponse{}, err
	}

	if manager != nil {
		s.notify(ctx, manager.ID.String(), events.EventRegularizationSubmitted, map[string]any{
			"company_id":  companyID,
			"request_id":  request.ID.String(),
			"employee_id": actorID,
			"target_date": req.TargetDate,
		})
	}

	s.logger.Info("submit regularization success",
		zap.String("request_id", request.ID.String()),
		zap.String("company_id", companyID),
		zap.Int("approval_required", request.ApprovalRequired),
	)
	return mapToResponse(*request), nil
}

func (s *service) Decide(ctx context.Context, companyID, actorID, actorRole, id string, req DecideRequest) (RequestResponse, error) {
	s.logger.Debug("decide regularization requested",
		zap.String("request_id", id),
		zap.String("company_id", companyID),
		zap.String("actor_id", actorID),
		zap.String("decision", req.Status),
	)

	if _, err := uuid.Parse(companyID); err != nil {
		return RequestResponse{}, regerrors.ErrInvalidCompanyID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return RequestResponse{}, regerrors.ErrInvalidActorID
	}

	decision := strings.ToLower(strings.TrimSpace(req.Status))
	if decision != "approved" && decision != "rejected" {
		return RequestResponse{}, regerrors.ErrInvalidDecision
	}
	if decision == "rejected" && (req.RejectionReason == nil || strings.TrimSpace(*req.RejectionReason) == "") {
		return RequestResponse{}, regerrors.ErrRejectionReasonRequired
	}

	var (
		request       *Request
		newStatus     string
		stillPending  []Approver
		correctionIDs []string
	)

	err = txn.Run(ctx, s.db, func(tx *sql.Tx) error {
		qtx := s.repo.WithTx(tx)

		request, err = qtx.FindByIDAndCompany(ctx, companyID, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return regerrors.ErrRequestNotFound
			}
			return err
		}
		if IsTerminal(request.Status) {
			return regerrors.ErrAlreadyDecided
		}

		entry, err := s.resolveApproverEntry(ctx, qtx, request, actorUUID, actorRole)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if decision == "approved" {
			entry.Status = ApproverApproved
		} else {
			entry.Status = ApproverRejected
		}
		entry.Comments = req.Comments
		entry.ActedAt = &now
		if err := qtx.UpdateApprover(ctx, entry); err != nil {
			return err
		}

		oldStatus := request.Status
		newStatus = resolveStatus(request.Approvers)

		request.Status = newStatus
		if newStatus == StatusRejected {
			request.RejectionReason = req.RejectionReason
		}
		if err := qtx.Update(ctx, request); err != nil {
			return err
		}

		comments := req.Comments
		if newStatus == StatusRejected && comments == nil {
			comments = req.RejectionReason
		}
		// History records the action verb, not the resulting status; the
		// transition itself lives in FromStatus/ToStatus.
		action := "REJECT"
		if decision == "approved" {
			action = "APPROVE"
		}
		if err := qtx.CreateHistory(ctx, &HistoryEntry{
			ID:         uuid.New(),
			RequestID:  request.ID,
			ActorID:    actorUUID,
			Action:     action,
			FromStatus: oldStatus,
			ToStatus:   newStatus,
			Comments:   comments,
		}); err != nil {
			return err
		}

		// Only a final approval touches the log store and the daily
		// aggregate. A rejection short-circuits with no daily mutation.
		if newStatus == StatusApproved {
			correctionIDs, err = s.applyApproval(ctx, tx, request)
			if err != nil {
				return err
			}
		}

		if newStatus == StatusUnderReview {
			for _, a := range request.Approvers {
				if a.Status == ApproverPending {
					stillPending = append(stillPending, a)
				}
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("decide regularization failed",
			zap.String("request_id", id),
			zap.String("actor_id", actorID),
			zap.Error(err),
		)
		return RequestResponse{}, err
	}

	s.afterDecide(ctx, companyID, request, newStatus, stillPending)

	s.logger.Info("decide regularization success",
		zap.String("request_id", id),
		zap.String("status", newStatus),
		zap.Int("correction_logs", len(correctionIDs)),
	)
	return mapToResponse(*request), nil
}

// resolveApproverEntry finds the actor's pending chain entry, or appends an
// override entry when an administrator decides from outside the chain.
func (s *service) resolveApproverEntry(ctx context.Context, qtx Repository, request *Request, actorUUID uuid.UUID, actorRole string) (*Approver, error) {
	for i := range request.Approvers {
		a := &request.Approvers[i]
		if a.ApproverID == actorUUID && a.Status == ApproverPending {
			return a, nil
		}
	}

	if !employee.IsAdminRole(actorRole) {
		return nil, regerrors.ErrNotAnApprover
	}

	override := Approver{
		ID:              uuid.New(),
		RequestID:       request.ID,
		ApproverID:      actorUUID,
		Sequence:        len(request.Approvers),
		Status:          ApproverPending,
		IsAdminOverride: true,
	}
	if err := qtx.CreateApprover(ctx, &override); err != nil {
		return nil, err
	}
	request.Approvers = append(request.Approvers, override)
	return &request.Approvers[len(request.Approvers)-1], nil
}

// resolveStatus applies the resolution policy: any rejection wins, then
// full approval, otherwise the chain is still under review.
func resolveStatus(approvers []Approver) string {
	pending := 0
	for _, a := range approvers {
		switch a.Status {
		case ApproverRejected:
			return StatusRejected
		case ApproverPending:
			pending++
		}
	}
	if pending == 0 {
		return StatusApproved
	}
	return StatusUnderReview
}

// applyApproval writes the immutable correction logs and folds them into the
// daily aggregate. Runs inside the decide transaction.
func (s *service) applyApproval(ctx context.Context, tx *sql.Tx, request *Request) ([]string, error) {
	logQtx := s.logRepo.WithTx(tx)
	dayQtx := s.dayRepo.WithTx(tx)

	now := time.Now().UTC()
	regID := request.ID

	var correctionIDs []string
	writeLog := func(punchType string, ts time.Time) error {
		l := &attendancelog.Log{
			ID:               uuid.New(),
			CompanyID:        request.CompanyID,
			BranchID:         request.BranchID,
			EmployeeID:       &request.EmployeeID,
			Source:           attendancelog.SourceAdminManual,
			Type:             punchType,
			Timestamp:        ts,
			ServerTimestamp:  now,
			ProcessingStatus: attendancelog.StatusCorrected,
			IsVerified:       true,
			RegularizationID: &regID,
		}
		if err := logQtx.Create(ctx, l); err != nil {
			return err
		}
		correctionIDs = append(correctionIDs, l.ID.String())
		return nil
	}

	if request.NewFirstIn != nil {
		if err := writeLog(attendancelog.TypeIn, *request.NewFirstIn); err != nil {
			return nil, err
		}
	}
	if request.NewLastOut != nil {
		if err := writeLog(attendancelog.TypeOut, *request.NewLastOut); err != nil {
			return nil, err
		}
	}

	if len(correctionIDs) == 0 {
		return nil, nil
	}

	_, err := s.engine.ApplyCorrection(
		ctx,
		dayQtx,
		request.CompanyID,
		request.EmployeeID,
		request.TargetDate.Format("2006-01-02"),
		request.NewFirstIn,
		request.NewLastOut,
		correctionIDs,
	)
	if err != nil {
		return nil, err
	}
	return correctionIDs, nil
}

// afterDecide runs the post-commit side effects: cache invalidation and
// best-effort notifications. Failures are logged, never surfaced.
func (s *service) afterDecide(ctx context.Context, companyID string, request *Request, newStatus string, stillPending []Approver) {
	if newStatus == StatusApproved && s.rdb != nil {
		prefix := attendanceday.GetSummaryCacheKey(companyID)
		iter := s.rdb.Scan(ctx, 0, prefix+"*", 0).Iterator()
		for iter.Next(ctx) {
			if err := s.rdb.Del(ctx, iter.Val()).Err(); err != nil {
				s.logger.Warn("summary cache invalidation failed",
					zap.String("key", iter.Val()),
					zap.Error(err),
				)
			}
		}
		if err := iter.Err(); err != nil {
			s.logger.Warn("summary cache scan failed", zap.Error(err))
		}
	}

	s.notify(ctx, request.EmployeeID.String(), events.EventRegularizationDecided, map[string]any{
		"company_id":  companyID,
		"request_id":  request.ID.String(),
		"status":      newStatus,
		"target_date": request.TargetDate.Format("2006-01-02"),
	})

	for _, a := range stillPending {
		s.notify(ctx, a.ApproverID.String(), events.EventRegularizationReview, map[string]any{
			"company_id":  companyID,
			"request_id":  request.ID.String(),
			"employee_id": request.EmployeeID.String(),
			"target_date": request.TargetDate.Format("2006-01-02"),
		})
	}
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

func (s *service) GetByID(ctx context.Context, companyID, id string) (RequestResponse, error) {
	request, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RequestResponse{}, regerrors.ErrRequestNotFound
		}
		return RequestResponse{}, err
	}
	return mapToResponse(*request), nil
}

func (s *service) GetMine(ctx context.Context, companyID, employeeID string) ([]RequestResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, regerrors.ErrInvalidEmployeeID
	}
	requests, err := s.repo.FindAllByEmployee(ctx, companyID, employeeID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(requests), nil
}

func (s *service) GetPendingApprovals(ctx context.Context, companyID, approverID string) ([]RequestResponse, error) {
	if _, err := uuid.Parse(approverID); err != nil {
		return nil, regerrors.ErrInvalidActorID
	}
	requests, err := s.repo.FindPendingByApprover(ctx, companyID, approverID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(requests), nil
}

func validateSubmitWindow(targetDate, now time.Time) error {
	y, m, d := now.UTC().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if targetDate.After(today) {
		return regerrors.ErrDateInFuture
	}
	if targetDate.Before(today.AddDate(0, 0, -submitWindowDays)) {
		return regerrors.ErrDateTooOld
	}
	return nil
}

func parseCorrection(newFirstIn, newLastOut *string) (*time.Time, *time.Time, error) {
	var firstIn, lastOut *time.Time
	if newFirstIn != nil && *newFirstIn != "" {
		t, err := time.Parse(time.RFC3339, *newFirstIn)
		if err != nil {
			return nil, nil, regerrors.ErrInvalidDateFormat
		}
		t = t.UTC()
		firstIn = &t
	}
	if newLastOut != nil && *newLastOut != "" {
		t, err := time.Parse(time.RFC3339, *newLastOut)
		if err != nil {
			return nil, nil, regerrors.ErrInvalidDateFormat
		}
		t = t.UTC()
		lastOut = &t
	}
	if firstIn != nil && lastOut != nil && firstIn.After(*lastOut) {
		return nil, nil, regerrors.ErrCorrectionOrder
	}
	return firstIn, lastOut, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, regerrors.ErrInvalidDateFormat
	}
	return t, nil
}
