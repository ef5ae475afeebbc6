package attendancelog

import (
	"context"
	"time"

	logerrors "go-attend/internal/attendancelog/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=log_service.go -destination=mock/log_service_mock.go -package=mock
type Service interface {
	ListByEmployeeAndDate(ctx context.Context, companyID, employeeID, date string) ([]LogResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendancelog.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendancelog.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) ListByEmployeeAndDate(ctx context.Context, companyID, employeeID, date string) ([]LogResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, logerrors.ErrInvalidEmployeeID
	}
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, logerrors.ErrInvalidDateFormat
	}

	from := day
	to := day.AddDate(0, 0, 1)
	logs, err := s.repo.FindByEmployeeAndRange(ctx, companyID, employeeID, from, to)
	if err != nil {
		s.logger.Error("list logs failed",
			zap.String("company_id", companyID),
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
		return nil, err
	}
	return MapToListResponse(logs), nil
}
