package attendanceday

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	dayerrors "go-attend/internal/attendanceday/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const SummaryCacheKeyPrefix = "attendance:summary:"

func GetSummaryCacheKey(companyID string) string {
	return SummaryCacheKeyPrefix + companyID
}

//go:generate mockgen -source=day_service.go -destination=mock/day_service_mock.go -package=mock
type Service interface {
	GetDay(ctx context.Context, companyID, employeeID, date string) (DayResponse, error)
	ListRange(ctx context.Context, companyID, employeeID, fromDate, toDate string) ([]DayResponse, error)
	Summary(ctx context.Context, companyID, fromDate, toDate string) (SummaryResponse, error)
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendanceday.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendanceday.service")
	}
	return &service{
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) GetDay(ctx context.Context, companyID, employeeID, date string) (DayResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return DayResponse{}, dayerrors.ErrInvalidEmployeeID
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return DayResponse{}, dayerrors.ErrInvalidDateFormat
	}

	day, err := s.repo.FindByEmployeeAndDate(ctx, companyID, employeeID, date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DayResponse{}, dayerrors.ErrDayNotFound
		}
		return DayResponse{}, err
	}
	return MapToResponse(*day), nil
}

func (s *service) ListRange(ctx context.Context, companyID, employeeID, fromDate, toDate string) ([]DayResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, dayerrors.ErrInvalidEmployeeID
	}
	from, to, err := parseRange(fromDate, toDate)
	if err != nil {
		return nil, err
	}
	if from.After(to) {
		return nil, dayerrors.ErrInvalidDateRange
	}

	days, err := s.repo.FindByEmployeeAndRange(ctx, companyID, employeeID, fromDate, toDate)
	if err != nil {
		return nil, err
	}
	return MapToListResponse(days), nil
}

// Summary aggregates a company's date range. The result is cached in redis
// and cache fills are deduplicated with singleflight so a cold key does not
// stampede the database.
func (s *service) Summary(ctx context.Context, companyID, fromDate, toDate string) (SummaryResponse, error) {
	from, to, err := parseRange(fromDate, toDate)
	if err != nil {
		return SummaryResponse{}, err
	}
	if from.After(to) {
		return SummaryResponse{}, dayerrors.ErrInvalidDateRange
	}

	cacheKey := GetSummaryCacheKey(companyID) + ":" + fromDate + ":" + toDate

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp SummaryResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (any, error) {
		days, err := s.repo.FindByCompanyAndRange(ctx, companyID, fromDate, toDate)
		if err != nil {
			return SummaryResponse{}, err
		}

		resp := SummaryResponse{FromDate: fromDate, ToDate: toDate, Days: len(days)}
		for _, d := range days {
			resp.TotalHours += d.TotalWorkHours
			switch d.Status {
			case StatusAbsent:
				resp.AbsentDays++
			case StatusPresent, StatusLate, StatusHalfDay, StatusWeekOffWork, StatusHolidayWork:
				resp.PresentDays++
			}
		}

		if s.rdb != nil {
			if payload, marshalErr := json.Marshal(resp); marshalErr == nil {
				if err := s.rdb.Set(ctx, cacheKey, payload, 10*time.Minute).Err(); err != nil {
					s.logger.Warn("summary cache set failed",
						zap.String("key", cacheKey),
						zap.Error(err),
					)
				}
			}
		}
		return resp, nil
	})
	if err != nil {
		return SummaryResponse{}, err
	}
	return v.(SummaryResponse), nil
}

func parseRange(fromDate, toDate string) (time.Time, time.Time, error) {
	from, err := time.Parse("2006-01-02", fromDate)
	if err != nil {
		return time.Time{}, time.Time{}, dayerrors.ErrInvalidDateFormat
	}
	to, err := time.Parse("2006-01-02", toDate)
	if err != nil {
		return time.Time{}, time.Time{}, dayerrors.ErrInvalidDateFormat
	}
	return from, to, nil
}
