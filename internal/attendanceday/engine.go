package attendanceday

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"go-attend/internal/attendancelog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Engine keeps exactly one consistent Day aggregate per (employee, calendar
// day) in sync with the log store. It is stateless; callers pass a repository
// already bound to their transaction.
type Engine struct {
	logger *zap.Logger
}

func NewEngine(logger ...*zap.Logger) *Engine {
	l := zap.L().Named("attendanceday.engine")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendanceday.engine")
	}
	return &Engine{logger: l}
}

// HoursBetween returns the span between two punches in hours, rounded to two
// decimals. Breaks are deliberately not deducted from the span; see DESIGN.md.
func HoursBetween(lastOut, firstIn time.Time) float64 {
	h := lastOut.Sub(firstIn).Hours()
	if h < 0 {
		return 0
	}
	return math.Round(h*100) / 100
}

// ApplyLog folds one resolved (non-orphan) log into its Day aggregate,
// creating the aggregate lazily on the first punch of the day. Punches may
// arrive out of chronological order; the min/max policy makes the final
// aggregate order-independent. Reapplying the same log id is a no-op.
func (e *Engine) ApplyLog(ctx context.Context, repo Repository, log attendancelog.Log) (*Day, error) {
	if log.EmployeeID == nil {
		return nil, errors.New("cannot apply orphan log to daily aggregate")
	}

	companyID := log.CompanyID.String()
	employeeID := log.EmployeeID.String()
	workDate := CalendarDate(log.Timestamp)

	day, err := repo.FindByEmployeeAndDate(ctx, companyID, employeeID, workDate)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		created, createErr := e.createDay(ctx, repo, log, workDate)
		if createErr == nil {
			return created, nil
		}
		if !IsUniqueViolation(createErr) {
			return nil, createErr
		}

		// Lost the create race: another writer inserted the row between the
		// read and the create. The unique index surfaced it; retry as update.
		e.logger.Debug("day create raced, retrying as update",
			zap.String("employee_id", employeeID),
			zap.String("work_date", workDate),
		)
		day, err = repo.FindByEmployeeAndDate(ctx, companyID, employeeID, workDate)
		if err != nil {
			return nil, err
		}
	}

	logID := log.ID.String()
	if day.LogIDs.Contains(logID) {
		return day, nil
	}

	if attendancelog.IsInType(log.Type) {
		if day.FirstIn == nil || log.Timestamp.Before(*day.FirstIn) {
			t := log.Timestamp
			day.FirstIn = &t
		}
	}
	if attendancelog.IsOutType(log.Type) {
		if day.LastOut == nil || log.Timestamp.After(*day.LastOut) {
			t := log.Timestamp
			day.LastOut = &t
		}
	}

	day.LogIDs = append(day.LogIDs, logID)
	recompute(day)

	if err := repo.Update(ctx, day); err != nil {
		return nil, err
	}
	return day, nil
}

func (e *Engine) createDay(ctx context.Context, repo Repository, log attendancelog.Log, workDate string) (*Day, error) {
	day := &Day{
		ID:         uuid.New(),
		CompanyID:  log.CompanyID,
		EmployeeID: *log.EmployeeID,
		WorkDate:   workDate,
		Status:     StatusPresent,
		LogIDs:     LogIDs{log.ID.String()},
	}
	if attendancelog.IsInType(log.Type) {
		t := log.Timestamp
		day.FirstIn = &t
	}
	if attendancelog.IsOutType(log.Type) {
		t := log.Timestamp
		day.LastOut = &t
	}
	recompute(day)

	if err := repo.Create(ctx, day); err != nil {
		return nil, err
	}
	return day, nil
}

// ApplyCorrection rewrites the aggregate ends from an approved regularization
// and recomputes the total. Fields left nil keep their current value.
func (e *Engine) ApplyCorrection(
	ctx context.Context,
	repo Repository,
	companyID, employeeID uuid.UUID,
	workDate string,
	newFirstIn, newLastOut *time.Time,
	correctionLogIDs []string,
) (*Day, error) {
	day, err := repo.FindByEmployeeAndDate(ctx, companyID.String(), employeeID.String(), workDate)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		day = &Day{
			ID:         uuid.New(),
			CompanyID:  companyID,
			EmployeeID: employeeID,
			WorkDate:   workDate,
			Status:     StatusPresent,
		}
		if createErr := repo.Create(ctx, day); createErr != nil {
			if !IsUniqueViolation(createErr) {
				return nil, createErr
			}

			// Lost the create race: a concurrent punch inserted the row first.
			// The correction must land on the winner row, not on the phantom
			// local one whose primary key matches nothing.
			e.logger.Debug("day create raced during correction, retrying as update",
				zap.String("employee_id", employeeID.String()),
				zap.String("work_date", workDate),
			)
			day, err = repo.FindByEmployeeAndDate(ctx, companyID.String(), employeeID.String(), workDate)
			if err != nil {
				return nil, err
			}
		}
	}

	if newFirstIn != nil {
		day.FirstIn = newFirstIn
	}
	if newLastOut != nil {
		day.LastOut = newLastOut
	}
	for _, id := range correctionLogIDs {
		if !day.LogIDs.Contains(id) {
			day.LogIDs = append(day.LogIDs, id)
		}
	}
	recompute(day)

	if err := repo.Update(ctx, day); err != nil {
		return nil, err
	}
	return day, nil
}

// recompute rebuilds the derived fields from scratch. Recomputing instead of
// patching incrementally keeps rounding errors from compounding.
func recompute(day *Day) {
	if day.FirstIn != nil && day.LastOut != nil {
		day.TotalWorkHours = HoursBetween(*day.LastOut, *day.FirstIn)
	} else {
		day.TotalWorkHours = 0
	}
	day.PayoutMultiplier = PayoutMultiplier(day.Status)
}

// IsUniqueViolation detects the duplicate-key error the unique index raises
// when concurrent writers race on the same (employee, work_date).
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	return strings.Contains(strings.ToLower(err.Error()), "duplicate key value")
}
