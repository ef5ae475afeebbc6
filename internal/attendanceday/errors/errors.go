package dayerrors

import (
	"net/http"

	"go-attend/internal/shared/apperror"
)

var (
	ErrDayNotFound = apperror.New(
		apperror.CodeNotFound,
		"attendance day not found",
		http.StatusNotFound,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"from must be before or equal to",
		http.StatusBadRequest,
	)
)
