package logerrors

import (
	"net/http"

	"go-attend/internal/shared/apperror"
)

var (
	ErrLogNotFound = apperror.New(
		apperror.CodeNotFound,
		"attendance log not found",
		http.StatusNotFound,
	)
	ErrNotOrphan = apperror.New(
		apperror.CodeInvalidState,
		"attendance log is not an orphan",
		http.StatusBadRequest,
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
	ErrEmployeeNotInCompany = apperror.New(
		apperror.CodeInvalidInput,
		"employee does not belong to this company",
		http.StatusBadRequest,
	)
)
