package machineerrors

import (
	"net/http"

	"go-attend/internal/shared/apperror"
)

var (
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrInvalidMachineID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid machine id",
		http.StatusBadRequest,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"status must be ACTIVE, INACTIVE or MAINTENANCE",
		http.StatusBadRequest,
	)
	ErrInvalidStatusCode = apperror.New(
		apperror.CodeInvalidInput,
		"status code override maps to an unknown punch type",
		http.StatusBadRequest,
	)
	ErrEmptyBatch = apperror.New(
		apperror.CodeInvalidInput,
		"sync payload contains no entries",
		http.StatusBadRequest,
	)
	ErrEntryMissingUser = apperror.New(
		apperror.CodeInvalidInput,
		"sync entry is missing a device user id",
		http.StatusBadRequest,
	)
	ErrEntryBadTimestamp = apperror.New(
		apperror.CodeInvalidInput,
		"sync entry timestamp is not a valid RFC3339 time",
		http.StatusBadRequest,
	)
	ErrMissingAPIKey = apperror.New(
		apperror.CodeUnauthorized,
		"missing machine api key",
		http.StatusUnauthorized,
	)
	ErrInvalidAPIKey = apperror.New(
		apperror.CodeUnauthorized,
		"invalid machine api key",
		http.StatusUnauthorized,
	)
	ErrMachineNotActive = apperror.New(
		apperror.CodeUnauthorized,
		"machine is not active",
		http.StatusUnauthorized,
	)
	ErrMachineNotFound = apperror.New(
		apperror.CodeNotFound,
		"machine not found",
		http.StatusNotFound,
	)
	ErrLogNotFound = apperror.New(
		apperror.CodeNotFound,
		"attendance log not found",
		http.StatusNotFound,
	)
	ErrLogNotOrphan = apperror.New(
		apperror.CodeInvalidState,
		"attendance log is not an orphan",
		http.StatusConflict,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found in this company",
		http.StatusNotFound,
	)
)
