package regerrors

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
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
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
	ErrInvalidType = apperror.New(
		apperror.CodeInvalidInput,
		"invalid regularization type",
		http.StatusBadRequest,
	)
	ErrDateInFuture = apperror.New(
		apperror.CodeInvalidInput,
		"target_date cannot be in the future",
		http.StatusBadRequest,
	)
	ErrDateTooOld = apperror.New(
		apperror.CodeInvalidInput,
		"target_date is older than the 30-day correction window",
		http.StatusBadRequest,
	)
	ErrReasonLength = apperror.New(
		apperror.CodeInvalidInput,
		"reason must be between 10 and 500 characters",
		http.StatusBadRequest,
	)
	ErrNoCorrection = apperror.New(
		apperror.CodeInvalidInput,
		"at least one of new_first_in or new_last_out is required",
		http.StatusBadRequest,
	)
	ErrCorrectionOrder = apperror.New(
		apperror.CodeInvalidInput,
		"new_first_in must not be after new_last_out",
		http.StatusBadRequest,
	)
	ErrInvalidDecision = apperror.New(
		apperror.CodeInvalidInput,
		"status must be approved or rejected",
		http.StatusBadRequest,
	)
	ErrRejectionReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"rejection_reason is required when rejecting",
		http.StatusBadRequest,
	)
	ErrRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"regularization request not found",
		http.StatusNotFound,
	)
	ErrDuplicateOpenRequest = apperror.New(
		apperror.CodeConflict,
		"an open regularization request already exists for this date",
		http.StatusConflict,
	)
	ErrAlreadyDecided = apperror.New(
		apperror.CodeConflict,
		"regularization request is already decided",
		http.StatusConflict,
	)
	ErrNotAnApprover = apperror.New(
		apperror.CodeForbidden,
		"you are not a pending approver of this request",
		http.StatusForbidden,
	)
	ErrEmployeeNotInCompany = apperror.New(
		apperror.CodeInvalidInput,
		"employee does not belong to this company",
		http.StatusBadRequest,
	)
)
