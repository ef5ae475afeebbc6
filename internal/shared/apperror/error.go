package apperror

import "fmt"

// AppError pairs a stable machine-readable code with the HTTP status it maps
// to. Handlers never inspect error strings; they branch on Code and Status.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error // wrapped cause, kept out of client responses
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the cause to errors.Is / errors.As chains.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New builds a sentinel-style AppError with no cause. Feature packages use it
// to declare their error vocabulary at package init.
func New(code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap attaches a code and client message to an underlying error. A nil cause
// yields nil so call sites can wrap unconditionally.
func Wrap(err error, code, message string, httpStatus int) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}
