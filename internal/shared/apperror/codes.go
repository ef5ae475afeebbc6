package apperror

// Error codes are part of the API contract: clients and device firmware
// branch on them, so values never change once shipped.
const (
	CodeInvalidInput = "INVALID_INPUT" // 400: malformed or out-of-range input
	CodeUnauthorized = "UNAUTHORIZED"  // 401: missing or bad credentials
	CodeForbidden    = "FORBIDDEN"     // 403: authenticated but not allowed
	CodeNotFound     = "NOT_FOUND"     // 404
	CodeConflict     = "CONFLICT"      // 409: duplicate or terminal state
	CodeInvalidState = "INVALID_STATE" // 409: operation illegal for the record's state

	CodeInternalError      = "INTERNAL_ERROR"      // 500
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE" // 503: dependency down
)
