package machine

import "go-attend/internal/attendancelog"

// defaultStatusCodes covers the common vendor conventions. Vendors disagree
// on codes, so a machine row can override any entry via its StatusCodes map.
var defaultStatusCodes = StatusCodeMap{
	"0":           attendancelog.TypeIn,
	"1":           attendancelog.TypeOut,
	"2":           attendancelog.TypeBreakStart,
	"3":           attendancelog.TypeBreakEnd,
	"check-in":    attendancelog.TypeIn,
	"check-out":   attendancelog.TypeOut,
	"break-start": attendancelog.TypeBreakStart,
	"break-end":   attendancelog.TypeBreakEnd,
}

// ResolvePunchType maps a raw vendor status code to an internal punch type.
// The machine's own table wins over the defaults; an unknown code degrades to
// UNKNOWN instead of failing, so no raw event is ever rejected over a code.
func ResolvePunchType(overrides StatusCodeMap, code string) string {
	if t, ok := overrides[code]; ok {
		return t
	}
	if t, ok := defaultStatusCodes[code]; ok {
		return t
	}
	return attendancelog.TypeUnknown
}
