package scheduling

import (
	"errors"
	"fmt"
)

// Machine-readable error codes surfaced to API clients.
const (
	CodeNotFound            = "NOT_FOUND"
	CodePastDateSelected    = "PAST_DATE_SELECTED"
	CodeDoctorUnavailable   = "DOCTOR_UNAVAILABLE"
	CodeOverlapping         = "OVERLAPPING_APPOINTMENT"
	CodeInvalidStatusChange = "INVALID_STATUS_CHANGE"
	CodeInvalidTimeRange    = "INVALID_TIME_RANGE"
	CodeStorageFailure      = "STORAGE_FAILURE"
)

// ErrDuplicateNumber is reported by appointment stores when the unique
// constraint on the appointment number trips. Callers may retry with a
// freshly generated number.
var ErrDuplicateNumber = errors.New("appointment number already exists")

// Error is a scheduling failure carrying a stable code clients can branch on.
type Error struct {
	Code      string
	Message   string
	Retryable bool
	cause     error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// CodeOf returns the scheduling error code, or "" for foreign errors.
func CodeOf(err error) string {
	var serr *Error
	if errors.As(err, &serr) {
		return serr.Code
	}
	return ""
}

func notFound(format string, args ...interface{}) error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

func pastDate(msg string) error {
	return &Error{Code: CodePastDateSelected, Message: msg}
}

func doctorUnavailable() error {
	return &Error{Code: CodeDoctorUnavailable, Message: "doctor is not available at the selected time"}
}

func overlapping() error {
	return &Error{Code: CodeOverlapping, Message: "the selected time slot overlaps with an existing appointment"}
}

func invalidStatusChange(format string, args ...interface{}) error {
	return &Error{Code: CodeInvalidStatusChange, Message: fmt.Sprintf(format, args...)}
}

func invalidTimeRange() error {
	return &Error{Code: CodeInvalidTimeRange, Message: "start time must be before end time"}
}

func storage(err error) error {
	return &Error{Code: CodeStorageFailure, Message: "storage operation failed", Retryable: errors.Is(err, ErrDuplicateNumber), cause: err}
}
