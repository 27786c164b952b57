package interval

import (
	"errors"
	"fmt"
)

// Error codes
const (
	ErrCodeInvalid  = "INTERVAL_INVALID"
	ErrCodeTooShort = "INTERVAL_TOO_SHORT"
)

// Error messages
const (
	ErrMsgInvalid  = "invalid sync interval %q: expected a named cadence or \"every <duration>\""
	ErrMsgTooShort = "sync interval %q is too short: the minimum interval is 5 minutes"
)

// Error represents a cadence resolution failure.
type Error struct {
	Message string
	Code    string
}

func (e *Error) Error() string {
	return e.Message
}

// NewInvalidError creates an Error for cadence text that cannot be parsed.
func NewInvalidError(cadence string) *Error {
	return &Error{Code: ErrCodeInvalid, Message: fmt.Sprintf(ErrMsgInvalid, cadence)}
}

// NewTooShortError creates an Error for an interval below the minimum.
func NewTooShortError(cadence string) *Error {
	return &Error{Code: ErrCodeTooShort, Message: fmt.Sprintf(ErrMsgTooShort, cadence)}
}

// IsTooShort reports whether err is an interval-too-short failure.
func IsTooShort(err error) bool {
	var ie *Error
	return errors.As(err, &ie) && ie.Code == ErrCodeTooShort
}

// IsInvalid reports whether err is an unparseable-cadence failure.
func IsInvalid(err error) bool {
	var ie *Error
	return errors.As(err, &ie) && ie.Code == ErrCodeInvalid
}
