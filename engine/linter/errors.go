package linter

import (
	"fmt"
)

// Error codes
const (
	ErrCodeTransform = "SCRIPT_TRANSFORM_ERROR"
	ErrCodeParse     = "SCRIPT_PARSE_ERROR"
)

// Error messages
const (
	ErrMsgTransform = "Failed to strip types from %s: %s"
	ErrMsgParse     = "Failed to parse %s: %s"
)

// LintError represents a fatal per-script failure: the source could not be
// turned into an AST at all.
type LintError struct {
	Message string
	Code    string
}

func (e *LintError) Error() string {
	return e.Message
}

// NewErrorf creates a new LintError with the given code and formatted message
func NewErrorf(code, format string, args ...any) *LintError {
	return &LintError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

func NewTransformError(path, detail string) *LintError {
	return NewErrorf(ErrCodeTransform, ErrMsgTransform, path, detail)
}

func NewParseError(path string, err error) *LintError {
	return NewErrorf(ErrCodeParse, ErrMsgParse, path, err.Error())
}
