package manifest

import (
	"fmt"
	"strings"
)

// Error codes
const (
	ErrCodeFileOpen       = "FILE_OPEN_ERROR"
	ErrCodeDecode         = "DECODE_ERROR"
	ErrCodeDuplicateFlow  = "DUPLICATE_FLOW_NAME"
	ErrCodeSchemaCycle    = "SCHEMA_CYCLE"
	ErrCodeMissingRuns    = "MISSING_RUNS"
	ErrCodeUnexpectedRuns = "UNEXPECTED_RUNS"
	ErrCodeInvalidType    = "INVALID_FLOW_TYPE"
)

// Error messages
const (
	ErrMsgFileOpen       = "Failed to open manifest file: %s"
	ErrMsgDecode         = "Failed to decode manifest: %s"
	ErrMsgDuplicateFlow  = "Flow %q is declared by both %q and %q: flow names must be unique across the manifest"
	ErrMsgSchemaCycle    = "Model extension cycle detected: %s"
	ErrMsgMissingRuns    = "Sync %q has no runs cadence: every sync requires one"
	ErrMsgUnexpectedRuns = "Action %q declares a runs cadence: actions run on demand"
	ErrMsgInvalidType    = "Flow %q has invalid type %q: expected sync or action"
)

// ManifestError represents errors that can occur while loading or
// normalizing the integration manifest.
type ManifestError struct {
	Message string
	Code    string
}

func (e *ManifestError) Error() string {
	return e.Message
}

// NewError creates a new ManifestError with the given code and message
func NewError(code, message string) *ManifestError {
	return &ManifestError{
		Code:    code,
		Message: message,
	}
}

// NewErrorf creates a new ManifestError with the given code and formatted message
func NewErrorf(code, format string, args ...any) *ManifestError {
	return &ManifestError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Common error constructors
func NewFileOpenError(err error) *ManifestError {
	return NewErrorf(ErrCodeFileOpen, ErrMsgFileOpen, err.Error())
}

func NewDecodeError(err error) *ManifestError {
	return NewErrorf(ErrCodeDecode, ErrMsgDecode, err.Error())
}

func NewDuplicateFlowError(flow, firstProvider, secondProvider string) *ManifestError {
	return NewErrorf(ErrCodeDuplicateFlow, ErrMsgDuplicateFlow, flow, firstProvider, secondProvider)
}

func NewSchemaCycleError(path []string) *ManifestError {
	return NewErrorf(ErrCodeSchemaCycle, ErrMsgSchemaCycle, strings.Join(path, " -> "))
}

func NewMissingRunsError(flow string) *ManifestError {
	return NewErrorf(ErrCodeMissingRuns, ErrMsgMissingRuns, flow)
}

func NewUnexpectedRunsError(flow string) *ManifestError {
	return NewErrorf(ErrCodeUnexpectedRuns, ErrMsgUnexpectedRuns, flow)
}

func NewInvalidTypeError(flow, flowType string) *ManifestError {
	return NewErrorf(ErrCodeInvalidType, ErrMsgInvalidType, flow, flowType)
}
