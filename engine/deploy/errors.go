package deploy

import (
	"fmt"
)

// Error codes
const (
	ErrCodeCadence  = "DEPLOY_CADENCE_ERROR"
	ErrCodeSchema   = "DEPLOY_SCHEMA_ERROR"
	ErrCodeRequest  = "DEPLOY_REQUEST_ERROR"
	ErrCodeResponse = "DEPLOY_RESPONSE_ERROR"
)

// Error messages
const (
	ErrMsgCadence  = "Sync %s has an undeployable cadence: %s"
	ErrMsgSchema   = "Failed to encode model schema for %s: %s"
	ErrMsgRequest  = "Deploy request failed: %s"
	ErrMsgResponse = "Deploy rejected with status %d: %s"
)

// DeployError represents a packaging or upload failure.
type DeployError struct {
	Message string
	Code    string
}

func (e *DeployError) Error() string {
	return e.Message
}

// NewErrorf creates a new DeployError with the given code and formatted message
func NewErrorf(code, format string, args ...any) *DeployError {
	return &DeployError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

func NewCadenceError(flow string, err error) *DeployError {
	return NewErrorf(ErrCodeCadence, ErrMsgCadence, flow, err.Error())
}

func NewSchemaError(flow string, err error) *DeployError {
	return NewErrorf(ErrCodeSchema, ErrMsgSchema, flow, err.Error())
}

func NewRequestError(err error) *DeployError {
	return NewErrorf(ErrCodeRequest, ErrMsgRequest, err.Error())
}

func NewResponseError(status int, body string) *DeployError {
	return NewErrorf(ErrCodeResponse, ErrMsgResponse, status, body)
}
