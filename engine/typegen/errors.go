package typegen

import (
	"fmt"
)

// Error codes
const (
	ErrCodeEncode = "TYPEGEN_ENCODE_ERROR"
	ErrCodeRender = "TYPEGEN_RENDER_ERROR"
	ErrCodeWrite  = "TYPEGEN_WRITE_ERROR"
)

// Error messages
const (
	ErrMsgEncode = "Failed to encode flow configuration: %s"
	ErrMsgRender = "Failed to render declarations: %s"
	ErrMsgWrite  = "Failed to write %s: %s"
)

// TypegenError represents a failure while producing the declarations file.
type TypegenError struct {
	Message string
	Code    string
}

func (e *TypegenError) Error() string {
	return e.Message
}

// NewErrorf creates a new TypegenError with the given code and formatted message
func NewErrorf(code, format string, args ...any) *TypegenError {
	return &TypegenError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

func NewEncodeError(err error) *TypegenError {
	return NewErrorf(ErrCodeEncode, ErrMsgEncode, err.Error())
}

func NewRenderError(err error) *TypegenError {
	return NewErrorf(ErrCodeRender, ErrMsgRender, err.Error())
}

func NewWriteError(path string, err error) *TypegenError {
	return NewErrorf(ErrCodeWrite, ErrMsgWrite, path, err.Error())
}
