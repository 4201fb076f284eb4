package routing

import (
	"errors"

	"github.com/anoideaopen/mbean/core/bean"
	"github.com/anoideaopen/mbean/core/registry"
	"github.com/anoideaopen/mbean/core/resource"
)

// Code names a failure on the wire.
type Code string

const (
	CodeInvalidRequest    Code = "INVALID_REQUEST"
	CodeResourceNotFound  Code = "RESOURCE_NOT_FOUND"
	CodeDuplicateResource Code = "DUPLICATE_RESOURCE"
	CodeAttributeNotFound Code = "ATTRIBUTE_NOT_FOUND"
	CodeOperationNotFound Code = "OPERATION_NOT_FOUND"
	CodeNotReadable       Code = "NOT_READABLE"
	CodeNotWritable       Code = "NOT_WRITABLE"
	CodeTypeMismatch      Code = "TYPE_MISMATCH"
	CodeInvocationFailed  Code = "INVOCATION_FAILED"
	CodeDescriptorBuild   Code = "DESCRIPTOR_BUILD"
	CodeInternal          Code = "INTERNAL"
)

// codeTable is ordered: a failed invocation may wrap any other sentinel raised
// by the invoked code, and is still an invocation failure.
var codeTable = []struct {
	code Code
	err  error
}{
	{CodeInvalidRequest, ErrInvalidRequest},
	{CodeInvocationFailed, resource.ErrInvocationFailed},
	{CodeResourceNotFound, registry.ErrResourceNotFound},
	{CodeDuplicateResource, registry.ErrDuplicateResource},
	{CodeAttributeNotFound, resource.ErrAttributeNotFound},
	{CodeOperationNotFound, resource.ErrOperationNotFound},
	{CodeNotReadable, resource.ErrNotReadable},
	{CodeNotWritable, resource.ErrNotWritable},
	{CodeTypeMismatch, resource.ErrTypeMismatch},
	{CodeDescriptorBuild, bean.ErrDescriptorBuild},
}

// CodeOf classifies err. Unknown errors are CodeInternal.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}

	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	for _, c := range codeTable {
		if errors.Is(err, c.err) {
			return c.code
		}
	}

	return CodeInternal
}

// Sentinel returns the error the code stands for, nil for CodeInternal and unknown codes.
func (c Code) Sentinel() error {
	for _, entry := range codeTable {
		if entry.code == c {
			return entry.err
		}
	}
	return nil
}

// Error is a failure as it travels on the wire.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

// NewError describes err for the wire.
func NewError(err error) *Error {
	return &Error{Code: CodeOf(err), Message: err.Error()}
}

// ErrorOf rebuilds a failure received from the wire. The result matches the
// sentinel of code with errors.Is.
func ErrorOf(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Code.Sentinel()
}
