package resource

import "errors"

var (
	ErrInvalidIdentity   = errors.New("invalid resource identity")
	ErrAttributeNotFound = errors.New("attribute not found")
	ErrOperationNotFound = errors.New("operation not found")
	ErrNotReadable       = errors.New("attribute is not readable")
	ErrNotWritable       = errors.New("attribute is not writable")
	ErrTypeMismatch      = errors.New("type mismatch")
	ErrInvocationFailed  = errors.New("reflective invocation failed")
)
