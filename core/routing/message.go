package routing

import (
	"errors"
	"fmt"
)

// Kind is the kind of access a request asks for.
type Kind string

const (
	KindGet        Kind = "GET"        // read attribute Member
	KindSet        Kind = "SET"        // write attribute Member from Args[0]
	KindInvoke     Kind = "INVOKE"     // call operation Member with Args
	KindAttributes Kind = "ATTRIBUTES" // describe the attributes of the resource
	KindOperations Kind = "OPERATIONS" // describe the operations of the resource
)

// ErrInvalidRequest is returned for requests that are malformed regardless of
// what is registered.
var ErrInvalidRequest = errors.New("invalid request")

// Request addresses a member of a published resource.
// Args hold the text form of each argument.
type Request struct {
	ID         string            `json:"id,omitempty"`
	Domain     string            `json:"domain"`
	ObjectName string            `json:"objectName"`
	Kind       Kind              `json:"kind"`
	Member     string            `json:"member,omitempty"`
	Args       []string          `json:"args,omitempty"`
	Trace      map[string]string `json:"trace,omitempty"`
}

// Validate checks the request shape.
func (r *Request) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: empty request", ErrInvalidRequest)
	}
	if r.Domain == "" || r.ObjectName == "" {
		return fmt.Errorf("%w: domain and object name are required", ErrInvalidRequest)
	}

	switch r.Kind {
	case KindGet, KindInvoke:
		if r.Member == "" {
			return fmt.Errorf("%w: %s without member", ErrInvalidRequest, r.Kind)
		}
	case KindSet:
		if r.Member == "" {
			return fmt.Errorf("%w: %s without member", ErrInvalidRequest, r.Kind)
		}
		if len(r.Args) != 1 {
			return fmt.Errorf("%w: %s takes exactly one argument, got %d", ErrInvalidRequest, r.Kind, len(r.Args))
		}
	case KindAttributes, KindOperations:
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidRequest, r.Kind)
	}

	return nil
}

// Response is the outcome of one request. Value is the text form of the
// result and is set only on success.
type Response struct {
	ID      string `json:"id,omitempty"`
	Success bool   `json:"success"`
	Value   string `json:"value,omitempty"`
	Error   *Error `json:"error,omitempty"`
}

// Success builds a successful response.
func Success(id, value string) *Response {
	return &Response{ID: id, Success: true, Value: value}
}

// Failure builds an unsuccessful response for err.
func Failure(id string, err error) *Response {
	return &Response{ID: id, Error: NewError(err)}
}

// Err returns the error of an unsuccessful response, nil otherwise.
func (r *Response) Err() error {
	if r.Success {
		return nil
	}
	if r.Error == nil {
		return &Error{Code: CodeInternal, Message: "unsuccessful response without error"}
	}
	return r.Error
}
