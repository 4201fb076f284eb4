package grpc

import (
	"errors"

	"github.com/anoideaopen/mbean/core/routing"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrorDomain marks ErrorInfo details produced by this package.
const ErrorDomain = "mbean"

var grpcCodes = map[routing.Code]codes.Code{
	routing.CodeInvalidRequest:    codes.InvalidArgument,
	routing.CodeResourceNotFound:  codes.NotFound,
	routing.CodeDuplicateResource: codes.AlreadyExists,
	routing.CodeAttributeNotFound: codes.NotFound,
	routing.CodeOperationNotFound: codes.NotFound,
	routing.CodeNotReadable:       codes.FailedPrecondition,
	routing.CodeNotWritable:       codes.FailedPrecondition,
	routing.CodeTypeMismatch:      codes.InvalidArgument,
	routing.CodeInvocationFailed:  codes.Aborted,
	routing.CodeDescriptorBuild:   codes.Internal,
	routing.CodeInternal:          codes.Internal,
}

// GRPCCode returns the status code a routing code is sent with.
func GRPCCode(code routing.Code) codes.Code {
	if c, ok := grpcCodes[code]; ok {
		return c
	}
	return codes.Unknown
}

// StatusOf converts a routing failure to a gRPC status.
func StatusOf(e *routing.Error) *status.Status {
	st := status.New(GRPCCode(e.Code), e.Message)

	detailed, err := st.WithDetails(&errdetails.ErrorInfo{
		Reason: string(e.Code),
		Domain: ErrorDomain,
	})
	if err != nil {
		return st
	}
	return detailed
}

// ErrorFromStatus recovers the routing failure sent by StatusOf. It reports
// false for errors that did not come from a management server, such as
// transport failures.
func ErrorFromStatus(err error) (*routing.Error, bool) {
	var e *routing.Error
	if errors.As(err, &e) {
		return e, true
	}

	st, ok := status.FromError(err)
	if !ok {
		return nil, false
	}

	for _, detail := range st.Details() {
		if info, ok := detail.(*errdetails.ErrorInfo); ok && info.GetDomain() == ErrorDomain {
			return &routing.Error{Code: routing.Code(info.GetReason()), Message: st.Message()}, true
		}
	}

	return nil, false
}
