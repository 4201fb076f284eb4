package grpc

import (
	"fmt"

	"github.com/anoideaopen/mbean/core/routing"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	fieldID         = "id"
	fieldDomain     = "domain"
	fieldObjectName = "objectName"
	fieldKind       = "kind"
	fieldMember     = "member"
	fieldArgs       = "args"
	fieldTrace      = "trace"
	fieldSuccess    = "success"
	fieldValue      = "value"
)

// RequestToStruct encodes req as a Struct message.
func RequestToStruct(req *routing.Request) (*structpb.Struct, error) {
	args := make([]any, len(req.Args))
	for i, arg := range req.Args {
		args[i] = arg
	}

	fields := map[string]any{
		fieldID:         req.ID,
		fieldDomain:     req.Domain,
		fieldObjectName: req.ObjectName,
		fieldKind:       string(req.Kind),
		fieldMember:     req.Member,
		fieldArgs:       args,
	}
	if len(req.Trace) > 0 {
		trace := make(map[string]any, len(req.Trace))
		for k, v := range req.Trace {
			trace[k] = v
		}
		fields[fieldTrace] = trace
	}

	return structpb.NewStruct(fields)
}

// RequestFromStruct decodes a Struct message built by RequestToStruct.
func RequestFromStruct(in *structpb.Struct) (*routing.Request, error) {
	fields := in.GetFields()

	req := &routing.Request{
		ID:         fields[fieldID].GetStringValue(),
		Domain:     fields[fieldDomain].GetStringValue(),
		ObjectName: fields[fieldObjectName].GetStringValue(),
		Kind:       routing.Kind(fields[fieldKind].GetStringValue()),
		Member:     fields[fieldMember].GetStringValue(),
	}

	for i, v := range fields[fieldArgs].GetListValue().GetValues() {
		s, ok := v.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, fmt.Errorf("%w: argument %d is not a string", routing.ErrInvalidRequest, i)
		}
		req.Args = append(req.Args, s.StringValue)
	}

	if trace := fields[fieldTrace].GetStructValue().GetFields(); len(trace) > 0 {
		req.Trace = make(map[string]string, len(trace))
		for k, v := range trace {
			req.Trace[k] = v.GetStringValue()
		}
	}

	return req, nil
}

// ResponseToStruct encodes a successful response.
func ResponseToStruct(resp *routing.Response) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		fieldID:      resp.ID,
		fieldSuccess: resp.Success,
		fieldValue:   resp.Value,
	})
}

// ResponseFromStruct decodes a Struct message built by ResponseToStruct.
func ResponseFromStruct(out *structpb.Struct) *routing.Response {
	fields := out.GetFields()

	return &routing.Response{
		ID:      fields[fieldID].GetStringValue(),
		Success: fields[fieldSuccess].GetBoolValue(),
		Value:   fields[fieldValue].GetStringValue(),
	}
}
