// Package grpc carries management requests over gRPC.
//
// The service has a single unary method, /mbean.v1.ManagementService/Route.
// Requests and responses are google.protobuf.Struct messages, so no generated
// code is needed on either side:
//
//	request:  {"id": "...", "domain": "j256", "objectName": "Cache",
//	           "kind": "INVOKE", "member": "resize", "args": ["1024"],
//	           "trace": {"traceparent": "..."}}
//	response: {"id": "...", "success": true, "value": "1024"}
//
// A failed request is returned as a gRPC status. The status code gives the
// broad category and an errdetails.ErrorInfo with domain "mbean" carries the
// exact [github.com/anoideaopen/mbean/core/routing.Code] as its reason:
//
//	RESOURCE_NOT_FOUND, ATTRIBUTE_NOT_FOUND, OPERATION_NOT_FOUND  NotFound
//	DUPLICATE_RESOURCE                                           AlreadyExists
//	NOT_READABLE, NOT_WRITABLE                                   FailedPrecondition
//	TYPE_MISMATCH, INVALID_REQUEST                               InvalidArgument
//	INVOCATION_FAILED                                            Aborted
//	DESCRIPTOR_BUILD, INTERNAL                                   Internal
//
// Server side, [Register] installs the service on any grpc.ServiceRegistrar.
// Client side, [Invoke] sends one request over any grpc.ClientConnInterface.
package grpc
