package telemetry

import "go.opentelemetry.io/otel/attribute"

const (
	attrDomain     = "mbean.domain"
	attrObjectName = "mbean.object_name"
	attrMember     = "mbean.member"
	attrArity      = "mbean.arity"
	attrKind       = "mbean.kind"
	attrRequestID  = "mbean.request_id"
	attrErrorCode  = "mbean.error_code"
)

func Kind(kind string) attribute.KeyValue {
	return attribute.String(attrKind, kind)
}

func ErrorCode(code string) attribute.KeyValue {
	return attribute.String(attrErrorCode, code)
}

// RequestAttributes describes the resource member a request addresses.
func RequestAttributes(id, domain, objectName, member string, arity int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(attrRequestID, id),
		attribute.String(attrDomain, domain),
		attribute.String(attrObjectName, objectName),
		attribute.String(attrMember, member),
		attribute.Int(attrArity, arity),
	}
}
