package resource

import (
	"reflect"
	"strings"
)

// Identity names a published resource. Domain and ObjectName together are
// unique within a registry.
type Identity struct {
	Domain      string `json:"domain" yaml:"domain"`
	ObjectName  string `json:"objectName,omitempty" yaml:"objectName,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// String renders the identity as "domain:name=objectName".
func (id Identity) String() string {
	return id.Domain + ":name=" + id.ObjectName
}

// DefaultObjectName returns the name of the target's type with pointers
// dereferenced: "Cache" for a *Cache.
func DefaultObjectName(target any) string {
	t := reflect.TypeOf(target)
	if t == nil {
		return ""
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if name := t.Name(); name != "" {
		return name
	}
	return strings.TrimPrefix(t.String(), "*")
}
