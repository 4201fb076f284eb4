/*
Package bean derives the management model of a Go type.

Every exported method of the type's method set is classified as an attribute
accessor or as an operation:

	GetX() T, GetX() (T, error)        getter of attribute "x"
	IsX() bool, IsX() (bool, error)    getter of attribute "x"
	SetX(v T), SetX(v T) error         setter of attribute "x"
	anything else                      operation, keyed by (name, arity)

A prefix counts only when the rune after it is not lower-case, so Issue,
Getaway and Settle are operations, and so are Get, Is and Set themselves.
Remote names have their first rune lower-cased.

Go has no overloading. A method name may carry a variant suffix after the
first underscore, which is dropped before classification:

	func (o *Object) ResetFoo()            // operation "resetFoo", arity 0
	func (o *Object) ResetFoo_To(v int)    // operation "resetFoo", arity 1

A leading context.Context parameter of an operation is supplied by the caller
of Invoke and does not count towards the arity.

Exported struct fields, promoted ones included, are read-only attributes. The
"mbean" tag renames a field, makes it writable, or hides it:

	type Object struct {
		Hits    int                              // read-only "hits"
		Limit   int    `mbean:"maxHits,writable"` // read-write "maxHits"
		Secret  string `mbean:"-"`               // not published
	}

Method accessors replace field accessors of the same attribute. Models are
immutable once built and cached per reflect.Type, see ModelOf.
*/
package bean
