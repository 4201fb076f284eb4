// Package routing turns management requests into calls on published resources.
//
// A [Request] names a resource by domain and object name, a member of that
// resource and the kind of access: read an attribute, write it, invoke an
// operation, or describe the resource. Arguments and results travel as text;
// [Router] decodes arguments into the types the resource declares and encodes
// results back with [github.com/anoideaopen/mbean/core/reflectx].
//
// Every failure becomes an unsuccessful [Response] carrying an [Error] whose
// [Code] names the failure. [ErrorOf] rebuilds an error on the client side
// that still matches its sentinel with errors.Is.
//
// Handler implementations include:
//   - [Router]: dispatches to resources of a registry.
//   - [github.com/anoideaopen/mbean/core/routing/mux]: combines handlers, each
//     owning a set of domains.
//
// Transports live in [github.com/anoideaopen/mbean/core/routing/grpc] and
// [github.com/anoideaopen/mbean/transport/wshub].
//
// # Example
//
//	reg := registry.New()
//	w, err := resource.New(cache, resource.Identity{Domain: "app"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err = reg.Register(w); err != nil {
//	    log.Fatal(err)
//	}
//
//	router := routing.NewRouter(reg)
//	resp := router.Route(ctx, &routing.Request{
//	    Domain:     "app",
//	    ObjectName: "Cache",
//	    Kind:       routing.KindSet,
//	    Member:     "maxSize",
//	    Args:       []string{"1024"},
//	})
package routing
