// Package mux provides a multiplexer that lets several
// [github.com/anoideaopen/mbean/core/routing.Handler] instances serve one
// transport. Each handler owns a set of domains; requests for any other
// domain go to the fallback handler.
//
// The management server uses it to keep its own resources in a registry of
// their own, apart from the resources published by the application.
//
// Example usage:
//
//	system := routing.NewRouter(systemRegistry)
//	app := routing.NewRouter(appRegistry)
//
//	m := mux.NewRouter(app)
//	if err := m.Handle("mbean", system); err != nil {
//	    log.Fatal(err)
//	}
//
//	resp := m.Route(ctx, req)
//
// # Error Handling
//
// Registering a domain twice fails with ErrDomainAlreadyDefined. A request for
// a domain no handler owns, with no fallback set, is answered with a failure
// wrapping ErrUnsupportedDomain, which the wire reports as a missing resource.
package mux
