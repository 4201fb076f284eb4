// Package core runs a management server: a registry of published resources,
// the request router in front of it, and the gRPC and WebSocket listeners
// that expose the router to remote clients.
//
// A typical program publishes its objects and starts the server:
//
//	cfg, err := config.Load(os.Getenv("MBEAN_CONFIG"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	srv, err := core.NewServer(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if _, err = srv.Publish(cache, resource.Identity{Domain: "billing"}); err != nil {
//	    log.Fatal(err)
//	}
//	if err = srv.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer srv.Stop(context.Background())
//
// The domain "mbean" is reserved for resources of the server itself; the
// server publishes mbean:name=Server describing its build and uptime.
package core
