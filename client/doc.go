// Package client calls the resources published by a management server.
//
//	c, err := client.DialGRPC(ctx, "localhost:9490")
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
//
//	size, err := c.GetAttribute(ctx, "j256", "Cache", "size")
//	if err != nil {
//	    return err
//	}
//	n, err := client.As[int](size)
//
// Failures reported by the server keep their identity: errors.Is matches the
// sentinel errors of the resource and registry packages.
package client
