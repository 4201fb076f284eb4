package mux

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/anoideaopen/mbean/core/registry"
	"github.com/anoideaopen/mbean/core/routing"
)

var (
	// ErrDomainAlreadyDefined is returned when a domain already has a handler.
	ErrDomainAlreadyDefined = errors.New("domain has already defined")

	// ErrUnsupportedDomain is returned when no handler serves a domain.
	ErrUnsupportedDomain = errors.New("unsupported domain")
)

// Router is a multiplexer that routes requests to handlers by domain.
type Router struct {
	mu       sync.RWMutex
	domains  map[string]routing.Handler // Domain -> Handler
	fallback routing.Handler
}

// NewRouter creates a Router sending requests of unknown domains to fallback,
// which may be nil.
func NewRouter(fallback routing.Handler) *Router {
	return &Router{
		domains:  make(map[string]routing.Handler),
		fallback: fallback,
	}
}

// Handle makes h the handler of domain.
func (r *Router) Handle(domain string, h routing.Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.domains[domain]; ok {
		return fmt.Errorf("%w: %s", ErrDomainAlreadyDefined, domain)
	}
	r.domains[domain] = h

	return nil
}

// Owns reports whether domain has a handler of its own.
func (r *Router) Owns(domain string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.domains[domain]
	return ok
}

// Domains returns the domains with a handler of their own, sorted.
func (r *Router) Domains() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	domains := make([]string, 0, len(r.domains))
	for d := range r.domains {
		domains = append(domains, d)
	}
	sort.Strings(domains)

	return domains
}

// Route passes req to the handler owning its domain.
func (r *Router) Route(ctx context.Context, req *routing.Request) *routing.Response {
	if err := req.Validate(); err != nil {
		id := ""
		if req != nil {
			id = req.ID
		}
		return routing.Failure(id, err)
	}

	r.mu.RLock()
	h, ok := r.domains[req.Domain]
	r.mu.RUnlock()

	if !ok {
		h = r.fallback
	}
	if h == nil {
		return routing.Failure(req.ID, fmt.Errorf("%w: %w: %s", registry.ErrResourceNotFound, ErrUnsupportedDomain, req.Domain))
	}

	return h.Route(ctx, req)
}
