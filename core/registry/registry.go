package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/anoideaopen/mbean/core/resource"
)

var (
	ErrDuplicateResource = errors.New("resource already registered")
	ErrResourceNotFound  = errors.New("resource not found")
)

type key struct {
	domain string
	name   string
}

// Registry maps (domain, object name) to published wrappers.
// The lock is never held while a wrapper is called.
type Registry struct {
	mu        sync.RWMutex
	resources map[key]*resource.Wrapper
}

func New() *Registry {
	return &Registry{
		resources: make(map[key]*resource.Wrapper),
	}
}

// Register publishes w under its identity.
func (r *Registry) Register(w *resource.Wrapper) error {
	id := w.Identity()
	k := key{domain: id.Domain, name: id.ObjectName}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.resources[k]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateResource, id)
	}
	r.resources[k] = w

	return nil
}

// Unregister removes the resource published under id. Only the domain and
// object name of id are used. Removing an absent resource is an error.
func (r *Registry) Unregister(id resource.Identity) error {
	k := key{domain: id.Domain, name: id.ObjectName}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.resources[k]; !ok {
		return fmt.Errorf("%w: %s", ErrResourceNotFound, id)
	}
	delete(r.resources, k)

	return nil
}

// UnregisterWrapper removes the resource published by w.
func (r *Registry) UnregisterWrapper(w *resource.Wrapper) error {
	return r.Unregister(w.Identity())
}

// Lookup returns the wrapper published under (domain, name).
func (r *Registry) Lookup(domain, name string) (*resource.Wrapper, error) {
	r.mu.RLock()
	w, ok := r.resources[key{domain: domain, name: name}]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s:name=%s", ErrResourceNotFound, domain, name)
	}
	return w, nil
}

// Len returns the number of published resources.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.resources)
}

// Clear removes every resource and returns how many there were.
func (r *Registry) Clear() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.resources)
	r.resources = make(map[key]*resource.Wrapper)

	return n
}
