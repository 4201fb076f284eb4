package registry

import (
	"fmt"
	"sync"
	"testing"

	"github.com/anoideaopen/mbean/core/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter struct {
	n int
}

func (c *counter) GetN() int { return c.n }

func wrap(t *testing.T, domain, name string) *resource.Wrapper {
	t.Helper()

	w, err := resource.New(&counter{}, resource.Identity{Domain: domain, ObjectName: name})
	require.NoError(t, err)
	return w
}

func TestRegisterLookup(t *testing.T) {
	r := New()
	w := wrap(t, "app", "Counter")

	require.NoError(t, r.Register(w))
	assert.Equal(t, 1, r.Len())

	got, err := r.Lookup("app", "Counter")
	require.NoError(t, err)
	assert.Same(t, w, got)

	_, err = r.Lookup("app", "Other")
	require.ErrorIs(t, err, ErrResourceNotFound)
	_, err = r.Lookup("other", "Counter")
	require.ErrorIs(t, err, ErrResourceNotFound)
}

func TestRegisterDuplicate(t *testing.T) {
	r := New()
	first := wrap(t, "app", "Counter")
	require.NoError(t, r.Register(first))

	err := r.Register(wrap(t, "app", "Counter"))
	require.ErrorIs(t, err, ErrDuplicateResource)

	got, err := r.Lookup("app", "Counter")
	require.NoError(t, err)
	assert.Same(t, first, got)

	require.NoError(t, r.Register(wrap(t, "other", "Counter")))
	assert.Equal(t, 2, r.Len())
}

func TestUnregister(t *testing.T) {
	r := New()
	w := wrap(t, "app", "Counter")
	require.NoError(t, r.Register(w))

	require.NoError(t, r.Unregister(resource.Identity{Domain: "app", ObjectName: "Counter", Description: "ignored"}))
	_, err := r.Lookup("app", "Counter")
	require.ErrorIs(t, err, ErrResourceNotFound)

	require.ErrorIs(t, r.Unregister(w.Identity()), ErrResourceNotFound)

	require.NoError(t, r.Register(w))
	require.NoError(t, r.UnregisterWrapper(w))
	assert.Equal(t, 0, r.Len())
}

func TestClear(t *testing.T) {
	r := New()
	for i := 0; i < 3; i++ {
		require.NoError(t, r.Register(wrap(t, "app", fmt.Sprintf("Counter%d", i))))
	}

	assert.Equal(t, 3, r.Clear())
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, 0, r.Clear())
}

func TestConcurrentAccess(t *testing.T) {
	r := New()
	wrappers := make([]*resource.Wrapper, 50)
	for i := range wrappers {
		wrappers[i] = wrap(t, "app", fmt.Sprintf("Counter%d", i))
	}

	var wg sync.WaitGroup
	for _, w := range wrappers {
		wg.Add(1)
		go func(w *resource.Wrapper) {
			defer wg.Done()
			assert.NoError(t, r.Register(w))
			got, err := r.Lookup(w.Identity().Domain, w.Identity().ObjectName)
			assert.NoError(t, err)
			assert.Same(t, w, got)
		}(w)
	}
	wg.Wait()

	assert.Equal(t, len(wrappers), r.Len())
}
