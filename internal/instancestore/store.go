package instancestore

import (
	"sort"
	"sync"

	"github.com/vk/barshell/internal/barid"
	"github.com/vk/barshell/internal/config"
	"github.com/vk/barshell/internal/display"
)

// Instance is one live, rendered bar: its identity, its monitor binding,
// the surface handle the display layer returned, and the spec it currently
// owns. The identity never changes; the spec may be refreshed in place.
type Instance struct {
	Address barid.Address
	Monitor display.Monitor
	Surface display.SurfaceHandle

	mu   sync.RWMutex
	spec config.ResolvedBarSpec
}

// NewInstance binds a resolved spec to a monitor and its created surface.
func NewInstance(addr barid.Address, monitor display.Monitor, surface display.SurfaceHandle, spec config.ResolvedBarSpec) *Instance {
	return &Instance{
		Address: addr,
		Monitor: monitor,
		Surface: surface,
		spec:    spec,
	}
}

// Spec returns a copy of the currently owned spec.
func (i *Instance) Spec() config.ResolvedBarSpec {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.spec
}

// RefreshSpec replaces the owned spec. Called when a reload changed the
// content an unchanged definition inherits; the surface observes the new
// spec through the instance, no destroy/recreate happens.
func (i *Instance) RefreshSpec(spec config.ResolvedBarSpec) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.spec = spec
}

// Store is the concurrent instance table, keyed by canonical address.
type Store struct {
	instances sync.Map // Key: address string, Value: *Instance
}

// New creates an empty store.
func New() *Store {
	return &Store{}
}

// Put registers an instance. Returns false when the address was already
// present, which reconciliation treats as a duplicate-identity defect.
func (s *Store) Put(inst *Instance) bool {
	_, loaded := s.instances.LoadOrStore(inst.Address.String(), inst)
	return !loaded
}

// Get retrieves an instance by address.
func (s *Store) Get(addr barid.Address) (*Instance, bool) {
	v, ok := s.instances.Load(addr.String())
	if !ok {
		return nil, false
	}
	return v.(*Instance), true
}

// Delete removes an instance. Returns false when it was already gone, so
// teardown stays observably idempotent.
func (s *Store) Delete(addr barid.Address) bool {
	_, ok := s.instances.LoadAndDelete(addr.String())
	return ok
}

// BySurface finds the instance owning the given surface handle.
func (s *Store) BySurface(handle display.SurfaceHandle) (*Instance, bool) {
	var found *Instance
	s.instances.Range(func(_, v any) bool {
		inst := v.(*Instance)
		if inst.Surface == handle {
			found = inst
			return false
		}
		return true
	})
	return found, found != nil
}

// All returns every instance, ordered by canonical address for
// deterministic iteration and reporting.
func (s *Store) All() []*Instance {
	var out []*Instance
	s.instances.Range(func(_, v any) bool {
		out = append(out, v.(*Instance))
		return true
	})
	sort.Slice(out, func(a, b int) bool {
		return out[a].Address.String() < out[b].Address.String()
	})
	return out
}

// Len reports the number of live instances.
func (s *Store) Len() int {
	n := 0
	s.instances.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
