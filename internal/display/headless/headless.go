// Package headless provides an in-memory display.Provider. It backs the
// test suites and lets the daemon run against no compositor at all, which
// is also how reconciliation behavior can be inspected on a development
// machine: surfaces are bookkeeping entries, events are injected by hand.
package headless

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/vk/barshell/internal/config"
	"github.com/vk/barshell/internal/display"
)

// Surface is one recorded surface binding.
type Surface struct {
	Handle  display.SurfaceHandle
	Monitor string
	SpecID  string
}

// Provider implements display.Provider entirely in memory.
type Provider struct {
	mu           sync.Mutex
	monitors     []display.Monitor
	surfaces     map[display.SurfaceHandle]Surface
	enumerateErr error
	grabbed      bool
	grabCount    int
	releaseCount int
	createCount  int
	destroyCount int
	closed       bool

	events chan display.Event
}

// New returns an empty provider with no monitors attached.
func New(monitors ...display.Monitor) *Provider {
	return &Provider{
		monitors: monitors,
		surfaces: make(map[display.SurfaceHandle]Surface),
		events:   make(chan display.Event, 64),
	}
}

// EnumerateMonitors returns the current monitor list, or the injected error.
func (p *Provider) EnumerateMonitors(ctx context.Context) ([]display.Monitor, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.enumerateErr != nil {
		return nil, p.enumerateErr
	}
	out := make([]display.Monitor, len(p.monitors))
	copy(out, p.monitors)
	return out, nil
}

// CreateSurface mints a handle and records the binding.
func (p *Provider) CreateSurface(ctx context.Context, monitor display.Monitor, spec *config.ResolvedBarSpec) (display.SurfaceHandle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	handle := display.SurfaceHandle(uuid.NewString())
	p.surfaces[handle] = Surface{
		Handle:  handle,
		Monitor: monitor.ID,
		SpecID:  spec.Fingerprint,
	}
	p.createCount++
	return handle, nil
}

// DestroySurface forgets the binding. Unknown handles are a no-op.
func (p *Provider) DestroySurface(ctx context.Context, handle display.SurfaceHandle) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.surfaces[handle]; ok {
		delete(p.surfaces, handle)
		p.destroyCount++
	}
	return nil
}

// Events returns the injectable event stream.
func (p *Provider) Events() <-chan display.Event {
	return p.events
}

// AcquireGrab records the grab as held.
func (p *Provider) AcquireGrab() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.grabbed = true
	p.grabCount++
	return nil
}

// ReleaseGrab records the grab as released.
func (p *Provider) ReleaseGrab() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.grabbed = false
	p.releaseCount++
	return nil
}

// Close closes the event stream. Further injections panic, matching the
// contract that providers stop producing once shut down.
func (p *Provider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.events)
	}
}

// --- test and inspection hooks ---

// AddMonitor attaches a monitor and emits the hotplug event.
func (p *Provider) AddMonitor(m display.Monitor) {
	p.mu.Lock()
	p.monitors = append(p.monitors, m)
	p.mu.Unlock()
	p.events <- display.Event{Kind: display.MonitorAdded, MonitorID: m.ID}
}

// RemoveMonitor detaches a monitor by ID and emits the unplug event.
func (p *Provider) RemoveMonitor(id string) {
	p.mu.Lock()
	kept := p.monitors[:0]
	for _, m := range p.monitors {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	p.monitors = kept
	p.mu.Unlock()
	p.events <- display.Event{Kind: display.MonitorRemoved, MonitorID: id}
}

// SetActiveMonitor moves focus to the named monitor and emits the event.
func (p *Provider) SetActiveMonitor(id string) {
	p.mu.Lock()
	for i := range p.monitors {
		p.monitors[i].Active = p.monitors[i].ID == id
	}
	p.mu.Unlock()
	p.events <- display.Event{Kind: display.ActiveMonitorChanged, MonitorID: id}
}

// PressEscape delivers an Esc key event to the given surface.
func (p *Provider) PressEscape(handle display.SurfaceHandle) {
	p.events <- display.Event{Kind: display.EscapePressed, Surface: handle}
}

// SetEnumerateError injects a transient enumeration failure; nil clears it.
func (p *Provider) SetEnumerateError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enumerateErr = err
}

// Surfaces returns a snapshot of the live surface bindings.
func (p *Provider) Surfaces() []Surface {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Surface, 0, len(p.surfaces))
	for _, s := range p.surfaces {
		out = append(out, s)
	}
	return out
}

// SurfaceFor returns the handle bound to the given monitor, if any.
func (p *Provider) SurfaceFor(monitorID string) (display.SurfaceHandle, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for handle, s := range p.surfaces {
		if s.Monitor == monitorID {
			return handle, true
		}
	}
	return "", false
}

// GrabActive reports whether the grab is currently held.
func (p *Provider) GrabActive() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.grabbed
}

// Counts returns (creates, destroys, grabs, releases) observed so far.
func (p *Provider) Counts() (int, int, int, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.createCount, p.destroyCount, p.grabCount, p.releaseCount
}
