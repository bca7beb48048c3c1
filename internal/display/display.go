package display

import (
	"context"

	"github.com/vk/barshell/internal/config"
)

// Monitor is one physical output as reported by the compositor. ID is the
// compositor's name for the output and is treated as opaque; Active marks
// the output holding input focus at enumeration time; Description is
// informational only (model/make) and never used for matching.
type Monitor struct {
	ID          string
	Active      bool
	Description string
}

// SurfaceHandle identifies one created bar surface. Opaque to the engine.
type SurfaceHandle string

// EventKind discriminates provider events.
type EventKind int

const (
	// MonitorAdded fires when the compositor reports a new output.
	MonitorAdded EventKind = iota
	// MonitorRemoved fires when an output disappears.
	MonitorRemoved
	// ActiveMonitorChanged fires when input focus moves to another output.
	ActiveMonitorChanged
	// EscapePressed fires when the Esc key reaches a surface while the
	// exclusive keyboard grab is held.
	EscapePressed
)

// String returns the event kind name for logs.
func (k EventKind) String() string {
	switch k {
	case MonitorAdded:
		return "monitor-added"
	case MonitorRemoved:
		return "monitor-removed"
	case ActiveMonitorChanged:
		return "active-monitor-changed"
	case EscapePressed:
		return "escape-pressed"
	default:
		return "unknown"
	}
}

// Event is one occurrence on the provider's stream. MonitorID is set for
// monitor events, Surface for key events.
type Event struct {
	Kind      EventKind
	MonitorID string
	Surface   SurfaceHandle
}

// KeyboardGrab toggles the exclusive keyboard grab that routes Esc to the
// open menu. Providers that cannot grab still track the requested state so
// the menu controller's bookkeeping stays observable.
type KeyboardGrab interface {
	AcquireGrab() error
	ReleaseGrab() error
}

// Provider is the display-layer collaborator the engine is assembled with.
type Provider interface {
	// EnumerateMonitors returns the current outputs. A transient failure is
	// returned as an error; the engine keeps its last-known set and retries
	// on the next trigger.
	EnumerateMonitors(ctx context.Context) ([]Monitor, error)

	// CreateSurface realizes one bar on one monitor and returns its handle.
	CreateSurface(ctx context.Context, monitor Monitor, spec *config.ResolvedBarSpec) (SurfaceHandle, error)

	// DestroySurface tears a surface down. Destroying an unknown or
	// already-destroyed handle is a no-op.
	DestroySurface(ctx context.Context, handle SurfaceHandle) error

	// Events is the provider's event stream. The channel is owned by the
	// provider and closed when the provider shuts down.
	Events() <-chan Event

	KeyboardGrab
}

// Starter is implemented by providers that need a background connection
// (event sockets) before events flow.
type Starter interface {
	Start(ctx context.Context) error
}
