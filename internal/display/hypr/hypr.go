// Package hypr implements display.Provider over Hyprland's IPC sockets.
//
// Monitor enumeration goes through the request socket (`.socket.sock`,
// one request per connection, `j/monitors` returns JSON); hotplug and
// focus events stream from the event socket (`.socket2.sock`) as
// newline-delimited `event>>payload` records. Surface creation is
// bookkeeping plus logging here: the actual layer-shell rendering is the
// renderer collaborator's job, and Hyprland exposes no per-surface key
// events over IPC, so this provider never emits EscapePressed.
package hypr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vk/barshell/internal/config"
	"github.com/vk/barshell/internal/display"
)

// reconnectDelay spaces out event-socket redials after a read failure.
const reconnectDelay = time.Second

// Provider talks to a running Hyprland instance.
type Provider struct {
	logger      *slog.Logger
	requestPath string
	eventsPath  string

	mu       sync.Mutex
	surfaces map[display.SurfaceHandle]string // handle -> monitor ID
	grabbed  bool

	events chan display.Event
}

// New locates the Hyprland IPC sockets from the environment. It fails when
// no Hyprland instance signature is present.
func New(logger *slog.Logger) (*Provider, error) {
	sig := os.Getenv("HYPRLAND_INSTANCE_SIGNATURE")
	if sig == "" {
		return nil, errors.New("HYPRLAND_INSTANCE_SIGNATURE is not set; is Hyprland running?")
	}

	dir := socketDir(sig)
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("hyprland socket directory not found: %w", err)
	}

	return &Provider{
		logger:      logger.With("component", "hypr"),
		requestPath: filepath.Join(dir, ".socket.sock"),
		eventsPath:  filepath.Join(dir, ".socket2.sock"),
		surfaces:    make(map[display.SurfaceHandle]string),
		events:      make(chan display.Event, 64),
	}, nil
}

// socketDir returns the runtime directory for the given instance signature,
// preferring the XDG location and falling back to the legacy /tmp layout.
func socketDir(sig string) string {
	if runtime := os.Getenv("XDG_RUNTIME_DIR"); runtime != "" {
		dir := filepath.Join(runtime, "hypr", sig)
		if _, err := os.Stat(dir); err == nil {
			return dir
		}
	}
	return filepath.Join("/tmp", "hypr", sig)
}

// hyprMonitor mirrors the fields of `hyprctl -j monitors` this provider reads.
type hyprMonitor struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Focused     bool   `json:"focused"`
}

// EnumerateMonitors queries the request socket for the live output list.
func (p *Provider) EnumerateMonitors(ctx context.Context) ([]display.Monitor, error) {
	raw, err := p.request(ctx, "j/monitors")
	if err != nil {
		return nil, fmt.Errorf("hyprland monitor enumeration failed: %w", err)
	}
	return parseMonitors(raw)
}

// parseMonitors decodes the `j/monitors` JSON payload.
func parseMonitors(raw []byte) ([]display.Monitor, error) {
	var reported []hyprMonitor
	if err := json.Unmarshal(raw, &reported); err != nil {
		return nil, fmt.Errorf("unexpected monitor payload: %w", err)
	}

	monitors := make([]display.Monitor, 0, len(reported))
	for _, m := range reported {
		monitors = append(monitors, display.Monitor{
			ID:          m.Name,
			Active:      m.Focused,
			Description: m.Description,
		})
	}
	return monitors, nil
}

// request performs one command round-trip on the request socket. Hyprland
// answers and closes, so the response is a read-to-EOF.
func (p *Provider) request(ctx context.Context, command string) ([]byte, error) {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "unix", p.requestPath)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	if _, err := conn.Write([]byte(command)); err != nil {
		return nil, err
	}
	return io.ReadAll(conn)
}

// CreateSurface records the binding and hands the monitor to the renderer.
func (p *Provider) CreateSurface(ctx context.Context, monitor display.Monitor, spec *config.ResolvedBarSpec) (display.SurfaceHandle, error) {
	handle := display.SurfaceHandle(uuid.NewString())

	p.mu.Lock()
	p.surfaces[handle] = monitor.ID
	p.mu.Unlock()

	p.logger.Info("Surface created.", "monitor", monitor.ID, "position", spec.Position, "handle", handle)
	return handle, nil
}

// DestroySurface forgets the binding. Unknown handles are a no-op.
func (p *Provider) DestroySurface(ctx context.Context, handle display.SurfaceHandle) error {
	p.mu.Lock()
	monitor, ok := p.surfaces[handle]
	if ok {
		delete(p.surfaces, handle)
	}
	p.mu.Unlock()

	if ok {
		p.logger.Info("Surface destroyed.", "monitor", monitor, "handle", handle)
	}
	return nil
}

// Events returns the compositor event stream.
func (p *Provider) Events() <-chan display.Event {
	return p.events
}

// AcquireGrab records the exclusive keyboard grab as requested. The grab is
// applied per-surface by the renderer; the provider tracks the state.
func (p *Provider) AcquireGrab() error {
	p.mu.Lock()
	p.grabbed = true
	p.mu.Unlock()
	p.logger.Debug("Keyboard grab acquired.")
	return nil
}

// ReleaseGrab records the grab as released.
func (p *Provider) ReleaseGrab() error {
	p.mu.Lock()
	p.grabbed = false
	p.mu.Unlock()
	p.logger.Debug("Keyboard grab released.")
	return nil
}

// Start connects to the event socket and pumps compositor events until the
// context is cancelled. Read failures trigger a redial with backoff; the
// event channel is closed once the context ends.
func (p *Provider) Start(ctx context.Context) error {
	conn, err := p.dialEvents(ctx)
	if err != nil {
		return fmt.Errorf("hyprland event socket unavailable: %w", err)
	}

	go p.pump(ctx, conn)
	return nil
}

func (p *Provider) dialEvents(ctx context.Context) (net.Conn, error) {
	var dialer net.Dialer
	return dialer.DialContext(ctx, "unix", p.eventsPath)
}

func (p *Provider) pump(ctx context.Context, conn net.Conn) {
	defer close(p.events)

	// Unblock the reader when the context ends.
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		readEventLines(conn, func(line string) {
			event, ok := parseEventLine(line)
			if !ok {
				return
			}
			p.logger.Debug("Compositor event.", "kind", event.Kind.String(), "monitor", event.MonitorID)
			select {
			case p.events <- event:
			case <-ctx.Done():
			}
		})

		if ctx.Err() != nil {
			return
		}

		p.logger.Warn("Event socket read ended, reconnecting.", "delay", reconnectDelay)
		select {
		case <-time.After(reconnectDelay):
		case <-ctx.Done():
			return
		}

		next, err := p.dialEvents(ctx)
		if err != nil {
			p.logger.Error("Event socket redial failed.", "error", err)
			return
		}
		conn = next
		go func() {
			<-ctx.Done()
			next.Close()
		}()
	}
}
