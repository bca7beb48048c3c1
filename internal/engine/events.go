package engine

import (
	"github.com/vk/barshell/internal/config"
	"github.com/vk/barshell/internal/display"
)

// eventKind discriminates reconciliation triggers on the engine queue.
type eventKind int

const (
	eventReload eventKind = iota
	eventMonitorAdded
	eventMonitorRemoved
	eventActiveChanged
	eventEscape
	eventSnapshot
)

// String returns the trigger name for logs.
func (k eventKind) String() string {
	switch k {
	case eventReload:
		return "config-reload"
	case eventMonitorAdded:
		return "monitor-added"
	case eventMonitorRemoved:
		return "monitor-removed"
	case eventActiveChanged:
		return "active-changed"
	case eventEscape:
		return "escape"
	case eventSnapshot:
		return "snapshot"
	default:
		return "unknown"
	}
}

// event is one entry on the engine queue. Exactly the fields relevant to
// its kind are set: model for reloads, monitor for hotplug and focus
// events, surface for key events, reply for snapshot requests.
type event struct {
	kind    eventKind
	model   *config.Model
	monitor string
	surface display.SurfaceHandle
	reply   chan Snapshot
}

// fromDisplay translates a provider event into an engine queue event.
func fromDisplay(ev display.Event) (event, bool) {
	switch ev.Kind {
	case display.MonitorAdded:
		return event{kind: eventMonitorAdded, monitor: ev.MonitorID}, true
	case display.MonitorRemoved:
		return event{kind: eventMonitorRemoved, monitor: ev.MonitorID}, true
	case display.ActiveMonitorChanged:
		return event{kind: eventActiveChanged, monitor: ev.MonitorID}, true
	case display.EscapePressed:
		return event{kind: eventEscape, surface: ev.Surface}, true
	default:
		return event{}, false
	}
}
