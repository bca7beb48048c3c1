package hypr

import (
	"bufio"
	"io"
	"strings"

	"github.com/vk/barshell/internal/display"
)

// readEventLines feeds each newline-delimited record to fn until the reader
// fails or closes.
func readEventLines(r io.Reader, fn func(string)) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			fn(line)
		}
	}
}

// parseEventLine maps one `event>>payload` record to a display event. Only
// the events that drive reconciliation are surfaced; everything else is
// dropped here.
func parseEventLine(line string) (display.Event, bool) {
	name, payload, found := strings.Cut(line, ">>")
	if !found {
		return display.Event{}, false
	}

	switch name {
	case "monitoradded":
		return display.Event{Kind: display.MonitorAdded, MonitorID: payload}, true
	case "monitorremoved":
		return display.Event{Kind: display.MonitorRemoved, MonitorID: payload}, true
	case "focusedmon":
		// Payload is "<monitor>,<workspace>"; only the monitor matters here.
		monitor, _, _ := strings.Cut(payload, ",")
		return display.Event{Kind: display.ActiveMonitorChanged, MonitorID: monitor}, true
	default:
		return display.Event{}, false
	}
}
