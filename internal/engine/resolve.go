package engine

import (
	"strings"

	"github.com/vk/barshell/internal/config"
	"github.com/vk/barshell/internal/display"
)

// resolveOutputs maps the configured output selector onto the enumerated
// monitor set. The returned monitors preserve enumeration order and contain
// no duplicates even when several targets match the same monitor. The
// second return value lists targets that matched nothing; the caller logs
// them as warnings, they are not errors.
//
// Target matching is a case-sensitive substring test against the monitor
// ID, so "DP-" selects every DisplayPort output. An empty result is a valid
// resolution: bars are simply absent until a matching monitor appears.
func resolveOutputs(sel config.OutputSelector, monitors []display.Monitor) ([]display.Monitor, []string) {
	switch sel.Kind {
	case config.SelectAll:
		return monitors, nil

	case config.SelectActive:
		for _, mon := range monitors {
			if mon.Active {
				return []display.Monitor{mon}, nil
			}
		}
		return nil, nil

	case config.SelectTargets:
		matched := make([]display.Monitor, 0, len(monitors))
		taken := make(map[string]bool, len(monitors))
		hit := make([]bool, len(sel.Targets))
		for _, mon := range monitors {
			for i, target := range sel.Targets {
				if !strings.Contains(mon.ID, target) {
					continue
				}
				hit[i] = true
				if !taken[mon.ID] {
					taken[mon.ID] = true
					matched = append(matched, mon)
				}
			}
		}
		var unmatched []string
		for i, target := range sel.Targets {
			if !hit[i] {
				unmatched = append(unmatched, target)
			}
		}
		return matched, unmatched

	default:
		return nil, nil
	}
}
