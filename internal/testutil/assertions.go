package testutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/barshell/internal/engine"
)

// WaitForInstances blocks until the store holds exactly n live bar
// instances, failing the test if the engine does not converge in time.
func (h *Harness) WaitForInstances(t *testing.T, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return h.App.Store().Len() == n
	}, WaitFor, Tick, "expected %d live bar instances, have %d", n, h.App.Store().Len())
}

// WaitForLog blocks until the log output contains substr. Use it for
// behavior whose only observable effect is a log line.
func (h *Harness) WaitForLog(t *testing.T, substr string) {
	t.Helper()
	require.Eventually(t, func() bool {
		return strings.Contains(h.Logs.String(), substr)
	}, WaitFor, Tick, "expected log output to contain %q", substr)
}

// Snapshot is a convenience wrapper over the engine's snapshot barrier.
func (h *Harness) Snapshot() engine.Snapshot {
	return h.App.Engine().Snapshot()
}

// InstanceOn returns the ID of the live instance bound to the given monitor,
// failing the test when the monitor carries no instance or more than one.
func (h *Harness) InstanceOn(t *testing.T, monitorID string) string {
	t.Helper()
	var found []string
	for _, inst := range h.Snapshot().Instances {
		if inst.Monitor == monitorID {
			found = append(found, inst.ID)
		}
	}
	require.Len(t, found, 1, "expected exactly one instance on monitor %q", monitorID)
	return found[0]
}
