package menu

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/vk/barshell/internal/barid"
)

// fakeGrab counts grab transitions and can simulate display-layer failure.
type fakeGrab struct {
	mu       sync.Mutex
	acquires int
	releases int
	fail     bool
}

func (g *fakeGrab) AcquireGrab() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.acquires++
	if g.fail {
		return errors.New("compositor refused grab")
	}
	return nil
}

func (g *fakeGrab) ReleaseGrab() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.releases++
	return nil
}

func (g *fakeGrab) counts() (int, int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.acquires, g.releases
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startController(t *testing.T, grab *fakeGrab, escEnabled bool) *Controller {
	t.Helper()
	c := NewController(testLogger(), grab, escEnabled)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return c
}

func addr(index int, monitor string) barid.Address {
	return barid.New(index, "abcdef012345", monitor)
}

func TestController_TwoMenusGrabOnce(t *testing.T) {
	grab := &fakeGrab{}
	c := startController(t, grab, true)

	first := addr(0, "eDP-1")
	second := addr(0, "DP-3")

	// Idle -> Grabbing on the first open, still Grabbing on the second.
	c.OpenMenu(first)
	snap := c.Snapshot()
	assert.Equal(t, 1, snap.OpenCount)
	assert.True(t, snap.Grabbing)

	c.OpenMenu(second)
	snap = c.Snapshot()
	assert.Equal(t, 2, snap.OpenCount)
	assert.True(t, snap.Grabbing)

	c.CloseMenu(first)
	snap = c.Snapshot()
	assert.Equal(t, 1, snap.OpenCount)
	assert.True(t, snap.Grabbing)

	c.CloseMenu(second)
	snap = c.Snapshot()
	assert.Equal(t, 0, snap.OpenCount)
	assert.False(t, snap.Grabbing)

	acquires, releases := grab.counts()
	assert.Equal(t, 1, acquires, "grab must be acquired exactly once")
	assert.Equal(t, 1, releases, "grab must be released exactly once")
}

func TestController_ReopenIsNoOp(t *testing.T) {
	grab := &fakeGrab{}
	c := startController(t, grab, true)

	a := addr(0, "eDP-1")
	c.OpenMenu(a)
	c.OpenMenu(a)

	snap := c.Snapshot()
	assert.Equal(t, 1, snap.OpenCount)

	acquires, _ := grab.counts()
	assert.Equal(t, 1, acquires)
}

func TestController_CloseWithoutOpenClamps(t *testing.T) {
	grab := &fakeGrab{}
	c := startController(t, grab, true)

	c.CloseMenu(addr(0, "eDP-1"))

	snap := c.Snapshot()
	assert.Equal(t, 0, snap.OpenCount, "count never goes negative")
	assert.False(t, snap.Grabbing)

	_, releases := grab.counts()
	assert.Equal(t, 0, releases)
}

func TestController_ForceCloseReleasesLastGrab(t *testing.T) {
	grab := &fakeGrab{}
	c := startController(t, grab, true)

	a := addr(0, "eDP-1")
	c.OpenMenu(a)
	require.True(t, c.Snapshot().Grabbing)

	// Teardown path: decrements by exactly one and releases the grab.
	c.ForceClose(a)
	snap := c.Snapshot()
	assert.Equal(t, 0, snap.OpenCount)
	assert.False(t, snap.Grabbing)

	// Forcing again is a silent no-op.
	c.ForceClose(a)
	assert.Equal(t, 0, c.Snapshot().OpenCount)

	acquires, releases := grab.counts()
	assert.Equal(t, 1, acquires)
	assert.Equal(t, 1, releases)
}

func TestController_EscDisabledTracksWithoutGrab(t *testing.T) {
	grab := &fakeGrab{}
	c := startController(t, grab, false)

	c.OpenMenu(addr(0, "eDP-1"))
	c.OpenMenu(addr(1, "eDP-1"))

	snap := c.Snapshot()
	assert.Equal(t, 2, snap.OpenCount, "bookkeeping continues with esc disabled")
	assert.False(t, snap.Grabbing)

	acquires, releases := grab.counts()
	assert.Zero(t, acquires)
	assert.Zero(t, releases)
}

func TestController_SetEscEnabledAppliesToOpenMenus(t *testing.T) {
	grab := &fakeGrab{}
	c := startController(t, grab, false)

	a := addr(0, "eDP-1")
	c.OpenMenu(a)
	require.False(t, c.Snapshot().Grabbing)

	// Hot-reload turns esc on while a menu is open: grab now.
	c.SetEscEnabled(true)
	assert.True(t, c.Snapshot().Grabbing)

	// And off again: release even though the menu stays open.
	c.SetEscEnabled(false)
	snap := c.Snapshot()
	assert.False(t, snap.Grabbing)
	assert.Equal(t, 1, snap.OpenCount)
}

func TestController_EscapeClosesOnlyReceivingMenu(t *testing.T) {
	grab := &fakeGrab{}
	c := startController(t, grab, true)

	first := addr(0, "eDP-1")
	second := addr(0, "DP-3")
	c.OpenMenu(first)
	c.OpenMenu(second)

	// Escape lands on the first bar's surface: its menu closes, the
	// second stays open and the grab is kept.
	c.Escape(first)
	snap := c.Snapshot()
	assert.Equal(t, 1, snap.OpenCount)
	assert.Equal(t, []string{second.String()}, snap.OpenAddresses)
	assert.True(t, snap.Grabbing)

	c.Escape(second)
	snap = c.Snapshot()
	assert.Equal(t, 0, snap.OpenCount)
	assert.False(t, snap.Grabbing)

	_, releases := grab.counts()
	assert.Equal(t, 1, releases)
}

func TestController_EscapeIgnoredWhenDisabled(t *testing.T) {
	grab := &fakeGrab{}
	c := startController(t, grab, false)

	a := addr(0, "eDP-1")
	c.OpenMenu(a)

	c.Escape(a)
	assert.Equal(t, 1, c.Snapshot().OpenCount, "esc handling is off, menu stays open")
}

func TestController_EscapeWithoutOpenMenuIsNoOp(t *testing.T) {
	grab := &fakeGrab{}
	c := startController(t, grab, true)

	c.Escape(addr(0, "eDP-1"))

	snap := c.Snapshot()
	assert.Equal(t, 0, snap.OpenCount)
	_, releases := grab.counts()
	assert.Zero(t, releases)
}

func TestController_SnapshotListsOpenInstancesSorted(t *testing.T) {
	grab := &fakeGrab{}
	c := startController(t, grab, true)

	c.OpenMenu(addr(1, "eDP-1"))
	c.OpenMenu(addr(0, "eDP-1"))

	snap := c.Snapshot()
	require.Len(t, snap.OpenAddresses, 2)
	assert.Equal(t, []string{addr(0, "eDP-1").String(), addr(1, "eDP-1").String()}, snap.OpenAddresses)
}

func TestController_GrabFailureStillTracked(t *testing.T) {
	grab := &fakeGrab{fail: true}
	c := startController(t, grab, true)

	c.OpenMenu(addr(0, "eDP-1"))

	// The display layer refused, but the controller's intent is tracked so
	// the release still happens on close.
	snap := c.Snapshot()
	assert.True(t, snap.Grabbing)

	c.CloseMenu(addr(0, "eDP-1"))
	_, releases := grab.counts()
	assert.Equal(t, 1, releases)
}

func TestController_ShutdownReleasesGrabAndStops(t *testing.T) {
	defer goleak.VerifyNone(t)

	grab := &fakeGrab{}
	c := NewController(testLogger(), grab, true)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()

	c.OpenMenu(addr(0, "eDP-1"))
	require.True(t, c.Snapshot().Grabbing)

	cancel()
	<-done

	_, releases := grab.counts()
	assert.Equal(t, 1, releases, "shutdown must not leak a held grab")

	// Messages after shutdown are dropped, not deadlocked.
	c.CloseMenu(addr(0, "eDP-1"))
	assert.Equal(t, Snapshot{}, c.Snapshot())
}
