package menu

import (
	"context"
	"log/slog"
	"sort"

	"github.com/vk/barshell/internal/barid"
	"github.com/vk/barshell/internal/display"
)

type msgKind int

const (
	msgOpen msgKind = iota
	msgClose
	msgForceClose
	msgEscape
	msgSetEsc
	msgSnapshot
)

type message struct {
	kind       msgKind
	addr       barid.Address
	escEnabled bool
	reply      chan Snapshot
}

// Snapshot is the externally visible controller state. OpenAddresses
// lists the instances with an open menu in sorted order.
type Snapshot struct {
	OpenCount     int
	Grabbing      bool
	OpenAddresses []string
}

// Controller is the single-owner actor for menu exclusivity. All mutation
// goes through its message channel; Run's goroutine is the only writer.
type Controller struct {
	logger *slog.Logger
	grab   display.KeyboardGrab
	msgs   chan message
	done   chan struct{}

	// Owned exclusively by the Run goroutine.
	open       map[string]struct{}
	escEnabled bool
	grabbing   bool
}

// NewController builds the actor. Run must be started before messages are
// sent.
func NewController(logger *slog.Logger, grab display.KeyboardGrab, escEnabled bool) *Controller {
	return &Controller{
		logger:     logger.With("component", "menu"),
		grab:       grab,
		msgs:       make(chan message, 16),
		done:       make(chan struct{}),
		open:       make(map[string]struct{}),
		escEnabled: escEnabled,
	}
}

// Run processes messages until the context ends. A grab still held at
// shutdown is released so the keyboard is never left captured.
func (c *Controller) Run(ctx context.Context) {
	defer close(c.done)
	for {
		select {
		case <-ctx.Done():
			if c.grabbing {
				c.setGrab(false)
			}
			return
		case msg := <-c.msgs:
			c.handle(msg)
		}
	}
}

func (c *Controller) handle(msg message) {
	switch msg.kind {
	case msgOpen:
		key := msg.addr.String()
		if _, exists := c.open[key]; exists {
			c.logger.Debug("Menu already open, ignoring reopen.", "instance", key)
			return
		}
		c.open[key] = struct{}{}
		c.logger.Debug("Menu opened.", "instance", key, "open_count", len(c.open))
		if len(c.open) == 1 && c.escEnabled {
			c.setGrab(true)
		}

	case msgClose:
		key := msg.addr.String()
		if _, exists := c.open[key]; !exists {
			// A close without a matching open is a caller defect; the count
			// is clamped rather than driven negative.
			c.logger.Error("Reconciliation inconsistency: menu close without matching open.", "instance", key)
			return
		}
		c.closeLocked(key)

	case msgForceClose:
		key := msg.addr.String()
		if _, exists := c.open[key]; !exists {
			return // teardown of an instance with no open menu is a no-op
		}
		c.logger.Debug("Menu force-closed at instance teardown.", "instance", key)
		c.closeLocked(key)

	case msgEscape:
		key := msg.addr.String()
		if !c.escEnabled {
			c.logger.Debug("Escape ignored, esc key handling disabled.", "instance", key)
			return
		}
		if _, exists := c.open[key]; !exists {
			c.logger.Debug("Escape on an instance with no open menu, ignoring.", "instance", key)
			return
		}
		c.logger.Debug("Menu closed by escape.", "instance", key)
		c.closeLocked(key)

	case msgSetEsc:
		c.escEnabled = msg.escEnabled
		switch {
		case c.grabbing && !c.escEnabled:
			c.setGrab(false)
		case !c.grabbing && c.escEnabled && len(c.open) > 0:
			c.setGrab(true)
		}

	case msgSnapshot:
		addrs := make([]string, 0, len(c.open))
		for key := range c.open {
			addrs = append(addrs, key)
		}
		sort.Strings(addrs)
		msg.reply <- Snapshot{OpenCount: len(c.open), Grabbing: c.grabbing, OpenAddresses: addrs}
	}
}

func (c *Controller) closeLocked(key string) {
	delete(c.open, key)
	c.logger.Debug("Menu closed.", "instance", key, "open_count", len(c.open))
	if len(c.open) == 0 && c.grabbing {
		c.setGrab(false)
	}
}

// setGrab applies the grab side effect. An error from the display layer is
// logged; the tracked state follows the intent so bookkeeping never skews.
func (c *Controller) setGrab(held bool) {
	c.grabbing = held
	var err error
	if held {
		err = c.grab.AcquireGrab()
	} else {
		err = c.grab.ReleaseGrab()
	}
	if err != nil {
		c.logger.Warn("Keyboard grab request failed.", "held", held, "error", err)
	}
}

// OpenMenu records a menu opening on the given instance. Reopening an
// already-open menu is a no-op.
func (c *Controller) OpenMenu(addr barid.Address) {
	c.send(message{kind: msgOpen, addr: addr})
}

// CloseMenu records a menu closing. Closing a menu that is not open is
// logged as an inconsistency and clamped.
func (c *Controller) CloseMenu(addr barid.Address) {
	c.send(message{kind: msgClose, addr: addr})
}

// ForceClose is the teardown path: silently a no-op when no menu is open,
// otherwise identical to CloseMenu. It guarantees a destroyed instance
// never leaks a held grab.
func (c *Controller) ForceClose(addr barid.Address) {
	c.send(message{kind: msgForceClose, addr: addr})
}

// Escape handles an escape key press delivered to the given instance's
// surface. It closes that instance's menu only; menus on other bars stay
// open. Ignored when esc key handling is disabled or no menu is open.
func (c *Controller) Escape(addr barid.Address) {
	c.send(message{kind: msgEscape, addr: addr})
}

// SetEscEnabled applies a hot-reloaded enable_esc_key value.
func (c *Controller) SetEscEnabled(enabled bool) {
	c.send(message{kind: msgSetEsc, escEnabled: enabled})
}

// Snapshot returns the current state, or the zero Snapshot after shutdown.
func (c *Controller) Snapshot() Snapshot {
	reply := make(chan Snapshot, 1)
	select {
	case c.msgs <- message{kind: msgSnapshot, reply: reply}:
	case <-c.done:
		return Snapshot{}
	}
	select {
	case snap := <-reply:
		return snap
	case <-c.done:
		return Snapshot{}
	}
}

func (c *Controller) send(msg message) {
	select {
	case c.msgs <- msg:
	case <-c.done:
		// The actor has stopped; drop the message rather than block a
		// caller that raced shutdown.
	}
}
