package engine

import (
	"context"
	"log/slog"
	"reflect"

	"github.com/vk/barshell/internal/barid"
	"github.com/vk/barshell/internal/config"
	"github.com/vk/barshell/internal/display"
	"github.com/vk/barshell/internal/instancestore"
	"github.com/vk/barshell/internal/menu"
)

// Engine owns the reconciliation state: the current configuration model,
// the resolved bar specifications derived from it, the last enumerated
// monitor set, and the live instances in the store. All of it is mutated
// only by the Run goroutine; everything else communicates through the
// event queue.
type Engine struct {
	logger   *slog.Logger
	provider display.Provider
	store    *instancestore.Store
	menus    *menu.Controller

	in   chan<- event
	out  <-chan event
	stop chan struct{}
	done chan struct{}

	// Owned exclusively by the Run goroutine.
	model    *config.Model
	specs    []config.ResolvedBarSpec
	monitors []display.Monitor
}

// New assembles the engine around its collaborators and derives the
// initial resolved specs from the model. A model whose bar definitions
// cannot be merged is a startup configuration error.
func New(logger *slog.Logger, provider display.Provider, store *instancestore.Store, menus *menu.Controller, model *config.Model) (*Engine, error) {
	specs, err := config.MergeBars(&model.Global, model.Bars)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		logger:   logger.With("component", "engine"),
		provider: provider,
		store:    store,
		menus:    menus,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		model:    model,
		specs:    specs,
	}
	e.in, e.out = newEventQueue(queueInitialCap, queueHardLimit, e.stop, func(ev event) {
		e.logger.Error("Reconciliation inconsistency: event queue overflow, dropping oldest event.", "kind", ev.kind.String())
	})
	return e, nil
}

// Run performs the initial reconciliation and then drains the event queue
// until the context ends. It is the single goroutine that touches engine
// state; each event is handled to completion before the next is read.
func (e *Engine) Run(ctx context.Context) {
	defer close(e.done)
	defer close(e.stop)

	bridgeDone := make(chan struct{})
	go func() {
		defer close(bridgeDone)
		e.bridgeProviderEvents(ctx)
	}()
	// Runs before stop closes, so a bridge mid-post still finds a live
	// queue and cannot wedge the shutdown.
	defer func() { <-bridgeDone }()

	e.reconcile(ctx, "startup")

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-e.out:
			if !ok {
				return
			}
			e.handle(ctx, ev)
		}
	}
}

// bridgeProviderEvents forwards compositor events onto the engine queue so
// the provider never blocks on a reconciliation in progress.
func (e *Engine) bridgeProviderEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case raw, ok := <-e.provider.Events():
			if !ok {
				return
			}
			if ev, ok := fromDisplay(raw); ok {
				e.post(ev)
			}
		}
	}
}

// Reload hands a freshly loaded configuration model to the engine. The
// caller has already validated it; the swap and the follow-up
// reconciliation happen on the engine goroutine.
func (e *Engine) Reload(model *config.Model) {
	e.post(event{kind: eventReload, model: model})
}

// MonitorStatus is one enumerated output in a Snapshot.
type MonitorStatus struct {
	ID     string `json:"id"`
	Active bool   `json:"active"`
}

// InstanceStatus is one live bar instance in a Snapshot.
type InstanceStatus struct {
	ID       string          `json:"id"`
	Monitor  string          `json:"monitor"`
	Position config.Position `json:"position"`
}

// Snapshot is the engine state as observed between reconciliations.
type Snapshot struct {
	Monitors  []MonitorStatus  `json:"monitors"`
	Instances []InstanceStatus `json:"instances"`
}

// Snapshot returns the engine's view of monitors and instances. Because
// the request travels the same queue as every other event, the reply
// reflects all events posted before it from the calling goroutine, which
// makes it a natural barrier in tests. After shutdown it returns the zero
// Snapshot.
func (e *Engine) Snapshot() Snapshot {
	reply := make(chan Snapshot, 1)
	select {
	case e.in <- event{kind: eventSnapshot, reply: reply}:
	case <-e.done:
		return Snapshot{}
	}
	select {
	case snap := <-reply:
		return snap
	case <-e.done:
		return Snapshot{}
	}
}

func (e *Engine) post(ev event) {
	select {
	case e.in <- ev:
	case <-e.done:
		// Engine stopped; the event is moot because shutdown tears all
		// instances down anyway.
	}
}

func (e *Engine) handle(ctx context.Context, ev event) {
	switch ev.kind {
	case eventReload:
		e.handleReload(ctx, ev.model)

	case eventMonitorAdded, eventMonitorRemoved:
		e.logger.Debug("Monitor topology changed.", "trigger", ev.kind.String(), "monitor", ev.monitor)
		e.reconcile(ctx, ev.kind.String())

	case eventActiveChanged:
		if !e.model.UsesActiveSelector() {
			e.logger.Debug("Focus moved but no spec selects the active output, ignoring.", "monitor", ev.monitor)
			return
		}
		e.reconcile(ctx, ev.kind.String())

	case eventEscape:
		e.handleEscape(ev.surface)

	case eventSnapshot:
		ev.reply <- e.snapshotLocked()
	}
}

func (e *Engine) handleReload(ctx context.Context, model *config.Model) {
	specs, err := config.MergeBars(&model.Global, model.Bars)
	if err != nil {
		// The load path validates before posting, so this is a defect.
		e.logger.Error("Reload rejected by the bar merger, keeping previous configuration.", "error", err)
		return
	}

	e.model = model
	e.specs = specs
	e.menus.SetEscEnabled(model.Global.EnableEscKey)
	e.reconcile(ctx, "config-reload")
}

// handleEscape closes the menu of the instance owning the surface the key
// event reached. Other open menus stay open.
func (e *Engine) handleEscape(surface display.SurfaceHandle) {
	inst, ok := e.store.BySurface(surface)
	if !ok {
		e.logger.Debug("Escape for an unknown surface, ignoring.", "surface", surface)
		return
	}
	e.menus.Escape(inst.Address)
}

// desiredPair is one (spec, monitor) element of the desired set.
type desiredPair struct {
	addr    barid.Address
	spec    config.ResolvedBarSpec
	monitor display.Monitor
}

// reconcile is the heart of the engine: enumerate monitors, expand the
// output selector, diff the desired (spec, monitor) pairs against the live
// instances, and apply the minimal create/destroy set. Unchanged instances
// are left alone; at most their owned spec is refreshed in place.
//
// A transient enumeration failure leaves the current instance set fully
// intact; the next trigger retries naturally.
func (e *Engine) reconcile(ctx context.Context, trigger string) {
	monitors, err := e.provider.EnumerateMonitors(ctx)
	if err != nil {
		e.logger.Warn("Monitor enumeration failed, keeping current instances.", "trigger", trigger, "error", err)
		return
	}
	e.monitors = monitors

	// The output selector is global: resolve it once and cross it with
	// every spec.
	matched, unmatched := resolveOutputs(e.model.Global.Outputs, monitors)
	for _, target := range unmatched {
		e.logger.Warn("No live monitor matches configured output target.", "target", target)
	}

	desired := make([]desiredPair, 0, len(e.specs)*len(matched))
	seen := make(map[barid.Address]bool)
	for _, spec := range e.specs {
		for _, mon := range matched {
			addr := barid.New(spec.Index, spec.Fingerprint, mon.ID)
			if seen[addr] {
				e.logger.Error("Reconciliation inconsistency: duplicate instance identity, deduplicating.", "instance", addr.String())
				continue
			}
			seen[addr] = true
			desired = append(desired, desiredPair{addr: addr, spec: spec, monitor: mon})
		}
	}

	var destroyed int
	for _, inst := range e.store.All() {
		if !seen[inst.Address] {
			e.destroyInstance(ctx, inst)
			destroyed++
		}
	}

	var created, refreshed int
	for _, pair := range desired {
		if inst, ok := e.store.Get(pair.addr); ok {
			// Identity unchanged. Refresh inherited content in place when a
			// reload changed it; never destroy and recreate.
			if !reflect.DeepEqual(inst.Spec(), pair.spec) {
				inst.RefreshSpec(pair.spec)
				refreshed++
			}
			continue
		}
		if e.createInstance(ctx, pair) {
			created++
		}
	}

	if created > 0 || destroyed > 0 || refreshed > 0 {
		e.logger.Info("Reconciliation applied.",
			"trigger", trigger,
			"created", created,
			"destroyed", destroyed,
			"refreshed", refreshed,
			"live", e.store.Len(),
		)
	} else {
		e.logger.Debug("Reconciliation made no changes.", "trigger", trigger, "live", e.store.Len())
	}
}

func (e *Engine) createInstance(ctx context.Context, pair desiredPair) bool {
	handle, err := e.provider.CreateSurface(ctx, pair.monitor, &pair.spec)
	if err != nil {
		e.logger.Error("Surface creation failed, instance skipped until next trigger.",
			"instance", pair.addr.String(), "error", err)
		return false
	}

	inst := instancestore.NewInstance(pair.addr, pair.monitor, handle, pair.spec)
	if !e.store.Put(inst) {
		e.logger.Error("Reconciliation inconsistency: instance identity already live, discarding duplicate.", "instance", pair.addr.String())
		if derr := e.provider.DestroySurface(ctx, handle); derr != nil {
			e.logger.Warn("Surface cleanup after duplicate failed.", "error", derr)
		}
		return false
	}

	e.logger.Debug("Bar instance created.", "instance", pair.addr.String(), "position", pair.spec.Position)
	return true
}

// destroyInstance tears one instance down: its menu is force-closed so a
// held keyboard grab is never leaked, the surface is destroyed, and the
// store entry removed. Destroying an instance that is already gone is a
// no-op.
func (e *Engine) destroyInstance(ctx context.Context, inst *instancestore.Instance) {
	if !e.store.Delete(inst.Address) {
		return
	}
	e.menus.ForceClose(inst.Address)
	if err := e.provider.DestroySurface(ctx, inst.Surface); err != nil {
		e.logger.Warn("Surface destruction failed.", "instance", inst.Address.String(), "error", err)
	}
	e.logger.Debug("Bar instance destroyed.", "instance", inst.Address.String())
}

func (e *Engine) snapshotLocked() Snapshot {
	snap := Snapshot{
		Monitors:  make([]MonitorStatus, 0, len(e.monitors)),
		Instances: make([]InstanceStatus, 0, e.store.Len()),
	}
	for _, mon := range e.monitors {
		snap.Monitors = append(snap.Monitors, MonitorStatus{ID: mon.ID, Active: mon.Active})
	}
	for _, inst := range e.store.All() {
		snap.Instances = append(snap.Instances, InstanceStatus{
			ID:       inst.Address.String(),
			Monitor:  inst.Monitor.ID,
			Position: inst.Spec().Position,
		})
	}
	return snap
}
