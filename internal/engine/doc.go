// Package engine is the reconciliation core. It owns the resolved bar
// specifications, the last-known monitor set, and the live instance set,
// and keeps the three consistent as configuration and monitors change.
//
// The engine's state is single-threaded: every trigger (a configuration
// reload, a monitor hotplug, a focus change, an Esc key press) is an
// event on one logical queue, and each event is handled to completion by
// the Run goroutine before the next is looked at. Two reconciliations can
// therefore never interleave. Everything long-running, surface rendering
// and module polling included, lives behind opaque handles owned by
// external workers and never blocks this loop.
package engine
