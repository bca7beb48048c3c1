// Package menu owns the process-wide menu exclusivity state: which bar
// instances have a menu open and whether the exclusive keyboard grab is
// held so Esc can close a menu.
//
// The state is mutated from many places (any bar's menu may open or close
// at any time, and instance teardown force-closes), so it is modeled as a
// single-writer actor: one goroutine owns the state and everything else
// sends it messages. That removes the race between a teardown and a
// concurrent close from the same instance without any shared locking.
package menu
