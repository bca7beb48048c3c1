// Package instancestore holds the live bar instances between
// reconciliation passes.
//
// # Concurrency Model
//
// The engine goroutine is the only writer: it registers instances on
// create, removes them on destroy, and refreshes the owned spec in place
// when a reload changed inherited content. The status server and tests
// read concurrently. The store uses sync.Map for the instance table
// because the key space is stable between reconciliations while reads
// come from other goroutines at any time; each instance guards its own
// mutable spec with an RWMutex so a refresh never tears a concurrent
// snapshot.
package instancestore
