package engine

// Queue sizing. The hard limit is a safety valve for a stalled loop, not a
// capacity the queue is expected to reach: a docking station replugging
// three monitors produces single-digit event counts.
const (
	queueInitialCap = 16
	queueHardLimit  = 4096
)

// newEventQueue returns a write end that never blocks the producer and a
// read end that yields events in arrival order. The buffer between the two
// grows as needed, so bursty producers (monitor hotplug storms, a reload
// landing mid-reconciliation) are decoupled from however long one pass
// takes. Past hardLimit the oldest event is dropped and reported through
// onDrop; that is safe here because every reconciliation re-derives the
// full desired state rather than applying deltas.
//
// The internal goroutine exits when stop is closed. Events still queued at
// that point are discarded, since shutdown tears everything down anyway.
func newEventQueue(initialCap, hardLimit int, stop <-chan struct{}, onDrop func(event)) (chan<- event, <-chan event) {
	in := make(chan event, 8)
	out := make(chan event, 8)

	go func() {
		defer close(out)

		queue := make([]event, 0, initialCap)

		for {
			var next event
			var downstream chan event

			// Enable the send case only while there is something to send.
			if len(queue) > 0 {
				next = queue[0]
				downstream = out
			}

			select {
			case <-stop:
				return

			case ev := <-in:
				if len(queue) >= hardLimit {
					if onDrop != nil {
						onDrop(queue[0])
					}
					queue = queue[1:]
				}
				queue = append(queue, ev)

			case downstream <- next:
				queue = queue[1:]
			}
		}
	}()

	return in, out
}
