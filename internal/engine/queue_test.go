package engine

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestEventQueue_DeliversInArrivalOrder(t *testing.T) {
	stop := make(chan struct{})
	defer close(stop)

	in, out := newEventQueue(queueInitialCap, queueHardLimit, stop, nil)

	// The producer fills the queue far past any channel buffer before the
	// consumer reads a single event; none of the sends may block.
	const n = 200
	for i := 0; i < n; i++ {
		in <- event{kind: eventMonitorAdded, monitor: strconv.Itoa(i)}
	}

	for i := 0; i < n; i++ {
		select {
		case ev := <-out:
			require.Equal(t, strconv.Itoa(i), ev.monitor, "arrival order must be preserved")
		case <-time.After(5 * time.Second):
			t.Fatalf("event %d never arrived", i)
		}
	}
}

func TestEventQueue_DropsOldestPastHardLimit(t *testing.T) {
	stop := make(chan struct{})
	defer close(stop)

	dropped := make(chan event, 64)
	in, out := newEventQueue(2, 3, stop, func(ev event) { dropped <- ev })

	const n = 40
	for i := 0; i < n; i++ {
		in <- event{kind: eventMonitorAdded, monitor: strconv.Itoa(i)}
	}

	// Every event was either delivered or reported dropped; the survivors
	// keep their relative order because drops always take the head.
	var received []int
	var drops int
	timeout := time.After(5 * time.Second)
	for len(received)+drops < n {
		select {
		case ev := <-out:
			v, err := strconv.Atoi(ev.monitor)
			require.NoError(t, err)
			received = append(received, v)
		case <-dropped:
			drops++
		case <-timeout:
			t.Fatalf("accounted for %d of %d events", len(received)+drops, n)
		}
	}

	assert.Greater(t, drops, 0, "the hard limit must have forced drops")
	assert.IsIncreasing(t, received)
}

func TestEventQueue_StopTerminatesWorker(t *testing.T) {
	defer goleak.VerifyNone(t)

	stop := make(chan struct{})
	in, out := newEventQueue(queueInitialCap, queueHardLimit, stop, nil)

	in <- event{kind: eventMonitorAdded, monitor: "eDP-1"}
	close(stop)

	// Queued events are discarded and the read end closes.
	for {
		select {
		case _, ok := <-out:
			if !ok {
				return
			}
		case <-time.After(5 * time.Second):
			t.Fatal("queue never closed its read end after stop")
		}
	}
}
