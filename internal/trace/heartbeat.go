package trace

import (
	"strconv"
	"sync"
	"time"
)

// Heartbeat emits driver-scope liveness events while a long replay runs.
// Heartbeats with no span ends in between point at a candidate program that
// does not terminate.
type Heartbeat struct {
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// StartHeartbeat returns nil when t is disabled or interval is not positive;
// Stop on a nil Heartbeat is a no-op.
func StartHeartbeat(t Tracer, interval time.Duration) *Heartbeat {
	if t == nil || !t.Enabled() || interval <= 0 {
		return nil
	}
	h := &Heartbeat{stop: make(chan struct{}), done: make(chan struct{})}
	go h.beat(t, interval)
	return h
}

func (h *Heartbeat) beat(t Tracer, every time.Duration) {
	defer close(h.done)
	tick := time.NewTicker(every)
	defer tick.Stop()
	for n := 1; ; n++ {
		select {
		case <-h.stop:
			return
		case now := <-tick.C:
			t.Emit(&Event{
				Time:   now,
				Seq:    NextSeq(),
				Kind:   KindHeartbeat,
				Scope:  ScopeDriver,
				Name:   "heartbeat",
				Detail: "#" + strconv.Itoa(n),
			})
		}
	}
}

// Stop ends the heartbeat and waits for its goroutine. Safe to call twice.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() { close(h.stop) })
	<-h.done
}
