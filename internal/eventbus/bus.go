package eventbus

import (
	"fmt"
	"time"
)

// Bus is the multi-producer, single-consumer event channel described in
// spec §3/§4.E/§5. It is intentionally unbounded (backed by an
// internally-buffered relay goroutine) so the orchestrator and observer
// never block on a slow or absent UI consumer.
type Bus struct {
	in  chan Event
	out chan Event
}

// NewBus creates a bus and starts its internal relay. Callers obtain a
// cloneable Producer via Producer() and read events from Events().
func NewBus() *Bus {
	b := &Bus{
		in:  make(chan Event),
		out: make(chan Event),
	}
	go b.relay()
	return b
}

// relay implements the unbounded-queue semantics: it buffers events in a
// slice so producer sends never block even if the consumer is slow,
// while still delivering events to Events() in send order per producer.
func (b *Bus) relay() {
	var queue []Event
	for {
		if len(queue) == 0 {
			e, ok := <-b.in
			if !ok {
				close(b.out)
				return
			}
			queue = append(queue, e)
			continue
		}

		select {
		case e, ok := <-b.in:
			if !ok {
				for _, q := range queue {
					b.out <- q
				}
				close(b.out)
				return
			}
			queue = append(queue, e)
		case b.out <- queue[0]:
			queue = queue[1:]
		}
	}
}

// Events returns the consumer-side receive channel. There is exactly one
// consumer per bus by contract (spec §4.E: "consumer side owned by the
// UI").
func (b *Bus) Events() <-chan Event {
	return b.out
}

// Producer returns a cloneable handle producers use to publish events.
// Producer values are safe for concurrent use from multiple goroutines —
// a Go channel send is itself the only synchronization needed.
func (b *Bus) Producer() Producer {
	return Producer{ch: b.in}
}

// Close shuts down the bus. Safe to call once, after both producers
// (orchestrator, observer) have stopped sending.
func (b *Bus) Close() {
	close(b.in)
}

// Producer is the producer-side handle for a Bus.
type Producer struct {
	ch chan<- Event
}

// Send publishes an event. If the bus has been closed, Send recovers from
// the resulting panic and drops the event — matching spec §7's
// bus-consumer-gone disposition ("ignored; producers continue").
func (p Producer) Send(e Event) {
	defer func() { _ = recover() }()
	p.ch <- e
}

// Log is a convenience wrapper around Send for LogRecord events.
func (p Producer) Log(level Level, format string, args ...any) {
	p.Send(LogRecord{Timestamp: time.Now(), Level: level, Message: fmt.Sprintf(format, args...)})
}

// Status is a convenience wrapper around Send for ServiceStatus events.
func (p Producer) Status(order int, name string, status StatusColor, comment string) {
	p.Send(ServiceStatus{Order: order, Name: name, Status: status, Comment: comment})
}

// Fatal is a convenience wrapper around Send for FatalError events.
func (p Producer) Fatal(format string, args ...any) {
	p.Send(FatalError{Message: fmt.Sprintf(format, args...)})
}
