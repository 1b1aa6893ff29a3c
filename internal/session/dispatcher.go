package session

import (
	"context"
	"sync"
	"time"
)

type waiter struct {
	filter Filter
	ch     chan Message
}

// Dispatcher hands incoming messages to sessions waiting on them. A message goes to every
// waiter whose filter accepts it, and each of those waiters is removed, so a waiter only
// ever receives its first qualifying message.
type Dispatcher struct {
	mu      sync.Mutex
	nextID  uint64
	waiters map[uint64]*waiter
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{waiters: make(map[uint64]*waiter)}
}

// Deliver offers msg to the current waiters and returns how many took it.
// Filters run under the dispatcher lock and must not call back into it.
func (d *Dispatcher) Deliver(msg Message) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	delivered := 0
	for id, w := range d.waiters {
		if !w.filter(msg) {
			continue
		}
		delete(d.waiters, id)
		w.ch <- msg
		delivered++
	}
	return delivered
}

// Await blocks until a message passes filter, timeout elapses or ctx is done.
// A timeout <= 0 waits without a deadline.
func (d *Dispatcher) Await(ctx context.Context, filter Filter, timeout time.Duration) (Message, error) {
	id, w := d.register(filter)

	var deadline <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	select {
	case msg := <-w.ch:
		return msg, nil
	case <-deadline:
		if d.remove(id) {
			return Message{}, ErrTimedOut
		}
	case <-ctx.Done():
		if d.remove(id) {
			return Message{}, ctx.Err()
		}
	}
	// Deliver won the race and already handed the message over.
	return <-w.ch, nil
}

// Pending returns the number of registered waiters.
func (d *Dispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.waiters)
}

func (d *Dispatcher) register(filter Filter) (uint64, *waiter) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	w := &waiter{filter: filter, ch: make(chan Message, 1)}
	d.waiters[d.nextID] = w
	return d.nextID, w
}

func (d *Dispatcher) remove(id uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.waiters[id]; !ok {
		return false
	}
	delete(d.waiters, id)
	return true
}
