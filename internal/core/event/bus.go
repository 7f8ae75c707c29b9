package event

import (
	"reflect"
	"sync"

	"github.com/l1jgo/eventlistener/internal/core/ecs"
)

// EntityEvent is implemented by every event that can be dispatched to a
// listener. Target is the entity the event is addressed to.
type EntityEvent interface {
	Target() ecs.EntityID
}

// Bus holds one pending queue per event type. Each queue is double-buffered:
// Drain hands the pending events to the caller and starts a fresh buffer, so
// events emitted while a pass is processing the drained batch are readable
// on the next Drain.
type Bus struct {
	mu     sync.Mutex
	queues map[reflect.Type]any
}

func NewBus() *Bus {
	return &Bus{
		queues: make(map[reflect.Type]any),
	}
}

type queue[E any] struct {
	back  []E // receives Emit
	front []E // last drained batch, recycled as the next back buffer
}

func queueFor[E any](b *Bus) *queue[E] {
	t := reflect.TypeFor[E]()
	if q, ok := b.queues[t]; ok {
		return q.(*queue[E])
	}
	q := &queue[E]{back: make([]E, 0, 16)}
	b.queues[t] = q
	return q
}

// Emit queues an event. It never fails; a dead target is only detected when
// the event is processed.
func Emit[E any](b *Bus, event E) {
	b.mu.Lock()
	q := queueFor[E](b)
	q.back = append(q.back, event)
	b.mu.Unlock()
}

// Drain returns all pending events of type E in emit order and resets the
// queue. The returned slice is reused by the Drain after next, so callers
// must finish with it before draining the same type twice more.
func Drain[E any](b *Bus) []E {
	b.mu.Lock()
	defer b.mu.Unlock()
	q := queueFor[E](b)
	out := q.back
	clear(q.front)
	q.back = q.front[:0]
	q.front = out
	return out
}

// Pending reports how many events of type E wait for the next Drain.
func Pending[E any](b *Bus) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	q, ok := b.queues[reflect.TypeFor[E]()]
	if !ok {
		return 0
	}
	return len(q.(*queue[E]).back)
}
