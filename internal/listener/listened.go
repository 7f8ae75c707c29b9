package listener

import (
	"github.com/l1jgo/eventlistener/internal/core/ecs"
	"github.com/l1jgo/eventlistener/internal/core/event"
)

// Listened is the in-flight view of one event handed to callbacks. The
// payload may be modified through Event; later listeners see the changes.
type Listened[E event.EntityEvent] struct {
	event    E
	target   ecs.EntityID
	listener ecs.EntityID
	stopped  bool
}

func newListened[E event.EntityEvent](ev E) *Listened[E] {
	t := ev.Target()
	return &Listened[E]{event: ev, target: t, listener: t}
}

// Event returns the payload for reading and writing.
func (l *Listened[E]) Event() *E { return &l.event }

// Target is the entity the event was addressed to. It does not change
// while the event bubbles, even if the payload is edited.
func (l *Listened[E]) Target() ecs.EntityID { return l.target }

// Listener is the entity whose callback is running.
func (l *Listened[E]) Listener() ecs.EntityID { return l.listener }

// StopPropagation keeps the event from reaching any further ancestor.
// Safe to call more than once.
func (l *Listened[E]) StopPropagation() { l.stopped = true }

func (l *Listened[E]) Stopped() bool { return l.stopped }
