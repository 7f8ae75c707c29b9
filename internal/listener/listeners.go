package listener

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"github.com/l1jgo/eventlistener/internal/core/ecs"
	"github.com/l1jgo/eventlistener/internal/core/event"
)

// Listeners is the registry of On[E] components for one event type.
//
// An entity holds at most one listener per event type. A second Attach is
// rejected with ErrDuplicateListener and the first listener stays in place;
// Replace overwrites on purpose.
//
// While a pass is running the registry is frozen: Attach, Replace and
// Detach are queued and applied when the pass ends, so every lookup in a
// pass sees the same listeners.
type Listeners[E event.EntityEvent] struct {
	name    string
	world   *ecs.World
	store   *ecs.PtrComponentStore[On[E]]
	log     *zap.Logger
	frozen  bool
	pending []func()
}

// NewListeners creates the registry and registers its store with the
// world, so despawned entities lose their listeners.
func NewListeners[E event.EntityEvent](w *ecs.World, log *zap.Logger) *Listeners[E] {
	return &Listeners[E]{
		name:  reflect.TypeFor[E]().String(),
		world: w,
		store: ecs.NewStore[On[E]](w.Registry()),
		log:   log,
	}
}

// Attach gives id a listener for E.
func (l *Listeners[E]) Attach(id ecs.EntityID, on On[E]) error {
	if on.Callback == nil {
		return fmt.Errorf("attach %s listener to %s: nil callback", l.name, id)
	}
	if !l.world.Alive(id) {
		return fmt.Errorf("attach %s listener to %s: %w", l.name, id, ecs.ErrDeadEntity)
	}
	if l.frozen {
		l.pending = append(l.pending, func() {
			if err := l.attach(id, on); err != nil {
				l.log.Warn("deferred listener attach rejected", zap.Error(err))
			}
		})
		return nil
	}
	return l.attach(id, on)
}

func (l *Listeners[E]) attach(id ecs.EntityID, on On[E]) error {
	if !l.world.Alive(id) {
		return fmt.Errorf("attach %s listener to %s: %w", l.name, id, ecs.ErrDeadEntity)
	}
	if prev, ok := l.store.Get(id); ok {
		l.log.Warn("duplicate listener rejected",
			zap.String("event", l.name),
			zap.Stringer("entity", id),
			zap.String("kept", prev.Name),
			zap.String("rejected", on.Name),
		)
		return fmt.Errorf("attach %s listener to %s: %w", l.name, id, ErrDuplicateListener)
	}
	c := on
	l.store.Set(id, &c)
	return nil
}

// Replace sets the listener of id, overwriting any existing one.
func (l *Listeners[E]) Replace(id ecs.EntityID, on On[E]) {
	set := func() {
		if !l.world.Alive(id) || on.Callback == nil {
			return
		}
		c := on
		l.store.Set(id, &c)
	}
	if l.frozen {
		l.pending = append(l.pending, set)
		return
	}
	set()
}

// Detach removes the listener of id, if any.
func (l *Listeners[E]) Detach(id ecs.EntityID) {
	if l.frozen {
		l.pending = append(l.pending, func() { l.store.Remove(id) })
		return
	}
	l.store.Remove(id)
}

// Lookup returns the listener of id.
func (l *Listeners[E]) Lookup(id ecs.EntityID) (On[E], bool) {
	c, ok := l.store.Get(id)
	if !ok {
		return On[E]{}, false
	}
	return *c, true
}

func (l *Listeners[E]) Has(id ecs.EntityID) bool { return l.store.Has(id) }
func (l *Listeners[E]) Len() int                 { return l.store.Len() }

// EventName is the Go type name of E, used in diagnostics.
func (l *Listeners[E]) EventName() string { return l.name }

func (l *Listeners[E]) freeze() { l.frozen = true }

func (l *Listeners[E]) thaw() {
	l.frozen = false
	for i := 0; i < len(l.pending); i++ {
		l.pending[i]()
		l.pending[i] = nil
	}
	l.pending = l.pending[:0]
}
