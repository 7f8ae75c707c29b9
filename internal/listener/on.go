package listener

import (
	"go.uber.org/zap"

	"github.com/l1jgo/eventlistener/internal/core/ecs"
	"github.com/l1jgo/eventlistener/internal/core/event"
)

// Context carries the store capabilities a callback may use. Component
// stores are captured by the callback itself when it is built.
type Context struct {
	// World gives read/write access to components. Structural changes made
	// through it while the pass runs are deferred to the cleanup phase.
	World *ecs.World
	// Commands buffers structural changes until the pass has finished.
	Commands *ecs.Commands
	// Bus accepts follow-up events; they are processed on the next pass.
	Bus *event.Bus
	Log *zap.Logger
}

// Callback runs when an event reaches an entity that listens for it.
// A non-nil error is a CallbackFault: the event stops bubbling.
type Callback[E event.EntityEvent] func(ctx *Context, ev *Listened[E]) error

// On is the listener component: one callback per entity and event type.
type On[E event.EntityEvent] struct {
	Name     string
	Callback Callback[E]
}

// Run builds a listener that runs cb.
func Run[E event.EntityEvent](cb Callback[E]) On[E] {
	return On[E]{Callback: cb}
}

// RunNamed is Run with a name used in diagnostics.
func RunNamed[E event.EntityEvent](name string, cb Callback[E]) On[E] {
	return On[E]{Name: name, Callback: cb}
}

// StopAfter wraps cb so the event never bubbles past this listener,
// unless cb fails.
func StopAfter[E event.EntityEvent](cb Callback[E]) Callback[E] {
	return func(ctx *Context, ev *Listened[E]) error {
		if err := cb(ctx, ev); err != nil {
			return err
		}
		ev.StopPropagation()
		return nil
	}
}

// Forward re-emits the event as a different event type. The derived event
// is delivered on the next pass. Returning false from fn skips the emit.
func Forward[E event.EntityEvent, F any](fn func(ev *Listened[E]) (F, bool)) Callback[E] {
	return func(ctx *Context, ev *Listened[E]) error {
		if out, ok := fn(ev); ok {
			event.Emit(ctx.Bus, out)
		}
		return nil
	}
}
