package listener

import (
	"go.uber.org/zap"

	"github.com/l1jgo/eventlistener/internal/core/event"
)

// Outcome is how one event's propagation ended.
type Outcome int

const (
	// ReachedRoot: every listener on the path ran and none stopped the event.
	ReachedRoot Outcome = iota
	// Stopped: a listener called StopPropagation.
	Stopped
	// Faulted: a listener returned an error.
	Faulted
	// Skipped: the target is not in the forest (dropped while building it).
	Skipped
)

func (o Outcome) String() string {
	switch o {
	case ReachedRoot:
		return "reached_root"
	case Stopped:
		return "stopped"
	case Faulted:
		return "faulted"
	case Skipped:
		return "skipped"
	}
	return "unknown"
}

// Result describes the dispatch of one event.
type Result[E event.EntityEvent] struct {
	Outcome     Outcome
	Invocations int
	Event       E // payload as the last listener left it
	Err         error
}

// Bubbler walks events through a Forest and runs their listeners.
type Bubbler[E event.EntityEvent] struct {
	listeners *Listeners[E]
	log       *zap.Logger
}

func NewBubbler[E event.EntityEvent](listeners *Listeners[E], log *zap.Logger) *Bubbler[E] {
	return &Bubbler[E]{listeners: listeners, log: log}
}

// Bubble runs the listeners on ev's path, target first, then each ancestor
// in turn, until one stops the event, one fails, or the root is passed.
// Entities without a listener are stepped over.
func (b *Bubbler[E]) Bubble(ctx *Context, f *Forest, ev E) Result[E] {
	i, ok := f.Lookup(ev.Target())
	if !ok {
		return Result[E]{Outcome: Skipped, Event: ev}
	}
	l := newListened(ev)
	res := Result[E]{Outcome: ReachedRoot}
	for ; i != NoParent; i = f.nodes[i].Parent {
		node := f.nodes[i]
		if !node.HasListener {
			continue
		}
		on, ok := b.listeners.Lookup(node.Entity)
		if !ok {
			continue
		}
		l.listener = node.Entity
		res.Invocations++
		if err := on.Callback(ctx, l); err != nil {
			res.Outcome = Faulted
			res.Err = &CallbackFault{
				Event:    b.listeners.EventName(),
				Target:   l.target,
				Listener: node.Entity,
				Err:      err,
			}
			break
		}
		if l.stopped {
			res.Outcome = Stopped
			break
		}
	}
	res.Event = l.event
	return res
}

// Dispatch bubbles events in order and accumulates the outcome into report.
// A fault ends only the faulting event; the batch carries on.
func (b *Bubbler[E]) Dispatch(ctx *Context, f *Forest, events []E, report *PassReport) {
	for _, ev := range events {
		res := b.Bubble(ctx, f, ev)
		report.Invocations += res.Invocations
		switch res.Outcome {
		case Skipped:
			continue
		case Stopped:
			report.Stopped++
		case Faulted:
			report.Faults++
			b.log.Error("listener callback failed", zap.Error(res.Err))
		}
		report.Dispatched++
	}
}
