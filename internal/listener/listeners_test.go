package listener

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/l1jgo/eventlistener/internal/core/ecs"
	"github.com/l1jgo/eventlistener/internal/core/event"
)

func noop(*Context, *Listened[poke]) error { return nil }

func TestDuplicateListenerRejected(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	w := ecs.NewWorld()
	l := NewListeners[poke](w, zap.New(core))
	id := w.CreateEntity()

	if err := l.Attach(id, RunNamed("first", noop)); err != nil {
		t.Fatal(err)
	}
	err := l.Attach(id, RunNamed("second", noop))
	if !errors.Is(err, ErrDuplicateListener) {
		t.Fatalf("expected ErrDuplicateListener, got %v", err)
	}
	on, ok := l.Lookup(id)
	if !ok || on.Name != "first" {
		t.Errorf("kept listener = %q, want first", on.Name)
	}
	if logs.FilterMessage("duplicate listener rejected").Len() != 1 {
		t.Errorf("duplicate not reported: %v", logs.All())
	}

	l.Replace(id, RunNamed("third", noop))
	if on, _ := l.Lookup(id); on.Name != "third" {
		t.Errorf("Replace kept %q", on.Name)
	}
	l.Detach(id)
	if l.Has(id) || l.Len() != 0 {
		t.Error("Detach left the listener")
	}
}

func TestAttachValidation(t *testing.T) {
	w := ecs.NewWorld()
	l := NewListeners[poke](w, zap.NewNop())
	id := w.CreateEntity()
	if err := l.Attach(id, On[poke]{}); err == nil {
		t.Error("nil callback accepted")
	}
	w.Destroy(id)
	if err := l.Attach(id, Run(noop)); !errors.Is(err, ecs.ErrDeadEntity) {
		t.Errorf("expected ErrDeadEntity, got %v", err)
	}
}

func TestAttachDuringPassIsDeferred(t *testing.T) {
	h := newTestHost(nil)
	p, _ := Register[poke](h)
	ids := chain(t, h.world, 2)
	var seen []ecs.EntityID
	mustAttach(t, p, ids[0], func(ctx *Context, ev *Listened[poke]) error {
		seen = append(seen, ev.Listener())
		return p.Attach(ids[1], Run(visit(&seen)))
	})

	event.Emit(h.bus, poke{to: ids[0]})
	p.Run()
	if !sameIDs(seen, ids[:1]) {
		t.Fatalf("listener attached mid-pass ran in the same pass: %v", seen)
	}
	if !p.Listeners().Has(ids[1]) {
		t.Fatal("deferred attach not applied after the pass")
	}
}
