package event

import (
	"testing"

	"github.com/l1jgo/eventlistener/internal/core/ecs"
)

type ping struct {
	to ecs.EntityID
	n  int
}

func (p ping) Target() ecs.EntityID { return p.to }

type pong struct{ n int }

func TestDrainPreservesEmitOrder(t *testing.T) {
	b := NewBus()
	for i := 0; i < 5; i++ {
		Emit(b, ping{n: i})
	}
	Emit(b, pong{n: 99})

	got := Drain[ping](b)
	if len(got) != 5 {
		t.Fatalf("expected 5 pings, got %d", len(got))
	}
	for i, p := range got {
		if p.n != i {
			t.Errorf("event %d out of order: n=%d", i, p.n)
		}
	}
	if Pending[pong](b) != 1 {
		t.Error("draining one type must not touch another")
	}
	if len(Drain[ping](b)) != 0 {
		t.Error("second drain should be empty")
	}
}

func TestEmitDuringBatchGoesToNextDrain(t *testing.T) {
	b := NewBus()
	Emit(b, ping{n: 1})
	batch := Drain[ping](b)

	Emit(b, ping{n: 2})
	if len(batch) != 1 || batch[0].n != 1 {
		t.Fatalf("drained batch changed by later emit: %+v", batch)
	}
	next := Drain[ping](b)
	if len(next) != 1 || next[0].n != 2 {
		t.Fatalf("expected follow-up event in next drain, got %+v", next)
	}
}

func TestPendingUnknownType(t *testing.T) {
	if n := Pending[pong](NewBus()); n != 0 {
		t.Errorf("Pending on empty bus = %d", n)
	}
}
