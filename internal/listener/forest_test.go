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

func none(ecs.EntityID) bool { return false }

func TestForestSharesAncestorSuffix(t *testing.T) {
	fh := newFakeHierarchy()
	// trunk 100 <- 101 <- ... <- 109 (109 is the root)
	for id := ecs.EntityID(100); id < 109; id++ {
		fh.parents[id] = id + 1
	}
	// 20 leaves hang off the bottom of the trunk
	var leaves []ecs.EntityID
	for i := 0; i < 20; i++ {
		leaf := ecs.EntityID(1000 + i)
		fh.parents[leaf] = 100
		leaves = append(leaves, leaf)
	}

	f := NewForest()
	for _, leaf := range leaves {
		if err := f.Insert(leaf, fh, none); err != nil {
			t.Fatal(err)
		}
	}

	// unique nodes: 20 leaves + 10 trunk entities
	if f.Len() != 30 {
		t.Errorf("Len = %d want 30", f.Len())
	}
	// one lookup per node: trunk walked once, each later leaf stops at 100
	if f.ParentLookups() != 30 || fh.lookups != 30 {
		t.Errorf("parent lookups = %d (hierarchy saw %d), want 30", f.ParentLookups(), fh.lookups)
	}
	path := f.Path(leaves[7])
	if len(path) != 11 || path[0] != leaves[7] || path[10] != 109 {
		t.Errorf("Path = %v", path)
	}
}

func TestForestTargetAlreadyCovered(t *testing.T) {
	fh := newFakeHierarchy()
	fh.parents[1] = 2
	f := NewForest()
	if err := f.Insert(1, fh, none); err != nil {
		t.Fatal(err)
	}
	before := fh.lookups
	if err := f.Insert(2, fh, none); err != nil {
		t.Fatal(err)
	}
	if err := f.Insert(1, fh, none); err != nil {
		t.Fatal(err)
	}
	if fh.lookups != before {
		t.Errorf("covered targets caused %d extra lookups", fh.lookups-before)
	}
}

func TestForestRecordsListeners(t *testing.T) {
	fh := newFakeHierarchy()
	fh.parents[1] = 2
	fh.parents[2] = 3
	f := NewForest()
	listening := func(id ecs.EntityID) bool { return id == 2 }
	if err := f.Insert(1, fh, listening); err != nil {
		t.Fatal(err)
	}
	for id, want := range map[ecs.EntityID]bool{1: false, 2: true, 3: false} {
		i, ok := f.Lookup(id)
		if !ok {
			t.Fatalf("%s missing from forest", id)
		}
		if f.Node(i).HasListener != want {
			t.Errorf("%s HasListener = %v", id, !want)
		}
	}
	if i, _ := f.Lookup(3); f.Node(i).Parent != NoParent {
		t.Error("root has a parent")
	}
}

func TestForestMissingTarget(t *testing.T) {
	fh := newFakeHierarchy()
	fh.dead[5] = true
	f := NewForest()
	if err := f.Insert(5, fh, none); !errors.Is(err, ErrMissingTarget) {
		t.Fatalf("expected ErrMissingTarget, got %v", err)
	}
	if f.Len() != 0 || fh.lookups != 0 {
		t.Error("missing target touched the forest")
	}
}

func TestForestDeadParentEndsPath(t *testing.T) {
	fh := newFakeHierarchy()
	fh.parents[1] = 2
	fh.parents[2] = 3
	fh.dead[2] = true
	f := NewForest()
	if err := f.Insert(1, fh, none); err != nil {
		t.Fatal(err)
	}
	if p := f.Path(1); len(p) != 1 {
		t.Errorf("Path = %v, want just the target", p)
	}
}

func TestForestCycleDetected(t *testing.T) {
	fh := newFakeHierarchy()
	fh.parents[1] = 2
	fh.parents[2] = 3
	fh.parents[3] = 1
	f := NewForest()
	err := f.Insert(1, fh, none)
	if !errors.Is(err, ErrCycleDetected) {
		t.Fatalf("expected ErrCycleDetected, got %v", err)
	}
	path := f.Path(1)
	if len(path) != 3 {
		t.Errorf("truncated path = %v, want 3 entities", path)
	}

	// a later walk into the same loop reuses the cut path without error
	fh.parents[7] = 3
	if err := f.Insert(7, fh, none); err != nil {
		t.Errorf("walk joining an existing path reported %v", err)
	}
}

func TestPipelineReportsCycle(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	h := newTestHost(zap.New(core))
	fh := newFakeHierarchy()
	p, _ := Register[poke](h, WithHierarchy(fh))
	a := h.world.CreateEntity()
	b := h.world.CreateEntity()
	fh.parents[a] = b
	fh.parents[b] = a

	var seen []ecs.EntityID
	mustAttach(t, p, a, visit(&seen))
	mustAttach(t, p, b, visit(&seen))
	event.Emit(h.bus, poke{to: a})
	r := p.Run()

	if r.Cycles != 1 {
		t.Errorf("Cycles = %d", r.Cycles)
	}
	if !sameIDs(seen, []ecs.EntityID{a, b}) {
		t.Errorf("seen = %v, want each entity once", seen)
	}
	if logs.FilterMessage("entity hierarchy integrity violation").Len() != 1 {
		t.Errorf("cycle not reported: %v", logs.All())
	}
}

func TestForestResetReuses(t *testing.T) {
	fh := newFakeHierarchy()
	fh.parents[1] = 2
	f := NewForest()
	_ = f.Insert(1, fh, none)
	f.Reset()
	if f.Len() != 0 || f.ParentLookups() != 0 {
		t.Fatal("Reset left state behind")
	}
	if _, ok := f.Lookup(1); ok {
		t.Error("index not cleared")
	}
}

func BenchmarkForestInsert(b *testing.B) {
	fh := newFakeHierarchy()
	const depth = 64
	for id := ecs.EntityID(1); id < depth; id++ {
		fh.parents[id] = id + 1
	}
	f := NewForest()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		f.Reset()
		for j := 0; j < 50; j++ {
			_ = f.Insert(1, fh, none)
		}
	}
}
