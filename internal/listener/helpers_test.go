package listener

import (
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/l1jgo/eventlistener/internal/core/ecs"
	"github.com/l1jgo/eventlistener/internal/core/event"
	coresys "github.com/l1jgo/eventlistener/internal/core/system"
)

type poke struct {
	to    ecs.EntityID
	power int
	id    int
}

func (p poke) Target() ecs.EntityID { return p.to }

type echo struct {
	from ecs.EntityID
}

func (e echo) Target() ecs.EntityID { return e.from }

type testHost struct {
	world   *ecs.World
	bus     *event.Bus
	log     *zap.Logger
	systems []coresys.System
	claimed map[reflect.Type]bool
}

func newTestHost(log *zap.Logger) *testHost {
	if log == nil {
		log = zap.NewNop()
	}
	return &testHost{
		world:   ecs.NewWorld(),
		bus:     event.NewBus(),
		log:     log,
		claimed: map[reflect.Type]bool{},
	}
}

func (h *testHost) World() *ecs.World          { return h.world }
func (h *testHost) Bus() *event.Bus            { return h.bus }
func (h *testHost) Logger() *zap.Logger        { return h.log }
func (h *testHost) AddSystem(s coresys.System) { h.systems = append(h.systems, s) }
func (h *testHost) ClaimEvent(t reflect.Type) bool {
	if h.claimed[t] {
		return false
	}
	h.claimed[t] = true
	return true
}

// chain creates n entities where each is the parent of the previous one
// and returns them leaf first.
func chain(t *testing.T, w *ecs.World, n int) []ecs.EntityID {
	t.Helper()
	ids := make([]ecs.EntityID, n)
	ids[n-1] = w.CreateEntity()
	for i := n - 2; i >= 0; i-- {
		id, err := w.CreateChild(ids[i+1])
		if err != nil {
			t.Fatal(err)
		}
		ids[i] = id
	}
	return ids
}

// visit is a callback that records the listener entity.
func visit(seen *[]ecs.EntityID) Callback[poke] {
	return func(_ *Context, ev *Listened[poke]) error {
		*seen = append(*seen, ev.Listener())
		return nil
	}
}

func mustAttach(t *testing.T, p *Pipeline[poke], id ecs.EntityID, cb Callback[poke]) {
	t.Helper()
	if err := p.Attach(id, Run(cb)); err != nil {
		t.Fatal(err)
	}
}

func sameIDs(a, b []ecs.EntityID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// fakeHierarchy is a parent table that can hold cycles and counts lookups.
type fakeHierarchy struct {
	parents map[ecs.EntityID]ecs.EntityID
	dead    map[ecs.EntityID]bool
	lookups int
}

func newFakeHierarchy() *fakeHierarchy {
	return &fakeHierarchy{
		parents: map[ecs.EntityID]ecs.EntityID{},
		dead:    map[ecs.EntityID]bool{},
	}
}

func (f *fakeHierarchy) Alive(id ecs.EntityID) bool { return id != 0 && !f.dead[id] }

func (f *fakeHierarchy) Parent(id ecs.EntityID) (ecs.EntityID, bool) {
	f.lookups++
	p, ok := f.parents[id]
	return p, ok
}
