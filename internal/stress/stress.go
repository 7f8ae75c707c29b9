// Package stress builds a DOM-like hierarchy for load tests: many deep
// chains with a fraction of the nodes listening.
package stress

import (
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/l1jgo/eventlistener/internal/app"
	"github.com/l1jgo/eventlistener/internal/core/ecs"
	"github.com/l1jgo/eventlistener/internal/core/event"
	"github.com/l1jgo/eventlistener/internal/listener"
)

// Click is the stress event. Listeners add one to Hops.
type Click struct {
	On   ecs.EntityID
	Hops int
}

func (c Click) Target() ecs.EntityID { return c.On }

type Options struct {
	Depth   int     // nodes per chain
	Width   int     // chains
	Density float64 // share of nodes with a listener
	Seed    uint64
}

// DefaultOptions is 200 chains of depth 64, 12,800 nodes, 20% listening.
func DefaultOptions() Options {
	return Options{Depth: 64, Width: 200, Density: 0.2, Seed: 1}
}

// Tree is a built stress hierarchy.
type Tree struct {
	App       *app.App
	Pipeline  *listener.Pipeline[Click]
	Leaves    []ecs.EntityID
	Nodes     int
	Listening int
	rng       *rand.Rand
}

func bump(_ *listener.Context, ev *listener.Listened[Click]) error {
	ev.Event().Hops++
	return nil
}

// Build spawns the hierarchy in a fresh App.
func Build(opts Options, log *zap.Logger) (*Tree, error) {
	a := app.New(log)
	p, err := listener.Register[Click](a)
	if err != nil {
		return nil, err
	}
	t := &Tree{
		App:      a,
		Pipeline: p,
		Leaves:   make([]ecs.EntityID, 0, opts.Width),
		rng:      rand.New(rand.NewPCG(opts.Seed, opts.Seed+1)),
	}
	on := listener.Run(bump)
	w := a.World()
	for range opts.Width {
		cur := w.CreateEntity()
		t.Nodes++
		for d := 1; d <= opts.Depth; d++ {
			if t.rng.Float64() < opts.Density {
				if err := p.Attach(cur, on); err != nil {
					return nil, err
				}
				t.Listening++
			}
			if d == opts.Depth {
				break
			}
			next, err := w.CreateChild(cur)
			if err != nil {
				return nil, err
			}
			t.Nodes++
			cur = next
		}
		t.Leaves = append(t.Leaves, cur)
	}
	return t, nil
}

// Emit queues n clicks on random leaves.
func (t *Tree) Emit(n int) {
	bus := t.App.Bus()
	for range n {
		event.Emit(bus, Click{On: t.Leaves[t.rng.IntN(len(t.Leaves))]})
	}
}

// Result is one measured pass.
type Result struct {
	Events   int
	Report   listener.PassReport
	PerEvent time.Duration
}

// Pass emits n clicks and runs one pass over them.
func (t *Tree) Pass(n int) Result {
	t.Emit(n)
	rep := t.Pipeline.Run()
	r := Result{Events: n, Report: rep}
	if n > 0 {
		r.PerEvent = rep.Duration / time.Duration(n)
	}
	return r
}
