package listener

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/l1jgo/eventlistener/internal/core/ecs"
	"github.com/l1jgo/eventlistener/internal/core/event"
	coresys "github.com/l1jgo/eventlistener/internal/core/system"
)

// Host is what Register needs from the application: the entity store, the
// event queues and a scheduler slot.
type Host interface {
	World() *ecs.World
	Bus() *event.Bus
	Logger() *zap.Logger
	AddSystem(s coresys.System)
	// ClaimEvent reserves t for one pipeline. It reports false if t was
	// already claimed.
	ClaimEvent(t reflect.Type) bool
}

type options struct {
	hierarchy    Hierarchy
	phase        coresys.Phase
	sinks        []func(PassReport)
	missingLevel zapcore.Level
}

// Option configures a Pipeline.
type Option func(*options)

// WithHierarchy reads parent links from h instead of the World.
func WithHierarchy(h Hierarchy) Option {
	return func(o *options) { o.hierarchy = h }
}

// WithPhase schedules the pipeline in phase p (default PhaseEvents).
func WithPhase(p coresys.Phase) Option {
	return func(o *options) { o.phase = p }
}

// WithReportSink receives every non-empty PassReport.
func WithReportSink(fn func(PassReport)) Option {
	return func(o *options) { o.sinks = append(o.sinks, fn) }
}

// WithMissingTargetLevel sets the log level of dropped-event diagnostics
// (default Warn).
func WithMissingTargetLevel(l zapcore.Level) Option {
	return func(o *options) { o.missingLevel = l }
}

// Pipeline is the per-event-type system: each Update drains the pending
// events of E, builds the forest and bubbles every event through it.
type Pipeline[E event.EntityEvent] struct {
	name      string
	world     *ecs.World
	bus       *event.Bus
	listeners *Listeners[E]
	bubbler   *Bubbler[E]
	forest    *Forest
	accepted  []E
	opts      options
	log       *zap.Logger
	tick      uint64
}

// NewPipeline builds a pipeline without scheduling it. Most callers want
// Register.
func NewPipeline[E event.EntityEvent](w *ecs.World, bus *event.Bus, log *zap.Logger, opts ...Option) *Pipeline[E] {
	o := options{
		hierarchy:    w,
		phase:        coresys.PhaseEvents,
		missingLevel: zapcore.WarnLevel,
	}
	for _, fn := range opts {
		fn(&o)
	}
	name := reflect.TypeFor[E]().String()
	log = log.With(zap.String("event", name))
	listeners := NewListeners[E](w, log)
	return &Pipeline[E]{
		name:      name,
		world:     w,
		bus:       bus,
		listeners: listeners,
		bubbler:   NewBubbler(listeners, log),
		forest:    NewForest(),
		opts:      o,
		log:       log,
	}
}

// Register adds the pipeline for E to the host. It must be called once per
// event type, before events of that type are emitted.
func Register[E event.EntityEvent](h Host, opts ...Option) (*Pipeline[E], error) {
	t := reflect.TypeFor[E]()
	if !h.ClaimEvent(t) {
		return nil, fmt.Errorf("register %s: %w", t, ErrPipelineRegistered)
	}
	p := NewPipeline[E](h.World(), h.Bus(), h.Logger(), opts...)
	h.AddSystem(p)
	return p, nil
}

func (p *Pipeline[E]) Listeners() *Listeners[E] { return p.listeners }

// Forest exposes the forest of the most recent pass.
func (p *Pipeline[E]) Forest() *Forest { return p.forest }

// Attach is shorthand for p.Listeners().Attach.
func (p *Pipeline[E]) Attach(id ecs.EntityID, on On[E]) error {
	return p.listeners.Attach(id, on)
}

func (p *Pipeline[E]) Phase() coresys.Phase { return p.opts.phase }

func (p *Pipeline[E]) Update(_ time.Duration) { p.Run() }

// Run performs one pass over the pending events and returns its report.
func (p *Pipeline[E]) Run() PassReport {
	p.tick++
	events := event.Drain[E](p.bus)
	report := PassReport{Event: p.name, Tick: p.tick, Events: len(events)}
	if len(events) == 0 {
		return report
	}
	start := time.Now()
	p.traverse(events, &report)
	report.Duration = time.Since(start)

	logReport(p.log, report)
	for _, sink := range p.opts.sinks {
		sink(report)
	}
	return report
}

func (p *Pipeline[E]) traverse(events []E, report *PassReport) {
	p.world.Lock()
	p.listeners.freeze()
	defer func() {
		p.listeners.thaw()
		p.world.Unlock()
	}()

	p.build(events, report)
	ctx := &Context{
		World:    p.world,
		Commands: p.world.Commands(),
		Bus:      p.bus,
		Log:      p.log,
	}
	p.bubbler.Dispatch(ctx, p.forest, p.accepted, report)
}

func (p *Pipeline[E]) build(events []E, report *PassReport) {
	p.forest.Reset()
	clear(p.accepted)
	p.accepted = p.accepted[:0]
	for _, ev := range events {
		err := p.forest.Insert(ev.Target(), p.opts.hierarchy, p.listeners.Has)
		switch {
		case err == nil:
		case errors.Is(err, ErrMissingTarget):
			report.Dropped++
			if ce := p.log.Check(p.opts.missingLevel, "event dropped, target missing"); ce != nil {
				ce.Write(zap.Stringer("target", ev.Target()))
			}
			continue
		case errors.Is(err, ErrCycleDetected):
			report.Cycles++
			p.log.Error("entity hierarchy integrity violation", zap.Error(err))
		default:
			p.log.Error("forest insert failed", zap.Error(err))
			continue
		}
		p.accepted = append(p.accepted, ev)
	}
	report.Nodes = p.forest.Len()
	report.ParentLookups = p.forest.ParentLookups()
}
