// Package app is the host the event pipelines run in: one World, one Bus
// and a phase-ordered Runner stepped once per tick.
package app

import (
	"reflect"
	"time"

	"go.uber.org/zap"

	"github.com/l1jgo/eventlistener/internal/core/ecs"
	"github.com/l1jgo/eventlistener/internal/core/event"
	coresys "github.com/l1jgo/eventlistener/internal/core/system"
)

type App struct {
	world  *ecs.World
	bus    *event.Bus
	runner *coresys.Runner
	log    *zap.Logger
	events map[reflect.Type]struct{}
	ticks  uint64
}

// New creates an App with the cleanup system already scheduled.
func New(log *zap.Logger) *App {
	a := &App{
		world:  ecs.NewWorld(),
		bus:    event.NewBus(),
		runner: coresys.NewRunner(),
		log:    log,
		events: make(map[reflect.Type]struct{}),
	}
	a.runner.Register(NewCleanupSystem(a.world, log))
	return a
}

func (a *App) World() *ecs.World   { return a.world }
func (a *App) Bus() *event.Bus     { return a.bus }
func (a *App) Logger() *zap.Logger { return a.log }
func (a *App) Ticks() uint64       { return a.ticks }

func (a *App) AddSystem(s coresys.System) {
	a.runner.Register(s)
}

func (a *App) ClaimEvent(t reflect.Type) bool {
	if _, ok := a.events[t]; ok {
		return false
	}
	a.events[t] = struct{}{}
	return true
}

// Tick runs every phase once.
func (a *App) Tick(dt time.Duration) {
	a.ticks++
	a.runner.Tick(dt)
}
