package system

import (
	"fmt"
	"time"
)

// Runner steps its systems once per tick, phase by phase. Within a phase
// systems run in registration order; how systems of one phase are ordered
// relative to each other beyond that is up to whoever registers them.
type Runner struct {
	phases [phaseCount][]System
	n      int
}

func NewRunner() *Runner {
	return &Runner{}
}

// Register schedules s in s.Phase(). It panics on a phase outside the
// known range, which is a programming error.
func (r *Runner) Register(s System) {
	p := s.Phase()
	if p < 0 || p >= phaseCount {
		panic(fmt.Sprintf("system: register in unknown phase %d", p))
	}
	r.phases[p] = append(r.phases[p], s)
	r.n++
}

// Len returns the number of registered systems.
func (r *Runner) Len() int { return r.n }

// Systems returns the systems of phase p in run order.
func (r *Runner) Systems(p Phase) []System {
	if p < 0 || p >= phaseCount {
		return nil
	}
	return r.phases[p]
}

func (r *Runner) Tick(dt time.Duration) {
	for p := range r.phases {
		for _, s := range r.phases[p] {
			s.Update(dt)
		}
	}
}

// TickPhase runs only the systems of phase p.
func (r *Runner) TickPhase(p Phase, dt time.Duration) {
	for _, s := range r.Systems(p) {
		s.Update(dt)
	}
}
