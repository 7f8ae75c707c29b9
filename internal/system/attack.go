package system

import (
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/l1jgo/eventlistener/internal/combat"
	"github.com/l1jgo/eventlistener/internal/core/ecs"
	"github.com/l1jgo/eventlistener/internal/core/event"
	coresys "github.com/l1jgo/eventlistener/internal/core/system"
)

// AttackSystem emits one Attack of random damage against a random piece of
// armor every interval ticks. Phase 1 (Update).
type AttackSystem struct {
	comps     *combat.Components
	bus       *event.Bus
	rng       *rand.Rand
	log       *zap.Logger
	maxDamage uint16
	interval  int
	tickCount int
	idle      bool
}

// NewAttackSystem seeds its source with seed, so equal seeds replay the
// same fight.
func NewAttackSystem(comps *combat.Components, bus *event.Bus, log *zap.Logger, seed uint64, maxDamage uint16, intervalTicks int) *AttackSystem {
	if intervalTicks < 1 {
		intervalTicks = 1
	}
	if maxDamage == 0 {
		maxDamage = 1
	}
	return &AttackSystem{
		comps:     comps,
		bus:       bus,
		rng:       rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		log:       log,
		maxDamage: maxDamage,
		interval:  intervalTicks,
	}
}

func (s *AttackSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *AttackSystem) Update(_ time.Duration) {
	s.tickCount++
	if s.tickCount < s.interval {
		return
	}
	s.tickCount = 0
	if _, ok := s.Strike(); !ok && !s.idle {
		s.idle = true
		s.log.Info("no armor left to attack")
	}
}

// Strike emits one attack immediately. It reports false when no entity
// wears armor.
func (s *AttackSystem) Strike() (combat.Attack, bool) {
	targets := ecs.IDs(s.comps.Armor)
	if len(targets) == 0 {
		return combat.Attack{}, false
	}
	atk := combat.Attack{
		Victim: targets[s.rng.IntN(len(targets))],
		Damage: uint16(s.rng.IntN(int(s.maxDamage))) + 1,
	}
	s.log.Info("ATTACK",
		zap.Uint16("damage", atk.Damage),
		zap.String("target", s.comps.NameOf(atk.Victim)))
	event.Emit(s.bus, atk)
	return atk, true
}
