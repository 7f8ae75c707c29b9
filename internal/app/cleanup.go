package app

import (
	"time"

	"go.uber.org/zap"

	"github.com/l1jgo/eventlistener/internal/core/ecs"
	coresys "github.com/l1jgo/eventlistener/internal/core/system"
)

// CleanupSystem applies the structural commands deferred during the tick.
// Phase Cleanup, so every event pass of the tick has finished.
type CleanupSystem struct {
	world *ecs.World
	log   *zap.Logger
}

func NewCleanupSystem(world *ecs.World, log *zap.Logger) *CleanupSystem {
	return &CleanupSystem{world: world, log: log}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	if err := s.world.FlushCommands(); err != nil {
		s.log.Warn("deferred command failed", zap.Error(err))
	}
}
