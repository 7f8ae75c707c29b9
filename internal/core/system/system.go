package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput   Phase = iota // 0: external input, producers enqueue events
	PhaseUpdate               // 1: game logic, producers enqueue events
	PhaseEvents               // 2: one pass per registered event type
	PhasePersist              // 3: journal flush
	PhaseCleanup              // 4: apply deferred structural commands

	phaseCount
)

func (p Phase) String() string {
	switch p {
	case PhaseInput:
		return "input"
	case PhaseUpdate:
		return "update"
	case PhaseEvents:
		return "events"
	case PhasePersist:
		return "persist"
	case PhaseCleanup:
		return "cleanup"
	}
	return "unknown"
}

// System is the interface every ECS system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
