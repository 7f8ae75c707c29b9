package donburistore

import (
	"time"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"

	coresys "github.com/l1jgo/eventlistener/internal/core/system"
	"github.com/l1jgo/eventlistener/internal/listener"
)

// PassReportType carries pass reports to donburi systems. Subscribe with
// PassReportType.Subscribe; reports are delivered by ProcessEvents.
var PassReportType = events.NewEventType[listener.PassReport]()

// Publish is a listener.WithReportSink callback.
func (s *Store) Publish(r listener.PassReport) {
	PassReportType.Publish(s.donburi, r)
}

// ReportSystem delivers queued reports to subscribers once per tick.
// Phase 3 (Persist).
type ReportSystem struct {
	world donburi.World
}

func NewReportSystem(w donburi.World) *ReportSystem {
	return &ReportSystem{world: w}
}

func (s *ReportSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *ReportSystem) Update(_ time.Duration) {
	PassReportType.ProcessEvents(s.world)
}
