package system

import (
	"context"
	"time"

	"go.uber.org/zap"

	coresys "github.com/l1jgo/eventlistener/internal/core/system"
	"github.com/l1jgo/eventlistener/internal/listener"
)

// JournalWriter stores a batch of pass reports atomically.
type JournalWriter interface {
	Write(ctx context.Context, reports []listener.PassReport) error
}

// JournalSystem buffers pass reports and writes them every interval ticks.
// Phase 3 (Persist). A failed write keeps the batch for the next flush.
type JournalSystem struct {
	writer    JournalWriter
	log       *zap.Logger
	pending   []listener.PassReport
	limit     int
	tickCount int
	interval  int
	timeout   time.Duration
}

func NewJournalSystem(writer JournalWriter, log *zap.Logger, intervalTicks int) *JournalSystem {
	if intervalTicks < 1 {
		intervalTicks = 1
	}
	return &JournalSystem{
		writer:   writer,
		log:      log,
		pending:  make([]listener.PassReport, 0, 64),
		limit:    4096,
		interval: intervalTicks,
		timeout:  5 * time.Second,
	}
}

// Record is a listener.WithReportSink callback.
func (s *JournalSystem) Record(r listener.PassReport) {
	if len(s.pending) >= s.limit {
		// writer is down; keep the newest reports
		copy(s.pending, s.pending[1:])
		s.pending = s.pending[:len(s.pending)-1]
	}
	s.pending = append(s.pending, r)
}

// Pending returns the number of buffered reports.
func (s *JournalSystem) Pending() int { return len(s.pending) }

func (s *JournalSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *JournalSystem) Update(_ time.Duration) {
	s.tickCount++
	if s.tickCount < s.interval {
		return
	}
	s.tickCount = 0
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	s.Flush(ctx)
}

// Flush writes everything buffered. Called on shutdown as well.
func (s *JournalSystem) Flush(ctx context.Context) error {
	if len(s.pending) == 0 {
		return nil
	}
	if err := s.writer.Write(ctx, s.pending); err != nil {
		s.log.Error("journal flush failed", zap.Int("reports", len(s.pending)), zap.Error(err))
		return err
	}
	s.log.Debug("journal flushed", zap.Int("reports", len(s.pending)))
	clear(s.pending)
	s.pending = s.pending[:0]
	return nil
}
