package listener

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// PassReport summarises one pass of one event pipeline.
type PassReport struct {
	Event         string
	Tick          uint64
	Events        int // drained from the queue
	Dispatched    int // reached the bubbler
	Dropped       int // target missing
	Invocations   int // callbacks run
	Stopped       int
	Faults        int
	Cycles        int
	Nodes         int
	ParentLookups int
	Duration      time.Duration
}

// MarshalLogObject lets a report be logged with zap.Object.
func (r PassReport) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("event", r.Event)
	enc.AddUint64("tick", r.Tick)
	enc.AddInt("events", r.Events)
	enc.AddInt("dispatched", r.Dispatched)
	enc.AddInt("dropped", r.Dropped)
	enc.AddInt("invocations", r.Invocations)
	enc.AddInt("stopped", r.Stopped)
	enc.AddInt("faults", r.Faults)
	enc.AddInt("cycles", r.Cycles)
	enc.AddInt("nodes", r.Nodes)
	enc.AddInt("parent_lookups", r.ParentLookups)
	enc.AddDuration("duration", r.Duration)
	return nil
}

var _ zapcore.ObjectMarshaler = PassReport{}

func logReport(log *zap.Logger, r PassReport) {
	if ce := log.Check(zap.DebugLevel, "event pass"); ce != nil {
		ce.Write(zap.Object("pass", r))
	}
}
