package listener

import (
	"errors"
	"fmt"

	"github.com/l1jgo/eventlistener/internal/core/ecs"
)

var (
	// ErrMissingTarget means the event's target was not alive when the pass ran.
	ErrMissingTarget = errors.New("event target does not exist")
	// ErrDuplicateListener means the entity already has a listener for the event type.
	ErrDuplicateListener = errors.New("listener already attached")
	// ErrCycleDetected means the parent relation revisited an entity on one walk.
	ErrCycleDetected = errors.New("parent relation contains a cycle")
	// ErrPipelineRegistered means Register was called twice for one event type.
	ErrPipelineRegistered = errors.New("event pipeline already registered")
)

// CallbackFault is a listener callback failure. It aborts the rest of the
// event's propagation; it is never retried.
type CallbackFault struct {
	Event    string
	Target   ecs.EntityID
	Listener ecs.EntityID
	Err      error
}

func (f *CallbackFault) Error() string {
	return fmt.Sprintf("%s listener on %s (target %s): %v", f.Event, f.Listener, f.Target, f.Err)
}

func (f *CallbackFault) Unwrap() error { return f.Err }
