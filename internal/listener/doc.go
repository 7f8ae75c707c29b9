// Package listener attaches per-entity event listeners and bubbles
// entity-targeted events up the entity hierarchy.
//
// An event type E implements event.EntityEvent. One Pipeline per event type
// is registered with the host; producers call event.Emit and each tick the
// pipeline drains the pending events, builds a propagation Forest covering
// every target's ancestor chain, then walks each event from its target
// toward the root, invoking the On[E] callback of every entity on the way
// until one of them calls StopPropagation.
//
// Callbacks never observe a hierarchy mutated mid-pass: the World is locked
// for the duration of the pass and structural changes are buffered as
// commands, applied in the cleanup phase.
package listener
