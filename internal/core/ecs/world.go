package ecs

import (
	"errors"
	"fmt"
)

var (
	// ErrDeadEntity is returned for operations on destroyed or unknown entities.
	ErrDeadEntity = errors.New("entity not alive")
	// ErrHierarchyCycle is returned when a SetParent would make an entity its own ancestor.
	ErrHierarchyCycle = errors.New("hierarchy cycle")
)

// World is the top-level ECS container. It owns the entity pool, the component
// registry, the parent/child hierarchy and a deferred command buffer flushed
// by the cleanup system each tick.
//
// While locked (an event pass is traversing the hierarchy) structural
// mutations are not applied; Destroy, DestroyRecursive, SetParent and
// RemoveParent are recorded into the command buffer instead.
type World struct {
	pool     *EntityPool
	registry *Registry
	parents  map[EntityID]EntityID
	children map[EntityID][]EntityID
	commands *Commands
	locks    int
}

func NewWorld() *World {
	return &World{
		pool:     NewEntityPool(),
		registry: NewRegistry(),
		parents:  make(map[EntityID]EntityID, 256),
		children: make(map[EntityID][]EntityID, 64),
		commands: newCommands(),
	}
}

func (w *World) Pool() *EntityPool      { return w.pool }
func (w *World) Registry() *Registry    { return w.registry }
func (w *World) Commands() *Commands    { return w.commands }
func (w *World) Len() int               { return w.pool.Len() }
func (w *World) Alive(id EntityID) bool { return w.pool.Alive(id) }

// CreateEntity allocates a new root entity. Creation never changes the
// ancestry of existing entities, so it is allowed while locked.
func (w *World) CreateEntity() EntityID {
	return w.pool.Create()
}

// CreateChild allocates a new entity parented to parent.
func (w *World) CreateChild(parent EntityID) (EntityID, error) {
	if !w.Alive(parent) {
		return 0, fmt.Errorf("create child of %s: %w", parent, ErrDeadEntity)
	}
	id := w.pool.Create()
	if w.Locked() {
		w.commands.SetParent(id, parent)
		return id, nil
	}
	w.link(id, parent)
	return id, nil
}

// Lock marks the start of a traversal. Calls nest.
func (w *World) Lock() { w.locks++ }

// Unlock ends a traversal started by Lock.
func (w *World) Unlock() {
	if w.locks == 0 {
		panic("ecs: Unlock of unlocked World")
	}
	w.locks--
}

func (w *World) Locked() bool { return w.locks > 0 }

// Parent returns the parent of id, if any.
func (w *World) Parent(id EntityID) (EntityID, bool) {
	p, ok := w.parents[id]
	return p, ok
}

// Children returns the direct children of id in insertion order.
// The slice is owned by the World and must not be modified.
func (w *World) Children(id EntityID) []EntityID {
	return w.children[id]
}

// Root walks up the hierarchy and returns the topmost ancestor of id.
func (w *World) Root(id EntityID) EntityID {
	for {
		p, ok := w.parents[id]
		if !ok {
			return id
		}
		id = p
	}
}

// SetParent makes child a child of parent, detaching it from any previous parent.
func (w *World) SetParent(child, parent EntityID) error {
	if w.Locked() {
		w.commands.SetParent(child, parent)
		return nil
	}
	return w.setParent(child, parent)
}

func (w *World) setParent(child, parent EntityID) error {
	if !w.Alive(child) {
		return fmt.Errorf("set parent of %s: %w", child, ErrDeadEntity)
	}
	if !w.Alive(parent) {
		return fmt.Errorf("set parent %s: %w", parent, ErrDeadEntity)
	}
	for a := parent; ; {
		if a == child {
			return fmt.Errorf("set parent of %s to %s: %w", child, parent, ErrHierarchyCycle)
		}
		next, ok := w.parents[a]
		if !ok {
			break
		}
		a = next
	}
	w.unlink(child)
	w.link(child, parent)
	return nil
}

// RemoveParent detaches id from its parent, making it a root.
func (w *World) RemoveParent(id EntityID) {
	if w.Locked() {
		w.commands.RemoveParent(id)
		return
	}
	w.unlink(id)
}

// Destroy removes id and all of its components. Its children become roots.
func (w *World) Destroy(id EntityID) {
	if w.Locked() {
		w.commands.Despawn(id)
		return
	}
	w.destroy(id)
}

// DestroyRecursive removes id together with all of its descendants.
func (w *World) DestroyRecursive(id EntityID) {
	if w.Locked() {
		w.commands.DespawnRecursive(id)
		return
	}
	w.destroyRecursive(id)
}

func (w *World) destroy(id EntityID) {
	if !w.Alive(id) {
		return
	}
	w.unlink(id)
	for _, c := range w.children[id] {
		delete(w.parents, c)
	}
	delete(w.children, id)
	w.registry.RemoveAll(id)
	w.pool.Destroy(id)
}

func (w *World) destroyRecursive(id EntityID) {
	if !w.Alive(id) {
		return
	}
	// copy: destroy mutates the children slice of id
	kids := append([]EntityID(nil), w.children[id]...)
	for _, c := range kids {
		w.destroyRecursive(c)
	}
	w.destroy(id)
}

func (w *World) link(child, parent EntityID) {
	w.parents[child] = parent
	w.children[parent] = append(w.children[parent], child)
}

func (w *World) unlink(child EntityID) {
	parent, ok := w.parents[child]
	if !ok {
		return
	}
	delete(w.parents, child)
	siblings := w.children[parent]
	for i, s := range siblings {
		if s == child {
			siblings = append(siblings[:i], siblings[i+1:]...)
			break
		}
	}
	if len(siblings) == 0 {
		delete(w.children, parent)
	} else {
		w.children[parent] = siblings
	}
}

// FlushCommands applies all deferred commands in the order they were
// recorded. Commands recorded while flushing run in the same flush.
// Individual command failures are joined into the returned error; the
// remaining commands still run.
func (w *World) FlushCommands() error {
	if w.Locked() {
		return errors.New("ecs: FlushCommands while World is locked")
	}
	return w.commands.apply(w)
}
