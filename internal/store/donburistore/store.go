// Package donburistore keeps the parent links of an entity hierarchy in a
// donburi world, for hosts whose scene graph already lives there. Pass a
// *Store to listener.WithHierarchy; listeners and components stay in the
// ecs.World.
package donburistore

import (
	"fmt"

	"github.com/yohamta/donburi"

	"github.com/l1jgo/eventlistener/internal/core/ecs"
)

// Link records which ecs entity a donburi entry mirrors.
type Link struct {
	ID ecs.EntityID
}

// ParentOf is the parent link of a mirrored entity.
type ParentOf struct {
	ID ecs.EntityID
}

var (
	LinkType   = donburi.NewComponentType[Link]()
	ParentType = donburi.NewComponentType[ParentOf]()
)

// Store mirrors ecs entities into a donburi world. Parent links are taken
// as given: nothing stops a caller from closing a cycle, which the pass
// reports as an integrity violation.
type Store struct {
	world   *ecs.World
	donburi donburi.World
	entries map[ecs.EntityID]donburi.Entity
}

func New(w *ecs.World, dw donburi.World) *Store {
	return &Store{
		world:   w,
		donburi: dw,
		entries: make(map[ecs.EntityID]donburi.Entity),
	}
}

// World returns the donburi world the links live in.
func (s *Store) World() donburi.World { return s.donburi }

// Spawn creates an entity in the ecs.World and mirrors it. A zero parent
// makes it a root.
func (s *Store) Spawn(parent ecs.EntityID) (ecs.EntityID, error) {
	if !parent.IsZero() && !s.Alive(parent) {
		return 0, fmt.Errorf("spawn under %s: %w", parent, ecs.ErrDeadEntity)
	}
	id := s.world.CreateEntity()
	s.Track(id)
	if !parent.IsZero() {
		s.Link(id, parent)
	}
	return id, nil
}

// Track mirrors an existing ecs entity as a root.
func (s *Store) Track(id ecs.EntityID) {
	if _, ok := s.entries[id]; ok {
		return
	}
	e := s.donburi.Create(LinkType)
	LinkType.SetValue(s.donburi.Entry(e), Link{ID: id})
	s.entries[id] = e
}

// Link sets the parent of child, adding the link if it has none.
func (s *Store) Link(child, parent ecs.EntityID) {
	entry, ok := s.entry(child)
	if !ok {
		return
	}
	if entry.HasComponent(ParentType) {
		ParentType.SetValue(entry, ParentOf{ID: parent})
		return
	}
	donburi.Add(entry, ParentType, &ParentOf{ID: parent})
}

// Unlink makes id a root.
func (s *Store) Unlink(id ecs.EntityID) {
	if entry, ok := s.entry(id); ok && entry.HasComponent(ParentType) {
		entry.RemoveComponent(ParentType)
	}
}

// Forget removes the mirror of id. The ecs entity is left alone.
func (s *Store) Forget(id ecs.EntityID) {
	e, ok := s.entries[id]
	if !ok {
		return
	}
	delete(s.entries, id)
	if s.donburi.Valid(e) {
		s.donburi.Remove(e)
	}
}

// Len returns the number of mirrored entities.
func (s *Store) Len() int { return len(s.entries) }

func (s *Store) entry(id ecs.EntityID) (*donburi.Entry, bool) {
	e, ok := s.entries[id]
	if !ok || !s.donburi.Valid(e) {
		return nil, false
	}
	return s.donburi.Entry(e), true
}

// Alive reports whether id is alive in the ecs.World and mirrored here.
func (s *Store) Alive(id ecs.EntityID) bool {
	if !s.world.Alive(id) {
		return false
	}
	_, ok := s.entry(id)
	return ok
}

func (s *Store) Parent(id ecs.EntityID) (ecs.EntityID, bool) {
	entry, ok := s.entry(id)
	if !ok || !entry.HasComponent(ParentType) {
		return 0, false
	}
	return ParentType.Get(entry).ID, true
}
