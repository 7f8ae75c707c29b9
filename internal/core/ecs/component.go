package ecs

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrMissingComponent is returned by Require when an entity lacks the
// requested component.
var ErrMissingComponent = errors.New("missing component")

// Removable is a store the Registry can purge a destroyed entity from.
type Removable interface {
	Remove(id EntityID)
}

// PtrComponentStore maps entities to a pointer to their component of type
// T. Callers mutate components in place through the returned pointer.
type PtrComponentStore[T any] struct {
	data map[EntityID]*T
}

func NewPtrComponentStore[T any]() *PtrComponentStore[T] {
	return &PtrComponentStore[T]{data: make(map[EntityID]*T, 256)}
}

// Set attaches c to id, replacing any component already there.
func (s *PtrComponentStore[T]) Set(id EntityID, c *T) { s.data[id] = c }

func (s *PtrComponentStore[T]) Get(id EntityID) (*T, bool) {
	c, ok := s.data[id]
	return c, ok
}

func (s *PtrComponentStore[T]) Has(id EntityID) bool {
	_, ok := s.data[id]
	return ok
}

func (s *PtrComponentStore[T]) Remove(id EntityID) { delete(s.data, id) }

// Take removes the component of id and returns it.
func (s *PtrComponentStore[T]) Take(id EntityID) (*T, bool) {
	c, ok := s.data[id]
	if ok {
		delete(s.data, id)
	}
	return c, ok
}

func (s *PtrComponentStore[T]) Len() int { return len(s.data) }

// Each visits every component in no particular order. Use IDs when the
// order matters.
func (s *PtrComponentStore[T]) Each(fn func(EntityID, *T)) {
	for id, c := range s.data {
		fn(id, c)
	}
}

// Require returns the component of id or an error wrapping ErrMissingComponent.
// Listener callbacks use it to fail fast on a misconfigured entity.
func Require[T any](s *PtrComponentStore[T], id EntityID) (*T, error) {
	c, ok := s.data[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s on entity %s", ErrMissingComponent, reflect.TypeFor[T]().String(), id)
	}
	return c, nil
}
