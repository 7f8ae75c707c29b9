package ecs

import "fmt"

// EntityID packs a slot index (low 32 bits) and the slot's generation
// (high 32 bits). Destroying an entity bumps the generation, so ids held
// past a destroy stop resolving.
//
// Slot 0 is never handed out: the zero EntityID means "no entity".
type EntityID uint64

func NewEntityID(index uint32, generation uint32) EntityID {
	return EntityID(uint64(generation)<<32 | uint64(index))
}

func (id EntityID) Index() uint32      { return uint32(id) }
func (id EntityID) Generation() uint32 { return uint32(id >> 32) }
func (id EntityID) IsZero() bool       { return id == 0 }

func (id EntityID) String() string {
	return fmt.Sprintf("%dv%d", id.Index(), id.Generation())
}

type slot struct {
	generation uint32
	live       bool
}

// EntityPool hands out ids, recycling freed slots last-in first-out.
type EntityPool struct {
	slots []slot
	free  []uint32
	alive int
}

func NewEntityPool() *EntityPool {
	return &EntityPool{
		slots: make([]slot, 1, 1024), // slot 0 stays unused
		free:  make([]uint32, 0, 256),
	}
}

func (p *EntityPool) Create() EntityID {
	var idx uint32
	if n := len(p.free); n > 0 {
		idx = p.free[n-1]
		p.free = p.free[:n-1]
	} else {
		idx = uint32(len(p.slots))
		p.slots = append(p.slots, slot{})
	}
	p.slots[idx].live = true
	p.alive++
	return NewEntityID(idx, p.slots[idx].generation)
}

// Alive reports whether id was handed out and not destroyed since.
func (p *EntityPool) Alive(id EntityID) bool {
	idx := id.Index()
	if idx == 0 || int(idx) >= len(p.slots) {
		return false
	}
	s := p.slots[idx]
	return s.live && s.generation == id.Generation()
}

// Destroy frees the slot of id. It reports false for stale or unknown ids.
func (p *EntityPool) Destroy(id EntityID) bool {
	if !p.Alive(id) {
		return false
	}
	s := &p.slots[id.Index()]
	s.live = false
	s.generation++
	p.free = append(p.free, id.Index())
	p.alive--
	return true
}

// Len returns the number of live entities.
func (p *EntityPool) Len() int { return p.alive }
