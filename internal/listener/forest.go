package listener

import (
	"fmt"

	"github.com/l1jgo/eventlistener/internal/core/ecs"
)

// Hierarchy is the part of the entity store the forest builder reads.
// Any store answering both queries consistently for the length of a pass
// will do; *ecs.World is the default.
type Hierarchy interface {
	Alive(id ecs.EntityID) bool
	Parent(id ecs.EntityID) (ecs.EntityID, bool)
}

// NoParent marks a root node.
const NoParent = -1

// Node is one entity in the propagation forest.
type Node struct {
	Entity      ecs.EntityID
	HasListener bool
	Parent      int // index into the forest, NoParent at a root
}

// Forest records, for one batch of events of one type, every entity on the
// path from each target to its root together with whether that entity has
// a listener. Paths shared between events are stored once: a walk stops as
// soon as it reaches a node an earlier walk already added.
//
// A Forest is rebuilt every pass and reused across passes to keep its
// allocations.
type Forest struct {
	nodes   []Node
	stamps  []uint32 // walk that created each node
	index   map[ecs.EntityID]int
	walk    uint32
	lookups int
}

func NewForest() *Forest {
	return &Forest{
		nodes:  make([]Node, 0, 64),
		stamps: make([]uint32, 0, 64),
		index:  make(map[ecs.EntityID]int, 64),
	}
}

// Reset empties the forest, keeping its storage.
func (f *Forest) Reset() {
	f.nodes = f.nodes[:0]
	f.stamps = f.stamps[:0]
	clear(f.index)
	f.walk = 0
	f.lookups = 0
}

func (f *Forest) Len() int { return len(f.nodes) }

// ParentLookups counts Hierarchy.Parent calls since the last Reset.
func (f *Forest) ParentLookups() int { return f.lookups }

// Lookup returns the node index of id.
func (f *Forest) Lookup(id ecs.EntityID) (int, bool) {
	i, ok := f.index[id]
	return i, ok
}

func (f *Forest) Node(i int) Node { return f.nodes[i] }

// Path returns the entities from id up to its root, in bubbling order.
func (f *Forest) Path(id ecs.EntityID) []ecs.EntityID {
	i, ok := f.index[id]
	if !ok {
		return nil
	}
	var path []ecs.EntityID
	for ; i != NoParent; i = f.nodes[i].Parent {
		path = append(path, f.nodes[i].Entity)
	}
	return path
}

func (f *Forest) push(id ecs.EntityID, listening bool) int {
	i := len(f.nodes)
	f.nodes = append(f.nodes, Node{Entity: id, HasListener: listening, Parent: NoParent})
	f.stamps = append(f.stamps, f.walk)
	f.index[id] = i
	return i
}

// Insert adds target and every missing ancestor of it.
//
// It returns ErrMissingTarget, leaving the forest untouched, when target is
// not alive. When the parent relation leads back to an entity added by this
// same walk, Insert cuts the path there, keeping the forest acyclic, and
// returns an error wrapping ErrCycleDetected; the target stays usable with
// the truncated path. A parent that is not alive ends the path as if the
// child were a root.
func (f *Forest) Insert(target ecs.EntityID, h Hierarchy, listening func(ecs.EntityID) bool) error {
	if _, ok := f.index[target]; ok {
		return nil
	}
	if !h.Alive(target) {
		return fmt.Errorf("%w: %s", ErrMissingTarget, target)
	}
	f.walk++
	cur := f.push(target, listening(target))
	for {
		f.lookups++
		parent, ok := h.Parent(f.nodes[cur].Entity)
		if !ok {
			return nil
		}
		if pi, seen := f.index[parent]; seen {
			if f.stamps[pi] == f.walk {
				return fmt.Errorf("%w: %s revisited from %s", ErrCycleDetected, parent, f.nodes[cur].Entity)
			}
			f.nodes[cur].Parent = pi
			return nil
		}
		if !h.Alive(parent) {
			return nil
		}
		pi := f.push(parent, listening(parent))
		f.nodes[cur].Parent = pi
		cur = pi
	}
}
