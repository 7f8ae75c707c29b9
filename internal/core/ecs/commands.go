package ecs

import "errors"

// Command is one deferred structural mutation.
type Command func(w *World) error

// Commands is an append-only buffer of structural mutations recorded during a
// traversal and applied by World.FlushCommands once the traversal is over.
type Commands struct {
	queue []Command
}

func newCommands() *Commands {
	return &Commands{queue: make([]Command, 0, 64)}
}

// Add records an arbitrary command.
func (c *Commands) Add(cmd Command) {
	c.queue = append(c.queue, cmd)
}

// Despawn queues id for destruction. Its children become roots.
func (c *Commands) Despawn(id EntityID) {
	c.Add(func(w *World) error {
		w.destroy(id)
		return nil
	})
}

// DespawnRecursive queues id and its whole subtree for destruction.
func (c *Commands) DespawnRecursive(id EntityID) {
	c.Add(func(w *World) error {
		w.destroyRecursive(id)
		return nil
	})
}

func (c *Commands) SetParent(child, parent EntityID) {
	c.Add(func(w *World) error {
		return w.setParent(child, parent)
	})
}

func (c *Commands) RemoveParent(id EntityID) {
	c.Add(func(w *World) error {
		w.unlink(id)
		return nil
	})
}

// Len returns the number of commands waiting to be applied.
func (c *Commands) Len() int { return len(c.queue) }

func (c *Commands) apply(w *World) error {
	var errs []error
	// index loop: commands may append while running
	for i := 0; i < len(c.queue); i++ {
		if err := c.queue[i](w); err != nil {
			errs = append(errs, err)
		}
		c.queue[i] = nil
	}
	c.queue = c.queue[:0]
	return errors.Join(errs...)
}
