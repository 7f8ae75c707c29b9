package combat

import (
	"errors"
	"fmt"

	"github.com/l1jgo/eventlistener/internal/core/ecs"
	"github.com/l1jgo/eventlistener/internal/data"
	"github.com/l1jgo/eventlistener/internal/listener"
)

// AttackEvent is the scene-file key of Attack listeners.
const AttackEvent = "attack"

// Spawn creates the entities of scene and attaches their attack listeners,
// resolving callback names through callbacks. It returns the spawned
// entities by name; when names repeat, the last one wins.
func Spawn(w *ecs.World, c *Components, attacks *listener.Listeners[Attack], scene *data.Scene, callbacks map[string]listener.Callback[Attack]) (map[string]ecs.EntityID, error) {
	spawned := make(map[string]ecs.EntityID, scene.Count())
	ids := make(map[*data.EntityDef]ecs.EntityID, scene.Count())
	var errs []error

	scene.Walk(func(def, parent *data.EntityDef) {
		var id ecs.EntityID
		if parent == nil {
			id = w.CreateEntity()
		} else {
			pid, ok := ids[parent]
			if !ok {
				return // parent failed to spawn
			}
			var err error
			if id, err = w.CreateChild(pid); err != nil {
				errs = append(errs, fmt.Errorf("spawn %s: %w", def.Name, err))
				return
			}
		}
		ids[def] = id
		spawned[def.Name] = id

		name := Name(def.Name)
		c.Names.Set(id, &name)
		if def.HitPoints != nil {
			c.Health.Set(id, &HitPoints{Current: *def.HitPoints})
		}
		if def.Armor != nil {
			c.Armor.Set(id, &Armor{Block: *def.Armor})
		}
		for ev, cbName := range def.Listeners {
			if ev != AttackEvent {
				errs = append(errs, fmt.Errorf("spawn %s: unknown event %q", def.Name, ev))
				continue
			}
			cb, ok := callbacks[cbName]
			if !ok {
				errs = append(errs, fmt.Errorf("spawn %s: unknown callback %q", def.Name, cbName))
				continue
			}
			if err := attacks.Attach(id, listener.RunNamed(cbName, cb)); err != nil {
				errs = append(errs, fmt.Errorf("spawn %s: %w", def.Name, err))
			}
		}
	})
	return spawned, errors.Join(errs...)
}
