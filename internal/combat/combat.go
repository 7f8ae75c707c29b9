// Package combat is the armor demo: attacks target a piece of armor, the
// armor absorbs what it can and whatever is left bubbles to the wearer.
package combat

import (
	"go.uber.org/zap"

	"github.com/l1jgo/eventlistener/internal/core/ecs"
	"github.com/l1jgo/eventlistener/internal/listener"
)

// Attack hits Victim for Damage. It bubbles from the victim to its wearer.
type Attack struct {
	Victim ecs.EntityID
	Damage uint16
}

func (a Attack) Target() ecs.EntityID { return a.Victim }

// Name labels an entity in logs.
type Name string

// HitPoints of an entity that can take damage.
type HitPoints struct {
	Current uint16
}

// Armor absorbs up to Block damage from each attack.
type Armor struct {
	Block uint16
}

// Components holds the demo's component stores.
type Components struct {
	Names  *ecs.PtrComponentStore[Name]
	Health *ecs.PtrComponentStore[HitPoints]
	Armor  *ecs.PtrComponentStore[Armor]
}

func NewComponents(w *ecs.World) *Components {
	r := w.Registry()
	return &Components{
		Names:  ecs.NewStore[Name](r),
		Health: ecs.NewStore[HitPoints](r),
		Armor:  ecs.NewStore[Armor](r),
	}
}

// NameOf returns the name of id, or its id when it has none.
func (c *Components) NameOf(id ecs.EntityID) string {
	if n, ok := c.Names.Get(id); ok {
		return string(*n)
	}
	return id.String()
}

func saturatingSub(a, b uint16) uint16 {
	if b >= a {
		return 0
	}
	return a - b
}

// BlockAttack is the listener of a piece of armor. Damage the armor cannot
// absorb keeps bubbling; a fully absorbed attack stops here.
func BlockAttack(c *Components) listener.Callback[Attack] {
	return func(ctx *listener.Context, ev *listener.Listened[Attack]) error {
		armor, err := ecs.Require(c.Armor, ev.Listener())
		if err != nil {
			return err
		}
		atk := ev.Event()
		damage := saturatingSub(atk.Damage, armor.Block)
		if damage > 0 {
			ctx.Log.Info("HIT: damage passed through armor",
				zap.Uint16("damage", damage),
				zap.String("armor", c.NameOf(ev.Listener())),
			)
			atk.Damage = damage
			return nil
		}
		ctx.Log.Info("BLOCK: armor blocked an attack", zap.String("armor", c.NameOf(ev.Listener())))
		ev.StopPropagation()
		return nil
	}
}

// TakeDamage is the listener of the armor's wearer. A wearer brought to
// zero hit points is despawned with everything it wears.
func TakeDamage(c *Components) listener.Callback[Attack] {
	return func(ctx *listener.Context, ev *listener.Listened[Attack]) error {
		hp, err := ecs.Require(c.Health, ev.Listener())
		if err != nil {
			return err
		}
		hp.Current = saturatingSub(hp.Current, ev.Event().Damage)
		name := c.NameOf(ev.Listener())
		if hp.Current > 0 {
			ctx.Log.Info("Ouch!", zap.String("name", name), zap.Uint16("hp", hp.Current))
			return nil
		}
		ctx.Log.Warn("died a gruesome death", zap.String("name", name))
		ctx.Commands.DespawnRecursive(ev.Listener())
		return nil
	}
}

// Callbacks maps the callback names used in scene files to callbacks.
func Callbacks(c *Components) map[string]listener.Callback[Attack] {
	return map[string]listener.Callback[Attack]{
		"block_attack": BlockAttack(c),
		"take_damage":  TakeDamage(c),
	}
}
