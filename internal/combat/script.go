package combat

import (
	"fmt"
	"math"

	lua "github.com/yuin/gopher-lua"

	"github.com/l1jgo/eventlistener/internal/core/ecs"
	"github.com/l1jgo/eventlistener/internal/listener"
	"github.com/l1jgo/eventlistener/internal/scripting"
)

// AttackCodec exposes an Attack to Lua as {target=, damage=}. Only damage
// is read back; the target of an event never changes.
type AttackCodec struct{}

func (AttackCodec) Push(L *lua.LState, a *Attack) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("target", lua.LNumber(a.Victim))
	t.RawSetString("damage", lua.LNumber(a.Damage))
	return t
}

func (AttackCodec) Pull(t *lua.LTable, a *Attack) error {
	v, ok := t.RawGetString("damage").(lua.LNumber)
	if !ok {
		return fmt.Errorf("attack.damage is %s, want number", t.RawGetString("damage").Type())
	}
	switch {
	case v < 0:
		a.Damage = 0
	case v > math.MaxUint16:
		a.Damage = math.MaxUint16
	default:
		a.Damage = uint16(v)
	}
	return nil
}

// Expose registers the demo components with a script engine as the
// fields "armor" and "hit_points".
func (c *Components) Expose(e *scripting.Engine) {
	e.Expose("armor", scripting.Field{
		Get: func(id ecs.EntityID) (int, bool) {
			a, ok := c.Armor.Get(id)
			if !ok {
				return 0, false
			}
			return int(a.Block), true
		},
	})
	e.Expose("hit_points", scripting.Field{
		Get: func(id ecs.EntityID) (int, bool) {
			hp, ok := c.Health.Get(id)
			if !ok {
				return 0, false
			}
			return int(hp.Current), true
		},
		Set: func(id ecs.EntityID, v int) bool {
			hp, ok := c.Health.Get(id)
			if !ok {
				return false
			}
			hp.Current = uint16(max(0, min(v, math.MaxUint16)))
			return true
		},
	})
}

// ScriptedCallbacks returns a callback for every name in names that the
// engine defines as a Lua function, keyed "lua:<name>".
func ScriptedCallbacks(e *scripting.Engine, names ...string) map[string]listener.Callback[Attack] {
	out := make(map[string]listener.Callback[Attack], len(names))
	for _, n := range names {
		if e.HasFunction(n) {
			out["lua:"+n] = scripting.Callback[Attack](e, n, AttackCodec{})
		}
	}
	return out
}
