package scripting

import (
	"errors"
	"fmt"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/l1jgo/eventlistener/internal/core/ecs"
	"github.com/l1jgo/eventlistener/internal/core/event"
	"github.com/l1jgo/eventlistener/internal/listener"
)

// Codec moves an event payload in and out of a Lua table.
type Codec[E any] interface {
	Push(L *lua.LState, ev *E) *lua.LTable
	Pull(t *lua.LTable, ev *E) error
}

// Callback binds the global Lua function fn as a listener callback.
//
// The function is called as fn(event, ctx). Changes it makes to the event
// table are pulled back into the payload. ctx has:
//
//	ctx.listener, ctx.target          entity ids
//	ctx.stop_propagation()
//	ctx.get(field, id) -> number|nil  exposed component
//	ctx.set(field, id, value) -> bool
//	ctx.despawn(id), ctx.despawn_recursive(id)
//	ctx.log(msg)
//
// A Lua error, or a non-empty string returned by fn, fails the callback.
func Callback[E event.EntityEvent](e *Engine, fn string, codec Codec[E]) listener.Callback[E] {
	return func(ctx *listener.Context, ev *listener.Listened[E]) error {
		f := e.vm.GetGlobal(fn)
		if f.Type() != lua.LTFunction {
			return fmt.Errorf("lua function %s not found", fn)
		}
		evTable := codec.Push(e.vm, ev.Event())
		ctxTable := e.context(ctx, ev.Listener(), ev.Target(), ev.StopPropagation)

		if err := e.vm.CallByParam(lua.P{
			Fn:      f,
			NRet:    1,
			Protect: true,
		}, evTable, ctxTable); err != nil {
			return fmt.Errorf("lua %s: %w", fn, err)
		}
		ret := e.vm.Get(-1)
		e.vm.Pop(1)
		if s, ok := ret.(lua.LString); ok && s != "" {
			return fmt.Errorf("lua %s: %w", fn, errors.New(string(s)))
		}
		return codec.Pull(evTable, ev.Event())
	}
}

func (e *Engine) context(ctx *listener.Context, self, target ecs.EntityID, stop func()) *lua.LTable {
	L := e.vm
	t := L.NewTable()
	t.RawSetString("listener", lua.LNumber(self))
	t.RawSetString("target", lua.LNumber(target))
	t.RawSetString("stop_propagation", L.NewFunction(func(L *lua.LState) int {
		stop()
		return 0
	}))
	t.RawSetString("get", L.NewFunction(func(L *lua.LState) int {
		base := argBase(L)
		f, ok := e.fields[L.CheckString(base)]
		if !ok || f.Get == nil {
			L.ArgError(base, "unknown field")
			return 0
		}
		v, ok := f.Get(entityArg(L, base+1))
		if !ok {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(lua.LNumber(v))
		return 1
	}))
	t.RawSetString("set", L.NewFunction(func(L *lua.LState) int {
		base := argBase(L)
		f, ok := e.fields[L.CheckString(base)]
		if !ok || f.Set == nil {
			L.ArgError(base, "unknown or read-only field")
			return 0
		}
		L.Push(lua.LBool(f.Set(entityArg(L, base+1), int(L.CheckNumber(base+2)))))
		return 1
	}))
	t.RawSetString("despawn", L.NewFunction(func(L *lua.LState) int {
		ctx.Commands.Despawn(entityArg(L, argBase(L)))
		return 0
	}))
	t.RawSetString("despawn_recursive", L.NewFunction(func(L *lua.LState) int {
		ctx.Commands.DespawnRecursive(entityArg(L, argBase(L)))
		return 0
	}))
	t.RawSetString("log", L.NewFunction(func(L *lua.LState) int {
		ctx.Log.Info(L.CheckString(argBase(L)), zap.Stringer("listener", self))
		return 0
	}))
	return t
}

// argBase skips the implicit self of a ctx:method() call.
func argBase(L *lua.LState) int {
	if L.GetTop() > 0 && L.Get(1).Type() == lua.LTTable {
		return 2
	}
	return 1
}

// entityArg reads an entity id. Ids travel as Lua numbers, exact up to 2^53.
func entityArg(L *lua.LState, n int) ecs.EntityID {
	return ecs.EntityID(uint64(L.CheckNumber(n)))
}
