package scripting

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/l1jgo/eventlistener/internal/core/ecs"
)

// Field is an integer component exposed to scripts as ctx.get / ctx.set.
type Field struct {
	Get func(id ecs.EntityID) (int, bool)
	Set func(id ecs.EntityID, v int) bool
}

// Engine wraps a single gopher-lua VM running listener callbacks.
// Single-goroutine access only (the tick loop).
type Engine struct {
	vm     *lua.LState
	log    *zap.Logger
	fields map[string]Field
}

// NewEngine creates a Lua engine and loads every .lua file under
// scriptsDir, in lexical path order. A missing directory loads nothing.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log, fields: make(map[string]Field)}
	if scriptsDir == "" {
		return e, nil
	}
	if err := e.loadDir(scriptsDir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	return e, nil
}

func (e *Engine) loadDir(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil // skip missing dirs
	}
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".lua" {
			return nil
		}
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
		return nil
	})
}

// DoString runs a chunk of Lua, typically to define functions.
func (e *Engine) DoString(src string) error {
	return e.vm.DoString(src)
}

// HasFunction reports whether a global Lua function of that name exists.
func (e *Engine) HasFunction(name string) bool {
	return e.vm.GetGlobal(name).Type() == lua.LTFunction
}

// Expose makes a component readable and writable from scripts under name.
func (e *Engine) Expose(name string, f Field) {
	e.fields[name] = f
}

func (e *Engine) Close() {
	e.vm.Close()
}
