package hooks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"git.home.luguber.info/inful/docversions/internal/logfields"
	"git.home.luguber.info/inful/docversions/internal/version"
)

// ErrModuleClosed is returned when a handler runs after its module was closed.
var ErrModuleClosed = errors.New("hook module closed")

// LuaLoader loads hook modules written in Lua.
//
// Modules are not sandboxed: every standard library, including io and os, is
// available to them. A module that returns a table from its top-level chunk
// exports that table's functions; otherwise its global functions are exported.
type LuaLoader struct {
	// Logger receives docversions.log() output. Defaults to slog.Default().
	Logger *slog.Logger
}

// Load executes the file's top-level chunk in a fresh Lua state.
func (l LuaLoader) Load(path string) (Module, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}

	L := lua.NewState()
	m := &LuaModule{path: path, state: L}
	installAPI(L, logger.With(logfields.HookPath(path)))

	builtins := globals(L)
	top := L.GetTop()
	if err := L.DoFile(path); err != nil {
		L.Close()
		return nil, err
	}

	var surface *lua.LTable
	if L.GetTop() > top {
		if tbl, ok := L.Get(top + 1).(*lua.LTable); ok {
			surface = tbl
		}
		L.SetTop(top)
	}
	if surface == nil {
		surface = L.G.Global
	} else {
		builtins = nil
	}

	surface.ForEach(func(k, v lua.LValue) {
		name, ok := k.(lua.LString)
		if !ok {
			return
		}
		fn, ok := v.(*lua.LFunction)
		if !ok {
			return
		}
		// Globals the chunk did not define or redefine are not exports.
		if prev, ok := builtins[string(name)]; ok && prev == v {
			return
		}
		m.exports = append(m.exports, Export{Name: string(name), Handler: m.handler(string(name), fn)})
	})
	sortExports(m.exports)
	return m, nil
}

// globals snapshots the state's global bindings by name.
func globals(L *lua.LState) map[string]lua.LValue {
	out := make(map[string]lua.LValue)
	L.G.Global.ForEach(func(k, v lua.LValue) {
		if name, ok := k.(lua.LString); ok {
			out[string(name)] = v
		}
	})
	return out
}

// LuaModule is a hook module backed by a gopher-lua state.
//
// gopher-lua states are not goroutine-safe; all calls into the state are
// serialized by mu.
type LuaModule struct {
	path    string
	exports []Export

	mu     sync.Mutex
	state  *lua.LState
	closed bool
}

func (m *LuaModule) Path() string { return m.path }

func (m *LuaModule) Exports() []Export {
	out := make([]Export, len(m.exports))
	copy(out, m.exports)
	return out
}

// Close releases the Lua state.
func (m *LuaModule) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		m.state.Close()
	}
	return nil
}

// handler wraps fn so that it receives args as a single table. A Lua error or
// a `false, message` return is reported as a handler failure.
func (m *LuaModule) handler(name string, fn *lua.LFunction) Handler {
	return func(ctx context.Context, args Args) error {
		m.mu.Lock()
		defer m.mu.Unlock()

		if m.closed {
			return ErrModuleClosed
		}
		if ctx != nil {
			m.state.SetContext(ctx)
			defer m.state.RemoveContext()
		}

		if err := m.state.CallByParam(lua.P{Fn: fn, NRet: 2, Protect: true}, argsTable(m.state, args)); err != nil {
			return err
		}
		ok, msg := m.state.Get(-2), m.state.Get(-1)
		m.state.Pop(2)

		if ok == lua.LFalse {
			if msg == lua.LNil {
				return fmt.Errorf("%s returned false", name)
			}
			return errors.New(lua.LVAsString(msg))
		}
		return nil
	}
}

// installAPI exposes the docversions table to module code.
func installAPI(L *lua.LState, logger *slog.Logger) {
	api := L.NewTable()
	L.SetField(api, "version", lua.LString(version.String()))
	L.SetField(api, "log", L.NewFunction(func(L *lua.LState) int {
		logger.Info(L.CheckString(1))
		return 0
	}))
	L.SetGlobal("docversions", api)
}

func argsTable(L *lua.LState, args Args) *lua.LTable {
	tbl := L.NewTable()
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		L.SetField(tbl, k, toLuaValue(L, args[k]))
	}
	return tbl
}

// toLuaValue converts common Go values to Lua values; unknown types become
// their fmt representation.
func toLuaValue(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case lua.LValue:
		return val
	case bool:
		return lua.LBool(val)
	case string:
		return lua.LString(val)
	case int:
		return lua.LNumber(val)
	case int32:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case uint:
		return lua.LNumber(val)
	case uint32:
		return lua.LNumber(val)
	case uint64:
		return lua.LNumber(val)
	case float32:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case []string:
		tbl := L.NewTable()
		for _, s := range val {
			tbl.Append(lua.LString(s))
		}
		return tbl
	case []any:
		tbl := L.NewTable()
		for _, item := range val {
			tbl.Append(toLuaValue(L, item))
		}
		return tbl
	case map[string]string:
		tbl := L.NewTable()
		for k, s := range val {
			tbl.RawSetString(k, lua.LString(s))
		}
		return tbl
	case map[string]any:
		tbl := L.NewTable()
		for k, item := range val {
			tbl.RawSetString(k, toLuaValue(L, item))
		}
		return tbl
	case Args:
		return argsTable(L, val)
	default:
		return lua.LString(fmt.Sprint(val))
	}
}
