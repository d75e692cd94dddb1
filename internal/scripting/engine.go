// Package scripting hosts the embedded Lua VM that drives monster behavior.
// Scripts define one global function per behavior; the engine packs a
// context table in, calls the function, and unpacks a list of command
// tables out. Game state is never exposed to Lua directly.
package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM. Single-goroutine access only (game
// loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given
// directory: core/ first, then ai/.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}

	for _, sub := range []string{"core", "ai"} {
		if err := e.loadDir(filepath.Join(scriptsDir, sub)); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}

	return e, nil
}

// Close releases the VM.
func (e *Engine) Close() {
	e.vm.Close()
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// AIContext holds pre-packed data for one monster's behavior call.
type AIContext struct {
	State         string
	PosX, PosY    float32
	Angle         float32
	ReactionTime  float32
	TargetVisible bool
	TargetX       float32
	TargetY       float32
	TargetDist    float32
	Random        float64 // one roll from the world RNG, for deterministic scripts
}

// AICommand is one action a behavior script wants performed.
type AICommand struct {
	Cmd   string // "move", "face", "state", "sound", "stop"
	X, Y  float32
	Speed float32
	State string
	Sound string
	Angle float32
}

// RunMobjAI calls the named global Lua function with the context and
// returns the commands it produced. A missing function is an error; a
// script returning nil means no commands.
func (e *Engine) RunMobjAI(script string, ctx AIContext) ([]AICommand, error) {
	fn := e.vm.GetGlobal(script)
	if fn == lua.LNil {
		return nil, fmt.Errorf("no ai function %q", script)
	}

	t := e.vm.NewTable()
	t.RawSetString("state", lua.LString(ctx.State))
	t.RawSetString("x", lua.LNumber(ctx.PosX))
	t.RawSetString("y", lua.LNumber(ctx.PosY))
	t.RawSetString("angle", lua.LNumber(ctx.Angle))
	t.RawSetString("reaction_time", lua.LNumber(ctx.ReactionTime))
	t.RawSetString("target_visible", lua.LBool(ctx.TargetVisible))
	t.RawSetString("target_x", lua.LNumber(ctx.TargetX))
	t.RawSetString("target_y", lua.LNumber(ctx.TargetY))
	t.RawSetString("target_dist", lua.LNumber(ctx.TargetDist))
	t.RawSetString("random", lua.LNumber(ctx.Random))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		return nil, fmt.Errorf("ai %s: %w", script, err)
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		return nil, nil
	}

	var commands []AICommand
	for i := 1; i <= rt.Len(); i++ {
		ct, ok := rt.RawGetInt(i).(*lua.LTable)
		if !ok {
			continue
		}
		commands = append(commands, AICommand{
			Cmd:   lua.LVAsString(ct.RawGetString("cmd")),
			X:     float32(lua.LVAsNumber(ct.RawGetString("x"))),
			Y:     float32(lua.LVAsNumber(ct.RawGetString("y"))),
			Speed: float32(lua.LVAsNumber(ct.RawGetString("speed"))),
			State: lua.LVAsString(ct.RawGetString("state")),
			Sound: lua.LVAsString(ct.RawGetString("sound")),
			Angle: float32(lua.LVAsNumber(ct.RawGetString("angle"))),
		})
	}
	return commands, nil
}
