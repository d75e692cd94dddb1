package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

const coreScript = `
function cmd_move(x, y, speed)
  return {cmd="move", x=x, y=y, speed=speed}
end
`

const aiScript = `
function test_ai(ctx)
  if ctx.state == "spawn" and ctx.target_visible then
    return {
      cmd_move(ctx.target_x - ctx.x, ctx.target_y - ctx.y, 60),
      {cmd="state", state="chase"},
    }
  end
  return nil
end

function bad_ai(ctx)
  error("boom")
end
`

func newEngine(t *testing.T) *Engine {
	t.Helper()
	dir := t.TempDir()
	for sub, content := range map[string]string{
		filepath.Join("core", "util.lua"): coreScript,
		filepath.Join("ai", "test.lua"):   aiScript,
	} {
		path := filepath.Join(dir, sub)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	e, err := NewEngine(dir, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(e.Close)
	return e
}

func TestRunMobjAI(t *testing.T) {
	e := newEngine(t)

	cmds, err := e.RunMobjAI("test_ai", AIContext{
		State:         "spawn",
		PosX:          10,
		PosY:          20,
		TargetX:       40,
		TargetY:       60,
		TargetVisible: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(cmds) != 2 {
		t.Fatalf("commands = %+v", cmds)
	}
	move := cmds[0]
	if move.Cmd != "move" || move.X != 30 || move.Y != 40 || move.Speed != 60 {
		t.Errorf("move command = %+v", move)
	}
	if cmds[1].Cmd != "state" || cmds[1].State != "chase" {
		t.Errorf("state command = %+v", cmds[1])
	}
}

func TestRunMobjAINilResult(t *testing.T) {
	e := newEngine(t)

	cmds, err := e.RunMobjAI("test_ai", AIContext{State: "spawn"})
	if err != nil {
		t.Fatal(err)
	}
	if cmds != nil {
		t.Errorf("commands = %+v, want none", cmds)
	}
}

func TestRunMobjAIMissingFunction(t *testing.T) {
	e := newEngine(t)
	if _, err := e.RunMobjAI("no_such_ai", AIContext{}); err == nil {
		t.Error("missing function accepted")
	}
}

func TestRunMobjAIScriptError(t *testing.T) {
	e := newEngine(t)
	if _, err := e.RunMobjAI("bad_ai", AIContext{}); err == nil {
		t.Error("script error swallowed")
	}
}

func TestNewEngineMissingDirs(t *testing.T) {
	// A scripts dir without core/ or ai/ is fine; there is just nothing
	// loaded.
	e, err := NewEngine(t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()
	if _, err := e.RunMobjAI("anything", AIContext{}); err == nil {
		t.Error("function resolved in an empty engine")
	}
}
