package system

import (
	"fmt"
	"log"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/platformer/ecs/component"
)

// Button globals are reset to false before every run, so a script only
// assigns the ones it wants set this tick.
var scriptButtons = []string{"jump", "jump_held", "attack", "dash"}

// ScriptInputSource replays input from a tengo script. The script runs once
// per tick with the tick number, elapsed time and the player's contact state
// bound as globals.
type ScriptInputSource struct {
	name     string
	dt       float64
	compiled *tengo.Compiled
	failed   bool
}

// NewScriptInputSource compiles src. name is only used in messages.
func NewScriptInputSource(name string, src []byte, dt float64) (*ScriptInputSource, error) {
	script := tengo.NewScript(src)
	_ = script.Add("tick", 0)
	_ = script.Add("time", 0.0)
	_ = script.Add("grounded", false)
	_ = script.Add("wall", component.WallNone.String())
	_ = script.Add("x", 0.0)
	_ = script.Add("y", 0.0)
	_ = script.Add("axis", 0.0)
	_ = script.Add("jump", false)
	_ = script.Add("jump_held", false)
	_ = script.Add("attack", false)
	_ = script.Add("dash", false)
	// memory survives between ticks; everything else is rebound per run.
	_ = script.Add("memory", map[string]any{})

	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("input script %s: %w", name, err)
	}
	return &ScriptInputSource{name: name, dt: dt, compiled: compiled}, nil
}

func (s *ScriptInputSource) Sample(view InputView) component.Input {
	if s == nil || s.compiled == nil {
		return component.Input{}
	}
	if err := s.run(view); err != nil {
		if !s.failed {
			log.Printf("input script %s: %v", s.name, err)
			s.failed = true
		}
		return component.Input{}
	}

	return component.Input{
		MoveX:         s.compiled.Get("axis").Float(),
		JumpPressed:   s.compiled.Get("jump").Bool(),
		JumpHeld:      s.compiled.Get("jump_held").Bool(),
		AttackPressed: s.compiled.Get("attack").Bool(),
		DashPressed:   s.compiled.Get("dash").Bool(),
	}.Clamped()
}

func (s *ScriptInputSource) run(view InputView) error {
	inputs := map[string]any{
		"tick":     int(view.Tick),
		"time":     float64(view.Tick) * s.dt,
		"grounded": view.Body.Grounded,
		"wall":     view.Body.Wall.String(),
		"x":        view.Body.Position.X,
		"y":        view.Body.Position.Y,
		"axis":     0.0,
	}
	for _, name := range scriptButtons {
		inputs[name] = false
	}
	// globals the script never mentions are compiled away
	for name, value := range inputs {
		if !s.compiled.IsDefined(name) {
			continue
		}
		if err := s.compiled.Set(name, value); err != nil {
			return err
		}
	}
	return s.compiled.Run()
}
