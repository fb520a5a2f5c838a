// Command sim runs the platformer simulation headless, driving the player
// from a tengo input script and logging its state.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/ecs/entity"
	"github.com/milk9111/platformer/ecs/system"
	"github.com/milk9111/platformer/levels"
	"github.com/milk9111/platformer/obj"
	"github.com/milk9111/platformer/prefabs"
)

// signalLogger logs animation signals when they change.
type signalLogger struct {
	world *ecs.World
	last  component.AnimationSignal
	seen  bool
}

func (s *signalLogger) ReceiveAnimation(id uint64, signal component.AnimationSignal) {
	if s.seen && signal == s.last {
		return
	}
	s.last, s.seen = signal, true
	log.Printf("tick %d: anim grounded=%v speed=%.2f vy=%.2f hang=%v slide=%v attack=%v left=%v",
		s.world.Tick(), signal.Grounded, signal.Speed, signal.VerticalSpeed, signal.Hang, signal.Slide, signal.Attack, signal.FacingLeft)
}

func main() {
	levelName := flag.String("level", "test_room", "level name in levels/ (basename, .json optional)")
	scriptName := flag.String("script", "run_and_jump", "input script in prefabs/scripts")
	ticks := flag.Int("ticks", 600, "number of ticks to simulate")
	specName := flag.String("spec", prefabs.PlayerSpecFile, "player prefab in prefabs/ (.yaml or .toml)")
	every := flag.Int("every", 10, "log the body every n ticks (0 disables)")
	flag.Parse()

	if err := run(*levelName, *scriptName, *specName, *ticks, *every); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(levelName, scriptName, specName string, ticks, every int) error {
	lvl, err := levels.Load(levelName)
	if err != nil {
		return err
	}
	spec, err := prefabs.LoadPlayerSpecFile(specName)
	if err != nil {
		return err
	}
	src, err := prefabs.LoadScript(scriptName)
	if err != nil {
		return err
	}
	source, err := system.NewScriptInputSource(scriptName, src, common.FixedDelta)
	if err != nil {
		return err
	}

	w := ecs.NewWorld()
	cw := obj.NewCollisionWorld(lvl)
	player, err := entity.NewPlayerAt(w, spec, cw)
	if err != nil {
		return err
	}

	sink := &signalLogger{world: w}
	system.NewPipeline(source, cw, sink, common.FixedDelta).Register(w)
	w.AddSystem(ecs.SystemFunc(func(w *ecs.World) {
		for _, evt := range w.Events().Drain() {
			switch e := evt.Data.(type) {
			case ecs.ContactEvent:
				log.Printf("tick %d: %s", e.Tick, e.Kind)
			case ecs.RespawnEvent:
				log.Printf("tick %d: respawn (%s)", e.Tick, e.Reason)
			}
		}

		if every <= 0 || w.Tick()%uint64(every) != 0 {
			return
		}
		body, ok := ecs.Get(w, player, component.KinematicBodyComponent)
		if !ok {
			return
		}
		log.Printf("tick %d: pos=(%.3f, %.3f) vel=(%.3f, %.3f) grounded=%v wall=%s",
			w.Tick(), body.Position.X, body.Position.Y, body.Velocity.X, body.Velocity.Y, body.Grounded, body.Wall)
	}))

	log.Printf("simulating %d ticks of %s on %s", ticks, scriptName, levelName)
	for i := 0; i < ticks; i++ {
		w.Update()
	}
	return nil
}
