package system

import (
	"math"

	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
)

// AnimationSystem derives an AnimationSignal from the final state of each
// tick and forwards it to the sink, if any.
type AnimationSystem struct {
	sink component.AnimationSink
}

func NewAnimationSystem(sink component.AnimationSink) *AnimationSystem {
	return &AnimationSystem{sink: sink}
}

func (a *AnimationSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	for _, e := range w.Query(
		component.ControlStateComponent.Kind(),
		component.KinematicBodyComponent.Kind(),
		component.MovementConfigComponent.Kind(),
	) {
		state, _ := ecs.Get(w, e, component.ControlStateComponent)
		body, _ := ecs.Get(w, e, component.KinematicBodyComponent)
		cfg, _ := ecs.Get(w, e, component.MovementConfigComponent)

		signal := AnimationSignalFor(cfg, state, body)
		_ = ecs.Add(w, e, component.AnimationSignalComponent, signal)
		if a.sink != nil {
			a.sink.ReceiveAnimation(uint64(e), signal)
		}
	}
}

// AnimationSignalFor maps control and body state to the animation signal.
func AnimationSignalFor(cfg component.MovementConfig, state component.ControlState, body component.KinematicBody) component.AnimationSignal {
	speed := 0.0
	if cfg.MoveSpeed != 0 {
		speed = math.Abs(body.Velocity.X) / math.Abs(cfg.MoveSpeed)
	}
	return component.AnimationSignal{
		Grounded:      body.Grounded,
		Speed:         speed,
		VerticalSpeed: body.Velocity.Y,
		Hang:          state.Hang,
		Slide:         state.Slide,
		Attack:        state.Attack,
		FacingLeft:    state.FacingLeft,
	}
}
