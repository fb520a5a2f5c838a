package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
)

// PlayerControllerSystem runs each controller's policy before physics and
// stores the resulting movement intent.
type PlayerControllerSystem struct {
	dt float64
}

func NewPlayerControllerSystem(dt float64) *PlayerControllerSystem {
	return &PlayerControllerSystem{dt: dt}
}

func (p *PlayerControllerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	for _, e := range w.Query(
		component.ControllerComponent.Kind(),
		component.ControlStateComponent.Kind(),
		component.KinematicBodyComponent.Kind(),
		component.MovementConfigComponent.Kind(),
	) {
		ctrl, _ := ecs.Get(w, e, component.ControllerComponent)
		if ctrl.Policy == nil {
			continue
		}
		state, _ := ecs.Get(w, e, component.ControlStateComponent)
		body, _ := ecs.Get(w, e, component.KinematicBodyComponent)
		cfg, _ := ecs.Get(w, e, component.MovementConfigComponent)
		input, _ := ecs.Get(w, e, component.InputComponent)

		ctx := &component.ControlContext{
			Config: cfg,
			State:  &state,
			Body:   body,
			Input:  input.Clamped(),
			Dt:     p.dt,
		}
		intent := ctrl.Policy.ComputeVelocity(ctx)

		_ = ecs.Add(w, e, component.MovementIntentComponent, intent)
		_ = ecs.Add(w, e, component.ControlStateComponent, state)
	}
}

// PlayerPostPhysicsSystem hands the freshly integrated contacts back to each
// controller's policy.
type PlayerPostPhysicsSystem struct {
	sweeper component.Sweeper
	dt      float64
}

func NewPlayerPostPhysicsSystem(sweeper component.Sweeper, dt float64) *PlayerPostPhysicsSystem {
	return &PlayerPostPhysicsSystem{sweeper: sweeper, dt: dt}
}

func (p *PlayerPostPhysicsSystem) SetSweeper(sweeper component.Sweeper) {
	p.sweeper = sweeper
}

func (p *PlayerPostPhysicsSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	for _, e := range w.Query(
		component.ControllerComponent.Kind(),
		component.ControlStateComponent.Kind(),
		component.KinematicBodyComponent.Kind(),
		component.MovementConfigComponent.Kind(),
	) {
		ctrl, _ := ecs.Get(w, e, component.ControllerComponent)
		if ctrl.Policy == nil {
			continue
		}
		state, _ := ecs.Get(w, e, component.ControlStateComponent)
		body, _ := ecs.Get(w, e, component.KinematicBodyComponent)
		cfg, _ := ecs.Get(w, e, component.MovementConfigComponent)
		input, _ := ecs.Get(w, e, component.InputComponent)

		ctx := &component.ControlContext{
			Config: cfg,
			State:  &state,
			Body:   body,
			Input:  input.Clamped(),
			Dt:     p.dt,
		}
		if shape, ok := ecs.Get(w, e, component.ColliderComponent); ok && p.sweeper != nil {
			layer, _ := ecs.Get(w, e, component.CollisionLayerComponent)
			ctx.CheckWall = wallCheck(p.sweeper, shape, layer.Filter(), body.Position, cfg.WallCheckDistance)
		}
		ctrl.Policy.PostIntegrate(ctx)

		_ = ecs.Add(w, e, component.ControlStateComponent, state)
	}
}

// wallCheck casts the collider sideways and reports vertical faces only.
func wallCheck(sweeper component.Sweeper, shape component.Collider, filter cp.ShapeFilter, origin cp.Vector, distance float64) func(dir float64) bool {
	return func(dir float64) bool {
		if distance <= 0 || dir == 0 {
			return false
		}
		direction := cp.Vector{X: 1}
		if dir < 0 {
			direction.X = -1
		}
		for _, hit := range sweeper.Sweep(shape, filter, origin, direction, distance) {
			if hit.Normal.Y == 0 && hit.Normal.X != 0 {
				return true
			}
		}
		return false
	}
}
