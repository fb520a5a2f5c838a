package system

import (
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
)

// PhysicsSystem integrates every kinematic body against the level geometry
// and reports ground transitions on the world event queue.
type PhysicsSystem struct {
	sweeper component.Sweeper
	dt      float64
}

func NewPhysicsSystem(sweeper component.Sweeper, dt float64) *PhysicsSystem {
	return &PhysicsSystem{sweeper: sweeper, dt: dt}
}

// SetSweeper swaps the collision geometry, e.g. after a level change.
func (ps *PhysicsSystem) SetSweeper(sweeper component.Sweeper) {
	ps.sweeper = sweeper
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}

	for _, e := range w.Query(
		component.KinematicBodyComponent.Kind(),
		component.ColliderComponent.Kind(),
		component.MovementConfigComponent.Kind(),
		component.MovementIntentComponent.Kind(),
	) {
		body, _ := ecs.Get(w, e, component.KinematicBodyComponent)
		shape, _ := ecs.Get(w, e, component.ColliderComponent)
		cfg, _ := ecs.Get(w, e, component.MovementConfigComponent)
		intent, _ := ecs.Get(w, e, component.MovementIntentComponent)

		layer, _ := ecs.Get(w, e, component.CollisionLayerComponent)

		next := Integrate(cfg, body, shape, layer.Filter(), intent, ps.dt, ps.sweeper)
		if err := ecs.Add(w, e, component.KinematicBodyComponent, next); err != nil {
			continue
		}

		ps.pushContactEvents(w, e, body, next)
	}
}

func (ps *PhysicsSystem) pushContactEvents(w *ecs.World, e ecs.Entity, prev, next component.KinematicBody) {
	events := w.Events()
	if events == nil {
		return
	}

	switch {
	case !prev.Grounded && next.Grounded:
		events.Push(ecs.Event{Type: ecs.ContactEventType, Data: ecs.ContactEvent{Entity: e, Kind: ecs.ContactEventLanded, Tick: w.Tick()}})
	case prev.Grounded && !next.Grounded:
		events.Push(ecs.Event{Type: ecs.ContactEventType, Data: ecs.ContactEvent{Entity: e, Kind: ecs.ContactEventLeftGround, Tick: w.Tick()}})
	}
	if prev.Wall == component.WallNone && next.Wall != component.WallNone {
		events.Push(ecs.Event{Type: ecs.ContactEventType, Data: ecs.ContactEvent{Entity: e, Kind: ecs.ContactEventWall, Tick: w.Tick()}})
	}
}
