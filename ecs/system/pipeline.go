package system

import (
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
)

// Geometry is the level collision surface the movement systems query.
type Geometry interface {
	component.Sweeper
	TriggerQuery
}

// Pipeline groups the movement systems so they are registered in the one
// order the simulation depends on: input, control, integration, the
// post-integration control pass, hazards, respawn and finally animation.
type Pipeline struct {
	Input       *InputSystem
	Controller  *PlayerControllerSystem
	Physics     *PhysicsSystem
	PostPhysics *PlayerPostPhysicsSystem
	Hazards     *HazardSystem
	Respawn     *RespawnSystem
	Animation   *AnimationSystem
}

func NewPipeline(source InputSource, geometry Geometry, sink component.AnimationSink, dt float64) *Pipeline {
	p := &Pipeline{
		Input:       NewInputSystem(source),
		Controller:  NewPlayerControllerSystem(dt),
		Physics:     NewPhysicsSystem(nil, dt),
		PostPhysics: NewPlayerPostPhysicsSystem(nil, dt),
		Hazards:     NewHazardSystem(nil),
		Respawn:     NewRespawnSystem(),
		Animation:   NewAnimationSystem(sink),
	}
	p.SetGeometry(geometry)
	return p
}

// SetGeometry points every system at new level geometry.
func (p *Pipeline) SetGeometry(geometry Geometry) {
	if geometry == nil {
		p.Physics.SetSweeper(nil)
		p.PostPhysics.SetSweeper(nil)
		p.Hazards.SetTriggers(nil)
		return
	}
	p.Physics.SetSweeper(geometry)
	p.PostPhysics.SetSweeper(geometry)
	p.Hazards.SetTriggers(geometry)
}

func (p *Pipeline) Register(w *ecs.World) {
	w.AddSystem(p.Input)
	w.AddSystem(p.Controller)
	w.AddSystem(p.Physics)
	w.AddSystem(p.PostPhysics)
	w.AddSystem(p.Hazards)
	w.AddSystem(p.Respawn)
	w.AddSystem(p.Animation)
}
