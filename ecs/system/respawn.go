package system

import (
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
)

type RespawnSystem struct{}

func NewRespawnSystem() *RespawnSystem { return &RespawnSystem{} }

// Update performs pending respawn requests. The body is rebuilt at the safe
// position and control state is cleared so no timer or freeze carries over.
func (s *RespawnSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	for _, e := range w.Query(component.RespawnRequestComponent.Kind()) {
		req, _ := ecs.Get(w, e, component.RespawnRequestComponent)
		_ = ecs.Remove(w, e, component.RespawnRequestComponent)

		safe, ok := ecs.Get(w, e, component.SafeRespawnComponent)
		if !ok || !safe.Initialized {
			continue
		}

		_ = ecs.Add(w, e, component.KinematicBodyComponent, component.NewKinematicBody(safe.Position))
		if state, ok := ecs.Get(w, e, component.ControlStateComponent); ok {
			_ = ecs.Add(w, e, component.ControlStateComponent, component.ControlState{FacingLeft: state.FacingLeft})
		}
		_ = ecs.Add(w, e, component.MovementIntentComponent, component.MovementIntent{})

		w.Events().Push(ecs.Event{Type: ecs.RespawnEventType, Data: ecs.RespawnEvent{Entity: e, Reason: req.Reason, Tick: w.Tick()}})
	}
}
