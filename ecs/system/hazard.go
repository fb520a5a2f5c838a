package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/levels"
)

// TriggerQuery reports the kinds of trigger geometry a collider overlaps.
type TriggerQuery interface {
	Triggers(shape component.Collider, filter cp.ShapeFilter, position cp.Vector) []int
}

// HazardSystem requests a respawn for bodies touching hazard triggers and
// remembers the last safe grounded position otherwise.
type HazardSystem struct {
	triggers TriggerQuery
}

func NewHazardSystem(triggers TriggerQuery) *HazardSystem {
	return &HazardSystem{triggers: triggers}
}

func (h *HazardSystem) SetTriggers(triggers TriggerQuery) {
	h.triggers = triggers
}

func (h *HazardSystem) Update(w *ecs.World) {
	if w == nil || h.triggers == nil {
		return
	}

	for _, e := range w.Query(component.KinematicBodyComponent.Kind(), component.ColliderComponent.Kind()) {
		body, _ := ecs.Get(w, e, component.KinematicBodyComponent)
		shape, _ := ecs.Get(w, e, component.ColliderComponent)
		layer, _ := ecs.Get(w, e, component.CollisionLayerComponent)

		if touchesHazard(h.triggers.Triggers(shape, layer.Filter(), body.Position)) {
			_ = ecs.Add(w, e, component.RespawnRequestComponent, component.RespawnRequest{Reason: "hazard"})
			continue
		}
		if body.Grounded {
			_ = ecs.Add(w, e, component.SafeRespawnComponent, component.SafeRespawn{Position: body.Position, Initialized: true})
		}
	}
}

func touchesHazard(kinds []int) bool {
	for _, k := range kinds {
		if k == levels.TileHazard {
			return true
		}
	}
	return false
}
