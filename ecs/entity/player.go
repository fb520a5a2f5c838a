package entity

import (
	"errors"
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/ecs/system"
	"github.com/milk9111/platformer/obj"
	"github.com/milk9111/platformer/prefabs"
)

var ErrNoSpawn = errors.New("player: level has no player spawn")

// NewPlayer builds the player entity at pos from spec.
func NewPlayer(w *ecs.World, spec *prefabs.PlayerSpec, pos cp.Vector) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("player: world is nil")
	}
	if spec == nil {
		return 0, fmt.Errorf("player: spec is nil")
	}
	cfg, err := spec.MovementConfig()
	if err != nil {
		return 0, fmt.Errorf("player: %w", err)
	}

	e := w.CreateEntity()
	steps := []func() error{
		func() error { return ecs.Add(w, e, component.PlayerTagComponent, component.PlayerTag{}) },
		func() error { return ecs.Add(w, e, component.InputComponent, component.Input{}) },
		func() error {
			return ecs.Add(w, e, component.KinematicBodyComponent, component.NewKinematicBody(pos))
		},
		func() error { return ecs.Add(w, e, component.ColliderComponent, spec.ColliderComponent()) },
		func() error { return ecs.Add(w, e, component.CollisionLayerComponent, spec.CollisionLayer) },
		func() error { return ecs.Add(w, e, component.MovementConfigComponent, cfg) },
		func() error { return ecs.Add(w, e, component.ControlStateComponent, component.ControlState{}) },
		func() error { return ecs.Add(w, e, component.MovementIntentComponent, component.MovementIntent{}) },
		func() error {
			return ecs.Add(w, e, component.ControllerComponent, component.Controller{Policy: system.NewPlatformerPolicy()})
		},
		func() error { return ecs.Add(w, e, component.AnimationSignalComponent, component.AnimationSignal{}) },
		func() error {
			return ecs.Add(w, e, component.SafeRespawnComponent, component.SafeRespawn{Position: pos, Initialized: true})
		},
	}
	for _, step := range steps {
		if err := step(); err != nil {
			w.DestroyEntity(e)
			return 0, fmt.Errorf("player: %w", err)
		}
	}
	return e, nil
}

// NewPlayerAt builds the player at the level's player spawn.
func NewPlayerAt(w *ecs.World, spec *prefabs.PlayerSpec, cw *obj.CollisionWorld) (ecs.Entity, error) {
	pos, err := PlayerSpawn(cw, spec.ColliderComponent())
	if err != nil {
		return 0, err
	}
	return NewPlayer(w, spec, pos)
}

// PlayerSpawn returns the body centre that rests a collider on the bottom
// of the spawn tile.
func PlayerSpawn(cw *obj.CollisionWorld, shape component.Collider) (cp.Vector, error) {
	if cw == nil {
		return cp.Vector{}, ErrNoSpawn
	}
	spawn, ok := cw.Level().Find("player")
	if !ok {
		return cp.Vector{}, ErrNoSpawn
	}
	origin := cw.TileOrigin(spawn.X, spawn.Y)
	half := shape.HalfExtents()
	return cp.Vector{X: origin.X + 0.5, Y: origin.Y + half.Y + system.ShellRadius}, nil
}

// ApplySpec swaps in a reloaded spec's tunables without touching the
// body or control state.
func ApplySpec(w *ecs.World, e ecs.Entity, spec *prefabs.PlayerSpec) error {
	cfg, err := spec.MovementConfig()
	if err != nil {
		return err
	}
	if err := ecs.Add(w, e, component.MovementConfigComponent, cfg); err != nil {
		return err
	}
	if err := ecs.Add(w, e, component.ColliderComponent, spec.ColliderComponent()); err != nil {
		return err
	}
	return ecs.Add(w, e, component.CollisionLayerComponent, spec.CollisionLayer)
}
