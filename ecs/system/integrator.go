package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/platformer/ecs/component"
)

const (
	// ShellRadius is the gap kept between a body and the surfaces it rests on.
	ShellRadius = 0.02
	// MinMoveDistance is the shortest displacement worth casting for.
	MinMoveDistance = 0.001

	contactTolerance = 1e-6
)

var upNormal = cp.Vector{X: 0, Y: 1}

// Integrate advances body by one fixed step of dt seconds and re-derives its
// contact state. The body is passed and returned by value.
func Integrate(cfg component.MovementConfig, body component.KinematicBody, shape component.Collider, filter cp.ShapeFilter, intent component.MovementIntent, dt float64, sweeper component.Sweeper) component.KinematicBody {
	wasGrounded := body.Grounded

	if intent.OverrideVertical {
		body.Velocity.Y = intent.VerticalVelocity
	}
	body.Velocity = body.Velocity.Add(cfg.Gravity.Mult(intent.GravityScale * dt))
	body.Velocity.Y = math.Max(body.Velocity.Y, -cfg.MaxFallSpeed)
	body.Velocity.X = intent.HorizontalVelocity

	body.Grounded = false
	body.Wall = component.WallNone
	if body.GroundNormal == (cp.Vector{}) {
		body.GroundNormal = upNormal
	}

	delta := body.Velocity.Mult(dt)
	alongGround := body.GroundNormal.ReversePerp()

	m := mover{cfg: cfg, shape: shape, filter: filter, sweeper: sweeper}

	walked := m.move(&body, alongGround.Mult(delta.X), false)
	if walked.stop.Y > cfg.MinGroundNormalY {
		// the rest of the step carries on up or down the walkable surface
		tangent := walked.stop.ReversePerp()
		m.move(&body, tangent.Mult(tangent.Dot(walked.rest)), false)
	}

	fell := m.move(&body, cp.Vector{Y: delta.Y}, true)
	if wasGrounded && delta.Y <= 0 && !fell.landed {
		snapped := body
		if m.move(&snapped, cp.Vector{Y: -snapDistance(cfg, delta.X)}, true).landed {
			body = snapped
		}
	}

	if !body.Grounded {
		body.GroundNormal = upNormal
	}
	return body
}

// snapDistance is how far the ground can drop away under a horizontal step
// of dx while staying walkable.
func snapDistance(cfg component.MovementConfig, dx float64) float64 {
	minY := cfg.MinGroundNormalY
	if minY <= 0 || minY >= 1 {
		return 0
	}
	return math.Abs(dx) * math.Sqrt(1-minY*minY) / minY
}

type mover struct {
	cfg     component.MovementConfig
	shape   component.Collider
	filter  cp.ShapeFilter
	sweeper component.Sweeper
}

// moveResult describes how one sweep ended.
type moveResult struct {
	// landed is set when a walkable surface was touched.
	landed bool
	// stop is the normal of the surface that cut the move short, if any.
	stop cp.Vector
	// rest is the part of the displacement left after stopping.
	rest cp.Vector
}

func (m mover) move(body *component.KinematicBody, displacement cp.Vector, vertical bool) moveResult {
	var res moveResult
	length := displacement.Length()
	if length == 0 {
		return res
	}
	direction := displacement.Mult(1 / length)
	distance := length

	if length > MinMoveDistance && m.sweeper != nil {
		hits := m.sweeper.Sweep(m.shape, m.filter, body.Position, direction, length+ShellRadius)
		for _, hit := range hits {
			// nearest first: once the move is cut short the rest are out of reach
			if hit.Distance > distance+ShellRadius+contactTolerance {
				break
			}

			normal := hit.Normal
			walkable := normal.Y > m.cfg.MinGroundNormalY
			if walkable {
				body.Grounded = true
				res.landed = true
				if vertical {
					body.GroundNormal = normal
					normal.X = 0
				}
			}
			if normal.Y == 0 && normal.X != 0 {
				if normal.X > 0 {
					body.Wall = component.WallLeft
				} else {
					body.Wall = component.WallRight
				}
			}

			// stepping into walkable ground keeps the velocity; the ground
			// normal turns the next step instead
			if vertical || !walkable {
				if projection := body.Velocity.Dot(normal); projection < 0 {
					body.Velocity = body.Velocity.Sub(normal.Mult(projection))
				}
			}

			if modified := hit.Distance - ShellRadius; modified < distance {
				distance = modified
				res.stop = hit.Normal
			}
		}
	}

	body.Position = body.Position.Add(direction.Mult(distance))
	res.rest = direction.Mult(length - math.Max(distance, 0))
	return res
}
