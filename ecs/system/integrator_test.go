package system

import (
	"math"
	"sort"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/ecs/component"
)

const dt = common.FixedDelta

var testBox = component.Collider{Width: 1, Height: 2}

// plane is an infinite solid surface: points with normal·p < offset are
// inside.
type plane struct {
	normal cp.Vector
	offset float64
}

// planeSweeper answers box casts against infinite planes, growing each plane
// by the box's support distance.
type planeSweeper struct {
	planes []plane
	dirs   []cp.Vector
}

func (s *planeSweeper) Sweep(shape component.Collider, filter cp.ShapeFilter, origin, direction cp.Vector, maxDistance float64) []component.Contact {
	s.dirs = append(s.dirs, direction)
	half := shape.HalfExtents()

	var out []component.Contact
	for _, p := range s.planes {
		approach := direction.Dot(p.normal)
		if approach >= 0 {
			continue
		}
		grown := p.offset + math.Abs(p.normal.X)*half.X + math.Abs(p.normal.Y)*half.Y
		dist := (origin.Dot(p.normal) - grown) / -approach
		if dist < 0 {
			dist = 0
		}
		if dist <= maxDistance {
			out = append(out, component.Contact{Normal: p.normal, Distance: dist})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if math.Abs(out[i].Distance-out[j].Distance) > contactTolerance {
			return out[i].Distance < out[j].Distance
		}
		return out[i].Normal.Y > out[j].Normal.Y
	})
	return out
}

var (
	floorAtZero = plane{normal: cp.Vector{X: 0, Y: 1}, offset: 0}
	slopeNormal = cp.Vector{X: -math.Sqrt2 / 2, Y: math.Sqrt2 / 2}
)

func wallAt(x float64, facingLeft bool) plane {
	if facingLeft {
		return plane{normal: cp.Vector{X: -1, Y: 0}, offset: -x}
	}
	return plane{normal: cp.Vector{X: 1, Y: 0}, offset: x}
}

func restingBody(x float64) component.KinematicBody {
	body := component.NewKinematicBody(cp.Vector{X: x, Y: testBox.Height/2 + ShellRadius})
	body.Grounded = true
	return body
}

func fall() component.MovementIntent {
	return component.MovementIntent{GravityScale: 1}
}

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestIntegrateFreeFlight(t *testing.T) {
	cfg := component.DefaultMovementConfig()

	cases := []struct {
		name   string
		body   component.KinematicBody
		intent component.MovementIntent
		wantV  cp.Vector
	}{
		{
			name:   "gravity",
			body:   component.NewKinematicBody(cp.Vector{X: 0, Y: 10}),
			intent: fall(),
			wantV:  cp.Vector{X: 0, Y: -9.81 * dt},
		},
		{
			name:   "no_gravity",
			body:   component.NewKinematicBody(cp.Vector{X: 0, Y: 10}),
			intent: component.MovementIntent{GravityScale: 0, HorizontalVelocity: -3},
			wantV:  cp.Vector{X: -3, Y: 0},
		},
		{
			name:   "max_fall_clamp",
			body:   component.KinematicBody{Position: cp.Vector{Y: 10}, Velocity: cp.Vector{Y: -50}},
			intent: fall(),
			wantV:  cp.Vector{X: 0, Y: -cfg.MaxFallSpeed},
		},
		{
			name:   "vertical_override",
			body:   component.KinematicBody{Position: cp.Vector{Y: 10}, Velocity: cp.Vector{Y: -4}, GroundNormal: cp.Vector{Y: 1}},
			intent: component.MovementIntent{GravityScale: 1, OverrideVertical: true, VerticalVelocity: 7, HorizontalVelocity: 2},
			wantV:  cp.Vector{X: 2, Y: 7 - 9.81*dt},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			sweeper := &planeSweeper{}
			got := Integrate(cfg, c.body, testBox, component.CollisionLayer{}.Filter(), c.intent, dt, sweeper)

			if !near(got.Velocity.X, c.wantV.X, 1e-12) || !near(got.Velocity.Y, c.wantV.Y, 1e-12) {
				t.Fatalf("velocity = %v, want %v", got.Velocity, c.wantV)
			}
			wantPos := c.body.Position.Add(c.wantV.Mult(dt))
			if got.Position.Sub(wantPos).Length() > 1e-12 {
				t.Fatalf("position = %v, want %v", got.Position, wantPos)
			}
			if got.Grounded || got.Wall != component.WallNone {
				t.Fatalf("free flight should report no contacts, got grounded=%v wall=%v", got.Grounded, got.Wall)
			}
		})
	}
}

func TestIntegrateLandsWithShellGap(t *testing.T) {
	cfg := component.DefaultMovementConfig()
	sweeper := &planeSweeper{planes: []plane{floorAtZero}}
	body := component.NewKinematicBody(cp.Vector{X: 0, Y: 4})

	landed := false
	for i := 0; i < 240 && !landed; i++ {
		body = Integrate(cfg, body, testBox, component.CollisionLayer{}.Filter(), fall(), dt, sweeper)
		landed = body.Grounded
	}
	if !landed {
		t.Fatalf("body never landed; final %+v", body)
	}

	gap := body.Position.Y - testBox.Height/2
	if !near(gap, ShellRadius, 1e-9) {
		t.Fatalf("resting gap = %v, want %v", gap, ShellRadius)
	}
	if body.Velocity.Y != 0 {
		t.Fatalf("landing should cancel vertical velocity, got %v", body.Velocity.Y)
	}
	if body.GroundNormal != (cp.Vector{X: 0, Y: 1}) {
		t.Fatalf("ground normal = %v", body.GroundNormal)
	}
}

func TestIntegrateRestingIsIdempotent(t *testing.T) {
	cfg := component.DefaultMovementConfig()
	sweeper := &planeSweeper{planes: []plane{floorAtZero}}
	start := restingBody(2)
	body := start

	for i := 0; i < 120; i++ {
		body = Integrate(cfg, body, testBox, component.CollisionLayer{}.Filter(), fall(), dt, sweeper)
		if !body.Grounded {
			t.Fatalf("tick %d: resting body lost ground", i)
		}
	}
	if body.Position.Sub(start.Position).Length() > 1e-9 {
		t.Fatalf("resting body drifted from %v to %v", start.Position, body.Position)
	}
	if body.Velocity.Length() > 1e-12 {
		t.Fatalf("resting body kept velocity %v", body.Velocity)
	}
}

func TestIntegrateClassifiesWalls(t *testing.T) {
	cfg := component.DefaultMovementConfig()

	cases := []struct {
		name  string
		wall  plane
		vx    float64
		want  component.WallContact
		wantX float64
	}{
		{"right", wallAt(3, true), cfg.MoveSpeed, component.WallRight, 3 - testBox.Width/2 - ShellRadius},
		{"left", wallAt(-3, false), -cfg.MoveSpeed, component.WallLeft, -3 + testBox.Width/2 + ShellRadius},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			sweeper := &planeSweeper{planes: []plane{floorAtZero, c.wall}}
			body := restingBody(0)
			intent := component.MovementIntent{GravityScale: 1, HorizontalVelocity: c.vx}

			touched := false
			for i := 0; i < 120; i++ {
				body = Integrate(cfg, body, testBox, component.CollisionLayer{}.Filter(), intent, dt, sweeper)
				if body.Wall == c.want {
					touched = true
				} else if touched {
					t.Fatalf("tick %d: wall contact dropped while pushing into it", i)
				}
				if !body.Grounded {
					t.Fatalf("tick %d: lost ground while walking", i)
				}
			}
			if !touched {
				t.Fatalf("never touched the %s wall; final %+v", c.name, body)
			}
			if !near(body.Position.X, c.wantX, 1e-9) {
				t.Fatalf("x = %v, want %v", body.Position.X, c.wantX)
			}
			if body.Velocity.X != 0 {
				t.Fatalf("wall should cancel horizontal velocity, got %v", body.Velocity.X)
			}
		})
	}
}

func TestIntegrateSteepSurfaceIsNeitherGroundNorWall(t *testing.T) {
	cfg := component.DefaultMovementConfig()
	steep := plane{normal: cp.Vector{X: -0.8, Y: 0.6}, offset: 0}
	sweeper := &planeSweeper{planes: []plane{steep}}

	// 0.05 from the grown surface
	body := component.NewKinematicBody(steep.normal.Mult(1.05))
	intent := component.MovementIntent{GravityScale: 1, HorizontalVelocity: cfg.MoveSpeed}
	body = Integrate(cfg, body, testBox, component.CollisionLayer{}.Filter(), intent, dt, sweeper)

	if body.Grounded {
		t.Fatalf("surface with normal.y below the threshold must not ground")
	}
	if body.Wall != component.WallNone {
		t.Fatalf("sloped surface must not count as a wall, got %v", body.Wall)
	}
	if body.Velocity.Dot(steep.normal) < -1e-12 {
		t.Fatalf("velocity %v still points into the surface", body.Velocity)
	}
}

func TestIntegrateFollowsSlope(t *testing.T) {
	cfg := component.DefaultMovementConfig()
	slope := plane{normal: slopeNormal, offset: 0}
	sweeper := &planeSweeper{planes: []plane{slope}}

	// the grown slope passes through (0, 1.5); start one shell above it
	body := component.NewKinematicBody(cp.Vector{X: 0, Y: 1.5 + ShellRadius})
	body = Integrate(cfg, body, testBox, component.CollisionLayer{}.Filter(), fall(), dt, sweeper)
	if !body.Grounded {
		t.Fatalf("body resting on a walkable slope should be grounded")
	}
	if body.GroundNormal.Sub(slopeNormal).Length() > 1e-12 {
		t.Fatalf("ground normal = %v, want %v", body.GroundNormal, slopeNormal)
	}

	startY := body.Position.Y
	walk := component.MovementIntent{GravityScale: 1, HorizontalVelocity: cfg.MoveSpeed}
	for i := 0; i < 10; i++ {
		body = Integrate(cfg, body, testBox, component.CollisionLayer{}.Filter(), walk, dt, sweeper)
		if !body.Grounded {
			t.Fatalf("tick %d: left the slope while walking up it", i)
		}
	}

	if body.Position.Y-startY < 0.5 {
		t.Fatalf("walking right should climb the slope, rose only %v", body.Position.Y-startY)
	}
	if !near(body.Position.Y-(1.5+body.Position.X), ShellRadius, 1e-6) {
		t.Fatalf("body should stay one shell above the slope, at %v", body.Position)
	}
}

func TestIntegrateStepsOntoSlope(t *testing.T) {
	cfg := component.DefaultMovementConfig()
	slope := plane{normal: slopeNormal, offset: 0}
	sweeper := &planeSweeper{planes: []plane{floorAtZero, slope}}

	// flat ground meets the grown slope at x = -0.5
	body := restingBody(-2)
	walk := component.MovementIntent{GravityScale: 1, HorizontalVelocity: cfg.MoveSpeed}
	for i := 0; i < 30; i++ {
		body = Integrate(cfg, body, testBox, component.CollisionLayer{}.Filter(), walk, dt, sweeper)
		if !body.Grounded {
			t.Fatalf("tick %d: lost ground at %v", i, body.Position)
		}
		if body.Velocity.Y > 1e-9 {
			t.Fatalf("tick %d: launched off the slope foot with vy = %v", i, body.Velocity.Y)
		}
	}

	if body.GroundNormal.Sub(slopeNormal).Length() > 1e-12 {
		t.Fatalf("ground normal = %v, want the slope's %v", body.GroundNormal, slopeNormal)
	}
	if body.Position.X <= 0 {
		t.Fatalf("stalled at the slope foot, x = %v", body.Position.X)
	}
	if !near(body.Position.Y-(1.5+body.Position.X), ShellRadius, 1e-6) {
		t.Fatalf("body should stay one shell above the slope, at %v", body.Position)
	}
}

func TestIntegrateSnapsToGround(t *testing.T) {
	cfg := component.DefaultMovementConfig()
	speed := cfg.MoveSpeed

	cases := []struct {
		name     string
		drop     float64
		intent   component.MovementIntent
		grounded bool
		wantY    float64
	}{
		{
			name:     "small_drop_while_walking",
			drop:     0.1,
			intent:   component.MovementIntent{GravityScale: 1, HorizontalVelocity: speed},
			grounded: true,
			wantY:    testBox.Height/2 - 0.1 + ShellRadius,
		},
		{
			name:     "dash_keeps_ground",
			drop:     0,
			intent:   component.MovementIntent{HorizontalVelocity: speed * 1.5, OverrideVertical: true},
			grounded: true,
			wantY:    testBox.Height/2 + ShellRadius,
		},
		{
			name:   "drop_beyond_reach",
			drop:   0.5,
			intent: component.MovementIntent{GravityScale: 1, HorizontalVelocity: speed},
			wantY:  testBox.Height/2 + ShellRadius - 9.81*dt*dt,
		},
		{
			name:   "standing_still",
			drop:   0.1,
			intent: component.MovementIntent{GravityScale: 1},
			wantY:  testBox.Height/2 + ShellRadius - 9.81*dt*dt,
		},
		{
			name:   "jumping",
			drop:   0,
			intent: component.MovementIntent{GravityScale: 1, HorizontalVelocity: speed, OverrideVertical: true, VerticalVelocity: 7},
			wantY:  testBox.Height/2 + ShellRadius + (7-9.81*dt)*dt,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			// the body stood on y = 0 last tick; the ground is now drop lower
			sweeper := &planeSweeper{planes: []plane{{normal: cp.Vector{X: 0, Y: 1}, offset: -c.drop}}}
			body := Integrate(cfg, restingBody(0), testBox, component.CollisionLayer{}.Filter(), c.intent, dt, sweeper)

			if body.Grounded != c.grounded {
				t.Fatalf("grounded = %v, want %v (body %+v)", body.Grounded, c.grounded, body)
			}
			if !near(body.Position.Y, c.wantY, 1e-9) {
				t.Fatalf("y = %v, want %v", body.Position.Y, c.wantY)
			}
			if c.grounded && body.Velocity.Y != 0 {
				t.Fatalf("snapped body kept vy = %v", body.Velocity.Y)
			}
			if !c.grounded && body.GroundNormal != (cp.Vector{X: 0, Y: 1}) {
				t.Fatalf("airborne ground normal = %v, want (0,1)", body.GroundNormal)
			}
		})
	}
}

func TestIntegrateSkipsTinyMoves(t *testing.T) {
	cfg := component.DefaultMovementConfig()
	sweeper := &planeSweeper{planes: []plane{floorAtZero}}
	body := restingBody(0)

	intent := component.MovementIntent{GravityScale: 1, HorizontalVelocity: 0.05}
	got := Integrate(cfg, body, testBox, component.CollisionLayer{}.Filter(), intent, dt, sweeper)

	for _, dir := range sweeper.dirs {
		if dir.X != 0 {
			t.Fatalf("a %v move should not be cast, saw direction %v", 0.05*dt, dir)
		}
	}
	if !near(got.Position.X, 0.05*dt, 1e-12) {
		t.Fatalf("tiny moves still apply: x = %v, want %v", got.Position.X, 0.05*dt)
	}
}

func TestIntegrateDefaultsGroundNormal(t *testing.T) {
	cfg := component.DefaultMovementConfig()
	body := component.KinematicBody{Position: cp.Vector{Y: 5}}
	got := Integrate(cfg, body, testBox, component.CollisionLayer{}.Filter(), component.MovementIntent{HorizontalVelocity: 6}, dt, nil)

	if got.GroundNormal != (cp.Vector{X: 0, Y: 1}) {
		t.Fatalf("ground normal = %v, want (0,1)", got.GroundNormal)
	}
	if !near(got.Position.X, 6*dt, 1e-12) || got.Position.Y != 5 {
		t.Fatalf("position = %v", got.Position)
	}
}
