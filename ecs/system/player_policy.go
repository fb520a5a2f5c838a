package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/ecs/component"
)

// PlatformerPolicy is the player control state machine: jump buffering and
// coyote time, wall stick/slide/jump, direction freezes, attack and dash.
type PlatformerPolicy struct{}

func NewPlatformerPolicy() *PlatformerPolicy {
	return &PlatformerPolicy{}
}

func (p *PlatformerPolicy) Name() string {
	return "platformer"
}

// motion is the velocity and gravity a policy is building up for one tick.
type motion struct {
	vx        float64
	vy        float64
	overrideY bool
	gravity   float64
}

func (m *motion) setVertical(vy float64) {
	m.vy = vy
	m.overrideY = true
}

func (m motion) intent() component.MovementIntent {
	return component.MovementIntent{
		HorizontalVelocity: m.vx,
		GravityScale:       m.gravity,
		OverrideVertical:   m.overrideY,
		VerticalVelocity:   m.vy,
	}
}

// ComputeVelocity runs before integration against the previous tick's
// contact state.
func (p *PlatformerPolicy) ComputeVelocity(ctx *component.ControlContext) component.MovementIntent {
	if ctx == nil || ctx.State == nil {
		return component.MovementIntent{}
	}
	cfg := ctx.Config
	st := ctx.State
	in := ctx.Input

	bufferJump(ctx)
	st.Attack = false

	m := motion{vy: ctx.Body.Velocity.Y, gravity: cfg.GravityScale}
	if canMove(st, ctx.Dt) {
		jump(ctx, &m)
		m.vx = in.MoveX * cfg.MoveSpeed
		hanging := wallInteract(ctx, &m)
		st.Hang = hanging

		m.gravity = gravityScale(ctx, m, hanging)

		if cfg.Features.EnableAttackTrigger && in.AttackPressed {
			st.Attack = true
		}
		if cfg.Features.EnableDash && in.DashPressed {
			dash(ctx, &m)
		} else {
			st.Slide = false
		}
	} else {
		m.vx = st.Freeze.Velocity.X
		if st.Freeze.ReplayY {
			m.setVertical(st.Freeze.Velocity.Y)
		}
		m.gravity = st.Freeze.GravityScale
		st.Hang = false
	}

	if m.vx != 0 {
		st.FacingLeft = m.vx < 0
	}
	return m.intent()
}

// PostIntegrate refreshes coyote time and re-checks for walls from the
// fresh contact state.
func (p *PlatformerPolicy) PostIntegrate(ctx *component.ControlContext) {
	if ctx == nil || ctx.State == nil {
		return
	}
	st := ctx.State

	if ctx.Body.Grounded {
		st.CoyoteTimer = ctx.Config.CoyoteTime
	} else {
		st.CoyoteTimer = common.Countdown(st.CoyoteTimer, ctx.Dt)
	}

	st.Wall = component.WallNone
	if ctx.Body.Grounded || ctx.CheckWall == nil {
		return
	}
	if ctx.CheckWall(-1) {
		st.Wall = component.WallLeft
		return
	}
	if ctx.CheckWall(1) {
		st.Wall = component.WallRight
	}
}

func bufferJump(ctx *component.ControlContext) {
	st := ctx.State
	if ctx.Input.JumpPressed {
		st.JumpBufferTimer = ctx.Config.JumpBufferTime
		return
	}
	st.JumpBufferTimer = common.Countdown(st.JumpBufferTimer, ctx.Dt)
}

// canMove reports whether live input drives this tick, counting down an
// active direction freeze otherwise.
func canMove(st *component.ControlState, dt float64) bool {
	if !st.Freeze.Active() {
		return true
	}
	st.Freeze.Timer = common.Countdown(st.Freeze.Timer, dt)
	return false
}

func jump(ctx *component.ControlContext, m *motion) {
	st := ctx.State
	if st.JumpBufferTimer > 0 && st.CoyoteTimer > 0 {
		m.setVertical(ctx.Config.JumpTakeoffSpeed)
		st.JumpBufferTimer = 0
		st.CoyoteTimer = 0
	}
}

// wallInteract applies wall stick, slide and wall jump. It reports whether
// the body is hanging on the wall with gravity suspended.
func wallInteract(ctx *component.ControlContext, m *motion) bool {
	cfg := ctx.Config
	st := ctx.State
	in := ctx.Input

	if ctx.Body.Grounded {
		st.InstantStick = false
		st.WallStickTimer = 0
		st.SlidingOnWall = false
		return false
	}
	if st.Wall == component.WallNone {
		st.SlidingOnWall = false
		return false
	}

	pressingAway := (st.Wall == component.WallLeft && in.MoveX > 0) ||
		(st.Wall == component.WallRight && in.MoveX < 0)
	if pressingAway {
		st.WallStickTimer = common.Countdown(st.WallStickTimer, ctx.Dt)
		st.SlidingOnWall = st.WallStickTimer > 0
	} else {
		st.WallStickTimer = cfg.WallStickTime
		st.SlidingOnWall = true
	}
	if !st.SlidingOnWall {
		return false
	}

	m.vx = 0
	hanging := false
	if m.vy <= 0 || st.InstantStick {
		m.setVertical(cfg.WallSlideSpeed)
		hanging = true
	}

	if in.JumpPressed {
		wallJump(ctx, m)
		return false
	}
	return hanging
}

func wallJump(ctx *component.ControlContext, m *motion) {
	cfg := ctx.Config
	st := ctx.State

	away := 1.0
	if st.Wall == component.WallRight {
		away = -1
	}

	var vx, vy float64
	switch cfg.Features.WallJump {
	case component.WallJumpClassic:
		vx, vy = away*cfg.MoveSpeed, cfg.JumpTakeoffSpeed
	default:
		vx, vy = away*cfg.WallJumpSpeed.X, cfg.WallJumpSpeed.Y
	}
	m.vx = vx
	m.setVertical(vy)

	st.WallStickTimer = 0
	st.SlidingOnWall = false
	st.JumpBufferTimer = 0
	st.InstantStick = true
	st.Wall = component.WallNone
	st.Freeze = component.DirectionFreeze{
		Velocity:     cp.Vector{X: vx, Y: cfg.WallJumpSpeed.Y},
		ReplayY:      false,
		GravityScale: 0,
		Timer:        cfg.DirectionFreezeTime,
	}
}

func dash(ctx *component.ControlContext, m *motion) {
	cfg := ctx.Config
	st := ctx.State

	speed := cfg.MoveSpeed * cfg.DashSpeedMultiplier
	if st.FacingLeft {
		speed = -speed
	}
	if st.SlidingOnWall {
		speed = -speed
	}

	m.vx = speed
	m.setVertical(0)
	m.gravity = 0
	st.Slide = true
	st.Freeze = component.DirectionFreeze{
		Velocity:     cp.Vector{X: speed, Y: 0},
		ReplayY:      true,
		GravityScale: 0,
		Timer:        cfg.DashTime,
	}
}

func gravityScale(ctx *component.ControlContext, m motion, hanging bool) float64 {
	switch {
	case hanging:
		return 0
	case ctx.Input.JumpHeld && m.vy > 0:
		return ctx.Config.HighJumpGravityScale
	default:
		return ctx.Config.GravityScale
	}
}
