package component

import "github.com/jakecoffman/cp"

// DirectionFreeze is a timed lock that replays a captured velocity and
// gravity scale instead of live input. A new lock replaces the old one.
type DirectionFreeze struct {
	Velocity     cp.Vector
	ReplayY      bool
	GravityScale float64
	Timer        float64
}

// Active reports whether the lock still gates input.
func (f DirectionFreeze) Active() bool {
	return f.Timer > 0
}

// ControlState is everything the control policy carries between ticks.
// Timers count down in seconds and never go below zero.
type ControlState struct {
	CoyoteTimer     float64
	JumpBufferTimer float64
	WallStickTimer  float64
	Freeze          DirectionFreeze

	// Wall is the policy's own wall check result from the end of the
	// previous tick; it may be cleared mid-tick by a wall jump.
	Wall          WallContact
	SlidingOnWall bool
	InstantStick  bool
	FacingLeft    bool

	Hang   bool
	Slide  bool
	Attack bool
}

var ControlStateComponent = NewComponent[ControlState]()

// MovementIntent is what the control policy asks of the integrator for one
// tick.
type MovementIntent struct {
	HorizontalVelocity float64
	GravityScale       float64
	OverrideVertical   bool
	VerticalVelocity   float64
}

var MovementIntentComponent = NewComponent[MovementIntent]()

// ControlContext is the read view and scratch state handed to a policy.
// Body is a copy; policies never write the integrator's state directly.
type ControlContext struct {
	Config MovementConfig
	State  *ControlState
	Body   KinematicBody
	Input  Input
	Dt     float64
	// CheckWall casts the collider sideways (dir is -1 or +1) and reports
	// whether a vertical wall face is within reach.
	CheckWall func(dir float64) bool
}

// ControlPolicy turns input into movement intent. ComputeVelocity runs
// before integration; PostIntegrate runs after it with the fresh contacts.
type ControlPolicy interface {
	Name() string
	ComputeVelocity(ctx *ControlContext) MovementIntent
	PostIntegrate(ctx *ControlContext)
}

// Controller attaches a control policy to an entity.
type Controller struct {
	Policy ControlPolicy
}

var ControllerComponent = NewComponent[Controller]()
