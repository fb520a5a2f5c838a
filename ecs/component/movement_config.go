package component

import (
	"errors"
	"fmt"

	"github.com/jakecoffman/cp"
)

var ErrInvalidMovementConfig = errors.New("movement: invalid config")

// WallJumpVariant selects how a wall jump sets the launch velocity.
type WallJumpVariant int

const (
	// WallJumpImpulse launches with (±WallJumpSpeed.X, WallJumpSpeed.Y).
	WallJumpImpulse WallJumpVariant = iota
	// WallJumpClassic launches with (±MoveSpeed, JumpTakeoffSpeed).
	WallJumpClassic
)

func (v WallJumpVariant) String() string {
	if v == WallJumpClassic {
		return "classic"
	}
	return "impulse"
}

// ParseWallJumpVariant maps a config name to a variant. The empty string
// selects the default.
func ParseWallJumpVariant(name string) (WallJumpVariant, error) {
	switch name {
	case "", "impulse":
		return WallJumpImpulse, nil
	case "classic":
		return WallJumpClassic, nil
	default:
		return WallJumpImpulse, fmt.Errorf("%w: unknown wall jump variant %q", ErrInvalidMovementConfig, name)
	}
}

// Features toggles the optional parts of the platformer controller.
type Features struct {
	EnableDash          bool
	EnableAttackTrigger bool
	WallJump            WallJumpVariant
}

// MovementConfig holds the immutable tunables of a character. Durations are
// seconds, speeds units per second.
type MovementConfig struct {
	Gravity          cp.Vector // world gravity before GravityScale
	GravityScale     float64
	MaxFallSpeed     float64
	MinGroundNormalY float64

	MoveSpeed            float64
	JumpTakeoffSpeed     float64
	HighJumpGravityScale float64

	CoyoteTime     float64
	JumpBufferTime float64

	WallStickTime     float64
	WallJumpSpeed     cp.Vector
	WallSlideSpeed    float64 // signed; negative slides down
	WallCheckDistance float64

	DirectionFreezeTime float64

	DashSpeedMultiplier float64
	DashTime            float64

	Features Features
}

// DefaultMovementConfig returns the tuning the player prefab ships with.
func DefaultMovementConfig() MovementConfig {
	return MovementConfig{
		Gravity:              cp.Vector{X: 0, Y: -9.81},
		GravityScale:         1,
		MaxFallSpeed:         10,
		MinGroundNormalY:     0.65,
		MoveSpeed:            7,
		JumpTakeoffSpeed:     7,
		HighJumpGravityScale: 1,
		CoyoteTime:           0.2,
		JumpBufferTime:       0.1,
		WallStickTime:        0.1,
		WallJumpSpeed:        cp.Vector{X: 4, Y: 15},
		WallSlideSpeed:       -1.5,
		WallCheckDistance:    0.1,
		DirectionFreezeTime:  0.15,
		DashSpeedMultiplier:  1.5,
		DashTime:             0.3,
		Features: Features{
			EnableDash:          true,
			EnableAttackTrigger: true,
			WallJump:            WallJumpImpulse,
		},
	}
}

// Validate reports the first tunable that cannot drive a simulation.
func (c MovementConfig) Validate() error {
	nonNegative := []struct {
		name  string
		value float64
	}{
		{"gravity_scale", c.GravityScale},
		{"max_fall_speed", c.MaxFallSpeed},
		{"move_speed", c.MoveSpeed},
		{"jump_takeoff_speed", c.JumpTakeoffSpeed},
		{"high_jump_gravity_scale", c.HighJumpGravityScale},
		{"coyote_time", c.CoyoteTime},
		{"jump_buffer_time", c.JumpBufferTime},
		{"wall_stick_time", c.WallStickTime},
		{"wall_check_distance", c.WallCheckDistance},
		{"direction_freeze_time", c.DirectionFreezeTime},
		{"dash_speed_multiplier", c.DashSpeedMultiplier},
		{"dash_time", c.DashTime},
	}
	for _, f := range nonNegative {
		if f.value < 0 {
			return fmt.Errorf("%w: %s must not be negative (got %v)", ErrInvalidMovementConfig, f.name, f.value)
		}
	}
	if c.MinGroundNormalY <= 0 || c.MinGroundNormalY >= 1 {
		return fmt.Errorf("%w: min_ground_normal_y must be in (0,1) (got %v)", ErrInvalidMovementConfig, c.MinGroundNormalY)
	}
	if c.MoveSpeed == 0 {
		return fmt.Errorf("%w: move_speed must be positive", ErrInvalidMovementConfig)
	}
	return nil
}

var MovementConfigComponent = NewComponent[MovementConfig]()
