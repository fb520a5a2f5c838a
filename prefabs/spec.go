package prefabs

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/platformer/ecs/component"
	"gopkg.in/yaml.v3"
)

const PlayerSpecFile = "player.yaml"

// unmarshal decodes data in the format named by the file extension. Anything
// that is not .toml is read as YAML.
func unmarshal(name string, data []byte, v any) error {
	if strings.EqualFold(filepath.Ext(name), ".toml") {
		return toml.Unmarshal(data, v)
	}
	return yaml.Unmarshal(data, v)
}

type VectorSpec struct {
	X float64 `yaml:"x" toml:"x"`
	Y float64 `yaml:"y" toml:"y"`
}

func (v VectorSpec) Vector() cp.Vector {
	return cp.Vector{X: v.X, Y: v.Y}
}

type ColliderSpec struct {
	Width  float64 `yaml:"width" toml:"width"`
	Height float64 `yaml:"height" toml:"height"`
}

type FeaturesSpec struct {
	Dash          bool   `yaml:"dash" toml:"dash"`
	AttackTrigger bool   `yaml:"attack_trigger" toml:"attack_trigger"`
	WallJump      string `yaml:"wall_jump" toml:"wall_jump"`
}

type MovementSpec struct {
	Gravity          VectorSpec `yaml:"gravity" toml:"gravity"`
	GravityScale     float64    `yaml:"gravity_scale" toml:"gravity_scale"`
	MaxFallSpeed     float64    `yaml:"max_fall_speed" toml:"max_fall_speed"`
	MinGroundNormalY float64    `yaml:"min_ground_normal_y" toml:"min_ground_normal_y"`

	MoveSpeed            float64 `yaml:"move_speed" toml:"move_speed"`
	JumpTakeoffSpeed     float64 `yaml:"jump_takeoff_speed" toml:"jump_takeoff_speed"`
	HighJumpGravityScale float64 `yaml:"high_jump_gravity_scale" toml:"high_jump_gravity_scale"`

	CoyoteTime     float64 `yaml:"coyote_time" toml:"coyote_time"`
	JumpBufferTime float64 `yaml:"jump_buffer_time" toml:"jump_buffer_time"`

	WallStickTime     float64    `yaml:"wall_stick_time" toml:"wall_stick_time"`
	WallJumpSpeed     VectorSpec `yaml:"wall_jump_speed" toml:"wall_jump_speed"`
	WallSlideSpeed    float64    `yaml:"wall_slide_speed" toml:"wall_slide_speed"`
	WallCheckDistance float64    `yaml:"wall_check_distance" toml:"wall_check_distance"`

	DirectionFreezeTime float64 `yaml:"direction_freeze_time" toml:"direction_freeze_time"`

	DashSpeedMultiplier float64 `yaml:"dash_speed_multiplier" toml:"dash_speed_multiplier"`
	DashTime            float64 `yaml:"dash_time" toml:"dash_time"`
}

// PlayerSpec is the player prefab. Fields missing from the file keep the
// values of DefaultPlayerSpec.
type PlayerSpec struct {
	Name           string                   `yaml:"name" toml:"name"`
	Collider       ColliderSpec             `yaml:"collider" toml:"collider"`
	CollisionLayer component.CollisionLayer `yaml:"collision_layer" toml:"collision_layer"`
	Movement       MovementSpec             `yaml:"movement" toml:"movement"`
	Features       FeaturesSpec             `yaml:"features" toml:"features"`
}

func DefaultPlayerSpec() PlayerSpec {
	cfg := component.DefaultMovementConfig()
	return PlayerSpec{
		Name:     "player",
		Collider: ColliderSpec{Width: 0.8, Height: 1.6},
		Movement: MovementSpec{
			Gravity:              VectorSpec{X: cfg.Gravity.X, Y: cfg.Gravity.Y},
			GravityScale:         cfg.GravityScale,
			MaxFallSpeed:         cfg.MaxFallSpeed,
			MinGroundNormalY:     cfg.MinGroundNormalY,
			MoveSpeed:            cfg.MoveSpeed,
			JumpTakeoffSpeed:     cfg.JumpTakeoffSpeed,
			HighJumpGravityScale: cfg.HighJumpGravityScale,
			CoyoteTime:           cfg.CoyoteTime,
			JumpBufferTime:       cfg.JumpBufferTime,
			WallStickTime:        cfg.WallStickTime,
			WallJumpSpeed:        VectorSpec{X: cfg.WallJumpSpeed.X, Y: cfg.WallJumpSpeed.Y},
			WallSlideSpeed:       cfg.WallSlideSpeed,
			WallCheckDistance:    cfg.WallCheckDistance,
			DirectionFreezeTime:  cfg.DirectionFreezeTime,
			DashSpeedMultiplier:  cfg.DashSpeedMultiplier,
			DashTime:             cfg.DashTime,
		},
		Features: FeaturesSpec{
			Dash:          cfg.Features.EnableDash,
			AttackTrigger: cfg.Features.EnableAttackTrigger,
			WallJump:      cfg.Features.WallJump.String(),
		},
	}
}

// ParsePlayerSpec decodes YAML data on top of the defaults and validates
// the resulting movement config.
func ParsePlayerSpec(data []byte) (*PlayerSpec, error) {
	return ParsePlayerSpecFile(PlayerSpecFile, data)
}

// ParsePlayerSpecFile is ParsePlayerSpec for data read from name, which may
// be YAML or TOML.
func ParsePlayerSpecFile(name string, data []byte) (*PlayerSpec, error) {
	spec := DefaultPlayerSpec()
	if err := unmarshal(name, data, &spec); err != nil {
		return nil, err
	}
	if spec.Collider.Width <= 0 || spec.Collider.Height <= 0 {
		return nil, fmt.Errorf("%w: collider must have a positive size", component.ErrInvalidMovementConfig)
	}
	if _, err := spec.MovementConfig(); err != nil {
		return nil, err
	}
	return &spec, nil
}

func LoadPlayerSpec() (*PlayerSpec, error) {
	return LoadPlayerSpecFile(PlayerSpecFile)
}

// LoadPlayerSpecFile loads a player prefab by name. An empty name loads
// the default prefab.
func LoadPlayerSpecFile(name string) (*PlayerSpec, error) {
	if name == "" {
		name = PlayerSpecFile
	}
	data, err := Load(name)
	if err != nil {
		return nil, fmt.Errorf("prefabs: load %s: %w", name, err)
	}
	spec, err := ParsePlayerSpecFile(name, data)
	if err != nil {
		return nil, fmt.Errorf("prefabs: unmarshal %s: %w", name, err)
	}
	return spec, nil
}

// MovementConfig converts the spec into the controller's tunables.
func (s *PlayerSpec) MovementConfig() (component.MovementConfig, error) {
	variant, err := component.ParseWallJumpVariant(s.Features.WallJump)
	if err != nil {
		return component.MovementConfig{}, err
	}
	m := s.Movement
	cfg := component.MovementConfig{
		Gravity:              m.Gravity.Vector(),
		GravityScale:         m.GravityScale,
		MaxFallSpeed:         m.MaxFallSpeed,
		MinGroundNormalY:     m.MinGroundNormalY,
		MoveSpeed:            m.MoveSpeed,
		JumpTakeoffSpeed:     m.JumpTakeoffSpeed,
		HighJumpGravityScale: m.HighJumpGravityScale,
		CoyoteTime:           m.CoyoteTime,
		JumpBufferTime:       m.JumpBufferTime,
		WallStickTime:        m.WallStickTime,
		WallJumpSpeed:        m.WallJumpSpeed.Vector(),
		WallSlideSpeed:       m.WallSlideSpeed,
		WallCheckDistance:    m.WallCheckDistance,
		DirectionFreezeTime:  m.DirectionFreezeTime,
		DashSpeedMultiplier:  m.DashSpeedMultiplier,
		DashTime:             m.DashTime,
		Features: component.Features{
			EnableDash:          s.Features.Dash,
			EnableAttackTrigger: s.Features.AttackTrigger,
			WallJump:            variant,
		},
	}
	if err := cfg.Validate(); err != nil {
		return component.MovementConfig{}, err
	}
	return cfg, nil
}

func (s *PlayerSpec) ColliderComponent() component.Collider {
	return component.Collider{Width: s.Collider.Width, Height: s.Collider.Height}
}
