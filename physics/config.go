package physics

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MovementConfig tunes the omni-movement controller
type MovementConfig struct {
	MaxSpeed           float64 `yaml:"max_speed"`
	Acceleration       float64 `yaml:"acceleration"`
	Deceleration       float64 `yaml:"deceleration"`
	AirControl         float64 `yaml:"air_control"`
	StrafeMultiplier   float64 `yaml:"strafe_multiplier"`
	BackwardMultiplier float64 `yaml:"backward_multiplier"`
	SprintMultiplier   float64 `yaml:"sprint_multiplier"`
	CrouchMultiplier   float64 `yaml:"crouch_multiplier"`
}

// Config is the explicitly constructed, owned configuration for one
// simulation world. Two worlds never share one; that keeps independent
// matches deterministic and isolated.
type Config struct {
	GravityConstant  float64         `yaml:"gravity_constant"`
	GravityDirection Vec3            `yaml:"gravity_direction"`
	AirResistance    float64         `yaml:"air_resistance"`
	GroundFriction   float64         `yaml:"ground_friction"`
	Restitution      float64         `yaml:"restitution"`
	Movement         MovementConfig  `yaml:"movement"`
	Zones            []GravityZone   `yaml:"zones"`
	CollisionMatrix  CollisionMatrix `yaml:"collision_matrix"`
}

// DefaultConfig returns the stock tuning
func DefaultConfig() Config {
	return Config{
		GravityConstant:  DefaultGravityConstant,
		GravityDirection: Vec3{Y: -1},
		AirResistance:    0.01,
		GroundFriction:   0.1,
		Restitution:      0.5,
		Movement: MovementConfig{
			MaxSpeed:           5.0,
			Acceleration:       20.0,
			Deceleration:       25.0,
			AirControl:         0.3,
			StrafeMultiplier:   0.8,
			BackwardMultiplier: 0.7,
			SprintMultiplier:   1.5,
			CrouchMultiplier:   0.5,
		},
		CollisionMatrix: CollisionMatrix{},
	}
}

// LoadConfig reads a YAML config file over the defaults and validates
// the result
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects configurations that would corrupt the simulation:
// negative strengths, out-of-range fractions, degenerate zones.
// Matrix entries are checked against the world's layers at tick time,
// not here, since layers are populated at runtime.
func (c Config) Validate() error {
	if c.GravityConstant < 0 {
		return fmt.Errorf("gravity_constant must be non-negative, got %v", c.GravityConstant)
	}
	if c.GravityDirection.IsZero() {
		return fmt.Errorf("gravity_direction must be non-zero")
	}
	if c.AirResistance < 0 || c.GroundFriction < 0 {
		return fmt.Errorf("friction coefficients must be non-negative")
	}
	if c.Restitution < 0 || c.Restitution > 1 {
		return fmt.Errorf("restitution must be in [0, 1], got %v", c.Restitution)
	}
	if c.Movement.AirControl < 0 || c.Movement.AirControl > 1 {
		return fmt.Errorf("air_control must be in [0, 1], got %v", c.Movement.AirControl)
	}
	if c.Movement.MaxSpeed < 0 || c.Movement.Acceleration < 0 || c.Movement.Deceleration < 0 {
		return fmt.Errorf("movement speeds must be non-negative")
	}
	for i, zone := range c.Zones {
		if zone.Radius <= 0 {
			return fmt.Errorf("zone %d radius must be positive, got %v", i, zone.Radius)
		}
		if zone.Direction != nil && zone.Direction.IsZero() {
			return fmt.Errorf("zone %d direction must be non-zero when set", i)
		}
	}
	return nil
}

// movement builds a controller from the config
func (c Config) movement(motion *Motion) *OmniMovement {
	om := NewOmniMovement(motion)
	om.MaxSpeed = c.Movement.MaxSpeed
	om.Acceleration = c.Movement.Acceleration
	om.Deceleration = c.Movement.Deceleration
	om.AirControl = c.Movement.AirControl
	om.StrafeMultiplier = c.Movement.StrafeMultiplier
	om.BackwardMultiplier = c.Movement.BackwardMultiplier
	om.SprintMultiplier = c.Movement.SprintMultiplier
	om.CrouchMultiplier = c.Movement.CrouchMultiplier
	return om
}
