package physics

import (
	"math"

	"github.com/charmbracelet/log"
)

// Default gravitational parameters
const (
	DefaultGravityConstant = 9.81
	// NewtonianG is the universal gravitational constant used by
	// ApplyAttraction, in N·m²/kg².
	NewtonianG = 6.674e-11
	// DefaultMinAttractionDistance clamps the separation used in
	// ApplyAttraction so the inverse-square term stays bounded.
	DefaultMinAttractionDistance = 1.0
	// ZoneInfluenceThreshold is the influence factor below which a
	// gravity zone is treated as inactive for a body.
	ZoneInfluenceThreshold = 0.05
)

// GravitySystem maintains a global gravity vector and applies uniform
// acceleration to registered bodies. Each simulation world owns its own
// instance; there is no shared module state.
type GravitySystem struct {
	constant   float64
	direction  Vec3
	vector     Vec3
	registered map[string]struct{}
}

// NewGravitySystem creates a gravity system with the given strength and
// direction. The direction is normalized on the way in.
func NewGravitySystem(constant float64, direction Vec3) *GravitySystem {
	gs := &GravitySystem{
		registered: make(map[string]struct{}),
	}
	gs.constant = constant
	gs.direction = direction.Normalize()
	if gs.direction.IsZero() {
		gs.direction = Vec3{Y: -1}
	}
	gs.vector = gs.direction.Scale(gs.constant)
	return gs
}

// Register adds a body id to the per-tick uniform gravity sweep
func (gs *GravitySystem) Register(bodyID string) {
	gs.registered[bodyID] = struct{}{}
}

// Unregister removes a body id from the gravity sweep
func (gs *GravitySystem) Unregister(bodyID string) {
	delete(gs.registered, bodyID)
}

// Constant returns the current gravity strength
func (gs *GravitySystem) Constant() float64 { return gs.constant }

// Direction returns the current unit gravity direction
func (gs *GravitySystem) Direction() Vec3 { return gs.direction }

// Vector returns direction scaled by strength
func (gs *GravitySystem) Vector() Vec3 { return gs.vector }

// SetConstant updates the gravity strength and recomputes the vector
func (gs *GravitySystem) SetConstant(constant float64) {
	gs.constant = constant
	gs.vector = gs.direction.Scale(constant)
}

// SetDirection updates the gravity direction (normalized) and recomputes
// the vector
func (gs *GravitySystem) SetDirection(direction Vec3) {
	normalized := direction.Normalize()
	if normalized.IsZero() {
		log.Warn("ignoring zero gravity direction")
		return
	}
	gs.direction = normalized
	gs.vector = gs.direction.Scale(gs.constant)
}

// Disable zeroes the gravity strength, keeping the direction
func (gs *GravitySystem) Disable() {
	gs.SetConstant(0)
}

// Enable restores gravity at the given strength
func (gs *GravitySystem) Enable(constant float64) {
	gs.SetConstant(constant)
}

// ApplyGravity accelerates a single body by the gravity vector. Mass
// does not appear: the gravitational force and the inertial mass cancel,
// as in real free fall.
func (gs *GravitySystem) ApplyGravity(body *Body, dt float64) {
	body.Velocity = body.Velocity.Add(gs.vector.Scale(dt))
}

// Update applies uniform gravity to every registered body present in
// the snapshot
func (gs *GravitySystem) Update(bodies Snapshot, dt float64) {
	for id := range gs.registered {
		body, ok := bodies[id]
		if !ok {
			continue
		}
		gs.ApplyGravity(&body, dt)
		bodies[id] = body
	}
}

// ApplyAttraction models Newtonian attraction of a body toward an
// attractor using F = G·m1·m2/r². The separation is clamped to
// minDistance so acceleration stays bounded at small ranges. This path
// is independent of the uniform gravity vector and is invoked explicitly
// per attractor pair, never as part of Update.
func (gs *GravitySystem) ApplyAttraction(body *Body, attractorPos Vec3, attractorMass, dt, minDistance, gravityConstant float64) {
	direction := attractorPos.Sub(body.Position)
	distance := math.Max(direction.Length(), minDistance)
	direction = direction.Scale(1 / distance)

	forceMagnitude := gravityConstant * (body.Mass * attractorMass) / (distance * distance)
	acceleration := direction.Scale(forceMagnitude / body.Mass)
	body.Velocity = body.Velocity.Add(acceleration.Scale(dt))
}

// GravityZone is a sphere of influence with a strength modifier and an
// optional custom direction. Overlapping zones are evaluated
// independently by the caller, not summed by the system.
type GravityZone struct {
	Position  Vec3    `json:"position" yaml:"position"`
	Radius    float64 `json:"radius" yaml:"radius"`
	Modifier  float64 `json:"modifier" yaml:"modifier"`
	Direction *Vec3   `json:"direction,omitempty" yaml:"direction,omitempty"`
	Disabled  bool    `json:"disabled,omitempty" yaml:"disabled,omitempty"`
}

// Contains reports whether a position lies within the zone's radius
func (z GravityZone) Contains(position Vec3) bool {
	return position.Sub(z.Position).LengthSquared() <= z.Radius*z.Radius
}

// InfluenceFactor returns how strongly the zone affects a position:
// linear falloff from 1.0 at the center to 0.0 at the edge, 0 outside.
func (z GravityZone) InfluenceFactor(position Vec3) float64 {
	if !z.Contains(position) {
		return 0
	}
	distance := position.Sub(z.Position).Length()
	return 1.0 - distance/z.Radius
}

// Adjust returns the gravity constant and direction the system would use
// for a body at the given position under this zone. Below the influence
// threshold, or when the zone is disabled, the system's own values come
// back unchanged. A custom zone direction is blended toward by the
// influence factor and re-normalized.
func (z GravityZone) Adjust(gs *GravitySystem, position Vec3, influenceThreshold float64) (float64, Vec3) {
	if z.Disabled {
		return gs.Constant(), gs.Direction()
	}

	influence := z.InfluenceFactor(position)
	if influence <= influenceThreshold {
		return gs.Constant(), gs.Direction()
	}

	constant := gs.Constant() * z.Modifier

	direction := gs.Direction()
	if z.Direction != nil {
		zoneDir := z.Direction.Normalize()
		blended := gs.Direction().Scale(1 - influence).Add(zoneDir.Scale(influence))
		normalized := blended.Normalize()
		if !normalized.IsZero() {
			direction = normalized
		}
	}

	return constant, direction
}
