package physics

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// World is the tick entry point exposed to gameplay collaborators. It
// owns one configuration, one motion system, one collision manager, and
// one gravity system; independent matches each construct their own
// World and never share these.
//
// A tick is a pure function of the input snapshot plus the World's
// configuration: the caller supplies a snapshot, Step returns the
// updated snapshot and the collision events recorded on the way. The
// core holds no reference to the caller's bodies between ticks.
type World struct {
	cfg        Config
	motion     *MotionSystem
	collisions *CollisionManager
	gravity    *GravitySystem
}

// NewWorld constructs a world from a validated configuration
func NewWorld(cfg Config) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("world config: %w", err)
	}

	motion := NewMotion()
	motion.SetGravity(cfg.GravityDirection.Normalize().Scale(cfg.GravityConstant))
	motion.SetFrictionCoefficients(cfg.AirResistance, cfg.GroundFriction)

	world := &World{
		cfg: cfg,
		motion: &MotionSystem{
			Motion:   motion,
			Movement: cfg.movement(motion),
		},
		collisions: NewCollisionManager(),
		gravity:    NewGravitySystem(cfg.GravityConstant, cfg.GravityDirection),
	}

	log.Debug("world created",
		"gravity", cfg.GravityConstant,
		"restitution", cfg.Restitution,
		"zones", len(cfg.Zones))
	return world, nil
}

// Config returns the world's configuration
func (w *World) Config() Config { return w.cfg }

// Gravity returns the world's gravity system, for callers that manage
// gravity registration or zone composition themselves
func (w *World) Gravity() *GravitySystem { return w.gravity }

// Motion returns the world's motion system
func (w *World) Motion() *MotionSystem { return w.motion }

// AddToLayer adds a body id to a named collision layer
func (w *World) AddToLayer(bodyID, layer string) {
	w.collisions.AddToLayer(bodyID, layer)
}

// RemoveFromLayer removes a body id from a named collision layer
func (w *World) RemoveFromLayer(bodyID, layer string) {
	w.collisions.RemoveFromLayer(bodyID, layer)
}

// Step advances the world one tick: per-body integration and movement
// first, then collision detection and resolution against the updated
// state. The input snapshot is never mutated; a body with invalid data
// fails the whole tick before any state changes.
func (w *World) Step(bodies Snapshot, dt float64) (Snapshot, []CollisionEvent, error) {
	if err := bodies.Validate(); err != nil {
		return nil, nil, err
	}

	updated := w.motion.Step(bodies, dt)

	updated, events, err := w.collisions.ProcessCollisions(updated, w.cfg.CollisionMatrix, w.cfg.Restitution)
	if err != nil {
		return nil, nil, err
	}
	return updated, events, nil
}

// RayCast casts a ray against the bodies of a snapshot. Targets are
// scanned in sorted id order, so exact distance ties resolve the same
// way every call. Useful for line-of-sight and hit-scan checks between
// ticks.
func (w *World) RayCast(origin, direction Vec3, maxDistance float64, bodies Snapshot) (RayHit, bool) {
	targets := make([]RayTarget, 0, len(bodies))
	for _, id := range bodies.SortedIDs() {
		body := bodies[id]
		targets = append(targets, RayTarget{ID: id, Shape: body.Shape, Position: body.Position})
	}
	return RayCast(origin, direction, maxDistance, targets)
}
