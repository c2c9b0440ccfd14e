package physics

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// mixedPenetration is the fixed penetration depth assumed when resolving
// non-sphere-sphere pairs; see DESIGN.md.
const mixedPenetration = 0.1

// CollisionMatrix maps a layer name to the layer names it is permitted
// to collide with. Declarations are directional; a pair collides when
// either direction is declared, and not at all when neither is.
type CollisionMatrix map[string][]string

// CollisionEvent records one resolved contact from a collision pass.
// Events are plain data; converting them to gameplay events is the
// caller's concern.
type CollisionEvent struct {
	A      string `json:"a"`
	B      string `json:"b"`
	Normal Vec3   `json:"normal"`
}

// CollisionManager orchestrates per-tick collision processing: layer
// membership, matrix filtering, pairwise shape dispatch, and resolution.
// Each simulation world owns its own manager; layer state is never
// shared between worlds.
type CollisionManager struct {
	layers map[string]map[string]struct{}
}

// NewCollisionManager creates an empty collision manager
func NewCollisionManager() *CollisionManager {
	return &CollisionManager{
		layers: make(map[string]map[string]struct{}),
	}
}

// AddToLayer adds a body id to a named layer, creating the layer on
// first use. A body may belong to multiple layers.
func (cm *CollisionManager) AddToLayer(bodyID, layer string) {
	members, ok := cm.layers[layer]
	if !ok {
		members = make(map[string]struct{})
		cm.layers[layer] = members
	}
	members[bodyID] = struct{}{}
}

// RemoveFromLayer removes a body id from a named layer
func (cm *CollisionManager) RemoveFromLayer(bodyID, layer string) {
	if members, ok := cm.layers[layer]; ok {
		delete(members, bodyID)
	}
}

// HasLayer reports whether a layer exists
func (cm *CollisionManager) HasLayer(layer string) bool {
	_, ok := cm.layers[layer]
	return ok
}

// LayersOf returns the layers a body belongs to
func (cm *CollisionManager) LayersOf(bodyID string) []string {
	var out []string
	for layer, members := range cm.layers {
		if _, ok := members[bodyID]; ok {
			out = append(out, layer)
		}
	}
	return out
}

// ShouldCheck reports whether a pair of bodies has a declared collision
// permission in the matrix, in either direction
func (cm *CollisionManager) ShouldCheck(aID, bID string, matrix CollisionMatrix) bool {
	aLayers := cm.LayersOf(aID)
	bLayers := cm.LayersOf(bID)
	return cm.declared(aLayers, bLayers, matrix) || cm.declared(bLayers, aLayers, matrix)
}

func (cm *CollisionManager) declared(from, to []string, matrix CollisionMatrix) bool {
	for _, fromLayer := range from {
		permitted, ok := matrix[fromLayer]
		if !ok {
			continue
		}
		for _, toLayer := range permitted {
			for _, target := range to {
				if toLayer == target {
					return true
				}
			}
		}
	}
	return false
}

// validateMatrix rejects matrix entries that reference layers the
// manager has never seen. Silently skipping them would mask content
// bugs.
func (cm *CollisionManager) validateMatrix(matrix CollisionMatrix) error {
	for from, targets := range matrix {
		if !cm.HasLayer(from) {
			return fmt.Errorf("collision matrix references unknown layer %q", from)
		}
		for _, to := range targets {
			if !cm.HasLayer(to) {
				return fmt.Errorf("collision matrix layer %q references unknown layer %q", from, to)
			}
		}
	}
	return nil
}

// ProcessCollisions runs one detection and resolution pass over a
// snapshot. Detection reads the input snapshot while resolved state is
// written to a copy, so resolution order within the pass cannot feed an
// earlier pair's correction into a later pair's detection. The pass is
// single-shot, not iterated to convergence.
func (cm *CollisionManager) ProcessCollisions(bodies Snapshot, matrix CollisionMatrix, restitution float64) (Snapshot, []CollisionEvent, error) {
	if err := bodies.Validate(); err != nil {
		return nil, nil, err
	}
	if err := cm.validateMatrix(matrix); err != nil {
		return nil, nil, err
	}

	updated := bodies.Clone()
	var events []CollisionEvent

	ids := bodies.SortedIDs()
	for i := 0; i < len(ids)-1; i++ {
		for j := i + 1; j < len(ids); j++ {
			aID, bID := ids[i], ids[j]
			if !cm.ShouldCheck(aID, bID, matrix) {
				continue
			}

			a := bodies[aID]
			b := bodies[bID]

			hit, contact, sphericalPair := detectPair(a, b)
			if !hit {
				continue
			}

			log.Debug("collision detected", "a", aID, "b", bID,
				"normal", fmt.Sprintf("(%.2f, %.2f, %.2f)", contact.Normal.X, contact.Normal.Y, contact.Normal.Z))

			if sphericalPair {
				resolveSpheres(a, b, contact, restitution, updated)
			} else if !resolveMixed(a, b, contact, restitution, updated) {
				continue
			}

			events = append(events, CollisionEvent{A: aID, B: bID, Normal: contact.Normal})
		}
	}

	return updated, events, nil
}

// detectPair dispatches to the detector matching the shape pair. The
// returned normal always points from b toward a; the sphere-box test is
// sphere-relative, so its normal is negated when the box comes first.
func detectPair(a, b Body) (bool, Contact, bool) {
	switch shapeA := a.Shape.(type) {
	case Sphere:
		switch shapeB := b.Shape.(type) {
		case Sphere:
			hit, contact := CheckSphereSphere(a.Position, shapeA.Radius, b.Position, shapeB.Radius)
			return hit, contact, true
		case Box:
			hit, contact := CheckSphereBox(a.Position, shapeA.Radius, b.Position, shapeB.Half)
			return hit, contact, false
		}
	case Box:
		switch shapeB := b.Shape.(type) {
		case Sphere:
			hit, contact := CheckSphereBox(b.Position, shapeB.Radius, a.Position, shapeA.Half)
			contact.Normal = contact.Normal.Scale(-1)
			return hit, contact, false
		case Box:
			hit, contact := CheckBoxBox(a.Position, shapeA.Half, b.Position, shapeB.Half)
			return hit, contact, false
		}
	}
	return false, Contact{}, false
}

// resolveSpheres applies full velocity and penetration resolution to a
// sphere-sphere pair
func resolveSpheres(a, b Body, _ Contact, restitution float64, updated Snapshot) {
	radiusA := a.Shape.(Sphere).Radius
	radiusB := b.Shape.(Sphere).Radius

	velA, velB := ResolveVelocities(a.Position, a.Velocity, a.Mass, b.Position, b.Velocity, b.Mass, restitution)
	posA, posB := ResolvePenetration(a.Position, radiusA, b.Position, radiusB)

	bodyA := updated[a.ID]
	bodyA.Velocity = velA
	bodyA.Position = posA
	updated[a.ID] = bodyA

	bodyB := updated[b.ID]
	bodyB.Velocity = velB
	bodyB.Position = posB
	updated[b.ID] = bodyB
}

// resolveMixed applies the simplified response used for box-box and
// sphere-box pairs: a single impulse along the contact normal plus a
// small fixed positional correction. It is not penetration-depth-aware
// (see DESIGN.md). Returns false when the pair is already separating.
func resolveMixed(a, b Body, contact Contact, restitution float64, updated Snapshot) bool {
	relVelocity := a.Velocity.Sub(b.Velocity)
	velAlongNormal := relVelocity.Dot(contact.Normal)
	if velAlongNormal > 0 {
		return false
	}

	invMassSum := 1/a.Mass + 1/b.Mass

	impulse := -(1 + restitution) * velAlongNormal / invMassSum
	impulseVec := contact.Normal.Scale(impulse)

	correction := contact.Normal.Scale(mixedPenetration * 0.8 / invMassSum)

	bodyA := updated[a.ID]
	bodyA.Velocity = a.Velocity.Add(impulseVec.Scale(1 / a.Mass))
	bodyA.Position = a.Position.Add(correction.Scale(1 / a.Mass))
	updated[a.ID] = bodyA

	bodyB := updated[b.ID]
	bodyB.Velocity = b.Velocity.Sub(impulseVec.Scale(1 / b.Mass))
	bodyB.Position = b.Position.Sub(correction.Scale(1 / b.Mass))
	updated[b.ID] = bodyB
	return true
}
