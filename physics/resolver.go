package physics

import "math"

// ResolveVelocities computes post-collision velocities for two spheres
// using impulse resolution along the contact normal. Bodies that are
// already separating are returned unchanged, which also makes repeated
// resolution of the same pair a no-op. Coincident centers cannot be
// resolved and return the inputs untouched.
func ResolveVelocities(posA, velA Vec3, massA float64, posB, velB Vec3, massB float64, restitution float64) (Vec3, Vec3) {
	direction := posA.Sub(posB)
	distSq := direction.LengthSquared()
	if distSq < degenerateDistSq {
		return velA, velB
	}
	normal := direction.Scale(1 / math.Sqrt(distSq))

	relVelocity := velA.Sub(velB)
	velAlongNormal := relVelocity.Dot(normal)
	if velAlongNormal > 0 {
		// Already moving apart
		return velA, velB
	}

	impulse := -(1 + restitution) * velAlongNormal
	impulse /= 1/massA + 1/massB

	newVelA := velA.Add(normal.Scale(impulse / massA))
	newVelB := velB.Sub(normal.Scale(impulse / massB))
	return newVelA, newVelB
}

// ResolvePenetration pushes two overlapping spheres apart along their
// center-to-center direction, half the penetration depth each. The even
// split ignores the mass ratio (see DESIGN.md). Coincident centers push
// along a fixed +X axis.
func ResolvePenetration(posA Vec3, radiusA float64, posB Vec3, radiusB float64) (Vec3, Vec3) {
	direction := posA.Sub(posB)
	distance := direction.Length()

	if distance < 0.0001 {
		direction = Vec3{X: 1}
		distance = 1.0
	} else {
		direction = direction.Scale(1 / distance)
	}

	penetration := radiusA + radiusB - distance
	if penetration <= 0 {
		return posA, posB
	}

	displacement := direction.Scale(penetration / 2)
	return posA.Add(displacement), posB.Sub(displacement)
}
