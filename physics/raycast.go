package physics

import "math"

// rayParallelEpsilon bounds a direction component at which the ray is
// treated as parallel to a slab in the box test.
const rayParallelEpsilon = 1e-6

// RayTarget is a candidate object for a ray query
type RayTarget struct {
	ID       string
	Shape    Shape
	Position Vec3
}

// RayHit describes the closest intersection found by RayCast
type RayHit struct {
	Target   RayTarget
	Distance float64
	Point    Vec3
	Normal   Vec3
}

// RayCast casts a ray against a set of candidate targets and returns the
// globally closest hit within [0, maxDistance]. Targets are scanned in
// order; an exact distance tie keeps the earlier target. The direction
// must be a unit vector. This is the one query gameplay systems call
// outside the main tick, for line-of-sight and hit-scan checks.
func RayCast(origin, direction Vec3, maxDistance float64, targets []RayTarget) (RayHit, bool) {
	closest := RayHit{Distance: maxDistance}
	found := false

	for _, target := range targets {
		switch shape := target.Shape.(type) {
		case Sphere:
			if dist, ok := raySphere(origin, direction, target.Position, shape.Radius); ok && dist < closest.Distance {
				point := origin.Add(direction.Scale(dist))
				closest = RayHit{
					Target:   target,
					Distance: dist,
					Point:    point,
					Normal:   point.Sub(target.Position).Scale(1 / shape.Radius),
				}
				found = true
			}
		case Box:
			if dist, normal, ok := rayBox(origin, direction, target.Position, shape.Half); ok && dist < closest.Distance {
				closest = RayHit{
					Target:   target,
					Distance: dist,
					Point:    origin.Add(direction.Scale(dist)),
					Normal:   normal,
				}
				found = true
			}
		}
	}

	return closest, found
}

// raySphere returns the near intersection distance via the chord-length
// formula. Spheres behind the origin or beyond the ray's closest
// approach are rejected before any square root is taken.
func raySphere(origin, direction, center Vec3, radius float64) (float64, bool) {
	offset := center.Sub(origin)

	// Closest point on the ray to the sphere center
	projected := offset.Dot(direction)
	if projected < 0 {
		// Sphere is behind the ray origin
		return 0, false
	}

	closestDistSq := offset.LengthSquared() - projected*projected
	if closestDistSq > radius*radius {
		return 0, false
	}

	halfChord := math.Sqrt(radius*radius - closestDistSq)
	dist := projected - halfChord
	if dist < 0 {
		return 0, false
	}
	return dist, true
}

// rayBox runs the slab method across the three axes, tracking the
// largest entry time and the axis that produced it for the hit normal.
// An origin inside the box hits on the exit time instead.
func rayBox(origin, direction, center Vec3, half Vec3) (float64, Vec3, bool) {
	minBounds := center.Sub(half)
	maxBounds := center.Add(half)

	originAxes := [3]float64{origin.X, origin.Y, origin.Z}
	dirAxes := [3]float64{direction.X, direction.Y, direction.Z}
	minAxes := [3]float64{minBounds.X, minBounds.Y, minBounds.Z}
	maxAxes := [3]float64{maxBounds.X, maxBounds.Y, maxBounds.Z}

	tMin := math.Inf(-1)
	tMax := math.Inf(1)
	normalAxis := 0
	normalSign := 1.0

	for i := 0; i < 3; i++ {
		if math.Abs(dirAxes[i]) < rayParallelEpsilon {
			// Parallel to this slab: a miss unless the origin lies inside it
			if originAxes[i] < minAxes[i] || originAxes[i] > maxAxes[i] {
				return 0, Vec3{}, false
			}
			continue
		}

		t1 := (minAxes[i] - originAxes[i]) / dirAxes[i]
		t2 := (maxAxes[i] - originAxes[i]) / dirAxes[i]
		sign := 1.0
		if t1 > t2 {
			t1, t2 = t2, t1
			sign = -1
		}

		if t1 > tMin {
			tMin = t1
			normalAxis = i
			normalSign = -sign
		}
		if t2 < tMax {
			tMax = t2
		}
		if tMin > tMax {
			return 0, Vec3{}, false
		}
	}

	// A negative entry time means the origin is inside the box; the
	// exit time is the first crossing ahead of the origin then.
	dist := tMin
	if dist <= 0 {
		dist = tMax
	}
	if dist <= 0 {
		return 0, Vec3{}, false
	}

	var normal Vec3
	switch normalAxis {
	case 0:
		normal = Vec3{X: normalSign}
	case 1:
		normal = Vec3{Y: normalSign}
	default:
		normal = Vec3{Z: normalSign}
	}
	return dist, normal, true
}
