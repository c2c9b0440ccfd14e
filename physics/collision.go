package physics

import "math"

// degenerateDistSq is the squared-distance floor below which two points
// are treated as coincident and a fallback normal is substituted instead
// of dividing by a near-zero length.
const degenerateDistSq = 1e-4

// Contact is the result of a shape-pair intersection test. The normal is
// unit length and points from the second shape toward the first, except
// in the documented degenerate paths where a fixed axis is substituted.
type Contact struct {
	Normal Vec3
}

// CheckSphereSphere tests two spheres for intersection. A hit is reported
// when the squared center distance is below the squared radius sum; the
// square root is only taken once a normal is actually needed.
func CheckSphereSphere(posA Vec3, radiusA float64, posB Vec3, radiusB float64) (bool, Contact) {
	direction := posA.Sub(posB)
	distSq := direction.LengthSquared()
	minDist := radiusA + radiusB

	if distSq >= minDist*minDist {
		return false, Contact{}
	}

	if distSq > degenerateDistSq {
		return true, Contact{Normal: direction.Scale(1 / math.Sqrt(distSq))}
	}

	// Coincident centers: no meaningful direction, fall back to up
	return true, Contact{Normal: upAxis}
}

// CheckSphereBox tests a sphere against an axis-aligned box. The closest
// point on the box to the sphere center is found by clamping each axis to
// the box bounds; the contact normal points from that point toward the
// sphere center.
func CheckSphereBox(spherePos Vec3, radius float64, boxPos Vec3, half Vec3) (bool, Contact) {
	closest := Vec3{
		X: clamp(spherePos.X, boxPos.X-half.X, boxPos.X+half.X),
		Y: clamp(spherePos.Y, boxPos.Y-half.Y, boxPos.Y+half.Y),
		Z: clamp(spherePos.Z, boxPos.Z-half.Z, boxPos.Z+half.Z),
	}

	direction := spherePos.Sub(closest)
	distSq := direction.LengthSquared()

	if distSq >= radius*radius {
		return false, Contact{}
	}

	if distSq > degenerateDistSq {
		return true, Contact{Normal: direction.Scale(1 / math.Sqrt(distSq))}
	}

	// Sphere center is on or inside the box surface. Pick the face
	// whose plane is nearest and use its axis-aligned normal.
	faceDistances := [6]float64{
		math.Abs(spherePos.X - (boxPos.X - half.X)), // left
		math.Abs(spherePos.X - (boxPos.X + half.X)), // right
		math.Abs(spherePos.Y - (boxPos.Y - half.Y)), // bottom
		math.Abs(spherePos.Y - (boxPos.Y + half.Y)), // top
		math.Abs(spherePos.Z - (boxPos.Z - half.Z)), // back
		math.Abs(spherePos.Z - (boxPos.Z + half.Z)), // front
	}
	faceNormals := [6]Vec3{
		{X: -1}, {X: 1},
		{Y: -1}, {Y: 1},
		{Z: -1}, {Z: 1},
	}

	nearest := 0
	for i := 1; i < 6; i++ {
		if faceDistances[i] < faceDistances[nearest] {
			nearest = i
		}
	}
	return true, Contact{Normal: faceNormals[nearest]}
}

// CheckBoxBox tests two axis-aligned boxes with a per-axis separating
// interval test. On a hit the normal lies along the axis of minimum
// penetration, oriented from the second box toward the first.
func CheckBoxBox(posA Vec3, halfA Vec3, posB Vec3, halfB Vec3) (bool, Contact) {
	xOverlap := posA.X+halfA.X >= posB.X-halfB.X && posB.X+halfB.X >= posA.X-halfA.X
	yOverlap := posA.Y+halfA.Y >= posB.Y-halfB.Y && posB.Y+halfB.Y >= posA.Y-halfA.Y
	zOverlap := posA.Z+halfA.Z >= posB.Z-halfB.Z && posB.Z+halfB.Z >= posA.Z-halfA.Z

	if !xOverlap || !yOverlap || !zOverlap {
		return false, Contact{}
	}

	xDepth := math.Min(posA.X+halfA.X-(posB.X-halfB.X), posB.X+halfB.X-(posA.X-halfA.X))
	yDepth := math.Min(posA.Y+halfA.Y-(posB.Y-halfB.Y), posB.Y+halfB.Y-(posA.Y-halfA.Y))
	zDepth := math.Min(posA.Z+halfA.Z-(posB.Z-halfB.Z), posB.Z+halfB.Z-(posA.Z-halfA.Z))

	var normal Vec3
	switch {
	case xDepth <= yDepth && xDepth <= zDepth:
		normal = Vec3{X: axisSign(posA.X, posB.X)}
	case yDepth <= xDepth && yDepth <= zDepth:
		normal = Vec3{Y: axisSign(posA.Y, posB.Y)}
	default:
		normal = Vec3{Z: axisSign(posA.Z, posB.Z)}
	}
	return true, Contact{Normal: normal}
}

// axisSign orients a face normal from B toward A along one axis
func axisSign(a, b float64) float64 {
	if a < b {
		return -1
	}
	return 1
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
