package physics

// restEpsilon is the speed below which drag and friction snap a velocity
// to zero instead of letting it oscillate around rest.
const restEpsilon = 0.001

// Motion is the per-body integrator: force and impulse primitives,
// gravity, air resistance, ground friction, and explicit Euler position
// updates. The per-tick order is fixed (gravity, drag, friction,
// position) because each step acts on already-updated velocity.
type Motion struct {
	Gravity        Vec3
	AirResistance  float64
	GroundFriction float64
}

// NewMotion creates an integrator with the default constants: gravity
// straight down at 9.81, light linear drag, moderate ground friction.
func NewMotion() *Motion {
	return &Motion{
		Gravity:        Vec3{Y: -DefaultGravityConstant},
		AirResistance:  0.01,
		GroundFriction: 0.1,
	}
}

// SetGravity replaces the gravity vector used by the integrator
func (m *Motion) SetGravity(gravity Vec3) {
	m.Gravity = gravity
}

// SetFrictionCoefficients replaces both friction coefficients
func (m *Motion) SetFrictionCoefficients(airResistance, groundFriction float64) {
	m.AirResistance = airResistance
	m.GroundFriction = groundFriction
}

// ApplyForce integrates a force over dt: Δv = (F/m)·dt. All sustained
// motion (omni-movement acceleration, deceleration) builds on this.
func (m *Motion) ApplyForce(mass float64, velocity, force Vec3, dt float64) Vec3 {
	acceleration := force.Scale(1 / mass)
	return velocity.Add(acceleration.Scale(dt))
}

// ApplyImpulse applies an instantaneous momentum change: Δv = J/m.
// Jumps and dashes build on this.
func (m *Motion) ApplyImpulse(mass float64, velocity, impulse Vec3) Vec3 {
	return velocity.Add(impulse.Scale(1 / mass))
}

// ApplyGravity accelerates an airborne body by gravity; grounded bodies
// are skipped entirely
func (m *Motion) ApplyGravity(velocity Vec3, grounded bool, dt float64) Vec3 {
	if grounded {
		return velocity
	}
	return velocity.Add(m.Gravity.Scale(dt))
}

// ApplyAirResistance applies linear drag, F = -kv. If the update would
// flip the velocity's direction, or speed falls below the rest epsilon,
// the velocity clamps to zero instead of oscillating.
func (m *Motion) ApplyAirResistance(velocity Vec3, dt float64) Vec3 {
	speed := velocity.Length()
	if speed <= restEpsilon {
		return Vec3{}
	}

	deceleration := velocity.Scale(-m.AirResistance)
	newVelocity := velocity.Add(deceleration.Scale(dt))

	if newVelocity.Length() < restEpsilon || newVelocity.Dot(velocity) < 0 {
		return Vec3{}
	}
	return newVelocity
}

// ApplyGroundFriction decelerates the horizontal component of a grounded
// body's velocity. The friction coefficient is scaled by standard
// gravity magnitude as a stand-in normal force; the vertical component
// is untouched. Uses the same zero clamp as air resistance.
func (m *Motion) ApplyGroundFriction(velocity Vec3, grounded bool, dt float64) Vec3 {
	if !grounded {
		return velocity
	}

	horizontal := velocity.Horizontal()
	speed := horizontal.Length()
	if speed <= restEpsilon {
		return Vec3{Y: velocity.Y}
	}

	frictionDir := horizontal.Scale(-1 / speed)
	deceleration := frictionDir.Scale(m.GroundFriction * DefaultGravityConstant)
	newHorizontal := horizontal.Add(deceleration.Scale(dt))

	if newHorizontal.Length() < restEpsilon || newHorizontal.Dot(horizontal) < 0 {
		newHorizontal = Vec3{}
	}
	return Vec3{X: newHorizontal.X, Y: velocity.Y, Z: newHorizontal.Z}
}

// UpdatePosition advances a position by explicit Euler integration
func (m *Motion) UpdatePosition(position, velocity Vec3, dt float64) Vec3 {
	return position.Add(velocity.Scale(dt))
}

// ProcessBody runs the full per-body motion sequence for one tick and
// returns the updated body
func (m *Motion) ProcessBody(body Body, dt float64) Body {
	body.Velocity = m.ApplyGravity(body.Velocity, body.IsGrounded, dt)
	body.Velocity = m.ApplyAirResistance(body.Velocity, dt)
	body.Velocity = m.ApplyGroundFriction(body.Velocity, body.IsGrounded, dt)
	body.Position = m.UpdatePosition(body.Position, body.Velocity, dt)
	return body
}
