package physics

// Facing-alignment thresholds for movement classification. A move
// direction more than ~107 degrees off the facing counts as backward;
// anything more than ~45 degrees off counts as strafing.
const (
	backwardAlignment = -0.3
	strafeAlignment   = 0.7
)

// OmniMovement translates directional input plus facing orientation into
// acceleration-limited horizontal velocity changes. Jump and dash
// impulses also live here. One controller configuration can serve many
// bodies; the per-body state travels in the Body itself.
type OmniMovement struct {
	motion *Motion

	MaxSpeed           float64
	Acceleration       float64
	Deceleration       float64
	AirControl         float64
	StrafeMultiplier   float64
	BackwardMultiplier float64
	SprintMultiplier   float64
	CrouchMultiplier   float64
}

// NewOmniMovement creates a controller with the default tuning, bound to
// the given integrator for its force and impulse primitives
func NewOmniMovement(motion *Motion) *OmniMovement {
	return &OmniMovement{
		motion:             motion,
		MaxSpeed:           5.0,
		Acceleration:       20.0,
		Deceleration:       25.0,
		AirControl:         0.3,
		StrafeMultiplier:   0.8,
		BackwardMultiplier: 0.7,
		SprintMultiplier:   1.5,
		CrouchMultiplier:   0.5,
	}
}

// MoveDirection combines forward/backward and right/left input with the
// facing vectors into a normalized movement direction. Zero input yields
// the zero vector.
func (om *OmniMovement) MoveDirection(forward, right, input Vec3) Vec3 {
	direction := forward.Scale(input.Z).Add(right.Scale(input.X))
	if direction.IsZero() {
		return Vec3{}
	}
	return direction.Normalize()
}

// speedMultiplier classifies the movement relative to facing and stacks
// the sprint or crouch modifier on top
func (om *OmniMovement) speedMultiplier(moveDir, forward Vec3, sprinting, crouching bool) float64 {
	alignment := moveDir.Dot(forward)

	multiplier := 1.0
	if alignment < backwardAlignment {
		multiplier = om.BackwardMultiplier
	} else if alignment < strafeAlignment && alignment > -strafeAlignment {
		multiplier = om.StrafeMultiplier
	}

	if sprinting {
		multiplier *= om.SprintMultiplier
	} else if crouching {
		multiplier *= om.CrouchMultiplier
	}
	return multiplier
}

// ApplyInput applies one tick of input-driven movement to a body. With
// input present, the controller accelerates the horizontal velocity
// toward the desired direction and speed, clamping the acceleration
// (reduced by AirControl when airborne) and converting it to a force.
// With zero input it decelerates the horizontal velocity toward zero the
// same way. The vertical velocity component is preserved throughout.
func (om *OmniMovement) ApplyInput(body Body, input Vec3, dt float64, sprinting, crouching bool) Body {
	forward := body.Forward
	if forward.IsZero() {
		forward = Vec3{Z: 1}
	}

	right := upAxis.Cross(forward)
	if right.IsZero() {
		// Facing straight up or down leaves no horizontal plane to move in
		return body
	}
	right = right.Normalize()

	accelLimit := 1.0
	if !body.IsGrounded {
		accelLimit = om.AirControl
	}

	if !input.IsZero() {
		moveDir := om.MoveDirection(forward, right, input)
		maxSpeed := om.MaxSpeed * om.speedMultiplier(moveDir, forward, sprinting, crouching)

		desired := moveDir.Scale(maxSpeed).Horizontal()
		current := body.Velocity.Horizontal()

		// Acceleration needed to close the gap this tick, clamped
		accel := desired.Sub(current).Scale(1 / dt)
		if magnitude := accel.Length(); magnitude > om.Acceleration*accelLimit {
			accel = accel.Scale(om.Acceleration * accelLimit / magnitude)
		}

		force := accel.Scale(body.Mass)
		newVelocity := om.motion.ApplyForce(body.Mass, body.Velocity, force, dt)
		newVelocity.Y = body.Velocity.Y
		body.Velocity = newVelocity
		return body
	}

	// No input: decelerate horizontal movement toward rest
	horizontal := body.Velocity.Horizontal()
	speed := horizontal.Length()
	if speed <= restEpsilon {
		return body
	}

	decelDir := horizontal.Scale(-1 / speed)
	force := decelDir.Scale(om.Deceleration * accelLimit * body.Mass)
	newVelocity := om.motion.ApplyForce(body.Mass, body.Velocity, force, dt)

	// Clamp at rest rather than reversing through it
	if newVelocity.Horizontal().Dot(horizontal) < 0 {
		newVelocity = Vec3{Y: body.Velocity.Y}
	}
	newVelocity.Y = body.Velocity.Y
	body.Velocity = newVelocity
	return body
}

// ProcessJump applies a purely vertical impulse and clears the grounded
// flag. Airborne bodies cannot jump.
func (om *OmniMovement) ProcessJump(body Body, jumpForce float64) Body {
	if !body.IsGrounded {
		return body
	}
	body.Velocity = om.motion.ApplyImpulse(body.Mass, body.Velocity, Vec3{Y: jumpForce})
	body.IsGrounded = false
	return body
}

// ProcessDash applies an impulse along the given direction regardless of
// grounded state. The direction is normalized first; a zero direction is
// a no-op. Cooldown management is a gameplay concern, not handled here.
func (om *OmniMovement) ProcessDash(body Body, direction Vec3, dashForce float64) Body {
	if direction.IsZero() {
		return body
	}
	impulse := direction.Normalize().Scale(dashForce)
	body.Velocity = om.motion.ApplyImpulse(body.Mass, body.Velocity, impulse)
	return body
}
