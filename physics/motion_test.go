package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMotion_ApplyForce(t *testing.T) {
	m := NewMotion()

	// F = 10 on m = 2 over dt = 0.5: Δv = 2.5
	v := m.ApplyForce(2, Vec3{X: 1}, Vec3{X: 10}, 0.5)
	assert.InDelta(t, 3.5, v.X, 1e-9)
}

func TestMotion_ApplyImpulse(t *testing.T) {
	m := NewMotion()

	v := m.ApplyImpulse(2, Vec3{}, Vec3{Y: 10})
	assert.InDelta(t, 5.0, v.Y, 1e-9)
}

func TestMotion_ApplyGravity(t *testing.T) {
	m := NewMotion()

	t.Run("airborne body accelerates downward", func(t *testing.T) {
		v := m.ApplyGravity(Vec3{}, false, 1.0)
		assert.InDelta(t, -9.81, v.Y, 1e-9)
	})

	t.Run("grounded body is skipped", func(t *testing.T) {
		v := m.ApplyGravity(Vec3{X: 2}, true, 1.0)
		assert.Equal(t, Vec3{X: 2}, v)
	})
}

func TestMotion_ApplyAirResistance(t *testing.T) {
	m := NewMotion()

	t.Run("slows without changing direction", func(t *testing.T) {
		before := Vec3{X: 10}
		after := m.ApplyAirResistance(before, 0.1)
		assert.Less(t, after.X, before.X)
		assert.Greater(t, after.X, 0.0)
		assert.Zero(t, after.Y)
	})

	t.Run("speed below rest epsilon snaps to zero", func(t *testing.T) {
		after := m.ApplyAirResistance(Vec3{X: 0.0005}, 0.1)
		assert.Equal(t, Vec3{}, after)
	})

	t.Run("large dt clamps instead of reversing", func(t *testing.T) {
		// With k = 0.01 a dt over 100 would flip the sign without the clamp
		after := m.ApplyAirResistance(Vec3{X: 1}, 150)
		assert.Equal(t, Vec3{}, after)
	})

	t.Run("repeated application is monotone decreasing", func(t *testing.T) {
		v := Vec3{X: 5, Z: 3}
		prev := v.Length()
		for i := 0; i < 100; i++ {
			v = m.ApplyAirResistance(v, 0.016)
			assert.LessOrEqual(t, v.Length(), prev)
			prev = v.Length()
		}
	})
}

func TestMotion_ApplyGroundFriction(t *testing.T) {
	m := NewMotion()

	t.Run("airborne body is untouched", func(t *testing.T) {
		v := m.ApplyGroundFriction(Vec3{X: 5, Y: -2}, false, 0.1)
		assert.Equal(t, Vec3{X: 5, Y: -2}, v)
	})

	t.Run("horizontal speed decreases, vertical is preserved", func(t *testing.T) {
		v := m.ApplyGroundFriction(Vec3{X: 5, Y: -2}, true, 0.1)
		assert.Less(t, v.X, 5.0)
		assert.Greater(t, v.X, 0.0)
		assert.Equal(t, -2.0, v.Y)
	})

	t.Run("clamps to rest instead of reversing", func(t *testing.T) {
		// Deceleration is 0.1 * 9.81; one long step would overshoot
		v := m.ApplyGroundFriction(Vec3{X: 0.01, Y: 1}, true, 1.0)
		assert.Equal(t, Vec3{Y: 1}, v)
	})
}

func TestMotion_UpdatePosition(t *testing.T) {
	m := NewMotion()

	p := m.UpdatePosition(Vec3{X: 1}, Vec3{X: 2, Z: -4}, 0.5)
	assert.Equal(t, Vec3{X: 2, Z: -2}, p)
}

func TestMotion_ProcessBody(t *testing.T) {
	m := NewMotion()

	t.Run("airborne body falls", func(t *testing.T) {
		body := NewBody(Sphere{Radius: 1}, Vec3{Y: 10}, 1)
		body = m.ProcessBody(body, 0.1)
		assert.Less(t, body.Velocity.Y, 0.0)
		assert.Less(t, body.Position.Y, 10.0)
	})

	t.Run("grounded sliding body comes to rest eventually", func(t *testing.T) {
		body := NewBody(Sphere{Radius: 1}, Vec3{}, 1)
		body.IsGrounded = true
		body.Velocity = Vec3{X: 3}

		for i := 0; i < 1000; i++ {
			body = m.ProcessBody(body, 0.016)
		}
		assert.InDelta(t, 0.0, body.Velocity.X, restEpsilon)
	})

	t.Run("position uses the post-friction velocity", func(t *testing.T) {
		body := NewBody(Sphere{Radius: 1}, Vec3{}, 1)
		body.IsGrounded = true
		body.Velocity = Vec3{X: 1}

		body = m.ProcessBody(body, 1.0)
		// Friction ran before integration, so displacement is below 1
		assert.InDelta(t, body.Velocity.X, body.Position.X, 1e-9)
		assert.Less(t, body.Position.X, 1.0)
	})
}
