package physics

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBody_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, NewBody(Sphere{Radius: 1}, Vec3{}, 1).Validate())
		assert.NoError(t, NewBody(Box{Half: Vec3{X: 1, Y: 1, Z: 1}}, Vec3{}, 2).Validate())
	})

	t.Run("missing shape", func(t *testing.T) {
		body := NewBody(Sphere{Radius: 1}, Vec3{}, 1)
		body.Shape = nil
		assert.Error(t, body.Validate())
	})

	t.Run("bad shape parameters", func(t *testing.T) {
		assert.Error(t, NewBody(Sphere{Radius: 0}, Vec3{}, 1).Validate())
		assert.Error(t, NewBody(Box{Half: Vec3{X: 1, Y: -1, Z: 1}}, Vec3{}, 1).Validate())
	})

	t.Run("non-positive mass", func(t *testing.T) {
		assert.Error(t, NewBody(Sphere{Radius: 1}, Vec3{}, 0).Validate())
		assert.Error(t, NewBody(Sphere{Radius: 1}, Vec3{}, -5).Validate())
	})
}

func TestBody_JSONRoundTrip(t *testing.T) {
	original := NewBody(Box{Half: Vec3{X: 1, Y: 2, Z: 3}}, Vec3{X: 4, Y: 5, Z: 6}, 7)
	original.Velocity = Vec3{X: -1}
	original.IsGrounded = true
	original.HasController = true
	original.Forward = Vec3{Z: 1}
	original.IsSprinting = true

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Body
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, original, decoded)
}

func TestBody_UnmarshalRejectsUnknownShape(t *testing.T) {
	var body Body
	err := json.Unmarshal([]byte(`{"id":"x","shape":{"type":"capsule"},"mass":1}`), &body)
	assert.Error(t, err)
}

func TestSnapshot_Clone(t *testing.T) {
	body := NewBody(Sphere{Radius: 1}, Vec3{}, 1)
	original := Snapshot{body.ID: body}

	clone := original.Clone()
	moved := clone[body.ID]
	moved.Position = Vec3{X: 99}
	clone[body.ID] = moved

	assert.Equal(t, Vec3{}, original[body.ID].Position, "clone edits never reach the source")
}

func TestSnapshot_SortedIDs(t *testing.T) {
	s := Snapshot{
		"charlie": NewBody(Sphere{Radius: 1}, Vec3{}, 1),
		"alpha":   NewBody(Sphere{Radius: 1}, Vec3{}, 1),
		"bravo":   NewBody(Sphere{Radius: 1}, Vec3{}, 1),
	}
	assert.Equal(t, []string{"alpha", "bravo", "charlie"}, s.SortedIDs())
}

func TestSnapshot_ValidateFailsFast(t *testing.T) {
	good := NewBody(Sphere{Radius: 1}, Vec3{}, 1)
	bad := NewBody(Sphere{Radius: 1}, Vec3{}, 1)
	bad.ID = "aaa-bad"
	bad.Mass = 0

	err := Snapshot{good.ID: good, bad.ID: bad}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "aaa-bad")
}
