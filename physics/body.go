package physics

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// Body is the unit of simulation. The gameplay layer owns body identity
// and lifetime; the physics core only transforms the kinematic fields it
// is handed each tick.
type Body struct {
	ID       string
	Shape    Shape
	Position Vec3
	Velocity Vec3
	Mass     float64

	// IsGrounded gates gravity and ground friction. The core clears it
	// on jump but never sets it; ground contact detection belongs to
	// the caller.
	IsGrounded bool

	// HasPhysics marks the body as simulated. Bodies without it pass
	// through every tick untouched.
	HasPhysics bool

	// Controller-driven bodies carry facing and input state for the
	// omni-movement pass.
	HasController bool
	Forward       Vec3
	Input         Vec3 // X: right/left, Z: forward/backward; Y ignored
	IsSprinting   bool
	IsCrouching   bool
}

// NewBody creates a simulated body with a generated id
func NewBody(shape Shape, position Vec3, mass float64) Body {
	return Body{
		ID:         uuid.NewString(),
		Shape:      shape,
		Position:   position,
		Mass:       mass,
		HasPhysics: true,
	}
}

// Validate reports content errors: a missing shape, bad shape parameters,
// or a non-positive mass. Mass is used as a divisor throughout, so zero
// is rejected up front rather than surfacing as Inf downstream.
func (b Body) Validate() error {
	if b.Shape == nil {
		return fmt.Errorf("body %s has no shape", b.ID)
	}
	if err := b.Shape.validate(); err != nil {
		return fmt.Errorf("body %s: %w", b.ID, err)
	}
	if b.Mass <= 0 {
		return fmt.Errorf("body %s mass must be positive, got %v", b.ID, b.Mass)
	}
	return nil
}

// bodyJSON is the wire form of Body with the shape flattened into a
// tagged envelope.
type bodyJSON struct {
	ID            string        `json:"id"`
	Shape         shapeEnvelope `json:"shape"`
	Position      Vec3          `json:"position"`
	Velocity      Vec3          `json:"velocity"`
	Mass          float64       `json:"mass"`
	IsGrounded    bool          `json:"isGrounded"`
	HasPhysics    bool          `json:"hasPhysics"`
	HasController bool          `json:"hasController,omitempty"`
	Forward       Vec3          `json:"forward,omitempty"`
	Input         Vec3          `json:"input,omitempty"`
	IsSprinting   bool          `json:"isSprinting,omitempty"`
	IsCrouching   bool          `json:"isCrouching,omitempty"`
}

// MarshalJSON implements json.Marshaler
func (b Body) MarshalJSON() ([]byte, error) {
	env, err := marshalShape(b.Shape)
	if err != nil {
		return nil, fmt.Errorf("body %s: %w", b.ID, err)
	}
	return json.Marshal(bodyJSON{
		ID:            b.ID,
		Shape:         env,
		Position:      b.Position,
		Velocity:      b.Velocity,
		Mass:          b.Mass,
		IsGrounded:    b.IsGrounded,
		HasPhysics:    b.HasPhysics,
		HasController: b.HasController,
		Forward:       b.Forward,
		Input:         b.Input,
		IsSprinting:   b.IsSprinting,
		IsCrouching:   b.IsCrouching,
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (b *Body) UnmarshalJSON(data []byte) error {
	var wire bodyJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	shape, err := wire.Shape.shape()
	if err != nil {
		return fmt.Errorf("body %s: %w", wire.ID, err)
	}
	*b = Body{
		ID:            wire.ID,
		Shape:         shape,
		Position:      wire.Position,
		Velocity:      wire.Velocity,
		Mass:          wire.Mass,
		IsGrounded:    wire.IsGrounded,
		HasPhysics:    wire.HasPhysics,
		HasController: wire.HasController,
		Forward:       wire.Forward,
		Input:         wire.Input,
		IsSprinting:   wire.IsSprinting,
		IsCrouching:   wire.IsCrouching,
	}
	return nil
}

// Snapshot is the body collection handed into and out of a tick, keyed
// by body id. Bodies are values; mutation happens on copies so partial
// results never leak between tick phases.
type Snapshot map[string]Body

// Clone returns a copy of the snapshot. Tick phases work on clones so
// an earlier pair's correction never feeds into a later pair's
// detection within the same pass.
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for id, body := range s {
		out[id] = body
	}
	return out
}

// SortedIDs returns the snapshot's body ids in lexical order. Pair
// iteration over sorted ids keeps a tick deterministic for a given
// input, which map iteration alone would not.
func (s Snapshot) SortedIDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Validate checks every body in the snapshot, failing fast on the first
// content error rather than letting bad data corrupt the simulation
// silently.
func (s Snapshot) Validate() error {
	for _, id := range s.SortedIDs() {
		if err := s[id].Validate(); err != nil {
			return err
		}
	}
	return nil
}
