package physics

import (
	"encoding/json"
	"fmt"
)

// Shape is the closed set of collision shapes. Exactly two shapes exist:
// Sphere and Box. Matching on the concrete type replaces the string tag
// dispatch a looser engine would use.
type Shape interface {
	isShape()
	validate() error
}

// Sphere is a collision sphere defined by its radius. Its center is the
// owning body's position.
type Sphere struct {
	Radius float64 `json:"radius" yaml:"radius"`
}

// Box is an axis-aligned box defined by its half extents per axis. Its
// center is the owning body's position.
type Box struct {
	Half Vec3 `json:"half" yaml:"half"`
}

func (Sphere) isShape() {}
func (Box) isShape()    {}

func (s Sphere) validate() error {
	if s.Radius <= 0 {
		return fmt.Errorf("sphere radius must be positive, got %v", s.Radius)
	}
	return nil
}

func (b Box) validate() error {
	if b.Half.X <= 0 || b.Half.Y <= 0 || b.Half.Z <= 0 {
		return fmt.Errorf("box half extents must be positive, got (%v, %v, %v)", b.Half.X, b.Half.Y, b.Half.Z)
	}
	return nil
}

// shapeEnvelope is the wire form of a Shape, tagged so snapshots can
// round-trip through JSON.
type shapeEnvelope struct {
	Type   string   `json:"type"`
	Radius *float64 `json:"radius,omitempty"`
	Half   *Vec3    `json:"half,omitempty"`
}

func marshalShape(s Shape) (shapeEnvelope, error) {
	switch shape := s.(type) {
	case Sphere:
		r := shape.Radius
		return shapeEnvelope{Type: "sphere", Radius: &r}, nil
	case Box:
		h := shape.Half
		return shapeEnvelope{Type: "box", Half: &h}, nil
	default:
		return shapeEnvelope{}, fmt.Errorf("body has no shape")
	}
}

func (e shapeEnvelope) shape() (Shape, error) {
	switch e.Type {
	case "sphere":
		if e.Radius == nil {
			return nil, fmt.Errorf("sphere shape is missing radius")
		}
		return Sphere{Radius: *e.Radius}, nil
	case "box":
		if e.Half == nil {
			return nil, fmt.Errorf("box shape is missing half extents")
		}
		return Box{Half: *e.Half}, nil
	default:
		return nil, fmt.Errorf("unknown shape type %q", e.Type)
	}
}

var (
	_ json.Marshaler   = Body{}
	_ json.Unmarshaler = (*Body)(nil)
)
