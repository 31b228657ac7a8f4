package graph

import (
	"fmt"

	v2 "github.com/deadsy/sdfx/vec/v2"
)

// MassType decides how the simulator treats a mass and which connection type
// a spring attached to it receives.
type MassType int

const (
	MassNetwork MassType = iota // randomly grown network mass (default)
	MassShoulder
	MassElbow
	MassHand
	MassArmSegment
	MassInput
)

// massTypes lists every type in export-code lookup order.
var massTypes = []MassType{MassShoulder, MassElbow, MassHand, MassArmSegment, MassInput, MassNetwork}

func (t MassType) String() string {
	switch t {
	case MassNetwork:
		return "network"
	case MassShoulder:
		return "shoulder"
	case MassElbow:
		return "elbow"
	case MassHand:
		return "hand"
	case MassArmSegment:
		return "arm-segment"
	case MassInput:
		return "input"
	default:
		return fmt.Sprintf("MassType(%d)", int(t))
	}
}

// Code returns the single-letter code the simulator expects in the masses file.
// Elbow and Input share the code "i".
func (t MassType) Code() string {
	switch t {
	case MassShoulder:
		return "f"
	case MassElbow, MassInput:
		return "i"
	case MassHand:
		return "e"
	case MassArmSegment:
		return "r"
	default:
		return "t"
	}
}

// Color returns the display color used by renderers.
func (t MassType) Color() string {
	switch t {
	case MassShoulder:
		return "#FF0000"
	case MassElbow:
		return "#808080"
	case MassHand:
		return "#0000FF"
	case MassArmSegment:
		return "#C0C0C0"
	case MassInput:
		return "#00FF00"
	default:
		return "#FFFFFF"
	}
}

// Skeleton reports whether the type belongs to the fixed arm structure, i.e.
// everything the growth engine must never delete.
func (t MassType) Skeleton() bool {
	return t != MassNetwork
}

// MarshalText encodes the type by name.
func (t MassType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes a type name produced by MarshalText.
func (t *MassType) UnmarshalText(b []byte) error {
	for _, candidate := range massTypes {
		if candidate.String() == string(b) {
			*t = candidate
			return nil
		}
	}
	return fmt.Errorf("graph: unknown mass type %q", string(b))
}

// MassTypeByCode resolves an export code. The ambiguous code "i" resolves to
// MassInput, since elbows are recognised by position, not by code.
func MassTypeByCode(code string) (MassType, error) {
	if code == "i" {
		return MassInput, nil
	}
	for _, t := range massTypes {
		if t.Code() == code {
			return t, nil
		}
	}
	return MassNetwork, fmt.Errorf("graph: %q is not a valid mass code", code)
}

// Mass is a node of the network. Masses have no identity beyond the pointer;
// two masses at the same position are still different masses.
type Mass struct {
	X    float64  `json:"x"`
	Y    float64  `json:"y"`
	Type MassType `json:"type"`
}

// NewMass returns a network mass at (x, y).
func NewMass(x, y float64) *Mass {
	return &Mass{X: x, Y: y, Type: MassNetwork}
}

// NewTypedMass returns a mass of the given type at (x, y).
func NewTypedMass(x, y float64, t MassType) *Mass {
	return &Mass{X: x, Y: y, Type: t}
}

// Pos returns the mass position as a 2D vector.
func (m *Mass) Pos() v2.Vec {
	return v2.Vec{X: m.X, Y: m.Y}
}

// Distance returns the euclidean distance between two masses.
func (m *Mass) Distance(other *Mass) float64 {
	return m.Pos().Sub(other.Pos()).Length()
}

func (m *Mass) String() string {
	return fmt.Sprintf("%s(%g, %g)", m.Type, m.X, m.Y)
}
