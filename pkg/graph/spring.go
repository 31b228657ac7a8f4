package graph

import (
	"fmt"

	v2 "github.com/deadsy/sdfx/vec/v2"
)

// ConnectionType is the physical constraint the simulator applies to a spring.
type ConnectionType int

const (
	ConnectionSpring ConnectionType = iota + 1
	ConnectionPointToPoint
	ConnectionSlider
	ConnectionConeTwist
	ConnectionFixed
	ConnectionRobotArmBase
	ConnectionRobotArmJoint
)

func (c ConnectionType) String() string {
	switch c {
	case ConnectionSpring:
		return "spring"
	case ConnectionPointToPoint:
		return "point-to-point"
	case ConnectionSlider:
		return "slider"
	case ConnectionConeTwist:
		return "cone-twist"
	case ConnectionFixed:
		return "fixed"
	case ConnectionRobotArmBase:
		return "robot-arm-base"
	case ConnectionRobotArmJoint:
		return "robot-arm-joint"
	default:
		return fmt.Sprintf("ConnectionType(%d)", int(c))
	}
}

// Code returns the numeric simulator code.
func (c ConnectionType) Code() int {
	return int(c)
}

// Valid reports whether c is one of the known constraint types.
func (c ConnectionType) Valid() bool {
	return c >= ConnectionSpring && c <= ConnectionRobotArmJoint
}

// MarshalText encodes the connection type by name.
func (c ConnectionType) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes a name produced by MarshalText.
func (c *ConnectionType) UnmarshalText(b []byte) error {
	for t := ConnectionSpring; t <= ConnectionRobotArmJoint; t++ {
		if t.String() == string(b) {
			*c = t
			return nil
		}
	}
	return fmt.Errorf("graph: unknown connection type %q", string(b))
}

// deriveConnectionType maps the ordered (source, destination) type pair to a
// connection type. The table is asymmetric. An unknown source type means a
// mass was constructed outside this package's types and is a programming error.
func deriveConnectionType(source, destination MassType) ConnectionType {
	switch source {
	case MassShoulder:
		if destination == MassArmSegment {
			return ConnectionRobotArmBase
		}
		return ConnectionFixed
	case MassArmSegment:
		switch destination {
		case MassArmSegment:
			return ConnectionRobotArmJoint
		case MassShoulder:
			return ConnectionRobotArmBase
		default:
			return ConnectionFixed
		}
	case MassInput:
		if destination == MassNetwork {
			return ConnectionSpring
		}
		return ConnectionFixed
	case MassElbow, MassHand:
		return ConnectionFixed
	case MassNetwork:
		return ConnectionSpring
	}
	panic(fmt.Sprintf("graph: masses of type %s (source) and %s (destination) cannot be connected via springs",
		source, destination))
}

// Spring connects two masses. Springs are created through NetworkGraph.AddSpring
// or NewSpring so the connection type is always derived from the endpoints.
type Spring struct {
	Source         *Mass
	Destination    *Mass
	connectionType ConnectionType
}

// NewSpring builds a spring without adding it to a graph, e.g. to test a
// hypothetical connection for crossings.
func NewSpring(source, destination *Mass) *Spring {
	if source == nil || destination == nil {
		panic("graph: spring endpoints may not be nil")
	}
	return &Spring{
		Source:         source,
		Destination:    destination,
		connectionType: deriveConnectionType(source.Type, destination.Type),
	}
}

// ConnectionType returns the constraint type derived at construction or set
// explicitly afterwards.
func (s *Spring) ConnectionType() ConnectionType {
	return s.connectionType
}

// SetConnectionType overrides the derived type. Used when reading exported
// networks back in.
func (s *Spring) SetConnectionType(t ConnectionType) {
	if !t.Valid() {
		panic(fmt.Sprintf("graph: invalid connection type %d", int(t)))
	}
	s.connectionType = t
}

// Connects reports whether m is one of the spring's endpoints (by identity).
func (s *Spring) Connects(m *Mass) bool {
	return s.Source == m || s.Destination == m
}

// Other returns the endpoint opposite to m, or nil if m is not an endpoint.
func (s *Spring) Other(m *Mass) *Mass {
	switch m {
	case s.Source:
		return s.Destination
	case s.Destination:
		return s.Source
	}
	return nil
}

// Segment returns the endpoint positions.
func (s *Spring) Segment() (v2.Vec, v2.Vec) {
	return s.Source.Pos(), s.Destination.Pos()
}

// Length returns the distance between both endpoints.
func (s *Spring) Length() float64 {
	return s.Source.Distance(s.Destination)
}

func (s *Spring) String() string {
	return fmt.Sprintf("%s -> %s (%s)", s.Source, s.Destination, s.connectionType)
}
