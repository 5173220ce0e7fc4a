// Package circuit holds the entity store for a schematic: components and
// their ports, nets with endpoints and waypoints, and text labels.
//
// Entities live in dense arenas and reference each other only through ID
// values. Chains (ports of a component, endpoints and waypoints of a net) are
// singly linked through Next fields that end in NoID.
package circuit

import "fmt"

// Kind tags an identifier with the arena it indexes.
type Kind uint8

const (
	KindNone Kind = iota
	KindComponent
	KindPort
	KindWaypoint
	KindNet
	KindEndpoint
	KindLabel
)

// String returns the kind name for display.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindComponent:
		return "component"
	case KindPort:
		return "port"
	case KindWaypoint:
		return "waypoint"
	case KindNet:
		return "net"
	case KindEndpoint:
		return "endpoint"
	case KindLabel:
		return "label"
	default:
		return "unknown"
	}
}

// ID is an opaque, comparable handle to an entity in a Store.
type ID struct {
	Kind  Kind
	Index uint32
	Gen   uint32
}

// NoID is the sentinel for "no entity".
var NoID = ID{}

// IsNone reports whether id is the sentinel.
func (id ID) IsNone() bool {
	return id.Kind == KindNone
}

// String formats the identifier as kind:index.gen.
func (id ID) String() string {
	if id.IsNone() {
		return "none"
	}
	return fmt.Sprintf("%s:%d.%d", id.Kind, id.Index, id.Gen)
}
