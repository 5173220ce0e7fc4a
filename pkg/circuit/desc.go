package circuit

import (
	"strings"

	"github.com/samber/lo"
)

// Direction is the signal direction of a port.
type Direction int

const (
	Input Direction = iota
	Output
)

// String returns "in" or "out".
func (d Direction) String() string {
	if d == Input {
		return "in"
	}
	return "out"
}

// DescID indexes the descriptor table a Store was created with.
type DescID int

// PortDesc describes one port of a component kind.
type PortDesc struct {
	Name      string
	Direction Direction
}

// Desc describes a kind of component: its lookup name, the type label shown
// on instances, and its ports in chain order.
type Desc struct {
	Name     string
	TypeName string
	Ports    []PortDesc
}

// NumPorts returns the input and output port counts.
func (d Desc) NumPorts() (in, out int) {
	for _, p := range d.Ports {
		if p.Direction == Input {
			in++
		} else {
			out++
		}
	}
	return in, out
}

func gate(name string, inputs ...string) Desc {
	ports := lo.Map(inputs, func(n string, _ int) PortDesc {
		return PortDesc{Name: n, Direction: Input}
	})
	return Desc{
		Name:     strings.ToLower(name),
		TypeName: name,
		Ports:    append(ports, PortDesc{Name: "Y", Direction: Output}),
	}
}

// DefaultDescs is the built-in component library.
var DefaultDescs = []Desc{
	gate("AND", "A", "B"),
	gate("OR", "A", "B"),
	gate("XOR", "A", "B"),
	gate("NOT", "A"),
	{Name: "input", TypeName: "IN", Ports: []PortDesc{{Name: "Q", Direction: Output}}},
	{Name: "output", TypeName: "OUT", Ports: []PortDesc{{Name: "D", Direction: Input}}},
}

// FindDesc returns the index of the descriptor with the given name.
func FindDesc(descs []Desc, name string) (DescID, bool) {
	_, idx, ok := lo.FindIndexOf(descs, func(d Desc) bool {
		return strings.EqualFold(d.Name, name)
	})
	return DescID(idx), ok
}
