package circuit

import (
	"math"

	"github.com/ha1tch/schematic-toolkit/pkg/geom"
)

// Layout derives component geometry from a descriptor and its labels.
type Layout interface {
	// Component returns the half extents of an instance of d and the
	// position of each port relative to the component center, in d.Ports
	// order.
	Component(d Desc) (half geom.Vec, ports []geom.Vec)
}

// BoxLayout places inputs on the left edge and outputs on the right edge,
// evenly spaced, growing the box to fit port and type labels.
type BoxLayout struct {
	ComponentWidth float64
	PortSpacing    float64
	PortWidth      float64
	BorderWidth    float64
	LabelPadding   float64
	CharWidth      float64 // width of one label glyph
}

// DefaultLayout returns the layout used when a Store is created without one.
func DefaultLayout() BoxLayout {
	return BoxLayout{
		ComponentWidth: 55,
		PortSpacing:    20,
		PortWidth:      6,
		BorderWidth:    1,
		LabelPadding:   2,
		CharWidth:      6,
	}
}

// Component implements Layout.
func (l BoxLayout) Component(d Desc) (geom.Vec, []geom.Vec) {
	width := l.ComponentWidth
	for _, p := range d.Ports {
		labelHalf := float64(len(p.Name)) * l.CharWidth / 2
		desiredHalf := labelHalf*2 + l.LabelPadding*3 + l.PortWidth/2
		if desiredHalf > width/2 {
			width = desiredHalf * 2
		}
	}
	if typeHalf := float64(len(d.TypeName)) * l.CharWidth / 2; typeHalf+l.LabelPadding > width/2 {
		width = typeHalf*2 + l.LabelPadding*2
	}

	in, out := d.NumPorts()
	height := math.Max(float64(in), float64(out))*l.PortSpacing + l.PortSpacing

	leftInc := height / float64(in+1)
	rightInc := height / float64(out+1)
	leftY := leftInc - height/2
	rightY := rightInc - height/2

	ports := make([]geom.Vec, len(d.Ports))
	for i, p := range d.Ports {
		if p.Direction == Input {
			ports[i] = geom.V(-width/2+l.BorderWidth/2, leftY)
			leftY += leftInc
		} else {
			ports[i] = geom.V(width/2-l.BorderWidth/2, rightY)
			rightY += rightInc
		}
	}
	return geom.V(width/2, height/2), ports
}
