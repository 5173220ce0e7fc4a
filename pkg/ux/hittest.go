package ux

import (
	"github.com/ha1tch/schematic-toolkit/pkg/circuit"
	"github.com/ha1tch/schematic-toolkit/pkg/geom"
)

// Hover is the result of a hit test.
type Hover struct {
	Entity circuit.ID // component or waypoint under the pointer
	Port   circuit.ID
}

// HitTest finds what lies under the world point p. Later entities in store
// order win; a waypoint wins over a component.
func HitTest(s *circuit.Store, cfg Config, p geom.Vec) Hover {
	h := Hover{Entity: circuit.NoID, Port: circuit.NoID}
	mouse := geom.NewBox(p, cfg.MouseFudge, cfg.MouseFudge)
	half := cfg.PortWidth / 2

	for c := range s.Components() {
		if c.Box.Intersects(mouse) {
			h.Entity = c.ID
		}
		for port := range s.Ports(c.ID) {
			box := geom.NewBox(geom.Add(c.Box.Center, port.Position), half, half)
			if box.Intersects(mouse) {
				h.Port = port.ID
			}
		}
	}

	for w := range s.Waypoints() {
		if geom.NewBox(w.Position, cfg.WaypointFudge, cfg.WaypointFudge).Intersects(mouse) {
			h.Entity = w.ID
		}
	}
	return h
}
