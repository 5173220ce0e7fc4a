package ux

import (
	"github.com/ha1tch/schematic-toolkit/pkg/circuit"
	"github.com/ha1tch/schematic-toolkit/pkg/geom"
)

// exit runs when the machine leaves old for next.
func (u *UX) exit(old, next State, world geom.Vec) {
	switch old {
	case StateUp:
		u.anchor = world
		u.gesture++
	case StateAddComponent:
		u.dropComponent()
	}
}

// enter runs once when the machine reaches s.
func (u *UX) enter(s State, world geom.Vec) {
	switch s {
	case StateSelectOne, StateDeselect:
		if !u.sel.Box.IsTrivial() {
			u.do(Command{Verb: VerbDeselectArea, Area: u.sel.Box})
		} else if s == StateDeselect || !u.input.Modifiers.Has(ModShift) {
			for {
				id, ok := u.sel.Last()
				if !ok {
					break
				}
				u.do(Command{Verb: VerbDeselectItem, Item: id})
			}
		}
		if s == StateSelectOne {
			u.do(Command{Verb: VerbSelectItem, Item: u.hover.Entity})
		}

	case StateClickPort:
		u.wire = Wire{From: u.hover.Port, To: circuit.NoID}

	case StateConnectPort:
		u.wire.To = u.hover.Port
		u.log.Debugf("connect %s -> %s", u.wire.From, u.wire.To)
		if u.OnConnect != nil {
			u.OnConnect(u.wire.From, u.wire.To)
		}

	case StateFloatingWire:
		u.wire.End = world
		u.log.Debugf("floating wire from %s at (%g, %g)", u.wire.From, world.X, world.Y)
		if u.OnFloatingWire != nil {
			u.OnFloatingWire(u.wire.From, world)
		}

	case StateUp:
		u.wire = Wire{From: circuit.NoID, To: circuit.NoID}
	}
}

// continuous runs every frame for the state the machine settled in.
func (u *UX) continuous(s State, world geom.Vec) {
	switch s {
	case StateMoveSelection:
		delta := geom.Sub(world, u.anchor)
		if geom.LenSqr(delta) <= 0.01 {
			return
		}
		old := u.sel.Center
		snap := !u.input.Modifiers.Has(ModCtrl) && !u.input.Modifiers.Has(ModSuper)
		target := geom.Add(old, delta)
		if snap && geom.LenSqr(geom.Sub(geom.Snap(target, u.cfg.GridSize), old)) <= 0.01 {
			return
		}
		rec := u.do(Command{Verb: VerbMoveSelection, OldCenter: old, NewCenter: target, Snap: snap})
		u.anchor = geom.Add(u.anchor, geom.Sub(rec.NewCenter, rec.OldCenter))

	case StateSelectArea:
		u.do(Command{Verb: VerbSelectArea, Area: geom.FromCorners(u.anchor, world)})

	case StatePan:
		u.camera.PanWorld(geom.Sub(world, u.anchor))

	case StateAddingComponent:
		u.store.MoveComponentTo(u.adding, world)

	case StateDragWiring, StateClickWiring:
		u.wire.End = world
	}
}

func (u *UX) dropComponent() {
	c, ok := u.store.Component(u.adding)
	if !ok {
		u.log.Errorf("drop without a component being placed")
		return
	}
	desc := c.Desc
	u.do(Command{Verb: VerbAddComponent, Item: c.ID, Desc: desc, NewCenter: c.Box.Center})
	u.adding = circuit.NoID
	u.StartAddingComponent(desc)
}
