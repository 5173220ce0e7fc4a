package ux

import (
	"slices"

	"github.com/ha1tch/schematic-toolkit/pkg/circuit"
	"github.com/ha1tch/schematic-toolkit/pkg/geom"
)

func (u *UX) apply(c Command) Command {
	switch c.Verb {
	case VerbAddComponent:
		c.Item = u.placeComponent(c)

	case VerbSelectItem:
		c.Added = u.sel.Add(c.Item)

	case VerbDeselectItem:
		c.Index = u.sel.Remove(c.Item)

	case VerbSelectArea:
		c.PrevArea = u.sel.Box
		c.Changed = nil
		u.sel.Box = c.Area
		for _, id := range u.itemsIn(c.Area) {
			if u.sel.Add(id) {
				c.Changed = append(c.Changed, Member{Index: u.sel.Len() - 1, ID: id})
			}
		}

	case VerbDeselectArea:
		c.PrevArea = u.sel.Box
		c.Changed = nil
		for i, id := range u.sel.Items() {
			if u.intersects(id, c.Area) {
				c.Changed = append(c.Changed, Member{Index: i, ID: id})
			}
		}
		for _, m := range slices.Backward(c.Changed) {
			u.sel.Remove(m.ID)
		}
		u.sel.Box = geom.Box{}

	case VerbMoveSelection:
		target := c.NewCenter
		if c.Snap {
			target = geom.Snap(target, u.cfg.GridSize)
		}
		u.translateSelection(geom.Sub(target, c.OldCenter))
		c.NewCenter = target
	}
	u.recomputeCenter()
	return c
}

func (u *UX) revert(c Command) {
	switch c.Verb {
	case VerbAddComponent:
		u.store.DeleteComponent(c.Item)

	case VerbSelectItem:
		if c.Added {
			u.sel.Remove(c.Item)
		}

	case VerbDeselectItem:
		if c.Index >= 0 {
			u.sel.Insert(c.Index, c.Item)
		}

	case VerbSelectArea:
		for _, m := range c.Changed {
			u.sel.Remove(m.ID)
		}
		u.sel.Box = c.PrevArea

	case VerbDeselectArea:
		for _, m := range c.Changed {
			u.sel.Insert(m.Index, m.ID)
		}
		u.sel.Box = c.PrevArea

	case VerbMoveSelection:
		u.translateSelection(geom.Sub(c.OldCenter, c.NewCenter))
	}
	u.recomputeCenter()
}

// placeComponent commits a placement. The live placement component is kept
// where it is; a component removed by undo comes back under its old id.
func (u *UX) placeComponent(c Command) circuit.ID {
	if u.store.Valid(c.Item) {
		u.store.MoveComponentTo(c.Item, c.NewCenter)
		return c.Item
	}
	err := u.store.RestoreComponent(c.Item)
	if err == nil {
		u.store.MoveComponentTo(c.Item, c.NewCenter)
		return c.Item
	}
	if !c.Item.IsNone() {
		u.log.Warnf("restoring %s: %v; adding a new component", c.Item, err)
	}
	return u.store.AddComponent(c.Desc, c.NewCenter)
}

// itemsIn lists components then waypoints touching area, in store order.
func (u *UX) itemsIn(area geom.Box) []circuit.ID {
	var ids []circuit.ID
	for c := range u.store.Components() {
		if c.ID != u.adding && c.Box.Intersects(area) {
			ids = append(ids, c.ID)
		}
	}
	for w := range u.store.Waypoints() {
		if area.Contains(w.Position) {
			ids = append(ids, w.ID)
		}
	}
	return ids
}

func (u *UX) intersects(id circuit.ID, area geom.Box) bool {
	switch id.Kind {
	case circuit.KindComponent:
		c, ok := u.store.Component(id)
		return ok && c.Box.Intersects(area)
	case circuit.KindWaypoint:
		w, ok := u.store.Waypoint(id)
		return ok && area.Contains(w.Position)
	}
	return false
}

func (u *UX) translateSelection(d geom.Vec) {
	for _, id := range u.sel.Items() {
		switch id.Kind {
		case circuit.KindComponent:
			if c, ok := u.store.Component(id); ok {
				u.store.MoveComponentTo(id, geom.Add(c.Box.Center, d))
			}
		case circuit.KindWaypoint:
			if w, ok := u.store.Waypoint(id); ok {
				u.store.MoveWaypointTo(id, geom.Add(w.Position, d))
			}
		}
	}
	if !u.sel.Box.IsZero() {
		u.sel.Box = u.sel.Box.Translate(d)
	}
}

// recomputeCenter sets the centroid to the mean of the selected components'
// centers and waypoints' positions, falling back to the box center.
func (u *UX) recomputeCenter() {
	var pts []geom.Vec
	for _, id := range u.sel.Items() {
		switch id.Kind {
		case circuit.KindComponent:
			if c, ok := u.store.Component(id); ok {
				pts = append(pts, c.Box.Center)
			}
		case circuit.KindWaypoint:
			if w, ok := u.store.Waypoint(id); ok {
				pts = append(pts, w.Position)
			}
		}
	}
	switch {
	case len(pts) > 0:
		u.sel.Center = geom.Mean(pts)
	case !u.sel.Box.IsZero():
		u.sel.Center = u.sel.Box.Center
	default:
		u.sel.Center = geom.Vec{}
	}
}
