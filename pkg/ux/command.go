package ux

import (
	"fmt"

	"github.com/ha1tch/schematic-toolkit/pkg/circuit"
	"github.com/ha1tch/schematic-toolkit/pkg/geom"
)

// Verb names an undoable edit.
type Verb int

const (
	VerbAddComponent Verb = iota
	VerbSelectItem
	VerbDeselectItem
	VerbSelectArea
	VerbDeselectArea
	VerbMoveSelection
)

func (v Verb) String() string {
	switch v {
	case VerbAddComponent:
		return "AddComponent"
	case VerbSelectItem:
		return "SelectItem"
	case VerbDeselectItem:
		return "DeselectItem"
	case VerbSelectArea:
		return "SelectArea"
	case VerbDeselectArea:
		return "DeselectArea"
	case VerbMoveSelection:
		return "MoveSelection"
	default:
		return fmt.Sprintf("Verb(%d)", int(v))
	}
}

// Member is a selection entry together with the position it held.
type Member struct {
	Index int
	ID    circuit.ID
}

// Command is one entry of the undo log. The caller fills in the request
// fields; applying a command fills in what is needed to invert it exactly.
type Command struct {
	Verb Verb

	Item      circuit.ID     // AddComponent, SelectItem, DeselectItem
	Desc      circuit.DescID // AddComponent
	Area      geom.Box       // SelectArea, DeselectArea
	OldCenter geom.Vec       // MoveSelection
	NewCenter geom.Vec       // MoveSelection, AddComponent
	Snap      bool           // MoveSelection

	Added    bool     // SelectItem changed the set
	Index    int      // DeselectItem: index the item held, -1 if absent
	Changed  []Member // area verbs: members added or removed
	PrevArea geom.Box // area verbs: box before the edit
	Gesture  uint64
}

func (c Command) String() string {
	switch c.Verb {
	case VerbAddComponent:
		return fmt.Sprintf("%s %s at (%g, %g)", c.Verb, c.Item, c.NewCenter.X, c.NewCenter.Y)
	case VerbSelectItem, VerbDeselectItem:
		return fmt.Sprintf("%s %s", c.Verb, c.Item)
	case VerbSelectArea, VerbDeselectArea:
		lo, hi := c.Area.Min(), c.Area.Max()
		return fmt.Sprintf("%s (%g, %g)-(%g, %g)", c.Verb, lo.X, lo.Y, hi.X, hi.Y)
	case VerbMoveSelection:
		return fmt.Sprintf("%s (%g, %g) -> (%g, %g)", c.Verb,
			c.OldCenter.X, c.OldCenter.Y, c.NewCenter.X, c.NewCenter.Y)
	}
	return c.Verb.String()
}
