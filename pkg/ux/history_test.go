package ux

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/schematic-toolkit/pkg/circuit"
	"github.com/ha1tch/schematic-toolkit/pkg/geom"
)

// countingEditor records applications without touching a model.
type countingEditor struct {
	applied  []Verb
	reverted []Verb
}

func (e *countingEditor) apply(c Command) Command {
	e.applied = append(e.applied, c.Verb)
	return c
}

func (e *countingEditor) revert(c Command) {
	e.reverted = append(e.reverted, c.Verb)
}

func TestHistoryBounds(t *testing.T) {
	var e countingEditor
	h := NewHistory(0, true)
	assert.False(t, h.Undo(&e))
	assert.False(t, h.Redo(&e))

	h.Do(&e, Command{Verb: VerbSelectItem})
	assert.True(t, h.CanUndo())
	assert.False(t, h.CanRedo())
	assert.True(t, h.Undo(&e))
	assert.False(t, h.Undo(&e))
	assert.True(t, h.Redo(&e))
	assert.False(t, h.Redo(&e))

	assert.Equal(t, []Verb{VerbSelectItem, VerbSelectItem}, e.applied)
	assert.Equal(t, []Verb{VerbSelectItem}, e.reverted)
}

func TestHistoryLimitDropsOldest(t *testing.T) {
	var e countingEditor
	h := NewHistory(2, false)
	h.Do(&e, Command{Verb: VerbSelectItem})
	h.Do(&e, Command{Verb: VerbDeselectItem})
	h.Do(&e, Command{Verb: VerbSelectArea})

	require.Equal(t, 2, h.Len())
	assert.Equal(t, 2, h.Cursor())
	assert.Equal(t, VerbDeselectItem, h.Commands()[0].Verb)
}

func TestHistoryCoalescesByGesture(t *testing.T) {
	var e countingEditor
	h := NewHistory(0, true)

	h.Do(&e, Command{Verb: VerbMoveSelection, OldCenter: geom.V(0, 0), NewCenter: geom.V(1, 0), Gesture: 1})
	h.Do(&e, Command{Verb: VerbMoveSelection, OldCenter: geom.V(1, 0), NewCenter: geom.V(3, 0), Gesture: 1})
	require.Equal(t, 1, h.Len())
	assert.Equal(t, geom.V(0, 0), h.Commands()[0].OldCenter)
	assert.Equal(t, geom.V(3, 0), h.Commands()[0].NewCenter)

	h.Do(&e, Command{Verb: VerbMoveSelection, OldCenter: geom.V(3, 0), NewCenter: geom.V(4, 0), Gesture: 2})
	assert.Equal(t, 2, h.Len())

	h.Do(&e, Command{Verb: VerbSelectArea, Gesture: 2})
	h.Do(&e, Command{Verb: VerbSelectArea, Gesture: 2})
	assert.Equal(t, 3, h.Len())
	assert.Equal(t, []Verb{VerbSelectArea}, e.reverted, "area merge reverts the previous box")

	h.Do(&e, Command{Verb: VerbSelectItem, Item: circuit.NoID, Gesture: 2})
	h.Do(&e, Command{Verb: VerbSelectItem, Item: circuit.NoID, Gesture: 2})
	assert.Equal(t, 5, h.Len(), "item verbs never merge")
}
