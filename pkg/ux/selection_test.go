package ux

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ha1tch/schematic-toolkit/pkg/circuit"
	"github.com/ha1tch/schematic-toolkit/pkg/geom"
)

func TestSelectionOrderAndDuplicates(t *testing.T) {
	a := circuit.ID{Kind: circuit.KindComponent, Index: 0}
	b := circuit.ID{Kind: circuit.KindComponent, Index: 1}
	w := circuit.ID{Kind: circuit.KindWaypoint, Index: 0}

	var s Selection
	assert.False(t, s.Selected())
	assert.True(t, s.Add(a))
	assert.True(t, s.Add(w))
	assert.False(t, s.Add(a))
	assert.False(t, s.Add(circuit.NoID))
	assert.True(t, s.Add(b))
	assert.Equal(t, []circuit.ID{a, w, b}, s.Items())

	assert.Equal(t, 1, s.Remove(w))
	assert.Equal(t, -1, s.Remove(w))
	s.Insert(1, w)
	assert.Equal(t, []circuit.ID{a, w, b}, s.Items())

	s.Insert(99, w)
	assert.Equal(t, 3, s.Len())

	last, ok := s.Last()
	assert.True(t, ok)
	assert.Equal(t, b, last)

	s.Clear()
	_, ok = s.Last()
	assert.False(t, ok)
	assert.False(t, s.Selected())
}

func TestSelectionBoxCountsAsSelected(t *testing.T) {
	var s Selection
	s.Box = geom.NewBox(geom.V(1, 1), 1, 0)
	assert.True(t, s.Selected())
	assert.Zero(t, s.Len())
}
