package ux

import (
	"slices"

	"github.com/samber/lo"

	"github.com/ha1tch/schematic-toolkit/pkg/circuit"
	"github.com/ha1tch/schematic-toolkit/pkg/geom"
)

// Selection is an ordered, duplicate-free set of selected entities plus the
// rubber-band box of the last area selection.
type Selection struct {
	items  []circuit.ID
	Box    geom.Box
	Center geom.Vec
}

// Items returns the selected ids in selection order. The slice must not be
// modified.
func (s *Selection) Items() []circuit.ID {
	return s.items
}

// Len returns the number of selected ids.
func (s *Selection) Len() int {
	return len(s.items)
}

// Contains reports whether id is selected.
func (s *Selection) Contains(id circuit.ID) bool {
	return lo.Contains(s.items, id)
}

// IndexOf returns the position of id, or -1.
func (s *Selection) IndexOf(id circuit.ID) int {
	return lo.IndexOf(s.items, id)
}

// Selected reports whether anything is selected, counting a box larger than
// a point.
func (s *Selection) Selected() bool {
	return len(s.items) > 0 || !s.Box.IsTrivial()
}

// Add appends id unless it is already present.
func (s *Selection) Add(id circuit.ID) bool {
	if id.IsNone() || s.Contains(id) {
		return false
	}
	s.items = append(s.items, id)
	return true
}

// Insert puts id back at index i, clamped to the current length.
func (s *Selection) Insert(i int, id circuit.ID) {
	if s.Contains(id) {
		return
	}
	i = max(0, min(i, len(s.items)))
	s.items = slices.Insert(s.items, i, id)
}

// Remove drops id and returns the index it held, or -1.
func (s *Selection) Remove(id circuit.ID) int {
	i := s.IndexOf(id)
	if i >= 0 {
		s.items = slices.Delete(s.items, i, i+1)
	}
	return i
}

// Last returns the most recently selected id.
func (s *Selection) Last() (circuit.ID, bool) {
	if len(s.items) == 0 {
		return circuit.NoID, false
	}
	return s.items[len(s.items)-1], true
}

// Clear empties the set and the box.
func (s *Selection) Clear() {
	s.items = s.items[:0]
	s.Box = geom.Box{}
	s.Center = geom.Vec{}
}
