package circuit

import "errors"

var (
	// ErrSlotInUse is returned when restoring an entity whose slot is live.
	ErrSlotInUse = errors.New("circuit: slot in use")
	// ErrNotDeleted is returned when restoring an identifier that does not
	// name the most recently deleted occupant of its slot.
	ErrNotDeleted = errors.New("circuit: identifier was not deleted")
)

type slot[T any] struct {
	value T
	gen   uint32
	alive bool
}

// arena is append-only: slots are never reused, so a deleted entity can be
// brought back under its original identifier.
type arena[T any] struct {
	kind  Kind
	slots []slot[T]
	live  int
}

func (a *arena[T]) add(v T) ID {
	a.slots = append(a.slots, slot[T]{value: v, alive: true})
	a.live++
	return ID{Kind: a.kind, Index: uint32(len(a.slots) - 1)}
}

func (a *arena[T]) get(id ID) (*T, bool) {
	if id.Kind != a.kind || int(id.Index) >= len(a.slots) {
		return nil, false
	}
	s := &a.slots[id.Index]
	if !s.alive || s.gen != id.Gen {
		return nil, false
	}
	return &s.value, true
}

func (a *arena[T]) remove(id ID) bool {
	if _, ok := a.get(id); !ok {
		return false
	}
	s := &a.slots[id.Index]
	s.alive = false
	s.gen++
	a.live--
	return true
}

func (a *arena[T]) restore(id ID) error {
	if id.Kind != a.kind || int(id.Index) >= len(a.slots) {
		return ErrNotDeleted
	}
	s := &a.slots[id.Index]
	if s.alive {
		return ErrSlotInUse
	}
	if s.gen != id.Gen+1 {
		return ErrNotDeleted
	}
	s.gen = id.Gen
	s.alive = true
	a.live++
	return nil
}

// each yields live entities in index order until fn returns false.
func (a *arena[T]) each(fn func(*T) bool) {
	for i := range a.slots {
		if a.slots[i].alive && !fn(&a.slots[i].value) {
			return
		}
	}
}
