package main

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/schematic-toolkit/pkg/geom"
	"github.com/ha1tch/schematic-toolkit/pkg/ux"
)

// Terminals report key presses and repeats but never releases, so a key
// counts as held until keyHold passes without another event for it.
const keyHold = 150 * time.Millisecond

// sampler folds terminal events into one ux.Input per frame.
type sampler struct {
	cell geom.Vec // screen units per terminal cell
	hold time.Duration

	mouse     geom.Vec
	buttons   ux.Modifier // buttons held as of the last mouse event
	latched   ux.Modifier // buttons pressed since the last frame
	mouseMods ux.Modifier
	keyMods   ux.Modifier
	scroll    geom.Vec

	lastSeen map[ux.Key]time.Time
	pressed  ux.KeySet
	last     time.Time
}

func newSampler(cell geom.Vec) *sampler {
	return &sampler{
		cell:     cell,
		hold:     keyHold,
		lastSeen: make(map[ux.Key]time.Time),
	}
}

// cellToScreen returns the screen position of the center of a cell.
func (s *sampler) cellToScreen(x, y int) geom.Vec {
	return geom.V((float64(x)+0.5)*s.cell.X, (float64(y)+0.5)*s.cell.Y)
}

// screenToCell returns the cell containing a screen position.
func (s *sampler) screenToCell(p geom.Vec) (int, int) {
	return floorInt(p.X / s.cell.X), floorInt(p.Y / s.cell.Y)
}

func floorInt(f float64) int {
	i := int(f)
	if f < 0 && float64(i) != f {
		i--
	}
	return i
}

func mapMods(m tcell.ModMask) ux.Modifier {
	var mods ux.Modifier
	if m&tcell.ModShift != 0 {
		mods |= ux.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		mods |= ux.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		mods |= ux.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		mods |= ux.ModSuper
	}
	return mods
}

// mapKey translates a terminal key event. Control letters arrive as their
// own key codes and come back as the letter plus ModCtrl.
func mapKey(ev *tcell.EventKey) (ux.Key, ux.Modifier) {
	mods := mapMods(ev.Modifiers())
	k := ev.Key()
	switch {
	case k == tcell.KeyRune:
		r := ev.Rune()
		switch {
		case r == ' ':
			return ux.KeySpace, mods
		case r >= 'a' && r <= 'z':
			return ux.KeyA + ux.Key(r-'a'), mods
		case r >= 'A' && r <= 'Z':
			return ux.KeyA + ux.Key(r-'A'), mods | ux.ModShift
		}
	case k == tcell.KeyEscape:
		return ux.KeyEscape, mods
	case k == tcell.KeyEnter:
		return ux.KeyEnter, mods
	case k == tcell.KeyTab:
		return ux.KeyTab, mods
	case k == tcell.KeyBackspace || k == tcell.KeyBackspace2:
		return ux.KeyBackspace, mods
	case k == tcell.KeyDelete:
		return ux.KeyDelete, mods
	case k >= tcell.KeyF1 && k <= tcell.KeyF12:
		return ux.KeyF1 + ux.Key(k-tcell.KeyF1), mods
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		return ux.KeyA + ux.Key(k-tcell.KeyCtrlA), mods | ux.ModCtrl
	}
	return ux.KeyNone, mods
}

func (s *sampler) mouseEvent(ev *tcell.EventMouse) {
	x, y := ev.Position()
	s.mouse = s.cellToScreen(x, y)
	s.mouseMods = mapMods(ev.Modifiers())

	b := ev.Buttons()
	var held ux.Modifier
	if b&tcell.ButtonPrimary != 0 {
		held |= ux.ModLMB
	}
	if b&tcell.ButtonSecondary != 0 {
		held |= ux.ModRMB
	}
	s.latched |= held &^ s.buttons
	s.buttons = held

	if b&tcell.WheelUp != 0 {
		s.scroll.Y++
	}
	if b&tcell.WheelDown != 0 {
		s.scroll.Y--
	}
	if b&tcell.WheelLeft != 0 {
		s.scroll.X--
	}
	if b&tcell.WheelRight != 0 {
		s.scroll.X++
	}
}

// keyEvent records a key and returns it. A repeat of a key that is still
// held does not count as a new press.
func (s *sampler) keyEvent(ev *tcell.EventKey) ux.Key {
	k, mods := mapKey(ev)
	s.keyMods |= mods
	if k == ux.KeyNone {
		return k
	}
	when := ev.When()
	if seen, ok := s.lastSeen[k]; !ok || when.Sub(seen) > s.hold {
		s.pressed.Set(k)
	}
	s.lastSeen[k] = when
	return k
}

// frame returns the input for the frame ending at now and resets the
// per-frame accumulators. A button pressed and released within one frame is
// still reported held for that frame.
func (s *sampler) frame(now time.Time) ux.Input {
	in := ux.Input{
		MousePos:    s.mouse,
		Scroll:      s.scroll,
		Modifiers:   s.buttons | s.latched | s.mouseMods | s.keyMods,
		KeysPressed: s.pressed,
	}
	if !s.last.IsZero() {
		in.FrameDuration = now.Sub(s.last)
	}
	for k, seen := range s.lastSeen {
		if now.Sub(seen) <= s.hold {
			in.KeysDown.Set(k)
		} else {
			delete(s.lastSeen, k)
		}
	}
	for _, k := range s.pressed.Keys() {
		in.KeysDown.Set(k)
	}

	s.last = now
	s.latched = 0
	s.keyMods = 0
	s.scroll = geom.Vec{}
	s.pressed = ux.KeySet{}
	return in
}
