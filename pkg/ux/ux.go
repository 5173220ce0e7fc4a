// Package ux is the interactive editing core of the schematic editor. It
// turns per-frame input samples into edits of a circuit.Store through a
// finite state machine, a selection model and an undoable command log.
package ux

import (
	"math"

	"github.com/flanksource/commons/logger"

	"github.com/ha1tch/schematic-toolkit/pkg/camera"
	"github.com/ha1tch/schematic-toolkit/pkg/circuit"
	"github.com/ha1tch/schematic-toolkit/pkg/geom"
)

// Wire is the connection being drawn from a port.
type Wire struct {
	From circuit.ID
	To   circuit.ID
	End  geom.Vec // pointer position while dragging
}

// Active reports whether a wire is being drawn.
func (w Wire) Active() bool {
	return !w.From.IsNone()
}

// UX owns the editing state of one circuit. It is not safe for concurrent
// use; Update is meant to be called once per frame.
type UX struct {
	cfg     Config
	store   *circuit.Store
	camera  *camera.Controller
	history *History
	sel     Selection
	log     logger.Logger

	state       State
	hover       Hover
	input       Input
	mouseWorld  geom.Vec
	anchor      geom.Vec
	gesture     uint64
	prevLeft    bool
	adding      circuit.ID
	wire        Wire
	fps         float64
	frames      uint64
	debug       bool
	showFPS     bool
	betterRoute bool

	// OnConnect is called when a wire is released or clicked onto a port.
	OnConnect func(from, to circuit.ID)
	// OnFloatingWire is called when a wire is released over empty space.
	OnFloatingWire func(from circuit.ID, at geom.Vec)
}

// New creates an editor over store. A nil backend selects a default
// camera.Viewport.
func New(store *circuit.Store, backend camera.Backend, cfg Config) *UX {
	u := &UX{
		cfg:     cfg,
		store:   store,
		camera:  camera.NewController(backend, cfg.Camera),
		history: NewHistory(cfg.HistoryLimit, cfg.CoalesceGestures),
		log:     logger.GetLogger("ux"),
		state:   StateUp,
		hover:   Hover{Entity: circuit.NoID, Port: circuit.NoID},
		adding:  circuit.NoID,
		wire:    Wire{From: circuit.NoID, To: circuit.NoID},
	}
	store.OnComponentDelete(u.prune)
	store.OnWaypointDelete(u.prune)
	return u
}

// prune drops a deleted entity from the selection and hover.
func (u *UX) prune(id circuit.ID) {
	if u.sel.Remove(id) >= 0 {
		u.recomputeCenter()
	}
	if u.hover.Entity == id {
		u.hover.Entity = circuit.NoID
	}
}

// Update runs one frame: keyboard panning, shortcuts, zoom, hit test and
// the state machine.
func (u *UX) Update(in Input) {
	u.input = in
	u.frames++
	if secs := in.FrameDuration.Seconds(); secs > 0 {
		if u.fps == 0 {
			u.fps = 1 / secs
		} else {
			u.fps = 0.9*u.fps + 0.1/secs
		}
	}

	u.panKeys()
	u.shortcuts()
	if math.Abs(in.Scroll.Y) > 0.001 {
		u.camera.Scroll(in.MousePos, in.Scroll.Y)
	}

	u.mouseWorld = u.camera.ScreenToWorld(in.MousePos)
	u.hover = HitTest(u.store, u.cfg, u.mouseWorld)
	u.step(u.mouseWorld)
	u.store.UpdateEndpoints()

	u.prevLeft = in.Modifiers.Has(ModLMB)
}

// step runs the state machine until it settles, then the continuous action.
func (u *UX) step(world geom.Vec) {
	left := u.input.Modifiers.Has(ModLMB)
	f := Facts{
		LeftDown:    left,
		LeftPressed: left && !u.prevLeft,
		RightDown:   u.input.Modifiers.Has(ModRMB),
		OverPort:    !u.hover.Port.IsNone(),
		OverItem:    !u.hover.Entity.IsNone(),
	}

	for range stateCount {
		u.refresh(&f, world)
		next := Next(u.state, f)
		if next == u.state {
			break
		}
		u.log.Debugf("State transition: %s -> %s", u.state, next)
		old := u.state
		u.state = next
		u.exit(old, next, world)
		u.enter(next, world)
		f.LeftPressed = false
	}
	u.continuous(u.state, world)
}

// refresh recomputes the facts that actions can change.
func (u *UX) refresh(f *Facts, world geom.Vec) {
	threshold := u.cfg.MoveThreshold / u.camera.Zoom()
	f.Move = f.LeftDown && geom.Len(geom.Sub(world, u.anchor)) > threshold
	f.Selected = u.sel.Selected()
	f.InSelection = u.inSelection(world)
	f.OverSource = !u.wire.From.IsNone() && u.hover.Port == u.wire.From
}

func (u *UX) inSelection(p geom.Vec) bool {
	if !u.sel.Box.IsTrivial() && u.sel.Box.Contains(p) {
		return true
	}
	for _, id := range u.sel.Items() {
		switch id.Kind {
		case circuit.KindComponent:
			if c, ok := u.store.Component(id); ok && c.Box.Contains(p) {
				return true
			}
		case circuit.KindWaypoint:
			if w, ok := u.store.Waypoint(id); ok && geom.Len(geom.Sub(w.Position, p)) < u.cfg.WaypointFudge {
				return true
			}
		}
	}
	return false
}

func (u *UX) do(c Command) Command {
	c.Gesture = u.gesture
	rec := u.history.Do(u, c)
	u.log.Debugf("do %s", rec)
	return rec
}

// Undo reverts the most recent command. It reports false when there is
// nothing to undo.
func (u *UX) Undo() bool {
	return u.history.Undo(u)
}

// Redo re-applies the most recently undone command. It reports false when
// there is nothing to redo.
func (u *UX) Redo() bool {
	return u.history.Redo(u)
}

// StartAddingComponent begins placing a new component of desc. The
// component follows the pointer until dropped with a click.
func (u *UX) StartAddingComponent(desc circuit.DescID) {
	if !u.adding.IsNone() {
		u.store.DeleteComponent(u.adding)
	}
	u.state = StateAddingComponent
	u.adding = u.store.AddComponent(desc, geom.Vec{})
}

// StopAddingComponent cancels placement and discards the floating component.
func (u *UX) StopAddingComponent() {
	u.state = StateUp
	if !u.adding.IsNone() {
		u.store.DeleteComponent(u.adding)
	}
	u.adding = circuit.NoID
}

// ChangeAddingComponent switches the component being placed to desc.
func (u *UX) ChangeAddingComponent(desc circuit.DescID) {
	u.StopAddingComponent()
	u.StartAddingComponent(desc)
}

// Config returns the tunables the editor was created with.
func (u *UX) Config() Config { return u.cfg }

// Store returns the circuit being edited.
func (u *UX) Store() *circuit.Store { return u.store }

// Camera returns the view controller.
func (u *UX) Camera() *camera.Controller { return u.camera }

// History returns the command log.
func (u *UX) History() *History { return u.history }

// Selection returns the live selection. Callers must not modify it.
func (u *UX) Selection() *Selection { return &u.sel }

// State returns the interaction state after the last frame.
func (u *UX) State() State { return u.state }

// Hover returns the last hit-test result.
func (u *UX) Hover() Hover { return u.hover }

// MouseWorld returns the pointer in world space.
func (u *UX) MouseWorld() geom.Vec { return u.mouseWorld }

// Anchor returns the drag anchor in world space.
func (u *UX) Anchor() geom.Vec { return u.anchor }

// Adding returns the component being placed, or NoID.
func (u *UX) Adding() circuit.ID { return u.adding }

// PendingWire returns the wire being drawn, if any.
func (u *UX) PendingWire() Wire { return u.wire }

// Debug reports whether the debug overlay is on.
func (u *UX) Debug() bool { return u.debug }

// ShowFPS reports whether the frame-rate overlay is on.
func (u *UX) ShowFPS() bool { return u.showFPS }

// BetterRoutes reports the experimental routing flag.
func (u *UX) BetterRoutes() bool { return u.betterRoute }

// FPS returns a smoothed frame rate.
func (u *UX) FPS() float64 { return u.fps }

// Frames returns the number of frames run.
func (u *UX) Frames() uint64 { return u.frames }
