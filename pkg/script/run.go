package script

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/ha1tch/schematic-toolkit/pkg/circuit"
	"github.com/ha1tch/schematic-toolkit/pkg/geom"
	"github.com/ha1tch/schematic-toolkit/pkg/ux"
)

const defaultFrameMillis = 16

// Session is a built script: the editor and the names of seeded entities.
type Session struct {
	UX    *ux.UX
	Names map[string]circuit.ID
}

// Name returns the seeded name of id, or its id string.
func (s *Session) Name(id circuit.ID) string {
	for name, v := range s.Names {
		if v == id {
			return name
		}
	}
	return id.String()
}

// Build creates the store, seeds it and wraps it in an editor.
func (s *Script) Build(cfg ux.Config) (*Session, error) {
	store := circuit.New(circuit.DefaultDescs, nil)
	names := map[string]circuit.ID{}

	for i, sc := range s.Circuit.Components {
		desc, ok := circuit.FindDesc(store.Descs(), sc.Desc)
		if !ok {
			return nil, fmt.Errorf("component %d: unknown descriptor %q", i, sc.Desc)
		}
		name := lo.Ternary(sc.Name != "", sc.Name, fmt.Sprintf("c%d", i))
		if _, dup := names[name]; dup {
			return nil, fmt.Errorf("component %d: duplicate name %q", i, name)
		}
		names[name] = store.AddComponent(desc, sc.At.Vec())
	}

	wp := 0
	for i, sn := range s.Circuit.Nets {
		net := store.AddNet()
		for _, ref := range sn.Connect {
			port, err := findPort(store, names, ref)
			if err != nil {
				return nil, fmt.Errorf("net %d: %w", i, err)
			}
			store.AddEndpoint(net, port)
		}
		for _, w := range sn.Waypoints {
			name := lo.Ternary(w.Name != "", w.Name, fmt.Sprintf("w%d", wp))
			names[name] = store.AddWaypoint(net, w.At.Vec())
			wp++
		}
	}
	store.UpdateEndpoints()

	u := ux.New(store, nil, cfg)
	if s.Camera != nil {
		u.Camera().SetZoomExp(geom.Vec{}, s.Camera.ZoomExp)
		u.Camera().PanWorld(s.Camera.Pan.Vec())
	}
	return &Session{UX: u, Names: names}, nil
}

func findPort(store *circuit.Store, names map[string]circuit.ID, ref string) (circuit.ID, error) {
	comp, portName, ok := strings.Cut(ref, ".")
	if !ok {
		return circuit.NoID, fmt.Errorf("port reference %q: want component.PORT", ref)
	}
	id, ok := names[comp]
	if !ok {
		return circuit.NoID, fmt.Errorf("port reference %q: unknown component %q", ref, comp)
	}
	for p := range store.Ports(id) {
		if strings.EqualFold(store.LabelText(p.Label), portName) {
			return p.ID, nil
		}
	}
	return circuit.NoID, fmt.Errorf("port reference %q: no port %q", ref, portName)
}

// input converts the frame to an editor input. prev is the last mouse
// position and is used when the frame omits one.
func (f Frame) input(prev *geom.Vec) (ux.Input, error) {
	var in ux.Input
	if f.Mouse != nil {
		in.MousePos = f.Mouse.Vec()
	} else if prev != nil {
		in.MousePos = *prev
	}

	buttons, err := parseMods(f.Buttons, buttonMods)
	if err != nil {
		return in, err
	}
	mods, err := parseMods(f.Mods, keyMods)
	if err != nil {
		return in, err
	}
	in.Modifiers = buttons | mods

	if in.KeysPressed, err = parseKeys(f.Keys); err != nil {
		return in, err
	}
	held, err := parseKeys(f.Hold)
	if err != nil {
		return in, err
	}
	in.KeysDown = in.KeysPressed
	for _, k := range held.Keys() {
		in.KeysDown.Set(k)
	}

	in.Scroll = geom.V(0, f.Scroll)
	dt := lo.Ternary(f.DT > 0, f.DT, defaultFrameMillis)
	in.FrameDuration = time.Duration(dt * float64(time.Millisecond))
	return in, nil
}

// Failure is an expectation that did not hold.
type Failure struct {
	Frame   int // index into Script.Frames
	Message string
}

func (f Failure) String() string {
	return fmt.Sprintf("frame %d: %s", f.Frame, f.Message)
}

// Result summarises a replay.
type Result struct {
	Session  *Session
	Frames   int // frames fed to the editor, counting repeats
	Failures []Failure
}

// OK reports whether every expectation held.
func (r *Result) OK() bool {
	return len(r.Failures) == 0
}

// RunOptions tunes a replay.
type RunOptions struct {
	Config ux.Config
	// Trace is called after every frame, including repeats.
	Trace func(frame int, s *Session)
}

// Run builds the script and replays its frames, checking expectations
// after the last repeat of each frame.
func Run(s *Script, opts RunOptions) (*Result, error) {
	sess, err := s.Build(opts.Config)
	if err != nil {
		return nil, err
	}
	res := &Result{Session: sess}
	u := sess.UX

	var mouse geom.Vec
	for i, f := range s.Frames {
		if err := sess.place(f.Place); err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		in, err := f.input(&mouse)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		mouse = in.MousePos

		for r := range max(1, f.Repeat) {
			if r > 0 {
				in.KeysPressed = ux.KeySet{}
			}
			u.Update(in)
			res.Frames++
			if opts.Trace != nil {
				opts.Trace(i, sess)
			}
		}

		if f.Expect != nil {
			for _, msg := range sess.check(f.Expect) {
				res.Failures = append(res.Failures, Failure{Frame: i, Message: msg})
			}
		}
	}
	return res, nil
}

func (s *Session) place(desc string) error {
	switch strings.ToLower(desc) {
	case "":
		return nil
	case "none":
		s.UX.StopAddingComponent()
		return nil
	}
	id, ok := circuit.FindDesc(s.UX.Store().Descs(), desc)
	if !ok {
		return fmt.Errorf("place: unknown descriptor %q", desc)
	}
	s.UX.StartAddingComponent(id)
	return nil
}

const eps = 1e-6

func near(a, b float64) bool {
	return math.Abs(a-b) <= eps
}

func (s *Session) check(e *Expect) []string {
	var msgs []string
	fail := func(format string, args ...any) {
		msgs = append(msgs, fmt.Sprintf(format, args...))
	}
	u := s.UX
	sel := u.Selection()

	if e.State != "" {
		want, _ := parseState(e.State)
		if u.State() != want {
			fail("state = %s, want %s", u.State(), want)
		}
	}
	if e.Selected != nil {
		got := lo.Map(sel.Items(), func(id circuit.ID, _ int) string { return s.Name(id) })
		if !slices.Equal(got, e.Selected) {
			fail("selected = %v, want %v", got, e.Selected)
		}
	}
	if e.Count != nil && sel.Len() != *e.Count {
		fail("selection size = %d, want %d", sel.Len(), *e.Count)
	}
	if e.Box != nil {
		bmin, bmax := sel.Box.Min(), sel.Box.Max()
		got := [4]float64{bmin.X, bmin.Y, bmax.X, bmax.Y}
		for i := range got {
			if !near(got[i], e.Box[i]) {
				fail("selection box = %v, want %v", got, *e.Box)
				break
			}
		}
	}
	if e.History != nil && u.History().Len() != *e.History {
		fail("history length = %d, want %d", u.History().Len(), *e.History)
	}
	if e.Cursor != nil && u.History().Cursor() != *e.Cursor {
		fail("history cursor = %d, want %d", u.History().Cursor(), *e.Cursor)
	}
	if e.Components != nil && u.Store().ComponentCount() != *e.Components {
		fail("components = %d, want %d", u.Store().ComponentCount(), *e.Components)
	}
	if e.ZoomExp != nil && !near(u.Camera().ZoomExp(), *e.ZoomExp) {
		fail("zoom exponent = %g, want %g", u.Camera().ZoomExp(), *e.ZoomExp)
	}

	names := lo.Keys(e.Positions)
	slices.Sort(names)
	for _, name := range names {
		want := e.Positions[name].Vec()
		got, ok := s.position(name)
		switch {
		case !ok:
			fail("%s: no such live entity", name)
		case !near(got.X, want.X) || !near(got.Y, want.Y):
			fail("%s at (%g, %g), want (%g, %g)", name, got.X, got.Y, want.X, want.Y)
		}
	}
	return msgs
}

func (s *Session) position(name string) (geom.Vec, bool) {
	id, ok := s.Names[name]
	if !ok {
		return geom.Vec{}, false
	}
	store := s.UX.Store()
	switch id.Kind {
	case circuit.KindComponent:
		if c, ok := store.Component(id); ok {
			return c.Box.Center, true
		}
	case circuit.KindWaypoint:
		if w, ok := store.Waypoint(id); ok {
			return w.Position, true
		}
	}
	return geom.Vec{}, false
}
