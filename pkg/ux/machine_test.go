package ux

import (
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/schematic-toolkit/pkg/circuit"
	"github.com/ha1tch/schematic-toolkit/pkg/geom"
)

func TestNext(t *testing.T) {
	tests := []struct {
		name  string
		from  State
		facts Facts
		want  State
	}{
		{"idle", StateUp, Facts{}, StateUp},
		{"press in selection wins over port", StateUp, Facts{LeftDown: true, InSelection: true, OverPort: true}, StateMoveSelection},
		{"press on port wins over item", StateUp, Facts{LeftDown: true, OverPort: true, OverItem: true}, StateClickPort},
		{"press on item", StateUp, Facts{LeftDown: true, OverItem: true}, StateSelectOne},
		{"press on nothing", StateUp, Facts{LeftDown: true}, StateDown},
		{"left wins over right", StateUp, Facts{LeftDown: true, RightDown: true}, StateDown},
		{"right press", StateUp, Facts{RightDown: true}, StatePan},
		{"pan held", StatePan, Facts{RightDown: true}, StatePan},
		{"pan released", StatePan, Facts{}, StateUp},
		{"down released with selection", StateDown, Facts{Selected: true}, StateDeselect},
		{"down released", StateDown, Facts{}, StateClick},
		{"down moved", StateDown, Facts{LeftDown: true, Move: true}, StateSelectArea},
		{"down moved with selection", StateDown, Facts{LeftDown: true, Move: true, Selected: true}, StateDown},
		{"click released", StateClick, Facts{}, StateUp},
		{"area held", StateSelectArea, Facts{LeftDown: true}, StateSelectArea},
		{"select one moved", StateSelectOne, Facts{LeftDown: true, Move: true}, StateMoveSelection},
		{"select one released", StateSelectOne, Facts{}, StateUp},
		{"click port waits", StateClickPort, Facts{}, StateClickPort},
		{"click port held", StateClickPort, Facts{LeftDown: true}, StateClickPort},
		{"click port re-pressed", StateClickPort, Facts{LeftDown: true, LeftPressed: true}, StateStartClickWiring},
		{"click port dragged", StateClickPort, Facts{LeftDown: true, Move: true}, StateDragWiring},
		{"drag onto port", StateDragWiring, Facts{OverPort: true}, StateConnectPort},
		{"drag into space", StateDragWiring, Facts{}, StateFloatingWire},
		{"drag held", StateDragWiring, Facts{LeftDown: true, OverPort: true}, StateDragWiring},
		{"drag back onto source port", StateDragWiring, Facts{OverPort: true, OverSource: true}, StateFloatingWire},
		{"start click wiring released", StateStartClickWiring, Facts{}, StateClickWiring},
		{"click wiring onto port", StateClickWiring, Facts{LeftDown: true, OverPort: true}, StateConnectPort},
		{"click wiring into space", StateClickWiring, Facts{LeftDown: true}, StateFloatingWire},
		{"click wiring onto source port", StateClickWiring, Facts{LeftDown: true, OverPort: true, OverSource: true}, StateFloatingWire},
		{"adding press", StateAddingComponent, Facts{LeftDown: true}, StateAddComponent},
		{"add released", StateAddComponent, Facts{}, StateAddingComponent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Next(tt.from, tt.facts))
		})
	}
}

func TestEveryStateHasAName(t *testing.T) {
	states := AllStates()
	require.Len(t, states, 16)
	seen := map[string]bool{}
	for _, s := range states {
		name := s.String()
		assert.NotContains(t, name, "State(")
		assert.False(t, seen[name], "duplicate name %s", name)
		seen[name] = true
	}
	assert.Equal(t, "State(99)", State(99).String())
}

func TestRulesTargetKnownStates(t *testing.T) {
	for _, s := range AllStates() {
		for _, r := range Rules(s) {
			assert.NotEmpty(t, r.Guard)
			assert.GreaterOrEqual(t, r.To, StateUp)
			assert.Less(t, r.To, stateCount)
		}
	}
}

func TestTotalityOverRandomFrames(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	s := circuit.New(circuit.DefaultDescs, nil)
	for i := range 6 {
		s.AddComponent(circuit.DescID(i), geom.V(float64(i*80), float64(i%2*80)))
	}
	net := s.AddNet()
	s.AddWaypoint(net, geom.V(40, 200))
	s.AddWaypoint(net, geom.V(120, 200))

	u := New(s, nil, DefaultConfig())
	valid := map[State]bool{}
	for _, st := range AllStates() {
		valid[st] = true
	}

	keys := []Key{KeyZ, KeyY, KeySpace, KeyB, KeyEscape, KeyW, KeyA}
	mods := []Modifier{ModLMB, ModRMB, ModShift, ModCtrl, ModSuper}
	for frame := range 5000 {
		var in Input
		in.MousePos = geom.V(rng.Float64()*500-50, rng.Float64()*300-50)
		for _, m := range mods {
			if rng.IntN(3) == 0 {
				in.Modifiers |= m
			}
		}
		if rng.IntN(10) == 0 {
			in.KeysPressed.Set(keys[rng.IntN(len(keys))])
		}
		if rng.IntN(20) == 0 {
			in.Scroll = geom.V(0, rng.Float64()*4-2)
		}
		in.FrameDuration = time.Duration(rng.IntN(30)) * time.Millisecond
		if rng.IntN(200) == 0 {
			u.StartAddingComponent(circuit.DescID(rng.IntN(len(circuit.DefaultDescs))))
		}

		u.Update(in)
		require.True(t, valid[u.State()], "frame %d: invalid state %v", frame, u.State())
		for _, id := range u.Selection().Items() {
			require.True(t, s.Valid(id), "frame %d: stale selection %s", frame, id)
		}
		assert.LessOrEqual(t, u.History().Cursor(), u.History().Len())
	}
}

func TestGenerateDOT(t *testing.T) {
	dot := GenerateDOT("interaction \"core\"")

	assert.True(t, strings.HasPrefix(dot, "digraph UX {"))
	assert.Contains(t, dot, `label="interaction \"core\"";`)
	assert.Contains(t, dot, `__start -> "Up";`)
	assert.Contains(t, dot, `"ClickPort" -> "StartClickWiring" [label="1: left re-pressed"];`)
	assert.Contains(t, dot, `"Down" -> "SelectArea" [label="3: move, nothing selected"];`)
	for _, s := range AllStates() {
		assert.Contains(t, dot, "\""+s.String()+"\" [")
	}
}
