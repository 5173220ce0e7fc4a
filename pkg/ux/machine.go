package ux

import "fmt"

// State is a state of the interaction machine.
type State int

const (
	StateUp State = iota
	StateDown
	StatePan
	StateClick
	StateDeselect
	StateSelectArea
	StateSelectOne
	StateMoveSelection
	StateClickPort
	StateDragWiring
	StateStartClickWiring
	StateClickWiring
	StateConnectPort
	StateFloatingWire
	StateAddingComponent
	StateAddComponent
	stateCount
)

var stateNames = [stateCount]string{
	StateUp:               "Up",
	StateDown:             "Down",
	StatePan:              "Pan",
	StateClick:            "Click",
	StateDeselect:         "Deselect",
	StateSelectArea:       "SelectArea",
	StateSelectOne:        "SelectOne",
	StateMoveSelection:    "MoveSelection",
	StateClickPort:        "ClickPort",
	StateDragWiring:       "DragWiring",
	StateStartClickWiring: "StartClickWiring",
	StateClickWiring:      "ClickWiring",
	StateConnectPort:      "ConnectPort",
	StateFloatingWire:     "FloatingWire",
	StateAddingComponent:  "AddingComponent",
	StateAddComponent:     "AddComponent",
}

func (s State) String() string {
	if s < 0 || s >= stateCount {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// AllStates lists every state in declaration order.
func AllStates() []State {
	states := make([]State, stateCount)
	for i := range states {
		states[i] = State(i)
	}
	return states
}

// Facts are the inputs the transition guards read.
type Facts struct {
	LeftDown    bool
	LeftPressed bool // left went down this frame and no transition used it yet
	RightDown   bool
	OverPort    bool
	OverSource  bool // the hovered port is where the pending wire starts
	OverItem    bool
	Move        bool // left held and the pointer left the drag threshold
	Selected    bool
	InSelection bool
}

// Rule is one guarded transition. Rules of a state are tried in order.
type Rule struct {
	Guard string
	When  func(Facts) bool
	To    State
}

func released(f Facts) bool { return !f.LeftDown }

var toUpOnRelease = []Rule{{"left released", released, StateUp}}

var transitions = map[State][]Rule{
	StateUp: {
		{"left down in selection", func(f Facts) bool { return f.LeftDown && f.InSelection }, StateMoveSelection},
		{"left down over port", func(f Facts) bool { return f.LeftDown && f.OverPort }, StateClickPort},
		{"left down over item", func(f Facts) bool { return f.LeftDown && f.OverItem }, StateSelectOne},
		{"left down", func(f Facts) bool { return f.LeftDown }, StateDown},
		{"right down", func(f Facts) bool { return f.RightDown }, StatePan},
	},
	StateDown: {
		{"left released, selected", func(f Facts) bool { return !f.LeftDown && f.Selected }, StateDeselect},
		{"left released", released, StateClick},
		{"move, nothing selected", func(f Facts) bool { return f.Move && !f.Selected }, StateSelectArea},
	},
	StatePan: {
		{"right released", func(f Facts) bool { return !f.RightDown }, StateUp},
	},
	StateClick:      toUpOnRelease,
	StateDeselect:   toUpOnRelease,
	StateSelectArea: toUpOnRelease,
	StateSelectOne: {
		{"left released", released, StateUp},
		{"move", func(f Facts) bool { return f.Move }, StateMoveSelection},
	},
	StateMoveSelection: toUpOnRelease,
	StateClickPort: {
		{"left re-pressed", func(f Facts) bool { return f.LeftPressed }, StateStartClickWiring},
		{"move", func(f Facts) bool { return f.Move }, StateDragWiring},
	},
	StateDragWiring: {
		{"left released over another port", func(f Facts) bool { return !f.LeftDown && f.OverPort && !f.OverSource }, StateConnectPort},
		{"left released", released, StateFloatingWire},
	},
	StateStartClickWiring: {
		{"left released", released, StateClickWiring},
	},
	StateClickWiring: {
		{"left down over another port", func(f Facts) bool { return f.LeftDown && f.OverPort && !f.OverSource }, StateConnectPort},
		{"left down", func(f Facts) bool { return f.LeftDown }, StateFloatingWire},
	},
	StateConnectPort:  toUpOnRelease,
	StateFloatingWire: toUpOnRelease,
	StateAddingComponent: {
		{"left down", func(f Facts) bool { return f.LeftDown }, StateAddComponent},
	},
	StateAddComponent: {
		{"left released", released, StateAddingComponent},
	},
}

// Next evaluates the rules of s against f and returns the first matching
// target, or s when no rule fires.
func Next(s State, f Facts) State {
	for _, r := range transitions[s] {
		if r.When(f) {
			return r.To
		}
	}
	return s
}

// Rules returns the outgoing rules of s.
func Rules(s State) []Rule {
	return transitions[s]
}
