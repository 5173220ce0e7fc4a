// Package script loads and replays YAML interaction scripts: a seeded
// circuit followed by a list of input frames, each optionally carrying
// expectations about the editor state after the frame.
package script

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/ha1tch/schematic-toolkit/pkg/geom"
	"github.com/ha1tch/schematic-toolkit/pkg/ux"
)

// Point is an [x, y] pair.
type Point [2]float64

// Vec converts p to a geometry vector.
func (p Point) Vec() geom.Vec {
	return geom.V(p[0], p[1])
}

// Script is a replayable editing session.
type Script struct {
	Name    string  `yaml:"name"`
	Circuit Seed    `yaml:"circuit"`
	Camera  *Camera `yaml:"camera,omitempty"`
	Frames  []Frame `yaml:"frames"`
}

// Seed lists the entities created before the first frame.
type Seed struct {
	Components []SeedComponent `yaml:"components,omitempty"`
	Nets       []SeedNet       `yaml:"nets,omitempty"`
}

// SeedComponent places a component. Name defaults to c0, c1, ...
type SeedComponent struct {
	Name string `yaml:"name,omitempty"`
	Desc string `yaml:"desc"`
	At   Point  `yaml:"at"`
}

// SeedNet creates a net joining ports, given as "component.PORT", through
// optional waypoints. Waypoint names default to w0, w1, ... across nets.
type SeedNet struct {
	Connect   []string       `yaml:"connect,omitempty"`
	Waypoints []SeedWaypoint `yaml:"waypoints,omitempty"`
}

// SeedWaypoint is a named waypoint position.
type SeedWaypoint struct {
	Name string `yaml:"name,omitempty"`
	At   Point  `yaml:"at"`
}

// Camera sets the initial view.
type Camera struct {
	ZoomExp float64 `yaml:"zoom_exp"`
	Pan     Point   `yaml:"pan"`
}

// Frame is one input sample. Mouse positions are in screen space and carry
// over from the previous frame when omitted.
type Frame struct {
	Mouse   *Point   `yaml:"mouse,omitempty"`
	Buttons []string `yaml:"buttons,omitempty"` // left, right
	Mods    []string `yaml:"mods,omitempty"`    // shift, ctrl, alt, super
	Keys    []string `yaml:"keys,omitempty"`    // pressed this frame
	Hold    []string `yaml:"hold,omitempty"`    // held without a new press
	Scroll  float64  `yaml:"scroll,omitempty"`
	DT      float64  `yaml:"dt,omitempty"` // milliseconds, default 16
	Repeat  int      `yaml:"repeat,omitempty"`
	Place   string   `yaml:"place,omitempty"` // start placing a descriptor; "none" stops
	Expect  *Expect  `yaml:"expect,omitempty"`
}

// Expect holds checks run after a frame. Unset fields are not checked.
type Expect struct {
	State      string           `yaml:"state,omitempty"`
	Selected   []string         `yaml:"selected,omitempty"`
	Count      *int             `yaml:"count,omitempty"` // selection size
	Box        *[4]float64      `yaml:"box,omitempty"`   // min x, min y, max x, max y
	History    *int             `yaml:"history,omitempty"`
	Cursor     *int             `yaml:"cursor,omitempty"`
	Components *int             `yaml:"components,omitempty"`
	Positions  map[string]Point `yaml:"positions,omitempty"`
	ZoomExp    *float64         `yaml:"zoom_exp,omitempty"`
}

// Load reads a script from a YAML file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a script and validates its key, button and modifier names.
func Parse(data []byte) (*Script, error) {
	var s Script
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parsing script: %w", err)
	}
	for i, f := range s.Frames {
		if _, err := f.input(nil); err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		if f.Expect != nil && f.Expect.State != "" {
			if _, ok := parseState(f.Expect.State); !ok {
				return nil, fmt.Errorf("frame %d: unknown state %q", i, f.Expect.State)
			}
		}
	}
	return &s, nil
}

// Marshal encodes a script as YAML.
func (s *Script) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}

func parseState(name string) (ux.State, bool) {
	return lo.Find(ux.AllStates(), func(s ux.State) bool {
		return strings.EqualFold(s.String(), name)
	})
}

var buttonMods = map[string]ux.Modifier{
	"left":  ux.ModLMB,
	"right": ux.ModRMB,
}

var keyMods = map[string]ux.Modifier{
	"shift": ux.ModShift,
	"ctrl":  ux.ModCtrl,
	"alt":   ux.ModAlt,
	"super": ux.ModSuper,
	"cmd":   ux.ModSuper,
}

func parseMods(names []string, table map[string]ux.Modifier) (ux.Modifier, error) {
	var m ux.Modifier
	for _, n := range names {
		bit, ok := table[strings.ToLower(n)]
		if !ok {
			return 0, fmt.Errorf("unknown modifier %q", n)
		}
		m |= bit
	}
	return m, nil
}

func parseKeys(names []string) (ux.KeySet, error) {
	var set ux.KeySet
	for _, n := range names {
		k, ok := ux.ParseKey(n)
		if !ok {
			return set, fmt.Errorf("unknown key %q", n)
		}
		set.Set(k)
	}
	return set, nil
}
