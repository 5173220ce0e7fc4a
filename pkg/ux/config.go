package ux

import "github.com/ha1tch/schematic-toolkit/pkg/camera"

// Config holds the interaction tunables. Distances are in world units
// unless noted.
type Config struct {
	MoveThreshold    float64       `toml:"move_threshold"` // screen units; divided by zoom
	MouseFudge       float64       `toml:"mouse_fudge"`    // pointer box half size
	WaypointFudge    float64       `toml:"waypoint_fudge"` // waypoint hit half size
	PortWidth        float64       `toml:"port_width"`
	GridSize         float64       `toml:"grid_size"`
	HistoryLimit     int           `toml:"history_limit"` // 0 keeps every command
	CoalesceGestures bool          `toml:"coalesce_gestures"`
	Camera           camera.Config `toml:"camera"`
}

// DefaultConfig returns the standard tunables.
func DefaultConfig() Config {
	return Config{
		MoveThreshold:    5,
		MouseFudge:       1.5,
		WaypointFudge:    5,
		PortWidth:        6,
		GridSize:         10,
		HistoryLimit:     0,
		CoalesceGestures: true,
		Camera:           camera.DefaultConfig(),
	}
}
