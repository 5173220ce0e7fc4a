// Package camera implements the pan and zoom controller for the schematic
// view. The transform arithmetic belongs to a Backend so a renderer can own
// it; Viewport is the plain affine backend used by default.
package camera

import (
	"math"
	"time"

	"github.com/ha1tch/schematic-toolkit/pkg/geom"
)

// Backend is the part of a rendering backend the controller drives.
type Backend interface {
	ScreenToWorld(p geom.Vec) geom.Vec
	WorldToScreen(p geom.Vec) geom.Vec
	ScaleScreenToWorld(d geom.Vec) geom.Vec
	Zoom() float64
	SetZoom(z float64)
	Pan() geom.Vec
	AddPan(d geom.Vec)
}

// Viewport maps screen to world as world = screen/zoom - pan.
type Viewport struct {
	zoom float64
	pan  geom.Vec
}

// NewViewport returns a viewport at zoom 1 with no pan.
func NewViewport() *Viewport {
	return &Viewport{zoom: 1}
}

func (v *Viewport) ScreenToWorld(p geom.Vec) geom.Vec {
	return geom.Sub(geom.Scale(1/v.zoom, p), v.pan)
}

func (v *Viewport) WorldToScreen(p geom.Vec) geom.Vec {
	return geom.Scale(v.zoom, geom.Add(p, v.pan))
}

func (v *Viewport) ScaleScreenToWorld(d geom.Vec) geom.Vec {
	return geom.Scale(1/v.zoom, d)
}

func (v *Viewport) Zoom() float64     { return v.zoom }
func (v *Viewport) SetZoom(z float64) { v.zoom = z }
func (v *Viewport) Pan() geom.Vec     { return v.pan }
func (v *Viewport) AddPan(d geom.Vec) { v.pan = geom.Add(v.pan, d) }

// Config holds the zoom and pan tunables.
type Config struct {
	ZoomBase   float64 `toml:"zoom_base"`    // factor per unit of exponent
	MaxZoomExp float64 `toml:"max_zoom_exp"` // exponent clamp, applied symmetrically
	ZoomStep   float64 `toml:"zoom_step"`    // exponent change per scroll unit
	PanSpeed   float64 `toml:"pan_speed"`    // keyboard pan, screen units per second
}

// DefaultConfig returns the standard camera tunables.
func DefaultConfig() Config {
	return Config{
		ZoomBase:   1.1,
		MaxZoomExp: 20,
		ZoomStep:   0.5,
		PanSpeed:   1000,
	}
}

// Controller keeps zoom as an exponent so that linear scroll input gives a
// uniform perceived zoom speed.
type Controller struct {
	backend Backend
	cfg     Config
	zoomExp float64
}

// NewController wraps a backend. A nil backend gets a fresh Viewport.
func NewController(b Backend, cfg Config) *Controller {
	if b == nil {
		b = NewViewport()
	}
	c := &Controller{backend: b, cfg: cfg}
	b.SetZoom(c.factor())
	return c
}

// Backend returns the transform backend.
func (c *Controller) Backend() Backend {
	return c.backend
}

// ZoomExp returns the current zoom exponent.
func (c *Controller) ZoomExp() float64 {
	return c.zoomExp
}

// Zoom returns the current zoom factor.
func (c *Controller) Zoom() float64 {
	return c.backend.Zoom()
}

// ScreenToWorld converts a screen position using the backend.
func (c *Controller) ScreenToWorld(p geom.Vec) geom.Vec {
	return c.backend.ScreenToWorld(p)
}

// WorldToScreen converts a world position using the backend.
func (c *Controller) WorldToScreen(p geom.Vec) geom.Vec {
	return c.backend.WorldToScreen(p)
}

func (c *Controller) factor() float64 {
	return math.Pow(c.cfg.ZoomBase, c.zoomExp)
}

func (c *Controller) clamp(exp float64) float64 {
	return math.Max(-c.cfg.MaxZoomExp, math.Min(c.cfg.MaxZoomExp, exp))
}

// Scroll changes the zoom exponent by scrollY steps, keeping the world point
// under the screen position mouse stationary.
func (c *Controller) Scroll(mouse geom.Vec, scrollY float64) {
	c.SetZoomExp(mouse, c.zoomExp+scrollY*c.cfg.ZoomStep)
}

// SetZoomExp sets the zoom exponent (clamped), recentring on mouse.
func (c *Controller) SetZoomExp(mouse geom.Vec, exp float64) {
	c.zoomExp = c.clamp(exp)

	before := c.backend.ScreenToWorld(mouse)
	c.backend.SetZoom(c.factor())
	after := c.backend.ScreenToWorld(mouse)

	c.backend.AddPan(geom.Sub(after, before))
}

// PanWorld pans by a delta in world units.
func (c *Controller) PanWorld(d geom.Vec) {
	c.backend.AddPan(d)
}

// PanScreen pans by dir (in units of the configured pan speed) for the
// duration of one frame. dir is in screen space and is converted to world
// units at the current zoom.
func (c *Controller) PanScreen(dir geom.Vec, dt time.Duration) {
	if dir.X == 0 && dir.Y == 0 {
		return
	}
	d := geom.Scale(c.cfg.PanSpeed*dt.Seconds(), dir)
	c.backend.AddPan(c.backend.ScaleScreenToWorld(d))
}
