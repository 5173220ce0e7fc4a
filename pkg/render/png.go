// Package render draws a snapshot of an editing session to PNG. It is used
// by the command line tools and by tests to inspect what the editor would
// show.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/samber/lo"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/ha1tch/schematic-toolkit/pkg/camera"
	"github.com/ha1tch/schematic-toolkit/pkg/circuit"
	"github.com/ha1tch/schematic-toolkit/pkg/geom"
	"github.com/ha1tch/schematic-toolkit/pkg/ux"
)

// Options configures PNG rendering.
type Options struct {
	Width    int
	Height   int
	FontSize int
	Grid     bool
	Debug    bool // overlay state, hover and history; also enabled by the editor's debug toggle
	Title    string
}

// DefaultOptions returns sensible defaults for PNG rendering.
func DefaultOptions() Options {
	return Options{
		Width:    800,
		Height:   600,
		FontSize: 10,
		Grid:     true,
	}
}

// Colors used in rendering
var (
	colorWhite     = color.RGBA{255, 255, 255, 255}
	colorGrid      = color.RGBA{220, 220, 220, 255}
	colorInk       = color.RGBA{51, 51, 51, 255}    // #333
	colorFill      = color.RGBA{245, 245, 245, 255} // #f5f5f5
	colorSelected  = color.RGBA{21, 101, 192, 255}  // #1565c0
	colorHover     = color.RGBA{230, 81, 0, 255}    // #e65100
	colorPlacing   = color.RGBA{46, 125, 50, 255}   // #2e7d32
	colorWire      = color.RGBA{102, 102, 102, 255} // #666
	colorSelectBox = color.NRGBA{21, 101, 192, 60}
)

// renderContext holds rendering parameters including scale
type renderContext struct {
	img       *image.RGBA
	scale     float64
	lineWidth float64
	face      font.Face
	toImage   func(geom.Vec) (float64, float64)
}

func newRenderContext(img *image.RGBA, scale int, fontSize int, cam *camera.Controller) *renderContext {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		panic(err) // should never happen with embedded font
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    float64(fontSize * scale),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		panic(err)
	}

	s := float64(scale)
	return &renderContext{
		img:       img,
		scale:     s,
		lineWidth: s,
		face:      face,
		toImage: func(p geom.Vec) (float64, float64) {
			q := cam.WorldToScreen(p)
			return q.X * s, q.Y * s
		},
	}
}

// RenderPNG renders the editor's current view to w.
// Uses 4x supersampling for smoother output.
func RenderPNG(u *ux.UX, w io.Writer, opts Options) error {
	if err := png.Encode(w, Render(u, opts)); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}

// Render draws the editor's current view into a new image of the
// configured size.
func Render(u *ux.UX, opts Options) *image.RGBA {
	scale := 4
	large := image.NewRGBA(image.Rect(0, 0, opts.Width*scale, opts.Height*scale))
	ctx := newRenderContext(large, scale, opts.FontSize, u.Camera())

	draw.Draw(large, large.Bounds(), image.NewUniform(colorWhite), image.Point{}, draw.Src)
	if opts.Grid {
		drawGrid(ctx, u)
	}
	drawNets(ctx, u.Store())
	drawComponents(ctx, u)
	drawWaypoints(ctx, u)
	drawSelection(ctx, u)
	drawPendingWire(ctx, u)

	final := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.CatmullRom.Scale(final, final.Bounds(), large, large.Bounds(), draw.Over, nil)

	if opts.Debug || u.Debug() || u.ShowFPS() || opts.Title != "" {
		overlay := newRenderContext(final, 1, opts.FontSize, u.Camera())
		drawOverlay(overlay, u, opts)
	}
	return final
}

func drawGrid(ctx *renderContext, u *ux.UX) {
	step := u.Config().GridSize * u.Camera().Zoom() * ctx.scale
	if step < 4*ctx.scale {
		return
	}
	ox, oy := ctx.toImage(geom.Vec{})
	b := ctx.img.Bounds()
	x0 := math.Mod(ox, step)
	y0 := math.Mod(oy, step)
	for y := y0; y < float64(b.Dy()); y += step {
		for x := x0; x < float64(b.Dx()); x += step {
			fillRect(ctx, x-ctx.scale/2, y-ctx.scale/2, x+ctx.scale/2, y+ctx.scale/2, colorGrid)
		}
	}
}

func drawNets(ctx *renderContext, s *circuit.Store) {
	for n := range s.Nets() {
		var points []geom.Vec
		var ends []geom.Vec
		for e := range s.Endpoints(n.ID) {
			ends = append(ends, e.Position)
		}
		if len(ends) > 0 {
			points = append(points, ends[0])
		}
		for w := range s.NetWaypoints(n.ID) {
			points = append(points, w.Position)
		}
		if len(ends) > 1 {
			points = append(points, ends[1:]...)
		}
		for i := 1; i < len(points); i++ {
			x1, y1 := ctx.toImage(points[i-1])
			x2, y2 := ctx.toImage(points[i])
			drawLine(ctx, x1, y1, x2, y2, colorWire)
		}
	}
}

func drawComponents(ctx *renderContext, u *ux.UX) {
	s := u.Store()
	sel := u.Selection()
	hover := u.Hover()

	for c := range s.Components() {
		stroke := colorInk
		switch {
		case c.ID == u.Adding():
			stroke = colorPlacing
		case sel.Contains(c.ID):
			stroke = colorSelected
		case c.ID == hover.Entity:
			stroke = colorHover
		}
		x1, y1 := ctx.toImage(c.Box.Min())
		x2, y2 := ctx.toImage(c.Box.Max())
		fillRect(ctx, x1, y1, x2, y2, colorFill)
		strokeRect(ctx, x1, y1, x2, y2, stroke)

		cx, cy := ctx.toImage(c.Box.Center)
		drawTextCentered(ctx, cx, cy, s.LabelText(c.TypeLabel), colorInk)
		drawTextCentered(ctx, cx, y1-ctx.lineWidth*4, s.LabelText(c.NameLabel), colorInk)

		half := u.Config().PortWidth / 2
		for p := range s.Ports(c.ID) {
			pos := geom.Add(c.Box.Center, p.Position)
			fill := colorInk
			if p.ID == hover.Port {
				fill = colorHover
			}
			px1, py1 := ctx.toImage(geom.Sub(pos, geom.V(half, half)))
			px2, py2 := ctx.toImage(geom.Add(pos, geom.V(half, half)))
			fillRect(ctx, px1, py1, px2, py2, fill)
		}
	}
}

func drawWaypoints(ctx *renderContext, u *ux.UX) {
	sel := u.Selection()
	hover := u.Hover()
	for w := range u.Store().Waypoints() {
		fill := colorWire
		switch {
		case sel.Contains(w.ID):
			fill = colorSelected
		case w.ID == hover.Entity:
			fill = colorHover
		}
		x, y := ctx.toImage(w.Position)
		r := 3 * ctx.scale
		fillRect(ctx, x-r, y-r, x+r, y+r, fill)
	}
}

func drawSelection(ctx *renderContext, u *ux.UX) {
	box := u.Selection().Box
	if box.IsZero() {
		return
	}
	x1, y1 := ctx.toImage(box.Min())
	x2, y2 := ctx.toImage(box.Max())
	fillRect(ctx, x1, y1, x2, y2, colorSelectBox)
	strokeRect(ctx, x1, y1, x2, y2, colorSelected)
}

func drawPendingWire(ctx *renderContext, u *ux.UX) {
	w := u.PendingWire()
	if !w.Active() {
		return
	}
	from, ok := u.Store().PortWorldPosition(w.From)
	if !ok {
		return
	}
	end := w.End
	if to, ok := u.Store().PortWorldPosition(w.To); ok {
		end = to
	}
	x1, y1 := ctx.toImage(from)
	x2, y2 := ctx.toImage(end)
	drawLine(ctx, x1, y1, x2, y2, colorSelected)
}

// overlayLines describes the session for the debug overlay.
func overlayLines(u *ux.UX, opts Options) []string {
	h := u.History()
	hover := u.Hover()
	debug := opts.Debug || u.Debug()
	lines := []string{
		opts.Title,
		lo.Ternary(debug, "state: "+u.State().String(), ""),
		lo.Ternary(debug, fmt.Sprintf("hover: %s port: %s", hover.Entity, hover.Port), ""),
		lo.Ternary(debug, fmt.Sprintf("selected: %d  history: %d/%d", u.Selection().Len(), h.Cursor(), h.Len()), ""),
		lo.Ternary(debug, fmt.Sprintf("zoom: %.3f", u.Camera().Zoom()), ""),
		lo.Ternary(u.ShowFPS(), fmt.Sprintf("fps: %.0f", u.FPS()), ""),
	}
	return lo.Filter(lines, func(s string, _ int) bool { return s != "" })
}

func drawOverlay(ctx *renderContext, u *ux.UX, opts Options) {
	lineHeight := ctx.face.Metrics().Height.Ceil()
	for i, line := range overlayLines(u, opts) {
		drawText(ctx, 4, float64(lineHeight*(i+1)), line, colorInk)
	}
}

func fillRect(ctx *renderContext, x1, y1, x2, y2 float64, c color.Color) {
	r := image.Rect(int(math.Min(x1, x2)), int(math.Min(y1, y2)), int(math.Max(x1, x2))+1, int(math.Max(y1, y2))+1)
	draw.Draw(ctx.img, r.Intersect(ctx.img.Bounds()), image.NewUniform(c), image.Point{}, draw.Over)
}

func strokeRect(ctx *renderContext, x1, y1, x2, y2 float64, c color.Color) {
	drawLine(ctx, x1, y1, x2, y1, c)
	drawLine(ctx, x2, y1, x2, y2, c)
	drawLine(ctx, x2, y2, x1, y2, c)
	drawLine(ctx, x1, y2, x1, y1, c)
}

// drawLine draws a line between two points with thickness from context.
func drawLine(ctx *renderContext, x1, y1, x2, y2 float64, c color.Color) {
	img := ctx.img
	halfThick := ctx.lineWidth / 2

	dx := x2 - x1
	dy := y2 - y1
	dist := math.Sqrt(dx*dx + dy*dy)
	if dist < 1 {
		fillRect(ctx, x1-halfThick, y1-halfThick, x1+halfThick, y1+halfThick, c)
		return
	}

	perpX := -dy / dist
	perpY := dx / dist
	steps := math.Max(math.Abs(dx), math.Abs(dy))
	for i := 0.0; i <= steps; i++ {
		t := i / steps
		cx := x1 + dx*t
		cy := y1 + dy*t
		for offset := -halfThick; offset <= halfThick; offset += 0.5 {
			img.Set(int(cx+perpX*offset), int(cy+perpY*offset), c)
		}
	}
}

func drawText(ctx *renderContext, x, y float64, text string, c color.Color) {
	d := &font.Drawer{
		Dst:  ctx.img,
		Src:  image.NewUniform(c),
		Face: ctx.face,
		Dot:  fixed.Point26_6{X: fixed.I(int(x)), Y: fixed.I(int(y))},
	}
	d.DrawString(text)
}

func drawTextCentered(ctx *renderContext, x, y float64, text string, c color.Color) {
	if text == "" {
		return
	}
	width := font.MeasureString(ctx.face, text).Ceil()
	ascent := ctx.face.Metrics().Ascent.Ceil()
	drawText(ctx, x-float64(width)/2, y+float64(ascent)*0.35, text, c)
}
