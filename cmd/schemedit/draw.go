package main

import (
	"fmt"
	"math"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/schematic-toolkit/pkg/geom"
	"github.com/ha1tch/schematic-toolkit/pkg/ux"
)

// Styles
var (
	styleDefault    = tcell.StyleDefault
	styleGrid       = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	styleComponent  = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleSelected   = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleHover      = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	stylePlacing    = tcell.StyleDefault.Foreground(tcell.ColorPurple)
	styleLabel      = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	stylePort       = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	styleWire       = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	styleWireDrag   = tcell.StyleDefault.Foreground(tcell.NewRGBColor(200, 162, 200)) // Lilac
	styleSelectBox  = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleStatus     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleMsgInfo    = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleMsgError   = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorNavy).Bold(true)
	styleMsgSuccess = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleHelp       = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleBorder     = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

func (ed *Editor) draw() {
	ed.screen.Clear()
	w, h := ed.screen.Size()

	ed.drawCanvas(w, h-2)
	if ed.showHelp {
		ed.drawHelpOverlay(w, h)
	}
	ed.drawStatusBar(w, h)
}

// toCell maps a world position to the terminal cell showing it.
func (ed *Editor) toCell(p geom.Vec) (int, int) {
	return ed.in.screenToCell(ed.ux.Camera().WorldToScreen(p))
}

func (ed *Editor) drawCanvas(w, h int) {
	ed.drawGrid(w, h)
	ed.drawNets()
	ed.drawComponents()
	ed.drawWaypoints()
	ed.drawSelectionBox()
	ed.drawPendingWire()
}

// drawGrid marks every fourth grid line crossing while cells stay sparse
// enough to read.
func (ed *Editor) drawGrid(w, h int) {
	step := ed.ux.Config().GridSize * 4
	if step <= 0 {
		return
	}
	cam := ed.ux.Camera()
	cell := cam.Backend().ScaleScreenToWorld(ed.in.cell)
	if step < cell.X*2 || step < cell.Y {
		return
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := cam.ScreenToWorld(ed.in.cellToScreen(x, y))
			if nearMultiple(p.X, step, cell.X/2) && nearMultiple(p.Y, step, cell.Y/2) {
				ed.screen.SetContent(x, y, '·', nil, styleGrid)
			}
		}
	}
}

func nearMultiple(v, step, tol float64) bool {
	return math.Abs(v-math.Round(v/step)*step) < tol
}

func (ed *Editor) drawNets() {
	s := ed.ux.Store()
	for n := range s.Nets() {
		var points, ends []geom.Vec
		for e := range s.Endpoints(n.ID) {
			ends = append(ends, e.Position)
		}
		if len(ends) > 0 {
			points = append(points, ends[0])
		}
		for wp := range s.NetWaypoints(n.ID) {
			points = append(points, wp.Position)
		}
		if len(ends) > 1 {
			points = append(points, ends[1:]...)
		}
		for i := 1; i < len(points); i++ {
			ed.drawWorldLine(points[i-1], points[i], '·', styleWire)
		}
	}
}

func (ed *Editor) drawComponents() {
	s := ed.ux.Store()
	sel := ed.ux.Selection()
	hover := ed.ux.Hover()

	for c := range s.Components() {
		style := styleComponent
		switch {
		case c.ID == ed.ux.Adding():
			style = stylePlacing
		case sel.Contains(c.ID):
			style = styleSelected
		case c.ID == hover.Entity:
			style = styleHover
		}
		x1, y1 := ed.toCell(c.Box.Min())
		x2, y2 := ed.toCell(c.Box.Max())
		if x2-x1 < 2 || y2-y1 < 2 {
			ed.screen.SetContent(x1, y1, '■', nil, style)
			continue
		}
		ed.drawFrame(x1, y1, x2-x1+1, y2-y1+1, style)

		cx, cy := ed.toCell(c.Box.Center)
		ed.drawStringCentered(cx, cy, truncate(s.LabelText(c.TypeLabel), x2-x1-1), styleLabel)
		ed.drawStringCentered(cx, y1-1, s.LabelText(c.NameLabel), styleLabel)

		for p := range s.Ports(c.ID) {
			px, py := ed.toCell(geom.Add(c.Box.Center, p.Position))
			st := stylePort
			if p.ID == hover.Port {
				st = styleHover
			}
			ed.screen.SetContent(px, py, '●', nil, st)
		}
	}
}

func (ed *Editor) drawWaypoints() {
	sel := ed.ux.Selection()
	hover := ed.ux.Hover()
	for wp := range ed.ux.Store().Waypoints() {
		style := styleWire
		switch {
		case sel.Contains(wp.ID):
			style = styleSelected
		case wp.ID == hover.Entity:
			style = styleHover
		}
		x, y := ed.toCell(wp.Position)
		ed.screen.SetContent(x, y, '◆', nil, style)
	}
}

func (ed *Editor) drawSelectionBox() {
	box := ed.ux.Selection().Box
	if box.IsZero() {
		return
	}
	x1, y1 := ed.toCell(box.Min())
	x2, y2 := ed.toCell(box.Max())
	for x := x1; x <= x2; x++ {
		ed.screen.SetContent(x, y1, '┄', nil, styleSelectBox)
		ed.screen.SetContent(x, y2, '┄', nil, styleSelectBox)
	}
	for y := y1; y <= y2; y++ {
		ed.screen.SetContent(x1, y, '┆', nil, styleSelectBox)
		ed.screen.SetContent(x2, y, '┆', nil, styleSelectBox)
	}
}

func (ed *Editor) drawPendingWire() {
	wire := ed.ux.PendingWire()
	if !wire.Active() {
		return
	}
	s := ed.ux.Store()
	from, ok := s.PortWorldPosition(wire.From)
	if !ok {
		return
	}
	end := wire.End
	if to, ok := s.PortWorldPosition(wire.To); ok {
		end = to
	}
	ed.drawWorldLine(from, end, '*', styleWireDrag)
}

func (ed *Editor) drawWorldLine(a, b geom.Vec, r rune, style tcell.Style) {
	x1, y1 := ed.toCell(a)
	x2, y2 := ed.toCell(b)
	ed.drawLine(x1, y1, x2, y2, r, style)
}

// drawLine draws a line between two cells (Bresenham).
func (ed *Editor) drawLine(x1, y1, x2, y2 int, r rune, style tcell.Style) {
	dx := abs(x2 - x1)
	dy := -abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	e := dx + dy
	for {
		ed.screen.SetContent(x1, y1, r, nil, style)
		if x1 == x2 && y1 == y2 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x1 += sx
		}
		if e2 <= dx {
			e += dx
			y1 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func (ed *Editor) drawStatusBar(w, h int) {
	y := h - 1

	// Background
	for x := 0; x < w; x++ {
		ed.screen.SetContent(x, y, ' ', nil, styleStatus)
	}

	fileInfo := "[New]"
	if ed.filename != "" {
		fileInfo = filepath.Base(ed.filename)
	}
	ed.drawString(1, y, fileInfo, styleStatus)

	status := ed.statusString()
	ed.drawString(w/2-len(status)/2, y, status, styleStatus)

	if ed.message != "" {
		style := styleMsgInfo
		switch ed.messageType {
		case MsgError:
			style = styleMsgError
		case MsgSuccess:
			style = styleMsgSuccess
		}
		if ed.messageType != MsgInfo && flashInverted(time.Now().UnixMilli()-ed.messageFlashStart) {
			style = style.Reverse(true)
		}
		ed.drawString(w-len(ed.message)-2, y, ed.message, style)
	}

	// Help bar
	y = h - 2
	for x := 0; x < w; x++ {
		ed.screen.SetContent(x, y, ' ', nil, styleDefault)
	}
	ed.drawString(1, y, ed.helpString(), styleHelp)
}

// statusString summarises the interaction state for the status bar.
func (ed *Editor) statusString() string {
	u := ed.ux
	h := u.History()
	s := fmt.Sprintf("%s  sel:%d  hist:%d/%d  zoom:%.2f  [%s]",
		u.State(), u.Selection().Len(), h.Cursor(), h.Len(), u.Camera().Zoom(), ed.descName())
	if u.ShowFPS() {
		s += fmt.Sprintf("  fps:%.0f", u.FPS())
	}
	if u.Debug() {
		hover := u.Hover()
		s += fmt.Sprintf("  hover:%s port:%s", hover.Entity, hover.Port)
	}
	return s
}

// flashInverted reports whether a message elapsed ms into its flash is
// shown inverted: normal, inverted, normal, inverted, then steady.
func flashInverted(elapsed int64) bool {
	if elapsed < 0 || elapsed >= 500 {
		return false
	}
	phase := elapsed / 125
	return phase == 1 || phase == 3
}

func (ed *Editor) helpString() string {
	switch ed.ux.State() {
	case ux.StateAddingComponent, ux.StateAddComponent:
		return "Click:Place  N:Next kind  P/Esc:Cancel  Ctrl+Z:Undo"
	case ux.StateClickPort, ux.StateStartClickWiring, ux.StateClickWiring, ux.StateDragWiring:
		return "Click/Release on port:Connect  Elsewhere:Floating wire"
	default:
		return "Drag:Select/Move  RMB:Pan  Wheel:Zoom  WASD:Pan  P:Place  N:Kind  Ctrl+Z/Y:Undo/Redo  R:Snapshot  ?:Help  Q:Quit"
	}
}

var helpLines = []string{
	"Mouse",
	"  Left click        select (Shift adds)",
	"  Left drag         area select, or move the selection",
	"  Ctrl drag         move without grid snapping",
	"  Port click/drag   start a wire",
	"  Right drag        pan",
	"  Wheel             zoom about the pointer",
	"",
	"Keys",
	"  W A S D           pan",
	"  P / N / Esc       place component / next kind / cancel",
	"  Ctrl+Z  Ctrl+Y    undo / redo",
	"  Space  B  F3      debug / better routes / fps",
	"  R                 PNG snapshot",
	"  Q  Ctrl+C         quit",
}

func (ed *Editor) drawHelpOverlay(w, h int) {
	boxW := 0
	for _, l := range helpLines {
		boxW = max(boxW, len(l))
	}
	boxW += 4
	boxH := len(helpLines) + 2
	x := max(0, (w-boxW)/2)
	y := max(0, (h-boxH)/2)
	ed.drawBox(x, y, boxW, boxH, styleDefault)
	for i, l := range helpLines {
		ed.drawString(x+2, y+1+i, l, styleDefault)
	}
}

func (ed *Editor) drawBox(x, y, w, h int, style tcell.Style) {
	ed.drawFrame(x, y, w, h, styleBorder)

	// Fill
	for row := y + 1; row < y+h-1; row++ {
		for col := x + 1; col < x+w-1; col++ {
			ed.screen.SetContent(col, row, ' ', nil, style)
		}
	}
}

func (ed *Editor) drawFrame(x, y, w, h int, style tcell.Style) {
	// Corners
	ed.screen.SetContent(x, y, '┌', nil, style)
	ed.screen.SetContent(x+w-1, y, '┐', nil, style)
	ed.screen.SetContent(x, y+h-1, '└', nil, style)
	ed.screen.SetContent(x+w-1, y+h-1, '┘', nil, style)

	// Horizontal borders
	for i := x + 1; i < x+w-1; i++ {
		ed.screen.SetContent(i, y, '─', nil, style)
		ed.screen.SetContent(i, y+h-1, '─', nil, style)
	}

	// Vertical borders
	for i := y + 1; i < y+h-1; i++ {
		ed.screen.SetContent(x, i, '│', nil, style)
		ed.screen.SetContent(x+w-1, i, '│', nil, style)
	}
}

func (ed *Editor) drawString(x, y int, s string, style tcell.Style) {
	for i, r := range []rune(s) {
		ed.screen.SetContent(x+i, y, r, nil, style)
	}
}

func (ed *Editor) drawStringCentered(cx, y int, s string, style tcell.Style) {
	ed.drawString(cx-len([]rune(s))/2, y, s, style)
}

func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
