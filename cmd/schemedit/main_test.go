package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/schematic-toolkit/pkg/settings"
	"github.com/ha1tch/schematic-toolkit/pkg/ux"
)

// testEditor returns an editor on a simulated 120x40 terminal.
func testEditor(t *testing.T, filename string) (*Editor, tcell.SimulationScreen) {
	t.Helper()
	cfg := settings.DefaultConfig()
	cfg.LastDir = t.TempDir()
	ed, err := newEditor(cfg, filename)
	require.NoError(t, err)

	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(120, 40)
	t.Cleanup(screen.Fini)
	ed.screen = screen
	return ed, screen
}

// driver feeds events and frames with a synthetic clock.
type driver struct {
	ed  *Editor
	now time.Time
}

func (d *driver) frame() {
	d.now = d.now.Add(frameInterval)
	d.ed.frame(d.now)
}

func (d *driver) mouse(x, y int, b tcell.ButtonMask) {
	d.ed.handleMouse(tcell.NewEventMouse(x, y, b, tcell.ModNone))
	d.frame()
}

func (d *driver) key(k tcell.Key, r rune, mod tcell.ModMask) bool {
	quit := d.ed.handleKey(tcell.NewEventKey(k, r, mod))
	d.frame()
	return quit
}

func screenText(s tcell.SimulationScreen) string {
	cells, w, _ := s.GetContents()
	var b strings.Builder
	for i, c := range cells {
		if len(c.Runes) > 0 {
			b.WriteRune(c.Runes[0])
		} else {
			b.WriteRune(' ')
		}
		if (i+1)%w == 0 {
			b.WriteRune('\n')
		}
	}
	return b.String()
}

func TestPlaceComponent(t *testing.T) {
	ed, screen := testEditor(t, "")
	d := &driver{ed: ed, now: time.Now()}

	d.key(tcell.KeyRune, 'p', tcell.ModNone)
	assert.Equal(t, ux.StateAddingComponent, ed.ux.State())

	d.mouse(40, 20, tcell.ButtonNone)
	d.mouse(40, 20, tcell.ButtonPrimary)
	d.mouse(40, 20, tcell.ButtonNone)

	assert.Equal(t, 1, ed.ux.History().Len())
	assert.Equal(t, 2, ed.ux.Store().ComponentCount(), "placed plus the next floating one")
	assert.Contains(t, screenText(screen), "┌")

	d.key(tcell.KeyEscape, 0, tcell.ModNone)
	assert.Equal(t, ux.StateUp, ed.ux.State())
	assert.Equal(t, 1, ed.ux.Store().ComponentCount())

	d.key(tcell.KeyCtrlZ, 0, tcell.ModCtrl)
	assert.Equal(t, 0, ed.ux.History().Cursor())
	assert.Equal(t, 0, ed.ux.Store().ComponentCount())
	assert.Equal(t, "Undo (0/1)", ed.message)
}

func TestNextDescriptorWhilePlacing(t *testing.T) {
	ed, _ := testEditor(t, "")
	d := &driver{ed: ed, now: time.Now()}
	first := ed.descName()

	d.key(tcell.KeyRune, 'p', tcell.ModNone)
	d.key(tcell.KeyRune, 'n', tcell.ModNone)
	assert.NotEqual(t, first, ed.descName())

	c, ok := ed.ux.Store().Component(ed.ux.Adding())
	require.True(t, ok)
	assert.Equal(t, ed.desc, c.Desc)
	assert.Equal(t, "Component: "+ed.descName(), ed.message)
}

func TestAreaSelectionDrawsBox(t *testing.T) {
	ed, screen := testEditor(t, "")
	d := &driver{ed: ed, now: time.Now()}

	d.mouse(10, 5, tcell.ButtonPrimary)
	d.mouse(30, 15, tcell.ButtonPrimary)
	assert.Equal(t, ux.StateSelectArea, ed.ux.State())
	assert.Contains(t, screenText(screen), "┄")

	d.mouse(30, 15, tcell.ButtonNone)
	assert.Equal(t, ux.StateUp, ed.ux.State())
}

func TestQuitKeys(t *testing.T) {
	ed, _ := testEditor(t, "")
	assert.True(t, ed.handleKey(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)))
	assert.True(t, ed.handleKey(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)))
	assert.False(t, ed.handleKey(tcell.NewEventKey(tcell.KeyRune, 'w', tcell.ModNone)))
}

func TestHelpOverlay(t *testing.T) {
	ed, screen := testEditor(t, "")
	d := &driver{ed: ed, now: time.Now()}

	d.key(tcell.KeyRune, '?', tcell.ModNone)
	assert.True(t, ed.showHelp)
	assert.Contains(t, screenText(screen), "PNG snapshot")
}

func TestStatusBar(t *testing.T) {
	ed, screen := testEditor(t, "")
	d := &driver{ed: ed, now: time.Now()}
	d.frame()

	text := screenText(screen)
	assert.Contains(t, text, "[New]")
	assert.Contains(t, text, "Up  sel:0  hist:0/0")
}

func TestSnapshotWritesPNG(t *testing.T) {
	ed, _ := testEditor(t, "")
	ed.snapshot()

	assert.Equal(t, MsgSuccess, ed.messageType, ed.message)
	info, err := os.Stat(filepath.Join(ed.config.LastDir, "schemedit-1.png"))
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestOpenScript(t *testing.T) {
	path := filepath.Join("..", "..", "pkg", "script", "testdata", "area_select.yaml")
	ed, _ := testEditor(t, path)

	assert.Equal(t, path, ed.settings().LastScript)
	assert.Positive(t, ed.ux.Store().ComponentCount())
}

func TestOpenMissingScript(t *testing.T) {
	_, err := newEditor(settings.DefaultConfig(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSettingsRoundTrip(t *testing.T) {
	ed, _ := testEditor(t, "")
	ed.ux.Camera().SetZoomExp(ed.in.cellToScreen(0, 0), 3)
	ed.nextDescriptor()

	cfg := ed.settings()
	assert.Equal(t, 3.0, cfg.InitialZoomExp)
	assert.Equal(t, ed.descName(), cfg.Descriptor)
}
