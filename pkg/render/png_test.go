package render

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/schematic-toolkit/pkg/circuit"
	"github.com/ha1tch/schematic-toolkit/pkg/geom"
	"github.com/ha1tch/schematic-toolkit/pkg/ux"
)

func newSession(t *testing.T) (*ux.UX, circuit.ID) {
	t.Helper()
	s := circuit.New(circuit.DefaultDescs, nil)
	id := s.AddComponent(0, geom.V(100, 100))
	return ux.New(s, nil, ux.DefaultConfig()), id
}

func isWhite(r, g, b, _ uint32) bool {
	return r == 0xffff && g == 0xffff && b == 0xffff
}

func TestRenderDrawsComponent(t *testing.T) {
	u, _ := newSession(t)
	opts := DefaultOptions()
	opts.Width, opts.Height = 200, 200
	opts.Grid = false

	img := Render(u, opts)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())

	// The left border of the AND gate sits at x = 72.5.
	assert.False(t, isWhite(img.At(73, 100).RGBA()))
	assert.True(t, isWhite(img.At(10, 190).RGBA()))
}

func TestRenderFollowsCamera(t *testing.T) {
	u, _ := newSession(t)
	u.Camera().PanWorld(geom.V(-60, 0))
	opts := DefaultOptions()
	opts.Width, opts.Height = 200, 200
	opts.Grid = false

	img := Render(u, opts)
	assert.True(t, isWhite(img.At(190, 40).RGBA()))
	assert.False(t, isWhite(img.At(13, 100).RGBA()))
}

func TestOverlayLines(t *testing.T) {
	u, _ := newSession(t)

	assert.Empty(t, overlayLines(u, DefaultOptions()))

	opts := DefaultOptions()
	opts.Debug = true
	opts.Title = "demo"
	lines := overlayLines(u, opts)
	require.NotEmpty(t, lines)
	assert.Equal(t, "demo", lines[0])
	assert.Equal(t, "state: Up", lines[1])
	assert.Contains(t, lines, "selected: 0  history: 0/0")

	var keys ux.KeySet
	keys.Set(ux.KeyF3)
	u.Update(ux.Input{KeysPressed: keys, FrameDuration: 20 * time.Millisecond})
	lines = overlayLines(u, DefaultOptions())
	assert.Equal(t, []string{"fps: 50"}, lines)
}

func TestRenderPNGEncodes(t *testing.T) {
	u, _ := newSession(t)
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Width, opts.Height = 64, 48
	opts.Debug = true
	require.NoError(t, RenderPNG(u, &buf, opts))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 48, img.Bounds().Dy())
}
