// Command schemedit is a terminal schematic editor. Each terminal cell is a
// block of screen units; mouse and keyboard events are sampled into frames
// that drive the interaction core.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/flanksource/commons/logger"
	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/schematic-toolkit/pkg/circuit"
	"github.com/ha1tch/schematic-toolkit/pkg/geom"
	"github.com/ha1tch/schematic-toolkit/pkg/render"
	"github.com/ha1tch/schematic-toolkit/pkg/script"
	"github.com/ha1tch/schematic-toolkit/pkg/settings"
	"github.com/ha1tch/schematic-toolkit/pkg/ux"
)

const (
	cellWidth     = 5  // screen units per column
	cellHeight    = 10 // screen units per row
	frameInterval = 33 * time.Millisecond
)

// MessageType for status messages
type MessageType int

const (
	MsgInfo    MessageType = iota // Informative, no flash
	MsgError                      // Errors, flash
	MsgSuccess                    // State changes, flash
)

// Editor holds the terminal session.
type Editor struct {
	screen   tcell.Screen
	ux       *ux.UX
	in       *sampler
	config   settings.Config
	filename string
	desc     circuit.DescID
	log      logger.Logger

	message           string
	messageType       MessageType
	messageFlashStart int64
	showHelp          bool
	snapshots         int
}

func main() {
	logger.Configure(logger.Flags{Level: "error", LogToStderr: true})

	cfg := settings.LoadConfig()
	var filename string
	if len(os.Args) > 1 {
		filename = os.Args[1]
	}
	ed, err := newEditor(cfg, filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", filename, err)
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing screen: %v\n", err)
		os.Exit(1)
	}
	screen.EnableMouse()
	screen.Clear()
	ed.screen = screen

	ed.run()

	screen.Fini()
	if err := settings.SaveConfig(ed.settings()); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving settings: %v\n", err)
	}
}

// newEditor builds the editor over an empty circuit, or over the circuit a
// replay script seeds when filename is set.
func newEditor(cfg settings.Config, filename string) (*Editor, error) {
	ed := &Editor{
		config:   cfg,
		filename: filename,
		in:       newSampler(geom.V(cellWidth, cellHeight)),
		log:      logger.GetLogger("schemedit"),
	}

	if filename != "" {
		s, err := script.Load(filename)
		if err != nil {
			return nil, err
		}
		sess, err := s.Build(cfg.UX)
		if err != nil {
			return nil, err
		}
		ed.ux = sess.UX
		ed.config.LastScript = filename
		ed.config.LastDir = filepath.Dir(filename)
	} else {
		store := circuit.New(circuit.DefaultDescs, nil)
		ed.ux = ux.New(store, nil, cfg.UX)
		ed.ux.Camera().SetZoomExp(geom.Vec{}, cfg.InitialZoomExp)
	}

	if id, ok := circuit.FindDesc(ed.ux.Store().Descs(), cfg.Descriptor); ok {
		ed.desc = id
	}
	return ed, nil
}

// settings returns the configuration to persist on exit.
func (ed *Editor) settings() settings.Config {
	cfg := ed.config
	cfg.InitialZoomExp = ed.ux.Camera().ZoomExp()
	cfg.Descriptor = ed.descName()
	return cfg
}

func (ed *Editor) descName() string {
	if d, ok := ed.ux.Store().Desc(ed.desc); ok {
		return d.Name
	}
	return ""
}

func (ed *Editor) run() {
	done := make(chan struct{})
	defer close(done)

	// Frames are driven by interrupts so input sampling stays on this goroutine.
	go func() {
		ticker := time.NewTicker(frameInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				ed.screen.PostEvent(tcell.NewEventInterrupt(nil))
			}
		}
	}()

	for {
		ev := ed.screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			return
		case *tcell.EventResize:
			ed.screen.Sync()
		case *tcell.EventKey:
			if ed.handleKey(ev) {
				return
			}
		case *tcell.EventMouse:
			ed.handleMouse(ev)
		case *tcell.EventInterrupt:
			ed.frame(ev.When())
		}
	}
}

// frame advances the interaction core by one sampled frame and redraws.
func (ed *Editor) frame(now time.Time) {
	before := ed.ux.History().Cursor()
	ed.ux.Update(ed.in.frame(now))
	if after := ed.ux.History().Cursor(); after != before {
		ed.reportHistory(before, after)
	}
	ed.draw()
	ed.screen.Show()
}

func (ed *Editor) reportHistory(before, after int) {
	h := ed.ux.History()
	switch {
	case after < before:
		ed.showMessage(fmt.Sprintf("Undo (%d/%d)", after, h.Len()), MsgSuccess)
	case after > before && after <= h.Len():
		ed.showMessage(h.Commands()[after-1].Verb.String(), MsgInfo)
	}
}

// handleKey handles the editor's own keys and passes every key on to the
// sampler. It returns true when the editor should exit.
func (ed *Editor) handleKey(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyCtrlC {
		return true
	}
	ed.in.keyEvent(ev)

	if ev.Key() == tcell.KeyF1 {
		ed.showHelp = !ed.showHelp
		return false
	}
	if ev.Key() != tcell.KeyRune {
		return false
	}
	switch ev.Rune() {
	case 'q':
		return true
	case '?':
		ed.showHelp = !ed.showHelp
	case 'p':
		ed.startPlacing()
	case 'n':
		ed.nextDescriptor()
	case 'r':
		ed.snapshot()
	}
	return false
}

func (ed *Editor) handleMouse(ev *tcell.EventMouse) {
	ed.in.mouseEvent(ev)
}

func (ed *Editor) placing() bool {
	s := ed.ux.State()
	return s == ux.StateAddingComponent || s == ux.StateAddComponent
}

func (ed *Editor) startPlacing() {
	if ed.placing() {
		ed.ux.StopAddingComponent()
		ed.showMessage("Placement cancelled", MsgInfo)
		return
	}
	ed.ux.StartAddingComponent(ed.desc)
	ed.showMessage("Placing "+ed.descName(), MsgInfo)
}

func (ed *Editor) nextDescriptor() {
	descs := ed.ux.Store().Descs()
	if len(descs) == 0 {
		return
	}
	ed.desc = circuit.DescID((int(ed.desc) + 1) % len(descs))
	if ed.placing() {
		ed.ux.ChangeAddingComponent(ed.desc)
	}
	ed.showMessage("Component: "+ed.descName(), MsgInfo)
}

// snapshot writes the current view as a PNG next to the last used file.
func (ed *Editor) snapshot() {
	w, h := 800, 600
	if ed.screen != nil {
		cols, rows := ed.screen.Size()
		w, h = cols*cellWidth, rows*cellHeight
	}
	ed.snapshots++
	path := filepath.Join(ed.config.LastDir, fmt.Sprintf("schemedit-%d.png", ed.snapshots))

	f, err := os.Create(path)
	if err != nil {
		ed.showMessage(fmt.Sprintf("Error: %v", err), MsgError)
		return
	}
	defer f.Close()

	opts := render.DefaultOptions()
	opts.Width, opts.Height = w, h
	if err := render.RenderPNG(ed.ux, f, opts); err != nil {
		ed.log.Errorf("snapshot %s: %v", path, err)
		ed.showMessage(fmt.Sprintf("Error: %v", err), MsgError)
		return
	}
	ed.showMessage("Saved "+filepath.Base(path), MsgSuccess)
}

func (ed *Editor) showMessage(msg string, msgType MessageType) {
	ed.message = msg
	ed.messageType = msgType
	ed.messageFlashStart = time.Now().UnixMilli()
}
