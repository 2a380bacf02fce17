// Command flowedit is a TUI editor for flow diagrams.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/ha1tch/flow-toolkit/pkg/flow"
	"github.com/ha1tch/flow-toolkit/pkg/flowfile"
	"github.com/ha1tch/flow-toolkit/pkg/geom"
	"github.com/ha1tch/flow-toolkit/pkg/viewport"
)

// Editor holds all editor state
type Editor struct {
	screen      tcell.Screen
	diagram     *flow.Diagram
	filename    string
	modified    bool
	mode        Mode
	message     string
	messageType MessageType
	config      Config
	configPath  string
	log         *slog.Logger

	vp    *viewport.Viewport
	mouse *mouseTracker

	// Connection being rerouted, if any
	rerouting string

	// Text input
	inputPrompt string
	inputBuffer string
	inputDone   func(string)

	quitArmed bool

	// Unix milliseconds when the current message was shown
	messageFlashStart atomic.Int64
}

// Mode represents the current editor mode
type Mode int

const (
	ModeCanvas Mode = iota
	ModeInput
	ModeHelp
)

// MessageType for status messages
type MessageType int

const (
	MsgInfo    MessageType = iota // Informative, no flash
	MsgError                      // Errors, flash
	MsgSuccess                    // State changes, flash
	MsgWarning                    // Warnings, flash
)

const flashDuration = 500 // ms

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var logPath, configPath string

	cmd := &cobra.Command{
		Use:           "flowedit [file]",
		Short:         "Edit a flow diagram in the terminal",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, closeLog, err := openLog(logPath)
			if err != nil {
				return err
			}
			defer closeLog()

			if configPath == "" {
				configPath = ConfigPath()
			}
			ed := NewEditor(LoadConfig(configPath), log)
			ed.configPath = configPath
			if len(args) == 1 {
				if err := ed.loadFile(args[0]); err != nil {
					return err
				}
			}

			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("creating screen: %w", err)
			}
			if err := screen.Init(); err != nil {
				return fmt.Errorf("initializing screen: %w", err)
			}
			defer screen.Fini()
			screen.EnableMouse()
			screen.Clear()
			ed.attach(screen)

			if ed.filename != "" {
				stop, err := watchFile(ed.filename, screen.PostEvent, log)
				if err != nil {
					log.Warn("not watching file", "path", ed.filename, "err", err)
				} else {
					defer stop()
				}
			}

			ed.run()
			return nil
		},
	}
	cmd.Flags().StringVar(&logPath, "log", "", "append debug logs to this file")
	cmd.Flags().StringVar(&configPath, "config", "", "config file (default: ~/.flowedit.toml)")
	return cmd
}

func openLog(path string) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log: %w", err)
	}
	log := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return log, func() { f.Close() }, nil
}

// NewEditor returns an editor over an empty diagram. It has no screen until
// attach is called.
func NewEditor(cfg Config, log *slog.Logger) *Editor {
	ed := &Editor{
		diagram: flow.New("untitled"),
		config:  cfg,
		log:     log,
		mouse:   newMouseTracker(cfg.CellWidth, cfg.CellHeight),
	}
	opts := cfg.viewportOptions()
	opts.Logger = log
	ed.vp = viewport.New(opts, ed.handlers())
	ed.vp.Subscribe(ed.trackReroute)
	ed.vp.Sync(ed.diagram)
	return ed
}

// attach binds the editor to a screen and mounts the viewport on the canvas
// area above the help and status bars.
func (ed *Editor) attach(screen tcell.Screen) {
	ed.screen = screen
	ed.vp.Mount(viewport.MeasureFunc(func() (float64, float64) {
		w, h := ed.canvasSize()
		return float64(w) * ed.config.CellWidth, float64(h) * ed.config.CellHeight
	}))
}

// canvasSize returns the canvas area in cells.
func (ed *Editor) canvasSize() (int, int) {
	w, h := ed.screen.Size()
	h -= 2
	if h < 0 {
		h = 0
	}
	return w, h
}

func (ed *Editor) run() {
	// Use a goroutine to send periodic refresh events during message flash
	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for range ticker.C {
			start := ed.messageFlashStart.Load()
			if start == 0 {
				continue
			}
			elapsed := time.Now().UnixMilli() - start
			if elapsed >= 0 && elapsed < flashDuration+200 {
				ed.screen.PostEvent(tcell.NewEventInterrupt(nil))
			}
		}
	}()

	for {
		ed.draw()
		ed.screen.Show()

		ev := ed.screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			return
		case *tcell.EventResize:
			ed.screen.Sync()
			ed.vp.Resize()
		case *tcell.EventKey:
			if ed.handleKey(ev) {
				return
			}
		case *tcell.EventMouse:
			ed.handleMouse(ev)
		case *tcell.EventInterrupt:
			if r, ok := ev.Data().(reloadEvent); ok {
				ed.reload(r.path)
			}
		}
	}
}

func (ed *Editor) handleMouse(ev *tcell.EventMouse) {
	if ed.mode != ModeCanvas {
		return
	}
	_, canvasH := ed.canvasSize()
	_, y := ev.Position()
	for _, e := range ed.mouse.translate(ev, time.Now()) {
		if y >= canvasH {
			// Presses on the bars are not canvas gestures.
			if e.Kind == viewport.EventDown {
				continue
			}
			if e.Kind == viewport.EventUp {
				e.Target = viewport.Target{Kind: viewport.TargetOutside}
			}
		}
		consumed := ed.vp.Handle(e)
		if e.Kind == viewport.EventContextMenu && !consumed {
			ed.contextMenu(e.Pos)
		}
	}
}

// contextMenu edits the label of the block under the pointer.
func (ed *Editor) contextMenu(pos geom.Point) {
	world := viewport.ToWorld(pos, ed.vp.State())
	blocks := ed.diagram.Blocks()
	for i := len(blocks) - 1; i >= 0; i-- {
		if blocks[i].Bounds().Contains(world) {
			ed.onElementEdit(blocks[i].ID)
			return
		}
	}
}

func (ed *Editor) handleKey(ev *tcell.EventKey) bool {
	switch ed.mode {
	case ModeInput:
		ed.handleInputKey(ev)
		return false
	case ModeHelp:
		ed.mode = ModeCanvas
		return false
	}

	// tcell maps Cmd to Ctrl on macOS in most terminals, but we also
	// check for Rune + Meta modifier for terminals that report it differently
	mod := ev.Modifiers()
	isCtrlOrCmd := func(key tcell.Key, r rune) bool {
		if ev.Key() == key {
			return true
		}
		return mod&(tcell.ModMeta|tcell.ModAlt) != 0 && ev.Rune() == r
	}

	quitArmed := ed.quitArmed
	ed.quitArmed = false

	switch {
	case isCtrlOrCmd(tcell.KeyCtrlS, 's'):
		ed.save()
		return false
	case isCtrlOrCmd(tcell.KeyCtrlC, 'c'):
		ed.copySelection()
		return false
	case isCtrlOrCmd(tcell.KeyCtrlV, 'v'):
		ed.paste()
		return false
	case isCtrlOrCmd(tcell.KeyCtrlA, 'a'):
		ed.vp.SelectAll()
		return false
	case isCtrlOrCmd(tcell.KeyCtrlQ, 'q'):
		return true
	}

	step := ed.vp.Options().WheelStep
	switch ev.Key() {
	case tcell.KeyEscape:
		if !ed.vp.Cancel() {
			ed.vp.ClearSelection()
		}
		ed.mouse.reset()
	case tcell.KeyDelete, tcell.KeyBackspace, tcell.KeyBackspace2:
		if n := ed.vp.DeleteSelection(); n > 0 {
			ed.showMessage(fmt.Sprintf("Deleted %d block(s)", n), MsgSuccess)
		}
	case tcell.KeyUp:
		ed.vp.ScrollBy(0, -step)
	case tcell.KeyDown:
		ed.vp.ScrollBy(0, step)
	case tcell.KeyLeft:
		ed.vp.ScrollBy(-step, 0)
	case tcell.KeyRight:
		ed.vp.ScrollBy(step, 0)
	case tcell.KeyHome:
		ed.vp.ScrollTo(0, 0)
	case tcell.KeyEnter:
		if sel := ed.vp.Selection(); len(sel) == 1 {
			ed.onElementEdit(sel[0])
		}
	case tcell.KeyRune:
		switch ev.Rune() {
		case '+', '=':
			ed.vp.ZoomIn()
		case '-', '_':
			ed.vp.ZoomOut()
		case '0':
			ed.vp.SetZoom(100)
		case 'n':
			ed.addBlockAtCenter()
		case 'r':
			if ed.filename != "" {
				ed.modified = false
				ed.reload(ed.filename)
			}
		case '?':
			ed.mode = ModeHelp
		case 'q':
			if ed.modified && !quitArmed {
				ed.quitArmed = true
				ed.showMessage("Unsaved changes, press q again to quit", MsgWarning)
				return false
			}
			return true
		}
	}
	return false
}

func (ed *Editor) handleInputKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		ed.mode = ModeCanvas
		ed.inputDone = nil
	case tcell.KeyEnter:
		done := ed.inputDone
		ed.mode = ModeCanvas
		ed.inputDone = nil
		if done != nil {
			done(ed.inputBuffer)
		}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if r := []rune(ed.inputBuffer); len(r) > 0 {
			ed.inputBuffer = string(r[:len(r)-1])
		}
	case tcell.KeyRune:
		ed.inputBuffer += string(ev.Rune())
	}
}

// prompt opens the input box; done receives the text on Enter.
func (ed *Editor) prompt(label, initial string, done func(string)) {
	ed.mode = ModeInput
	ed.inputPrompt = label
	ed.inputBuffer = initial
	ed.inputDone = done
}

func (ed *Editor) showMessage(msg string, msgType MessageType) {
	ed.message = msg
	ed.messageType = msgType
	ed.messageFlashStart.Store(time.Now().UnixMilli())
	// Trigger immediate refresh for flash animation
	if ed.screen != nil {
		ed.screen.PostEvent(tcell.NewEventInterrupt(nil))
	}
}

// File operations

func (ed *Editor) loadFile(path string) error {
	d, err := flowfile.ReadFile(path)
	if err != nil {
		return err
	}
	ed.diagram = d
	ed.filename = path
	ed.modified = false
	ed.vp.Sync(d)
	return nil
}

// reload rereads the file after it changed on disk. Local edits win.
func (ed *Editor) reload(path string) {
	if ed.modified {
		ed.showMessage("File changed on disk, keeping unsaved edits", MsgWarning)
		return
	}
	d, err := flowfile.ReadFile(path)
	if err != nil {
		ed.showMessage("Reload failed: "+err.Error(), MsgError)
		return
	}
	if sameDiagram(ed.diagram, d, path) {
		return
	}
	ed.diagram = d
	ed.vp.Sync(d)
	ed.showMessage("Reloaded: "+path, MsgInfo)
}

// sameDiagram reports whether a and b serialize identically in path's format.
func sameDiagram(a, b *flow.Diagram, path string) bool {
	format, err := flowfile.FormatFromPath(path)
	if err != nil {
		return false
	}
	da, err := flowfile.Marshal(a, format)
	if err != nil {
		return false
	}
	db, err := flowfile.Marshal(b, format)
	if err != nil {
		return false
	}
	return string(da) == string(db)
}

func (ed *Editor) save() {
	if ed.filename == "" {
		ed.prompt("Save as: ", "", func(path string) {
			if path == "" {
				return
			}
			ed.filename = path
			ed.save()
		})
		return
	}
	if err := flowfile.WriteFile(ed.filename, ed.diagram); err != nil {
		ed.showMessage("Error: "+err.Error(), MsgError)
		return
	}
	ed.modified = false
	ed.showMessage("Saved: "+ed.filename, MsgSuccess)
	ed.rememberDir(ed.filename)
}
