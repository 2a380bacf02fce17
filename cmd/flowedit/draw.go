package main

import (
	"fmt"
	"math"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/flow-toolkit/pkg/geom"
	"github.com/ha1tch/flow-toolkit/pkg/viewport"
)

// Styles
var (
	styleDefault    = tcell.StyleDefault
	styleBlock      = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleBlockSel   = tcell.StyleDefault.Background(tcell.ColorGreen).Foreground(tcell.ColorBlack)
	stylePin        = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	stylePinFree    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleConn       = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	styleConnDrag   = tcell.StyleDefault.Foreground(tcell.NewRGBColor(200, 162, 200)) // Lilac
	styleMarquee    = tcell.StyleDefault.Foreground(tcell.ColorAqua)
	styleStatus     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleMsgInfo    = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleMsgError   = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorNavy).Bold(true)
	styleMsgSuccess = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleMsgWarning = tcell.StyleDefault.Foreground(tcell.ColorYellow).Background(tcell.ColorNavy)
	styleHelp       = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleInput      = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
	styleBorder     = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

func (ed *Editor) draw() {
	ed.screen.Clear()
	w, h := ed.screen.Size()

	ed.drawCanvas()

	switch ed.mode {
	case ModeInput:
		ed.drawInputBox(w, h)
	case ModeHelp:
		ed.drawHelp(w, h)
	}

	ed.drawStatusBar(w, h)
}

// toCell maps a world point to the terminal cell that shows it.
func (ed *Editor) toCell(p geom.Point) (int, int) {
	return ed.mouse.cell(viewport.ToScreen(p, ed.vp.State()))
}

// setCell draws r if (x, y) lies on the canvas.
func (ed *Editor) setCell(x, y int, r rune, style tcell.Style) {
	w, h := ed.canvasSize()
	if x < 0 || y < 0 || x >= w || y >= h {
		return
	}
	ed.screen.SetContent(x, y, r, nil, style)
}

func (ed *Editor) drawCanvas() {
	f := ed.vp.Frame()
	selected := make(map[string]bool, len(f.Selection))
	for _, id := range f.Selection {
		selected[id] = true
	}

	for _, c := range ed.diagram.Connections() {
		from, ok1 := ed.diagram.PinCenter(c.From)
		to, ok2 := ed.diagram.PinCenter(c.To)
		if ok1 && ok2 {
			ed.drawCurve(from, to, '·', styleConn)
		}
		if h, ok := ed.vp.ConnectionHandle(c.ID); ok {
			x, y := ed.toCell(h)
			ed.setCell(x, y, '◆', styleConn)
		}
	}

	for _, b := range ed.diagram.Blocks() {
		style := styleBlock
		if selected[b.ID] {
			style = styleBlockSel
		}
		x0, y0 := ed.toCell(b.Bounds().Min())
		x1, y1 := ed.toCell(b.Bounds().Max())
		if x1 <= x0 {
			x1 = x0 + 1
		}
		if y1 <= y0 {
			y1 = y0 + 1
		}
		ed.drawBlock(x0, y0, x1-x0+1, y1-y0+1, b.Label, style)
	}

	for _, p := range ed.diagram.Pins() {
		c, ok := ed.diagram.PinCenter(p.ID)
		if !ok {
			continue
		}
		x, y := ed.toCell(c)
		style := stylePinFree
		r := '○'
		if p.Connected {
			style = stylePin
			r = '●'
		}
		ed.setCell(x, y, r, style)
	}

	if f.Transient != nil {
		ed.drawLine(f.Transient.From, f.Transient.To, '•', styleConnDrag)
	}
	if f.Marquee != nil {
		x0, y0 := ed.toCell(f.Marquee.Min())
		x1, y1 := ed.toCell(f.Marquee.Max())
		ed.drawFrame(x0, y0, x1, y1, styleMarquee)
	}
}

// drawCurve plots a connection curve with enough samples to leave no gaps.
func (ed *Editor) drawCurve(from, to geom.Point, r rune, style tcell.Style) {
	curve := geom.ConnectionCurve(from, to)
	steps := ed.samples(from, to) * 2
	for i := 0; i <= steps; i++ {
		x, y := ed.toCell(geom.EvaluateCurve(curve, float64(i)/float64(steps)))
		ed.setCell(x, y, r, style)
	}
}

func (ed *Editor) drawLine(from, to geom.Point, r rune, style tcell.Style) {
	steps := ed.samples(from, to)
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x, y := ed.toCell(from.Add(to.Sub(from).Mul(t)))
		ed.setCell(x, y, r, style)
	}
}

// samples returns the number of cells between two world points.
func (ed *Editor) samples(from, to geom.Point) int {
	x0, y0 := ed.toCell(from)
	x1, y1 := ed.toCell(to)
	n := int(math.Max(math.Abs(float64(x1-x0)), math.Abs(float64(y1-y0))))
	if n < 1 {
		n = 1
	}
	return n
}

func (ed *Editor) drawBlock(x, y, w, h int, label string, style tcell.Style) {
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			r := ' '
			switch {
			case row == y && col == x:
				r = '┌'
			case row == y && col == x+w-1:
				r = '┐'
			case row == y+h-1 && col == x:
				r = '└'
			case row == y+h-1 && col == x+w-1:
				r = '┘'
			case row == y || row == y+h-1:
				r = '─'
			case col == x || col == x+w-1:
				r = '│'
			}
			ed.setCell(col, row, r, style)
		}
	}
	if w <= 2 {
		return
	}
	label = truncate(label, w-2)
	lx := x + (w-len([]rune(label)))/2
	ly := y + h/2
	for i, r := range []rune(label) {
		ed.setCell(lx+i, ly, r, style)
	}
}

// drawFrame outlines the marquee without filling it.
func (ed *Editor) drawFrame(x0, y0, x1, y1 int, style tcell.Style) {
	for x := x0; x <= x1; x++ {
		ed.setCell(x, y0, '┄', style)
		ed.setCell(x, y1, '┄', style)
	}
	for y := y0; y <= y1; y++ {
		ed.setCell(x0, y, '┆', style)
		ed.setCell(x1, y, '┆', style)
	}
}

func (ed *Editor) drawStatusBar(w, h int) {
	y := h - 1

	// Background
	for x := 0; x < w; x++ {
		ed.screen.SetContent(x, y, ' ', nil, styleStatus)
	}

	// File info
	fileInfo := "[New]"
	if ed.filename != "" {
		if len(ed.filename) > 30 {
			fileInfo = filepath.Base(ed.filename)
		} else {
			fileInfo = ed.filename
		}
	}
	if ed.modified {
		fileInfo += " *"
	}
	ed.drawString(1, y, fileInfo, styleStatus)

	modeStr := ed.modeString()
	ed.drawString(w/2-len(modeStr)/2, y, modeStr, styleStatus)

	if ed.message != "" {
		style := styleMsgInfo
		switch ed.messageType {
		case MsgError:
			style = styleMsgError
		case MsgSuccess:
			style = styleMsgSuccess
		case MsgWarning:
			style = styleMsgWarning
		}
		elapsed := time.Now().UnixMilli() - ed.messageFlashStart.Load()
		if messageInverted(ed.messageType, elapsed) {
			style = style.Reverse(true)
		}
		ed.drawString(w-len([]rune(ed.message))-2, y, ed.message, style)
	}

	// Help bar
	y = h - 2
	for x := 0; x < w; x++ {
		ed.screen.SetContent(x, y, ' ', nil, styleDefault)
	}
	ed.drawString(1, y, ed.helpString(), styleHelp)
}

// messageInverted reports whether a message shown elapsed ms ago is in an
// inverted phase of its flash. Info messages never flash.
func messageInverted(t MessageType, elapsed int64) bool {
	if t == MsgInfo || elapsed < 0 || elapsed >= flashDuration {
		return false
	}
	phase := elapsed / (flashDuration / 4)
	return phase == 1 || phase == 3
}

func (ed *Editor) drawInputBox(w, h int) {
	boxW := 50
	boxH := 3
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	ed.drawBox(boxX, boxY, boxW, boxH, styleInput)
	ed.drawString(boxX+2, boxY+1, ed.inputPrompt, styleInput)
	ed.drawString(boxX+2+len(ed.inputPrompt), boxY+1, truncate(ed.inputBuffer, boxW-6-len(ed.inputPrompt))+"_", styleInput)
}

var helpLines = []string{
	"Mouse",
	"  left drag block      move block (or selection)",
	"  left drag canvas     marquee select",
	"  left drag pin        connect / reroute",
	"  middle drag          pan",
	"  wheel                scroll (Shift: sideways, Ctrl: zoom)",
	"  double click block   edit label",
	"",
	"Keys",
	"  + - 0                zoom in / out / reset",
	"  arrows, Home         scroll",
	"  n                    new block",
	"  Enter                edit selected label",
	"  Del                  delete selection",
	"  Ctrl+A Ctrl+C Ctrl+V select all / copy / paste",
	"  Ctrl+S               save",
	"  r                    reload from disk",
	"  Esc                  cancel gesture or clear selection",
	"  q                    quit",
}

func (ed *Editor) drawHelp(w, h int) {
	boxW := 60
	boxH := len(helpLines) + 2
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2
	if boxX < 0 {
		boxX = 0
	}
	if boxY < 0 {
		boxY = 0
	}
	ed.drawBox(boxX, boxY, boxW, boxH, styleDefault)
	for i, line := range helpLines {
		ed.drawString(boxX+2, boxY+1+i, truncate(line, boxW-4), styleDefault)
	}
}

func (ed *Editor) drawBox(x, y, w, h int, style tcell.Style) {
	// Corners
	ed.screen.SetContent(x, y, '┌', nil, styleBorder)
	ed.screen.SetContent(x+w-1, y, '┐', nil, styleBorder)
	ed.screen.SetContent(x, y+h-1, '└', nil, styleBorder)
	ed.screen.SetContent(x+w-1, y+h-1, '┘', nil, styleBorder)

	for i := x + 1; i < x+w-1; i++ {
		ed.screen.SetContent(i, y, '─', nil, styleBorder)
		ed.screen.SetContent(i, y+h-1, '─', nil, styleBorder)
	}
	for i := y + 1; i < y+h-1; i++ {
		ed.screen.SetContent(x, i, '│', nil, styleBorder)
		ed.screen.SetContent(x+w-1, i, '│', nil, styleBorder)
	}

	// Fill
	for row := y + 1; row < y+h-1; row++ {
		for col := x + 1; col < x+w-1; col++ {
			ed.screen.SetContent(col, row, ' ', nil, style)
		}
	}
}

func (ed *Editor) drawString(x, y int, s string, style tcell.Style) {
	for i, r := range []rune(s) {
		ed.screen.SetContent(x+i, y, r, nil, style)
	}
}

func (ed *Editor) modeString() string {
	switch ed.mode {
	case ModeInput:
		return "INPUT"
	case ModeHelp:
		return "HELP"
	}
	st := ed.vp.State()
	s := fmt.Sprintf("%d%%", st.ZoomLevel)
	if n := len(ed.vp.Selection()); n > 0 {
		s += fmt.Sprintf("  %d selected", n)
	}
	if _, idle := ed.vp.Interaction().(viewport.Idle); !idle {
		s += "  " + ed.vp.Interaction().String()
	}
	return s
}

func (ed *Editor) helpString() string {
	switch ed.mode {
	case ModeInput:
		return "Type text  Enter:Confirm  Esc:Cancel"
	case ModeHelp:
		return "Any key:Close"
	default:
		return "n:New  Del:Delete  +/-:Zoom  Ctrl+S:Save  ?:Help  q:Quit"
	}
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if maxLen <= 0 {
		return ""
	}
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
