package render

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/nbody/core"
	"github.com/lixenwraith/nbody/engine"
	"github.com/lixenwraith/nbody/parameter"
)

// Overlay carries viewer state drawn on top of the simulation
type Overlay struct {
	FPS        float64
	StepMicros float64
	Merges     int64
	Message    string
	Audio      bool
	CursorX    int
	CursorY    int
	ShowCursor bool
}

// Predefined terminal colors
var (
	RgbBackground = tcell.NewRGBColor(0, 0, 0)
	RgbStatusBar  = tcell.NewRGBColor(40, 40, 60)
	RgbStatusText = tcell.NewRGBColor(200, 200, 220)
	RgbPaused     = tcell.NewRGBColor(255, 180, 0)
	RgbCursor     = tcell.NewRGBColor(0, 255, 255)
)

// traceDim scales trace point brightness
const traceDim = 0.35

// TerminalRenderer draws snapshots onto a tcell screen
// The bottom row is reserved for the status bar
type TerminalRenderer struct {
	screen tcell.Screen
	width  int
	height int
}

// NewTerminalRenderer creates a renderer bound to screen
func NewTerminalRenderer(screen tcell.Screen) *TerminalRenderer {
	w, h := screen.Size()
	return &TerminalRenderer{screen: screen, width: w, height: h}
}

// Resize refreshes cached dimensions after a resize event
func (r *TerminalRenderer) Resize() {
	r.width, r.height = r.screen.Size()
}

// Viewport returns the drawable simulation area in cells
func (r *TerminalRenderer) Viewport() (w, h int) {
	return r.width, max(r.height-1, 0)
}

// RenderFrame renders one full frame
func (r *TerminalRenderer) RenderFrame(snap *engine.Snapshot, cam *Camera, traces *Traces, ov Overlay) {
	r.screen.Clear()
	defaultStyle := tcell.StyleDefault.Background(RgbBackground)
	vw, vh := r.Viewport()

	if traces != nil {
		traces.Each(func(p TracePoint) {
			x, y := cam.WorldToCell(p.Pos, vw, vh)
			r.setCell(x, y, vh, '.', defaultStyle.Foreground(toColor(p.Color.Scale(traceDim))))
		})
	}

	for i := range snap.Bodies {
		r.drawBody(&snap.Bodies[i], cam, vw, vh, defaultStyle)
	}

	r.drawStatusBar(snap, cam, ov)

	if ov.ShowCursor {
		r.screen.ShowCursor(ov.CursorX, ov.CursorY)
	} else {
		r.screen.HideCursor()
	}

	r.screen.Show()
}

// drawBody draws a glyph for sub-cell bodies and a filled ellipse otherwise
func (r *TerminalRenderer) drawBody(b *engine.BodyView, cam *Camera, vw, vh int, defaultStyle tcell.Style) {
	cx, cy := cam.WorldToCell(b.Pos, vw, vh)
	style := defaultStyle.Foreground(toColor(b.Color))
	rc := cam.RadiusCells(b.Radius)

	if rc < 0.75 {
		r.setCell(cx, cy, vh, glyphForRadius(rc), style)
		return
	}

	ry := rc / parameter.CellAspect
	spanX := int(math.Ceil(rc))
	spanY := int(math.Ceil(ry))
	for dy := -spanY; dy <= spanY; dy++ {
		for dx := -spanX; dx <= spanX; dx++ {
			fx := float64(dx) / rc
			fy := float64(dy) / math.Max(ry, 0.5)
			if fx*fx+fy*fy <= 1 {
				r.setCell(cx+dx, cy+dy, vh, '█', style)
			}
		}
	}
}

// glyphForRadius picks a dot size for bodies smaller than a cell
func glyphForRadius(rc float64) rune {
	switch {
	case rc < 0.2:
		return '·'
	case rc < 0.45:
		return '•'
	default:
		return '●'
	}
}

// setCell clips to the simulation viewport
func (r *TerminalRenderer) setCell(x, y, vh int, ch rune, style tcell.Style) {
	if x < 0 || y < 0 || x >= r.width || y >= vh {
		return
	}
	r.screen.SetContent(x, y, ch, nil, style)
}

// drawStatusBar draws the bottom status line
func (r *TerminalRenderer) drawStatusBar(snap *engine.Snapshot, cam *Camera, ov Overlay) {
	if r.height < 1 {
		return
	}
	y := r.height - 1
	barStyle := tcell.StyleDefault.Background(RgbStatusBar).Foreground(RgbStatusText)
	for x := 0; x < r.width; x++ {
		r.screen.SetContent(x, y, ' ', nil, barStyle)
	}

	x := 0
	if snap.Paused {
		x = r.drawText(x, y, " PAUSED ", barStyle.Foreground(RgbPaused).Bold(true))
	}

	follow := ""
	if cam.Follow {
		follow = " follow"
	}
	if ov.Audio {
		follow += " snd"
	}
	p := snap.Params
	text := fmt.Sprintf(" t:%d n:%d m:%d G:%.2f dt:%.4f %s zoom:%.2f%s step:%.0fus fps:%.0f",
		snap.Tick, len(snap.Bodies), ov.Merges, p.G, p.TimeStep, p.Collision, cam.Zoom, follow, ov.StepMicros, ov.FPS)
	x = r.drawText(x, y, text, barStyle)

	if ov.Message != "" {
		r.drawText(x+2, y, ov.Message, barStyle.Foreground(RgbCursor))
	}
}

// drawText writes s from column x and returns the next free column
func (r *TerminalRenderer) drawText(x, y int, s string, style tcell.Style) int {
	for _, ch := range s {
		if x >= r.width {
			break
		}
		r.screen.SetContent(x, y, ch, nil, style)
		x++
	}
	return x
}

// toColor converts to a truecolor tcell color
func toColor(c core.RGB) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
