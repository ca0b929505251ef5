package render

import (
	"math"

	"github.com/lixenwraith/nbody/core"
	"github.com/lixenwraith/nbody/engine"
	"github.com/lixenwraith/nbody/parameter"
	"github.com/lixenwraith/nbody/vmath"
)

// Camera maps simulation space onto terminal cells
// Zoom is simulation units per column; rows cover CellAspect times as much
type Camera struct {
	Center vmath.Vec2
	Zoom   float64
	Follow bool
	Target core.Handle
}

// NewCamera creates a camera centred on the origin
func NewCamera() *Camera {
	return &Camera{Zoom: parameter.CameraZoom}
}

// Reset restores the initial view and drops follow
func (c *Camera) Reset() {
	*c = Camera{Zoom: parameter.CameraZoom}
}

// WorldToCell projects p for a viewport of w×h cells; y grows downward on screen
func (c *Camera) WorldToCell(p vmath.Vec2, w, h int) (x, y int) {
	fx := (p.X-c.Center.X)/c.Zoom + float64(w)/2
	fy := -(p.Y-c.Center.Y)/(c.Zoom*parameter.CellAspect) + float64(h)/2
	return int(math.Floor(fx)), int(math.Floor(fy))
}

// CellToWorld returns the simulation point at the centre of cell (x, y)
func (c *Camera) CellToWorld(x, y, w, h int) vmath.Vec2 {
	return vmath.Vec2{
		X: (float64(x)+0.5-float64(w)/2)*c.Zoom + c.Center.X,
		Y: -(float64(y)+0.5-float64(h)/2)*c.Zoom*parameter.CellAspect + c.Center.Y,
	}
}

// RadiusCells returns a world radius in columns
func (c *Camera) RadiusCells(r float64) float64 {
	return r / c.Zoom
}

// Pan moves the view by whole cells and stops following
func (c *Camera) Pan(dx, dy int) {
	c.Follow = false
	c.Center.X += float64(dx) * c.Zoom
	c.Center.Y -= float64(dy) * c.Zoom * parameter.CellAspect
}

// ZoomIn shows less space per cell
func (c *Camera) ZoomIn() {
	c.Zoom /= parameter.CameraZoomStep
}

// ZoomOut shows more space per cell
func (c *Camera) ZoomOut() {
	c.Zoom *= parameter.CameraZoomStep
}

// Track recentres on the follow target when following; false when the target is gone
func (c *Camera) Track(bodies []engine.BodyView) bool {
	if !c.Follow {
		return true
	}
	for i := range bodies {
		if bodies[i].Handle == c.Target {
			c.Center = bodies[i].Pos
			return true
		}
	}
	return false
}
